package main

import (
	"errors"
	"fmt"
	"time"

	"unaliaser/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// signClientToken returns an RS256 JWT whose subject is clientID, valid for ttl.
func signClientToken(privateKeyPEM string, clientID uuid.UUID, ttl time.Duration, now time.Time) (string, error) {
	if privateKeyPEM == "" {
		return "", errors.New("jwt.privateKey is not configured")
	}

	key, err := jwt.ParseRSAPrivateKeyFromPEM([]byte(privateKeyPEM))
	if err != nil {
		return "", fmt.Errorf("could not parse RSA private key: %w", err)
	}

	claims := jwt.RegisteredClaims{
		Subject:   clientID.String(),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(key)
	if err != nil {
		return "", fmt.Errorf("could not sign JWT: %w", err)
	}

	return signed, nil
}

// JWTCommand constructs the 'jwt' subcommand that generates a signed RS256 JWT
// for a given subject (API client ID) and TTL using the configured private key.
func JWTCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jwt",
		Short: "Generates a JWT token for the given API client ID",
		RunE: func(cmd *cobra.Command, args []string) error {
			subject, _ := cmd.Flags().GetString("subject")
			TTL, _ := cmd.Flags().GetDuration("ttl")

			clientID, err := uuid.Parse(subject)
			if err != nil {
				return fmt.Errorf("subject must be a UUID: %w", err)
			}

			signed, err := signClientToken(cfg.JWT.PrivateKey, clientID, TTL, time.Now())
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), signed)

			return err
		},
	}

	cmd.Flags().String("subject", "", "JWT subject (API client UUID)")
	cmd.Flags().Duration("ttl", 24*time.Hour, "Token TTL (e.g., 30s, 15m, 1h)")
	_ = cmd.MarkFlagRequired("subject")

	return cmd
}
