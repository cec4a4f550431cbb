package v1handler

import (
	"context"
	"crypto/rsa"
	"fmt"
	"net/http"
	"strings"

	"unaliaser/internal/config"
	"unaliaser/pkg/domain"
	"unaliaser/pkg/logger"
	"unaliaser/pkg/serrors"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ctxKey string

// ClientIDKey is the context key under which the authenticated domain.ClientID is stored.
const ClientIDKey ctxKey = "clientID"

// SecHandlerOptions configures bearer authentication.
type SecHandlerOptions struct {
	// PublicKey is the PEM encoded RSA key verifying RS256 tokens. An empty
	// key disables authentication.
	PublicKey string
}

// NewSecHandlerOptions constructs SecHandlerOptions from the application config.
func NewSecHandlerOptions(cfg *config.Config) *SecHandlerOptions {
	return &SecHandlerOptions{PublicKey: cfg.JWT.PublicKey}
}

// SecHandler authenticates API clients with RS256 signed JWTs whose subject
// is the client ID.
type SecHandler struct {
	key    *rsa.PublicKey
	parser *jwt.Parser
}

func NewSecHandler(opts *SecHandlerOptions) (*SecHandler, error) {
	sh := &SecHandler{
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodRS256.Alg()}),
			jwt.WithExpirationRequired(),
		),
	}
	if opts == nil || opts.PublicKey == "" {
		return sh, nil
	}

	key, err := jwt.ParseRSAPublicKeyFromPEM([]byte(opts.PublicKey))
	if err != nil {
		return nil, fmt.Errorf("could not parse RSA public key: %w", err)
	}
	sh.key = key

	return sh, nil
}

// Enabled reports whether requests must carry a bearer token.
func (s *SecHandler) Enabled() bool {
	return s.key != nil
}

// HandleBearerAuth validates token and returns ctx carrying the client ID.
func (s *SecHandler) HandleBearerAuth(ctx context.Context, token string) (context.Context, error) {
	if !s.Enabled() {
		return ctx, nil
	}

	var claims jwt.RegisteredClaims
	if _, err := s.parser.ParseWithClaims(token, &claims, func(*jwt.Token) (any, error) {
		return s.key, nil
	}); err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return ctx, serrors.Wrap(serrors.ErrUnauthorized, err, "invalid token subject")
	}

	ctx = context.WithValue(ctx, ClientIDKey, domain.ClientID(id))
	ctx = logger.WithFields(ctx, zap.String("client_id", id.String()))

	return ctx, nil
}

// ClientID returns the authenticated client, if any.
func ClientID(ctx context.Context) (domain.ClientID, bool) {
	id, ok := ctx.Value(ClientIDKey).(domain.ClientID)

	return id, ok
}

// Middleware authenticates every request before passing it to next.
// Failures are answered through h.
func (s *SecHandler) Middleware(h *Handler, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.Enabled() {
			next.ServeHTTP(w, r)

			return
		}

		scheme, token, ok := strings.Cut(r.Header.Get("Authorization"), " ")
		if !ok || !strings.EqualFold(scheme, "Bearer") || token == "" {
			h.writeError(w, r, serrors.With(serrors.ErrUnauthorized, "missing bearer token"))

			return
		}

		ctx, err := s.HandleBearerAuth(r.Context(), strings.TrimSpace(token))
		if err != nil {
			h.writeError(w, r, err)

			return
		}

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
