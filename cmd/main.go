// Package main provides the CLI entrypoint for unaliaser.
// It wires subcommands (unique, equivalent, serve, jwt), loads configuration, and initializes logging.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"unaliaser/internal/canonicalizer"
	"unaliaser/internal/config"
	"unaliaser/pkg/logger"

	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
)

// newCanonicalizer builds the canonicalization service and its MX resolver
// from configuration, recording metrics on meter.
func newCanonicalizer(cfg *config.Config, meter metric.Meter) (canonicalizer.Canonicalizer, error) {
	resolver, err := canonicalizer.NewResolver(cfg, meter)
	if err != nil {
		return nil, fmt.Errorf("could not create MX resolver: %w", err)
	}

	svc, err := canonicalizer.New(resolver, meter, canonicalizer.NewOptions(cfg))
	if err != nil {
		return nil, fmt.Errorf("could not create canonicalizer: %w", err)
	}

	return svc, nil
}

// main sets up the root Cobra command, loads configuration and logging, and
// registers subcommands before executing the CLI.
func main() {
	rootCmd := &cobra.Command{
		Use:          "unaliaser",
		Short:        "Canonicalizes email addresses handled by Gmail and Google Workspace",
		SilenceUsage: true,
	}

	// there is no way to access flags before command execution in cobra.
	// configPath here is parsed using the standard flags package.
	// following line is just added to prevent errors when Cobra is parsing the flags.
	rootCmd.PersistentFlags().StringP("config", "c", "config.yml", "Config File Path")

	configPath := flag.String("c", "config.yml", "The config file path")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal("could not load config file: ", err)
	}

	if err := logger.Setup(cfg.Environment); err != nil {
		log.Fatal("could not setup logger: ", err)
	}

	ctx := context.Background()

	defer func() {
		if p := recover(); p != nil {
			logger.Error(ctx, "captured panic, exiting...", zap.Any("panic", p))
			logger.Sync(ctx)

			panic(p)
		}
	}()

	rootCmd.AddCommand(
		uniqueCommand(cfg),
		equivalentCommand(cfg),
		serveCommand(cfg),
		JWTCommand(cfg),
	)

	err = rootCmd.Execute()
	logger.Sync(ctx)
	if err != nil {
		os.Exit(1) //nolint: gocritic
	}
}
