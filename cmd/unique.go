package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"

	"unaliaser/internal/canonicalizer"
	"unaliaser/internal/config"
	"unaliaser/pkg/domain"

	"github.com/go-faster/jx"
	"github.com/hashicorp/go-multierror"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"
)

// readAddresses returns args, or the non-blank lines of r when args is empty.
func readAddresses(args []string, r io.Reader) ([]string, error) {
	if len(args) > 0 {
		return args, nil
	}

	var emails []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			emails = append(emails, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("could not read addresses: %w", err)
	}

	return emails, nil
}

// canonicalizeAll runs emails through svc in batches of at most size
// addresses, keeping their order.
func canonicalizeAll(
	ctx context.Context,
	svc canonicalizer.Canonicalizer,
	emails []string,
	size int) ([]domain.BatchItem, error) {
	if size < 1 {
		size = len(emails)
	}

	items := make([]domain.BatchItem, 0, len(emails))
	for start := 0; start < len(emails); start += size {
		end := min(start+size, len(emails))
		batch, err := svc.CanonicalizeBatch(ctx, emails[start:end])
		if err != nil {
			return nil, fmt.Errorf("could not canonicalize addresses: %w", err)
		}
		items = append(items, batch...)
	}

	return items, nil
}

// writeItems prints one line per item: the canonical key, or the whole item
// as JSON when asJSON is set. Failed items are collected into the returned
// error; in plain mode they print an empty line so output lines stay paired
// with input lines.
func writeItems(out io.Writer, items []domain.BatchItem, asJSON bool) error {
	var merr *multierror.Error
	e := jx.GetEncoder()
	defer jx.PutEncoder(e)

	for _, item := range items {
		if item.Error != nil {
			merr = multierror.Append(merr, fmt.Errorf("%s: %s", item.Input, item.Error.Message))
		}

		var line string
		switch {
		case asJSON:
			e.Reset()
			item.Encode(e)
			line = e.String()
		case item.Result != nil:
			line = item.Result.Unique
		}
		if _, err := fmt.Fprintln(out, line); err != nil {
			return fmt.Errorf("could not write output: %w", err)
		}
	}

	return merr.ErrorOrNil()
}

func uniqueCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "unique [email...]",
		Short: "Prints the canonical key of each address",
		Long: "Prints the canonical key of each address, one per line. " +
			"Addresses are read from stdin, one per line, when none is given as argument.",
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			emails, err := readAddresses(args, cmd.InOrStdin())
			if err != nil {
				return err
			}

			svc, err := newCanonicalizer(cfg, noop.NewMeterProvider().Meter("unaliaser"))
			if err != nil {
				return err
			}

			items, err := canonicalizeAll(ctx, svc, emails, cfg.Canonicalizer.MaxBatchSize)
			if err != nil {
				return err
			}

			return writeItems(cmd.OutOrStdout(), items, asJSON)
		},
	}

	cmd.Flags().Bool("json", false, "Print every derived fact as one JSON object per line")

	return cmd
}
