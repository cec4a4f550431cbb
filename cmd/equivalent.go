package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"unaliaser/internal/config"

	"github.com/go-faster/jx"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel/metric/noop"
)

func equivalentCommand(cfg *config.Config) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "equivalent <email> <email>",
		Short: "Tells whether two addresses reach the same mailbox",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			asJSON, _ := cmd.Flags().GetBool("json")

			ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			svc, err := newCanonicalizer(cfg, noop.NewMeterProvider().Meter("unaliaser"))
			if err != nil {
				return err
			}

			res, err := svc.Equivalent(ctx, args[0], args[1])
			if err != nil {
				return err
			}

			out := fmt.Sprint(res.Equivalent)
			if asJSON {
				e := jx.GetEncoder()
				defer jx.PutEncoder(e)
				res.Encode(e)
				out = e.String()
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), out)

			return err
		},
	}

	cmd.Flags().Bool("json", false, "Print both canonical keys as JSON")

	return cmd
}
