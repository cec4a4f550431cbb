package mxlookup

import (
	"context"
	"fmt"
	"time"

	"unaliaser/pkg/logger"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"
)

// RetryOptions configures WithRetry.
type RetryOptions struct {
	// MaxRetries is the number of additional attempts after the first failure.
	MaxRetries uint64
	// InitialInterval is the delay before the first retry. It grows exponentially.
	InitialInterval time.Duration
	// MaxInterval caps the delay between two attempts.
	MaxInterval time.Duration
}

type retrying struct {
	next    Resolver
	options RetryOptions
}

// WithRetry wraps next so that failed lookups are retried with exponential
// backoff. Context cancellation stops retrying immediately.
func WithRetry(next Resolver, options RetryOptions) Resolver {
	if options.MaxRetries == 0 {
		return next
	}

	return &retrying{next: next, options: options}
}

func (r *retrying) newBackOff(ctx context.Context) backoff.BackOff {
	exp := backoff.NewExponentialBackOff()
	if r.options.InitialInterval > 0 {
		exp.InitialInterval = r.options.InitialInterval
	}
	if r.options.MaxInterval > 0 {
		exp.MaxInterval = r.options.MaxInterval
	}
	// attempts are bounded by MaxRetries, not by elapsed time
	exp.MaxElapsedTime = 0
	exp.Reset()

	return backoff.WithContext(backoff.WithMaxRetries(exp, r.options.MaxRetries), ctx)
}

func (r *retrying) LookupMX(ctx context.Context, domain string) ([]string, error) {
	var hosts []string
	op := func() error {
		res, err := r.next.LookupMX(ctx, domain)
		if err != nil {
			// an attempt that timed out on its own is retried while ctx lives
			if ctx.Err() != nil {
				return backoff.Permanent(err)
			}

			return err
		}
		hosts = res

		return nil
	}
	notify := func(err error, wait time.Duration) {
		logger.Debug(ctx, "retrying MX lookup",
			zap.String("domain", domain), zap.Duration("wait", wait), zap.Error(err))
	}

	if err := backoff.RetryNotify(op, r.newBackOff(ctx), notify); err != nil {
		return nil, fmt.Errorf("could not lookup MX of %s after retries: %w", domain, err)
	}

	return hosts, nil
}
