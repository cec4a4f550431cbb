package canonicalizer

import (
	"context"
	"errors"
	"fmt"

	"unaliaser/internal/config"
	"unaliaser/pkg/domain"
	"unaliaser/pkg/logger"
	"unaliaser/pkg/mxlookup"
	"unaliaser/pkg/serrors"
	"unaliaser/pkg/unaliaser"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Options configure batching and the lookup failure policy. These settings
// are typically derived from application configuration.
type Options struct {
	// BatchConcurrency is the number of addresses of one batch canonicalized
	// at the same time.
	BatchConcurrency int
	// MaxBatchSize is the maximum number of addresses accepted in one batch.
	MaxBatchSize int
	// AssumeOtherOnLookupFailure makes a failed MX lookup degrade to "not
	// handled by Google" instead of failing. Degraded results carry
	// LookupFailed.
	AssumeOtherOnLookupFailure bool
	// Validator overrides the default email syntax validator when set.
	Validator unaliaser.Validator
}

// NewOptions constructs an Options value from the provided application config.
func NewOptions(cfg *config.Config) Options {
	return Options{
		BatchConcurrency:           cfg.Canonicalizer.BatchConcurrency,
		MaxBatchSize:               cfg.Canonicalizer.MaxBatchSize,
		AssumeOtherOnLookupFailure: cfg.Canonicalizer.AssumeOtherOnLookupFailure,
	}
}

// canonicalizer is the concrete implementation of the Canonicalizer interface.
type canonicalizer struct {
	options  Options
	resolver mxlookup.Resolver
	// processed counts canonicalized addresses by provider and outcome.
	processed metric.Int64Counter
}

// Canonicalize parses email and derives its canonical identity.
func (c *canonicalizer) Canonicalize(ctx context.Context, email string) (*domain.Canonical, error) {
	addr, err := c.parse(email)
	if err != nil {
		c.record(ctx, "", "invalid")

		return nil, err
	}

	id, err := addr.Identity(ctx)
	if err != nil {
		if !c.degrade(ctx, err) {
			c.record(ctx, "", "error")

			return nil, fmt.Errorf("could not canonicalize %s: %w", addr.CleanEmail(), err)
		}

		logger.Warn(ctx, "MX lookup failed, assuming domain is not handled by Google",
			zap.String("domain", addr.DomainName()), zap.Error(err))
		res := domain.NewCanonical(email, addr.IdentityWithoutLookup())
		res.LookupFailed = true
		c.record(ctx, res.Provider, "degraded")

		return &res, nil
	}

	res := domain.NewCanonical(email, id)
	c.record(ctx, res.Provider, "ok")

	return &res, nil
}

// CanonicalizeBatch canonicalizes every address of emails, keeping their
// order. A failure on one address is reported on its item and does not
// affect the others. The call itself fails only when the batch is too large
// or ctx ends.
func (c *canonicalizer) CanonicalizeBatch(ctx context.Context, emails []string) ([]domain.BatchItem, error) {
	if c.options.MaxBatchSize > 0 && len(emails) > c.options.MaxBatchSize {
		return nil, serrors.With(serrors.ErrBadRequest,
			"batch of %d addresses exceeds the limit of %d", len(emails), c.options.MaxBatchSize)
	}

	items := make([]domain.BatchItem, len(emails))
	g, gctx := errgroup.WithContext(ctx)
	if c.options.BatchConcurrency > 0 {
		g.SetLimit(c.options.BatchConcurrency)
	}

	for i, email := range emails {
		g.Go(func() error {
			// each goroutine writes only its own slot
			items[i].Input = email
			res, err := c.Canonicalize(gctx, email)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				items[i].Error = itemError(err)

				return nil
			}
			items[i].Result = res

			return nil
		})
	}

	if err := g.Wait(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, serrors.Wrap(serrors.ErrTimeout, err, "batch interrupted")
		}

		return nil, fmt.Errorf("batch interrupted: %w", err)
	}

	return items, nil
}

// Equivalent reports whether a and b reach the same mailbox. Both addresses
// are canonicalized concurrently.
func (c *canonicalizer) Equivalent(ctx context.Context, a, b string) (*domain.Equivalence, error) {
	var ca, cb *domain.Canonical
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		ca, err = c.Canonicalize(gctx, a)

		return err
	})
	g.Go(func() error {
		var err error
		cb, err = c.Canonicalize(gctx, b)

		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &domain.Equivalence{
		A:          *ca,
		B:          *cb,
		Equivalent: ca.Unique == cb.Unique,
	}, nil
}

func (c *canonicalizer) parse(email string) (*unaliaser.Address, error) {
	var opts []unaliaser.Option
	if c.options.Validator != nil {
		opts = append(opts, unaliaser.WithValidator(c.options.Validator))
	}

	return unaliaser.New(email, c.resolver, opts...)
}

// degrade reports whether a lookup failure may be replaced by a lookup free
// identity. A caller whose own context ended always gets the error.
func (c *canonicalizer) degrade(ctx context.Context, err error) bool {
	return c.options.AssumeOtherOnLookupFailure &&
		errors.Is(err, serrors.ErrLookup) &&
		ctx.Err() == nil
}

func (c *canonicalizer) record(ctx context.Context, provider domain.Provider, outcome string) {
	c.processed.Add(ctx, 1, metric.WithAttributes(
		attribute.String("provider", string(provider)),
		attribute.String("outcome", outcome),
	))
}

// itemError converts err into the error reported on a batch item.
func itemError(err error) *domain.ItemError {
	kind := serrors.KindOf(err)
	if kind == nil {
		kind = serrors.ErrInternal
	}

	return &domain.ItemError{Code: kind.Error(), Message: err.Error()}
}

// New creates a Canonicalizer resolving MX records through resolver and
// recording its metrics on meter.
func New(resolver mxlookup.Resolver, meter metric.Meter, options Options) (Canonicalizer, error) {
	processed, err := meter.Int64Counter("unaliaser.canonicalizations",
		metric.WithDescription("Number of canonicalized addresses by provider and outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create canonicalizations counter: %w", err)
	}

	return &canonicalizer{
		options:   options,
		resolver:  resolver,
		processed: processed,
	}, nil
}
