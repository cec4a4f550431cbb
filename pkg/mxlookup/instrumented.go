package mxlookup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"unaliaser/pkg/metrics"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

const (
	outcomeFound    = "found"
	outcomeNoRecord = "no_records"
	outcomeError    = "error"
	outcomeTimeout  = "timeout"
)

type instrumented struct {
	next     Resolver
	duration metric.Float64Histogram
	lookups  metric.Int64Counter
}

// Instrumented wraps next and records the latency and outcome of every
// lookup on meter.
func Instrumented(next Resolver, meter metric.Meter) (Resolver, error) {
	duration, err := meter.Float64Histogram("unaliaser.mx_lookup.duration",
		metric.WithDescription("Duration of MX lookups."),
		metric.WithUnit("s"),
		metric.WithExplicitBucketBoundaries(metrics.DefaultBuckets...))
	if err != nil {
		return nil, fmt.Errorf("could not create mx lookup duration histogram: %w", err)
	}

	lookups, err := meter.Int64Counter("unaliaser.mx_lookup.count",
		metric.WithDescription("Number of MX lookups by outcome."))
	if err != nil {
		return nil, fmt.Errorf("could not create mx lookup counter: %w", err)
	}

	return &instrumented{next: next, duration: duration, lookups: lookups}, nil
}

func (i *instrumented) LookupMX(ctx context.Context, domain string) ([]string, error) {
	start := time.Now()
	hosts, err := i.next.LookupMX(ctx, domain)

	outcome := outcomeFound
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		outcome = outcomeTimeout
	case err != nil:
		outcome = outcomeError
	case len(hosts) == 0:
		outcome = outcomeNoRecord
	}

	attrs := metric.WithAttributes(attribute.String("outcome", outcome))
	i.duration.Record(ctx, time.Since(start).Seconds(), attrs)
	i.lookups.Add(ctx, 1, attrs)

	return hosts, err
}
