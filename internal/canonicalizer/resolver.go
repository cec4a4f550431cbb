package canonicalizer

import (
	"fmt"

	"unaliaser/internal/config"
	"unaliaser/pkg/mxlookup"
	"unaliaser/pkg/mxlookup/dnsclient"
	"unaliaser/pkg/mxlookup/netresolver"

	"go.opentelemetry.io/otel/metric"
)

// NewResolver builds the MX lookup service described by cfg.DNS.
//
// Lookups go through, from the outside in: metrics, in-flight sharing, the
// overall timeout, then retries around the base resolver. The timeout bounds
// the shared call, not any single caller.
func NewResolver(cfg *config.Config, meter metric.Meter) (mxlookup.Resolver, error) {
	var base mxlookup.Resolver
	switch cfg.DNS.Resolver {
	case config.ResolverSystem:
		base = netresolver.New(nil)
	case config.ResolverDirect:
		base = dnsclient.New(dnsclient.Options{
			Server:  cfg.DNS.Server,
			Net:     cfg.DNS.Net,
			Timeout: cfg.DNS.Timeout,
		})
	case config.ResolverStatic:
		base = mxlookup.Static(cfg.DNS.Static)
	default:
		return nil, fmt.Errorf("unknown dns resolver %q", cfg.DNS.Resolver)
	}

	resolver := mxlookup.WithRetry(base, mxlookup.RetryOptions{
		MaxRetries:      cfg.DNS.MaxRetries,
		InitialInterval: cfg.DNS.RetryInitialInterval,
		MaxInterval:     cfg.DNS.RetryMaxInterval,
	})
	resolver = mxlookup.WithTimeout(resolver, cfg.DNS.Timeout)
	resolver = mxlookup.Shared(resolver)

	resolver, err := mxlookup.Instrumented(resolver, meter)
	if err != nil {
		return nil, fmt.Errorf("could not instrument resolver: %w", err)
	}

	return resolver, nil
}
