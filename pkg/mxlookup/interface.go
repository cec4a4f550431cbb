// Package mxlookup defines the MX lookup service used to classify mail
// domains, plus a static fixture resolver and decorators (retries, shared
// in-flight lookups, metrics) that compose around any implementation.
package mxlookup

import "context"

// Resolver returns the mail exchange hostnames of a domain.
//
// Implementations return hostnames lower-cased, without the trailing root
// dot, ordered by MX preference (most preferred first). A domain that has no
// MX records, including one that does not exist, yields an empty slice and a
// nil error. Any other failure is returned as an error.
//
//go:generate mockgen -package mockmxlookup -source=interface.go -destination=mock/mockmxlookup.go *
type Resolver interface {
	LookupMX(ctx context.Context, domain string) ([]string, error)
}

// ResolverFunc adapts a plain function to Resolver.
type ResolverFunc func(ctx context.Context, domain string) ([]string, error)

// LookupMX calls f(ctx, domain).
func (f ResolverFunc) LookupMX(ctx context.Context, domain string) ([]string, error) {
	return f(ctx, domain)
}
