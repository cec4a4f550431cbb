package mxlookup

import (
	"context"
	"slices"
	"strings"
)

// Static resolves MX records from an in-memory table keyed by domain. Unknown
// domains have no records. It is used by tests and by the offline resolver
// mode.
type Static map[string][]string

// LookupMX returns a copy of the hosts recorded for domain.
func (s Static) LookupMX(ctx context.Context, domain string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	hosts := s[strings.ToLower(domain)]
	out := make([]string, 0, len(hosts))
	for _, h := range hosts {
		out = append(out, NormalizeHost(h))
	}

	return slices.Clip(out), nil
}

// NormalizeHost lower-cases an MX hostname and strips the root dot.
func NormalizeHost(host string) string {
	return strings.TrimSuffix(strings.ToLower(strings.TrimSpace(host)), ".")
}

var _ Resolver = Static(nil)
