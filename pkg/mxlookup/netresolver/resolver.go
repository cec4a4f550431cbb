// Package netresolver provides an mxlookup.Resolver backed by the operating
// system resolver through net.Resolver.
package netresolver

import (
	"context"
	"errors"
	"fmt"
	"net"

	"unaliaser/pkg/mxlookup"
)

// Lookuper is the subset of *net.Resolver used by Resolver.
type Lookuper interface {
	LookupMX(ctx context.Context, name string) ([]*net.MX, error)
}

// Resolver looks up MX records with the system resolver. It is safe for
// concurrent use.
type Resolver struct {
	lookuper Lookuper
}

// LookupMX returns the MX hosts of domain ordered by preference. NXDOMAIN and
// empty answers are reported as no records.
func (r *Resolver) LookupMX(ctx context.Context, domain string) ([]string, error) {
	records, err := r.lookuper.LookupMX(ctx, domain)
	if err != nil {
		var dnsErr *net.DNSError
		if errors.As(err, &dnsErr) && dnsErr.IsNotFound {
			return []string{}, nil
		}

		return nil, fmt.Errorf("could not lookup MX records of %s: %w", domain, err)
	}

	// net.Resolver already sorts by preference and randomizes ties
	hosts := make([]string, 0, len(records))
	for _, mx := range records {
		if host := mxlookup.NormalizeHost(mx.Host); host != "" {
			hosts = append(hosts, host)
		}
	}

	return hosts, nil
}

var _ mxlookup.Resolver = (*Resolver)(nil)

// New returns a Resolver using lookuper, or net.DefaultResolver when nil.
func New(lookuper Lookuper) *Resolver {
	if lookuper == nil {
		lookuper = net.DefaultResolver
	}

	return &Resolver{lookuper: lookuper}
}
