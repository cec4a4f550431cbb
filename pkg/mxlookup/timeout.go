package mxlookup

import (
	"context"
	"time"
)

type timeout struct {
	next    Resolver
	timeout time.Duration
}

// WithTimeout bounds every lookup made through next to d. A non positive d
// returns next unchanged.
func WithTimeout(next Resolver, d time.Duration) Resolver {
	if d <= 0 {
		return next
	}

	return &timeout{next: next, timeout: d}
}

func (t *timeout) LookupMX(ctx context.Context, domain string) ([]string, error) {
	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	return t.next.LookupMX(ctx, domain)
}
