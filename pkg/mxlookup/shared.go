package mxlookup

import (
	"context"
	"slices"
	"time"

	"golang.org/x/sync/singleflight"
)

// DefaultSharedTimeout bounds a shared lookup when next sets no tighter
// deadline of its own.
const DefaultSharedTimeout = 30 * time.Second

type shared struct {
	next  Resolver
	group singleflight.Group
}

// Shared wraps next so that concurrent lookups of the same domain are
// collapsed into a single call. Results are not kept once the call returns.
//
// The shared call is detached from the cancellation of whichever caller
// started it and is bounded by DefaultSharedTimeout; wrap next with
// WithTimeout for a tighter bound. Each caller still stops waiting, with its
// own context error, as soon as its context ends.
func Shared(next Resolver) Resolver {
	return &shared{next: next}
}

func (s *shared) LookupMX(ctx context.Context, domain string) ([]string, error) {
	ch := s.group.DoChan(domain, func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultSharedTimeout)
		defer cancel()

		return s.next.LookupMX(callCtx, domain)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		hosts, _ := res.Val.([]string)

		// callers must not observe each other's mutations
		return slices.Clone(hosts), nil
	}
}
