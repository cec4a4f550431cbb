package serrors_test

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"unaliaser/pkg/serrors"

	"github.com/stretchr/testify/require"
)

type dnsError struct{ name string }

func (e dnsError) Error() string { return "lookup " + e.name + ": no such host" }

func TestKindsDistinct(t *testing.T) {
	kinds := []serrors.Kind{
		serrors.ErrInvalidFormat,
		serrors.ErrLookup,
		serrors.ErrBadRequest,
		serrors.ErrUnauthorized,
		serrors.ErrInternal,
		serrors.ErrTimeout,
	}
	seen := map[serrors.Kind]bool{}
	for i, k := range kinds {
		require.NotNil(t, k, "kind at index %d is nil", i)
		require.False(t, seen[k], "kind at index %d is duplicate: %v", i, k)
		seen[k] = true
	}
}

func TestErrorFormatting(t *testing.T) {
	base := errors.New("i/o timeout")

	e1 := serrors.With(serrors.ErrInvalidFormat, "%q is not an email address", "foo")
	require.Equal(t, `"foo" is not an email address`, e1.Error())

	e2 := serrors.Wrap(serrors.ErrLookup, base, "could not lookup MX records of %s", "bar.com")
	require.Equal(t, "could not lookup MX records of bar.com: i/o timeout", e2.Error())

	e3 := serrors.KindOnly(serrors.ErrLookup)
	require.Equal(t, "LOOKUP", e3.Error())
}

func TestIsMatchesKindAndWrapped(t *testing.T) {
	base := dnsError{"bar.com"}
	e := serrors.Wrap(serrors.ErrLookup, base, "resolving")

	require.ErrorIs(t, e, serrors.ErrLookup)
	require.ErrorIs(t, e, base)
	require.NotErrorIs(t, e, serrors.ErrInvalidFormat)

	// kinds survive further fmt wrapping
	wrapped := fmt.Errorf("could not canonicalize: %w", e)
	require.ErrorIs(t, wrapped, serrors.ErrLookup)
}

func TestAsMatchesKindAndWrapped(t *testing.T) {
	base := &dnsError{"bar.com"}
	e := serrors.Wrap(serrors.ErrLookup, base, "resolving")

	var k serrors.Kind
	require.ErrorAs(t, e, &k)
	require.Equal(t, serrors.ErrLookup, k)

	var de *dnsError
	require.ErrorAs(t, e, &de)
	require.Equal(t, base, de)
}

func TestKindOf(t *testing.T) {
	require.Nil(t, serrors.KindOf(nil))
	require.Nil(t, serrors.KindOf(errors.New("plain")))
	require.Equal(t, serrors.ErrInvalidFormat, serrors.KindOf(serrors.ErrInvalidFormat))

	inner := serrors.Wrap(serrors.ErrLookup, context.DeadlineExceeded, "resolving")
	require.Equal(t, serrors.ErrLookup, serrors.KindOf(fmt.Errorf("outer: %w", inner)))

	outer := serrors.Wrap(serrors.ErrTimeout, inner, "timed out")
	require.Equal(t, serrors.ErrTimeout, serrors.KindOf(outer))
	require.ErrorIs(t, outer, serrors.ErrLookup)
	require.ErrorIs(t, outer, context.DeadlineExceeded)
}

func TestAccessors(t *testing.T) {
	base := errors.New("boom")
	e := serrors.Wrap(serrors.ErrUnauthorized, base, "no token")
	require.Equal(t, serrors.ErrUnauthorized, e.Kind())
	require.Equal(t, "no token", e.Message())
	require.Equal(t, base, e.Cause())
}
