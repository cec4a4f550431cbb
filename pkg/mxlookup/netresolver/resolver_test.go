package netresolver_test

import (
	"context"
	"errors"
	"net"
	"testing"

	"unaliaser/pkg/mxlookup/netresolver"

	"github.com/stretchr/testify/require"
)

type lookuperFunc func(ctx context.Context, name string) ([]*net.MX, error)

func (f lookuperFunc) LookupMX(ctx context.Context, name string) ([]*net.MX, error) {
	return f(ctx, name)
}

func TestLookupMX_NormalizesHosts(t *testing.T) {
	r := netresolver.New(lookuperFunc(func(ctx context.Context, name string) ([]*net.MX, error) {
		require.Equal(t, "semalead.com", name)

		return []*net.MX{
			{Host: "ASPMX.L.GOOGLE.COM.", Pref: 1},
			{Host: "alt1.aspmx.l.google.com.", Pref: 5},
			{Host: ".", Pref: 10},
		}, nil
	}))

	hosts, err := r.LookupMX(context.Background(), "semalead.com")
	require.NoError(t, err)
	require.Equal(t, []string{"aspmx.l.google.com", "alt1.aspmx.l.google.com"}, hosts)
}

func TestLookupMX_NotFoundIsEmpty(t *testing.T) {
	r := netresolver.New(lookuperFunc(func(ctx context.Context, name string) ([]*net.MX, error) {
		return nil, &net.DNSError{Err: "no such host", Name: name, IsNotFound: true}
	}))

	hosts, err := r.LookupMX(context.Background(), "does-not-exist.invalid")
	require.NoError(t, err)
	require.Empty(t, hosts)
}

func TestLookupMX_FailurePropagates(t *testing.T) {
	cause := &net.DNSError{Err: "server misbehaving", Name: "bar.com", IsTemporary: true}
	r := netresolver.New(lookuperFunc(func(ctx context.Context, name string) ([]*net.MX, error) {
		return nil, cause
	}))

	_, err := r.LookupMX(context.Background(), "bar.com")
	require.Error(t, err)

	var dnsErr *net.DNSError
	require.True(t, errors.As(err, &dnsErr))
	require.Contains(t, err.Error(), "bar.com")
}

func TestNew_DefaultsToSystemResolver(t *testing.T) {
	require.NotNil(t, netresolver.New(nil))
}
