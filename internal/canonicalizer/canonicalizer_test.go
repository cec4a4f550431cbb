package canonicalizer_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"unaliaser/internal/canonicalizer"
	"unaliaser/pkg/domain"
	"unaliaser/pkg/mxlookup"
	mockmxlookup "unaliaser/pkg/mxlookup/mock"
	"unaliaser/pkg/serrors"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/metric/noop"
	"go.uber.org/mock/gomock"
)

var fixtures = mxlookup.Static{ //nolint: gochecknoglobals
	"semalead.com": {"aspmx.l.google.com", "alt1.aspmx.l.google.com"},
	"example.org":  {"mx.example.org"},
}

func newTestCanonicalizer(t *testing.T, resolver mxlookup.Resolver, options canonicalizer.Options) canonicalizer.Canonicalizer {
	t.Helper()

	c, err := canonicalizer.New(resolver, noop.NewMeterProvider().Meter("test"), options)
	require.NoError(t, err)

	return c
}

func TestCanonicalize(t *testing.T) {
	c := newTestCanonicalizer(t, fixtures, canonicalizer.Options{})

	res, err := c.Canonicalize(context.Background(), " Foo.Bar+News@GoogleMail.com ")
	require.NoError(t, err)
	require.Equal(t, " Foo.Bar+News@GoogleMail.com ", res.Input)
	require.Equal(t, "foo.bar+news@googlemail.com", res.Clean)
	require.Equal(t, "foobar@gmail.com", res.Unique)
	require.Equal(t, domain.ProviderGmail, res.Provider)
	require.NotNil(t, res.Alias)
	require.Equal(t, "news", *res.Alias)
	require.False(t, res.LookupFailed)

	res, err = c.Canonicalize(context.Background(), "j.doe+crm@semalead.com")
	require.NoError(t, err)
	require.Equal(t, "jdoe@semalead.com", res.Unique)
	require.Equal(t, domain.ProviderGoogleWorkspace, res.Provider)

	res, err = c.Canonicalize(context.Background(), "j.doe+crm@example.org")
	require.NoError(t, err)
	require.Equal(t, "j.doe+crm@example.org", res.Unique)
	require.Equal(t, domain.ProviderOther, res.Provider)
	require.Nil(t, res.Alias)
	require.True(t, res.IsUnique)
}

func TestCanonicalize_InvalidFormat(t *testing.T) {
	c := newTestCanonicalizer(t, fixtures, canonicalizer.Options{})

	_, err := c.Canonicalize(context.Background(), "not-an-email")
	require.ErrorIs(t, err, serrors.ErrInvalidFormat)
}

func TestCanonicalize_CustomValidator(t *testing.T) {
	c := newTestCanonicalizer(t, fixtures, canonicalizer.Options{
		Validator: func(string) bool { return false },
	})

	_, err := c.Canonicalize(context.Background(), "foo@gmail.com")
	require.ErrorIs(t, err, serrors.ErrInvalidFormat)
}

func TestCanonicalize_LookupFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mockmxlookup.NewMockResolver(ctrl)
	resolver.EXPECT().LookupMX(gomock.Any(), "semalead.com").
		Return(nil, errors.New("server misbehaving")).Times(2)

	strict := newTestCanonicalizer(t, resolver, canonicalizer.Options{})
	_, err := strict.Canonicalize(context.Background(), "j.doe+crm@semalead.com")
	require.ErrorIs(t, err, serrors.ErrLookup)

	lenient := newTestCanonicalizer(t, resolver, canonicalizer.Options{AssumeOtherOnLookupFailure: true})
	res, err := lenient.Canonicalize(context.Background(), "j.doe+crm@semalead.com")
	require.NoError(t, err)
	require.True(t, res.LookupFailed)
	require.Equal(t, domain.ProviderOther, res.Provider)
	require.Equal(t, "j.doe+crm@semalead.com", res.Unique)
}

func TestCanonicalize_CanceledCallerIsNotDegraded(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	resolver := mxlookup.ResolverFunc(func(ctx context.Context, _ string) ([]string, error) {
		cancel()

		return nil, ctx.Err()
	})

	c := newTestCanonicalizer(t, resolver, canonicalizer.Options{AssumeOtherOnLookupFailure: true})
	_, err := c.Canonicalize(ctx, "j.doe@semalead.com")
	require.ErrorIs(t, err, context.Canceled)
}

func TestCanonicalize_GmailNeverLooksUp(t *testing.T) {
	ctrl := gomock.NewController(t)
	resolver := mockmxlookup.NewMockResolver(ctrl)

	c := newTestCanonicalizer(t, resolver, canonicalizer.Options{})
	res, err := c.Canonicalize(context.Background(), "f.o.o@gmail.com")
	require.NoError(t, err)
	require.Equal(t, "foo@gmail.com", res.Unique)
}

func TestCanonicalizeBatch(t *testing.T) {
	c := newTestCanonicalizer(t, fixtures, canonicalizer.Options{BatchConcurrency: 2, MaxBatchSize: 10})

	emails := []string{"f.o.o+a@gmail.com", "nope", "x.y@semalead.com", "x.y@example.org"}
	items, err := c.CanonicalizeBatch(context.Background(), emails)
	require.NoError(t, err)
	require.Len(t, items, len(emails))

	for i, item := range items {
		require.Equal(t, emails[i], item.Input)
	}

	require.Equal(t, "foo@gmail.com", items[0].Result.Unique)
	require.Nil(t, items[0].Error)

	require.Nil(t, items[1].Result)
	require.Equal(t, "INVALID_FORMAT", items[1].Error.Code)
	require.NotEmpty(t, items[1].Error.Message)

	require.Equal(t, "xy@semalead.com", items[2].Result.Unique)
	require.Equal(t, "x.y@example.org", items[3].Result.Unique)
}

func TestCanonicalizeBatch_LookupErrorsStayOnTheirItem(t *testing.T) {
	resolver := mxlookup.ResolverFunc(func(_ context.Context, domain string) ([]string, error) {
		if domain == "broken.test" {
			return nil, errors.New("server misbehaving")
		}

		return fixtures.LookupMX(context.Background(), domain)
	})
	c := newTestCanonicalizer(t, resolver, canonicalizer.Options{BatchConcurrency: 4, MaxBatchSize: 10})

	items, err := c.CanonicalizeBatch(context.Background(), []string{"a@broken.test", "a.b@semalead.com"})
	require.NoError(t, err)
	require.Equal(t, "LOOKUP", items[0].Error.Code)
	require.Equal(t, "ab@semalead.com", items[1].Result.Unique)
}

func TestCanonicalizeBatch_TooLarge(t *testing.T) {
	c := newTestCanonicalizer(t, fixtures, canonicalizer.Options{MaxBatchSize: 1})

	_, err := c.CanonicalizeBatch(context.Background(), []string{"a@gmail.com", "b@gmail.com"})
	require.ErrorIs(t, err, serrors.ErrBadRequest)
}

func TestCanonicalizeBatch_Empty(t *testing.T) {
	c := newTestCanonicalizer(t, fixtures, canonicalizer.Options{MaxBatchSize: 1})

	items, err := c.CanonicalizeBatch(context.Background(), nil)
	require.NoError(t, err)
	require.Empty(t, items)
}

func TestCanonicalizeBatch_Deadline(t *testing.T) {
	resolver := mxlookup.ResolverFunc(func(ctx context.Context, _ string) ([]string, error) {
		<-ctx.Done()

		return nil, ctx.Err()
	})
	c := newTestCanonicalizer(t, resolver, canonicalizer.Options{BatchConcurrency: 1, MaxBatchSize: 10})

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.CanonicalizeBatch(ctx, []string{"a@example.org", "b@example.org"})
	require.ErrorIs(t, err, serrors.ErrTimeout)
}

func TestEquivalent(t *testing.T) {
	c := newTestCanonicalizer(t, fixtures, canonicalizer.Options{})

	eq, err := c.Equivalent(context.Background(), "John.Doe+x@googlemail.com", "johndoe@gmail.com")
	require.NoError(t, err)
	require.True(t, eq.Equivalent)
	require.Equal(t, "johndoe@gmail.com", eq.A.Unique)
	require.Equal(t, "johndoe@gmail.com", eq.B.Unique)

	eq, err = c.Equivalent(context.Background(), "john.doe@example.org", "johndoe@example.org")
	require.NoError(t, err)
	require.False(t, eq.Equivalent)

	_, err = c.Equivalent(context.Background(), "john.doe@example.org", "oops")
	require.ErrorIs(t, err, serrors.ErrInvalidFormat)
}

func TestCanonicalize_SharedLookupSurvivesOtherCallerCancel(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	resolver := mxlookup.Shared(mxlookup.ResolverFunc(func(ctx context.Context, _ string) ([]string, error) {
		once.Do(func() { close(entered) })
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-release:
			return []string{"aspmx.l.google.com"}, nil
		}
	}))
	c := newTestCanonicalizer(t, resolver, canonicalizer.Options{AssumeOtherOnLookupFailure: true})

	starterCtx, cancelStarter := context.WithCancel(context.Background())
	starterErr := make(chan error, 1)
	go func() {
		_, err := c.Canonicalize(starterCtx, "x@semalead.com")
		starterErr <- err
	}()
	<-entered

	type result struct {
		res *domain.Canonical
		err error
	}
	healthy := make(chan result, 1)
	go func() {
		res, err := c.Canonicalize(context.Background(), "f.o.o+1@semalead.com")
		healthy <- result{res: res, err: err}
	}()
	// let the healthy caller join the in-flight lookup
	time.Sleep(20 * time.Millisecond)

	cancelStarter()
	require.ErrorIs(t, <-starterErr, context.Canceled)

	close(release)
	got := <-healthy
	require.NoError(t, got.err)
	require.False(t, got.res.LookupFailed)
	require.Equal(t, domain.ProviderGoogleWorkspace, got.res.Provider)
	require.Equal(t, "foo@semalead.com", got.res.Unique)
}
