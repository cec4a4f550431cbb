package unaliaser_test

import (
	"context"
	"testing"

	"unaliaser/pkg/unaliaser"

	"github.com/stretchr/testify/require"
)

// corpus mixes Gmail, Workspace and ordinary addresses with every alias and
// dot combination the rules care about.
var corpus = []string{ //nolint: gochecknoglobals
	"foo@bar.com", "f.o.o@bar.com", "foo+123@bar.com", "+alias@bar.com", "FOO@BAR.COM",
	"foo@gmail.com", "f.o.o@gmail.com", "foo+123@gmail.com", "f.o.o+1.2@gmail.com", "+x@gmail.com",
	"foo@googlemail.com", "f.o.o+123@googlemail.com", "a.+b@googlemail.com",
	"lucas@semalead.com", "lu.cas+alias@semalead.com", "+x.y@semalead.com", "x@legacy.org",
	"first.last@example.org", "first.last+tag@example.org",
}

func TestProperties(t *testing.T) {
	ctx := context.Background()

	for _, in := range corpus {
		t.Run(in, func(t *testing.T) {
			a := mustNew(t, in)

			// reconstruction
			require.Equal(t, a.CleanEmail(), a.UserName()+"@"+a.DomainName())

			unique, err := a.Unique(ctx)
			require.NoError(t, err)

			// IsUnique is exactly "normalization was a no-op"
			isUnique, err := a.IsUnique(ctx)
			require.NoError(t, err)
			require.Equal(t, unique == a.CleanEmail(), isUnique)

			// the canonical key is a fixed point
			again, err := unaliaser.New(unique, fixture)
			require.NoError(t, err)
			twice, err := again.Unique(ctx)
			require.NoError(t, err)
			require.Equal(t, unique, twice)

			// non Google domains are preserved verbatim
			google, err := a.IsGoogle(ctx)
			require.NoError(t, err)
			if !google {
				require.Equal(t, a.CleanEmail(), unique)
			}

			// webmail and Workspace are mutually exclusive
			workspace, err := a.IsGoogleWorkspace(ctx)
			require.NoError(t, err)
			require.False(t, a.IsGmail() && workspace)
		})
	}
}

func TestIdentityMatchesMethods(t *testing.T) {
	ctx := context.Background()

	for _, in := range corpus {
		t.Run(in, func(t *testing.T) {
			a := mustNew(t, in)
			id, err := a.Identity(ctx)
			require.NoError(t, err)

			workspace, _ := a.IsGoogleWorkspace(ctx)
			google, _ := a.IsGoogle(ctx)
			alias, hasAlias, _ := a.UserAlias(ctx)
			origin, _ := a.UserOrigin(ctx)
			undotted, _ := a.UserUndottedOrigin(ctx)
			dotted, _ := a.UserIsDotted(ctx)
			unique, _ := a.Unique(ctx)
			isUnique, _ := a.IsUnique(ctx)

			require.Equal(t, unaliaser.Identity{
				Clean:           a.CleanEmail(),
				User:            a.UserName(),
				Domain:          a.DomainName(),
				Gmail:           a.IsGmail(),
				GoogleWorkspace: workspace,
				Alias:           alias,
				HasAlias:        hasAlias,
				Origin:          origin,
				UndottedOrigin:  undotted,
				Dotted:          dotted,
				UniqueDomain:    a.UniqueDomainName(),
				Unique:          unique,
				IsUnique:        isUnique,
			}, id)
			require.Equal(t, google, id.Google())
		})
	}
}

func TestIdentityWithoutLookup(t *testing.T) {
	a := mustNew(t, "lu.cas+alias@semalead.com")
	id := a.IdentityWithoutLookup()
	require.False(t, id.Google())
	require.Equal(t, "lu.cas+alias@semalead.com", id.Unique)
	require.True(t, id.IsUnique)
	require.False(t, id.HasAlias)

	g := mustNew(t, "lu.cas+alias@googlemail.com").IdentityWithoutLookup()
	require.True(t, g.Gmail)
	require.Equal(t, "lucas@gmail.com", g.Unique)
	require.Equal(t, "alias", g.Alias)
	require.True(t, g.Dotted)
}
