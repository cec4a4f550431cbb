package unaliaser

import "context"

// Identity holds every derived fact about an address. It is computed with at
// most one MX lookup, whereas calling the individual methods of Address one by
// one looks the domain up each time.
type Identity struct {
	Clean  string
	User   string
	Domain string

	Gmail           bool
	GoogleWorkspace bool

	// Alias is meaningful only when HasAlias is true; an empty alias
	// ("foo+@gmail.com") is distinct from no alias.
	Alias    string
	HasAlias bool

	Origin         string
	UndottedOrigin string
	Dotted         bool

	UniqueDomain string
	Unique       string
	IsUnique     bool
}

// Google reports whether the address is handled by Google.
func (id Identity) Google() bool {
	return id.Gmail || id.GoogleWorkspace
}

// Identity classifies the address and derives its canonical form.
func (a *Address) Identity(ctx context.Context) (Identity, error) {
	workspace, err := a.IsGoogleWorkspace(ctx)
	if err != nil {
		return Identity{}, err
	}

	return a.identity(workspace), nil
}

// IdentityWithoutLookup derives the canonical form without consulting MX
// records: Gmail domains are still recognized, every other domain is treated
// as not handled by Google. It exists for callers that explicitly choose to
// degrade when the lookup service is unavailable.
func (a *Address) IdentityWithoutLookup() Identity {
	return a.identity(false)
}

func (a *Address) identity(workspace bool) Identity {
	gmail := a.IsGmail()
	google := gmail || workspace
	origin, alias, hasAlias := splitAlias(a.user, google)
	undotted := undottedOrigin(a.user, google)
	unique := a.unique(google)

	return Identity{
		Clean:           a.clean,
		User:            a.user,
		Domain:          a.domain,
		Gmail:           gmail,
		GoogleWorkspace: workspace,
		Alias:           alias,
		HasAlias:        hasAlias,
		Origin:          origin,
		UndottedOrigin:  undotted,
		Dotted:          undotted != origin,
		UniqueDomain:    a.UniqueDomainName(),
		Unique:          unique,
		IsUnique:        unique == a.clean,
	}
}
