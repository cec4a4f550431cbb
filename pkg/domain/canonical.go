package domain

import (
	"unaliaser/pkg/unaliaser"

	"github.com/go-faster/jx"
)

// Provider classifies who operates the mailbox of an address.
type Provider string

const (
	// ProviderGmail is gmail.com or googlemail.com.
	ProviderGmail Provider = "gmail"
	// ProviderGoogleWorkspace is a custom domain whose MX records point to Google.
	ProviderGoogleWorkspace Provider = "google_workspace"
	// ProviderOther is everything else. Addresses are kept verbatim.
	ProviderOther Provider = "other"
)

// Canonical is the canonical identity of one email address.
type Canonical struct {
	// Input is the address as submitted.
	Input string
	// Clean is Input trimmed and lower-cased.
	Clean string
	// Unique is the canonical key used to compare mailboxes.
	Unique string
	// IsUnique is true when Unique == Clean.
	IsUnique bool

	User   string
	Domain string
	// UniqueDomain is gmail.com for Gmail addresses, Domain otherwise.
	UniqueDomain string
	Provider     Provider

	// Alias is nil when the address has no alias.
	Alias          *string
	Origin         string
	UndottedOrigin string
	Dotted         bool

	// LookupFailed is set when the MX lookup failed and the result was
	// derived assuming the domain is not handled by Google.
	LookupFailed bool
}

// NewCanonical converts an identity into its serializable form.
func NewCanonical(input string, id unaliaser.Identity) Canonical {
	c := Canonical{
		Input:          input,
		Clean:          id.Clean,
		Unique:         id.Unique,
		IsUnique:       id.IsUnique,
		User:           id.User,
		Domain:         id.Domain,
		UniqueDomain:   id.UniqueDomain,
		Provider:       ProviderOther,
		Origin:         id.Origin,
		UndottedOrigin: id.UndottedOrigin,
		Dotted:         id.Dotted,
	}
	switch {
	case id.Gmail:
		c.Provider = ProviderGmail
	case id.GoogleWorkspace:
		c.Provider = ProviderGoogleWorkspace
	}
	if id.HasAlias {
		alias := id.Alias
		c.Alias = &alias
	}

	return c
}

// Encode writes c as a JSON object.
func (c Canonical) Encode(e *jx.Encoder) {
	e.ObjStart()
	e.FieldStart("input")
	e.Str(c.Input)
	e.FieldStart("clean")
	e.Str(c.Clean)
	e.FieldStart("unique")
	e.Str(c.Unique)
	e.FieldStart("isUnique")
	e.Bool(c.IsUnique)
	e.FieldStart("user")
	e.Str(c.User)
	e.FieldStart("domain")
	e.Str(c.Domain)
	e.FieldStart("uniqueDomain")
	e.Str(c.UniqueDomain)
	e.FieldStart("provider")
	e.Str(string(c.Provider))
	e.FieldStart("alias")
	if c.Alias != nil {
		e.Str(*c.Alias)
	} else {
		e.Null()
	}
	e.FieldStart("origin")
	e.Str(c.Origin)
	e.FieldStart("undottedOrigin")
	e.Str(c.UndottedOrigin)
	e.FieldStart("dotted")
	e.Bool(c.Dotted)
	if c.LookupFailed {
		e.FieldStart("lookupFailed")
		e.Bool(true)
	}
	e.ObjEnd()
}

// MarshalJSON implements json.Marshaler.
func (c Canonical) MarshalJSON() ([]byte, error) {
	var e jx.Encoder
	c.Encode(&e)

	return e.Bytes(), nil
}
