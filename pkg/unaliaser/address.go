// Package unaliaser turns an email address into a canonical identity key so
// that addresses reaching the same Google mailbox compare equal.
//
// Gmail ignores dots in the local part and everything after a '+', and
// delivers googlemail.com mail to the same gmail.com account. Google Workspace
// domains, detected through their MX records, share the dot and '+' rules but
// keep their own domain. Every other provider is left untouched: dots and
// '+' suffixes may distinguish real mailboxes there.
//
// An Address is immutable. Methods that depend on whether the domain is
// operated by Google may perform an MX lookup through the injected
// mxlookup.Resolver; they take a context and report lookup failures as
// serrors.ErrLookup. Nothing is cached between calls.
package unaliaser

import (
	"context"
	"errors"
	"strings"

	"unaliaser/pkg/mxlookup"
	"unaliaser/pkg/serrors"

	"github.com/asaskevich/govalidator"
)

const (
	// GmailDomain is the domain every Gmail address is folded to.
	GmailDomain = "gmail.com"
	// GooglemailDomain is the legacy Gmail domain, equivalent to GmailDomain.
	GooglemailDomain = "googlemail.com"
)

// googleMXSuffixes are the hostname suffixes of Google's mail exchangers.
var googleMXSuffixes = []string{".googlemail.com", ".google.com"} //nolint: gochecknoglobals

// Validator reports whether a cleaned email address is syntactically valid.
type Validator func(email string) bool

// Option customizes New.
type Option func(*Address)

// WithValidator replaces the default syntax validator (govalidator.IsEmail).
func WithValidator(v Validator) Option {
	return func(a *Address) {
		a.validate = v
	}
}

// Address is a parsed email address. All fields are set once by New.
type Address struct {
	raw    string
	clean  string
	user   string
	domain string

	resolver mxlookup.Resolver
	validate Validator
}

// New parses email. The input is trimmed and lower-cased before validation.
// It fails with serrors.ErrInvalidFormat when the result is not a valid
// address, does not contain exactly one '@', or has an empty local part or
// domain.
//
// resolver is used by methods that need the domain's MX records.
func New(email string, resolver mxlookup.Resolver, opts ...Option) (*Address, error) {
	a := &Address{
		raw:      email,
		clean:    strings.ToLower(strings.TrimSpace(email)),
		resolver: resolver,
		validate: govalidator.IsEmail,
	}
	for _, opt := range opts {
		opt(a)
	}

	if strings.Count(a.clean, "@") != 1 {
		return nil, serrors.With(serrors.ErrInvalidFormat, "%q must contain exactly one '@'", a.clean)
	}
	a.user, a.domain, _ = strings.Cut(a.clean, "@")
	if a.user == "" || a.domain == "" {
		return nil, serrors.With(serrors.ErrInvalidFormat, "%q has an empty local part or domain", a.clean)
	}
	if a.validate == nil || !a.validate(a.clean) {
		return nil, serrors.With(serrors.ErrInvalidFormat, "%q is not a valid email address", a.clean)
	}

	return a, nil
}

// Raw returns the input exactly as given to New.
func (a *Address) Raw() string { return a.raw }

// CleanEmail returns the trimmed, lower-cased address.
func (a *Address) CleanEmail() string { return a.clean }

// DomainName returns the part after the '@'.
func (a *Address) DomainName() string { return a.domain }

// UserName returns the local part, before the '@'.
func (a *Address) UserName() string { return a.user }

// IsGmail reports whether the domain is one of the Gmail webmail domains.
func (a *Address) IsGmail() bool {
	return a.domain == GmailDomain || a.domain == GooglemailDomain
}

// MXRecords returns the MX hostnames of the domain, most preferred first.
// A domain without records yields an empty slice.
func (a *Address) MXRecords(ctx context.Context) ([]string, error) {
	if a.resolver == nil {
		return nil, serrors.With(serrors.ErrLookup, "no MX resolver configured")
	}

	hosts, err := a.resolver.LookupMX(ctx, a.domain)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, serrors.Wrap(serrors.ErrTimeout,
				serrors.Wrap(serrors.ErrLookup, err, "could not lookup MX records of %s", a.domain),
				"MX lookup of %s timed out", a.domain)
		}

		return nil, serrors.Wrap(serrors.ErrLookup, err, "could not lookup MX records of %s", a.domain)
	}

	return hosts, nil
}

// IsGoogleWorkspace reports whether the domain is a custom domain whose mail
// is handled by Google. Gmail domains are never Workspace domains and do not
// trigger a lookup. A domain without MX records is not a Workspace domain.
func (a *Address) IsGoogleWorkspace(ctx context.Context) (bool, error) {
	if a.IsGmail() {
		return false, nil
	}

	hosts, err := a.MXRecords(ctx)
	if err != nil {
		return false, err
	}

	return hostedByGoogle(hosts), nil
}

// IsGoogle reports whether the address is a Gmail or Google Workspace one.
func (a *Address) IsGoogle(ctx context.Context) (bool, error) {
	if a.IsGmail() {
		return true, nil
	}

	return a.IsGoogleWorkspace(ctx)
}

// UniqueDomainName returns gmail.com for both Gmail domains and the domain
// itself otherwise. Workspace domains keep their own domain.
func (a *Address) UniqueDomainName() string {
	if a.IsGmail() {
		return GmailDomain
	}

	return a.domain
}

// UserAlias returns the text after the first '+' of the local part. ok is
// false when the address is not a Google one, when there is no '+', or when
// the '+' is the first character.
func (a *Address) UserAlias(ctx context.Context) (alias string, ok bool, err error) {
	google, err := a.IsGoogle(ctx)
	if err != nil {
		return "", false, err
	}

	_, alias, ok = splitAlias(a.user, google)

	return alias, ok, nil
}

// HasUserAlias reports whether UserAlias is present.
func (a *Address) HasUserAlias(ctx context.Context) (bool, error) {
	_, ok, err := a.UserAlias(ctx)

	return ok, err
}

// UserOrigin returns the local part without its alias, or the whole local
// part when there is no qualifying alias.
func (a *Address) UserOrigin(ctx context.Context) (string, error) {
	google, err := a.IsGoogle(ctx)
	if err != nil {
		return "", err
	}

	origin, _, _ := splitAlias(a.user, google)

	return origin, nil
}

// UserUndottedOrigin returns UserOrigin without dots for Google addresses,
// and the unchanged local part for everything else.
func (a *Address) UserUndottedOrigin(ctx context.Context) (string, error) {
	google, err := a.IsGoogle(ctx)
	if err != nil {
		return "", err
	}

	return undottedOrigin(a.user, google), nil
}

// UserIsDotted reports whether removing dots changed the origin.
func (a *Address) UserIsDotted(ctx context.Context) (bool, error) {
	google, err := a.IsGoogle(ctx)
	if err != nil {
		return false, err
	}

	origin, _, _ := splitAlias(a.user, google)

	return undottedOrigin(a.user, google) != origin, nil
}

// Unique returns the canonical identity key: the clean address for non
// Google addresses, the undotted origin at the unique domain otherwise.
func (a *Address) Unique(ctx context.Context) (string, error) {
	google, err := a.IsGoogle(ctx)
	if err != nil {
		return "", err
	}

	return a.unique(google), nil
}

// IsUnique reports whether the address already is its own canonical key.
func (a *Address) IsUnique(ctx context.Context) (bool, error) {
	unique, err := a.Unique(ctx)
	if err != nil {
		return false, err
	}

	return unique == a.clean, nil
}

// Equivalent reports whether a and other have the same canonical key.
func (a *Address) Equivalent(ctx context.Context, other *Address) (bool, error) {
	mine, err := a.Unique(ctx)
	if err != nil {
		return false, err
	}
	theirs, err := other.Unique(ctx)
	if err != nil {
		return false, err
	}

	return mine == theirs, nil
}

func (a *Address) unique(google bool) string {
	if !google {
		return a.clean
	}

	return undottedOrigin(a.user, google) + "@" + a.UniqueDomainName()
}

func hostedByGoogle(hosts []string) bool {
	for _, host := range hosts {
		host = mxlookup.NormalizeHost(host)
		for _, suffix := range googleMXSuffixes {
			if strings.HasSuffix(host, suffix) {
				return true
			}
		}
	}

	return false
}

// splitAlias splits user on its first '+'. A '+' at index 0 never starts an
// alias, and only Google addresses have aliases at all.
func splitAlias(user string, google bool) (origin, alias string, ok bool) {
	i := strings.IndexByte(user, '+')
	if i < 1 || !google {
		return user, "", false
	}

	return user[:i], user[i+1:], true
}

func undottedOrigin(user string, google bool) string {
	if !google {
		return user
	}

	origin, _, _ := splitAlias(user, google)

	return strings.ReplaceAll(origin, ".", "")
}
