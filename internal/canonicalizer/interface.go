package canonicalizer

import (
	"context"

	"unaliaser/pkg/domain"
)

//go:generate mockgen -package mockcanonicalizer -source=interface.go -destination=mock/mockcanonicalizer.go *
type Canonicalizer interface {
	Canonicalize(ctx context.Context, email string) (*domain.Canonical, error)
	CanonicalizeBatch(ctx context.Context, emails []string) ([]domain.BatchItem, error)
	Equivalent(ctx context.Context, a, b string) (*domain.Equivalence, error)
}
