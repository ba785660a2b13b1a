package patient

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Repository lookups that match no row.
var ErrNotFound = errors.New("patient not found")

// ErrNoCriteria is returned by Search when no filter is set, so a search can
// never scan the whole patient table.
var ErrNoCriteria = errors.New("patient search without criteria")

type Repository interface {
	GetByRUT(ctx context.Context, rut string) (*Patient, error)
	// Search returns matches ordered by id. A limit of 0 returns every match.
	Search(ctx context.Context, c Criteria, limit, offset int) ([]*Patient, error)
}
