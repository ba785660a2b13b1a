package facility

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("facility not found")

type Repository interface {
	ListActive(ctx context.Context) ([]*Facility, error)
	GetActiveByID(ctx context.Context, id int64) (*Facility, error)
}
