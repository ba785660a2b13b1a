package speciality

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("speciality offering not found")

type Repository interface {
	ListActive(ctx context.Context) ([]*Speciality, error)
	// FirstOffering returns the first active offering of the speciality.
	FirstOffering(ctx context.Context, specialityID int64) (*Offering, error)
}
