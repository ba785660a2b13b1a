package facility

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
)

var errDB = errors.New("connection refused")

func strPtr(s string) *string { return &s }

type mockRepo struct {
	facilities []*Facility
	err        error
	lookups    int
}

func (m *mockRepo) ListActive(context.Context) ([]*Facility, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]*Facility{}, m.facilities...), nil
}

func (m *mockRepo) GetActiveByID(_ context.Context, id int64) (*Facility, error) {
	m.lookups++
	if m.err != nil {
		return nil, m.err
	}
	for _, f := range m.facilities {
		if f.ID == id {
			return f, nil
		}
	}
	return nil, ErrNotFound
}

func seededRepo() *mockRepo {
	return &mockRepo{facilities: []*Facility{
		{ID: 3, Name: "Sucursal Centro", City: strPtr("Santiago")},
		{ID: 5, Name: "Sucursal Norte", Phone: strPtr("+5622222222")},
	}}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, zerolog.New(io.Discard))
}
