package patient

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/rs/zerolog"
)

var errDB = errors.New("connection reset by peer")

func strPtr(s string) *string { return &s }

// -- Mock Repository --

type mockRepo struct {
	patients []*Patient
	err      error

	lastCriteria Criteria
	lastLimit    int
	lastOffset   int
}

func (m *mockRepo) GetByRUT(_ context.Context, rut string) (*Patient, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, p := range m.patients {
		if p.RUT != nil && *p.RUT == rut {
			return p, nil
		}
	}
	return nil, ErrNotFound
}

func (m *mockRepo) Search(_ context.Context, c Criteria, limit, offset int) ([]*Patient, error) {
	m.lastCriteria, m.lastLimit, m.lastOffset = c, limit, offset
	if m.err != nil {
		return nil, m.err
	}
	var out []*Patient
	for _, p := range m.patients {
		if c.FirstName != "" && (p.FirstName == nil || !strings.Contains(*p.FirstName, c.FirstName)) {
			continue
		}
		if c.RUT != "" && (p.RUT == nil || *p.RUT != c.RUT) {
			continue
		}
		out = append(out, p)
	}
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func seededRepo() *mockRepo {
	return &mockRepo{patients: []*Patient{
		{ID: 1, RUT: strPtr("12345678-9"), FirstName: strPtr("Ana"), PaternalName: strPtr("González")},
		{ID: 2, RUT: strPtr("9876543-K"), FirstName: strPtr("Andrés"), PaternalName: strPtr("Rojas")},
		{ID: 3, RUT: strPtr("11111111-1"), FirstName: strPtr("Beatriz"), PaternalName: strPtr("Soto")},
	}}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, zerolog.New(io.Discard))
}
