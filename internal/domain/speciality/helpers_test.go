package speciality

import (
	"context"
	"errors"
	"io"

	"github.com/rs/zerolog"
)

var errDB = errors.New("too many connections")

func strPtr(s string) *string { return &s }
func int64Ptr(v int64) *int64 { return &v }

type mockRepo struct {
	specialities []*Speciality
	offerings    []*Offering
	err          error
}

func (m *mockRepo) ListActive(context.Context) ([]*Speciality, error) {
	if m.err != nil {
		return nil, m.err
	}
	return append([]*Speciality{}, m.specialities...), nil
}

func (m *mockRepo) FirstOffering(_ context.Context, id int64) (*Offering, error) {
	if m.err != nil {
		return nil, m.err
	}
	for _, o := range m.offerings {
		if o.SpecialityID != nil && *o.SpecialityID == id {
			return o, nil
		}
	}
	return nil, ErrNotFound
}

func seededRepo() *mockRepo {
	return &mockRepo{
		specialities: []*Speciality{
			{ListID: "especialidades", OptionID: "12", Title: strPtr("Cardiología"), GroupID: int64Ptr(1), GroupName: strPtr("Médicas")},
			{ListID: "especialidades", OptionID: "15", Title: strPtr("Kinesiología")},
		},
		offerings: []*Offering{
			{CategoryID: 40, Name: strPtr("Consulta cardiología"), Duration: 1800, CategoryType: "0", Active: 1, SpecialityID: int64Ptr(12)},
			{CategoryID: 41, Name: strPtr("Control cardiología"), Duration: 900, CategoryType: "0", Active: 1, SpecialityID: int64Ptr(12)},
		},
	}
}

func newTestService(repo Repository) *Service {
	return NewService(repo, zerolog.New(io.Discard))
}
