package speciality

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ehr/records/internal/platform/apierror"
)

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "speciality").Logger()}
}

func (s *Service) List(ctx context.Context) ([]*Speciality, error) {
	s.logger.Info().Msg("listing specialities")
	specialities, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list specialities failed")
		return nil, apierror.Internal("Error interno al obtener especialidades.", err)
	}
	return specialities, nil
}

// Offering returns the first active offering for the speciality id.
func (s *Service) Offering(ctx context.Context, id int64) (*Offering, error) {
	s.logger.Info().Int64("id", id).Msg("speciality offering lookup")

	if id <= 0 {
		s.logger.Warn().Int64("id", id).Msg("speciality lookup with invalid id")
		return nil, apierror.Validation(fmt.Sprintf("El ID de especialidad '%d' no es válido.", id))
	}

	o, err := s.repo.FirstOffering(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s.logger.Info().Int64("id", id).Msg("speciality offering not found")
		return nil, apierror.NotFound(fmt.Sprintf("Prestaciones con ID %d de especialidad no encontrada.", id))
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("speciality offering lookup failed")
		return nil, apierror.Internal("Error interno al obtener las prestaciones.", err)
	}
	return o, nil
}
