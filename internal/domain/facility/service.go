package facility

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
	return &Service{repo: repo, logger: logger.With().Str("component", "facility").Logger()}
}

// List returns every active facility. No match is an empty list, not an error.
func (s *Service) List(ctx context.Context) ([]*Facility, error) {
	s.logger.Info().Msg("listing facilities")
	facilities, err := s.repo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("list facilities failed")
		return nil, apierror.Internal("Error interno al obtener sucursales.", err)
	}
	return facilities, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Facility, error) {
	s.logger.Info().Int64("id", id).Msg("facility lookup")

	if id <= 0 {
		s.logger.Warn().Int64("id", id).Msg("facility lookup with invalid id")
		return nil, apierror.Validation(fmt.Sprintf("El ID de sucursal '%d' no es válido.", id))
	}

	f, err := s.repo.GetActiveByID(ctx, id)
	if errors.Is(err, ErrNotFound) {
		s.logger.Info().Int64("id", id).Msg("facility not found")
		return nil, apierror.NotFound(fmt.Sprintf("Sucursal con ID %d no encontrada.", id))
	}
	if err != nil {
		s.logger.Error().Err(err).Int64("id", id).Msg("facility lookup failed")
		return nil, apierror.Internal("Error interno al obtener la sucursal.", err)
	}
	return f, nil
}
