package patient

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"github.com/rs/zerolog"

	"github.com/ehr/records/internal/platform/apierror"
	"github.com/ehr/records/pkg/pagination"
)

// rutPattern is the accepted shape of a Chilean RUT: 7 or 8 digits, a dash,
// and a digit or K check character. The check digit itself is not verified.
var rutPattern = regexp.MustCompile(`^\d{7,8}-[\dkK]$`)

const dbFaultMessage = "Error interno al consultar la base de datos."

type Service struct {
	repo   Repository
	logger zerolog.Logger
}

func NewService(repo Repository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger.With().Str("component", "patient").Logger()}
}

// ValidRUT reports whether rut has the accepted shape.
func ValidRUT(rut string) bool {
	return rutPattern.MatchString(rut)
}

func (s *Service) GetByRUT(ctx context.Context, rut string) (*Patient, error) {
	s.logger.Info().Str("rut", rut).Msg("patient lookup by rut")

	if !ValidRUT(rut) {
		s.logger.Warn().Str("rut", rut).Msg("patient lookup with invalid rut")
		return nil, apierror.Validation(fmt.Sprintf("RUT %s no es válido o falta.", rut))
	}

	p, err := s.repo.GetByRUT(ctx, rut)
	if errors.Is(err, ErrNotFound) {
		s.logger.Info().Str("rut", rut).Msg("patient not found")
		return nil, apierror.NotFound(fmt.Sprintf("Paciente con RUT %s no encontrado.", rut))
	}
	if err != nil {
		s.logger.Error().Err(err).Str("rut", rut).Msg("patient lookup failed")
		return nil, apierror.Internal(dbFaultMessage, err)
	}
	return p, nil
}

const noCriteriaMessage = "Debe especificar al menos un criterio de búsqueda."

// Search returns one page of patients matching c and whether another page
// follows. An unbounded page returns every match. An empty result is
// reported as not found.
func (s *Service) Search(ctx context.Context, c Criteria, page pagination.Params) ([]*Patient, bool, error) {
	s.logger.Info().Int("limit", page.Limit).Int("offset", page.Offset).Msg("patient search")

	if c.IsEmpty() {
		s.logger.Warn().Msg("patient search without criteria")
		return nil, false, apierror.Validation(noCriteriaMessage)
	}

	found, err := s.repo.Search(ctx, c, page.Probe(), page.Offset)
	if errors.Is(err, ErrNoCriteria) {
		return nil, false, apierror.Validation(noCriteriaMessage)
	}
	if err != nil {
		s.logger.Error().Err(err).Msg("patient search failed")
		return nil, false, apierror.Internal(dbFaultMessage, err)
	}

	patients, more := pagination.Trim(found, page)
	s.logger.Info().Int("count", len(patients)).Msg("patient search completed")
	if len(patients) == 0 {
		return nil, false, apierror.NotFound("No se encontraron pacientes")
	}
	return patients, more, nil
}
