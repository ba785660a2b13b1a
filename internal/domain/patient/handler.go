package patient

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/ehr/records/internal/platform/apierror"
	"github.com/ehr/records/pkg/pagination"
)

const birthDateLayout = "2006-01-02"

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// RegisterRoutes mounts the patient endpoints. mw is expected to carry the
// token validator.
func (h *Handler) RegisterRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.GET("/patient/:rut", h.GetByRUT, mw...)
	g.GET("/patients/search", h.Search, mw...)
}

type listResponse struct {
	Status string     `json:"status"`
	Data   []*Patient `json:"data"`
}

func (h *Handler) GetByRUT(c echo.Context) error {
	p, err := h.svc.GetByRUT(c.Request().Context(), strings.TrimSpace(c.Param("rut")))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Status: "success", Data: []*Patient{p}})
}

func (h *Handler) Search(c echo.Context) error {
	criteria, err := CriteriaFromQuery(c)
	if err != nil {
		return err
	}
	// Without a limit parameter every match is returned.
	page := pagination.FromContextAll(c)

	patients, more, err := h.svc.Search(c.Request().Context(), criteria, page)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, pagination.NewResponse(patients, page, more))
}

// CriteriaFromQuery reads the search filters from the query string:
// rut, nombre, apellido, fecha_nacimiento (AAAA-MM-DD), email and telefono.
func CriteriaFromQuery(c echo.Context) (Criteria, error) {
	q := func(name string) string { return strings.TrimSpace(c.QueryParam(name)) }

	criteria := Criteria{
		RUT:       q("rut"),
		FirstName: q("nombre"),
		LastName:  q("apellido"),
		Email:     q("email"),
		Phone:     q("telefono"),
	}
	if raw := q("fecha_nacimiento"); raw != "" {
		d, err := time.Parse(birthDateLayout, raw)
		if err != nil {
			return Criteria{}, apierror.Validation("fecha_nacimiento debe tener el formato AAAA-MM-DD.")
		}
		criteria.BirthDate = &d
	}
	return criteria, nil
}
