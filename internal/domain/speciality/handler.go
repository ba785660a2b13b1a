package speciality

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.GET("/speciality", h.List, mw...)
	g.GET("/speciality/:id", h.GetOffering, mw...)
}

func (h *Handler) List(c echo.Context) error {
	specialities, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"status": "success", "data": specialities})
}

func (h *Handler) GetOffering(c echo.Context) error {
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		id = 0
	}
	o, err := h.svc.Offering(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"status": "success", "data": []*Offering{o}})
}
