package facility

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
	g.GET("/facility", h.List, mw...)
	g.GET("/facility/:id", h.Get, mw...)
}

type listResponse struct {
	Status string      `json:"status"`
	Data   []*Facility `json:"data"`
}

func (h *Handler) List(c echo.Context) error {
	facilities, err := h.svc.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Status: "success", Data: facilities})
}

func (h *Handler) Get(c echo.Context) error {
	// Anything that is not an integer is treated as id 0 and rejected.
	id, err := strconv.ParseInt(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil {
		id = 0
	}
	f, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, listResponse{Status: "success", Data: []*Facility{f}})
}
