package auth

import (
	"errors"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/ehr/records/internal/platform/apierror"
)

// LoginRequest is the body of POST /login, accepted as JSON or form data.
type LoginRequest struct {
	Username        string `json:"username" form:"username"`
	Password        string `json:"password" form:"password"`
	APISecret       string `json:"API_SECRET" form:"API_SECRET"`
	APISecretLegacy string `json:"api_secret" form:"api_secret"`
}

func (r LoginRequest) input() LoginInput {
	secret := r.APISecret
	if secret == "" {
		secret = r.APISecretLegacy
	}
	return LoginInput{
		Username:  strings.TrimSpace(r.Username),
		Password:  strings.TrimSpace(r.Password),
		APISecret: strings.TrimSpace(secret),
	}
}

// LoginResponse wraps a successful login.
type LoginResponse struct {
	Status string      `json:"status"`
	Data   *AuthResult `json:"data"`
}

// Handler serves the login route.
type Handler struct {
	svc           *Service
	basePath      string
	publicBaseURL string
}

// NewHandler creates the login handler. basePath is where the API is mounted
// and is used to build photo URLs for localhost requests; publicBaseURL, when
// set, overrides the derived photo base URL.
func NewHandler(svc *Service, basePath, publicBaseURL string) *Handler {
	return &Handler{svc: svc, basePath: basePath, publicBaseURL: publicBaseURL}
}

// RegisterRoutes mounts POST /login. mw is applied in order, so the API-key
// gate is expected first.
func (h *Handler) RegisterRoutes(g *echo.Group, mw ...echo.MiddlewareFunc) {
	g.POST("/login", h.Login, mw...)
}

func (h *Handler) Login(c echo.Context) error {
	var req LoginRequest
	// An unreadable body is treated like an empty one, except when the
	// body limit tripped mid-read.
	if err := c.Bind(&req); err != nil {
		if ae, ok := apierror.As(err); ok {
			return ae
		}
		req = LoginRequest{}
	}

	result, err := h.svc.Login(c.Request().Context(), req.input(), h.photoBaseURL(c.Request().Host))
	if err != nil {
		if f, ok := AsFailure(err); ok {
			return apierror.Auth(f.Reason).WithStatus("invalido")
		}
		if errors.Is(err, ErrMissingCredentials) {
			return apierror.Validation(err.Error())
		}
		return apierror.Internal("login", err).WithStatus("error")
	}

	return c.JSON(http.StatusOK, LoginResponse{Status: "valido", Data: result})
}

func (h *Handler) photoBaseURL(host string) string {
	if h.publicBaseURL != "" {
		return h.publicBaseURL
	}
	if host == "" {
		host = "localhost"
	}
	if host == "localhost" {
		return "http://" + host + h.basePath + "/"
	}
	return "/"
}
