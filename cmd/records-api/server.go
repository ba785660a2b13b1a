package main

import (
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"

	"github.com/ehr/records/internal/config"
	"github.com/ehr/records/internal/domain/facility"
	"github.com/ehr/records/internal/domain/patient"
	"github.com/ehr/records/internal/domain/speciality"
	"github.com/ehr/records/internal/platform/apierror"
	"github.com/ehr/records/internal/platform/auth"
	"github.com/ehr/records/internal/platform/metrics"
	"github.com/ehr/records/internal/platform/middleware"
)

const welcomeMessage = "Bienvenido a la API v4!"

// loginBodyLimit caps POST /login payloads.
const loginBodyLimit = "64K"

// authStore is the persistence the login flow and the token validator need.
// PGStore and InMemoryStore both satisfy it.
type authStore interface {
	auth.PrincipalStore
	auth.SessionStore
}

// serverDeps carries everything newServer wires together. Storage is passed
// in so the router can be built without a database in tests.
type serverDeps struct {
	cfg          *config.Config
	logger       zerolog.Logger
	metrics      *metrics.Metrics
	auth         authStore
	patients     patient.Repository
	facilities   facility.Repository
	specialities speciality.Repository
	dbHealth     echo.HandlerFunc
	now          func() time.Time
}

func newLogger(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.LogLevel))
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}
	logger := zerolog.New(os.Stdout).Level(level).With().Timestamp().Logger()
	if cfg.IsDev() {
		logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return logger
}

func newServer(d serverDeps) *echo.Echo {
	cfg, logger := d.cfg, d.logger
	if d.now == nil {
		d.now = time.Now
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = apierror.Handler(logger)

	// Global middleware
	e.Use(middleware.RequestID())
	e.Use(middleware.Logger(logger))
	e.Use(middleware.Recovery(logger))
	e.Use(d.metrics.Middleware())
	e.Use(middleware.SecurityHeaders(cfg.IsProduction()))
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: cfg.CORSOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowHeaders: []string{"Authorization", "Content-Type", "X-Request-ID", auth.APIKeyHeader},
	}))

	api := e.Group(cfg.BasePath)

	welcome := func(c echo.Context) error {
		return c.String(http.StatusOK, welcomeMessage)
	}
	api.GET("/", welcome)
	if cfg.BasePath != "" {
		api.GET("", welcome)
	}
	api.GET("/hello/:name", func(c echo.Context) error {
		return c.String(http.StatusOK, "Hello, "+c.Param("name"))
	})
	api.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if d.dbHealth != nil {
		api.GET("/health/db", d.dbHealth)
	}
	api.GET("/metrics", d.metrics.Handler())

	// Login
	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	issuer := auth.NewIssuer(auth.IssuerConfig{
		Profiles: d.auth,
		Sessions: d.auth,
		Hasher:   hasher,
		Secret:   []byte(cfg.JWTSecret),
		Now:      d.now,
	})
	authSvc := auth.NewService(auth.NewVerifier(d.auth, hasher), issuer, logger, d.metrics)
	auth.NewHandler(authSvc, cfg.BasePath, cfg.PublicBaseURL).RegisterRoutes(api,
		auth.APIKeyGate(cfg.APIKey, d.metrics),
		middleware.BodyLimit(loginBodyLimit),
	)

	// Token-guarded resources. Audit wraps the validator so rejected
	// requests are recorded too.
	phiAccess := middleware.AuditRecorderFunc(func(entry middleware.AuditEntry) error {
		d.metrics.RecordPHIAccess(entry.ResourceType, entry.Action, entry.StatusCode)
		return nil
	})
	guard := []echo.MiddlewareFunc{
		middleware.Audit(logger, phiAccess),
		auth.TokenValidator(auth.ValidatorConfig{
			Tokens:          d.auth,
			Logger:          logger,
			Now:             d.now,
			SigningKey:      []byte(cfg.JWTSecret),
			VerifySignature: cfg.TokenVerifySignature,
			Recorder:        d.metrics,
		}),
	}
	patient.NewHandler(patient.NewService(d.patients, logger)).RegisterRoutes(api, guard...)
	facility.NewHandler(facility.NewService(d.facilities, logger)).RegisterRoutes(api, guard...)
	speciality.NewHandler(speciality.NewService(d.specialities, logger)).RegisterRoutes(api, guard...)

	return e
}
