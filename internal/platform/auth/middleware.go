package auth

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

type contextKey string

const UserIDKey contextKey = "user_id"

// Rejection messages written by the auth middlewares.
const (
	msgMissingHeader   = "Falta cabecera de autorización"
	msgNotBearer       = "Se requiere autorización Bearer"
	msgEmptyToken      = "Token vacío"
	msgTokenInvalid    = "Token inválido"
	msgTokenExpired    = "Token expirado"
	msgAuthCheckFailed = "Error interno del servidor al validar token"
	msgAPIKeyInvalid   = "Acceso denegado. API_KEY inválida o faltante."
)

// Rejection is the body written when a middleware refuses a request.
type Rejection struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

func reject(c echo.Context, code int, msg string) error {
	return c.JSON(code, Rejection{Error: true, Message: msg})
}

type ValidatorConfig struct {
	Tokens TokenLookup
	Logger zerolog.Logger
	// Now defaults to time.Now.
	Now func() time.Time
	// SigningKey, when VerifySignature is set, is the HS256 secret every
	// token must be signed with. Signature checking runs before the store
	// lookup; expiry is always decided by the stored token_exp.
	SigningKey      []byte
	VerifySignature bool
	Recorder        OutcomeRecorder
}

// TokenValidator returns middleware that admits a request only when its
// bearer token is stored in users_token and has not expired. The owning user
// id is attached to the request context.
func TokenValidator(cfg ValidatorConfig) echo.MiddlewareFunc {
	now := cfg.Now
	if now == nil {
		now = time.Now
	}
	rec := recorderOrNop(cfg.Recorder)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				rec.RecordAuthOutcome("token", "missing_header")
				return reject(c, http.StatusBadRequest, msgMissingHeader)
			}

			if len(authHeader) < 7 || !strings.EqualFold(authHeader[:7], "bearer ") {
				rec.RecordAuthOutcome("token", "not_bearer")
				return reject(c, http.StatusUnauthorized, msgNotBearer)
			}

			token := strings.TrimSpace(authHeader[7:])
			if token == "" {
				rec.RecordAuthOutcome("token", "empty")
				return reject(c, http.StatusUnauthorized, msgEmptyToken)
			}

			if cfg.VerifySignature && !validSignature(token, cfg.SigningKey) {
				rec.RecordAuthOutcome("token", "bad_signature")
				return reject(c, http.StatusUnauthorized, msgTokenInvalid)
			}

			ctx := c.Request().Context()
			if _, err := cfg.Tokens.FindToken(ctx, token); err != nil {
				if errors.Is(err, ErrNotFound) {
					rec.RecordAuthOutcome("token", "invalid")
					return reject(c, http.StatusUnauthorized, msgTokenInvalid)
				}
				return checkFailed(c, cfg.Logger, rec, err)
			}

			userID, err := cfg.Tokens.FindActiveToken(ctx, token, now().Unix())
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					rec.RecordAuthOutcome("token", "expired")
					return reject(c, http.StatusUnauthorized, msgTokenExpired)
				}
				return checkFailed(c, cfg.Logger, rec, err)
			}

			rec.RecordAuthOutcome("token", "ok")
			c.SetRequest(c.Request().WithContext(WithUserID(ctx, userID)))
			return next(c)
		}
	}
}

func checkFailed(c echo.Context, logger zerolog.Logger, rec OutcomeRecorder, err error) error {
	rid, _ := c.Get("request_id").(string)
	logger.Error().Err(err).Str("request_id", rid).Msg("token validation failed")
	rec.RecordAuthOutcome("token", "error")
	return reject(c, http.StatusInternalServerError, msgAuthCheckFailed)
}

// validSignature checks the HS256 signature only. Time claims are ignored.
func validSignature(token string, key []byte) bool {
	if len(key) == 0 {
		return false
	}
	parsed, err := jwt.ParseWithClaims(token, &TokenClaims{}, func(t *jwt.Token) (interface{}, error) {
		return key, nil
	}, jwt.WithValidMethods([]string{"HS256"}), jwt.WithoutClaimsValidation())
	return err == nil && parsed.Valid
}

// WithUserID returns a copy of ctx carrying the authenticated user id.
func WithUserID(ctx context.Context, userID int64) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// UserIDFromContext returns the user id attached by TokenValidator.
func UserIDFromContext(ctx context.Context) (int64, bool) {
	uid, ok := ctx.Value(UserIDKey).(int64)
	return uid, ok
}
