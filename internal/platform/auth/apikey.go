package auth

import (
	"crypto/subtle"
	"net/http"

	"github.com/labstack/echo/v4"
)

// APIKeyHeader carries the shared secret guarding the login route.
const APIKeyHeader = "API_KEY"

// APIKeyGate returns middleware that admits a request only when its API_KEY
// header equals secret. An unset secret rejects everything. The three
// rejection causes share one response so callers cannot tell them apart.
func APIKeyGate(secret string, recorder OutcomeRecorder) echo.MiddlewareFunc {
	rec := recorderOrNop(recorder)
	want := []byte(secret)

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			got := c.Request().Header.Get(APIKeyHeader)
			if len(want) == 0 || got == "" || subtle.ConstantTimeCompare([]byte(got), want) != 1 {
				rec.RecordAuthOutcome("api_key", "invalid")
				return reject(c, http.StatusUnauthorized, msgAPIKeyInvalid)
			}
			rec.RecordAuthOutcome("api_key", "ok")
			return next(c)
		}
	}
}
