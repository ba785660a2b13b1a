// Package apierror provides the error taxonomy used by the HTTP layer and the
// echo error handler that renders it. Every error returned to clients goes
// through this package so storage details never leak into a response body.
package apierror

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// Kind classifies an error for status mapping.
type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindAuth
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuth:
		return "auth"
	case KindNotFound:
		return "not_found"
	default:
		return "internal"
	}
}

// Code returns the HTTP status code for the kind.
func (k Kind) Code() int {
	switch k {
	case KindValidation:
		return http.StatusBadRequest
	case KindAuth:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// Error is the canonical error value for 4xx/5xx responses. Status is the
// value written to the "status" field of the envelope; it is a bool for most
// routes and a string on the login route.
type Error struct {
	Kind    Kind
	Code    int
	Status  interface{}
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// WithStatus overrides the envelope status value.
func (e *Error) WithStatus(status interface{}) *Error {
	e.Status = status
	return e
}

// Envelope is the JSON body written for every error response.
type Envelope struct {
	Status  interface{} `json:"status"`
	Message string      `json:"message"`
}

func newError(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Code: kind.Code(), Status: false, Message: msg, Err: err}
}

func Validation(msg string) *Error { return newError(KindValidation, msg, nil) }

func Auth(msg string) *Error { return newError(KindAuth, msg, nil) }

func NotFound(msg string) *Error { return newError(KindNotFound, msg, nil) }

// Internal wraps a cause that must be logged but never shown to the caller.
func Internal(msg string, err error) *Error { return newError(KindInternal, msg, err) }

// WithCode builds an error with an explicit status code. Used where the
// code differs from the kind default, e.g. a missing Authorization header
// is an auth failure reported as 400.
func WithCode(kind Kind, code int, msg string) *Error {
	e := newError(kind, msg, nil)
	e.Code = code
	return e
}

// As extracts an *Error from err.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// internalMessage is the only text a client sees for a 5xx.
const internalMessage = "Error interno del servidor."

// Handler returns an echo.HTTPErrorHandler that renders *Error and
// *echo.HTTPError values as an Envelope. 5xx responses are logged with the
// request id and their cause.
func Handler(logger zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := http.StatusInternalServerError
		env := Envelope{Status: false, Message: internalMessage}

		if e, ok := As(err); ok {
			code = e.Code
			env.Status = e.Status
			if code < http.StatusInternalServerError {
				env.Message = e.Message
			}
		} else {
			var he *echo.HTTPError
			if errors.As(err, &he) {
				code = he.Code
				if code < http.StatusInternalServerError {
					env.Message = fmt.Sprintf("%v", he.Message)
				}
			}
		}

		if code >= http.StatusInternalServerError {
			rid, _ := c.Get("request_id").(string)
			logger.Error().Err(err).
				Str("request_id", rid).
				Str("method", c.Request().Method).
				Str("path", c.Request().URL.Path).
				Msg("request failed")
		}

		var writeErr error
		if c.Request().Method == http.MethodHead {
			writeErr = c.NoContent(code)
		} else {
			writeErr = c.JSON(code, env)
		}
		if writeErr != nil {
			logger.Error().Err(writeErr).Msg("write error response")
		}
	}
}
