package middleware

import (
	"errors"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/records/internal/platform/apierror"
	"github.com/ehr/records/internal/platform/auth"
)

// AuditEntry records who accessed which clinical resource, when and with
// what outcome.
type AuditEntry struct {
	UserID       int64
	ResourceType string
	ResourceID   string
	Action       string // read, list, search
	Criteria     []string
	IPAddress    string
	UserAgent    string
	Path         string
	Method       string
	Timestamp    time.Time
	RequestID    string
	StatusCode   int
}

// AuditRecorder persists audit entries.
type AuditRecorder interface {
	RecordAccess(entry AuditEntry) error
}

// AuditRecorderFunc is a function adapter for AuditRecorder.
type AuditRecorderFunc func(entry AuditEntry) error

func (f AuditRecorderFunc) RecordAccess(entry AuditEntry) error {
	return f(entry)
}

// auditedResources are the route segments that expose clinical data.
var auditedResources = map[string]bool{
	"patient":    true,
	"patients":   true,
	"facility":   true,
	"speciality": true,
}

// Audit logs every access to a clinical resource route, including rejected
// ones. Mount it outside the token validator so the user id set by the
// validator is visible once the handler returns. Search criteria are logged
// by name only.
func Audit(logger zerolog.Logger, recorders ...AuditRecorder) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			resource, action := classifyRoute(c.Path())
			if resource == "" {
				return next(c)
			}

			err := next(c)

			req := c.Request()
			entry := AuditEntry{
				ResourceType: resource,
				ResourceID:   resourceID(c),
				Action:       action,
				IPAddress:    c.RealIP(),
				UserAgent:    req.UserAgent(),
				Path:         req.URL.Path,
				Method:       req.Method,
				Timestamp:    time.Now().UTC(),
				StatusCode:   auditStatus(c, err),
			}
			entry.UserID, _ = auth.UserIDFromContext(req.Context())
			entry.RequestID, _ = c.Get("request_id").(string)
			if action == "search" {
				entry.Criteria = criteriaNames(c)
			}

			for _, r := range recorders {
				if r == nil {
					continue
				}
				if recErr := r.RecordAccess(entry); recErr != nil {
					logger.Error().Err(recErr).
						Str("request_id", entry.RequestID).
						Msg("failed to record audit entry")
				}
			}

			logger.Info().
				Str("type", "phi_audit").
				Str("request_id", entry.RequestID).
				Int64("user_id", entry.UserID).
				Str("resource_type", entry.ResourceType).
				Str("resource_id", entry.ResourceID).
				Str("action", entry.Action).
				Strs("criteria", entry.Criteria).
				Str("method", entry.Method).
				Str("path", entry.Path).
				Str("remote_ip", entry.IPAddress).
				Int("status", entry.StatusCode).
				Msg("phi_access")

			return err
		}
	}
}

// classifyRoute maps a route template such as "/api_slim4/patient/:rut" to
// its resource and action. Routes outside auditedResources return "".
func classifyRoute(route string) (resource, action string) {
	segments := strings.Split(strings.Trim(route, "/"), "/")
	for i, seg := range segments {
		if !auditedResources[seg] {
			continue
		}
		rest := segments[i+1:]
		switch {
		case len(rest) > 0 && rest[0] == "search":
			return seg, "search"
		case len(rest) > 0 && strings.HasPrefix(rest[0], ":"):
			return seg, "read"
		default:
			return seg, "list"
		}
	}
	return "", ""
}

func resourceID(c echo.Context) string {
	if rut := c.Param("rut"); rut != "" {
		return rut
	}
	return c.Param("id")
}

// auditStatus reports the status the client will see. When the handler
// returned an error the response has not been written yet.
func auditStatus(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	if e, ok := apierror.As(err); ok {
		return e.Code
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		return he.Code
	}
	return http.StatusInternalServerError
}

func criteriaNames(c echo.Context) []string {
	var names []string
	for k, v := range c.QueryParams() {
		if len(v) > 0 && strings.TrimSpace(v[0]) != "" {
			names = append(names, k)
		}
	}
	sort.Strings(names)
	return names
}
