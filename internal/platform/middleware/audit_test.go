package middleware

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/ehr/records/internal/platform/apierror"
	"github.com/ehr/records/internal/platform/auth"
)

// mockRecorder collects audit entries for assertions.
type mockRecorder struct {
	mu      sync.Mutex
	entries []AuditEntry
	err     error
}

func (m *mockRecorder) RecordAccess(entry AuditEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, entry)
	return m.err
}

func (m *mockRecorder) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.entries)
}

func (m *mockRecorder) last() AuditEntry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.entries[len(m.entries)-1]
}

// serveAudited routes target through an echo instance with Audit mounted in
// front of a handler that authenticates user 7.
func serveAudited(t *testing.T, logger zerolog.Logger, rec AuditRecorder, route, target string, h echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	e.HTTPErrorHandler = apierror.Handler(zerolog.New(io.Discard))
	authed := func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			c.SetRequest(c.Request().WithContext(auth.WithUserID(c.Request().Context(), 7)))
			return next(c)
		}
	}
	e.GET(route, h, RequestID(), Audit(logger, rec), authed)

	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	e.ServeHTTP(w, req)
	return w
}

func TestAudit_PatientRead(t *testing.T) {
	rec := &mockRecorder{}
	serveAudited(t, zerolog.New(io.Discard), rec, "/api_slim4/patient/:rut", "/api_slim4/patient/12345678-9", okHandler)

	if rec.count() != 1 {
		t.Fatalf("expected 1 audit entry, got %d", rec.count())
	}
	entry := rec.last()
	if entry.UserID != 7 {
		t.Errorf("expected user 7, got %d", entry.UserID)
	}
	if entry.ResourceType != "patient" || entry.ResourceID != "12345678-9" || entry.Action != "read" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if entry.RequestID == "" {
		t.Error("expected request id")
	}
	if entry.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", entry.StatusCode)
	}
}

func TestAudit_SearchLogsCriteriaNamesOnly(t *testing.T) {
	var buf bytes.Buffer
	rec := &mockRecorder{}
	serveAudited(t, zerolog.New(&buf), rec, "/patients/search", "/patients/search?nombre=Ana&apellido=Rojas&email=", okHandler)

	entry := rec.last()
	if entry.Action != "search" || entry.ResourceType != "patients" {
		t.Errorf("unexpected entry %+v", entry)
	}
	if strings.Join(entry.Criteria, ",") != "apellido,nombre" {
		t.Errorf("expected criteria names, got %v", entry.Criteria)
	}
	if strings.Contains(buf.String(), "Rojas") {
		t.Error("criteria values must not be logged")
	}
}

func TestAudit_ErrorStatus(t *testing.T) {
	rec := &mockRecorder{}
	w := serveAudited(t, zerolog.New(io.Discard), rec, "/facility/:id", "/facility/0", func(c echo.Context) error {
		return apierror.Validation("id inválido")
	})

	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if got := rec.last().StatusCode; got != http.StatusBadRequest {
		t.Errorf("expected audited status 400, got %d", got)
	}
	if rec.last().Action != "read" || rec.last().ResourceID != "0" {
		t.Errorf("unexpected entry %+v", rec.last())
	}
}

func TestAudit_SkipsOtherRoutes(t *testing.T) {
	rec := &mockRecorder{}
	serveAudited(t, zerolog.New(io.Discard), rec, "/health", "/health", okHandler)
	if rec.count() != 0 {
		t.Errorf("expected no audit entry, got %d", rec.count())
	}
}

func TestAudit_RecorderErrorDoesNotBreakRequest(t *testing.T) {
	rec := &mockRecorder{err: errors.New("disk full")}
	w := serveAudited(t, zerolog.New(io.Discard), rec, "/speciality", "/speciality", okHandler)
	if w.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", w.Code)
	}
	if rec.last().Action != "list" {
		t.Errorf("expected list action, got %q", rec.last().Action)
	}
}

func TestClassifyRoute(t *testing.T) {
	tests := []struct {
		route, resource, action string
	}{
		{"/api_slim4/patient/:rut", "patient", "read"},
		{"/patients/search", "patients", "search"},
		{"/facility", "facility", "list"},
		{"/facility/:id", "facility", "read"},
		{"/api_slim4/speciality", "speciality", "list"},
		{"/api_slim4/login", "", ""},
		{"/", "", ""},
	}
	for _, tt := range tests {
		r, a := classifyRoute(tt.route)
		if r != tt.resource || a != tt.action {
			t.Errorf("classifyRoute(%q) = (%q, %q), want (%q, %q)", tt.route, r, a, tt.resource, tt.action)
		}
	}
}

func TestAuditRecorderFunc(t *testing.T) {
	var got AuditEntry
	f := AuditRecorderFunc(func(e AuditEntry) error {
		got = e
		return nil
	})
	_ = f.RecordAccess(AuditEntry{ResourceType: "facility"})
	if got.ResourceType != "facility" {
		t.Errorf("expected facility, got %q", got.ResourceType)
	}
}
