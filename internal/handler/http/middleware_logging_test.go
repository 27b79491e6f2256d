package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// requestWithLogger attaches a logger writing to buf the way withTraceID does.
func requestWithLogger(method, target string, buf *bytes.Buffer) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	l := zerolog.New(buf).With().Str("trace_id", "test-trace").Logger()
	return req.WithContext(l.WithContext(req.Context()))
}

func accessEntry(t *testing.T, buf *bytes.Buffer) map[string]any {
	t.Helper()
	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry), "log: %s", buf.String())
	return entry
}

// ---- access line ----

func TestWithLogging_Fields(t *testing.T) {
	tests := []struct {
		name      string
		method    string
		target    string
		status    int
		body      string
		wantLevel string
	}{
		{name: "list recipes", method: http.MethodGet, target: "/api/recipes?tags=1", status: http.StatusOK, body: "[]", wantLevel: "info"},
		{name: "create recipe", method: http.MethodPost, target: "/api/recipes", status: http.StatusCreated, body: `{"id":1}`, wantLevel: "info"},
		{name: "delete recipe", method: http.MethodDelete, target: "/api/recipes/1", status: http.StatusNoContent, wantLevel: "info"},
		{name: "validation error", method: http.MethodPost, target: "/api/users", status: http.StatusBadRequest, body: `{"detail":"Invalid input."}`, wantLevel: "warn"},
		{name: "missing token", method: http.MethodGet, target: "/api/users/me", status: http.StatusUnauthorized, body: `{}`, wantLevel: "warn"},
		{name: "server error", method: http.MethodGet, target: "/api/tags", status: http.StatusInternalServerError, body: `{}`, wantLevel: "error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			rr := httptest.NewRecorder()
			withLogging(next).ServeHTTP(rr, requestWithLogger(tt.method, tt.target, &buf))

			entry := accessEntry(t, &buf)
			assert.Equal(t, tt.wantLevel, entry["level"])
			assert.Equal(t, tt.method, entry["method"])
			assert.Equal(t, tt.target, entry["uri"])
			assert.EqualValues(t, tt.status, entry["status"])
			assert.EqualValues(t, len(tt.body), entry["size"])
			assert.Equal(t, "test-trace", entry["trace_id"])
			assert.Contains(t, entry, "duration")
		})
	}
}

func TestWithLogging_ImplicitStatus(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(strings.Repeat("a", 1024)))
	})

	rr := httptest.NewRecorder()
	withLogging(next).ServeHTTP(rr, requestWithLogger(http.MethodGet, "/api/recipes", &buf))

	entry := accessEntry(t, &buf)
	assert.EqualValues(t, http.StatusOK, entry["status"])
	assert.EqualValues(t, 1024, entry["size"])
}

func TestWithLogging_RoutePattern(t *testing.T) {
	var buf bytes.Buffer
	r := chi.NewRouter()
	r.Use(withLogging)
	r.Get("/api/recipes/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, requestWithLogger(http.MethodGet, "/api/recipes/42", &buf))

	entry := accessEntry(t, &buf)
	assert.Equal(t, "/api/recipes/{id}", entry["route"])
	assert.Equal(t, "/api/recipes/42", entry["uri"])
}

func TestWithLogging_UnroutedRequest(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	withLogging(next).ServeHTTP(httptest.NewRecorder(), requestWithLogger(http.MethodGet, "/nowhere", &buf))

	assert.Equal(t, unmatchedRoute, accessEntry(t, &buf)["route"])
}

// ---- behaviour ----

func TestWithLogging_PanicNotSuppressed(t *testing.T) {
	var buf bytes.Buffer
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})

	assert.Panics(t, func() {
		withLogging(next).ServeHTTP(httptest.NewRecorder(), requestWithLogger(http.MethodGet, "/panic", &buf))
	}, "Recoverer sits outside withLogging")
}

func TestWithLogging_NoLoggerInContext(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusAccepted)
	})

	rr := httptest.NewRecorder()
	assert.NotPanics(t, func() {
		withLogging(next).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/health", nil))
	})
	assert.Equal(t, http.StatusAccepted, rr.Code)
}

func TestAccessLevel(t *testing.T) {
	assert.Equal(t, zerolog.InfoLevel, accessLevel(http.StatusOK))
	assert.Equal(t, zerolog.InfoLevel, accessLevel(http.StatusNotModified))
	assert.Equal(t, zerolog.WarnLevel, accessLevel(http.StatusNotFound))
	assert.Equal(t, zerolog.WarnLevel, accessLevel(http.StatusRequestEntityTooLarge))
	assert.Equal(t, zerolog.ErrorLevel, accessLevel(http.StatusServiceUnavailable))
}
