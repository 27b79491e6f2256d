// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-recipe-keeper/internal/service"
	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildRouter() *chi.Mux {
	router := chi.NewRouter()
	router.MethodNotAllowed(methodNotAllowed(router))
	router.NotFound(notFound)

	ok := func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }
	router.Get("/items", ok)
	router.Post("/items", ok)
	router.Get("/items/{id}", ok)
	router.Delete("/items/{id}", ok)
	return router
}

func TestMethodNotAllowed_TableTest(t *testing.T) {
	tests := []struct {
		name       string
		method     string
		path       string
		wantStatus int
		wantAllow  string
	}{
		{name: "registered method", method: http.MethodGet, path: "/items", wantStatus: http.StatusOK},
		{name: "unregistered on collection", method: http.MethodDelete, path: "/items", wantStatus: http.StatusMethodNotAllowed, wantAllow: "GET, POST"},
		{name: "unregistered on item", method: http.MethodPost, path: "/items/3", wantStatus: http.StatusMethodNotAllowed, wantAllow: "GET, DELETE"},
		{name: "unknown path", method: http.MethodGet, path: "/nothing", wantStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			buildRouter().ServeHTTP(rr, httptest.NewRequest(tt.method, tt.path, nil))

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Allow"))
			if tt.wantStatus == http.StatusMethodNotAllowed {
				assert.JSONEq(t, `{"detail":"Method \"`+tt.method+`\" not allowed."}`, rr.Body.String())
			}
		})
	}
}

// ---- Full router ----

func TestInit_MethodNotAllowed(t *testing.T) {
	tests := []struct {
		method    string
		path      string
		wantAllow string
	}{
		{method: http.MethodPost, path: "/api/users/me/", wantAllow: "GET, PUT, PATCH"},
		{method: http.MethodGet, path: "/api/users/", wantAllow: "POST"},
		{method: http.MethodGet, path: "/api/users/token", wantAllow: "POST"},
		{method: http.MethodPost, path: "/api/recipes/1/", wantAllow: "GET, PUT, PATCH, DELETE"},
		{method: http.MethodGet, path: "/api/recipes/1/upload-image/", wantAllow: "POST"},
		{method: http.MethodPost, path: "/api/ingredients", wantAllow: "GET"},
		{method: http.MethodDelete, path: "/api/health", wantAllow: "GET"},
	}

	h := withServices(&service.Services{AuthService: acceptAnyToken()})
	router := h.Init()

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, tt.path, strings.NewReader(`{}`))
			req.Header.Set("Authorization", "Token test-token")
			rr := httptest.NewRecorder()
			router.ServeHTTP(rr, req)

			require.Equal(t, http.StatusMethodNotAllowed, rr.Code)
			assert.Equal(t, tt.wantAllow, rr.Header().Get("Allow"))
		})
	}
}

func TestInit_NotFound(t *testing.T) {
	router := withServices(&service.Services{}).Init()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/api/unknown/", nil))

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"detail":"Not found."}`, rr.Body.String())
}
