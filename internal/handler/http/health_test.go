package http

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/MKhiriev/go-recipe-keeper/internal/service"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/stretchr/testify/assert"
)

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		pingErr    error
		wantStatus int
		wantBody   string
	}{
		{name: "healthy", wantStatus: http.StatusOK, wantBody: `{"version":"1.2.3","status":"ok"}`},
		{name: "database down", pingErr: store.ErrDatabaseUnavailable, wantStatus: http.StatusServiceUnavailable, wantBody: `{"version":"1.2.3","status":"unavailable"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := withServices(&service.Services{
				AppInfoService: &mockAppInfoService{version: "1.2.3", pingErr: tt.pingErr},
			})

			rec := httptest.NewRecorder()
			h.Init().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/health/", nil))

			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.JSONEq(t, tt.wantBody, rec.Body.String())
		})
	}
}
