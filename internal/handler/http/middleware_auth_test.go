package http

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/service"
	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/MKhiriev/go-recipe-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---- Helpers ----

func newHandlerWithAuthService(authSvc service.AuthService) *Handler {
	return &Handler{
		logger: logger.Nop(),
		services: &service.Services{
			AuthService: authSvc,
		},
	}
}

func executeAuth(h *Handler, authHeader string, next http.Handler) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	req = req.WithContext(logger.Nop().Logger.WithContext(req.Context()))
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rr := httptest.NewRecorder()
	h.auth(next).ServeHTTP(rr, req)
	return rr
}

// ---- getTokenFromAuthHeader ----

func TestGetTokenFromAuthHeader_TableTest(t *testing.T) {
	tests := []struct {
		name      string
		header    string
		wantToken string
		wantErr   error
	}{
		{name: "bearer scheme", header: "Bearer my-jwt-token", wantToken: "my-jwt-token"},
		{name: "token scheme", header: "Token my-jwt-token", wantToken: "my-jwt-token"},
		{name: "scheme is case-insensitive", header: "bearer my-jwt-token", wantToken: "my-jwt-token"},
		{name: "extra whitespace", header: "  Token   abc  ", wantToken: "abc"},
		{name: "empty header", header: "", wantErr: ErrEmptyAuthorizationHeader},
		{name: "only spaces", header: "   ", wantErr: ErrEmptyAuthorizationHeader},
		{name: "scheme without token", header: "Bearer", wantErr: ErrEmptyToken},
		{name: "token without scheme", header: "my-jwt-token", wantErr: ErrInvalidAuthorizationHeader},
		{name: "basic scheme", header: "Basic dXNlcjpwYXNz", wantErr: ErrInvalidAuthorizationHeader},
		{name: "extra parts", header: "Bearer token extra-part", wantErr: ErrInvalidAuthorizationHeader},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			token, err := getTokenFromAuthHeader(tt.header)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, token)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantToken, token)
		})
	}
}

// ---- auth middleware ----

func TestAuth_Middleware_TableTest(t *testing.T) {
	tests := []struct {
		name           string
		authHeader     string
		parseErr       error
		wantStatus     int
		wantNextCalled bool
		wantDetail     string
	}{
		{
			name:           "valid token",
			authHeader:     "Token good",
			wantStatus:     http.StatusOK,
			wantNextCalled: true,
		},
		{
			name:       "no header",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Authentication credentials were not provided.",
		},
		{
			name:       "malformed header",
			authHeader: "Basic abc",
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Invalid token.",
		},
		{
			name:       "rejected token",
			authHeader: "Bearer stale",
			parseErr:   service.ErrTokenIsExpiredOrInvalid,
			wantStatus: http.StatusUnauthorized,
			wantDetail: "Invalid token.",
		},
		{
			name:       "token store down",
			authHeader: "Bearer good",
			parseErr:   errors.New("redis: connection refused"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHandlerWithAuthService(&mockAuthService{
				parseTokenFn: func(_ context.Context, s string) (models.Token, error) {
					return models.Token{UserID: 42}, tt.parseErr
				},
			})

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				w.WriteHeader(http.StatusOK)
			})

			rr := executeAuth(h, tt.authHeader, next)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantNextCalled, nextCalled)
			if tt.wantStatus == http.StatusUnauthorized {
				assert.NotEmpty(t, rr.Header().Get("WWW-Authenticate"))
			}
			if tt.wantDetail != "" {
				assert.JSONEq(t, `{"detail":"`+tt.wantDetail+`"}`, rr.Body.String())
			}
		})
	}
}

func TestAuth_UserIDInContext(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{
		parseTokenFn: func(_ context.Context, s string) (models.Token, error) {
			assert.Equal(t, "abc", s)
			return models.Token{UserID: 99}, nil
		},
	})

	var got int64
	var ok bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got, ok = utils.GetUserIDFromContext(r.Context())
	})

	executeAuth(h, "Token abc", next)

	require.True(t, ok)
	assert.EqualValues(t, 99, got)
}

func TestAuth_ConcurrentRequests(t *testing.T) {
	h := newHandlerWithAuthService(&mockAuthService{
		parseTokenFn: func(_ context.Context, s string) (models.Token, error) {
			return models.Token{UserID: int64(len(s))}, nil
		},
	})

	var wg sync.WaitGroup
	for i := 1; i <= 20; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			token := make([]byte, n)
			for j := range token {
				token[j] = 'x'
			}

			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				id, _ := utils.GetUserIDFromContext(r.Context())
				assert.EqualValues(t, n, id)
			})
			executeAuth(h, "Bearer "+string(token), next)
		}(i)
	}
	wg.Wait()
}
