// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/service"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/MKhiriev/go-recipe-keeper/internal/validators"
	"github.com/MKhiriev/go-recipe-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errorResponse {
	t.Helper()
	var resp errorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp), "body: %s", rec.Body.String())
	return resp
}

func postJSON(target, body string) *http.Request {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return authenticated(req)
}

// ─────────────────────────────────────────────
// register
// ─────────────────────────────────────────────

func TestRegister_Success(t *testing.T) {
	var got models.RegisterRequest
	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, req models.RegisterRequest) (models.User, error) {
			got = req
			return models.User{UserID: 1, Email: req.Email, Name: req.Name, Password: "hash"}, nil
		},
	}

	h := withServices(&service.Services{AuthService: auth})
	rec := httptest.NewRecorder()
	h.register(rec, postJSON("/api/users", `{"email":"test@example.com","password":"testpass123","name":"Test Name"}`))

	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"email":"test@example.com","name":"Test Name"}`, rec.Body.String())
	assert.Equal(t, models.RegisterRequest{Email: "test@example.com", Password: "testpass123", Name: "Test Name"}, got)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestRegister_Errors(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		err        error
		wantStatus int
		wantField  string
	}{
		{
			name:       "malformed json",
			body:       `{"email":`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "duplicate email",
			body:       `{"email":"test@example.com","password":"testpass123"}`,
			err:        fmt.Errorf("%w: %w", validators.NewFieldError("email", "user with this email already exists."), store.ErrEmailAlreadyExists),
			wantStatus: http.StatusBadRequest,
			wantField:  "email",
		},
		{
			name:       "short password",
			body:       `{"email":"test@example.com","password":"pw"}`,
			err:        validators.NewFieldError("password", "Ensure this field has at least 5 characters."),
			wantStatus: http.StatusBadRequest,
			wantField:  "password",
		},
		{
			name:       "unexpected error",
			body:       `{"email":"test@example.com","password":"testpass123"}`,
			err:        errors.New("boom"),
			wantStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			auth := &mockAuthService{
				registerUserFn: func(context.Context, models.RegisterRequest) (models.User, error) {
					return models.User{}, tt.err
				},
			}

			h := withServices(&service.Services{AuthService: auth})
			rec := httptest.NewRecorder()
			h.register(rec, postJSON("/api/users", tt.body))

			require.Equal(t, tt.wantStatus, rec.Code)
			resp := decodeError(t, rec)
			if tt.wantField != "" {
				assert.Contains(t, resp.Errors, tt.wantField)
			}
			assert.NotContains(t, resp.Detail, "boom", "internal errors must not leak")
		})
	}
}

func TestRegister_EmptyBodyReachesValidation(t *testing.T) {
	called := false
	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, req models.RegisterRequest) (models.User, error) {
			called = true
			assert.Zero(t, req)
			return models.User{}, validators.NewFieldError("email", "This field is required.")
		},
	}

	h := withServices(&service.Services{AuthService: auth})
	rec := httptest.NewRecorder()
	h.register(rec, postJSON("/api/users", ""))

	assert.True(t, called)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRegister_BodyTooLarge(t *testing.T) {
	auth := &mockAuthService{
		registerUserFn: func(context.Context, models.RegisterRequest) (models.User, error) {
			t.Fatal("service must not be called")
			return models.User{}, nil
		},
	}
	name := strings.Repeat("n", 8<<20)
	body := []byte(`{"email":"test@example.com","password":"testpass123","name":"` + name + `"}`)

	tests := []struct {
		name     string
		limit    int64
		body     []byte
		encoding string
	}{
		{name: "plain body over configured limit", limit: 64, body: []byte(`{"email":"test@example.com","password":"testpass123","name":"` + strings.Repeat("n", 100) + `"}`)},
		{name: "gzip body inflating past default limit", body: gzipBytes(t, body), encoding: "gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := NewHandler(&service.Services{
				AuthService:    auth,
				AppInfoService: &mockAppInfoService{version: "test"},
			}, logger.Nop(), WithMaxBodySize(tt.limit))

			req := httptest.NewRequest(http.MethodPost, "/api/users/", bytes.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			if tt.encoding != "" {
				req.Header.Set("Content-Encoding", tt.encoding)
			}
			rec := httptest.NewRecorder()
			h.Init().ServeHTTP(rec, req)

			assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
		})
	}
}

func TestRegister_BodyAtLimitAccepted(t *testing.T) {
	auth := &mockAuthService{
		registerUserFn: func(_ context.Context, req models.RegisterRequest) (models.User, error) {
			return models.User{Email: req.Email}, nil
		},
	}
	body := `{"email":"test@example.com","password":"testpass123"}`

	h := NewHandler(&service.Services{AuthService: auth}, logger.Nop(), WithMaxBodySize(int64(len(body))))
	rec := httptest.NewRecorder()
	h.register(rec, postJSON("/api/users", body))

	assert.Equal(t, http.StatusCreated, rec.Code)
}

// ─────────────────────────────────────────────
// createToken
// ─────────────────────────────────────────────

func TestCreateToken_Success(t *testing.T) {
	user := models.User{UserID: 1, Email: "test@example.com"}
	auth := &mockAuthService{
		loginFn: func(_ context.Context, req models.LoginRequest) (models.User, error) {
			assert.Equal(t, "test@example.com", req.Email)
			assert.Equal(t, "goodpass", req.Password)
			return user, nil
		},
		createTokenFn: func(_ context.Context, u models.User) (models.Token, error) {
			assert.Equal(t, user, u)
			return models.Token{SignedString: "signed.jwt.token"}, nil
		},
	}

	h := withServices(&service.Services{AuthService: auth})
	rec := httptest.NewRecorder()
	h.createToken(rec, postJSON("/api/users/token", `{"email":"test@example.com","password":"goodpass"}`))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"token":"signed.jwt.token"}`, rec.Body.String())
}

func TestCreateToken_BadCredentials(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(context.Context, models.LoginRequest) (models.User, error) {
			return models.User{}, service.ErrInvalidCredentials
		},
		createTokenFn: func(context.Context, models.User) (models.Token, error) {
			t.Fatal("token must not be issued")
			return models.Token{}, nil
		},
	}

	h := withServices(&service.Services{AuthService: auth})
	rec := httptest.NewRecorder()
	h.createToken(rec, postJSON("/api/users/token", `{"email":"test@example.com","password":"badpass"}`))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.NotContains(t, rec.Body.String(), "token\"")
	assert.Equal(t, "Unable to log in with provided credentials.", decodeError(t, rec).Detail)
}

func TestCreateToken_IssueFails(t *testing.T) {
	auth := &mockAuthService{
		loginFn: func(context.Context, models.LoginRequest) (models.User, error) {
			return models.User{UserID: 1}, nil
		},
		createTokenFn: func(context.Context, models.User) (models.Token, error) {
			return models.Token{}, service.ErrTokenCreationFailed
		},
	}

	h := withServices(&service.Services{AuthService: auth})
	rec := httptest.NewRecorder()
	h.createToken(rec, postJSON("/api/users/token", `{"email":"a@b.io","password":"goodpass"}`))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

// ─────────────────────────────────────────────
// /api/users/me
// ─────────────────────────────────────────────

func TestGetMe(t *testing.T) {
	users := &mockUserService{
		getProfileFn: func(_ context.Context, userID int64) (models.User, error) {
			assert.Equal(t, testUserID, userID)
			return models.User{UserID: userID, Email: "test@example.com", Name: "Test", Password: "hash"}, nil
		},
	}

	h := withServices(&service.Services{UserService: users})
	rec := httptest.NewRecorder()
	h.getMe(rec, authenticated(httptest.NewRequest(http.MethodGet, "/api/users/me", nil)))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"test@example.com","name":"Test"}`, rec.Body.String())
}

func TestGetMe_NoUserInContext(t *testing.T) {
	h := withServices(&service.Services{UserService: &mockUserService{}})
	rec := httptest.NewRecorder()

	h.getMe(rec, httptest.NewRequest(http.MethodGet, "/api/users/me", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestUpdateMe(t *testing.T) {
	var got models.ProfileUpdate
	users := &mockUserService{
		updateProfileFn: func(_ context.Context, userID int64, update models.ProfileUpdate) (models.User, error) {
			got = update
			return models.User{UserID: userID, Email: "test@example.com", Name: *update.Name}, nil
		},
	}

	h := withServices(&service.Services{UserService: users})
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPatch, "/api/users/me", strings.NewReader(`{"name":"Updated","password":"newpassword123","email":"other@example.com"}`))
	h.updateMe(rec, authenticated(req))

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"email":"test@example.com","name":"Updated"}`, rec.Body.String())
	assert.Equal(t, ptr("Updated"), got.Name)
	assert.Equal(t, ptr("newpassword123"), got.Password)
}
