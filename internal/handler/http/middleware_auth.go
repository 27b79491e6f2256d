package http

import (
	"net/http"
	"strings"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
)

// auth is an HTTP middleware that enforces token authentication.
//
// It extracts the token from the "Authorization" header, validates it via
// [service.AuthService.ParseToken] and stores the owner id in the request
// context with [utils.ContextWithUserID]. Requests without a usable token are
// rejected with 401 Unauthorized.
func (h *Handler) auth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)

		tokenString, err := getTokenFromAuthHeader(r.Header.Get("Authorization"))
		if err != nil {
			writeError(w, r, err)
			return
		}

		ctx := r.Context()
		token, err := h.services.AuthService.ParseToken(ctx, tokenString)
		if err != nil {
			log.Debug().Err(err).Msg("token rejected")
			writeError(w, r, err)
			return
		}

		ctx = logger.WithUserID(utils.ContextWithUserID(ctx, token.UserID), token.UserID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// getTokenFromAuthHeader extracts the token from a header of the form
//
//	Authorization: <scheme> <token>
//
// where scheme is "Bearer" or "Token", in any case.
func getTokenFromAuthHeader(authHeader string) (string, error) {
	if strings.TrimSpace(authHeader) == "" {
		return "", ErrEmptyAuthorizationHeader
	}

	parts := strings.Fields(authHeader)
	if len(parts) != 2 {
		if len(parts) == 1 && isTokenScheme(parts[0]) {
			return "", ErrEmptyToken
		}
		return "", ErrInvalidAuthorizationHeader
	}

	if !isTokenScheme(parts[0]) {
		return "", ErrInvalidAuthorizationHeader
	}

	return parts[1], nil
}

func isTokenScheme(scheme string) bool {
	return strings.EqualFold(scheme, "Bearer") || strings.EqualFold(scheme, "Token")
}
