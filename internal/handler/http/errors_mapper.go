package http

import (
	"errors"
	"net/http"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/service"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/MKhiriev/go-recipe-keeper/internal/validators"
)

// errorStatuses maps sentinel errors to statuses. The first target err
// matches wins, so an error wrapping several sentinels gets a fixed status.
var errorStatuses = []struct {
	target error
	status int
}{
	{ErrRequestTooLarge, http.StatusRequestEntityTooLarge},

	{ErrEmptyAuthorizationHeader, http.StatusUnauthorized},
	{ErrInvalidAuthorizationHeader, http.StatusUnauthorized},
	{ErrEmptyToken, http.StatusUnauthorized},
	{service.ErrTokenIsExpiredOrInvalid, http.StatusUnauthorized},

	{ErrNotFound, http.StatusNotFound},
	{store.ErrNoUserWasFound, http.StatusNotFound},
	{store.ErrRecipeNotFound, http.StatusNotFound},
	{store.ErrAttributeNotFound, http.StatusNotFound},

	{validators.ErrValidationFailed, http.StatusBadRequest},
	{service.ErrInvalidDataProvided, http.StatusBadRequest},
	{service.ErrInvalidCredentials, http.StatusBadRequest},
	{store.ErrEmailAlreadyExists, http.StatusBadRequest},
	{store.ErrAttributeNameTaken, http.StatusBadRequest},
	{ErrMalformedJSON, http.StatusBadRequest},
	{ErrMalformedForm, http.StatusBadRequest},
	{ErrInvalidIDList, http.StatusBadRequest},
	{ErrInvalidFlag, http.StatusBadRequest},

	{store.ErrDatabaseUnavailable, http.StatusServiceUnavailable},
}

func statusFromError(err error) int {
	for _, e := range errorStatuses {
		if errors.Is(err, e.target) {
			return e.status
		}
	}
	return http.StatusInternalServerError
}

// errorResponse is the body of every error reply.
type errorResponse struct {
	Detail string                 `json:"detail"`
	Errors validators.FieldErrors `json:"errors,omitempty"`
}

func detailFor(status int, err error) string {
	switch {
	case errors.Is(err, validators.ErrValidationFailed):
		return "Invalid input."
	case errors.Is(err, service.ErrInvalidCredentials):
		return "Unable to log in with provided credentials."
	case errors.Is(err, ErrEmptyAuthorizationHeader):
		return "Authentication credentials were not provided."
	case status == http.StatusUnauthorized:
		return "Invalid token."
	case status == http.StatusNotFound:
		return "Not found."
	case status == http.StatusBadRequest, status == http.StatusRequestEntityTooLarge:
		return err.Error()
	default:
		return http.StatusText(status)
	}
}

// writeError maps err to a status and a JSON body. Server errors are
// logged with their cause; the client only sees the status text.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromRequest(r)
	status := statusFromError(err)

	resp := errorResponse{Detail: detailFor(status, err)}

	var fe validators.FieldErrors
	if errors.As(err, &fe) {
		resp.Errors = fe
	}

	if status >= http.StatusInternalServerError {
		log.Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request failed")
	} else {
		log.Debug().Err(err).Str("path", r.URL.Path).Int("status", status).Msg("request rejected")
	}

	if status == http.StatusUnauthorized {
		w.Header().Set("WWW-Authenticate", `Token realm="api"`)
	}

	_, _ = utils.WriteJSON(w, resp, status)
}
