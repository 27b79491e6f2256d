package http

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/go-chi/chi/v5"
)

// decodeBody reads a JSON object into dst. An empty body leaves dst
// untouched, so missing fields are reported by validation. Bodies larger than
// h.maxBodySize after gzip decoding fail with [ErrRequestTooLarge].
func (h *Handler) decodeBody(w http.ResponseWriter, r *http.Request, dst any) error {
	body := r.Body
	if body != nil && h.maxBodySize > 0 {
		body = http.MaxBytesReader(w, body, h.maxBodySize)
	}

	if err := utils.DecodeJSON(body, dst); err != nil {
		if errors.Is(err, utils.ErrEmptyBody) {
			return nil
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ErrRequestTooLarge
		}
		return fmt.Errorf("%w: %w", ErrMalformedJSON, err)
	}
	return nil
}

// pathID parses the {id} URL parameter. Non-numeric ids cannot name a row,
// so they are reported as not found.
func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, ErrNotFound
	}
	return id, nil
}

// parseIDList parses a comma-separated list of ids such as "1,2,3".
// Empty input yields nil.
func parseIDList(name, raw string) ([]int64, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}

	parts := strings.Split(raw, ",")
	ids := make([]int64, 0, len(parts))
	for _, p := range parts {
		id, err := strconv.ParseInt(strings.TrimSpace(p), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrInvalidIDList, name)
		}
		ids = append(ids, id)
	}

	return ids, nil
}

// parseFlag parses a 0/1 query flag. Empty input is false.
func parseFlag(name, raw string) (bool, error) {
	switch strings.TrimSpace(raw) {
	case "", "0":
		return false, nil
	case "1":
		return true, nil
	default:
		return false, fmt.Errorf("%w: %s", ErrInvalidFlag, name)
	}
}

// ownerID returns the authenticated user put into the context by the auth
// middleware.
func ownerID(r *http.Request) (int64, error) {
	userID, ok := utils.GetUserIDFromContext(r.Context())
	if !ok {
		return 0, ErrEmptyAuthorizationHeader
	}
	return userID, nil
}
