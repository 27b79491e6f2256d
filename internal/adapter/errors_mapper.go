package adapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

var statusErrors = map[int]error{
	http.StatusBadRequest:            ErrBadRequest,
	http.StatusUnauthorized:          ErrUnauthorized,
	http.StatusForbidden:             ErrForbidden,
	http.StatusNotFound:              ErrNotFound,
	http.StatusMethodNotAllowed:      ErrMethodNotAllowed,
	http.StatusRequestEntityTooLarge: ErrRequestTooLarge,
	http.StatusInternalServerError:   ErrInternalServerError,
	http.StatusServiceUnavailable:    ErrServiceUnavailable,
}

// errorBody mirrors the server's error document.
type errorBody struct {
	Detail string              `json:"detail"`
	Errors map[string][]string `json:"errors"`
}

func mapHTTPError(resp *resty.Response) error {
	if resp.StatusCode() >= http.StatusOK && resp.StatusCode() < http.StatusMultipleChoices {
		return nil
	}

	apiErr := &APIError{StatusCode: resp.StatusCode(), sentinel: statusErrors[resp.StatusCode()]}

	var body errorBody
	if err := json.Unmarshal(resp.Body(), &body); err == nil {
		apiErr.Detail = body.Detail
		apiErr.Fields = body.Errors
	} else {
		apiErr.Detail = strings.TrimSpace(string(resp.Body()))
	}

	if apiErr.Detail == "" && len(apiErr.Fields) == 0 {
		apiErr.Detail = http.StatusText(resp.StatusCode())
	}

	return apiErr
}
