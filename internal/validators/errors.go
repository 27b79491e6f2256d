package validators

import (
	"errors"
	"sort"
	"strings"
)

var (
	ErrUnsupportedType = errors.New("unsupported type for validation")

	// ErrValidationFailed is matched by every [FieldErrors] value.
	ErrValidationFailed = errors.New("validation failed")
)

// FieldErrors maps a json field path ("title", "tags[0].name") to the
// human-readable problems found with it.
type FieldErrors map[string][]string

// Add appends msg to the messages of field.
func (fe FieldErrors) Add(field, msg string) {
	fe[field] = append(fe[field], msg)
}

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(fe[k], " "))
	}

	return ErrValidationFailed.Error() + ": " + strings.Join(parts, "; ")
}

func (fe FieldErrors) Unwrap() error {
	return ErrValidationFailed
}

// NewFieldError is a shortcut for a single-field FieldErrors.
func NewFieldError(field, msg string) FieldErrors {
	return FieldErrors{field: {msg}}
}
