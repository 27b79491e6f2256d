// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks request payloads before they reach the store.
//
// Structs are validated through their `validate` tags with the money, link
// and notblank rules registered on top of validator/v10. Uploaded images are
// fully decoded. Every failure is a [FieldErrors] keyed by json field path,
// which the HTTP layer renders as the "errors" object of a 400 response.
package validators

import "context"

// Validator validates obj. When fields are given only those struct fields
// are checked.
type Validator interface {
	Validate(ctx context.Context, obj any, fields ...string) error
}
