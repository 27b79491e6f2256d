// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

// Sentinel errors used by the authentication middleware when parsing the
// "Authorization" HTTP header. Callers can match against them with [errors.Is].
var (
	// ErrEmptyAuthorizationHeader is returned by the auth middleware when the
	// incoming request does not include an "Authorization" header at all.
	ErrEmptyAuthorizationHeader = errors.New("authentication credentials were not provided")

	// ErrInvalidAuthorizationHeader is returned when the "Authorization"
	// header is not of the form "<scheme> <token>" with a Bearer or Token
	// scheme.
	ErrInvalidAuthorizationHeader = errors.New("invalid `Authorization` header")

	// ErrEmptyToken is returned when the "Authorization" header contains the
	// expected scheme prefix but the token value itself is an empty string.
	ErrEmptyToken = errors.New("empty token in `Authorization` header")
)

// Request decoding errors.
var (
	ErrMalformedJSON   = errors.New("malformed JSON")
	ErrMalformedForm   = errors.New("malformed multipart form")
	ErrInvalidIDList   = errors.New("query parameter must be a comma-separated list of ids")
	ErrInvalidFlag     = errors.New("query parameter must be 0 or 1")
	ErrNotFound        = errors.New("not found")
	ErrRequestTooLarge = errors.New("request body too large")
)
