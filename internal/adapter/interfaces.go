// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package adapter provides a typed client for the go-recipe-keeper REST API.
//
// The primary abstraction is [ServerAdapter]. The package ships an HTTP
// implementation ([NewHTTPServerAdapter]) built on resty; the manage command
// uses it for health checks and the end-to-end tests drive the whole API
// through it.
//
// Non-2xx responses are decoded into [*APIError], which unwraps to one of the
// sentinel values in errors.go so callers can use [errors.Is] (e.g.
// [ErrNotFound] for 404, [ErrUnauthorized] for 401).
package adapter

import (
	"context"

	"github.com/MKhiriev/go-recipe-keeper/models"
)

// Health is the body of GET /api/health.
type Health struct {
	Version string `json:"version"`
	Status  string `json:"status"`
}

// ServerAdapter talks to a running go-recipe-keeper server.
type ServerAdapter interface {
	// SetToken stores the token attached to all subsequent authenticated
	// requests. CreateToken calls it on success.
	SetToken(token string)

	// Token returns the stored token, or an empty string.
	Token() string

	// Health reports the server version and database status. A 503 answer
	// is returned together with an error matching [ErrServiceUnavailable].
	Health(ctx context.Context) (Health, error)

	Register(ctx context.Context, req models.RegisterRequest) (models.UserResponse, error)

	// CreateToken exchanges credentials for a token and stores it.
	CreateToken(ctx context.Context, req models.LoginRequest) (string, error)

	Me(ctx context.Context) (models.UserResponse, error)
	UpdateMe(ctx context.Context, update models.ProfileUpdate) (models.UserResponse, error)

	// ListRecipes returns the caller's recipes, optionally narrowed to those
	// carrying any of tagIDs and any of ingredientIDs.
	ListRecipes(ctx context.Context, tagIDs, ingredientIDs []int64) ([]models.RecipeSummary, error)
	CreateRecipe(ctx context.Context, in models.RecipeInput) (models.Recipe, error)
	GetRecipe(ctx context.Context, id int64) (models.Recipe, error)

	// UpdateRecipe sends a PATCH when partial is set, a PUT otherwise.
	UpdateRecipe(ctx context.Context, id int64, in models.RecipeInput, partial bool) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, id int64) error
	UploadImage(ctx context.Context, id int64, upload models.ImageUpload) (models.RecipeImage, error)

	ListAttributes(ctx context.Context, kind models.AttributeKind, assignedOnly bool) ([]models.Attribute, error)
	UpdateAttribute(ctx context.Context, kind models.AttributeKind, id int64, name string) (models.Attribute, error)
	DeleteAttribute(ctx context.Context, kind models.AttributeKind, id int64) error
}
