// Package service implements the business rules of the recipe API between the
// HTTP handlers and the store. Every resource operation takes the owner id
// as an explicit argument.
package service

import (
	"context"

	"github.com/MKhiriev/go-recipe-keeper/models"
)

type AuthService interface {
	RegisterUser(ctx context.Context, req models.RegisterRequest) (models.User, error)
	Login(ctx context.Context, req models.LoginRequest) (models.User, error)
	CreateToken(ctx context.Context, user models.User) (models.Token, error)
	ParseToken(ctx context.Context, tokenString string) (models.Token, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int64) (models.User, error)
	// UpdateProfile changes name and password only. Nil fields are kept.
	UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error)
	CreateSuperuser(ctx context.Context, req models.RegisterRequest) (models.User, error)
}

type RecipeService interface {
	ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error)
	GetRecipe(ctx context.Context, userID, recipeID int64) (models.Recipe, error)
	CreateRecipe(ctx context.Context, userID int64, input models.RecipeInput) (models.Recipe, error)
	// UpdateRecipe applies input to the recipe. With partial unset every
	// required field must be present.
	UpdateRecipe(ctx context.Context, userID, recipeID int64, input models.RecipeInput, partial bool) (models.Recipe, error)
	DeleteRecipe(ctx context.Context, userID, recipeID int64) error
	UploadImage(ctx context.Context, userID, recipeID int64, upload models.ImageUpload) (models.RecipeImage, error)
}

type AttributeService interface {
	ListAttributes(ctx context.Context, filter models.AttributeFilter) ([]models.Attribute, error)
	GetAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) (models.Attribute, error)
	UpdateAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64, update models.AttributeUpdate, partial bool) (models.Attribute, error)
	DeleteAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) error
}

type AppInfoService interface {
	GetAppVersion(ctx context.Context) string
	// Ping reports whether the database answers.
	Ping(ctx context.Context) error
}

// RecipeServiceWrapper defines middleware composition for RecipeService.
// Implementations wrap an existing RecipeService to add behavior such as
// validating.
type RecipeServiceWrapper interface {
	Wrap(RecipeService) RecipeService
}

// AttributeServiceWrapper is the [RecipeServiceWrapper] counterpart for
// AttributeService.
type AttributeServiceWrapper interface {
	Wrap(AttributeService) AttributeService
}

// MetricsRecorder receives business counters. *metrics.Metrics satisfies it.
type MetricsRecorder interface {
	ObserveImageUpload(result string)
	ObserveTokenCache(outcome string)
}

type nopRecorder struct{}

func (nopRecorder) ObserveImageUpload(string) {}
func (nopRecorder) ObserveTokenCache(string)  {}
