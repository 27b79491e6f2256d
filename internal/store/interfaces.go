// Package store holds the persistence layer: SQL repositories for users,
// tokens, recipes, tags and ingredients, the token key cache and the image
// blob storage.
//
// Every recipe, tag and ingredient query takes the owner id as an explicit
// argument and applies it inside the statement itself.
package store

import (
	"context"

	"github.com/MKhiriev/go-recipe-keeper/models"
)

//go:generate mockgen -source=interfaces.go -destination=../mock/store_mock.go -package=mock

// ErrorClassificator decides whether a failed transaction may be retried.
type ErrorClassificator interface {
	Classify(err error) ErrorClassification
}

// UserRepository persists user accounts.
type UserRepository interface {
	// CreateUser inserts user and returns it with id and created_at set.
	// A duplicate email yields [ErrEmailAlreadyExists].
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByEmail performs an exact email lookup.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	FindUserByID(ctx context.Context, userID int64) (models.User, error)

	// UpdateUser overwrites name and password of the user with user.UserID.
	UpdateUser(ctx context.Context, user models.User) (models.User, error)
}

// TokenRepository keeps the id of the one valid token per user.
type TokenRepository interface {
	// SaveToken stores key as the user's current token id, replacing any
	// previous one.
	SaveToken(ctx context.Context, userID int64, key string) error

	// FindTokenKey returns the user's current token id or [ErrTokenNotFound].
	FindTokenKey(ctx context.Context, userID int64) (string, error)
}

// TokenCache is a read-through cache in front of [TokenRepository].
type TokenCache interface {
	SetTokenKey(ctx context.Context, userID int64, key string) error
	// AddTokenKey is SetTokenKey that leaves an existing entry alone. It
	// reports whether key was stored.
	AddTokenKey(ctx context.Context, userID int64, key string) (bool, error)
	// GetTokenKey returns [ErrCacheMiss] when nothing is cached for userID.
	GetTokenKey(ctx context.Context, userID int64) (string, error)
	DeleteTokenKey(ctx context.Context, userID int64) error
}

// RecipeRepository stores recipes together with their tag and ingredient
// links. Writes touching several tables run in one transaction.
type RecipeRepository interface {
	// ListRecipes returns the owner's recipes, newest first, narrowed by the
	// tag and ingredient ids of filter.
	ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error)

	GetRecipe(ctx context.Context, userID, recipeID int64) (models.Recipe, error)

	// CreateRecipe inserts a recipe owned by userID. Nested tag and
	// ingredient names are get-or-created for the same owner.
	CreateRecipe(ctx context.Context, userID int64, input models.RecipeInput) (models.Recipe, error)

	// UpdateRecipe applies the non-nil fields of input. A non-nil Tags or
	// Ingredients replaces the whole link set.
	UpdateRecipe(ctx context.Context, userID, recipeID int64, input models.RecipeInput) (models.Recipe, error)

	// DeleteRecipe removes the recipe and returns its image key.
	DeleteRecipe(ctx context.Context, userID, recipeID int64) (string, error)

	// SetRecipeImage stores imageKey on the recipe and returns the key it
	// replaced.
	SetRecipeImage(ctx context.Context, userID, recipeID int64, imageKey string) (string, error)
}

// AttributeRepository manages tags and ingredients; the kind argument picks
// the table.
type AttributeRepository interface {
	// ListAttributes returns the owner's attributes ordered by name
	// descending. AssignedOnly keeps attributes linked to a recipe.
	ListAttributes(ctx context.Context, filter models.AttributeFilter) ([]models.Attribute, error)
	GetAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) (models.Attribute, error)
	// UpdateAttribute renames an attribute. A clash with another name of the
	// same owner yields [ErrAttributeNameTaken].
	UpdateAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64, name string) (models.Attribute, error)
	DeleteAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) error
}

// ImageStorage keeps uploaded image blobs under slash-separated keys.
type ImageStorage interface {
	Save(ctx context.Context, key string, upload models.ImageUpload) error
	// Delete removes key. A missing blob is not an error.
	Delete(ctx context.Context, key string) error
	// URL returns the public address of key.
	URL(key string) string
}
