package service

import (
	"context"
	"errors"
	"fmt"
	"mime"
	"path"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

// recipeImageDir is the storage key prefix of uploaded recipe images.
const recipeImageDir = "uploads/recipe"

// recipeService holds the recipe rules that need storage access. Input
// validation is layered on top by [RecipeValidationService].
type recipeService struct {
	recipeRepository store.RecipeRepository
	images           store.ImageStorage

	ids     idGenerator
	metrics MetricsRecorder

	logger *logger.Logger
}

func NewRecipeService(storages *store.Storages, metrics MetricsRecorder, logger *logger.Logger) RecipeService {
	if metrics == nil {
		metrics = nopRecorder{}
	}

	return &recipeService{
		recipeRepository: storages.RecipeRepository,
		images:           storages.ImageStorage,
		ids:              utils.NewUUIDGenerator(),
		metrics:          metrics,
		logger:           logger,
	}
}

func (s *recipeService) ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error) {
	recipes, err := s.recipeRepository.ListRecipes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing recipes: %w", err)
	}

	for i := range recipes {
		s.withImageURL(&recipes[i])
	}

	return recipes, nil
}

func (s *recipeService) GetRecipe(ctx context.Context, userID, recipeID int64) (models.Recipe, error) {
	recipe, err := s.recipeRepository.GetRecipe(ctx, userID, recipeID)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("error getting recipe: %w", err)
	}

	s.withImageURL(&recipe)
	return recipe, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, userID int64, input models.RecipeInput) (models.Recipe, error) {
	recipe, err := s.recipeRepository.CreateRecipe(ctx, userID, input)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("error creating recipe: %w", err)
	}

	s.withImageURL(&recipe)
	return recipe, nil
}

// UpdateRecipe stores input as is; partial only matters to validation.
func (s *recipeService) UpdateRecipe(ctx context.Context, userID, recipeID int64, input models.RecipeInput, _ bool) (models.Recipe, error) {
	recipe, err := s.recipeRepository.UpdateRecipe(ctx, userID, recipeID, input)
	if err != nil {
		return models.Recipe{}, fmt.Errorf("error updating recipe: %w", err)
	}

	s.withImageURL(&recipe)
	return recipe, nil
}

// DeleteRecipe removes the recipe, then its image. A failed image removal is
// only logged.
func (s *recipeService) DeleteRecipe(ctx context.Context, userID, recipeID int64) error {
	imageKey, err := s.recipeRepository.DeleteRecipe(ctx, userID, recipeID)
	if err != nil {
		return fmt.Errorf("error deleting recipe: %w", err)
	}

	s.deleteImage(ctx, imageKey)
	return nil
}

// UploadImage stores upload under a fresh random key, points the recipe at it
// and removes the image it replaced. The upload must already be validated.
func (s *recipeService) UploadImage(ctx context.Context, userID, recipeID int64, upload models.ImageUpload) (image models.RecipeImage, err error) {
	log := logger.FromContext(ctx)

	if s.images == nil {
		return models.RecipeImage{}, ErrImageStorageNotConfigured
	}

	defer func() {
		if err != nil {
			s.metrics.ObserveImageUpload("error")
			return
		}
		s.metrics.ObserveImageUpload("ok")
	}()

	// 404 for foreign recipes before anything is written
	if _, err = s.recipeRepository.GetRecipe(ctx, userID, recipeID); err != nil {
		return models.RecipeImage{}, fmt.Errorf("error getting recipe: %w", err)
	}

	key := path.Join(recipeImageDir, utils.RandomFileName(s.ids.Generate(), upload.Filename))
	// validated extensions name the real format; the client's header is not trusted
	upload.ContentType = mime.TypeByExtension(path.Ext(key))
	if err = s.images.Save(ctx, key, upload); err != nil {
		log.Err(err).Str("func", "*recipeService.UploadImage").Str("key", key).Msg("error saving image")
		return models.RecipeImage{}, fmt.Errorf("error saving image: %w", err)
	}

	oldKey, err := s.recipeRepository.SetRecipeImage(ctx, userID, recipeID, key)
	if err != nil {
		s.deleteImage(ctx, key)
		return models.RecipeImage{}, fmt.Errorf("error setting recipe image: %w", err)
	}

	s.deleteImage(ctx, oldKey)

	url := s.images.URL(key)
	return models.RecipeImage{ID: recipeID, Image: &url}, nil
}

func (s *recipeService) deleteImage(ctx context.Context, key string) {
	if key == "" || s.images == nil {
		return
	}

	if err := s.images.Delete(ctx, key); err != nil && !errors.Is(err, context.Canceled) {
		logger.FromContext(ctx).Warn().Err(err).Str("key", key).Msg("error deleting image")
	}
}

func (s *recipeService) withImageURL(recipe *models.Recipe) {
	if recipe.ImagePath == "" || s.images == nil {
		recipe.Image = nil
		return
	}

	url := s.images.URL(recipe.ImagePath)
	recipe.Image = &url
}
