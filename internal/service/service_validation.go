package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-recipe-keeper/internal/validators"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

const msgRequired = "This field is required."

// RecipeValidationService checks recipe payloads before they reach the
// wrapped RecipeService.
type RecipeValidationService struct {
	inner     RecipeService
	validator validators.Validator
}

func NewRecipeValidationService(v validators.Validator) RecipeServiceWrapper {
	return &RecipeValidationService{validator: v}
}

func (v *RecipeValidationService) Wrap(inner RecipeService) RecipeService {
	v.inner = inner
	return v
}

func (v *RecipeValidationService) ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error) {
	if filter.UserID == 0 {
		return nil, ErrInvalidDataProvided
	}
	return v.inner.ListRecipes(ctx, filter)
}

func (v *RecipeValidationService) GetRecipe(ctx context.Context, userID, recipeID int64) (models.Recipe, error) {
	return v.inner.GetRecipe(ctx, userID, recipeID)
}

func (v *RecipeValidationService) CreateRecipe(ctx context.Context, userID int64, input models.RecipeInput) (models.Recipe, error) {
	if err := v.validate(ctx, input, true); err != nil {
		return models.Recipe{}, fmt.Errorf("error during recipe validation before saving: %w", err)
	}
	return v.inner.CreateRecipe(ctx, userID, input)
}

func (v *RecipeValidationService) UpdateRecipe(ctx context.Context, userID, recipeID int64, input models.RecipeInput, partial bool) (models.Recipe, error) {
	if err := v.validate(ctx, input, !partial); err != nil {
		return models.Recipe{}, fmt.Errorf("error during recipe validation before updating: %w", err)
	}
	return v.inner.UpdateRecipe(ctx, userID, recipeID, input, partial)
}

func (v *RecipeValidationService) DeleteRecipe(ctx context.Context, userID, recipeID int64) error {
	return v.inner.DeleteRecipe(ctx, userID, recipeID)
}

func (v *RecipeValidationService) UploadImage(ctx context.Context, userID, recipeID int64, upload models.ImageUpload) (models.RecipeImage, error) {
	if err := v.validator.Validate(ctx, upload); err != nil {
		return models.RecipeImage{}, fmt.Errorf("error during image validation: %w", err)
	}
	return v.inner.UploadImage(ctx, userID, recipeID, upload)
}

// validate merges missing required fields into the field errors of the
// struct rules, so one response lists every problem.
func (v *RecipeValidationService) validate(ctx context.Context, input models.RecipeInput, full bool) error {
	fe := validators.FieldErrors{}

	if full {
		for _, field := range input.Missing() {
			fe.Add(field, msgRequired)
		}
	}

	if err := v.validator.Validate(ctx, input); err != nil {
		var tagErrs validators.FieldErrors
		if !errors.As(err, &tagErrs) {
			return err
		}
		for field, msgs := range tagErrs {
			for _, msg := range msgs {
				fe.Add(field, msg)
			}
		}
	}

	if len(fe) > 0 {
		return fe
	}
	return nil
}

// AttributeValidationService checks tag and ingredient payloads before they
// reach the wrapped AttributeService.
type AttributeValidationService struct {
	inner     AttributeService
	validator validators.Validator
}

func NewAttributeValidationService(v validators.Validator) AttributeServiceWrapper {
	return &AttributeValidationService{validator: v}
}

func (v *AttributeValidationService) Wrap(inner AttributeService) AttributeService {
	v.inner = inner
	return v
}

func (v *AttributeValidationService) ListAttributes(ctx context.Context, filter models.AttributeFilter) ([]models.Attribute, error) {
	if filter.UserID == 0 {
		return nil, ErrInvalidDataProvided
	}
	return v.inner.ListAttributes(ctx, filter)
}

func (v *AttributeValidationService) GetAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) (models.Attribute, error) {
	return v.inner.GetAttribute(ctx, kind, userID, id)
}

func (v *AttributeValidationService) UpdateAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64, update models.AttributeUpdate, partial bool) (models.Attribute, error) {
	if !partial && update.Name == nil {
		return models.Attribute{}, validators.NewFieldError("name", msgRequired)
	}

	if err := v.validator.Validate(ctx, update); err != nil {
		return models.Attribute{}, fmt.Errorf("error during %s validation: %w", kind, err)
	}

	return v.inner.UpdateAttribute(ctx, kind, userID, id, update, partial)
}

func (v *AttributeValidationService) DeleteAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) error {
	return v.inner.DeleteAttribute(ctx, kind, userID, id)
}
