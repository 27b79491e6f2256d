package http

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/MKhiriev/go-recipe-keeper/internal/validators"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

const msgNoFile = "No file was submitted."

func (h *Handler) listRecipes(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	query := r.URL.Query()
	tagIDs, err := parseIDList("tags", query.Get("tags"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	ingredientIDs, err := parseIDList("ingredients", query.Get("ingredients"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipes, err := h.services.RecipeService.ListRecipes(r.Context(), models.RecipeFilter{
		UserID:        userID,
		TagIDs:        tagIDs,
		IngredientIDs: ingredientIDs,
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	summaries := make([]models.RecipeSummary, 0, len(recipes))
	for _, recipe := range recipes {
		summaries = append(summaries, recipe.Summary())
	}

	utils.WriteJSON(w, summaries, http.StatusOK)
}

func (h *Handler) createRecipe(w http.ResponseWriter, r *http.Request) {
	userID, err := ownerID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	var input models.RecipeInput
	if err = h.decodeBody(w, r, &input); err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := h.services.RecipeService.CreateRecipe(r.Context(), userID, input)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, recipe.Detail(), http.StatusCreated)
}

func (h *Handler) getRecipe(w http.ResponseWriter, r *http.Request) {
	userID, recipeID, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	recipe, err := h.services.RecipeService.GetRecipe(r.Context(), userID, recipeID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	utils.WriteJSON(w, recipe.Detail(), http.StatusOK)
}

// updateRecipe serves PATCH when partial is set and PUT otherwise.
func (h *Handler) updateRecipe(partial bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, recipeID, err := ownerAndID(r)
		if err != nil {
			writeError(w, r, err)
			return
		}

		var input models.RecipeInput
		if err = h.decodeBody(w, r, &input); err != nil {
			writeError(w, r, err)
			return
		}

		recipe, err := h.services.RecipeService.UpdateRecipe(r.Context(), userID, recipeID, input, partial)
		if err != nil {
			writeError(w, r, err)
			return
		}

		utils.WriteJSON(w, recipe.Detail(), http.StatusOK)
	}
}

func (h *Handler) deleteRecipe(w http.ResponseWriter, r *http.Request) {
	userID, recipeID, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if err = h.services.RecipeService.DeleteRecipe(r.Context(), userID, recipeID); err != nil {
		writeError(w, r, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) uploadImage(w http.ResponseWriter, r *http.Request) {
	log := logger.FromRequest(r)

	userID, recipeID, err := ownerAndID(r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	upload, err := h.readImageUpload(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	image, err := h.services.RecipeService.UploadImage(r.Context(), userID, recipeID, upload)
	if err != nil {
		writeError(w, r, err)
		return
	}

	log.Info().Int64("recipe_id", recipeID).Int("size", len(upload.Data)).Msg("recipe image uploaded")
	utils.WriteJSON(w, image, http.StatusOK)
}

// readImageUpload extracts the multipart "image" field of r, reading at
// most h.maxUploadSize bytes.
func (h *Handler) readImageUpload(w http.ResponseWriter, r *http.Request) (models.ImageUpload, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		var tooLarge *http.MaxBytesError
		switch {
		case errors.As(err, &tooLarge):
			return models.ImageUpload{}, ErrRequestTooLarge
		case errors.Is(err, http.ErrNotMultipart):
			return models.ImageUpload{}, validators.NewFieldError(validators.FieldImage, msgNoFile)
		default:
			return models.ImageUpload{}, fmt.Errorf("%w: %w", ErrMalformedForm, err)
		}
	}
	defer func() {
		_ = r.MultipartForm.RemoveAll()
	}()

	file, header, err := r.FormFile(validators.FieldImage)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) {
			return models.ImageUpload{}, validators.NewFieldError(validators.FieldImage, msgNoFile)
		}
		return models.ImageUpload{}, fmt.Errorf("error reading upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return models.ImageUpload{}, fmt.Errorf("error reading upload: %w", err)
	}

	return models.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func ownerAndID(r *http.Request) (int64, int64, error) {
	userID, err := ownerID(r)
	if err != nil {
		return 0, 0, err
	}

	id, err := pathID(r)
	if err != nil {
		return 0, 0, err
	}

	return userID, id, nil
}
