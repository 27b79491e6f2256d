package service

import (
	"context"
	"errors"
	"testing"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/mock"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/MKhiriev/go-recipe-keeper/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type recipeMocks struct {
	recipes *mock.MockRecipeRepository
	images  *mock.MockImageStorage
	rec     *countingRecorder
}

func newTestRecipeSvc(t *testing.T, ctrl *gomock.Controller) (*recipeService, recipeMocks) {
	t.Helper()
	m := recipeMocks{
		recipes: mock.NewMockRecipeRepository(ctrl),
		images:  mock.NewMockImageStorage(ctrl),
		rec:     newCountingRecorder(),
	}

	svc := NewRecipeService(&store.Storages{RecipeRepository: m.recipes, ImageStorage: m.images}, m.rec, logger.Nop()).(*recipeService)
	svc.ids = fixedIDs{id: "0190-abc"}

	return svc, m
}

func urlOf(key string) string { return "/media/" + key }

// ── reads ────────────────────────────────────────────────────────────────────

func TestRecipeService_ListRecipes_FillsImageURLs(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)
	filter := models.RecipeFilter{UserID: 1, TagIDs: []int64{2}}

	m.recipes.EXPECT().ListRecipes(gomock.Any(), filter).Return([]models.Recipe{
		{ID: 2, ImagePath: "uploads/recipe/a.png"},
		{ID: 1},
	}, nil)
	m.images.EXPECT().URL("uploads/recipe/a.png").Return(urlOf("uploads/recipe/a.png"))

	recipes, err := svc.ListRecipes(context.Background(), filter)
	require.NoError(t, err)
	require.Len(t, recipes, 2)
	require.NotNil(t, recipes[0].Image)
	assert.Equal(t, "/media/uploads/recipe/a.png", *recipes[0].Image)
	assert.Nil(t, recipes[1].Image)
}

func TestRecipeService_GetRecipe_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)

	m.recipes.EXPECT().GetRecipe(gomock.Any(), int64(1), int64(9)).Return(models.Recipe{}, store.ErrRecipeNotFound)

	_, err := svc.GetRecipe(context.Background(), 1, 9)
	assert.ErrorIs(t, err, store.ErrRecipeNotFound)
}

// ── writes ───────────────────────────────────────────────────────────────────

func TestRecipeService_CreateRecipe(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)
	input := models.RecipeInput{Title: ptr("Sample"), TimeMinutes: ptr(5), Price: ptr(models.MustPrice("5.00"))}

	m.recipes.EXPECT().CreateRecipe(gomock.Any(), int64(1), input).Return(models.Recipe{ID: 3, Title: "Sample"}, nil)

	recipe, err := svc.CreateRecipe(context.Background(), 1, input)
	require.NoError(t, err)
	assert.Equal(t, int64(3), recipe.ID)
}

func TestRecipeService_UpdateRecipe_Error(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)

	m.recipes.EXPECT().UpdateRecipe(gomock.Any(), int64(2), int64(3), gomock.Any()).Return(models.Recipe{}, store.ErrRecipeNotFound)

	_, err := svc.UpdateRecipe(context.Background(), 2, 3, models.RecipeInput{Title: ptr("x")}, true)
	assert.ErrorIs(t, err, store.ErrRecipeNotFound)
}

func TestRecipeService_DeleteRecipe_RemovesImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)

	m.recipes.EXPECT().DeleteRecipe(gomock.Any(), int64(1), int64(3)).Return("uploads/recipe/a.png", nil)
	m.images.EXPECT().Delete(gomock.Any(), "uploads/recipe/a.png").Return(errors.New("gone"))

	// a failing blob removal does not fail the delete
	assert.NoError(t, svc.DeleteRecipe(context.Background(), 1, 3))
}

func TestRecipeService_DeleteRecipe_NoImage(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)

	m.recipes.EXPECT().DeleteRecipe(gomock.Any(), int64(1), int64(3)).Return("", nil)

	assert.NoError(t, svc.DeleteRecipe(context.Background(), 1, 3))
}

func TestRecipeService_DeleteRecipe_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)

	m.recipes.EXPECT().DeleteRecipe(gomock.Any(), int64(1), int64(3)).Return("", store.ErrRecipeNotFound)

	assert.ErrorIs(t, svc.DeleteRecipe(context.Background(), 1, 3), store.ErrRecipeNotFound)
}

// ── UploadImage ──────────────────────────────────────────────────────────────

func TestRecipeService_UploadImage_ReplacesPrevious(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)
	upload := models.ImageUpload{Filename: "photo.JPG", ContentType: "text/html", Data: []byte("img")}
	const newKey = "uploads/recipe/0190-abc.JPG"
	stored := models.ImageUpload{Filename: "photo.JPG", ContentType: "image/jpeg", Data: []byte("img")}

	gomock.InOrder(
		m.recipes.EXPECT().GetRecipe(gomock.Any(), int64(1), int64(3)).Return(models.Recipe{ID: 3}, nil),
		m.images.EXPECT().Save(gomock.Any(), newKey, stored).Return(nil),
		m.recipes.EXPECT().SetRecipeImage(gomock.Any(), int64(1), int64(3), newKey).Return("uploads/recipe/old.png", nil),
		m.images.EXPECT().Delete(gomock.Any(), "uploads/recipe/old.png").Return(nil),
		m.images.EXPECT().URL(newKey).Return(urlOf(newKey)),
	)

	img, err := svc.UploadImage(context.Background(), 1, 3, upload)
	require.NoError(t, err)
	assert.Equal(t, int64(3), img.ID)
	require.NotNil(t, img.Image)
	assert.Equal(t, "/media/"+newKey, *img.Image)
	assert.Equal(t, 1, m.rec.uploads["ok"])
}

func TestRecipeService_UploadImage_ForeignRecipe(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)

	m.recipes.EXPECT().GetRecipe(gomock.Any(), int64(2), int64(3)).Return(models.Recipe{}, store.ErrRecipeNotFound)

	_, err := svc.UploadImage(context.Background(), 2, 3, models.ImageUpload{Filename: "a.png"})
	assert.ErrorIs(t, err, store.ErrRecipeNotFound)
	assert.Equal(t, 1, m.rec.uploads["error"])
}

func TestRecipeService_UploadImage_CleansUpOnFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)
	const newKey = "uploads/recipe/0190-abc.png"

	m.recipes.EXPECT().GetRecipe(gomock.Any(), int64(1), int64(3)).Return(models.Recipe{ID: 3}, nil)
	m.images.EXPECT().Save(gomock.Any(), newKey, gomock.Any()).Return(nil)
	m.recipes.EXPECT().SetRecipeImage(gomock.Any(), int64(1), int64(3), newKey).Return("", store.ErrRecipeNotFound)
	m.images.EXPECT().Delete(gomock.Any(), newKey).Return(nil)

	_, err := svc.UploadImage(context.Background(), 1, 3, models.ImageUpload{Filename: "a.png"})
	assert.ErrorIs(t, err, store.ErrRecipeNotFound)
}

func TestRecipeService_UploadImage_SaveFails(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc, m := newTestRecipeSvc(t, ctrl)

	m.recipes.EXPECT().GetRecipe(gomock.Any(), int64(1), int64(3)).Return(models.Recipe{ID: 3}, nil)
	m.images.EXPECT().Save(gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("disk full"))

	_, err := svc.UploadImage(context.Background(), 1, 3, models.ImageUpload{Filename: "a.png"})
	assert.ErrorContains(t, err, "disk full")
}

func TestRecipeService_UploadImage_NoStorage(t *testing.T) {
	svc := NewRecipeService(&store.Storages{}, nil, logger.Nop())

	_, err := svc.UploadImage(context.Background(), 1, 3, models.ImageUpload{})
	assert.ErrorIs(t, err, ErrImageStorageNotConfigured)
}
