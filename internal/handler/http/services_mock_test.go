package http

import (
	"context"
	"net/http"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/service"
	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

// ─────────────────────────────────────────────
// Service mocks
// ─────────────────────────────────────────────

// Each mock method calls its fn field; a test sets only the fields it needs.

type mockAuthService struct {
	registerUserFn func(ctx context.Context, req models.RegisterRequest) (models.User, error)
	loginFn        func(ctx context.Context, req models.LoginRequest) (models.User, error)
	createTokenFn  func(ctx context.Context, user models.User) (models.Token, error)
	parseTokenFn   func(ctx context.Context, tokenString string) (models.Token, error)
}

func (m *mockAuthService) RegisterUser(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return m.registerUserFn(ctx, req)
}

func (m *mockAuthService) Login(ctx context.Context, req models.LoginRequest) (models.User, error) {
	return m.loginFn(ctx, req)
}

func (m *mockAuthService) CreateToken(ctx context.Context, user models.User) (models.Token, error) {
	return m.createTokenFn(ctx, user)
}

func (m *mockAuthService) ParseToken(ctx context.Context, tokenString string) (models.Token, error) {
	return m.parseTokenFn(ctx, tokenString)
}

type mockUserService struct {
	getProfileFn      func(ctx context.Context, userID int64) (models.User, error)
	updateProfileFn   func(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error)
	createSuperuserFn func(ctx context.Context, req models.RegisterRequest) (models.User, error)
}

func (m *mockUserService) GetProfile(ctx context.Context, userID int64) (models.User, error) {
	return m.getProfileFn(ctx, userID)
}

func (m *mockUserService) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error) {
	return m.updateProfileFn(ctx, userID, update)
}

func (m *mockUserService) CreateSuperuser(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return m.createSuperuserFn(ctx, req)
}

type mockRecipeService struct {
	listRecipesFn  func(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error)
	getRecipeFn    func(ctx context.Context, userID, recipeID int64) (models.Recipe, error)
	createRecipeFn func(ctx context.Context, userID int64, input models.RecipeInput) (models.Recipe, error)
	updateRecipeFn func(ctx context.Context, userID, recipeID int64, input models.RecipeInput, partial bool) (models.Recipe, error)
	deleteRecipeFn func(ctx context.Context, userID, recipeID int64) error
	uploadImageFn  func(ctx context.Context, userID, recipeID int64, upload models.ImageUpload) (models.RecipeImage, error)
}

func (m *mockRecipeService) ListRecipes(ctx context.Context, filter models.RecipeFilter) ([]models.Recipe, error) {
	return m.listRecipesFn(ctx, filter)
}

func (m *mockRecipeService) GetRecipe(ctx context.Context, userID, recipeID int64) (models.Recipe, error) {
	return m.getRecipeFn(ctx, userID, recipeID)
}

func (m *mockRecipeService) CreateRecipe(ctx context.Context, userID int64, input models.RecipeInput) (models.Recipe, error) {
	return m.createRecipeFn(ctx, userID, input)
}

func (m *mockRecipeService) UpdateRecipe(ctx context.Context, userID, recipeID int64, input models.RecipeInput, partial bool) (models.Recipe, error) {
	return m.updateRecipeFn(ctx, userID, recipeID, input, partial)
}

func (m *mockRecipeService) DeleteRecipe(ctx context.Context, userID, recipeID int64) error {
	return m.deleteRecipeFn(ctx, userID, recipeID)
}

func (m *mockRecipeService) UploadImage(ctx context.Context, userID, recipeID int64, upload models.ImageUpload) (models.RecipeImage, error) {
	return m.uploadImageFn(ctx, userID, recipeID, upload)
}

type mockAttributeService struct {
	listAttributesFn  func(ctx context.Context, filter models.AttributeFilter) ([]models.Attribute, error)
	getAttributeFn    func(ctx context.Context, kind models.AttributeKind, userID, id int64) (models.Attribute, error)
	updateAttributeFn func(ctx context.Context, kind models.AttributeKind, userID, id int64, update models.AttributeUpdate, partial bool) (models.Attribute, error)
	deleteAttributeFn func(ctx context.Context, kind models.AttributeKind, userID, id int64) error
}

func (m *mockAttributeService) ListAttributes(ctx context.Context, filter models.AttributeFilter) ([]models.Attribute, error) {
	return m.listAttributesFn(ctx, filter)
}

func (m *mockAttributeService) GetAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) (models.Attribute, error) {
	return m.getAttributeFn(ctx, kind, userID, id)
}

func (m *mockAttributeService) UpdateAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64, update models.AttributeUpdate, partial bool) (models.Attribute, error) {
	return m.updateAttributeFn(ctx, kind, userID, id, update, partial)
}

func (m *mockAttributeService) DeleteAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) error {
	return m.deleteAttributeFn(ctx, kind, userID, id)
}

type mockAppInfoService struct {
	version string
	pingErr error
}

func (m *mockAppInfoService) GetAppVersion(_ context.Context) string {
	return m.version
}

func (m *mockAppInfoService) Ping(_ context.Context) error {
	return m.pingErr
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

const testUserID int64 = 7

func newTestHandler() *Handler {
	return &Handler{
		services:      &service.Services{},
		maxUploadSize: defaultMaxUploadSize,
		maxBodySize:   defaultMaxBodySize,
		logger:        logger.Nop(),
	}
}

// withServices returns a Handler backed by svcs, filling the app info
// service so the health route never panics.
func withServices(svcs *service.Services) *Handler {
	if svcs.AppInfoService == nil {
		svcs.AppInfoService = &mockAppInfoService{version: "test"}
	}
	return NewHandler(svcs, logger.Nop())
}

// authenticated attaches testUserID and a nop logger to r, as the auth and
// trace id middleware would.
func authenticated(r *http.Request) *http.Request {
	ctx := utils.ContextWithUserID(r.Context(), testUserID)
	ctx = logger.Nop().Logger.WithContext(ctx)
	return r.WithContext(ctx)
}

// acceptAnyToken authenticates every bearer token as testUserID.
func acceptAnyToken() *mockAuthService {
	return &mockAuthService{
		parseTokenFn: func(context.Context, string) (models.Token, error) {
			return models.Token{UserID: testUserID}, nil
		},
	}
}

func ptr[T any](v T) *T { return &v }
