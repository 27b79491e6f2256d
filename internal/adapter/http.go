package adapter

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/utils"
	"github.com/MKhiriev/go-recipe-keeper/models"
	"github.com/go-resty/resty/v2"
)

type httpServerAdapter struct {
	client *utils.HTTPClient

	mu    sync.RWMutex
	token string

	logger *logger.Logger
}

// NewHTTPServerAdapter constructs an HTTP implementation of [ServerAdapter]
// sending requests to address. A bare "host:port" is treated as http. A zero
// timeout leaves requests unbounded.
//
// Returns an error if address is empty or cannot be parsed as a URL.
func NewHTTPServerAdapter(address string, timeout time.Duration, logger *logger.Logger) (ServerAdapter, error) {
	baseURL, err := normalizeBaseURL(address)
	if err != nil {
		return nil, fmt.Errorf("invalid adapter http address: %w", err)
	}

	return &httpServerAdapter{client: utils.NewHTTPClient(baseURL, timeout), logger: logger}, nil
}

func normalizeBaseURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty address")
	}

	if !strings.Contains(raw, "://") {
		raw = "http://" + raw
	}

	u, err := url.Parse(raw)
	if err != nil {
		return "", err
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("address must include host and scheme")
	}

	return strings.TrimRight(u.String(), "/"), nil
}

func (h *httpServerAdapter) SetToken(token string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.token = strings.TrimSpace(token)
}

func (h *httpServerAdapter) Token() string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.token
}

// Health implements [ServerAdapter]. The body is decoded for 200 and 503 alike.
func (h *httpServerAdapter) Health(ctx context.Context) (Health, error) {
	resp, err := h.client.R().SetContext(ctx).Get("/api/health")
	if err != nil {
		return Health{}, fmt.Errorf("health request: %w", err)
	}

	var health Health
	if resp.StatusCode() == http.StatusOK || resp.StatusCode() == http.StatusServiceUnavailable {
		if err = json.Unmarshal(resp.Body(), &health); err != nil {
			return Health{}, fmt.Errorf("decode health response: %w", err)
		}
	}

	return health, mapHTTPError(resp)
}

func (h *httpServerAdapter) Register(ctx context.Context, req models.RegisterRequest) (models.UserResponse, error) {
	var user models.UserResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&user).
		Post("/api/users")
	if err != nil {
		return models.UserResponse{}, fmt.Errorf("register request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return models.UserResponse{}, err
	}

	return user, nil
}

func (h *httpServerAdapter) CreateToken(ctx context.Context, req models.LoginRequest) (string, error) {
	var token models.TokenResponse

	resp, err := h.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&token).
		Post("/api/users/token")
	if err != nil {
		return "", fmt.Errorf("token request: %w", err)
	}
	if err = mapHTTPError(resp); err != nil {
		return "", err
	}

	h.SetToken(token.Token)
	return token.Token, nil
}

func (h *httpServerAdapter) Me(ctx context.Context) (models.UserResponse, error) {
	var user models.UserResponse
	err := h.do(h.authedRequest(ctx).SetResult(&user), http.MethodGet, "/api/users/me")
	return user, err
}

func (h *httpServerAdapter) UpdateMe(ctx context.Context, update models.ProfileUpdate) (models.UserResponse, error) {
	var user models.UserResponse
	err := h.do(h.authedRequest(ctx).SetBody(update).SetResult(&user), http.MethodPatch, "/api/users/me")
	return user, err
}

func (h *httpServerAdapter) ListRecipes(ctx context.Context, tagIDs, ingredientIDs []int64) ([]models.RecipeSummary, error) {
	req := h.authedRequest(ctx)
	if len(tagIDs) > 0 {
		req.SetQueryParam("tags", joinIDs(tagIDs))
	}
	if len(ingredientIDs) > 0 {
		req.SetQueryParam("ingredients", joinIDs(ingredientIDs))
	}

	var recipes []models.RecipeSummary
	err := h.do(req.SetResult(&recipes), http.MethodGet, "/api/recipes")
	return recipes, err
}

func (h *httpServerAdapter) CreateRecipe(ctx context.Context, in models.RecipeInput) (models.Recipe, error) {
	var recipe models.Recipe
	err := h.do(h.authedRequest(ctx).SetBody(in).SetResult(&recipe), http.MethodPost, "/api/recipes")
	return recipe, err
}

func (h *httpServerAdapter) GetRecipe(ctx context.Context, id int64) (models.Recipe, error) {
	var recipe models.Recipe
	err := h.do(h.authedRequest(ctx).SetResult(&recipe), http.MethodGet, recipePath(id))
	return recipe, err
}

func (h *httpServerAdapter) UpdateRecipe(ctx context.Context, id int64, in models.RecipeInput, partial bool) (models.Recipe, error) {
	method := http.MethodPut
	if partial {
		method = http.MethodPatch
	}

	var recipe models.Recipe
	err := h.do(h.authedRequest(ctx).SetBody(in).SetResult(&recipe), method, recipePath(id))
	return recipe, err
}

func (h *httpServerAdapter) DeleteRecipe(ctx context.Context, id int64) error {
	return h.do(h.authedRequest(ctx), http.MethodDelete, recipePath(id))
}

func (h *httpServerAdapter) UploadImage(ctx context.Context, id int64, upload models.ImageUpload) (models.RecipeImage, error) {
	var image models.RecipeImage
	req := h.authedRequest(ctx).
		SetFileReader("image", upload.Filename, bytes.NewReader(upload.Data)).
		SetResult(&image)

	err := h.do(req, http.MethodPost, recipePath(id)+"/upload-image")
	return image, err
}

func (h *httpServerAdapter) ListAttributes(ctx context.Context, kind models.AttributeKind, assignedOnly bool) ([]models.Attribute, error) {
	path, err := attributePath(kind)
	if err != nil {
		return nil, err
	}

	req := h.authedRequest(ctx)
	if assignedOnly {
		req.SetQueryParam("assigned_only", "1")
	}

	var attrs []models.Attribute
	err = h.do(req.SetResult(&attrs), http.MethodGet, path)
	return attrs, err
}

func (h *httpServerAdapter) UpdateAttribute(ctx context.Context, kind models.AttributeKind, id int64, name string) (models.Attribute, error) {
	path, err := attributePath(kind)
	if err != nil {
		return models.Attribute{}, err
	}

	var attr models.Attribute
	err = h.do(h.authedRequest(ctx).SetBody(models.AttributeUpdate{Name: &name}).SetResult(&attr),
		http.MethodPatch, path+"/"+strconv.FormatInt(id, 10))
	return attr, err
}

func (h *httpServerAdapter) DeleteAttribute(ctx context.Context, kind models.AttributeKind, id int64) error {
	path, err := attributePath(kind)
	if err != nil {
		return err
	}

	return h.do(h.authedRequest(ctx), http.MethodDelete, path+"/"+strconv.FormatInt(id, 10))
}

func (h *httpServerAdapter) authedRequest(ctx context.Context) *resty.Request {
	req := h.client.R().SetContext(ctx)
	if token := h.Token(); token != "" {
		req.SetHeader("Authorization", "Token "+token)
	}
	return req
}

func (h *httpServerAdapter) do(req *resty.Request, method, path string) error {
	resp, err := req.Execute(method, path)
	if err != nil {
		return fmt.Errorf("%s %s request: %w", method, path, err)
	}

	if err = mapHTTPError(resp); err != nil {
		h.logger.Debug().Err(err).
			Str("method", method).
			Str("path", path).
			Msg("server answered with an error")
		return err
	}

	return nil
}

func recipePath(id int64) string {
	return "/api/recipes/" + strconv.FormatInt(id, 10)
}

func attributePath(kind models.AttributeKind) (string, error) {
	switch kind {
	case models.KindTag:
		return "/api/tags", nil
	case models.KindIngredient:
		return "/api/ingredients", nil
	default:
		return "", fmt.Errorf("%w: %d", ErrUnknownAttributeKind, kind)
	}
}

func joinIDs(ids []int64) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.FormatInt(id, 10)
	}
	return strings.Join(parts, ",")
}
