package service

import (
	"github.com/MKhiriev/go-recipe-keeper/internal/config"
	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/MKhiriev/go-recipe-keeper/internal/validators"
)

type Services struct {
	AuthService      AuthService
	UserService      UserService
	RecipeService    RecipeService
	AttributeService AttributeService
	AppInfoService   AppInfoService
}

// NewServices wires the services over storages. metrics may be nil.
func NewServices(storages *store.Storages, cfg config.App, metrics MetricsRecorder, logger *logger.Logger) (*Services, error) {
	logger.Info().Msg("creating new services...")

	v := validators.NewStructValidator()

	var db store.Pinger
	if storages.DB != nil {
		db = storages.DB
	}

	appInfo, err := NewAppInfoService(cfg, db, logger)
	if err != nil {
		return nil, err
	}

	return &Services{
		AuthService:      NewAuthService(storages, v, cfg, metrics, logger),
		UserService:      NewUserService(storages, v, cfg, logger),
		RecipeService:    NewRecipeValidationService(v).Wrap(NewRecipeService(storages, metrics, logger)),
		AttributeService: NewAttributeValidationService(v).Wrap(NewAttributeService(storages, logger)),
		AppInfoService:   appInfo,
	}, nil
}
