package handler

import (
	"github.com/MKhiriev/go-recipe-keeper/internal/config"
	"github.com/MKhiriev/go-recipe-keeper/internal/handler/grpc"
	"github.com/MKhiriev/go-recipe-keeper/internal/handler/http"
	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/service"
)

type Handlers struct {
	HTTP *http.Handler
	GRPC *grpc.Handler
}

// NewHandlers creates a handler for every transport with a configured
// address. Request limits from cfg are applied to the HTTP handler before
// httpOpts.
func NewHandlers(services *service.Services, cfg config.Server, logger *logger.Logger, httpOpts ...http.Option) (*Handlers, error) {
	logger.Info().Msg("creating new handlers...")

	handlers := &Handlers{}

	if cfg.HTTPAddress != "" {
		opts := append([]http.Option{
			http.WithRequestTimeout(cfg.RequestTimeout),
			http.WithMaxUploadSize(cfg.MaxUploadSize),
			http.WithMaxBodySize(cfg.MaxBodySize),
		}, httpOpts...)
		handlers.HTTP = http.NewHandler(services, logger, opts...)
	}
	if cfg.GRPCAddress != "" {
		handlers.GRPC = grpc.NewHandler(services, logger)
	}

	if handlers.HTTP == nil && handlers.GRPC == nil {
		return nil, ErrNoTransports
	}

	return handlers, nil
}
