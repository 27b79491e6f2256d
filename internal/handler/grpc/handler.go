package grpc

import (
	"context"
	"time"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/service"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
)

// DefaultCheckInterval is how often the serving status is refreshed.
const DefaultCheckInterval = 10 * time.Second

// Handler is the root gRPC transport handler.
//
// It serves the standard grpc.health.v1.Health service. The reported status
// follows [service.AppInfoService.Ping]: SERVING while the database answers,
// NOT_SERVING otherwise.
type Handler struct {
	services *service.Services

	health        *health.Server
	checkInterval time.Duration

	logger *logger.Logger
}

// NewHandler constructs a [Handler]. The status starts as NOT_SERVING until
// the first check passes.
func NewHandler(services *service.Services, logger *logger.Logger) *Handler {
	h := &Handler{
		services:      services,
		health:        health.NewServer(),
		checkInterval: DefaultCheckInterval,
		logger:        logger,
	}
	h.health.SetServingStatus("", healthpb.HealthCheckResponse_NOT_SERVING)

	logger.Debug().Msg("gRPC handler created")
	return h
}

// Register attaches the handler's services to s.
func (h *Handler) Register(s *grpc.Server) {
	healthpb.RegisterHealthServer(s, h.health)
}

// Watch refreshes the serving status every check interval until ctx is
// done, then marks the server as shutting down.
func (h *Handler) Watch(ctx context.Context) {
	ticker := time.NewTicker(h.checkInterval)
	defer ticker.Stop()

	for {
		h.Check(ctx)

		select {
		case <-ctx.Done():
			h.health.Shutdown()
			return
		case <-ticker.C:
		}
	}
}

// Check pings the application once and publishes the result.
func (h *Handler) Check(ctx context.Context) healthpb.HealthCheckResponse_ServingStatus {
	status := healthpb.HealthCheckResponse_SERVING
	if err := h.services.AppInfoService.Ping(ctx); err != nil {
		h.logger.Warn().Err(err).Msg("health check failed")
		status = healthpb.HealthCheckResponse_NOT_SERVING
	}

	h.health.SetServingStatus("", status)
	return status
}
