package http

import (
	"net/http"
	"time"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/observability/metrics"
	"github.com/MKhiriev/go-recipe-keeper/internal/service"
)

// Body limits used when none is configured.
const (
	defaultMaxUploadSize = 10 << 20
	defaultMaxBodySize   = 1 << 20
)

type Handler struct {
	services *service.Services

	metrics *metrics.Metrics

	// media serves locally stored images under /media/. Nil when images
	// live in object storage.
	media http.Handler

	requestTimeout time.Duration
	maxUploadSize  int64
	maxBodySize    int64

	logger *logger.Logger
}

// Option customises a [Handler].
type Option func(*Handler)

// WithMetrics records request metrics and exposes them on /metrics.
func WithMetrics(m *metrics.Metrics) Option {
	return func(h *Handler) { h.metrics = m }
}

// WithMediaDir serves the files of dir under /media/.
func WithMediaDir(dir string) Option {
	return func(h *Handler) {
		if dir != "" {
			h.media = newMediaHandler(dir)
		}
	}
}

// WithRequestTimeout cancels requests running longer than d.
func WithRequestTimeout(d time.Duration) Option {
	return func(h *Handler) { h.requestTimeout = d }
}

// WithMaxBodySize limits JSON request bodies to n decoded bytes.
func WithMaxBodySize(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxBodySize = n
		}
	}
}

// WithMaxUploadSize limits image upload bodies to n bytes.
func WithMaxUploadSize(n int64) Option {
	return func(h *Handler) {
		if n > 0 {
			h.maxUploadSize = n
		}
	}
}

func NewHandler(services *service.Services, logger *logger.Logger, opts ...Option) *Handler {
	h := &Handler{
		services:      services,
		maxUploadSize: defaultMaxUploadSize,
		maxBodySize:   defaultMaxBodySize,
		logger:        logger,
	}
	for _, opt := range opts {
		opt(h)
	}

	logger.Info().Msg("http handler created")
	return h
}
