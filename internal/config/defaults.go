package config

import "time"

// Default values applied before any other configuration source.
const (
	DefaultHTTPAddress      = "localhost:8080"
	DefaultTokenIssuer      = "go-recipe-keeper"
	DefaultPasswordHashCost = 10
	DefaultImagesDir        = "media"
	DefaultMediaURL         = "/media/"
	DefaultRequestTimeout   = 30 * time.Second
	DefaultMaxUploadSize    = 10 << 20
	DefaultMaxBodySize      = 1 << 20
	DefaultDBWaitTimeout    = 30 * time.Second
	DefaultDBWaitInterval   = time.Second
	DefaultTokenCacheTTL    = time.Hour
	DefaultServiceName      = "go-recipe-keeper"
)

func defaultConfig() *StructuredConfig {
	return &StructuredConfig{
		App: App{
			TokenIssuer:      DefaultTokenIssuer,
			PasswordHashCost: DefaultPasswordHashCost,
		},
		Storage: Storage{
			DB: DB{
				WaitTimeout:  DefaultDBWaitTimeout,
				WaitInterval: DefaultDBWaitInterval,
			},
			Files: Files{
				ImagesDir: DefaultImagesDir,
				MediaURL:  DefaultMediaURL,
			},
			Cache: Cache{
				TokenTTL: DefaultTokenCacheTTL,
			},
		},
		Server: Server{
			HTTPAddress:    DefaultHTTPAddress,
			RequestTimeout: DefaultRequestTimeout,
			MaxUploadSize:  DefaultMaxUploadSize,
			MaxBodySize:    DefaultMaxBodySize,
		},
		Telemetry: Telemetry{
			ServiceName: DefaultServiceName,
		},
	}
}
