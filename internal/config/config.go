// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"time"
)

// StructuredConfig is the top-level configuration container for the
// go-recipe-keeper application. It aggregates all sub-configurations and is
// populated by merging defaults, an optional JSON file, environment variables
// and command-line flags.
//
// Struct tags:
//   - envPrefix: prefix applied to all nested env tag lookups (caarlos0/env).
//   - env      : direct environment variable name for scalar fields.
type StructuredConfig struct {
	// App holds application-level settings such as token parameters,
	// password hashing cost and the application version.
	App App `envPrefix:"APP_"`

	// Storage holds configuration for all persistence backends: the
	// relational database, the image store and the token cache.
	Storage Storage `envPrefix:"STORAGE_"`

	// Server holds network address and timeout settings for the HTTP and
	// gRPC servers.
	Server Server `envPrefix:"SERVER_"`

	// Telemetry holds tracing exporter settings.
	Telemetry Telemetry `envPrefix:"TELEMETRY_"`

	// JSONFilePath is the optional path to a JSON configuration file.
	// Populated via the CONFIG environment variable or the -c / -config flag.
	JSONFilePath string `env:"CONFIG"`
}

// App holds application-level configuration values that control
// authentication and versioning.
type App struct {
	// TokenSignKey is the secret key used to sign and verify bearer tokens.
	// Must be kept confidential.
	// Env: APP_TOKEN_SIGN_KEY
	TokenSignKey string `env:"TOKEN_SIGN_KEY"`

	// TokenIssuer is the "iss" claim embedded in every issued token.
	// Env: APP_TOKEN_ISSUER
	TokenIssuer string `env:"TOKEN_ISSUER"`

	// TokenDuration specifies how long a token remains valid after issuance.
	// Zero means tokens never expire and stay valid until reissued.
	// Env: APP_TOKEN_DURATION
	TokenDuration time.Duration `env:"TOKEN_DURATION"`

	// PasswordHashCost is the bcrypt cost factor used for new password hashes.
	// Env: APP_PASSWORD_HASH_COST
	PasswordHashCost int `env:"PASSWORD_HASH_COST"`

	// Version is the semantic version string of the running application.
	// Exposed via the /api/health/ endpoint.
	// Env: APP_VERSION
	Version string `env:"VERSION"`
}

// Storage groups the configuration for all storage backends used by the
// application.
type Storage struct {
	// DB holds the relational database connection settings.
	DB DB `envPrefix:"DB_"`

	// Files holds the local file-system image store settings.
	Files Files `envPrefix:"FILES_"`

	// S3 holds the object storage settings. When Bucket is set, images are
	// stored in S3 instead of the local directory.
	S3 S3 `envPrefix:"S3_"`

	// Cache holds the token cache settings.
	Cache Cache `envPrefix:"CACHE_"`
}

// DB holds connection settings for the relational database backend.
type DB struct {
	// DSN selects the driver by its scheme: "postgres://" or "postgresql://"
	// opens PostgreSQL through pgx, "file:" or a plain path opens SQLite.
	// Env: STORAGE_DB_DATABASE_URI
	DSN string `env:"DATABASE_URI"`

	// WaitTimeout bounds how long startup waits for the database to answer.
	// Env: STORAGE_DB_WAIT_TIMEOUT
	WaitTimeout time.Duration `env:"WAIT_TIMEOUT"`

	// WaitInterval is the pause between two connection attempts.
	// Env: STORAGE_DB_WAIT_INTERVAL
	WaitInterval time.Duration `env:"WAIT_INTERVAL"`
}

// Files holds file-system settings for uploaded recipe images.
type Files struct {
	// ImagesDir is the directory uploaded images are written to.
	// Env: STORAGE_FILES_IMAGES_DIR
	ImagesDir string `env:"IMAGES_DIR"`

	// MediaURL is the URL prefix images in ImagesDir are served under.
	// Env: STORAGE_FILES_MEDIA_URL
	MediaURL string `env:"MEDIA_URL"`
}

// S3 holds settings of an S3-compatible object store (AWS, MinIO).
type S3 struct {
	// Env: STORAGE_S3_BUCKET
	Bucket string `env:"BUCKET"`
	// Env: STORAGE_S3_REGION
	Region string `env:"REGION"`
	// Endpoint overrides the AWS endpoint, e.g. "http://localhost:9000".
	// Env: STORAGE_S3_ENDPOINT
	Endpoint string `env:"ENDPOINT"`
	// Env: STORAGE_S3_ACCESS_KEY
	AccessKey string `env:"ACCESS_KEY"`
	// Env: STORAGE_S3_SECRET_KEY
	SecretKey string `env:"SECRET_KEY"`
	// PublicURL is the prefix object keys are appended to in API responses.
	// Env: STORAGE_S3_PUBLIC_URL
	PublicURL string `env:"PUBLIC_URL"`
}

// Cache holds the token cache settings.
type Cache struct {
	// RedisURL enables the Redis token cache, e.g. "redis://localhost:6379/0".
	// Without it every token check reads the database.
	// Env: STORAGE_CACHE_REDIS_URL
	RedisURL string `env:"REDIS_URL"`

	// TokenTTL is how long a cached token key is trusted.
	// Env: STORAGE_CACHE_TOKEN_TTL
	TokenTTL time.Duration `env:"TOKEN_TTL"`
}

// Server holds network and timeout settings for the inbound transport layer.
type Server struct {
	// HTTPAddress is the TCP address on which the HTTP server listens,
	// in "host:port" format (e.g. "0.0.0.0:8080").
	// Env: SERVER_ADDRESS
	HTTPAddress string `env:"ADDRESS"`

	// GRPCAddress is the TCP address of the gRPC health server. Empty
	// disables it.
	// Env: SERVER_GRPC_ADDRESS
	GRPCAddress string `env:"GRPC_ADDRESS"`

	// RequestTimeout is the maximum duration allowed for a single inbound
	// request before the server cancels it (e.g. "30s", "1m").
	// Env: SERVER_REQUEST_TIMEOUT
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`

	// MaxUploadSize limits the request body of image uploads, in bytes.
	// Env: SERVER_MAX_UPLOAD_SIZE
	MaxUploadSize int64 `env:"MAX_UPLOAD_SIZE"`

	// MaxBodySize limits JSON request bodies, in bytes, counted after gzip
	// decoding.
	// Env: SERVER_MAX_BODY_SIZE
	MaxBodySize int64 `env:"MAX_BODY_SIZE"`
}

// Telemetry holds OpenTelemetry exporter settings.
type Telemetry struct {
	// OTLPEndpoint is the host:port of an OTLP/HTTP collector. Empty
	// disables tracing.
	// Env: TELEMETRY_OTLP_ENDPOINT
	OTLPEndpoint string `env:"OTLP_ENDPOINT"`

	// Env: TELEMETRY_SERVICE_NAME
	ServiceName string `env:"SERVICE_NAME"`

	// Env: TELEMETRY_ENVIRONMENT
	Environment string `env:"ENVIRONMENT"`
}

// GetStructuredConfig loads, merges, and validates the application
// configuration. Sources are applied in the following order, later sources
// overriding non-zero fields of earlier ones:
//  1. Built-in defaults
//  2. JSON file (path resolved from environment and flags)
//  3. Environment variables
//  4. Command-line flags parsed from args
func GetStructuredConfig(args []string) (*StructuredConfig, error) {
	return newConfigBuilder().
		withDefaults().
		withEnv().
		withFlags(args).
		withJSON().
		build()
}
