// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-recipe-keeper/internal/config"
	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
)

// Storages groups every persistence component handed to the service layer.
type Storages struct {
	DB                  *DB
	UserRepository      UserRepository
	TokenRepository     TokenRepository
	TokenCache          TokenCache
	RecipeRepository    RecipeRepository
	AttributeRepository AttributeRepository
	ImageStorage        ImageStorage

	closers []func() error
}

// NewStorages initialises the storage layer:
//  1. connects to cfg.DB.DSN (PostgreSQL or SQLite) and waits for it,
//  2. applies pending migrations,
//  3. connects the Redis token cache when cfg.Cache.RedisURL is set,
//  4. picks S3 image storage when cfg.S3.Bucket is set, the local
//     directory otherwise.
func NewStorages(ctx context.Context, cfg config.Storage, logger *logger.Logger) (*Storages, error) {
	logger.Info().Msg("creating new storages...")

	db, err := NewConnect(ctx, cfg.DB, logger)
	if err != nil {
		return nil, fmt.Errorf("database connection error: %w", err)
	}

	if err = db.Migrate(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("migration failed: %w", err)
	}

	s := NewStoragesFromDB(db, logger)
	s.closers = append(s.closers, db.Close)

	if cfg.Cache.RedisURL != "" {
		cache, closeCache, err := NewRedisTokenCache(ctx, cfg.Cache.RedisURL, cfg.Cache.TokenTTL, logger)
		if err != nil {
			_ = s.Close()
			return nil, err
		}
		s.TokenCache = cache
		s.closers = append(s.closers, closeCache)
	}

	if cfg.S3.Bucket != "" {
		s.ImageStorage, err = NewS3ImageStorage(ctx, cfg.S3)
	} else {
		s.ImageStorage, err = NewFileImageStorage(cfg.Files.ImagesDir, cfg.Files.MediaURL)
	}
	if err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("image storage error: %w", err)
	}

	return s, nil
}

// NewStoragesFromDB wires the SQL repositories over an open db with the
// no-op token cache. ImageStorage is left for the caller.
func NewStoragesFromDB(db *DB, logger *logger.Logger) *Storages {
	return &Storages{
		DB:                  db,
		UserRepository:      NewUserRepository(db, logger),
		TokenRepository:     NewTokenRepository(db, logger),
		TokenCache:          NewNoopTokenCache(),
		RecipeRepository:    NewRecipeRepository(db, logger),
		AttributeRepository: NewAttributeRepository(db, logger),
	}
}

// Close releases connections opened by [NewStorages] in reverse order.
func (s *Storages) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		errs = append(errs, s.closers[i]())
	}
	s.closers = nil
	return errors.Join(errs...)
}
