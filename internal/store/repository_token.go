package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
)

type tokenRepository struct {
	db *DB
}

// NewTokenRepository constructs a [TokenRepository] over the "tokens" table.
func NewTokenRepository(db *DB, logger *logger.Logger) TokenRepository {
	logger.Debug().Msg("creating token repository")
	return &tokenRepository{db: db}
}

func (r *tokenRepository) SaveToken(ctx context.Context, userID int64, key string) error {
	log := logger.FromContext(ctx)

	query, args, err := buildUpsertTokenQuery(r.db.builder(), userID, key)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	if _, err = r.db.ExecContext(ctx, query, args...); err != nil {
		log.Err(err).Str("func", "*tokenRepository.SaveToken").Int64("user_id", userID).Msg("failed to save token")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return nil
}

func (r *tokenRepository) FindTokenKey(ctx context.Context, userID int64) (string, error) {
	log := logger.FromContext(ctx)

	query, args, err := buildFindTokenKeyQuery(r.db.builder(), userID)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	var key string
	err = r.db.QueryRowContext(ctx, query, args...).Scan(&key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		log.Err(err).Str("func", "*tokenRepository.FindTokenKey").Int64("user_id", userID).Msg("failed to find token")
		return "", fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	return key, nil
}
