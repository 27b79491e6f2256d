package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

// attributeRepository serves tags and ingredients from their tables; both
// kinds share the same shape and queries.
type attributeRepository struct {
	db *DB
}

// NewAttributeRepository constructs an [AttributeRepository] backed by db.
func NewAttributeRepository(db *DB, logger *logger.Logger) AttributeRepository {
	logger.Debug().Msg("creating attribute repository")
	return &attributeRepository{db: db}
}

func (r *attributeRepository) ListAttributes(ctx context.Context, filter models.AttributeFilter) ([]models.Attribute, error) {
	log := logger.FromContext(ctx)

	t, err := tableFor(filter.Kind)
	if err != nil {
		return nil, err
	}

	query, args, err := buildListAttributesQuery(r.db.builder(), t, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Err(err).
			Str("func", "attributeRepository.ListAttributes").
			Str("kind", filter.Kind.String()).
			Int64("user_id", filter.UserID).
			Msg("failed to list attributes")
		return nil, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	defer rows.Close()

	result := make([]models.Attribute, 0, 16)
	for rows.Next() {
		a := models.Attribute{Kind: filter.Kind, UserID: filter.UserID}
		if err = rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrScanningRow, err)
		}
		result = append(result, a)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrScanningRows, err)
	}

	return result, nil
}

func (r *attributeRepository) GetAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) (models.Attribute, error) {
	t, err := tableFor(kind)
	if err != nil {
		return models.Attribute{}, err
	}

	query, args, err := buildGetAttributeQuery(r.db.builder(), t, userID, id)
	if err != nil {
		return models.Attribute{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.scanOne(ctx, "attributeRepository.GetAttribute", kind, userID, query, args)
}

func (r *attributeRepository) UpdateAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64, name string) (models.Attribute, error) {
	t, err := tableFor(kind)
	if err != nil {
		return models.Attribute{}, err
	}

	query, args, err := buildUpdateAttributeQuery(r.db.builder(), t, userID, id, name)
	if err != nil {
		return models.Attribute{}, fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	return r.scanOne(ctx, "attributeRepository.UpdateAttribute", kind, userID, query, args)
}

func (r *attributeRepository) scanOne(ctx context.Context, fn string, kind models.AttributeKind, userID int64, query string, args []any) (models.Attribute, error) {
	log := logger.FromContext(ctx)

	a := models.Attribute{Kind: kind, UserID: userID}
	err := r.db.QueryRowContext(ctx, query, args...).Scan(&a.ID, &a.Name)
	switch {
	case err == nil:
		return a, nil
	case errors.Is(err, sql.ErrNoRows):
		return models.Attribute{}, ErrAttributeNotFound
	case isUniqueViolation(err):
		return models.Attribute{}, ErrAttributeNameTaken
	default:
		log.Err(err).Str("func", fn).Str("kind", kind.String()).Int64("user_id", userID).Msg("attribute query failed")
		return models.Attribute{}, fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
}

// DeleteAttribute removes an owned attribute; its recipe links cascade.
func (r *attributeRepository) DeleteAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) error {
	log := logger.FromContext(ctx)

	t, err := tableFor(kind)
	if err != nil {
		return err
	}

	query, args, err := buildDeleteAttributeQuery(r.db.builder(), t, userID, id)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrBuildingSQLQuery, err)
	}

	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Str("func", "attributeRepository.DeleteAttribute").Str("kind", kind.String()).Int64("user_id", userID).Msg("failed to delete attribute")
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: %w", ErrExecutingQuery, err)
	}
	if affected == 0 {
		return ErrAttributeNotFound
	}

	return nil
}
