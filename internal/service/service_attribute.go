package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/MKhiriev/go-recipe-keeper/internal/validators"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

// attributeService serves tags and ingredients; the kind argument of every
// call selects which.
type attributeService struct {
	attributeRepository store.AttributeRepository

	logger *logger.Logger
}

func NewAttributeService(storages *store.Storages, logger *logger.Logger) AttributeService {
	return &attributeService{
		attributeRepository: storages.AttributeRepository,
		logger:              logger,
	}
}

func (s *attributeService) ListAttributes(ctx context.Context, filter models.AttributeFilter) ([]models.Attribute, error) {
	attrs, err := s.attributeRepository.ListAttributes(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("error listing %ss: %w", filter.Kind, err)
	}

	return attrs, nil
}

func (s *attributeService) GetAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) (models.Attribute, error) {
	attr, err := s.attributeRepository.GetAttribute(ctx, kind, userID, id)
	if err != nil {
		return models.Attribute{}, fmt.Errorf("error getting %s: %w", kind, err)
	}

	return attr, nil
}

// UpdateAttribute renames the attribute. A patch without a name returns the
// attribute unchanged.
func (s *attributeService) UpdateAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64, update models.AttributeUpdate, _ bool) (models.Attribute, error) {
	if update.Name == nil {
		return s.GetAttribute(ctx, kind, userID, id)
	}

	attr, err := s.attributeRepository.UpdateAttribute(ctx, kind, userID, id, *update.Name)
	if err != nil {
		if errors.Is(err, store.ErrAttributeNameTaken) {
			msg := fmt.Sprintf("%s with this name already exists.", kind)
			return models.Attribute{}, fmt.Errorf("%w: %w", validators.NewFieldError("name", msg), err)
		}
		return models.Attribute{}, fmt.Errorf("error updating %s: %w", kind, err)
	}

	return attr, nil
}

func (s *attributeService) DeleteAttribute(ctx context.Context, kind models.AttributeKind, userID, id int64) error {
	if err := s.attributeRepository.DeleteAttribute(ctx, kind, userID, id); err != nil {
		return fmt.Errorf("error deleting %s: %w", kind, err)
	}

	return nil
}
