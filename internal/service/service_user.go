// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package service

import (
	"context"
	"fmt"

	"github.com/MKhiriev/go-recipe-keeper/internal/config"
	"github.com/MKhiriev/go-recipe-keeper/internal/logger"
	"github.com/MKhiriev/go-recipe-keeper/internal/store"
	"github.com/MKhiriev/go-recipe-keeper/internal/validators"
	"github.com/MKhiriev/go-recipe-keeper/models"
)

type userService struct {
	userRepository store.UserRepository
	validator      validators.Validator

	// accounts creates superusers the same way registration creates users.
	accounts *authService

	hashCost int

	logger *logger.Logger
}

func NewUserService(storages *store.Storages, v validators.Validator, cfg config.App, logger *logger.Logger) UserService {
	return &userService{
		userRepository: storages.UserRepository,
		validator:      v,
		accounts: &authService{
			userRepository: storages.UserRepository,
			validator:      v,
			hashCost:       cfg.PasswordHashCost,
			logger:         logger,
		},
		hashCost: cfg.PasswordHashCost,
		logger:   logger,
	}
}

func (s *userService) GetProfile(ctx context.Context, userID int64) (models.User, error) {
	user, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("profile lookup failed: %w", err)
	}

	return user, nil
}

// UpdateProfile re-hashes a new password before storing it. Email and the
// administrative flags cannot be changed here.
func (s *userService) UpdateProfile(ctx context.Context, userID int64, update models.ProfileUpdate) (models.User, error) {
	log := logger.FromContext(ctx)

	if err := s.validator.Validate(ctx, update); err != nil {
		return models.User{}, err
	}

	user, err := s.userRepository.FindUserByID(ctx, userID)
	if err != nil {
		return models.User{}, fmt.Errorf("profile lookup failed: %w", err)
	}

	if update.Name == nil && update.Password == nil {
		return user, nil
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Password != nil {
		if user.Password, err = hashPassword(*update.Password, s.hashCost); err != nil {
			return models.User{}, err
		}
	}

	updated, err := s.userRepository.UpdateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("func", "*userService.UpdateProfile").Int64("id", userID).Msg("profile update failed")
		return models.User{}, fmt.Errorf("profile update failed: %w", err)
	}

	return updated, nil
}

// CreateSuperuser registers an active staff superuser.
func (s *userService) CreateSuperuser(ctx context.Context, req models.RegisterRequest) (models.User, error) {
	return s.accounts.createUser(ctx, req, true)
}
