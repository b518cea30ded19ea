// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
	"github.com/taibuivan/bookshelf/internal/users/auth"
	"github.com/taibuivan/bookshelf/pkg/pointer"
)

// # Service Layer

// Service orchestrates business logic for the current user's account.
type Service struct {
	accountRepository auth.UserRepository
	logger            *slog.Logger
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(accountRepo auth.UserRepository, logger *slog.Logger) *Service {
	return &Service{
		accountRepository: accountRepo,
		logger:            logger,
	}
}

// # Profile Management

/*
GetProfile retrieves the identity of a user.

Returns:
  - *auth.User: The hydrated user profile
  - error: Not found or execution failures
*/
func (service *Service) GetProfile(ctx context.Context, userID int64) (*auth.User, error) {
	user, err := service.accountRepository.FindByID(ctx, userID)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return user, nil
}

/*
UpdateProfile rotates the email address and/or password of a user.

Description: A new password goes through the registration policy and is
hashed before it reaches storage; a new email must be free.

Returns:
  - *auth.User: The profile after the change
  - error: ValidationError, Conflict (email taken), NotFound or storage failures
*/
func (service *Service) UpdateProfile(ctx context.Context, userID int64, input UpdateProfileInput) (*auth.User, error) {
	if input.IsEmpty() {
		return service.GetProfile(ctx, userID)
	}

	validator := &validate.Validator{}
	if input.Email != nil {
		input.Email = pointer.To(strings.TrimSpace(*input.Email))
		validator.Required(auth.FieldEmail, *input.Email).
			MaxLen(auth.FieldEmail, *input.Email, auth.EmailMaxLength).
			Email(auth.FieldEmail, *input.Email)
	}
	if input.Password != nil {
		auth.ValidatePassword(validator, *input.Password)
	}
	if err := validator.Err(); err != nil {
		return nil, err
	}

	if input.Email != nil {
		existing, err := service.accountRepository.FindByEmail(ctx, *input.Email)
		switch {
		case err == nil && existing.ID != userID:
			return nil, apperr.Conflict(auth.MessageEmailTaken)
		case err != nil && !errors.Is(err, dberr.ErrNotFound):
			return nil, err
		}
	}

	var passwordHash *string
	if input.Password != nil {
		hashed, err := sec.HashPassword(*input.Password)
		if err != nil {
			return nil, apperr.Internal(fmt.Errorf("account_service_hash_failed: %w", err))
		}
		passwordHash = &hashed
	}

	user, err := service.accountRepository.UpdateProfile(ctx, userID, input.Email, passwordHash)
	if err != nil {
		return nil, mapNotFound(err)
	}

	service.logger.Info("account_updated",
		slog.Int64("user_id", userID),
		slog.Bool("email_changed", input.Email != nil),
		slog.Bool("password_rotated", passwordHash != nil),
	)
	return user, nil
}

func mapNotFound(err error) error {
	if errors.Is(err, dberr.ErrNotFound) {
		return apperr.NotFound("User")
	}
	return err
}
