// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/bookshelf/internal/platform/apperr"
	"github.com/taibuivan/bookshelf/internal/platform/constants"
	"github.com/taibuivan/bookshelf/internal/platform/dberr"
	"github.com/taibuivan/bookshelf/internal/platform/sec"
	"github.com/taibuivan/bookshelf/internal/platform/validate"
)

// MessageBadCredentials is returned for any failed login, whichever check failed.
const MessageBadCredentials = "Incorrect username or password"

// # Contracts & Types

// TokenProvider defines the contract for generating security tokens.
type TokenProvider interface {
	// GenerateAccessToken creates a signed JWT whose subject is the username.
	//
	// A zero timeToLive selects the provider's default lifetime.
	GenerateAccessToken(subject string, timeToLive time.Duration) (string, error)
}

// FailureRecorder counts rejected credentials. [*metrics.Metrics] satisfies it.
type FailureRecorder interface {
	AuthFailure()
}

// Service implements user authentication use cases.
type Service struct {
	userRepository UserRepository
	tokenProvider  TokenProvider
	tokenTTL       time.Duration
	recorder       FailureRecorder
	logger         *slog.Logger
}

// NewService constructs a new [Service] with necessary dependencies.
//
// A nil recorder disables failure accounting.
func NewService(
	userRepo UserRepository,
	tokenProv TokenProvider,
	tokenTTL time.Duration,
	recorder FailureRecorder,
	logger *slog.Logger,
) *Service {
	return &Service{
		userRepository: userRepo,
		tokenProvider:  tokenProv,
		tokenTTL:       tokenTTL,
		recorder:       recorder,
		logger:         logger,
	}
}

// # Registration Flow

// RegisterInput holds the data required to enroll a new member.
type RegisterInput struct {
	Username string
	Email    string
	Password string
}

/*
Register validates, hashes, and persists a brand new user account.

Description: The username/email pre-checks give precise messages; the unique
constraints decide concurrent registrations.

Parameters:
  - ctx: context.Context
  - input: RegisterInput

Returns:
  - *User: Created entity
  - err: ValidationError, Conflict (if identity exists) or storage errors
*/
func (service *Service) Register(ctx context.Context, input RegisterInput) (*User, error) {
	input.Username = strings.TrimSpace(input.Username)
	input.Email = strings.TrimSpace(input.Email)

	if err := ValidateRegistration(input); err != nil {
		return nil, err
	}

	// Verify username uniqueness. Return a client-safe Conflict err.
	if err := service.ensureFree(ctx, service.userRepository.FindByUsername, input.Username, MessageUsernameTaken); err != nil {
		return nil, err
	}

	// Verify email uniqueness. Return a client-safe Conflict err.
	if err := service.ensureFree(ctx, service.userRepository.FindByEmail, input.Email, MessageEmailTaken); err != nil {
		return nil, err
	}

	// Prevent storing plain-text passwords.
	hashedPassword, err := sec.HashPassword(input.Password)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_hash_failed: %w", err))
	}

	user := &User{
		Username:     input.Username,
		Email:        input.Email,
		PasswordHash: hashedPassword,
	}

	// Persist the user to the database
	if err := service.userRepository.Create(ctx, user); err != nil {
		return nil, err
	}

	service.logger.Info("user_registered", slog.Int64("user_id", user.ID), slog.String("username", user.Username))
	return user, nil
}

// ensureFree returns a Conflict when lookup finds an existing account.
func (service *Service) ensureFree(
	ctx context.Context,
	lookup func(context.Context, string) (*User, error),
	value, conflictMessage string,
) error {
	_, err := lookup(ctx, value)
	switch {
	case err == nil:
		return apperr.Conflict(conflictMessage)
	case errors.Is(err, dberr.ErrNotFound):
		return nil
	default:
		return err
	}
}

// ValidateRegistration applies the account and password policy to a registration payload.
func ValidateRegistration(input RegisterInput) error {
	validator := &validate.Validator{}
	validator.Required(FieldUsername, input.Username).
		MaxLen(FieldUsername, input.Username, UsernameMaxLength).
		Required(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, EmailMaxLength).
		Email(FieldEmail, input.Email)

	ValidatePassword(validator, input.Password)

	return validator.Err()
}

// ValidatePassword adds the password policy checks to validator.
//
// Policy: at least [PasswordMinLength] characters, one uppercase letter, one
// digit, and no more than [sec.MaxPasswordBytes] bytes.
func ValidatePassword(validator *validate.Validator, password string) {
	validator.Password(FieldPassword, password, PasswordMinLength).
		MaxBytes(FieldPassword, password, sec.MaxPasswordBytes)
}

// # Authentication Flow

// LoginInput represents the credentials submitted to the token endpoint.
type LoginInput struct {
	Username string
	Password string
}

// Token is the OAuth2 bearer token response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

/*
Login verifies credentials and issues an access token.

Description: An unknown username and a wrong password produce the same
Unauthorized error.

Returns:
  - *Token: Signed bearer token
  - err: Unauthorized or storage errors
*/
func (service *Service) Login(ctx context.Context, input LoginInput) (*Token, error) {
	user, err := service.userRepository.FindByUsername(ctx, input.Username)
	if err != nil && !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	if user == nil || !sec.CheckPasswordHash(input.Password, user.PasswordHash) {
		service.recordFailure()
		service.logger.Warn("login_failed", slog.String("username", input.Username))
		return nil, apperr.Unauthorized(MessageBadCredentials)
	}

	accessToken, err := service.tokenProvider.GenerateAccessToken(user.Username, service.tokenTTL)
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth_service_sign_failed: %w", err))
	}

	service.logger.Info("user_logged_in", slog.Int64("user_id", user.ID))
	return &Token{AccessToken: accessToken, TokenType: constants.TokenTypeBearer}, nil
}

func (service *Service) recordFailure() {
	if service.recorder != nil {
		service.recorder.AuthFailure()
	}
}
