package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/corebank/banking_backend/internal/apperrors"
	"github.com/corebank/banking_backend/internal/core/domain"
	portsrepo "github.com/corebank/banking_backend/internal/core/ports/repositories"
	portssvc "github.com/corebank/banking_backend/internal/core/ports/services"
	"github.com/corebank/banking_backend/internal/dto"
	"github.com/corebank/banking_backend/internal/middleware"
	"github.com/corebank/banking_backend/internal/utils"
)

const minPasswordLength = 6

// authService handles registration and credential verification.
type authService struct {
	users     portsrepo.UserRepository
	customers portsrepo.CustomerRepository
}

// NewAuthService creates a new auth service.
func NewAuthService(users portsrepo.UserRepository, customers portsrepo.CustomerRepository) portssvc.AuthSvcFacade {
	return &authService{users: users, customers: customers}
}

var _ portssvc.AuthSvcFacade = (*authService)(nil)

// Register creates the customer record and the linked login user with a
// bcrypt-hashed password.
func (s *authService) Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if strings.TrimSpace(req.Username) == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrValidation)
	}
	if len(req.Password) < minPasswordLength {
		return nil, fmt.Errorf("%w: password must be at least %d characters", apperrors.ErrValidation, minPasswordLength)
	}
	if !strings.Contains(req.Email, "@") {
		return nil, fmt.Errorf("%w: valid email is required", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	customer, err := s.customers.SaveCustomer(ctx, domain.Customer{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CreatedDate: now,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: email is already registered", apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user, err := s.users.SaveUser(ctx, domain.User{
		Username:     req.Username,
		PasswordHash: hash,
		Email:        req.Email,
		Role:         "CUSTOMER",
		CustomerID:   customer.CustomerID,
		IsActive:     true,
		CreatedDate:  now,
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: username is already registered", apperrors.ErrDuplicate)
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User registered",
		slog.String("username", user.Username),
		slog.Int64("user_id", user.UserID),
		slog.Int64("customer_id", customer.CustomerID),
	)
	return user, nil
}

// Login verifies credentials and returns the authenticated user. Unknown
// usernames and wrong passwords both fail with ErrNotFound so callers cannot
// distinguish them.
func (s *authService) Login(ctx context.Context, username, password string) (*domain.User, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if username == "" || password == "" {
		return nil, fmt.Errorf("%w: username and password are required", apperrors.ErrValidation)
	}

	user, err := s.users.FindUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Login attempt failed: username not found", slog.String("username", username))
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}

	if !user.IsActive {
		logger.Warn("Login attempt failed: account inactive", slog.String("username", username))
		return nil, fmt.Errorf("%w: account is inactive", apperrors.ErrValidation)
	}

	if !utils.CheckPasswordHash(password, user.PasswordHash) {
		logger.Warn("Login attempt failed: invalid password", slog.String("username", username))
		return nil, apperrors.ErrNotFound
	}

	logger.Info("User authenticated", slog.String("username", username), slog.Int64("user_id", user.UserID))
	return user, nil
}
