package services

import (
	"context"

	"github.com/corebank/banking_backend/internal/core/domain"
	"github.com/corebank/banking_backend/internal/dto"
)

// AuthSvcFacade handles registration and credential verification.
type AuthSvcFacade interface {
	// Register creates the customer record and the linked login user.
	Register(ctx context.Context, req dto.RegisterRequest) (*domain.User, error)

	// Login verifies credentials and returns the authenticated user.
	Login(ctx context.Context, username, password string) (*domain.User, error)
}
