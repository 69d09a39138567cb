package repositories

import (
	"context"

	"github.com/corebank/banking_backend/internal/core/domain"
)

// UserReader defines read operations for login identities.
type UserReader interface {
	// FindUserByUsername retrieves a user by its unique username.
	FindUserByUsername(ctx context.Context, username string) (*domain.User, error)
}

// UserWriter defines write operations for login identities.
type UserWriter interface {
	// SaveUser persists a new user and returns it with the store-assigned
	// identifier. A duplicate username or email fails with ErrDuplicate.
	SaveUser(ctx context.Context, user domain.User) (*domain.User, error)
}

// UserRepository combines all user-related repository interfaces.
type UserRepository interface {
	UserReader
	UserWriter
}
