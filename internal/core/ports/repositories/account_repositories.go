package repositories

import (
	"context"

	"github.com/corebank/banking_backend/internal/core/domain"
)

// AccountReader defines read operations for account data.
type AccountReader interface {
	// FindAccountByID retrieves an account by its unique identifier,
	// with the owning customer populated.
	FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error)

	// FindAccountsByCustomerID retrieves all accounts owned by a customer,
	// ordered by account id.
	FindAccountsByCustomerID(ctx context.Context, customerID int64) ([]domain.Account, error)

	// ListAccounts retrieves all accounts, ordered by account id.
	ListAccounts(ctx context.Context) ([]domain.Account, error)
}

// AccountWriter defines write operations for account data.
type AccountWriter interface {
	// SaveAccount persists a new account and returns it with the
	// store-assigned identifier. A duplicate account number fails with
	// ErrDuplicate.
	SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error)
}

// AccountRepository combines all account-related repository interfaces.
type AccountRepository interface {
	AccountReader
	AccountWriter
}
