package services

import (
	"context"

	"github.com/corebank/banking_backend/internal/core/domain"
	"github.com/corebank/banking_backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade is the account ledger engine surface consumed by handlers.
type LedgerSvcFacade interface {
	// CreateAccount resolves or creates the owning customer by email,
	// generates a unique account number and creates the account. A positive
	// initial deposit is recorded as the account's first DEPOSIT transaction.
	CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error)

	// GetAccount retrieves a single account with its owning customer.
	GetAccount(ctx context.Context, accountID int64) (*domain.Account, error)

	// Deposit credits the account and appends a DEPOSIT transaction.
	Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error)

	// Withdraw debits the account and appends a WITHDRAWAL transaction.
	Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error)

	// Transfer atomically debits the source and credits the destination,
	// appending a TRANSFER_OUT and a TRANSFER_IN transaction. Either all
	// four effects are applied or none are.
	Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal) error

	// GetTransactionHistory returns the account's ledger, newest first.
	GetTransactionHistory(ctx context.Context, accountID int64) ([]domain.Transaction, error)

	// ListAccounts returns all accounts.
	ListAccounts(ctx context.Context) ([]domain.Account, error)

	// GetCustomer retrieves a customer by id.
	GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error)
}
