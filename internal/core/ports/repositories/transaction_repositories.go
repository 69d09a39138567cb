package repositories

import (
	"context"

	"github.com/corebank/banking_backend/internal/core/domain"
)

// TransactionReader defines read operations for the transaction ledger.
type TransactionReader interface {
	// FindTransactionsByAccountID retrieves all transactions for an account
	// in descending creation order (newest first).
	FindTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error)
}

// EntryApplier is the transactional primitive of the ledger store. It applies
// a set of balance movements and their ledger records as one indivisible unit.
type EntryApplier interface {
	// ApplyEntries atomically applies every entry: it locks the affected
	// accounts in ascending account-id order, re-reads balances under the
	// lock, updates each balance, and appends one transaction per entry
	// carrying the balance after that entry. Either all effects are
	// persisted or none are.
	//
	// Fails with ErrNotFound if any referenced account is missing and with
	// ErrInsufficientFunds if applying the entries would drive any balance
	// below zero. The returned transactions carry store-assigned
	// identifiers, in entry order.
	ApplyEntries(ctx context.Context, entries []domain.Entry) ([]domain.Transaction, error)
}

// TransactionRepository combines ledger read access with the transactional
// apply primitive.
type TransactionRepository interface {
	TransactionReader
	EntryApplier
}
