package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	Deposit     TransactionType = "DEPOSIT"
	Withdrawal  TransactionType = "WITHDRAWAL"
	TransferOut TransactionType = "TRANSFER_OUT"
	TransferIn  TransactionType = "TRANSFER_IN"
)

// IsCredit reports whether entries of this type increase the account balance.
func (t TransactionType) IsCredit() bool {
	return t == Deposit || t == TransferIn
}

// Transaction is a single immutable ledger record. Transactions are append-only;
// once created they are never mutated or deleted.
type Transaction struct {
	TransactionID   int64           `json:"transactionID"` // Primary key, store-assigned, monotonic
	AccountID       int64           `json:"accountID"`     // FK -> accounts.account_id
	TransactionType TransactionType `json:"transactionType"`
	Amount          decimal.Decimal `json:"amount"` // Always positive
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transactionDate"`
	BalanceAfter    decimal.Decimal `json:"balanceAfter"` // Account balance immediately after this entry
}

// Entry describes one balance movement to be applied to an account.
// The ledger store turns each entry into exactly one Transaction.
type Entry struct {
	AccountID   int64
	Type        TransactionType
	Amount      decimal.Decimal // Must be positive
	Description string
}

// Delta returns the signed balance change this entry causes.
func (e Entry) Delta() decimal.Decimal {
	if e.Type.IsCredit() {
		return e.Amount
	}
	return e.Amount.Neg()
}
