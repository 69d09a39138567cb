package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AccountType is the product category of an account.
type AccountType string

const (
	Savings  AccountType = "SAVINGS"
	Checking AccountType = "CHECKING"
)

// IsValid reports whether the account type is one of the known categories.
func (t AccountType) IsValid() bool {
	switch t {
	case Savings, Checking:
		return true
	}
	return false
}

// Account represents a customer bank account. The balance is mutated only by
// the ledger engine and is never negative.
type Account struct {
	AccountID     int64           `json:"accountID"`  // Primary key, store-assigned
	CustomerID    int64           `json:"customerID"` // FK -> customers.customer_id
	AccountNumber string          `json:"accountNumber"`
	Balance       decimal.Decimal `json:"balance"`
	AccountType   AccountType     `json:"accountType"`
	CreatedDate   time.Time       `json:"createdDate"`
	Customer      *Customer       `json:"customer,omitempty"` // Owning customer, populated on single-account reads
}
