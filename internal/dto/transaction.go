package dto

import (
	"time"

	"github.com/corebank/banking_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// AmountRequest carries the amount for a deposit or withdrawal.
type AmountRequest struct {
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// TransferRequest defines the data needed to move funds between two accounts.
type TransferRequest struct {
	FromAccountID int64           `json:"fromAccountID" binding:"required"`
	ToAccountID   int64           `json:"toAccountID" binding:"required"`
	Amount        decimal.Decimal `json:"amount" binding:"required"`
}

// TransactionResponse defines the data returned for a ledger entry.
type TransactionResponse struct {
	TransactionID   int64                  `json:"transactionID"`
	AccountID       int64                  `json:"accountID"`
	TransactionType domain.TransactionType `json:"transactionType"`
	Amount          decimal.Decimal        `json:"amount"`
	Description     string                 `json:"description"`
	TransactionDate time.Time              `json:"transactionDate"`
	BalanceAfter    decimal.Decimal        `json:"balanceAfter"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(txn *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID:   txn.TransactionID,
		AccountID:       txn.AccountID,
		TransactionType: txn.TransactionType,
		Amount:          txn.Amount,
		Description:     txn.Description,
		TransactionDate: txn.TransactionDate,
		BalanceAfter:    txn.BalanceAfter,
	}
}

// ToListTransactionResponse converts a slice of domain.Transaction to response DTOs.
func ToListTransactionResponse(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i := range txns {
		res[i] = ToTransactionResponse(&txns[i])
	}
	return res
}
