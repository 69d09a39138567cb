package dto

import (
	"time"

	"github.com/corebank/banking_backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateAccountRequest defines the data needed to open a new account.
type CreateAccountRequest struct {
	Name           string             `json:"name" binding:"required"`
	Email          string             `json:"email" binding:"required,email"`
	Phone          string             `json:"phone"`
	InitialDeposit decimal.Decimal    `json:"initialDeposit"`
	AccountType    domain.AccountType `json:"accountType" binding:"required,oneof=SAVINGS CHECKING"`
}

// AccountResponse defines the data returned for an account.
type AccountResponse struct {
	AccountID     int64              `json:"accountID"`
	CustomerID    int64              `json:"customerID"`
	AccountNumber string             `json:"accountNumber"`
	Balance       decimal.Decimal    `json:"balance"`
	AccountType   domain.AccountType `json:"accountType"`
	CreatedDate   time.Time          `json:"createdDate"`
	Customer      *CustomerResponse  `json:"customer,omitempty"`
}

// CustomerResponse defines the data returned for a customer.
type CustomerResponse struct {
	CustomerID  int64     `json:"customerID"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone"`
	CreatedDate time.Time `json:"createdDate"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(acc *domain.Account) AccountResponse {
	resp := AccountResponse{
		AccountID:     acc.AccountID,
		CustomerID:    acc.CustomerID,
		AccountNumber: acc.AccountNumber,
		Balance:       acc.Balance,
		AccountType:   acc.AccountType,
		CreatedDate:   acc.CreatedDate,
	}
	if acc.Customer != nil {
		c := ToCustomerResponse(acc.Customer)
		resp.Customer = &c
	}
	return resp
}

// ToListAccountResponse converts a slice of domain.Account to response DTOs.
func ToListAccountResponse(accounts []domain.Account) []AccountResponse {
	res := make([]AccountResponse, len(accounts))
	for i := range accounts {
		res[i] = ToAccountResponse(&accounts[i])
	}
	return res
}

// ToCustomerResponse converts a domain.Customer to its response DTO.
func ToCustomerResponse(c *domain.Customer) CustomerResponse {
	return CustomerResponse{
		CustomerID:  c.CustomerID,
		Name:        c.Name,
		Email:       c.Email,
		Phone:       c.Phone,
		CreatedDate: c.CreatedDate,
	}
}
