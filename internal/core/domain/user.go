package domain

import "time"

// User is a login identity linked to a customer.
type User struct {
	UserID       int64     `json:"userID"` // Primary key, store-assigned
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // bcrypt hash, never serialized
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	CustomerID   int64     `json:"customerID"` // FK -> customers.customer_id
	IsActive     bool      `json:"isActive"`
	CreatedDate  time.Time `json:"createdDate"`
}
