package domain

import "time"

// Customer represents the owner of one or more accounts.
// Immutable after creation; there is no profile-update path.
type Customer struct {
	CustomerID  int64     `json:"customerID"` // Primary key, store-assigned
	Name        string    `json:"name"`
	Email       string    `json:"email"` // Globally unique
	Phone       string    `json:"phone"`
	CreatedDate time.Time `json:"createdDate"`
}
