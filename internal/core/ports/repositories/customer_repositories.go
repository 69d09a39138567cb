package repositories

import (
	"context"

	"github.com/corebank/banking_backend/internal/core/domain"
)

// CustomerReader defines read operations for customer data.
type CustomerReader interface {
	// FindCustomerByID retrieves a customer by its unique identifier.
	FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error)

	// FindCustomerByEmail retrieves a customer by its unique email address.
	FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error)
}

// CustomerWriter defines write operations for customer data.
type CustomerWriter interface {
	// SaveCustomer persists a new customer and returns it with the
	// store-assigned identifier. A duplicate email fails with ErrDuplicate.
	SaveCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error)
}

// CustomerRepository combines all customer-related repository interfaces.
type CustomerRepository interface {
	CustomerReader
	CustomerWriter
}
