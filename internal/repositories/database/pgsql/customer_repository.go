package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/corebank/banking_backend/internal/apperrors"
	"github.com/corebank/banking_backend/internal/core/domain"
	portsrepo "github.com/corebank/banking_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgxCustomerRepository struct {
	pool *pgxpool.Pool
}

func newPgxCustomerRepository(pool *pgxpool.Pool) *PgxCustomerRepository {
	return &PgxCustomerRepository{pool: pool}
}

var _ portsrepo.CustomerRepository = (*PgxCustomerRepository)(nil)

// SaveCustomer inserts a new customer and returns it with the store-assigned id.
func (r *PgxCustomerRepository) SaveCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	query := `
		INSERT INTO customers (name, email, phone, created_date)
		VALUES ($1, $2, $3, $4)
		RETURNING customer_id;
	`
	err := r.pool.QueryRow(ctx, query,
		customer.Name,
		customer.Email,
		customer.Phone,
		customer.CreatedDate,
	).Scan(&customer.CustomerID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: customer with email %s already exists", apperrors.ErrDuplicate, customer.Email)
		}
		return nil, fmt.Errorf("failed to save customer: %w", err)
	}
	return &customer, nil
}

// FindCustomerByID retrieves a customer by its id.
func (r *PgxCustomerRepository) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	query := `
		SELECT customer_id, name, email, phone, created_date
		FROM customers
		WHERE customer_id = $1;
	`
	return r.scanCustomer(r.pool.QueryRow(ctx, query, customerID), fmt.Sprintf("id %d", customerID))
}

// FindCustomerByEmail retrieves a customer by its unique email.
func (r *PgxCustomerRepository) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	query := `
		SELECT customer_id, name, email, phone, created_date
		FROM customers
		WHERE email = $1;
	`
	return r.scanCustomer(r.pool.QueryRow(ctx, query, email), "email "+email)
}

func (r *PgxCustomerRepository) scanCustomer(row pgx.Row, key string) (*domain.Customer, error) {
	var c domain.Customer
	err := row.Scan(&c.CustomerID, &c.Name, &c.Email, &c.Phone, &c.CreatedDate)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find customer by %s: %w", key, err)
	}
	return &c, nil
}
