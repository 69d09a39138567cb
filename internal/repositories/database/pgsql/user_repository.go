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

type PgxUserRepository struct {
	pool *pgxpool.Pool
}

// NewPgxUserRepository creates a new repository for login identities.
func NewPgxUserRepository(pool *pgxpool.Pool) *PgxUserRepository {
	return &PgxUserRepository{pool: pool}
}

var _ portsrepo.UserRepository = (*PgxUserRepository)(nil)

// SaveUser inserts a new user and returns it with the store-assigned id.
func (r *PgxUserRepository) SaveUser(ctx context.Context, user domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, password_hash, email, role, customer_id, is_active, created_date)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING user_id;
	`
	err := r.pool.QueryRow(ctx, query,
		user.Username,
		user.PasswordHash,
		user.Email,
		user.Role,
		user.CustomerID,
		user.IsActive,
		user.CreatedDate,
	).Scan(&user.UserID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: user %s already exists", apperrors.ErrDuplicate, user.Username)
		}
		return nil, fmt.Errorf("failed to save user: %w", err)
	}
	return &user, nil
}

// FindUserByUsername retrieves a user by its unique username.
func (r *PgxUserRepository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	query := `
		SELECT user_id, username, password_hash, email, role, customer_id, is_active, created_date
		FROM users
		WHERE username = $1;
	`
	var u domain.User
	err := r.pool.QueryRow(ctx, query, username).Scan(
		&u.UserID,
		&u.Username,
		&u.PasswordHash,
		&u.Email,
		&u.Role,
		&u.CustomerID,
		&u.IsActive,
		&u.CreatedDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find user by username %s: %w", username, err)
	}
	return &u, nil
}
