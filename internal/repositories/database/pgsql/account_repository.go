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
	"github.com/shopspring/decimal"
)

type PgxAccountRepository struct {
	pool *pgxpool.Pool
}

func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{pool: pool}
}

var _ portsrepo.AccountRepository = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account and returns it with the store-assigned id.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (customer_id, account_number, balance, account_type, created_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING account_id;
	`
	err := r.pool.QueryRow(ctx, query,
		account.CustomerID,
		account.AccountNumber,
		account.Balance,
		account.AccountType,
		account.CreatedDate,
	).Scan(&account.AccountID)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, account.AccountNumber)
		}
		return nil, fmt.Errorf("failed to save account: %w", err)
	}
	return &account, nil
}

// FindAccountByID retrieves an account by its id, joined with the owning customer.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	query := `
		SELECT a.account_id, a.customer_id, a.account_number, a.balance, a.account_type, a.created_date,
		       c.customer_id, c.name, c.email, c.phone, c.created_date
		FROM accounts a
		JOIN customers c ON a.customer_id = c.customer_id
		WHERE a.account_id = $1;
	`
	var acc domain.Account
	var cust domain.Customer
	err := r.pool.QueryRow(ctx, query, accountID).Scan(
		&acc.AccountID,
		&acc.CustomerID,
		&acc.AccountNumber,
		&acc.Balance,
		&acc.AccountType,
		&acc.CreatedDate,
		&cust.CustomerID,
		&cust.Name,
		&cust.Email,
		&cust.Phone,
		&cust.CreatedDate,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to find account by ID %d: %w", accountID, err)
	}
	acc.Customer = &cust
	return &acc, nil
}

// FindAccountsByCustomerID retrieves all accounts owned by a customer.
func (r *PgxAccountRepository) FindAccountsByCustomerID(ctx context.Context, customerID int64) ([]domain.Account, error) {
	query := `
		SELECT account_id, customer_id, account_number, balance, account_type, created_date
		FROM accounts
		WHERE customer_id = $1
		ORDER BY account_id;
	`
	rows, err := r.pool.Query(ctx, query, customerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts for customer %d: %w", customerID, err)
	}
	defer rows.Close()

	return scanAccountRows(rows)
}

// ListAccounts retrieves all accounts ordered by account id.
func (r *PgxAccountRepository) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	query := `
		SELECT account_id, customer_id, account_number, balance, account_type, created_date
		FROM accounts
		ORDER BY account_id;
	`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query accounts: %w", err)
	}
	defer rows.Close()

	return scanAccountRows(rows)
}

func scanAccountRows(rows pgx.Rows) ([]domain.Account, error) {
	accounts := []domain.Account{}
	for rows.Next() {
		var acc domain.Account
		err := rows.Scan(
			&acc.AccountID,
			&acc.CustomerID,
			&acc.AccountNumber,
			&acc.Balance,
			&acc.AccountType,
			&acc.CreatedDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account row: %w", err)
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating account rows: %w", err)
	}
	return accounts, nil
}

// findAccountsByIDsForUpdate selects the given accounts and locks their rows
// for the duration of tx. Account ids must be sorted ascending by the caller
// so concurrent transfers acquire locks in a consistent order. Fails with
// ErrNotFound if any account is missing.
func (r *PgxAccountRepository) findAccountsByIDsForUpdate(ctx context.Context, tx pgx.Tx, accountIDs []int64) (map[int64]domain.Account, error) {
	query := `
		SELECT account_id, customer_id, account_number, balance, account_type, created_date
		FROM accounts
		WHERE account_id = ANY($1)
		ORDER BY account_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, accountIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to lock accounts: %w", err)
	}
	defer rows.Close()

	accounts := make(map[int64]domain.Account, len(accountIDs))
	for rows.Next() {
		var acc domain.Account
		err := rows.Scan(
			&acc.AccountID,
			&acc.CustomerID,
			&acc.AccountNumber,
			&acc.Balance,
			&acc.AccountType,
			&acc.CreatedDate,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan locked account row: %w", err)
		}
		accounts[acc.AccountID] = acc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating locked account rows: %w", err)
	}

	for _, id := range accountIDs {
		if _, ok := accounts[id]; !ok {
			return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, id)
		}
	}
	return accounts, nil
}

// updateBalanceInTx sets the balance of one account within tx. The caller
// must hold the row lock.
func (r *PgxAccountRepository) updateBalanceInTx(ctx context.Context, tx pgx.Tx, accountID int64, newBalance decimal.Decimal) error {
	cmdTag, err := tx.Exec(ctx, `UPDATE accounts SET balance = $2 WHERE account_id = $1;`, accountID, newBalance)
	if err != nil {
		return fmt.Errorf("failed to update balance for account %d: %w", accountID, err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("%w: account %d", apperrors.ErrNotFound, accountID)
	}
	return nil
}
