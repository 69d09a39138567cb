package pgsql

import (
	"context"
	"fmt"
	"sort"

	"github.com/corebank/banking_backend/internal/apperrors"
	"github.com/corebank/banking_backend/internal/core/domain"
	portsrepo "github.com/corebank/banking_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

// PgxLedgerRepository persists the transaction ledger and applies balance
// mutations atomically.
type PgxLedgerRepository struct {
	BaseRepository
	accounts *PgxAccountRepository
}

func newPgxLedgerRepository(pool *pgxpool.Pool, accounts *PgxAccountRepository) *PgxLedgerRepository {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		accounts:       accounts,
	}
}

var _ portsrepo.TransactionRepository = (*PgxLedgerRepository)(nil)

// ApplyEntries applies all entries as one database transaction: it locks the
// affected account rows in ascending id order, verifies no balance goes
// negative, writes the new balances, and appends one ledger row per entry.
// Any failure rolls back every effect.
func (r *PgxLedgerRepository) ApplyEntries(ctx context.Context, entries []domain.Entry) ([]domain.Transaction, error) {
	if len(entries) == 0 {
		return nil, nil
	}
	for _, e := range entries {
		if !e.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: entry amount must be positive", apperrors.ErrValidation)
		}
	}

	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer r.Rollback(ctx, tx)

	// Consistent lock order prevents deadlock between two concurrent
	// opposite-direction transfers.
	accountIDs := uniqueSortedAccountIDs(entries)

	lockedAccounts, err := r.accounts.findAccountsByIDsForUpdate(ctx, tx, accountIDs)
	if err != nil {
		return nil, err
	}

	balances := make(map[int64]decimal.Decimal, len(lockedAccounts))
	for id, acc := range lockedAccounts {
		balances[id] = acc.Balance
	}

	txns := make([]domain.Transaction, 0, len(entries))
	insertQuery := `
		INSERT INTO transactions (account_id, transaction_type, amount, description, balance_after)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING transaction_id, transaction_date;
	`
	for _, entry := range entries {
		newBalance := balances[entry.AccountID].Add(entry.Delta())
		if newBalance.IsNegative() {
			return nil, fmt.Errorf("%w: balance %s is less than %s on account %d",
				apperrors.ErrInsufficientFunds,
				balances[entry.AccountID].String(), entry.Amount.String(), entry.AccountID)
		}
		balances[entry.AccountID] = newBalance

		txn := domain.Transaction{
			AccountID:       entry.AccountID,
			TransactionType: entry.Type,
			Amount:          entry.Amount,
			Description:     entry.Description,
			BalanceAfter:    newBalance,
		}
		err = tx.QueryRow(ctx, insertQuery,
			txn.AccountID,
			txn.TransactionType,
			txn.Amount,
			txn.Description,
			txn.BalanceAfter,
		).Scan(&txn.TransactionID, &txn.TransactionDate)
		if err != nil {
			return nil, fmt.Errorf("failed to insert transaction for account %d: %w", entry.AccountID, err)
		}
		txns = append(txns, txn)
	}

	for _, id := range accountIDs {
		if err := r.accounts.updateBalanceInTx(ctx, tx, id, balances[id]); err != nil {
			return nil, err
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, err
	}
	return txns, nil
}

// FindTransactionsByAccountID retrieves all transactions for an account,
// newest first.
func (r *PgxLedgerRepository) FindTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	query := `
		SELECT transaction_id, account_id, transaction_type, amount, description, transaction_date, balance_after
		FROM transactions
		WHERE account_id = $1
		ORDER BY transaction_id DESC;
	`
	rows, err := r.Pool.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %d: %w", accountID, err)
	}
	defer rows.Close()

	txns := []domain.Transaction{}
	for rows.Next() {
		var txn domain.Transaction
		err := rows.Scan(
			&txn.TransactionID,
			&txn.AccountID,
			&txn.TransactionType,
			&txn.Amount,
			&txn.Description,
			&txn.TransactionDate,
			&txn.BalanceAfter,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}
	return txns, nil
}

func uniqueSortedAccountIDs(entries []domain.Entry) []int64 {
	seen := make(map[int64]struct{}, len(entries))
	ids := make([]int64, 0, len(entries))
	for _, e := range entries {
		if _, ok := seen[e.AccountID]; !ok {
			seen[e.AccountID] = struct{}{}
			ids = append(ids, e.AccountID)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
