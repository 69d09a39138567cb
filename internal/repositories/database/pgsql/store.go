package pgsql

import (
	portsrepo "github.com/corebank/banking_backend/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Store is the PostgreSQL ledger store: customers, accounts and the
// transaction ledger backed by one connection pool.
type Store struct {
	*PgxCustomerRepository
	*PgxAccountRepository
	*PgxLedgerRepository
}

// NewStore wires the pgsql repositories into a single ledger store.
func NewStore(pool *pgxpool.Pool) *Store {
	accounts := newPgxAccountRepository(pool)
	return &Store{
		PgxCustomerRepository: newPgxCustomerRepository(pool),
		PgxAccountRepository:  accounts,
		PgxLedgerRepository:   newPgxLedgerRepository(pool, accounts),
	}
}

var _ portsrepo.LedgerStore = (*Store)(nil)
