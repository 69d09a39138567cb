package repositories

// LedgerStore is the full persistence surface the ledger engine depends on.
// Adapters (pgsql, memory) implement this facade.
type LedgerStore interface {
	CustomerRepository
	AccountRepository
	TransactionRepository
}
