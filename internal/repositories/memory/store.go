// Package memory provides an in-process ledger store used when no database
// is configured and as the substrate for concurrency tests. A single store
// mutex serializes every balance mutation, which trivially satisfies the
// single-writer discipline the ledger engine requires.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/corebank/banking_backend/internal/apperrors"
	"github.com/corebank/banking_backend/internal/core/domain"
	portsrepo "github.com/corebank/banking_backend/internal/core/ports/repositories"
	"github.com/shopspring/decimal"
)

// Store is a mutex-guarded in-memory implementation of the ledger store and
// the user repository.
type Store struct {
	mu sync.RWMutex

	customers       map[int64]*domain.Customer
	customerByEmail map[string]int64
	accounts        map[int64]*domain.Account
	accountByNumber map[string]int64
	transactions    map[int64][]domain.Transaction // keyed by account id, append order
	users           map[int64]*domain.User
	userByUsername  map[string]int64

	nextCustomerID    int64
	nextAccountID     int64
	nextTransactionID int64
	nextUserID        int64
}

// NewStore creates an empty in-memory store.
func NewStore() *Store {
	return &Store{
		customers:       make(map[int64]*domain.Customer),
		customerByEmail: make(map[string]int64),
		accounts:        make(map[int64]*domain.Account),
		accountByNumber: make(map[string]int64),
		transactions:    make(map[int64][]domain.Transaction),
		users:           make(map[int64]*domain.User),
		userByUsername:  make(map[string]int64),
	}
}

var (
	_ portsrepo.LedgerStore    = (*Store)(nil)
	_ portsrepo.UserRepository = (*Store)(nil)
)

// SaveCustomer persists a new customer, assigning the next customer id.
func (s *Store) SaveCustomer(ctx context.Context, customer domain.Customer) (*domain.Customer, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customerByEmail[customer.Email]; exists {
		return nil, fmt.Errorf("%w: customer with email %s already exists", apperrors.ErrDuplicate, customer.Email)
	}

	s.nextCustomerID++
	customer.CustomerID = s.nextCustomerID
	if customer.CreatedDate.IsZero() {
		customer.CreatedDate = time.Now().UTC()
	}

	stored := customer
	s.customers[customer.CustomerID] = &stored
	s.customerByEmail[customer.Email] = customer.CustomerID
	return &customer, nil
}

// FindCustomerByID retrieves a customer by its id.
func (s *Store) FindCustomerByID(ctx context.Context, customerID int64) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	customer, exists := s.customers[customerID]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	c := *customer
	return &c, nil
}

// FindCustomerByEmail retrieves a customer by its unique email.
func (s *Store) FindCustomerByEmail(ctx context.Context, email string) (*domain.Customer, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.customerByEmail[email]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	c := *s.customers[id]
	return &c, nil
}

// SaveAccount persists a new account, assigning the next account id.
func (s *Store) SaveAccount(ctx context.Context, account domain.Account) (*domain.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.customers[account.CustomerID]; !exists {
		return nil, fmt.Errorf("%w: customer %d", apperrors.ErrNotFound, account.CustomerID)
	}
	if _, exists := s.accountByNumber[account.AccountNumber]; exists {
		return nil, fmt.Errorf("%w: account number %s already exists", apperrors.ErrDuplicate, account.AccountNumber)
	}

	s.nextAccountID++
	account.AccountID = s.nextAccountID
	if account.CreatedDate.IsZero() {
		account.CreatedDate = time.Now().UTC()
	}
	account.Customer = nil

	stored := account
	s.accounts[account.AccountID] = &stored
	s.accountByNumber[account.AccountNumber] = account.AccountID
	return &account, nil
}

// FindAccountByID retrieves an account with its owning customer populated.
func (s *Store) FindAccountByID(ctx context.Context, accountID int64) (*domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	account, exists := s.accounts[accountID]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	acc := *account
	if customer, ok := s.customers[acc.CustomerID]; ok {
		c := *customer
		acc.Customer = &c
	}
	return &acc, nil
}

// FindAccountsByCustomerID retrieves all accounts owned by a customer,
// ordered by account id.
func (s *Store) FindAccountsByCustomerID(ctx context.Context, customerID int64) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := []domain.Account{}
	for _, acc := range s.accounts {
		if acc.CustomerID == customerID {
			accounts = append(accounts, *acc)
		}
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountID < accounts[j].AccountID })
	return accounts, nil
}

// ListAccounts retrieves all accounts ordered by account id.
func (s *Store) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	accounts := make([]domain.Account, 0, len(s.accounts))
	for _, acc := range s.accounts {
		accounts = append(accounts, *acc)
	}
	sort.Slice(accounts, func(i, j int) bool { return accounts[i].AccountID < accounts[j].AccountID })
	return accounts, nil
}

// ApplyEntries applies all entries under the store mutex. New balances are
// computed and validated before any state is touched, so a failed entry set
// leaves both the accounts and the ledger completely unchanged.
func (s *Store) ApplyEntries(ctx context.Context, entries []domain.Entry) ([]domain.Transaction, error) {
	if len(entries) == 0 {
		return nil, nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	newBalances := make(map[int64]decimal.Decimal, len(entries))
	for _, entry := range entries {
		if !entry.Amount.IsPositive() {
			return nil, fmt.Errorf("%w: entry amount must be positive", apperrors.ErrValidation)
		}
		account, exists := s.accounts[entry.AccountID]
		if !exists {
			return nil, fmt.Errorf("%w: account %d", apperrors.ErrNotFound, entry.AccountID)
		}
		balance, pending := newBalances[entry.AccountID]
		if !pending {
			balance = account.Balance
		}
		balance = balance.Add(entry.Delta())
		if balance.IsNegative() {
			return nil, fmt.Errorf("%w: balance would go negative on account %d",
				apperrors.ErrInsufficientFunds, entry.AccountID)
		}
		newBalances[entry.AccountID] = balance
	}

	// Validation passed; commit all effects.
	now := time.Now().UTC()
	txns := make([]domain.Transaction, 0, len(entries))
	running := make(map[int64]decimal.Decimal, len(entries))
	for _, entry := range entries {
		balance, pending := running[entry.AccountID]
		if !pending {
			balance = s.accounts[entry.AccountID].Balance
		}
		balance = balance.Add(entry.Delta())
		running[entry.AccountID] = balance

		s.nextTransactionID++
		txn := domain.Transaction{
			TransactionID:   s.nextTransactionID,
			AccountID:       entry.AccountID,
			TransactionType: entry.Type,
			Amount:          entry.Amount,
			Description:     entry.Description,
			TransactionDate: now,
			BalanceAfter:    balance,
		}
		s.transactions[entry.AccountID] = append(s.transactions[entry.AccountID], txn)
		txns = append(txns, txn)
	}
	for id, balance := range newBalances {
		s.accounts[id].Balance = balance
	}

	return txns, nil
}

// FindTransactionsByAccountID retrieves an account's ledger, newest first.
func (s *Store) FindTransactionsByAccountID(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stored := s.transactions[accountID]
	txns := make([]domain.Transaction, len(stored))
	for i := range stored {
		txns[len(stored)-1-i] = stored[i]
	}
	return txns, nil
}

// SaveUser persists a new user, assigning the next user id.
func (s *Store) SaveUser(ctx context.Context, user domain.User) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.userByUsername[user.Username]; exists {
		return nil, fmt.Errorf("%w: user %s already exists", apperrors.ErrDuplicate, user.Username)
	}

	s.nextUserID++
	user.UserID = s.nextUserID
	if user.CreatedDate.IsZero() {
		user.CreatedDate = time.Now().UTC()
	}

	stored := user
	s.users[user.UserID] = &stored
	s.userByUsername[user.Username] = user.UserID
	return &user, nil
}

// FindUserByUsername retrieves a user by its unique username.
func (s *Store) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, exists := s.userByUsername[username]
	if !exists {
		return nil, apperrors.ErrNotFound
	}
	u := *s.users[id]
	return &u, nil
}
