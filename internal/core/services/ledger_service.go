package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/corebank/banking_backend/internal/apperrors"
	"github.com/corebank/banking_backend/internal/core/domain"
	portsrepo "github.com/corebank/banking_backend/internal/core/ports/repositories"
	portssvc "github.com/corebank/banking_backend/internal/core/ports/services"
	"github.com/corebank/banking_backend/internal/dto"
	"github.com/corebank/banking_backend/internal/middleware"
	"github.com/corebank/banking_backend/internal/utils"
	"github.com/corebank/banking_backend/pkg/metrics"
	"github.com/shopspring/decimal"
)

const (
	// maxAccountNumberAttempts bounds re-draws after a generated account
	// number collides with an existing one.
	maxAccountNumberAttempts = 3

	// maxApplyAttempts bounds retries when a store's optimistic check is
	// invalidated by a concurrent mutation.
	maxApplyAttempts = 3
)

// ledgerService is the account ledger engine. It enforces balance invariants
// and orchestrates balance mutations against the ledger store.
type ledgerService struct {
	store     portsrepo.LedgerStore
	collector *metrics.Collector
}

// NewLedgerService creates the ledger engine. The collector may be nil.
func NewLedgerService(store portsrepo.LedgerStore, collector *metrics.Collector) portssvc.LedgerSvcFacade {
	return &ledgerService{store: store, collector: collector}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// CreateAccount resolves or creates the owning customer by email, then
// creates the account with a freshly generated account number. A positive
// initial deposit becomes the account's first DEPOSIT transaction; a zero
// deposit leaves the ledger empty until the first movement.
func (s *ledgerService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()
	var opErr error
	defer func() { s.collector.RecordOperation("create_account", time.Since(start), opErr) }()

	if !req.AccountType.IsValid() {
		opErr = fmt.Errorf("%w: unknown account type %q", apperrors.ErrValidation, req.AccountType)
		return nil, opErr
	}
	if req.InitialDeposit.IsNegative() {
		opErr = fmt.Errorf("%w: initial deposit must not be negative", apperrors.ErrValidation)
		return nil, opErr
	}
	if req.Email == "" {
		opErr = fmt.Errorf("%w: customer email is required", apperrors.ErrValidation)
		return nil, opErr
	}

	customer, err := s.findOrCreateCustomer(ctx, req)
	if err != nil {
		opErr = err
		return nil, err
	}

	saved, err := s.createAccountWithFreshNumber(ctx, customer.CustomerID, req.AccountType)
	if err != nil {
		opErr = err
		return nil, err
	}

	if req.InitialDeposit.IsPositive() {
		_, err = s.store.ApplyEntries(ctx, []domain.Entry{{
			AccountID:   saved.AccountID,
			Type:        domain.Deposit,
			Amount:      req.InitialDeposit,
			Description: "initial deposit",
		}})
		if err != nil {
			opErr = err
			logger.Error("Failed to record initial deposit", slog.Int64("account_id", saved.AccountID), slog.String("error", err.Error()))
			return nil, fmt.Errorf("failed to record initial deposit for account %d: %w", saved.AccountID, err)
		}
	}

	// Re-read so callers observe store-assigned identifiers and the final balance.
	account, err := s.store.FindAccountByID(ctx, saved.AccountID)
	if err != nil {
		opErr = err
		return nil, fmt.Errorf("failed to re-read account %d after creation: %w", saved.AccountID, err)
	}

	logger.Info("Account created",
		slog.Int64("account_id", account.AccountID),
		slog.String("account_number", account.AccountNumber),
		slog.String("initial_balance", account.Balance.String()),
	)
	s.collector.UpdateAccountBalance(account.AccountNumber, account.Balance.InexactFloat64())
	return account, nil
}

// findOrCreateCustomer looks the customer up by email and creates it when
// absent. A concurrent creation of the same email loses the insert race with
// ErrDuplicate and falls back to the winner's row.
func (s *ledgerService) findOrCreateCustomer(ctx context.Context, req dto.CreateAccountRequest) (*domain.Customer, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	customer, err := s.store.FindCustomerByEmail(ctx, req.Email)
	if err == nil {
		return customer, nil
	}
	if !errors.Is(err, apperrors.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up customer by email: %w", err)
	}

	created, err := s.store.SaveCustomer(ctx, domain.Customer{
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		CreatedDate: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return s.store.FindCustomerByEmail(ctx, req.Email)
		}
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}

	logger.Info("New customer created", slog.Int64("customer_id", created.CustomerID))
	return created, nil
}

// createAccountWithFreshNumber persists a new zero-balance account,
// re-drawing the account number a bounded number of times on collision.
func (s *ledgerService) createAccountWithFreshNumber(ctx context.Context, customerID int64, accountType domain.AccountType) (*domain.Account, error) {
	for attempt := 0; attempt < maxAccountNumberAttempts; attempt++ {
		number, err := utils.GenerateAccountNumber()
		if err != nil {
			return nil, fmt.Errorf("failed to generate account number: %w", err)
		}

		saved, err := s.store.SaveAccount(ctx, domain.Account{
			CustomerID:    customerID,
			AccountNumber: number,
			Balance:       decimal.Zero,
			AccountType:   accountType,
			CreatedDate:   time.Now().UTC(),
		})
		if err == nil {
			return saved, nil
		}
		if !errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("failed to save account: %w", err)
		}
	}
	return nil, fmt.Errorf("%w: account number generation kept colliding", apperrors.ErrConflict)
}

// GetAccount retrieves a single account with its owning customer.
func (s *ledgerService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	account, err := s.store.FindAccountByID(ctx, accountID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find account", slog.Int64("account_id", accountID), slog.String("error", err.Error()))
		}
		return nil, err
	}
	return account, nil
}

// Deposit credits the account and appends a DEPOSIT transaction.
func (s *ledgerService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error) {
	return s.applySingle(ctx, accountID, domain.Deposit, amount, "Deposit")
}

// Withdraw debits the account and appends a WITHDRAWAL transaction.
// Fails with ErrInsufficientFunds when the amount exceeds the balance.
func (s *ledgerService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error) {
	return s.applySingle(ctx, accountID, domain.Withdrawal, amount, "Withdrawal")
}

// applySingle validates and applies one balance movement against one account.
func (s *ledgerService) applySingle(ctx context.Context, accountID int64, txnType domain.TransactionType, amount decimal.Decimal, description string) (*domain.Account, error) {
	logger := middleware.GetLoggerFromCtx(ctx)
	operation := "deposit"
	if txnType == domain.Withdrawal {
		operation = "withdrawal"
	}
	start := time.Now()
	var opErr error
	defer func() { s.collector.RecordOperation(operation, time.Since(start), opErr) }()

	if !amount.IsPositive() {
		opErr = fmt.Errorf("%w: %s amount must be positive", apperrors.ErrValidation, operation)
		return nil, opErr
	}

	account, err := s.store.FindAccountByID(ctx, accountID)
	if err != nil {
		opErr = err
		return nil, err
	}

	if txnType == domain.Withdrawal && amount.GreaterThan(account.Balance) {
		opErr = fmt.Errorf("%w: balance %s is less than %s on account %d",
			apperrors.ErrInsufficientFunds, account.Balance.String(), amount.String(), accountID)
		return nil, opErr
	}

	txns, err := s.applyWithRetry(ctx, []domain.Entry{{
		AccountID:   accountID,
		Type:        txnType,
		Amount:      amount,
		Description: description,
	}})
	if err != nil {
		opErr = err
		return nil, err
	}

	account.Balance = txns[0].BalanceAfter
	logger.Info("Balance updated",
		slog.String("operation", operation),
		slog.Int64("account_id", accountID),
		slog.String("amount", amount.String()),
		slog.String("new_balance", account.Balance.String()),
	)
	s.collector.UpdateAccountBalance(account.AccountNumber, account.Balance.InexactFloat64())
	return account, nil
}

// Transfer atomically debits the source and credits the destination,
// appending TRANSFER_OUT and TRANSFER_IN entries. Either all four effects
// are applied or none are.
func (s *ledgerService) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)
	start := time.Now()
	var opErr error
	defer func() { s.collector.RecordOperation("transfer", time.Since(start), opErr) }()

	if fromAccountID == toAccountID {
		opErr = fmt.Errorf("%w: cannot transfer to the same account", apperrors.ErrValidation)
		return opErr
	}
	if !amount.IsPositive() {
		opErr = fmt.Errorf("%w: transfer amount must be positive", apperrors.ErrValidation)
		return opErr
	}

	fromAccount, err := s.store.FindAccountByID(ctx, fromAccountID)
	if err != nil {
		opErr = err
		return err
	}
	toAccount, err := s.store.FindAccountByID(ctx, toAccountID)
	if err != nil {
		opErr = err
		return err
	}

	if amount.GreaterThan(fromAccount.Balance) {
		opErr = fmt.Errorf("%w: balance %s is less than %s on account %d",
			apperrors.ErrInsufficientFunds, fromAccount.Balance.String(), amount.String(), fromAccountID)
		return opErr
	}

	txns, err := s.applyWithRetry(ctx, []domain.Entry{
		{
			AccountID:   fromAccountID,
			Type:        domain.TransferOut,
			Amount:      amount,
			Description: "Transfer to " + toAccount.AccountNumber,
		},
		{
			AccountID:   toAccountID,
			Type:        domain.TransferIn,
			Amount:      amount,
			Description: "Transfer from " + fromAccount.AccountNumber,
		},
	})
	if err != nil {
		opErr = err
		return err
	}

	logger.Info("Transfer completed",
		slog.Int64("from_account_id", fromAccountID),
		slog.Int64("to_account_id", toAccountID),
		slog.String("amount", amount.String()),
		slog.String("from_balance", txns[0].BalanceAfter.String()),
		slog.String("to_balance", txns[1].BalanceAfter.String()),
	)
	s.collector.UpdateAccountBalance(fromAccount.AccountNumber, txns[0].BalanceAfter.InexactFloat64())
	s.collector.UpdateAccountBalance(toAccount.AccountNumber, txns[1].BalanceAfter.InexactFloat64())
	return nil
}

// applyWithRetry forwards to the store's transactional apply primitive,
// retrying a bounded number of times when a concurrent mutation invalidated
// the store's optimistic check.
func (s *ledgerService) applyWithRetry(ctx context.Context, entries []domain.Entry) ([]domain.Transaction, error) {
	var lastErr error
	for attempt := 0; attempt < maxApplyAttempts; attempt++ {
		txns, err := s.store.ApplyEntries(ctx, entries)
		if err == nil {
			return txns, nil
		}
		if !errors.Is(err, apperrors.ErrConflict) {
			return nil, err
		}
		lastErr = err
	}
	return nil, lastErr
}

// GetTransactionHistory returns the account's ledger, newest first.
func (s *ledgerService) GetTransactionHistory(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	if _, err := s.store.FindAccountByID(ctx, accountID); err != nil {
		return nil, err
	}

	txns, err := s.store.FindTransactionsByAccountID(ctx, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to read transaction history for account %d: %w", accountID, err)
	}
	return txns, nil
}

// ListAccounts returns all accounts.
func (s *ledgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	accounts, err := s.store.ListAccounts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	if accounts == nil {
		accounts = []domain.Account{}
	}
	return accounts, nil
}

// GetCustomer retrieves a customer by id.
func (s *ledgerService) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	return s.store.FindCustomerByID(ctx, customerID)
}
