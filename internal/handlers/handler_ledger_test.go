package handlers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/corebank/banking_backend/internal/apperrors"
	"github.com/corebank/banking_backend/internal/core/domain"
	portssvc "github.com/corebank/banking_backend/internal/core/ports/services"
	"github.com/corebank/banking_backend/internal/dto"
	"github.com/corebank/banking_backend/internal/handlers"
	"github.com/corebank/banking_backend/internal/middleware"
	"github.com/corebank/banking_backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
)

// --- Mock LedgerSvcFacade ---
type MockLedgerService struct {
	mock.Mock
}

var _ portssvc.LedgerSvcFacade = (*MockLedgerService)(nil)

func (m *MockLedgerService) CreateAccount(ctx context.Context, req dto.CreateAccountRequest) (*domain.Account, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) GetAccount(ctx context.Context, accountID int64) (*domain.Account, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) Deposit(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) Withdraw(ctx context.Context, accountID int64, amount decimal.Decimal) (*domain.Account, error) {
	args := m.Called(ctx, accountID, amount)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Account), args.Error(1)
}

func (m *MockLedgerService) Transfer(ctx context.Context, fromAccountID, toAccountID int64, amount decimal.Decimal) error {
	args := m.Called(ctx, fromAccountID, toAccountID, amount)
	return args.Error(0)
}

func (m *MockLedgerService) GetTransactionHistory(ctx context.Context, accountID int64) ([]domain.Transaction, error) {
	args := m.Called(ctx, accountID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Transaction), args.Error(1)
}

func (m *MockLedgerService) ListAccounts(ctx context.Context) ([]domain.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Account), args.Error(1)
}

func (m *MockLedgerService) GetCustomer(ctx context.Context, customerID int64) (*domain.Customer, error) {
	args := m.Called(ctx, customerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Customer), args.Error(1)
}

// --- Test Suite Setup ---
type LedgerHandlerTestSuite struct {
	suite.Suite
	router      *gin.Engine
	mockService *MockLedgerService
	jwtSecret   string
	customerID  int64
	account     domain.Account
	other       domain.Account
}

func (suite *LedgerHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	suite.mockService = new(MockLedgerService)
	suite.jwtSecret = "test-secret"
	suite.customerID = 7

	suite.account = domain.Account{
		AccountID:     1,
		CustomerID:    suite.customerID,
		AccountNumber: "ACC1000000001",
		Balance:       decimal.RequireFromString("1000.00"),
		AccountType:   domain.Savings,
	}
	suite.other = domain.Account{
		AccountID:     2,
		CustomerID:    suite.customerID,
		AccountNumber: "ACC1000000002",
		Balance:       decimal.RequireFromString("500.00"),
		AccountType:   domain.Checking,
	}

	suite.router = gin.New()
	v1 := suite.router.Group("/api/v1")
	v1.Use(middleware.AuthMiddleware(suite.jwtSecret))
	handlers.RegisterAccountRoutes(v1, suite.mockService)
	handlers.RegisterLedgerRoutes(v1, suite.mockService)
}

// tokenFor issues a valid token for the given user and customer.
func (suite *LedgerHandlerTestSuite) tokenFor(userID, customerID int64) string {
	token, _, err := utils.GenerateJWT(userID, customerID, suite.jwtSecret, time.Hour, "test")
	suite.Require().NoError(err)
	return token
}

// do performs an authenticated JSON request against the test router.
func (suite *LedgerHandlerTestSuite) do(method, path, token string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

// --- Auth ---

func (suite *LedgerHandlerTestSuite) TestRequestWithoutToken() {
	w := suite.do(http.MethodPost, "/api/v1/accounts/1/deposit", "", gin.H{"amount": "10"})
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestRequestWithExpiredToken() {
	token, _, err := utils.GenerateJWT(1, suite.customerID, suite.jwtSecret, -time.Minute, "test")
	suite.Require().NoError(err)

	w := suite.do(http.MethodGet, "/api/v1/accounts/1", token, nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Contains(w.Body.String(), "expired")
}

// --- Deposit / Withdraw ---

func (suite *LedgerHandlerTestSuite) TestDeposit_Success() {
	token := suite.tokenFor(1, suite.customerID)
	amount := decimal.RequireFromString("250.50")
	updated := suite.account
	updated.Balance = decimal.RequireFromString("1250.50")

	suite.mockService.On("GetAccount", mock.Anything, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockService.On("Deposit", mock.Anything, suite.account.AccountID, mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(amount)
	})).Return(&updated, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/1/deposit", token, gin.H{"amount": "250.50"})

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.True(resp.Balance.Equal(updated.Balance))
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestDeposit_OtherCustomersAccountForbidden() {
	token := suite.tokenFor(1, int64(999))

	suite.mockService.On("GetAccount", mock.Anything, suite.account.AccountID).Return(&suite.account, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/1/deposit", token, gin.H{"amount": "10"})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "Deposit", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestDeposit_MalformedAccountID() {
	token := suite.tokenFor(1, suite.customerID)

	w := suite.do(http.MethodPost, "/api/v1/accounts/abc/deposit", token, gin.H{"amount": "10"})

	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestWithdraw_InsufficientFunds() {
	token := suite.tokenFor(1, suite.customerID)

	suite.mockService.On("GetAccount", mock.Anything, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockService.On("Withdraw", mock.Anything, suite.account.AccountID, mock.Anything).
		Return(nil, apperrors.ErrInsufficientFunds).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/1/withdraw", token, gin.H{"amount": "2000.00"})

	suite.Equal(http.StatusUnprocessableEntity, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestWithdraw_AccountNotFound() {
	token := suite.tokenFor(1, suite.customerID)

	suite.mockService.On("GetAccount", mock.Anything, int64(99)).Return(nil, apperrors.ErrNotFound).Once()

	w := suite.do(http.MethodPost, "/api/v1/accounts/99/withdraw", token, gin.H{"amount": "10"})

	suite.Equal(http.StatusNotFound, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "Withdraw", mock.Anything, mock.Anything, mock.Anything)
}

// --- Transfer ---

func (suite *LedgerHandlerTestSuite) TestTransfer_Success() {
	token := suite.tokenFor(1, suite.customerID)

	suite.mockService.On("GetAccount", mock.Anything, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockService.On("Transfer", mock.Anything, suite.account.AccountID, suite.other.AccountID, mock.MatchedBy(func(a decimal.Decimal) bool {
		return a.Equal(decimal.RequireFromString("300.00"))
	})).Return(nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", token, gin.H{
		"fromAccountID": 1,
		"toAccountID":   2,
		"amount":        "300.00",
	})

	suite.Equal(http.StatusOK, w.Code)
	suite.mockService.AssertExpectations(suite.T())
}

func (suite *LedgerHandlerTestSuite) TestTransfer_SourceOwnedByOtherCustomer() {
	token := suite.tokenFor(1, int64(999))

	suite.mockService.On("GetAccount", mock.Anything, suite.account.AccountID).Return(&suite.account, nil).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", token, gin.H{
		"fromAccountID": 1,
		"toAccountID":   2,
		"amount":        "300.00",
	})

	suite.Equal(http.StatusForbidden, w.Code)
	suite.mockService.AssertNotCalled(suite.T(), "Transfer", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerHandlerTestSuite) TestTransfer_ValidationErrorFromEngine() {
	token := suite.tokenFor(1, suite.customerID)

	suite.mockService.On("GetAccount", mock.Anything, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockService.On("Transfer", mock.Anything, suite.account.AccountID, suite.other.AccountID, mock.Anything).
		Return(apperrors.ErrValidation).Once()

	w := suite.do(http.MethodPost, "/api/v1/transfers", token, gin.H{
		"fromAccountID": 1,
		"toAccountID":   2,
		"amount":        "10",
	})

	suite.Equal(http.StatusBadRequest, w.Code)
}

// --- Reads ---

func (suite *LedgerHandlerTestSuite) TestGetAccount_Success() {
	token := suite.tokenFor(1, suite.customerID)

	suite.mockService.On("GetAccount", mock.Anything, suite.account.AccountID).Return(&suite.account, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/1", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp dto.AccountResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal(suite.account.AccountNumber, resp.AccountNumber)
}

func (suite *LedgerHandlerTestSuite) TestGetAccount_OtherCustomerForbidden() {
	token := suite.tokenFor(1, int64(999))

	suite.mockService.On("GetAccount", mock.Anything, suite.account.AccountID).Return(&suite.account, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/1", token, nil)

	suite.Equal(http.StatusForbidden, w.Code)
}

func (suite *LedgerHandlerTestSuite) TestListAccounts_FiltersToCaller() {
	token := suite.tokenFor(1, suite.customerID)
	foreign := domain.Account{AccountID: 3, CustomerID: 999, AccountNumber: "ACC1000000003", AccountType: domain.Savings}

	suite.mockService.On("ListAccounts", mock.Anything).
		Return([]domain.Account{suite.account, suite.other, foreign}, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Accounts []dto.AccountResponse `json:"accounts"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Len(resp.Accounts, 2)
	for _, acc := range resp.Accounts {
		suite.Equal(suite.customerID, acc.CustomerID)
	}
}

func (suite *LedgerHandlerTestSuite) TestGetTransactionHistory_Success() {
	token := suite.tokenFor(1, suite.customerID)
	history := []domain.Transaction{
		{TransactionID: 2, AccountID: 1, TransactionType: domain.Withdrawal, Amount: decimal.NewFromInt(30), BalanceAfter: decimal.NewFromInt(70)},
		{TransactionID: 1, AccountID: 1, TransactionType: domain.Deposit, Amount: decimal.NewFromInt(100), BalanceAfter: decimal.NewFromInt(100)},
	}

	suite.mockService.On("GetAccount", mock.Anything, suite.account.AccountID).Return(&suite.account, nil).Once()
	suite.mockService.On("GetTransactionHistory", mock.Anything, suite.account.AccountID).Return(history, nil).Once()

	w := suite.do(http.MethodGet, "/api/v1/accounts/1/transactions", token, nil)

	suite.Equal(http.StatusOK, w.Code)
	var resp struct {
		Transactions []dto.TransactionResponse `json:"transactions"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Require().Len(resp.Transactions, 2)
	suite.Equal(int64(2), resp.Transactions[0].TransactionID)
}

// --- Run Test Suite ---
func TestLedgerHandlers(t *testing.T) {
	suite.Run(t, new(LedgerHandlerTestSuite))
}
