package handlers

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/corebank/banking_backend/internal/core/domain"
	portssvc "github.com/corebank/banking_backend/internal/core/ports/services"
	"github.com/corebank/banking_backend/internal/dto"
	"github.com/corebank/banking_backend/internal/middleware"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ledgerHandler handles the balance-mutating operations and history reads.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// RegisterLedgerRoutes registers deposit, withdrawal, transfer and history routes.
func RegisterLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("/:accountID/deposit", h.deposit)
		accounts.POST("/:accountID/withdraw", h.withdraw)
		accounts.GET("/:accountID/transactions", h.getTransactionHistory)
	}
	rg.POST("/transfers", h.transfer)
}

func (h *ledgerHandler) deposit(c *gin.Context) {
	h.applyAmount(c, "deposit", h.ledgerService.Deposit)
}

func (h *ledgerHandler) withdraw(c *gin.Context) {
	h.applyAmount(c, "withdrawal", h.ledgerService.Withdraw)
}

// applyAmount is the shared deposit/withdraw request path: it verifies the
// caller owns the account, binds the amount and applies the operation.
func (h *ledgerHandler) applyAmount(c *gin.Context, operation string, apply func(context.Context, int64, decimal.Decimal) (*domain.Account, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	var req dto.AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if !h.checkOwnership(c, accountID) {
		return
	}

	account, err := apply(c.Request.Context(), accountID, req.Amount)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Operation failed", slog.String("operation", operation), slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to process " + operation})
			return
		}
		logger.Warn("Operation rejected", slog.String("operation", operation), slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if !h.checkOwnership(c, req.FromAccountID) {
		return
	}

	err := h.ledgerService.Transfer(c.Request.Context(), req.FromAccountID, req.ToAccountID, req.Amount)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Transfer failed", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to process transfer"})
			return
		}
		logger.Warn("Transfer rejected", slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Transfer successful"})
}

func (h *ledgerHandler) getTransactionHistory(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	if !h.checkOwnership(c, accountID) {
		return
	}

	txns, err := h.ledgerService.GetTransactionHistory(c.Request.Context(), accountID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to get transaction history", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to retrieve transactions"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"transactions": dto.ToListTransactionResponse(txns)})
}

// checkOwnership verifies the authenticated customer owns the account,
// responding on failure. Missing accounts are reported as such so the
// engine's NotFound semantics stay visible.
func (h *ledgerHandler) checkOwnership(c *gin.Context, accountID int64) bool {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	account, err := h.ledgerService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to check account ownership", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to retrieve account"})
			return false
		}
		c.JSON(status, gin.H{"error": "Account not found"})
		return false
	}

	if !callerOwnsAccount(c, account.CustomerID) {
		logger.Warn("Unauthorized access to account", slog.Int64("account_id", accountID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access to account"})
		return false
	}
	return true
}
