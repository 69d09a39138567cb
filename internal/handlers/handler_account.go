package handlers

import (
	"log/slog"
	"net/http"
	"strconv"

	portssvc "github.com/corebank/banking_backend/internal/core/ports/services"
	"github.com/corebank/banking_backend/internal/dto"
	"github.com/corebank/banking_backend/internal/middleware"
	"github.com/gin-gonic/gin"
)

// accountHandler handles HTTP requests related to accounts.
type accountHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

func newAccountHandler(ls portssvc.LedgerSvcFacade) *accountHandler {
	return &accountHandler{ledgerService: ls}
}

// RegisterAccountRoutes registers routes related to accounts.
func RegisterAccountRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newAccountHandler(ledgerService)

	accounts := rg.Group("/accounts")
	{
		accounts.POST("", h.createAccount)
		accounts.GET("", h.listAccounts)
		accounts.GET("/:accountID", h.getAccount)
	}
}

func (h *accountHandler) createAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for createAccount", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	account, err := h.ledgerService.CreateAccount(c.Request.Context(), req)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to create account", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to create account"})
			return
		}
		logger.Warn("Account creation rejected", slog.String("error", err.Error()))
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}

	logger.Info("Account created", slog.Int64("account_id", account.AccountID))
	c.JSON(http.StatusCreated, dto.ToAccountResponse(account))
}

func (h *accountHandler) getAccount(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID, ok := parseAccountID(c)
	if !ok {
		return
	}

	account, err := h.ledgerService.GetAccount(c.Request.Context(), accountID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to get account", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to retrieve account"})
			return
		}
		c.JSON(status, gin.H{"error": "Account not found"})
		return
	}

	if !callerOwnsAccount(c, account.CustomerID) {
		logger.Warn("Unauthorized access to account", slog.Int64("account_id", accountID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access to account"})
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

func (h *accountHandler) listAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.ledgerService.ListAccounts(c.Request.Context())
	if err != nil {
		logger.Error("Failed to list accounts", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list accounts"})
		return
	}

	// Only the calling customer's accounts are exposed.
	customerID, _ := middleware.GetCustomerIDFromContext(c)
	owned := accounts[:0:0]
	for _, acc := range accounts {
		if acc.CustomerID == customerID {
			owned = append(owned, acc)
		}
	}

	c.JSON(http.StatusOK, gin.H{"accounts": dto.ToListAccountResponse(owned)})
}

// parseAccountID reads the :accountID path parameter, responding 400 on
// malformed input.
func parseAccountID(c *gin.Context) (int64, bool) {
	accountID, err := strconv.ParseInt(c.Param("accountID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account ID"})
		return 0, false
	}
	return accountID, true
}

// callerOwnsAccount reports whether the authenticated customer owns the
// account.
func callerOwnsAccount(c *gin.Context, ownerCustomerID int64) bool {
	customerID, ok := middleware.GetCustomerIDFromContext(c)
	return ok && customerID == ownerCustomerID
}
