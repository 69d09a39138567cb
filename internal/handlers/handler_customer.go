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

// customerHandler handles customer reads.
type customerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// RegisterCustomerRoutes registers routes related to customers.
func RegisterCustomerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := &customerHandler{ledgerService: ledgerService}

	customers := rg.Group("/customers")
	customers.GET("/:customerID", h.getCustomer)
}

func (h *customerHandler) getCustomer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	customerID, err := strconv.ParseInt(c.Param("customerID"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid customer ID"})
		return
	}

	if callerID, ok := middleware.GetCustomerIDFromContext(c); !ok || callerID != customerID {
		logger.Warn("Unauthorized access to customer", slog.Int64("customer_id", customerID))
		c.JSON(http.StatusForbidden, gin.H{"error": "Unauthorized access to customer"})
		return
	}

	customer, err := h.ledgerService.GetCustomer(c.Request.Context(), customerID)
	if err != nil {
		status := statusForError(err)
		if status == http.StatusInternalServerError {
			logger.Error("Failed to get customer", slog.String("error", err.Error()))
			c.JSON(status, gin.H{"error": "Failed to retrieve customer"})
			return
		}
		c.JSON(status, gin.H{"error": "Customer not found"})
		return
	}

	c.JSON(http.StatusOK, dto.ToCustomerResponse(customer))
}
