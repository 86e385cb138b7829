package handlers

import (
	"errors"
	"net/http"

	"medstock_backend/internal/models"
	"medstock_backend/internal/services"
	"medstock_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// TransactionHandler holds the transaction service.
type TransactionHandler struct {
	transactionService services.TransactionService
}

// NewTransactionHandler creates a new TransactionHandler.
func NewTransactionHandler(ts services.TransactionService) *TransactionHandler {
	return &TransactionHandler{transactionService: ts}
}

// CreateTransaction handles recording a sale with its lines. The selling
// hospital is taken from the authenticated token, never from the body.
func (h *TransactionHandler) CreateTransaction(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}

	var req services.CreateTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateTransaction: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	txn, err := h.transactionService.CreateTransaction(hospitalID, req)
	if err != nil {
		utils.LogError(err, "CreateTransaction: Error from transactionService.CreateTransaction")
		if errors.Is(err, services.ErrValidation) || errors.Is(err, services.ErrInvalidPayment) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid transaction payload.", err.Error()))
		} else if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "One or more inventory items not found.", err.Error()))
		} else if errors.Is(err, services.ErrInsufficientStock) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusConflict, utils.ErrCodeConflict, "Insufficient stock for one or more items.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create transaction.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusCreated, txn)
}

// GetTransactions handles fetching the authenticated hospital's transactions
// with an optional date range filter.
func (h *TransactionHandler) GetTransactions(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}

	filters := models.TransactionFilters{
		HospitalID: hospitalID,
		StartDate:  utils.NewNullString(c.Query("start_date")),
		EndDate:    utils.NewNullString(c.Query("end_date")),
	}

	transactions, err := h.transactionService.GetTransactions(filters)
	if err != nil {
		utils.LogError(err, "GetTransactions: Error from transactionService.GetTransactions")
		if errors.Is(err, services.ErrValidation) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid date format. Use YYYY-MM-DD.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch transactions.", "Internal error"))
		}
		return
	}
	if transactions == nil {
		transactions = []models.Transaction{}
	}
	c.JSON(http.StatusOK, transactions)
}

// GetTransactionByID handles fetching a single transaction with its lines.
func (h *TransactionHandler) GetTransactionByID(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}
	transactionID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid transaction ID format.", err.Error()))
		return
	}

	txn, err := h.transactionService.GetTransactionByID(hospitalID, transactionID)
	if err != nil {
		utils.LogError(err, "GetTransactionByID: Error from transactionService.GetTransactionByID for ID "+c.Param("id"))
		if errors.Is(err, services.ErrTransactionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Transaction not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch transaction.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, txn)
}

// DeleteTransaction handles deleting a transaction and its lines.
func (h *TransactionHandler) DeleteTransaction(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}
	transactionID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid transaction ID format.", err.Error()))
		return
	}

	if err := h.transactionService.DeleteTransaction(hospitalID, transactionID); err != nil {
		utils.LogError(err, "DeleteTransaction: Error from transactionService.DeleteTransaction for ID "+c.Param("id"))
		if errors.Is(err, services.ErrTransactionNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Transaction not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete transaction.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Transaction and its lines deleted successfully"})
}
