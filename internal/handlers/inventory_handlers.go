package handlers

import (
	"errors"
	"net/http"

	"medstock_backend/internal/models"
	"medstock_backend/internal/services"
	"medstock_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// InventoryHandler holds the inventory service.
type InventoryHandler struct {
	inventoryService services.InventoryService
}

// NewInventoryHandler creates a new InventoryHandler.
func NewInventoryHandler(is services.InventoryService) *InventoryHandler {
	return &InventoryHandler{inventoryService: is}
}

// CreateItem handles creation of a new inventory item for the authenticated hospital.
func (h *InventoryHandler) CreateItem(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}

	var req services.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "CreateItem: Failed to bind JSON")
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.inventoryService.CreateItem(hospitalID, req)
	if err != nil {
		utils.LogError(err, "CreateItem: Error from inventoryService.CreateItem")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to create inventory item.", "Internal error"))
		return
	}
	c.JSON(http.StatusCreated, item)
}

// GetItems handles fetching the authenticated hospital's inventory with filters.
func (h *InventoryHandler) GetItems(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}

	filters := models.InventoryFilters{
		HospitalID: hospitalID,
		Category:   utils.NewNullString(c.Query("category")),
		Name:       utils.NewNullString(c.Query("name")),
	}

	items, err := h.inventoryService.GetItems(filters)
	if err != nil {
		utils.LogError(err, "GetItems: Error from inventoryService.GetItems")
		utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory items.", "Internal error"))
		return
	}
	if items == nil {
		items = []models.InventoryItem{}
	}
	c.JSON(http.StatusOK, items)
}

// GetItemByID handles fetching a single inventory item.
func (h *InventoryHandler) GetItemByID(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid inventory item ID format.", err.Error()))
		return
	}

	item, err := h.inventoryService.GetItemByID(hospitalID, itemID)
	if err != nil {
		utils.LogError(err, "GetItemByID: Error from inventoryService.GetItemByID for ID "+c.Param("id"))
		if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to fetch inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// UpdateItem handles updating an existing inventory item.
func (h *InventoryHandler) UpdateItem(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid inventory item ID format.", err.Error()))
		return
	}

	var req services.CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.LogError(err, "UpdateItem: Failed to bind JSON for ID "+c.Param("id"))
		utils.RespondValidationFailed(c, err.Error())
		return
	}

	item, err := h.inventoryService.UpdateItem(hospitalID, itemID, req)
	if err != nil {
		utils.LogError(err, "UpdateItem: Error from inventoryService.UpdateItem for ID "+c.Param("id"))
		if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found to update.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to update inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, item)
}

// DeleteItem handles deleting an inventory item. Transaction lines that
// reference the item keep their snapshotted name and quantity.
func (h *InventoryHandler) DeleteItem(c *gin.Context) {
	hospitalID, ok := HospitalIDFromContext(c)
	if !ok {
		return
	}
	itemID, err := utils.StrToInt64(c.Param("id"))
	if err != nil {
		utils.RespondWithError(c, utils.NewAPIError(http.StatusBadRequest, utils.ErrCodeValidationFailed, "Invalid inventory item ID format.", err.Error()))
		return
	}

	if err := h.inventoryService.DeleteItem(hospitalID, itemID); err != nil {
		utils.LogError(err, "DeleteItem: Error from inventoryService.DeleteItem for ID "+c.Param("id"))
		if errors.Is(err, services.ErrInventoryItemNotFound) {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusNotFound, utils.ErrCodeNotFound, "Inventory item not found to delete.", err.Error()))
		} else {
			utils.RespondWithError(c, utils.NewAPIError(http.StatusInternalServerError, utils.ErrCodeInternalServerError, "Failed to delete inventory item.", "Internal error"))
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Inventory item deleted successfully"})
}
