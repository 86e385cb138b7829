package services

import (
	"database/sql"
	"errors"
	"fmt"

	"medstock_backend/internal/models"
	"medstock_backend/internal/repositories"
)

var (
	ErrInventoryItemNotFound = errors.New("inventory item not found")
	ErrValidation            = errors.New("validation failed")
)

// CreateInventoryItemRequest carries the payload for creating an item.
// The owning hospital always comes from the authenticated token.
type CreateInventoryItemRequest struct {
	Name        string  `json:"name" binding:"required"`
	Quantity    int     `json:"quantity" binding:"gte=0"`
	Category    string  `json:"category" binding:"required"`
	Description *string `json:"description"`
	Price       float64 `json:"price" binding:"gte=0"`
}

// --- InventoryService Interface ---
type InventoryService interface {
	CreateItem(hospitalID int64, req CreateInventoryItemRequest) (*models.InventoryItem, error)
	GetItems(filters models.InventoryFilters) ([]models.InventoryItem, error)
	GetItemByID(hospitalID, itemID int64) (*models.InventoryItem, error)
	UpdateItem(hospitalID, itemID int64, req CreateInventoryItemRequest) (*models.InventoryItem, error)
	DeleteItem(hospitalID, itemID int64) error
}

type inventoryService struct {
	inventoryRepo repositories.InventoryRepository
	db            *sql.DB
}

// NewInventoryService creates a new instance of InventoryService.
func NewInventoryService(inventoryRepo repositories.InventoryRepository, db *sql.DB) InventoryService {
	return &inventoryService{inventoryRepo: inventoryRepo, db: db}
}

func (s *inventoryService) CreateItem(hospitalID int64, req CreateInventoryItemRequest) (*models.InventoryItem, error) {
	item := models.InventoryItem{
		HospitalID:  hospitalID,
		Name:        req.Name,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
	}
	if _, err := s.inventoryRepo.CreateItem(s.db, &item); err != nil {
		return nil, fmt.Errorf("failed to create inventory item: %w", err)
	}
	return &item, nil
}

func (s *inventoryService) GetItems(filters models.InventoryFilters) ([]models.InventoryItem, error) {
	items, err := s.inventoryRepo.GetItems(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory items: %w", err)
	}
	return items, nil
}

// GetItemByID fetches an item and verifies it belongs to the given hospital.
// Items owned by other tenants are reported as not found.
func (s *inventoryService) GetItemByID(hospitalID, itemID int64) (*models.InventoryItem, error) {
	item, err := s.inventoryRepo.GetItemByID(s.db, itemID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if item.HospitalID != hospitalID {
		return nil, ErrInventoryItemNotFound
	}
	return item, nil
}

func (s *inventoryService) UpdateItem(hospitalID, itemID int64, req CreateInventoryItemRequest) (*models.InventoryItem, error) {
	item := models.InventoryItem{
		ID:          itemID,
		HospitalID:  hospitalID,
		Name:        req.Name,
		Quantity:    req.Quantity,
		Category:    req.Category,
		Description: req.Description,
		Price:       req.Price,
	}
	if err := s.inventoryRepo.UpdateItem(s.db, &item); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrInventoryItemNotFound
		}
		return nil, fmt.Errorf("failed to update inventory item: %w", err)
	}
	return s.GetItemByID(hospitalID, itemID)
}

func (s *inventoryService) DeleteItem(hospitalID, itemID int64) error {
	// Ownership check first: deletes must never cross the tenant boundary.
	if _, err := s.GetItemByID(hospitalID, itemID); err != nil {
		return err
	}
	if err := s.inventoryRepo.DeleteItem(s.db, itemID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrInventoryItemNotFound
		}
		return fmt.Errorf("failed to delete inventory item: %w", err)
	}
	return nil
}
