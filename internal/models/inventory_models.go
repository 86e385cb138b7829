package models

import "time"

// InventoryItem represents a stocked item owned by a hospital.
// Quantity never goes below zero after a committed transaction.
type InventoryItem struct {
	ID          int64     `json:"id" db:"id"`
	HospitalID  int64     `json:"hospital_id" db:"hospital_id"`
	Name        string    `json:"name" db:"name" binding:"required"`
	Quantity    int       `json:"quantity" db:"quantity" binding:"gte=0"`
	Category    string    `json:"category" db:"category" binding:"required"`
	Description *string   `json:"description,omitempty" db:"description"`
	Price       float64   `json:"price" db:"price" binding:"gte=0"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" db:"updated_at"`
}

// InventoryFilters defines the available filters for querying inventory items.
// HospitalID always comes from the authenticated token, never from the client.
type InventoryFilters struct {
	HospitalID int64
	Category   *string `form:"category"`
	Name       *string `form:"name"` // case-insensitive substring match
}
