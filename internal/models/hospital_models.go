package models

import "time"

// Hospital represents a registered hospital/clinic account. It is the
// multi-tenancy boundary: inventory items and transactions belong to
// exactly one hospital.
type Hospital struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name" db:"name"`
	Address       string    `json:"address" db:"address"`
	City          string    `json:"city" db:"city"`
	State         string    `json:"state" db:"state"`
	ZipCode       string    `json:"zip_code" db:"zip_code"`
	PhoneNumber   string    `json:"phone_number" db:"phone_number"`
	Email         string    `json:"email" db:"email"`
	PasswordHash  string    `json:"-" db:"password_hash"` // '-' means never sent in JSON responses
	ContactPerson string    `json:"contact_person" db:"contact_person"`
	LicenseNumber string    `json:"license_number" db:"license_number"`
	Latitude      *float64  `json:"latitude,omitempty" db:"latitude"`
	Longitude     *float64  `json:"longitude,omitempty" db:"longitude"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`
	UpdatedAt     time.Time `json:"updated_at" db:"updated_at"`
}

// CategoryStat is one row of the per-category inventory breakdown.
type CategoryStat struct {
	Category      string `json:"category"`
	Count         int64  `json:"count"`
	TotalQuantity int64  `json:"total_quantity"`
}

// HospitalStats aggregates inventory and sales figures for one hospital.
type HospitalStats struct {
	TotalItems        int64          `json:"total_items"`
	TotalQuantity     int64          `json:"total_quantity"`
	TotalTransactions int64          `json:"total_transactions"`
	TotalSales        float64        `json:"total_sales"`
	ItemsByCategory   []CategoryStat `json:"items_by_category"`
}
