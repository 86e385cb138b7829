package models

import "time"

// Transaction records a sale made by a hospital. CreatedAt is server-assigned
// and immutable; lines are kept in insertion order.
type Transaction struct {
	ID              int64             `json:"id" db:"id"`
	HospitalID      int64             `json:"hospital_id" db:"hospital_id"`
	CustomerName    string            `json:"customer_name" db:"customer_name"`
	CustomerEmail   *string           `json:"customer_email,omitempty" db:"customer_email"`
	CustomerPhone   *string           `json:"customer_phone,omitempty" db:"customer_phone"`
	CustomerAddress *string           `json:"customer_address,omitempty" db:"customer_address"`
	PaymentMethod   string            `json:"payment_method" db:"payment_method"`
	Reference       *string           `json:"reference,omitempty" db:"reference"`
	TotalAmount     float64           `json:"total_amount" db:"total_amount"`
	CreatedAt       time.Time         `json:"created_at" db:"created_at"`
	Lines           []TransactionLine `json:"lines"`
}

// TransactionLine is one item/quantity/price entry within a transaction.
// ItemName is snapshotted at sale time so deleting the inventory item later
// does not corrupt history; InventoryItemID is nulled instead.
type TransactionLine struct {
	ID              int64   `json:"id" db:"id"`
	TransactionID   int64   `json:"transaction_id" db:"transaction_id"`
	InventoryItemID *int64  `json:"inventory_item_id,omitempty" db:"inventory_item_id"`
	ItemName        string  `json:"item_name" db:"item_name"`
	Quantity        int     `json:"quantity" db:"quantity"`
	UnitPrice       float64 `json:"unit_price" db:"unit_price"`
	LineTotal       float64 `json:"line_total"` // computed as quantity * unit_price, not stored
}

// TransactionFilters defines the available filters for querying transactions.
// HospitalID always comes from the authenticated token.
type TransactionFilters struct {
	HospitalID int64
	StartDate  *string `form:"start_date"` // YYYY-MM-DD
	EndDate    *string `form:"end_date"`   // YYYY-MM-DD
}
