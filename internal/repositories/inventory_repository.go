package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"medstock_backend/internal/models"
)

// InventoryRepository defines the interface for inventory-related database operations.
type InventoryRepository interface {
	CreateItem(executor SQLExecutor, item *models.InventoryItem) (int64, error)
	GetItemByID(executor SQLExecutor, itemID int64) (*models.InventoryItem, error)
	GetItems(filters models.InventoryFilters) ([]models.InventoryItem, error)
	UpdateItem(executor SQLExecutor, item *models.InventoryItem) error
	DeleteItem(executor SQLExecutor, itemID int64) error
	// AdjustQuantity applies a relative quantity change atomically and returns
	// the new quantity. The update is guarded: it fails with
	// ErrInsufficientStock rather than driving quantity below zero.
	AdjustQuantity(executor SQLExecutor, itemID int64, quantityChange int) (int, error)
}

type inventoryRepository struct {
	db *sql.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *sql.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

func (r *inventoryRepository) CreateItem(executor SQLExecutor, item *models.InventoryItem) (int64, error) {
	query := `INSERT INTO inventory_items
	            (hospital_id, name, quantity, category, description, price, created_at, updated_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	          RETURNING id`

	currentTime := time.Now()
	item.CreatedAt = currentTime
	item.UpdatedAt = currentTime

	err := executor.QueryRow(query,
		item.HospitalID, item.Name, item.Quantity, item.Category, item.Description, item.Price,
		item.CreatedAt, item.UpdatedAt,
	).Scan(&item.ID)

	if err != nil {
		return 0, fmt.Errorf("%w: creating inventory item: %v", ErrDatabaseError, err)
	}
	return item.ID, nil
}

// GetItemByID reads through the given executor so callers inside a database
// transaction see their own uncommitted changes.
func (r *inventoryRepository) GetItemByID(executor SQLExecutor, itemID int64) (*models.InventoryItem, error) {
	item := &models.InventoryItem{}
	query := `SELECT id, hospital_id, name, quantity, category, description, price, created_at, updated_at
	          FROM inventory_items
	          WHERE id = $1`
	err := executor.QueryRow(query, itemID).Scan(
		&item.ID, &item.HospitalID, &item.Name, &item.Quantity, &item.Category,
		&item.Description, &item.Price, &item.CreatedAt, &item.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting inventory item by ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return item, nil
}

func (r *inventoryRepository) GetItems(filters models.InventoryFilters) ([]models.InventoryItem, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, hospital_id, name, quantity, category, description, price, created_at, updated_at
	          FROM inventory_items
	          WHERE hospital_id = $1`)

	args := []interface{}{filters.HospitalID}
	argCounter := 2

	if filters.Category != nil && *filters.Category != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND category = $%d", argCounter))
		args = append(args, *filters.Category)
		argCounter++
	}
	if filters.Name != nil && *filters.Name != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND name ILIKE $%d", argCounter))
		args = append(args, "%"+*filters.Name+"%")
		argCounter++
	}
	queryBuilder.WriteString(" ORDER BY name")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying inventory items: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	items := []models.InventoryItem{}
	for rows.Next() {
		var item models.InventoryItem
		err := rows.Scan(
			&item.ID, &item.HospitalID, &item.Name, &item.Quantity, &item.Category,
			&item.Description, &item.Price, &item.CreatedAt, &item.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning inventory item: %v", ErrDatabaseError, err)
		}
		items = append(items, item)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating inventory item rows: %v", ErrDatabaseError, err)
	}
	return items, nil
}

func (r *inventoryRepository) UpdateItem(executor SQLExecutor, item *models.InventoryItem) error {
	query := `UPDATE inventory_items
	          SET name = $1, quantity = $2, category = $3, description = $4, price = $5, updated_at = $6
	          WHERE id = $7 AND hospital_id = $8`
	result, err := executor.Exec(query,
		item.Name, item.Quantity, item.Category, item.Description, item.Price, time.Now(),
		item.ID, item.HospitalID,
	)
	if err != nil {
		return fmt.Errorf("%w: updating inventory item ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for inventory item update ID %d: %v", ErrDatabaseError, item.ID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// DeleteItem removes an inventory item. Transaction lines referencing it keep
// their snapshotted item_name; only the foreign key is nulled (ON DELETE SET NULL).
func (r *inventoryRepository) DeleteItem(executor SQLExecutor, itemID int64) error {
	result, err := executor.Exec(`DELETE FROM inventory_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("%w: deleting inventory item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting inventory item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *inventoryRepository) AdjustQuantity(executor SQLExecutor, itemID int64, quantityChange int) (int, error) {
	var newQuantity int
	// Relative update keeps concurrent adjustments from losing writes; the
	// quantity guard keeps committed stock non-negative.
	query := `UPDATE inventory_items
	          SET quantity = quantity + $1, updated_at = $2
	          WHERE id = $3 AND quantity + $1 >= 0
	          RETURNING quantity`
	err := executor.QueryRow(query, quantityChange, time.Now(), itemID).Scan(&newQuantity)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// Distinguish a missing item from a decrement that would go negative.
			var exists bool
			checkErr := executor.QueryRow(`SELECT EXISTS(SELECT 1 FROM inventory_items WHERE id = $1)`, itemID).Scan(&exists)
			if checkErr != nil {
				return 0, fmt.Errorf("%w: checking inventory item ID %d: %v", ErrDatabaseError, itemID, checkErr)
			}
			if !exists {
				return 0, ErrNotFound
			}
			return 0, fmt.Errorf("%w: item ID %d", ErrInsufficientStock, itemID)
		}
		return 0, fmt.Errorf("%w: adjusting quantity for inventory item ID %d: %v", ErrDatabaseError, itemID, err)
	}
	return newQuantity, nil
}
