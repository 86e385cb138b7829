package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"medstock_backend/internal/models"

	"github.com/lib/pq" // For pq.Error
)

// TransactionRepository defines the interface for transaction-related database operations.
type TransactionRepository interface {
	CreateTransaction(executor SQLExecutor, txn *models.Transaction) (int64, error)
	CreateTransactionLine(executor SQLExecutor, line *models.TransactionLine) (int64, error)
	GetTransactionByID(transactionID int64) (*models.Transaction, error)
	GetLinesByTransactionID(transactionID int64) ([]models.TransactionLine, error)
	GetTransactions(filters models.TransactionFilters) ([]models.Transaction, error)
	DeleteTransaction(executor SQLExecutor, transactionID int64) error
}

type transactionRepository struct {
	db *sql.DB
}

// NewTransactionRepository creates a new instance of TransactionRepository.
func NewTransactionRepository(db *sql.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

func (r *transactionRepository) CreateTransaction(executor SQLExecutor, txn *models.Transaction) (int64, error) {
	query := `INSERT INTO transactions
	            (hospital_id, customer_name, customer_email, customer_phone, customer_address,
	             payment_method, reference, total_amount, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	          RETURNING id`

	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}

	err := executor.QueryRow(query,
		txn.HospitalID, txn.CustomerName, txn.CustomerEmail, txn.CustomerPhone, txn.CustomerAddress,
		txn.PaymentMethod, txn.Reference, txn.TotalAmount, txn.CreatedAt,
	).Scan(&txn.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating transaction (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating transaction: %v", ErrDatabaseError, err)
	}
	return txn.ID, nil
}

func (r *transactionRepository) CreateTransactionLine(executor SQLExecutor, line *models.TransactionLine) (int64, error) {
	query := `INSERT INTO transaction_lines
	            (transaction_id, inventory_item_id, item_name, quantity, unit_price)
	          VALUES ($1, $2, $3, $4, $5)
	          RETURNING id`

	err := executor.QueryRow(query,
		line.TransactionID, line.InventoryItemID, line.ItemName, line.Quantity, line.UnitPrice,
	).Scan(&line.ID)

	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23503" {
			return 0, fmt.Errorf("%w: creating transaction line (constraint: %s)", ErrNotFound, pqErr.Constraint)
		}
		return 0, fmt.Errorf("%w: creating transaction line: %v", ErrDatabaseError, err)
	}
	return line.ID, nil
}

func (r *transactionRepository) GetTransactionByID(transactionID int64) (*models.Transaction, error) {
	txn := &models.Transaction{}
	query := `SELECT id, hospital_id, customer_name, customer_email, customer_phone, customer_address,
	                 payment_method, reference, total_amount, created_at
	          FROM transactions
	          WHERE id = $1`
	err := r.db.QueryRow(query, transactionID).Scan(
		&txn.ID, &txn.HospitalID, &txn.CustomerName, &txn.CustomerEmail, &txn.CustomerPhone,
		&txn.CustomerAddress, &txn.PaymentMethod, &txn.Reference, &txn.TotalAmount, &txn.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("%w: getting transaction by ID %d: %v", ErrDatabaseError, transactionID, err)
	}
	return txn, nil
}

// GetLinesByTransactionID returns the lines of a transaction in insertion
// order, with LineTotal computed from quantity and unit price.
func (r *transactionRepository) GetLinesByTransactionID(transactionID int64) ([]models.TransactionLine, error) {
	query := `SELECT id, transaction_id, inventory_item_id, item_name, quantity, unit_price
	          FROM transaction_lines
	          WHERE transaction_id = $1
	          ORDER BY id`

	rows, err := r.db.Query(query, transactionID)
	if err != nil {
		return nil, fmt.Errorf("%w: querying transaction lines for transaction ID %d: %v", ErrDatabaseError, transactionID, err)
	}
	defer rows.Close()

	lines := []models.TransactionLine{}
	for rows.Next() {
		var line models.TransactionLine
		err := rows.Scan(
			&line.ID, &line.TransactionID, &line.InventoryItemID, &line.ItemName,
			&line.Quantity, &line.UnitPrice,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning transaction line: %v", ErrDatabaseError, err)
		}
		line.LineTotal = float64(line.Quantity) * line.UnitPrice
		lines = append(lines, line)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating transaction line rows: %v", ErrDatabaseError, err)
	}
	return lines, nil
}

func (r *transactionRepository) GetTransactions(filters models.TransactionFilters) ([]models.Transaction, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`SELECT id, hospital_id, customer_name, customer_email, customer_phone, customer_address,
	                 payment_method, reference, total_amount, created_at
	          FROM transactions
	          WHERE hospital_id = $1`)

	args := []interface{}{filters.HospitalID}
	argCounter := 2

	if filters.StartDate != nil && filters.EndDate != nil {
		startDate, err := time.Parse("2006-01-02", *filters.StartDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid start_date filter %q, expected YYYY-MM-DD", ErrDatabaseError, *filters.StartDate)
		}
		endDate, err := time.Parse("2006-01-02", *filters.EndDate)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid end_date filter %q, expected YYYY-MM-DD", ErrDatabaseError, *filters.EndDate)
		}
		endOfDay := endDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
		queryBuilder.WriteString(fmt.Sprintf(" AND created_at BETWEEN $%d AND $%d", argCounter, argCounter+1))
		args = append(args, startDate, endOfDay)
		argCounter += 2
	}
	queryBuilder.WriteString(" ORDER BY created_at DESC")

	rows, err := r.db.Query(queryBuilder.String(), args...)
	if err != nil {
		return nil, fmt.Errorf("%w: querying transactions: %v", ErrDatabaseError, err)
	}
	defer rows.Close()

	transactions := []models.Transaction{}
	for rows.Next() {
		var txn models.Transaction
		err := rows.Scan(
			&txn.ID, &txn.HospitalID, &txn.CustomerName, &txn.CustomerEmail, &txn.CustomerPhone,
			&txn.CustomerAddress, &txn.PaymentMethod, &txn.Reference, &txn.TotalAmount, &txn.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("%w: scanning transaction: %v", ErrDatabaseError, err)
		}
		transactions = append(transactions, txn)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating transaction rows: %v", ErrDatabaseError, err)
	}
	return transactions, nil
}

// DeleteTransaction removes a transaction; its lines cascade.
func (r *transactionRepository) DeleteTransaction(executor SQLExecutor, transactionID int64) error {
	result, err := executor.Exec(`DELETE FROM transactions WHERE id = $1`, transactionID)
	if err != nil {
		return fmt.Errorf("%w: deleting transaction ID %d: %v", ErrDatabaseError, transactionID, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("%w: getting rows affected for deleting transaction ID %d: %v", ErrDatabaseError, transactionID, err)
	}
	if rowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
