package services

import (
	"errors"
	"fmt"
	"time"

	"medstock_backend/internal/models"
	"medstock_backend/internal/repositories"
	"medstock_backend/pkg/utils"
)

var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrInsufficientStock   = errors.New("insufficient stock for item")
	ErrInvalidPayment      = errors.New("invalid payment method")
)

// Payment method constants.
const (
	PaymentMethodCash   = "cash"
	PaymentMethodOnline = "online"
)

// --- Data Transfer Objects (DTOs) ---

// CreateTransactionLineRequest is one sale line. Either an inventory item
// reference or an explicit item name must be present; when both are given the
// explicit name wins as the snapshot.
type CreateTransactionLineRequest struct {
	InventoryItemID *int64  `json:"inventory_item_id"`
	ItemName        string  `json:"item_name"`
	Quantity        int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice       float64 `json:"unit_price" binding:"gte=0"`
}

// CreateTransactionRequest carries the sale payload. The selling hospital is
// never part of the body; it comes from the authenticated token.
type CreateTransactionRequest struct {
	CustomerName    string                         `json:"customer_name" binding:"required"`
	CustomerEmail   *string                        `json:"customer_email"`
	CustomerPhone   *string                        `json:"customer_phone"`
	CustomerAddress *string                        `json:"customer_address"`
	PaymentMethod   string                         `json:"payment_method" binding:"required"`
	Reference       *string                        `json:"reference"`
	TotalAmount     float64                        `json:"total_amount" binding:"gte=0"`
	Lines           []CreateTransactionLineRequest `json:"lines" binding:"required,dive"`
}

// --- TransactionService Interface ---
type TransactionService interface {
	CreateTransaction(hospitalID int64, req CreateTransactionRequest) (*models.Transaction, error)
	GetTransactions(filters models.TransactionFilters) ([]models.Transaction, error)
	GetTransactionByID(hospitalID, transactionID int64) (*models.Transaction, error)
	DeleteTransaction(hospitalID, transactionID int64) error
}

// --- transactionService Implementation ---
type transactionService struct {
	transactionRepo repositories.TransactionRepository
	inventoryRepo   repositories.InventoryRepository
	tx              repositories.TxRunner
}

// NewTransactionService creates a new instance of TransactionService.
func NewTransactionService(
	tr repositories.TransactionRepository,
	ir repositories.InventoryRepository,
	tx repositories.TxRunner,
) TransactionService {
	return &transactionService{
		transactionRepo: tr,
		inventoryRepo:   ir,
		tx:              tx,
	}
}

// CreateTransaction records a sale as a single atomic unit: the header, every
// line, and every stock decrement land together or not at all. Line order
// follows input order. The total amount is taken from the caller as supplied;
// it is not recomputed from the lines.
func (s *transactionService) CreateTransaction(hospitalID int64, req CreateTransactionRequest) (*models.Transaction, error) {
	if !isValidPaymentMethod(req.PaymentMethod) {
		return nil, fmt.Errorf("%w: %s", ErrInvalidPayment, req.PaymentMethod)
	}
	if len(req.Lines) == 0 {
		return nil, fmt.Errorf("%w: transaction requires at least one line", ErrValidation)
	}
	for i, lineReq := range req.Lines {
		if lineReq.Quantity <= 0 {
			return nil, fmt.Errorf("%w: quantity for line %d must be positive", ErrValidation, i+1)
		}
		if lineReq.UnitPrice < 0 {
			return nil, fmt.Errorf("%w: unit price for line %d must not be negative", ErrValidation, i+1)
		}
		if lineReq.InventoryItemID == nil && utils.IsEmpty(lineReq.ItemName) {
			return nil, fmt.Errorf("%w: line %d needs an inventory item or an item name", ErrValidation, i+1)
		}
	}

	txn := models.Transaction{
		HospitalID:      hospitalID,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		CustomerAddress: req.CustomerAddress,
		PaymentMethod:   req.PaymentMethod,
		Reference:       req.Reference,
		TotalAmount:     req.TotalAmount,
		CreatedAt:       time.Now(),
	}

	err := s.tx.RunInTx(func(tx repositories.SQLExecutor) error {
		if _, err := s.transactionRepo.CreateTransaction(tx, &txn); err != nil {
			return fmt.Errorf("failed to create transaction record: %w", err)
		}

		for _, lineReq := range req.Lines {
			line := models.TransactionLine{
				TransactionID:   txn.ID,
				InventoryItemID: lineReq.InventoryItemID,
				ItemName:        lineReq.ItemName,
				Quantity:        lineReq.Quantity,
				UnitPrice:       lineReq.UnitPrice,
			}

			if lineReq.InventoryItemID != nil {
				item, err := s.inventoryRepo.GetItemByID(tx, *lineReq.InventoryItemID)
				if err != nil {
					if errors.Is(err, repositories.ErrNotFound) {
						return fmt.Errorf("%w: item ID %d", ErrInventoryItemNotFound, *lineReq.InventoryItemID)
					}
					return fmt.Errorf("failed to fetch inventory item %d: %w", *lineReq.InventoryItemID, err)
				}
				// Referenced items must belong to the selling hospital.
				if item.HospitalID != hospitalID {
					return fmt.Errorf("%w: item ID %d", ErrInventoryItemNotFound, *lineReq.InventoryItemID)
				}
				if utils.IsEmpty(line.ItemName) {
					line.ItemName = item.Name
				}

				if _, err := s.inventoryRepo.AdjustQuantity(tx, item.ID, -lineReq.Quantity); err != nil {
					if errors.Is(err, repositories.ErrInsufficientStock) {
						return fmt.Errorf("%w %s (ID: %d): requested %d, available %d",
							ErrInsufficientStock, item.Name, item.ID, lineReq.Quantity, item.Quantity)
					}
					if errors.Is(err, repositories.ErrNotFound) {
						return fmt.Errorf("%w: item ID %d", ErrInventoryItemNotFound, item.ID)
					}
					return fmt.Errorf("failed to adjust stock for item %s (ID: %d): %w", item.Name, item.ID, err)
				}
			}

			if _, err := s.transactionRepo.CreateTransactionLine(tx, &line); err != nil {
				return fmt.Errorf("failed to create transaction line: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	// Fetch the full transaction back, lines included, with computed totals.
	return s.GetTransactionByID(hospitalID, txn.ID)
}

func (s *transactionService) GetTransactions(filters models.TransactionFilters) ([]models.Transaction, error) {
	if err := validateDateFilter(filters.StartDate); err != nil {
		return nil, err
	}
	if err := validateDateFilter(filters.EndDate); err != nil {
		return nil, err
	}
	transactions, err := s.transactionRepo.GetTransactions(filters)
	if err != nil {
		return nil, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, nil
}

func (s *transactionService) GetTransactionByID(hospitalID, transactionID int64) (*models.Transaction, error) {
	txn, err := s.transactionRepo.GetTransactionByID(transactionID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, fmt.Errorf("failed to get transaction by ID: %w", err)
	}
	if txn.HospitalID != hospitalID {
		return nil, ErrTransactionNotFound
	}

	lines, err := s.transactionRepo.GetLinesByTransactionID(transactionID)
	if err != nil {
		return nil, fmt.Errorf("failed to get transaction lines: %w", err)
	}
	txn.Lines = lines
	return txn, nil
}

// DeleteTransaction removes a transaction and its lines. Stock is not
// returned; deleting a sale record does not undo the sale.
func (s *transactionService) DeleteTransaction(hospitalID, transactionID int64) error {
	if _, err := s.GetTransactionByID(hospitalID, transactionID); err != nil {
		return err
	}
	return s.tx.RunInTx(func(tx repositories.SQLExecutor) error {
		if err := s.transactionRepo.DeleteTransaction(tx, transactionID); err != nil {
			if errors.Is(err, repositories.ErrNotFound) {
				return ErrTransactionNotFound
			}
			return fmt.Errorf("failed to delete transaction: %w", err)
		}
		return nil
	})
}

func validateDateFilter(value *string) error {
	if value == nil || *value == "" {
		return nil
	}
	if _, err := time.Parse("2006-01-02", *value); err != nil {
		return fmt.Errorf("%w: invalid date filter %q, expected YYYY-MM-DD", ErrValidation, *value)
	}
	return nil
}

func isValidPaymentMethod(method string) bool {
	switch method {
	case PaymentMethodCash, PaymentMethodOnline:
		return true
	default:
		return false
	}
}
