package services

import (
	"database/sql"
	"errors"
	"fmt"
	"testing"
	"time"

	"medstock_backend/internal/models"
	"medstock_backend/internal/repositories"
)

// --- In-memory fakes ---

type fakeInventoryRepo struct {
	items  map[int64]models.InventoryItem
	nextID int64

	// When linked, DeleteItem nulls line references the way the schema's
	// ON DELETE SET NULL does.
	lineStore *fakeTransactionRepo

	// Executors passed to reads and adjustments, for asserting that work
	// inside a transaction uses the transaction's executor.
	seenExecutors []repositories.SQLExecutor
}

func newFakeInventoryRepo() *fakeInventoryRepo {
	return &fakeInventoryRepo{items: map[int64]models.InventoryItem{}, nextID: 1}
}

func (r *fakeInventoryRepo) CreateItem(_ repositories.SQLExecutor, item *models.InventoryItem) (int64, error) {
	item.ID = r.nextID
	r.nextID++
	r.items[item.ID] = *item
	return item.ID, nil
}

func (r *fakeInventoryRepo) GetItemByID(executor repositories.SQLExecutor, itemID int64) (*models.InventoryItem, error) {
	r.seenExecutors = append(r.seenExecutors, executor)
	item, ok := r.items[itemID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := item
	return &copied, nil
}

func (r *fakeInventoryRepo) GetItems(filters models.InventoryFilters) ([]models.InventoryItem, error) {
	items := []models.InventoryItem{}
	for _, item := range r.items {
		if item.HospitalID == filters.HospitalID {
			items = append(items, item)
		}
	}
	return items, nil
}

func (r *fakeInventoryRepo) UpdateItem(_ repositories.SQLExecutor, item *models.InventoryItem) error {
	existing, ok := r.items[item.ID]
	if !ok || existing.HospitalID != item.HospitalID {
		return repositories.ErrNotFound
	}
	r.items[item.ID] = *item
	return nil
}

func (r *fakeInventoryRepo) DeleteItem(_ repositories.SQLExecutor, itemID int64) error {
	if _, ok := r.items[itemID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.items, itemID)
	if r.lineStore != nil {
		for id, line := range r.lineStore.lines {
			if line.InventoryItemID != nil && *line.InventoryItemID == itemID {
				line.InventoryItemID = nil
				r.lineStore.lines[id] = line
			}
		}
	}
	return nil
}

func (r *fakeInventoryRepo) AdjustQuantity(executor repositories.SQLExecutor, itemID int64, quantityChange int) (int, error) {
	r.seenExecutors = append(r.seenExecutors, executor)
	item, ok := r.items[itemID]
	if !ok {
		return 0, repositories.ErrNotFound
	}
	if item.Quantity+quantityChange < 0 {
		return 0, fmt.Errorf("%w: item ID %d", repositories.ErrInsufficientStock, itemID)
	}
	item.Quantity += quantityChange
	r.items[itemID] = item
	return item.Quantity, nil
}

func (r *fakeInventoryRepo) snapshot() map[int64]models.InventoryItem {
	snap := make(map[int64]models.InventoryItem, len(r.items))
	for id, item := range r.items {
		snap[id] = item
	}
	return snap
}

type fakeTransactionRepo struct {
	transactions map[int64]models.Transaction
	lines        map[int64]models.TransactionLine
	nextTxnID    int64
	nextLineID   int64
}

func newFakeTransactionRepo() *fakeTransactionRepo {
	return &fakeTransactionRepo{
		transactions: map[int64]models.Transaction{},
		lines:        map[int64]models.TransactionLine{},
		nextTxnID:    1,
		nextLineID:   1,
	}
}

func (r *fakeTransactionRepo) CreateTransaction(_ repositories.SQLExecutor, txn *models.Transaction) (int64, error) {
	txn.ID = r.nextTxnID
	r.nextTxnID++
	if txn.CreatedAt.IsZero() {
		txn.CreatedAt = time.Now()
	}
	stored := *txn
	stored.Lines = nil
	r.transactions[txn.ID] = stored
	return txn.ID, nil
}

func (r *fakeTransactionRepo) CreateTransactionLine(_ repositories.SQLExecutor, line *models.TransactionLine) (int64, error) {
	if _, ok := r.transactions[line.TransactionID]; !ok {
		return 0, repositories.ErrNotFound
	}
	line.ID = r.nextLineID
	r.nextLineID++
	r.lines[line.ID] = *line
	return line.ID, nil
}

func (r *fakeTransactionRepo) GetTransactionByID(transactionID int64) (*models.Transaction, error) {
	txn, ok := r.transactions[transactionID]
	if !ok {
		return nil, repositories.ErrNotFound
	}
	copied := txn
	return &copied, nil
}

func (r *fakeTransactionRepo) GetLinesByTransactionID(transactionID int64) ([]models.TransactionLine, error) {
	lines := []models.TransactionLine{}
	for id := int64(1); id < r.nextLineID; id++ {
		line, ok := r.lines[id]
		if !ok || line.TransactionID != transactionID {
			continue
		}
		line.LineTotal = float64(line.Quantity) * line.UnitPrice
		lines = append(lines, line)
	}
	return lines, nil
}

func (r *fakeTransactionRepo) GetTransactions(filters models.TransactionFilters) ([]models.Transaction, error) {
	transactions := []models.Transaction{}
	for _, txn := range r.transactions {
		if txn.HospitalID == filters.HospitalID {
			transactions = append(transactions, txn)
		}
	}
	return transactions, nil
}

func (r *fakeTransactionRepo) DeleteTransaction(_ repositories.SQLExecutor, transactionID int64) error {
	if _, ok := r.transactions[transactionID]; !ok {
		return repositories.ErrNotFound
	}
	delete(r.transactions, transactionID)
	for id, line := range r.lines {
		if line.TransactionID == transactionID {
			delete(r.lines, id)
		}
	}
	return nil
}

// fakeTxExecutor is the executor the fake runner hands to fn. It is a
// distinct value so tests can assert which calls went through the transaction.
type fakeTxExecutor struct{}

func (fakeTxExecutor) Exec(query string, args ...interface{}) (sql.Result, error) { return nil, nil }
func (fakeTxExecutor) QueryRow(query string, args ...interface{}) *sql.Row        { return nil }
func (fakeTxExecutor) Query(query string, args ...interface{}) (*sql.Rows, error) { return nil, nil }

// fakeTxRunner snapshots the in-memory stores before running fn and restores
// them on failure, mirroring a database rollback.
type fakeTxRunner struct {
	inv *fakeInventoryRepo
	txn *fakeTransactionRepo
}

func (r *fakeTxRunner) RunInTx(fn func(tx repositories.SQLExecutor) error) error {
	invSnap := r.inv.snapshot()
	txnSnap := map[int64]models.Transaction{}
	for id, txn := range r.txn.transactions {
		txnSnap[id] = txn
	}
	lineSnap := map[int64]models.TransactionLine{}
	for id, line := range r.txn.lines {
		lineSnap[id] = line
	}
	nextTxnID, nextLineID := r.txn.nextTxnID, r.txn.nextLineID

	if err := fn(fakeTxExecutor{}); err != nil {
		r.inv.items = invSnap
		r.txn.transactions = txnSnap
		r.txn.lines = lineSnap
		r.txn.nextTxnID, r.txn.nextLineID = nextTxnID, nextLineID
		return err
	}
	return nil
}

func setupTransactionService(t *testing.T) (*fakeInventoryRepo, *fakeTransactionRepo, TransactionService) {
	t.Helper()
	inv := newFakeInventoryRepo()
	txn := newFakeTransactionRepo()
	inv.lineStore = txn
	svc := NewTransactionService(txn, inv, &fakeTxRunner{inv: inv, txn: txn})
	return inv, txn, svc
}

func addItem(inv *fakeInventoryRepo, hospitalID int64, name string, quantity int, price float64) int64 {
	id, _ := inv.CreateItem(nil, &models.InventoryItem{
		HospitalID: hospitalID,
		Name:       name,
		Quantity:   quantity,
		Category:   "Medicine",
		Price:      price,
	})
	return id
}

// --- Tests ---

func TestCreateTransactionDecrementsStock(t *testing.T) {
	inv, _, svc := setupTransactionService(t)
	itemA := addItem(inv, 1, "Paracetamol", 10, 10.00)
	itemB := addItem(inv, 1, "Bandage", 2, 5.00)

	txn, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: PaymentMethodCash,
		TotalAmount:   35.00,
		Lines: []CreateTransactionLineRequest{
			{InventoryItemID: &itemA, Quantity: 3, UnitPrice: 10.00},
			{InventoryItemID: &itemB, Quantity: 1, UnitPrice: 5.00},
		},
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	a, _ := inv.GetItemByID(nil, itemA)
	b, _ := inv.GetItemByID(nil, itemB)
	if a.Quantity != 7 || b.Quantity != 1 {
		t.Fatalf("stock not decremented: got %d and %d", a.Quantity, b.Quantity)
	}

	if len(txn.Lines) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(txn.Lines))
	}
	if txn.Lines[0].LineTotal != 30.00 || txn.Lines[1].LineTotal != 5.00 {
		t.Fatalf("wrong line totals: %v %v", txn.Lines[0].LineTotal, txn.Lines[1].LineTotal)
	}
	if txn.Lines[0].ItemName != "Paracetamol" || txn.Lines[1].ItemName != "Bandage" {
		t.Fatalf("item names not snapshotted: %q %q", txn.Lines[0].ItemName, txn.Lines[1].ItemName)
	}
	if txn.TotalAmount != 35.00 {
		t.Fatalf("total amount changed: %v", txn.TotalAmount)
	}
}

func TestCreateTransactionInvalidQuantityLeavesStateUnchanged(t *testing.T) {
	inv, txnRepo, svc := setupTransactionService(t)
	itemA := addItem(inv, 1, "Paracetamol", 10, 10.00)

	_, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: PaymentMethodCash,
		Lines: []CreateTransactionLineRequest{
			{InventoryItemID: &itemA, Quantity: 3, UnitPrice: 10.00},
			{InventoryItemID: &itemA, Quantity: 0, UnitPrice: 10.00},
		},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}

	a, _ := inv.GetItemByID(nil, itemA)
	if a.Quantity != 10 {
		t.Fatalf("stock changed on failed transaction: %d", a.Quantity)
	}
	if len(txnRepo.transactions) != 0 {
		t.Fatalf("transaction persisted on failure")
	}
}

func TestCreateTransactionInsufficientStockRollsBack(t *testing.T) {
	inv, txnRepo, svc := setupTransactionService(t)
	itemA := addItem(inv, 1, "Paracetamol", 10, 10.00)
	itemB := addItem(inv, 1, "Bandage", 2, 5.00)

	_, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: PaymentMethodOnline,
		Lines: []CreateTransactionLineRequest{
			{InventoryItemID: &itemA, Quantity: 3, UnitPrice: 10.00},
			{InventoryItemID: &itemB, Quantity: 5, UnitPrice: 5.00},
		},
	})
	if !errors.Is(err, ErrInsufficientStock) {
		t.Fatalf("expected insufficient stock error, got %v", err)
	}

	a, _ := inv.GetItemByID(nil, itemA)
	b, _ := inv.GetItemByID(nil, itemB)
	if a.Quantity != 10 || b.Quantity != 2 {
		t.Fatalf("stock not rolled back: %d %d", a.Quantity, b.Quantity)
	}
	if len(txnRepo.transactions) != 0 || len(txnRepo.lines) != 0 {
		t.Fatalf("partial transaction state persisted")
	}
}

func TestCreateTransactionUnknownItem(t *testing.T) {
	_, _, svc := setupTransactionService(t)
	missing := int64(42)

	_, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: PaymentMethodCash,
		Lines: []CreateTransactionLineRequest{
			{InventoryItemID: &missing, Quantity: 1, UnitPrice: 1.00},
		},
	})
	if !errors.Is(err, ErrInventoryItemNotFound) {
		t.Fatalf("expected item not found, got %v", err)
	}
}

func TestCreateTransactionOtherTenantsItem(t *testing.T) {
	inv, _, svc := setupTransactionService(t)
	itemA := addItem(inv, 2, "Paracetamol", 10, 10.00)

	_, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: PaymentMethodCash,
		Lines: []CreateTransactionLineRequest{
			{InventoryItemID: &itemA, Quantity: 1, UnitPrice: 10.00},
		},
	})
	if !errors.Is(err, ErrInventoryItemNotFound) {
		t.Fatalf("expected item not found for foreign tenant, got %v", err)
	}

	a, _ := inv.GetItemByID(nil, itemA)
	if a.Quantity != 10 {
		t.Fatalf("foreign tenant stock changed: %d", a.Quantity)
	}
}

func TestCreateTransactionInvalidPaymentMethod(t *testing.T) {
	_, _, svc := setupTransactionService(t)

	_, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: "barter",
		Lines: []CreateTransactionLineRequest{
			{ItemName: "Gauze", Quantity: 1, UnitPrice: 1.00},
		},
	})
	if !errors.Is(err, ErrInvalidPayment) {
		t.Fatalf("expected invalid payment error, got %v", err)
	}
}

func TestCreateTransactionNameSnapshotRules(t *testing.T) {
	inv, _, svc := setupTransactionService(t)
	itemA := addItem(inv, 1, "Paracetamol 500mg", 10, 10.00)

	txn, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "Jane Doe",
		PaymentMethod: PaymentMethodCash,
		Lines: []CreateTransactionLineRequest{
			// Explicit name wins over the live item name.
			{InventoryItemID: &itemA, ItemName: "Paracetamol (box)", Quantity: 2, UnitPrice: 10.00},
			// A name-only line does not touch stock.
			{ItemName: "Consultation", Quantity: 1, UnitPrice: 50.00},
		},
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if txn.Lines[0].ItemName != "Paracetamol (box)" {
		t.Fatalf("explicit name not kept: %q", txn.Lines[0].ItemName)
	}
	if txn.Lines[1].ItemName != "Consultation" || txn.Lines[1].InventoryItemID != nil {
		t.Fatalf("name-only line mishandled: %+v", txn.Lines[1])
	}

	a, _ := inv.GetItemByID(nil, itemA)
	if a.Quantity != 8 {
		t.Fatalf("expected stock 8, got %d", a.Quantity)
	}
}

func TestCreateTransactionLineNeedsItemOrName(t *testing.T) {
	_, _, svc := setupTransactionService(t)

	_, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: PaymentMethodCash,
		Lines: []CreateTransactionLineRequest{
			{Quantity: 1, UnitPrice: 1.00},
		},
	})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestGetTransactionByIDScopedToTenant(t *testing.T) {
	inv, _, svc := setupTransactionService(t)
	itemA := addItem(inv, 1, "Paracetamol", 10, 10.00)

	txn, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: PaymentMethodCash,
		Lines: []CreateTransactionLineRequest{
			{InventoryItemID: &itemA, Quantity: 1, UnitPrice: 10.00},
		},
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	if _, err := svc.GetTransactionByID(2, txn.ID); !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected not found for foreign tenant, got %v", err)
	}
	if _, err := svc.GetTransactionByID(1, txn.ID); err != nil {
		t.Fatalf("owner could not fetch transaction: %v", err)
	}
}

func TestDeletingItemPreservesLineSnapshot(t *testing.T) {
	inv, _, svc := setupTransactionService(t)
	itemA := addItem(inv, 1, "Paracetamol", 10, 10.00)

	txn, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: PaymentMethodCash,
		TotalAmount:   30.00,
		Lines: []CreateTransactionLineRequest{
			{InventoryItemID: &itemA, Quantity: 3, UnitPrice: 10.00},
		},
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	invSvc := NewInventoryService(inv, nil)
	if err := invSvc.DeleteItem(1, itemA); err != nil {
		t.Fatalf("delete item: %v", err)
	}

	// The sale record survives the item's deletion: only the reference is
	// nulled, the snapshotted name, quantity, and price stay intact.
	fetched, err := svc.GetTransactionByID(1, txn.ID)
	if err != nil {
		t.Fatalf("fetch transaction after item delete: %v", err)
	}
	if len(fetched.Lines) != 1 {
		t.Fatalf("expected 1 line, got %d", len(fetched.Lines))
	}
	line := fetched.Lines[0]
	if line.InventoryItemID != nil {
		t.Fatalf("line reference not nulled: %v", *line.InventoryItemID)
	}
	if line.ItemName != "Paracetamol" || line.Quantity != 3 || line.LineTotal != 30.00 {
		t.Fatalf("line snapshot corrupted: %+v", line)
	}
}

func TestCreateTransactionReadsAndWritesThroughTxExecutor(t *testing.T) {
	inv, _, svc := setupTransactionService(t)
	itemA := addItem(inv, 1, "Paracetamol", 10, 10.00)

	_, err := svc.CreateTransaction(1, CreateTransactionRequest{
		CustomerName:  "John Doe",
		PaymentMethod: PaymentMethodCash,
		Lines: []CreateTransactionLineRequest{
			{InventoryItemID: &itemA, Quantity: 1, UnitPrice: 10.00},
		},
	})
	if err != nil {
		t.Fatalf("create transaction: %v", err)
	}

	// One item lookup and one stock adjustment, both through the
	// transaction's executor.
	if len(inv.seenExecutors) != 2 {
		t.Fatalf("expected 2 inventory calls, got %d", len(inv.seenExecutors))
	}
	for i, executor := range inv.seenExecutors {
		if _, ok := executor.(fakeTxExecutor); !ok {
			t.Fatalf("inventory call %d bypassed the transaction executor: %T", i, executor)
		}
	}
}

func TestGetTransactionsRejectsBadDateFilter(t *testing.T) {
	_, _, svc := setupTransactionService(t)
	bad := "2026/01/01"

	_, err := svc.GetTransactions(models.TransactionFilters{HospitalID: 1, StartDate: &bad})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
