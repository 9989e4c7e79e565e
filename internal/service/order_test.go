package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lamogo-pos/api/internal/cart"
	"github.com/lamogo-pos/api/internal/database"
	"github.com/shopspring/decimal"
)

// --- Mock implementations ---

// mockTx implements pgx.Tx with only the methods we need.
// The unused methods panic so we catch accidental calls. Commit is
// mutex-guarded so concurrent transition tests can share one instance.
type mockTx struct {
	mu          sync.Mutex
	commitErr   error
	rollbackErr error
	committed   bool
}

func (m *mockTx) Begin(ctx context.Context) (pgx.Tx, error) { panic("not implemented") }
func (m *mockTx) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.commitErr == nil {
		m.committed = true
	}
	return m.commitErr
}
func (m *mockTx) Rollback(ctx context.Context) error { return m.rollbackErr }
func (m *mockTx) CopyFrom(ctx context.Context, tableName pgx.Identifier, columnNames []string, rowSrc pgx.CopyFromSource) (int64, error) {
	panic("not implemented")
}
func (m *mockTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	panic("not implemented")
}
func (m *mockTx) LargeObjects() pgx.LargeObjects { panic("not implemented") }
func (m *mockTx) Prepare(ctx context.Context, name, sql string) (*pgconn.StatementDescription, error) {
	panic("not implemented")
}
func (m *mockTx) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	panic("not implemented")
}
func (m *mockTx) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	panic("not implemented")
}
func (m *mockTx) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	panic("not implemented")
}
func (m *mockTx) Conn() *pgx.Conn { panic("not implemented") }

// mockTxBeginner implements TxBeginner.
type mockTxBeginner struct {
	tx  pgx.Tx
	err error
}

func (m *mockTxBeginner) Begin(ctx context.Context) (pgx.Tx, error) {
	return m.tx, m.err
}

// mockOrderStore implements OrderStore with configurable behavior.
type mockOrderStore struct {
	getMenuItemForOrderFn func(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	createOrderFn         func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	createOrderItemFn     func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

func (m *mockOrderStore) GetMenuItemForOrder(ctx context.Context, id uuid.UUID) (database.MenuItem, error) {
	return m.getMenuItemForOrderFn(ctx, id)
}
func (m *mockOrderStore) CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
	return m.createOrderFn(ctx, arg)
}
func (m *mockOrderStore) CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
	return m.createOrderItemFn(ctx, arg)
}

// mockNotifier records broadcasts and receipts. Guarded by a mutex so
// concurrent transition tests can share one instance.
type mockNotifier struct {
	mu         sync.Mutex
	broadcasts []string
	receipts   [][]ReceiptLine
	receiptCtx context.Context
	receiptErr error
}

func (m *mockNotifier) Broadcast(event string, payload interface{}) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.broadcasts = append(m.broadcasts, event)
}
func (m *mockNotifier) SendReceipt(ctx context.Context, order database.Order, lines []ReceiptLine) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.receiptCtx = ctx
	m.receipts = append(m.receipts, lines)
	return m.receiptErr
}

// --- Test helpers ---

func makeNumeric(val string) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(val)
	return n
}

func numericEquals(n pgtype.Numeric, expected string) bool {
	d := numericToDecimal(n)
	exp, _ := decimal.NewFromString(expected)
	return d.Equal(exp)
}

func newTestOrderService(store *mockOrderStore, notifier *mockNotifier) (*OrderService, *mockTx) {
	tx := &mockTx{}
	pool := &mockTxBeginner{tx: tx}
	newStore := func(db database.DBTX) OrderStore { return store }
	return NewOrderService(pool, newStore, notifier), tx
}

// catalogStore returns a mockOrderStore backed by a fixed price table.
// Unknown IDs behave like deactivated items.
func catalogStore(prices map[uuid.UUID]string) *mockOrderStore {
	return &mockOrderStore{
		getMenuItemForOrderFn: func(ctx context.Context, id uuid.UUID) (database.MenuItem, error) {
			price, ok := prices[id]
			if !ok {
				return database.MenuItem{}, pgx.ErrNoRows
			}
			return database.MenuItem{
				ID:       id,
				Name:     "Nasi Goreng Lamogo",
				Price:    makeNumeric(price),
				IsActive: true,
			}, nil
		},
		createOrderFn: func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
			return database.Order{
				ID:            uuid.New(),
				CustomerName:  arg.CustomerName,
				CustomerPhone: arg.CustomerPhone,
				PaymentMethod: arg.PaymentMethod,
				AmountPaid:    arg.AmountPaid,
				ChangeDue:     arg.ChangeDue,
				Total:         arg.Total,
				Status:        database.OrderStatusOpen,
				CreatedBy:     arg.CreatedBy,
			}, nil
		},
		createOrderItemFn: func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
			return database.OrderItem{
				ID:         uuid.New(),
				OrderID:    arg.OrderID,
				MenuItemID: arg.MenuItemID,
				Quantity:   arg.Quantity,
				Price:      arg.Price,
				Status:     database.OrderItemStatusOpen,
				Notes:      arg.Notes,
			}, nil
		},
	}
}

func basicReq(lines ...cart.Line) CheckoutRequest {
	return CheckoutRequest{
		CustomerName:  "Budi",
		CustomerPhone: "081234567890",
		PaymentMethod: "cash",
		CreatedBy:     uuid.New(),
		Lines:         lines,
	}
}

// =====================
// Validation tests
// =====================

func TestCheckout_EmptyCart(t *testing.T) {
	svc, _ := newTestOrderService(catalogStore(nil), &mockNotifier{})

	_, err := svc.Checkout(context.Background(), basicReq())
	if !errors.Is(err, ErrEmptyCart) {
		t.Fatalf("expected ErrEmptyCart, got: %v", err)
	}
}

func TestCheckout_InvalidQuantity(t *testing.T) {
	svc, _ := newTestOrderService(catalogStore(nil), &mockNotifier{})

	_, err := svc.Checkout(context.Background(), basicReq(cart.Line{MenuItemID: uuid.New(), Quantity: 0}))
	if !errors.Is(err, ErrInvalidQuantity) {
		t.Fatalf("expected ErrInvalidQuantity, got: %v", err)
	}
}

func TestCheckout_InvalidPaymentMethod(t *testing.T) {
	svc, _ := newTestOrderService(catalogStore(nil), &mockNotifier{})

	req := basicReq(cart.Line{MenuItemID: uuid.New(), Quantity: 1})
	req.PaymentMethod = "barter"

	_, err := svc.Checkout(context.Background(), req)
	if !errors.Is(err, ErrInvalidPaymentMethod) {
		t.Fatalf("expected ErrInvalidPaymentMethod, got: %v", err)
	}
}

func TestCheckout_InvalidAmountPaid(t *testing.T) {
	svc, _ := newTestOrderService(catalogStore(nil), &mockNotifier{})

	req := basicReq(cart.Line{MenuItemID: uuid.New(), Quantity: 1})
	req.AmountPaid = "not-a-number"

	_, err := svc.Checkout(context.Background(), req)
	if !errors.Is(err, ErrInvalidAmountPaid) {
		t.Fatalf("expected ErrInvalidAmountPaid, got: %v", err)
	}
}

// =====================
// Totals and snapshots
// =====================

func TestCheckout_ComputesTotal(t *testing.T) {
	nasiGoreng := uuid.New()
	esTeh := uuid.New()
	store := catalogStore(map[uuid.UUID]string{
		nasiGoreng: "25000.00",
		esTeh:      "5000.00",
	})

	var createdTotal pgtype.Numeric
	inner := store.createOrderFn
	store.createOrderFn = func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
		createdTotal = arg.Total
		return inner(ctx, arg)
	}

	svc, tx := newTestOrderService(store, &mockNotifier{})

	result, err := svc.Checkout(context.Background(), basicReq(
		cart.Line{MenuItemID: nasiGoreng, Quantity: 2},
		cart.Line{MenuItemID: esTeh, Quantity: 1},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 25000 * 2 + 5000 * 1
	if !numericEquals(createdTotal, "55000") {
		t.Errorf("expected total 55000, got %v", numericToDecimal(createdTotal))
	}
	if len(result.Items) != 2 {
		t.Errorf("expected 2 items, got %d", len(result.Items))
	}
	if result.Skipped != 0 {
		t.Errorf("expected no skipped lines, got %d", result.Skipped)
	}
	if !tx.committed {
		t.Error("expected transaction to commit")
	}
}

func TestCheckout_SnapshotsPrice(t *testing.T) {
	itemID := uuid.New()
	store := catalogStore(map[uuid.UUID]string{itemID: "28000.00"})

	var itemPrice pgtype.Numeric
	inner := store.createOrderItemFn
	store.createOrderItemFn = func(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error) {
		itemPrice = arg.Price
		return inner(ctx, arg)
	}

	svc, _ := newTestOrderService(store, &mockNotifier{})

	_, err := svc.Checkout(context.Background(), basicReq(cart.Line{MenuItemID: itemID, Quantity: 3}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !numericEquals(itemPrice, "28000") {
		t.Errorf("expected item price snapshot 28000, got %v", numericToDecimal(itemPrice))
	}
}

// =====================
// Vanished menu items
// =====================

func TestCheckout_SkipsVanishedItems(t *testing.T) {
	known := uuid.New()
	vanished := uuid.New()
	store := catalogStore(map[uuid.UUID]string{known: "10000.00"})

	var createdTotal pgtype.Numeric
	inner := store.createOrderFn
	store.createOrderFn = func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
		createdTotal = arg.Total
		return inner(ctx, arg)
	}

	svc, _ := newTestOrderService(store, &mockNotifier{})

	result, err := svc.Checkout(context.Background(), basicReq(
		cart.Line{MenuItemID: known, Quantity: 1},
		cart.Line{MenuItemID: vanished, Quantity: 2},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Skipped != 1 {
		t.Errorf("expected 1 skipped line, got %d", result.Skipped)
	}
	if len(result.Items) != 1 {
		t.Errorf("expected 1 item, got %d", len(result.Items))
	}
	if !numericEquals(createdTotal, "10000") {
		t.Errorf("expected total 10000, got %v", numericToDecimal(createdTotal))
	}
}

func TestCheckout_AllItemsVanished(t *testing.T) {
	store := catalogStore(nil)

	var createdTotal pgtype.Numeric
	inner := store.createOrderFn
	store.createOrderFn = func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
		createdTotal = arg.Total
		return inner(ctx, arg)
	}

	svc, tx := newTestOrderService(store, &mockNotifier{})

	// Every line is stale. The order is still created, with zero items and
	// total zero.
	result, err := svc.Checkout(context.Background(), basicReq(
		cart.Line{MenuItemID: uuid.New(), Quantity: 1},
		cart.Line{MenuItemID: uuid.New(), Quantity: 2},
	))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Skipped != 2 {
		t.Errorf("expected 2 skipped lines, got %d", result.Skipped)
	}
	if len(result.Items) != 0 {
		t.Errorf("expected no items, got %d", len(result.Items))
	}
	if !numericEquals(createdTotal, "0") {
		t.Errorf("expected total 0, got %v", numericToDecimal(createdTotal))
	}
	if !tx.committed {
		t.Error("expected transaction to commit")
	}
}

// =====================
// Failure propagation
// =====================

func TestCheckout_CreateOrderFails(t *testing.T) {
	itemID := uuid.New()
	store := catalogStore(map[uuid.UUID]string{itemID: "25000.00"})
	store.createOrderFn = func(ctx context.Context, arg database.CreateOrderParams) (database.Order, error) {
		return database.Order{}, errors.New("connection reset")
	}

	svc, tx := newTestOrderService(store, &mockNotifier{})

	_, err := svc.Checkout(context.Background(), basicReq(cart.Line{MenuItemID: itemID, Quantity: 1}))
	if err == nil {
		t.Fatal("expected error, got nil")
	}
	if tx.committed {
		t.Error("transaction must not commit after insert failure")
	}
}

func TestCheckout_ReceiptFailureIsSwallowed(t *testing.T) {
	itemID := uuid.New()
	store := catalogStore(map[uuid.UUID]string{itemID: "25000.00"})
	notifier := &mockNotifier{receiptErr: errors.New("gateway timeout")}

	svc, _ := newTestOrderService(store, notifier)

	result, err := svc.Checkout(context.Background(), basicReq(cart.Line{MenuItemID: itemID, Quantity: 2}))
	if err != nil {
		t.Fatalf("checkout must succeed even when the receipt fails, got: %v", err)
	}
	if result == nil {
		t.Fatal("expected a result")
	}
	if len(notifier.receipts) != 1 {
		t.Fatalf("expected 1 receipt attempt, got %d", len(notifier.receipts))
	}

	lines := notifier.receipts[0]
	if len(lines) != 1 {
		t.Fatalf("expected 1 receipt line, got %d", len(lines))
	}
	if !lines[0].Subtotal.Equal(decimal.NewFromInt(50000)) {
		t.Errorf("expected receipt subtotal 50000, got %v", lines[0].Subtotal)
	}
}

// The order is committed before the receipt goes out, so a client that hangs
// up right after checkout must not cancel the send mid-flight.
func TestCheckout_ReceiptSurvivesRequestCancellation(t *testing.T) {
	itemID := uuid.New()
	store := catalogStore(map[uuid.UUID]string{itemID: "25000.00"})
	notifier := &mockNotifier{}

	svc, _ := newTestOrderService(store, notifier)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := svc.Checkout(ctx, basicReq(cart.Line{MenuItemID: itemID, Quantity: 1})); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(notifier.receipts) != 1 {
		t.Fatalf("expected 1 receipt attempt, got %d", len(notifier.receipts))
	}
	if err := notifier.receiptCtx.Err(); err != nil {
		t.Errorf("receipt context must outlive the request, got: %v", err)
	}
}
