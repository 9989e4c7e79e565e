package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lamogo-pos/api/internal/cart"
	"github.com/lamogo-pos/api/internal/database"
	"github.com/lamogo-pos/api/internal/enum"
	"github.com/shopspring/decimal"
)

// Errors returned by the order service.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidQuantity      = errors.New("quantity must be > 0")
	ErrInvalidPaymentMethod = errors.New("invalid payment_method")
	ErrInvalidAmountPaid    = errors.New("invalid amount_paid")
	ErrInvalidChangeDue     = errors.New("invalid change_due")
)

// TxBeginner starts a new database transaction.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// OrderStore defines the DB methods needed to check out a cart.
// Satisfied by *database.Queries (and its WithTx variant).
type OrderStore interface {
	GetMenuItemForOrder(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
	CreateOrder(ctx context.Context, arg database.CreateOrderParams) (database.Order, error)
	CreateOrderItem(ctx context.Context, arg database.CreateOrderItemParams) (database.OrderItem, error)
}

// NewOrderStore creates an OrderStore from a DBTX (pool or tx).
type NewOrderStore func(db database.DBTX) OrderStore

// ReceiptLine is one priced line of a customer receipt.
type ReceiptLine struct {
	Name     string
	Quantity int32
	Subtotal decimal.Decimal
}

// Notifier pushes updates out of the core: live events to dashboard screens
// and a receipt message to the customer's phone. Both are best-effort; the
// business transaction has already committed by the time either is called.
type Notifier interface {
	Broadcast(event string, payload interface{})
	SendReceipt(ctx context.Context, order database.Order, lines []ReceiptLine) error
}

// CheckoutRequest is the validated input for converting a cart into an order.
// The cart is passed explicitly; the service never reads ambient session state.
type CheckoutRequest struct {
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	AmountPaid    string // optional, cash only
	ChangeDue     string // optional, cash only
	CreatedBy     uuid.UUID
	Lines         []cart.Line
}

// CheckoutResult is the created order with its items.
type CheckoutResult struct {
	Order   database.Order
	Items   []database.OrderItem
	Skipped int // cart lines whose menu item vanished before checkout
}

// OrderService owns the checkout algorithm.
type OrderService struct {
	pool     TxBeginner
	newStore NewOrderStore
	notifier Notifier
}

// NewOrderService creates a new OrderService.
func NewOrderService(pool TxBeginner, newStore NewOrderStore, notifier Notifier) *OrderService {
	return &OrderService{pool: pool, newStore: newStore, notifier: notifier}
}

// processedLine holds a priced cart line ready to insert.
type processedLine struct {
	menuItemID uuid.UUID
	menuName   string
	quantity   int32
	price      decimal.Decimal
	subtotal   decimal.Decimal
	notes      string
}

// Checkout converts a cart into a persisted order atomically: either the
// order and every resolvable item land together, or nothing does. Prices are
// snapshotted from the catalog at this moment and never recomputed. Lines
// referencing a deleted or deactivated menu item are skipped, not fatal;
// a stale cart can legitimately produce a zero-item order with total 0.
func (s *OrderService) Checkout(ctx context.Context, req CheckoutRequest) (*CheckoutResult, error) {
	if len(req.Lines) == 0 {
		return nil, ErrEmptyCart
	}
	if !isValidPaymentMethod(req.PaymentMethod) {
		return nil, ErrInvalidPaymentMethod
	}
	for i, line := range req.Lines {
		if line.Quantity <= 0 {
			return nil, fmt.Errorf("line[%d]: %w", i, ErrInvalidQuantity)
		}
	}

	amountPaid := pgtype.Numeric{}
	if req.AmountPaid != "" {
		d, err := decimal.NewFromString(req.AmountPaid)
		if err != nil || d.IsNegative() {
			return nil, ErrInvalidAmountPaid
		}
		amountPaid = decimalToNumeric(d)
	}
	changeDue := pgtype.Numeric{}
	if req.ChangeDue != "" {
		d, err := decimal.NewFromString(req.ChangeDue)
		if err != nil || d.IsNegative() {
			return nil, ErrInvalidChangeDue
		}
		changeDue = decimalToNumeric(d)
	}

	// --- Begin transaction ---
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	// --- Resolve lines against the catalog, snapshot prices ---
	total := decimal.Zero
	var lines []processedLine
	skipped := 0

	for _, line := range req.Lines {
		item, err := store.GetMenuItemForOrder(ctx, line.MenuItemID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				log.Printf("WARN: checkout: skipping vanished menu item %s", line.MenuItemID)
				skipped++
				continue
			}
			return nil, fmt.Errorf("get menu item: %w", err)
		}

		price := numericToDecimal(item.Price)
		subtotal := price.Mul(decimal.NewFromInt32(line.Quantity))
		total = total.Add(subtotal)

		lines = append(lines, processedLine{
			menuItemID: item.ID,
			menuName:   item.Name,
			quantity:   line.Quantity,
			price:      price,
			subtotal:   subtotal,
			notes:      line.Notes,
		})
	}

	// --- Insert order ---
	order, err := store.CreateOrder(ctx, database.CreateOrderParams{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    amountPaid,
		ChangeDue:     changeDue,
		Total:         decimalToNumeric(total),
		CreatedBy:     req.CreatedBy,
	})
	if err != nil {
		return nil, fmt.Errorf("create order: %w", err)
	}

	// --- Insert items ---
	var items []database.OrderItem
	receiptLines := make([]ReceiptLine, 0, len(lines))
	for _, pl := range lines {
		notes := pgtype.Text{}
		if pl.notes != "" {
			notes = pgtype.Text{String: pl.notes, Valid: true}
		}
		item, err := store.CreateOrderItem(ctx, database.CreateOrderItemParams{
			OrderID:    order.ID,
			MenuItemID: pl.menuItemID,
			Quantity:   pl.quantity,
			Price:      decimalToNumeric(pl.price),
			Notes:      notes,
		})
		if err != nil {
			return nil, fmt.Errorf("create order item: %w", err)
		}
		items = append(items, item)
		receiptLines = append(receiptLines, ReceiptLine{
			Name:     pl.menuName,
			Quantity: pl.quantity,
			Subtotal: pl.subtotal,
		})
	}

	// --- Commit ---
	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	// Receipt delivery is best-effort: the order is already committed, so a
	// gateway failure is logged and swallowed, never returned to the cashier.
	// The send is detached from request cancellation; a client hanging up
	// right after checkout must not abort the receipt, only the gateway
	// client's own timeout does.
	if err := s.notifier.SendReceipt(context.WithoutCancel(ctx), order, receiptLines); err != nil {
		log.Printf("WARN: send receipt for order %s: %v", order.ID, err)
	}

	return &CheckoutResult{
		Order:   order,
		Items:   items,
		Skipped: skipped,
	}, nil
}

// --- Helpers ---

func isValidPaymentMethod(s string) bool {
	switch s {
	case enum.PaymentMethodCash, enum.PaymentMethodQRIS, enum.PaymentMethodTransfer:
		return true
	}
	return false
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}

func decimalToNumeric(d decimal.Decimal) pgtype.Numeric {
	var n pgtype.Numeric
	_ = n.Scan(d.StringFixed(2))
	return n
}
