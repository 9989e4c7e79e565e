package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lamogo-pos/api/internal/database"
)

// Errors returned by the workflow engine.
var (
	ErrItemNotFound      = errors.New("order item not found")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// EventOrderUpdate is the event name dashboards subscribe to.
const EventOrderUpdate = "order_update"

// requiredPrior maps each target status to the only status an item may hold
// when transitioning into it. Anything else, including applying the same
// transition twice, is rejected, so notification events fire exactly once
// per transition.
var requiredPrior = map[database.OrderItemStatus]database.OrderItemStatus{
	database.OrderItemStatusCooking:   database.OrderItemStatusOpen,
	database.OrderItemStatusReady:     database.OrderItemStatusCooking,
	database.OrderItemStatusDelivered: database.OrderItemStatusReady,
}

// WorkflowStore defines the DB methods needed to advance order items.
// Satisfied by *database.Queries (and its WithTx variant).
type WorkflowStore interface {
	GetOrderItemDetail(ctx context.Context, id uuid.UUID) (database.OrderItemDetail, error)
	GetOrderForUpdate(ctx context.Context, id uuid.UUID) (database.Order, error)
	UpdateOrderItemStatus(ctx context.Context, arg database.UpdateOrderItemStatusParams) (database.OrderItem, error)
	CloseOrderIfAllDelivered(ctx context.Context, orderID uuid.UUID) (database.Order, error)
}

// NewWorkflowStore creates a WorkflowStore from a DBTX (pool or tx).
type NewWorkflowStore func(db database.DBTX) WorkflowStore

// TransitionResult describes one applied transition.
type TransitionResult struct {
	Item        database.OrderItem
	MenuName    string
	OrderStatus database.OrderStatus
	OrderClosed bool // true only on the delivery that closed the order
}

// WorkflowService is the state machine governing order item status and the
// derived order status. Items move open → cooking → ready → delivered; the
// order flips open → close exactly when the last item is delivered.
type WorkflowService struct {
	pool     TxBeginner
	newStore NewWorkflowStore
	notifier Notifier
}

// NewWorkflowService creates a new WorkflowService.
func NewWorkflowService(pool TxBeginner, newStore NewWorkflowStore, notifier Notifier) *WorkflowService {
	return &WorkflowService{pool: pool, newStore: newStore, notifier: notifier}
}

// orderUpdateEvent is the order_update payload. Optional fields are only
// present on the transitions that need them; consumers tolerate absence.
type orderUpdateEvent struct {
	ID          uuid.UUID  `json:"id"`
	OrderID     *uuid.UUID `json:"order_id,omitempty"`
	Status      string     `json:"status"`
	MenuName    string     `json:"menu_name,omitempty"`
	Quantity    int32      `json:"quantity,omitempty"`
	OrderStatus string     `json:"order_status,omitempty"`
}

// MarkCooking moves an item from open to cooking (kitchen begins preparation).
func (s *WorkflowService) MarkCooking(ctx context.Context, itemID uuid.UUID) (*TransitionResult, error) {
	res, err := s.advance(ctx, itemID, database.OrderItemStatusCooking)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(EventOrderUpdate, orderUpdateEvent{
		ID:     res.Item.ID,
		Status: string(res.Item.Status),
	})
	return res, nil
}

// MarkReady moves an item from cooking to ready (kitchen finishes). The event
// carries menu name and quantity so the waiter screen can render the row
// without a follow-up fetch.
func (s *WorkflowService) MarkReady(ctx context.Context, itemID uuid.UUID) (*TransitionResult, error) {
	res, err := s.advance(ctx, itemID, database.OrderItemStatusReady)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(EventOrderUpdate, orderUpdateEvent{
		ID:       res.Item.ID,
		OrderID:  &res.Item.OrderID,
		Status:   string(res.Item.Status),
		MenuName: res.MenuName,
		Quantity: res.Item.Quantity,
	})
	return res, nil
}

// MarkDelivered moves an item from ready to delivered (waiter hands it over)
// and, in the same transaction, closes the parent order once every sibling
// is delivered. Delivered is terminal.
func (s *WorkflowService) MarkDelivered(ctx context.Context, itemID uuid.UUID) (*TransitionResult, error) {
	res, err := s.advance(ctx, itemID, database.OrderItemStatusDelivered)
	if err != nil {
		return nil, err
	}

	s.notifier.Broadcast(EventOrderUpdate, orderUpdateEvent{
		ID:          res.Item.ID,
		OrderID:     &res.Item.OrderID,
		Status:      string(res.Item.Status),
		OrderStatus: string(res.OrderStatus),
	})
	return res, nil
}

// advance applies one transition inside a single transaction. The item write
// is guarded by the expected prior status, so of two racing requests exactly
// one succeeds and the loser gets ErrInvalidTransition. For deliveries the
// parent order row is locked first: sibling deliveries serialize per order,
// which makes the close-if-all-delivered recomputation see a consistent
// snapshot and fire at most once.
func (s *WorkflowService) advance(ctx context.Context, itemID uuid.UUID, next database.OrderItemStatus) (*TransitionResult, error) {
	required := requiredPrior[next]

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback(ctx) //nolint:errcheck

	store := s.newStore(tx)

	detail, err := store.GetOrderItemDetail(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrItemNotFound
		}
		return nil, fmt.Errorf("get order item: %w", err)
	}

	if next == database.OrderItemStatusDelivered {
		if _, err := store.GetOrderForUpdate(ctx, detail.OrderID); err != nil {
			return nil, fmt.Errorf("lock order: %w", err)
		}
	}

	item, err := store.UpdateOrderItemStatus(ctx, database.UpdateOrderItemStatusParams{
		ID:         itemID,
		Status:     next,
		FromStatus: required,
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("%w: cannot move item %s to %s from %s",
				ErrInvalidTransition, itemID, next, detail.Status)
		}
		return nil, fmt.Errorf("update item status: %w", err)
	}

	res := &TransitionResult{
		Item:        item,
		MenuName:    detail.MenuName,
		OrderStatus: database.OrderStatusOpen,
	}

	if next == database.OrderItemStatusDelivered {
		order, err := store.CloseOrderIfAllDelivered(ctx, item.OrderID)
		switch {
		case err == nil:
			res.OrderStatus = order.Status
			res.OrderClosed = true
		case errors.Is(err, pgx.ErrNoRows):
			// Siblings still in flight; order stays open.
		default:
			return nil, fmt.Errorf("close order: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit tx: %w", err)
	}

	return res, nil
}
