package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lamogo-pos/api/internal/database"
	"github.com/lamogo-pos/api/internal/service"
)

// WorkQueueStore lists order items by status for the kitchen and waiter
// dashboards.
type WorkQueueStore interface {
	ListOrderItemDetailsByStatus(ctx context.Context, statuses []string) ([]database.OrderItemDetail, error)
}

// WorkflowService advances order items through their lifecycle.
// Satisfied by *service.WorkflowService; narrow interface for testability.
type WorkflowService interface {
	MarkCooking(ctx context.Context, itemID uuid.UUID) (*service.TransitionResult, error)
	MarkReady(ctx context.Context, itemID uuid.UUID) (*service.TransitionResult, error)
	MarkDelivered(ctx context.Context, itemID uuid.UUID) (*service.TransitionResult, error)
}

// KitchenHandler serves the kitchen dashboard: the queue of items to cook
// and the transitions the kitchen performs on them.
type KitchenHandler struct {
	store    WorkQueueStore
	workflow WorkflowService
}

func NewKitchenHandler(store WorkQueueStore, workflow WorkflowService) *KitchenHandler {
	return &KitchenHandler{store: store, workflow: workflow}
}

type transitionResponse struct {
	Item        orderItemResponse `json:"item"`
	OrderStatus string            `json:"order_status,omitempty"`
}

// Queue returns every item waiting on the kitchen: not yet started plus
// currently cooking. Oldest first, so the kitchen works in arrival order.
func (h *KitchenHandler) Queue(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListOrderItemDetailsByStatus(r.Context(), []string{
		string(database.OrderItemStatusOpen),
		string(database.OrderItemStatusCooking),
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toOrderItemDetailResponses(items))
}

// StartCooking moves an item from open to cooking.
func (h *KitchenHandler) StartCooking(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	res, err := h.workflow.MarkCooking(r.Context(), itemID)
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{Item: toOrderItemResponse(res.Item)})
}

// MarkReady moves an item from cooking to ready for pickup.
func (h *KitchenHandler) MarkReady(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	res, err := h.workflow.MarkReady(r.Context(), itemID)
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	item := toOrderItemResponse(res.Item)
	item.MenuName = res.MenuName
	writeJSON(w, http.StatusOK, transitionResponse{Item: item})
}

// writeTransitionError maps workflow errors onto HTTP statuses. A losing
// racer gets 409 so the client knows the item moved underneath it.
func writeTransitionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrItemNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "order item not found"})
	case errors.Is(err, service.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, map[string]string{"error": err.Error()})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
	}
}
