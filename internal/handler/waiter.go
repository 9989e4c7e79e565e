package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lamogo-pos/api/internal/database"
)

// WaiterHandler serves the waiter dashboard: items ready for pickup and the
// delivery transition that may close the parent order.
type WaiterHandler struct {
	store    WorkQueueStore
	workflow WorkflowService
}

func NewWaiterHandler(store WorkQueueStore, workflow WorkflowService) *WaiterHandler {
	return &WaiterHandler{store: store, workflow: workflow}
}

// Queue returns every item ready for pickup, oldest first.
func (h *WaiterHandler) Queue(w http.ResponseWriter, r *http.Request) {
	items, err := h.store.ListOrderItemDetailsByStatus(r.Context(), []string{
		string(database.OrderItemStatusReady),
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, toOrderItemDetailResponses(items))
}

// Deliver moves an item from ready to delivered. If this was the last
// undelivered item of its order, the order closes in the same transaction
// and the response reports the closed status.
func (h *WaiterHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	itemID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid item ID"})
		return
	}

	res, err := h.workflow.MarkDelivered(r.Context(), itemID)
	if err != nil {
		writeTransitionError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, transitionResponse{
		Item:        toOrderItemResponse(res.Item),
		OrderStatus: string(res.OrderStatus),
	})
}
