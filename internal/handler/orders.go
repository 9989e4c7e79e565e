package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lamogo-pos/api/internal/cart"
	"github.com/lamogo-pos/api/internal/database"
	"github.com/lamogo-pos/api/internal/middleware"
	"github.com/lamogo-pos/api/internal/service"
)

const defaultOrderPageSize = 50

// OrderReadStore defines the read queries behind the order list and detail
// endpoints. Writes go through the checkout service.
type OrderReadStore interface {
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
	ListOrders(ctx context.Context, arg database.ListOrdersParams) ([]database.Order, error)
	ListOrderItemDetailsByOrder(ctx context.Context, orderID uuid.UUID) ([]database.OrderItemDetail, error)
}

// CheckoutService converts a cart into a persisted order.
// Satisfied by *service.OrderService; narrow interface for testability.
type CheckoutService interface {
	Checkout(ctx context.Context, req service.CheckoutRequest) (*service.CheckoutResult, error)
}

// OrderHandler handles checkout and order history endpoints.
type OrderHandler struct {
	orders CheckoutService
	carts  *cart.Store
	store  OrderReadStore
}

func NewOrderHandler(orders CheckoutService, carts *cart.Store, store OrderReadStore) *OrderHandler {
	return &OrderHandler{orders: orders, carts: carts, store: store}
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name"`
	CustomerPhone string `json:"customer_phone"`
	PaymentMethod string `json:"payment_method"`
	AmountPaid    string `json:"amount_paid"`
	ChangeDue     string `json:"change_due"`
}

type checkoutResponse struct {
	Order   orderResponse       `json:"order"`
	Items   []orderItemResponse `json:"items"`
	Skipped int                 `json:"skipped_lines,omitempty"`
}

type orderDetailResponse struct {
	Order orderResponse       `json:"order"`
	Items []orderItemResponse `json:"items"`
}

// Checkout converts the cashier's cart into a persisted order. The cart is
// cleared only after the order has committed, so a failed checkout leaves
// the cart intact for a retry.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req checkoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.CustomerName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer_name is required"})
		return
	}

	c := h.carts.Get(claims.UserID)

	result, err := h.orders.Checkout(r.Context(), service.CheckoutRequest{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		PaymentMethod: req.PaymentMethod,
		AmountPaid:    req.AmountPaid,
		ChangeDue:     req.ChangeDue,
		CreatedBy:     claims.UserID,
		Lines:         c.Lines(),
	})
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmptyCart),
			errors.Is(err, service.ErrInvalidQuantity),
			errors.Is(err, service.ErrInvalidPaymentMethod),
			errors.Is(err, service.ErrInvalidAmountPaid),
			errors.Is(err, service.ErrInvalidChangeDue):
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
		default:
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		}
		return
	}

	h.carts.Clear(claims.UserID)

	items := make([]orderItemResponse, 0, len(result.Items))
	for _, item := range result.Items {
		items = append(items, toOrderItemResponse(item))
	}

	writeJSON(w, http.StatusCreated, checkoutResponse{
		Order:   toOrderResponse(result.Order),
		Items:   items,
		Skipped: result.Skipped,
	})
}

// List returns orders newest first, paginated by limit and offset.
func (h *OrderHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int32(defaultOrderPageSize)
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n <= 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid limit"})
			return
		}
		limit = int32(n)
	}

	offset := int32(0)
	if s := r.URL.Query().Get("offset"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil || n < 0 {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid offset"})
			return
		}
		offset = int32(n)
	}

	orders, err := h.store.ListOrders(r.Context(), database.ListOrdersParams{Limit: limit, Offset: offset})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	out := make([]orderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, toOrderResponse(o))
	}
	writeJSON(w, http.StatusOK, out)
}

// Get returns one order with its items, menu names included.
func (h *OrderHandler) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order ID"})
		return
	}

	order, err := h.store.GetOrder(r.Context(), id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	items, err := h.store.ListOrderItemDetailsByOrder(r.Context(), id)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, orderDetailResponse{
		Order: toOrderResponse(order),
		Items: toOrderItemDetailResponses(items),
	})
}
