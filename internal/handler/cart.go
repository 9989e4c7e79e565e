package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/lamogo-pos/api/internal/cart"
	"github.com/lamogo-pos/api/internal/database"
	"github.com/lamogo-pos/api/internal/middleware"
	"github.com/shopspring/decimal"
)

// CartMenuStore resolves cart lines against the active catalog for display.
type CartMenuStore interface {
	GetMenuItemForOrder(ctx context.Context, id uuid.UUID) (database.MenuItem, error)
}

// CartHandler handles the cashier's working cart. The cart is held in memory
// per authenticated user; prices shown here are a live preview and are only
// fixed at checkout.
type CartHandler struct {
	carts *cart.Store
	menu  CartMenuStore
}

func NewCartHandler(carts *cart.Store, menu CartMenuStore) *CartHandler {
	return &CartHandler{carts: carts, menu: menu}
}

type addCartItemRequest struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	Quantity   int32     `json:"quantity"`
	Notes      string    `json:"notes"`
}

type updateCartItemRequest struct {
	Quantity int32 `json:"quantity"`
}

type cartLineResponse struct {
	MenuItemID uuid.UUID `json:"menu_item_id"`
	MenuName   string    `json:"menu_name"`
	Quantity   int32     `json:"quantity"`
	Price      string    `json:"price"`
	Subtotal   string    `json:"subtotal"`
	Notes      string    `json:"notes,omitempty"`
}

type cartResponse struct {
	Lines []cartLineResponse `json:"lines"`
	Total string             `json:"total"`
}

// View returns the cart resolved against the current catalog. Lines whose
// menu item has vanished since they were added are shown with zero price and
// an empty name; checkout will drop them.
func (h *CartHandler) View(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	c := h.carts.Get(claims.UserID)
	total := decimal.Zero
	lines := make([]cartLineResponse, 0, c.Len())

	for _, line := range c.Lines() {
		resp := cartLineResponse{
			MenuItemID: line.MenuItemID,
			Quantity:   line.Quantity,
			Notes:      line.Notes,
			Price:      "0.00",
			Subtotal:   "0.00",
		}

		item, err := h.menu.GetMenuItemForOrder(r.Context(), line.MenuItemID)
		if err == nil {
			price, _ := decimal.NewFromString(numericString(item.Price))
			subtotal := price.Mul(decimal.NewFromInt32(line.Quantity))
			total = total.Add(subtotal)

			resp.MenuName = item.Name
			resp.Price = price.StringFixed(2)
			resp.Subtotal = subtotal.StringFixed(2)
		} else if !errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}

		lines = append(lines, resp)
	}

	writeJSON(w, http.StatusOK, cartResponse{Lines: lines, Total: total.StringFixed(2)})
}

// AddItem adds a menu item to the cart, merging quantities for repeats. The
// item must exist and be active at the time of adding.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	var req addCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.MenuItemID == uuid.Nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "menu_item_id is required"})
		return
	}
	if req.Quantity <= 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must be greater than zero"})
		return
	}

	if _, err := h.menu.GetMenuItemForOrder(r.Context(), req.MenuItemID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			writeJSON(w, http.StatusNotFound, map[string]string{"error": "menu item not found"})
			return
		}
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	h.carts.Add(claims.UserID, cart.Line{
		MenuItemID: req.MenuItemID,
		Quantity:   req.Quantity,
		Notes:      req.Notes,
	})

	h.View(w, r)
}

// UpdateItem overwrites the quantity of a cart line. Zero removes it.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	menuItemID, err := uuid.Parse(chi.URLParam(r, "menuItemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	var req updateCartItemRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}
	if req.Quantity < 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "quantity must not be negative"})
		return
	}

	h.carts.SetQuantity(claims.UserID, menuItemID, req.Quantity)
	h.View(w, r)
}

// RemoveItem drops a line from the cart.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	claims := middleware.ClaimsFromContext(r.Context())

	menuItemID, err := uuid.Parse(chi.URLParam(r, "menuItemID"))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid menu item ID"})
		return
	}

	h.carts.Remove(claims.UserID, menuItemID)
	h.View(w, r)
}
