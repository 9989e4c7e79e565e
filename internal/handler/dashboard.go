package handler

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5/pgtype"
)

// DashboardStore provides the counters shown on the admin landing page.
type DashboardStore interface {
	CountOrders(ctx context.Context) (int64, error)
	CountUsers(ctx context.Context) (int64, error)
	CountMenuItems(ctx context.Context) (int64, error)
	SumOrderTotals(ctx context.Context) (pgtype.Numeric, error)
}

// DashboardHandler serves admin overview counters.
type DashboardHandler struct {
	store DashboardStore
}

func NewDashboardHandler(store DashboardStore) *DashboardHandler {
	return &DashboardHandler{store: store}
}

type dashboardResponse struct {
	TotalOrders    int64  `json:"total_orders"`
	TotalSales     string `json:"total_sales"`
	TotalUsers     int64  `json:"total_users"`
	TotalMenuItems int64  `json:"total_menu_items"`
}

func (h *DashboardHandler) Overview(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	orders, err := h.store.CountOrders(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	sales, err := h.store.SumOrderTotals(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	users, err := h.store.CountUsers(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	menuItems, err := h.store.CountMenuItems(ctx)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusOK, dashboardResponse{
		TotalOrders:    orders,
		TotalSales:     numericString(sales),
		TotalUsers:     users,
		TotalMenuItems: menuItems,
	})
}
