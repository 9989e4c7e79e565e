package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lamogo-pos/api/internal/database"
)

// JSON shapes shared across handlers. Money is serialized as a fixed
// two-decimal string so clients never round it.

type menuItemResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Price       string    `json:"price"`
	ImageURL    string    `json:"image_url,omitempty"`
	IsActive    bool      `json:"is_active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type orderResponse struct {
	ID            uuid.UUID `json:"id"`
	CustomerName  string    `json:"customer_name"`
	CustomerPhone string    `json:"customer_phone,omitempty"`
	PaymentMethod string    `json:"payment_method"`
	AmountPaid    string    `json:"amount_paid,omitempty"`
	ChangeDue     string    `json:"change_due,omitempty"`
	Total         string    `json:"total"`
	Status        string    `json:"status"`
	CreatedBy     uuid.UUID `json:"created_by"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type orderItemResponse struct {
	ID         uuid.UUID `json:"id"`
	OrderID    uuid.UUID `json:"order_id"`
	MenuItemID uuid.UUID `json:"menu_item_id"`
	MenuName   string    `json:"menu_name,omitempty"`
	Quantity   int32     `json:"quantity"`
	Price      string    `json:"price"`
	Status     string    `json:"status"`
	Notes      string    `json:"notes,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

func toMenuItemResponse(m database.MenuItem) menuItemResponse {
	return menuItemResponse{
		ID:          m.ID,
		Name:        m.Name,
		Description: m.Description.String,
		Price:       numericString(m.Price),
		ImageURL:    m.ImageUrl.String,
		IsActive:    m.IsActive,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toMenuItemResponses(items []database.MenuItem) []menuItemResponse {
	out := make([]menuItemResponse, 0, len(items))
	for _, m := range items {
		out = append(out, toMenuItemResponse(m))
	}
	return out
}

func toOrderResponse(o database.Order) orderResponse {
	resp := orderResponse{
		ID:            o.ID,
		CustomerName:  o.CustomerName,
		CustomerPhone: o.CustomerPhone,
		PaymentMethod: o.PaymentMethod,
		Total:         numericString(o.Total),
		Status:        string(o.Status),
		CreatedBy:     o.CreatedBy,
		CreatedAt:     o.CreatedAt,
		UpdatedAt:     o.UpdatedAt,
	}
	if o.AmountPaid.Valid {
		resp.AmountPaid = numericString(o.AmountPaid)
	}
	if o.ChangeDue.Valid {
		resp.ChangeDue = numericString(o.ChangeDue)
	}
	return resp
}

func toOrderItemResponse(oi database.OrderItem) orderItemResponse {
	return orderItemResponse{
		ID:         oi.ID,
		OrderID:    oi.OrderID,
		MenuItemID: oi.MenuItemID,
		Quantity:   oi.Quantity,
		Price:      numericString(oi.Price),
		Status:     string(oi.Status),
		Notes:      oi.Notes.String,
		CreatedAt:  oi.CreatedAt,
	}
}

func toOrderItemDetailResponse(d database.OrderItemDetail) orderItemResponse {
	return orderItemResponse{
		ID:         d.ID,
		OrderID:    d.OrderID,
		MenuItemID: d.MenuItemID,
		MenuName:   d.MenuName,
		Quantity:   d.Quantity,
		Price:      numericString(d.Price),
		Status:     string(d.Status),
		Notes:      d.Notes.String,
		CreatedAt:  d.CreatedAt,
	}
}

func toOrderItemDetailResponses(items []database.OrderItemDetail) []orderItemResponse {
	out := make([]orderItemResponse, 0, len(items))
	for _, d := range items {
		out = append(out, toOrderItemDetailResponse(d))
	}
	return out
}

func numericString(n pgtype.Numeric) string {
	if !n.Valid {
		return "0.00"
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return "0.00"
	}
	s, ok := val.(string)
	if !ok {
		return "0.00"
	}
	return s
}
