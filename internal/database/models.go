package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lamogo-pos/api/internal/enum"
)

// Status strings live in internal/enum; these typed constants keep the DB
// layer and the enum package on the same literals.

type OrderStatus string

const (
	OrderStatusOpen  OrderStatus = enum.OrderStatusOpen
	OrderStatusClose OrderStatus = enum.OrderStatusClose
)

type OrderItemStatus string

const (
	OrderItemStatusOpen      OrderItemStatus = enum.OrderItemStatusOpen
	OrderItemStatusCooking   OrderItemStatus = enum.OrderItemStatusCooking
	OrderItemStatusReady     OrderItemStatus = enum.OrderItemStatusReady
	OrderItemStatusDelivered OrderItemStatus = enum.OrderItemStatusDelivered
)

type User struct {
	ID             uuid.UUID
	Name           string
	Email          string
	HashedPassword string
	Role           string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type MenuItem struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageUrl    pgtype.Text
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type Order struct {
	ID            uuid.UUID
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	AmountPaid    pgtype.Numeric
	ChangeDue     pgtype.Numeric
	Total         pgtype.Numeric
	Status        OrderStatus
	CreatedBy     uuid.UUID
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

type OrderItem struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	Price      pgtype.Numeric
	Status     OrderItemStatus
	Notes      pgtype.Text
	CreatedAt  time.Time
}

// OrderItemDetail is an order item joined with its menu item's name,
// used by the kitchen/waiter dashboards and the receipt formatter.
type OrderItemDetail struct {
	ID         uuid.UUID
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	MenuName   string
	Quantity   int32
	Price      pgtype.Numeric
	Status     OrderItemStatus
	Notes      pgtype.Text
	CreatedAt  time.Time
}

type Feedback struct {
	ID           uuid.UUID
	OrderID      pgtype.UUID
	CustomerName string
	Rating       int32
	Message      string
	CreatedAt    time.Time
}
