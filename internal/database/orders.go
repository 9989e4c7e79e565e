package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createOrder = `
INSERT INTO orders (customer_name, customer_phone, payment_method, amount_paid, change_due, total, status, created_by)
VALUES ($1, $2, $3, $4, $5, $6, 'open', $7)
RETURNING id, customer_name, customer_phone, payment_method, amount_paid, change_due, total, status, created_by, created_at, updated_at
`

type CreateOrderParams struct {
	CustomerName  string
	CustomerPhone string
	PaymentMethod string
	AmountPaid    pgtype.Numeric
	ChangeDue     pgtype.Numeric
	Total         pgtype.Numeric
	CreatedBy     uuid.UUID
}

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (Order, error) {
	row := q.db.QueryRow(ctx, createOrder,
		arg.CustomerName, arg.CustomerPhone, arg.PaymentMethod,
		arg.AmountPaid, arg.ChangeDue, arg.Total, arg.CreatedBy)
	return scanOrder(row)
}

const createOrderItem = `
INSERT INTO order_items (order_id, menu_item_id, quantity, price, status, notes)
VALUES ($1, $2, $3, $4, 'open', $5)
RETURNING id, order_id, menu_item_id, quantity, price, status, notes, created_at
`

type CreateOrderItemParams struct {
	OrderID    uuid.UUID
	MenuItemID uuid.UUID
	Quantity   int32
	Price      pgtype.Numeric
	Notes      pgtype.Text
}

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID, arg.MenuItemID, arg.Quantity, arg.Price, arg.Notes)
	return scanOrderItem(row)
}

const getOrder = `
SELECT id, customer_name, customer_phone, payment_method, amount_paid, change_due, total, status, created_by, created_at, updated_at
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const getOrderForUpdate = `
SELECT id, customer_name, customer_phone, payment_method, amount_paid, change_due, total, status, created_by, created_at, updated_at
FROM orders
WHERE id = $1
FOR UPDATE
`

// GetOrderForUpdate locks the order row for the rest of the transaction.
// Delivery transitions take this lock first so that two items of the same
// order delivered concurrently serialize their close recomputation.
func (q *Queries) GetOrderForUpdate(ctx context.Context, id uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUpdate, id))
}

const listOrders = `
SELECT id, customer_name, customer_phone, payment_method, amount_paid, change_due, total, status, created_by, created_at, updated_at
FROM orders
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`

type ListOrdersParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListOrders(ctx context.Context, arg ListOrdersParams) ([]Order, error) {
	rows, err := q.db.Query(ctx, listOrders, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, o)
	}
	return items, rows.Err()
}

const listOrderItemsByOrder = `
SELECT id, order_id, menu_item_id, quantity, price, status, notes, created_at
FROM order_items
WHERE order_id = $1
ORDER BY created_at, id
`

func (q *Queries) ListOrderItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItem, error) {
	rows, err := q.db.Query(ctx, listOrderItemsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItem
	for rows.Next() {
		oi, err := scanOrderItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, oi)
	}
	return items, rows.Err()
}

const getOrderItemDetail = `
SELECT oi.id, oi.order_id, oi.menu_item_id, mi.name, oi.quantity, oi.price, oi.status, oi.notes, oi.created_at
FROM order_items oi
JOIN menu_items mi ON mi.id = oi.menu_item_id
WHERE oi.id = $1
`

func (q *Queries) GetOrderItemDetail(ctx context.Context, id uuid.UUID) (OrderItemDetail, error) {
	return scanOrderItemDetail(q.db.QueryRow(ctx, getOrderItemDetail, id))
}

const listOrderItemDetailsByStatus = `
SELECT oi.id, oi.order_id, oi.menu_item_id, mi.name, oi.quantity, oi.price, oi.status, oi.notes, oi.created_at
FROM order_items oi
JOIN menu_items mi ON mi.id = oi.menu_item_id
WHERE oi.status = ANY($1::text[])
ORDER BY oi.created_at, oi.id
`

func (q *Queries) ListOrderItemDetailsByStatus(ctx context.Context, statuses []string) ([]OrderItemDetail, error) {
	rows, err := q.db.Query(ctx, listOrderItemDetailsByStatus, statuses)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItemDetail
	for rows.Next() {
		d, err := scanOrderItemDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const listOrderItemDetailsByOrder = `
SELECT oi.id, oi.order_id, oi.menu_item_id, mi.name, oi.quantity, oi.price, oi.status, oi.notes, oi.created_at
FROM order_items oi
JOIN menu_items mi ON mi.id = oi.menu_item_id
WHERE oi.order_id = $1
ORDER BY oi.created_at, oi.id
`

func (q *Queries) ListOrderItemDetailsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemDetail, error) {
	rows, err := q.db.Query(ctx, listOrderItemDetailsByOrder, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []OrderItemDetail
	for rows.Next() {
		d, err := scanOrderItemDetail(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const updateOrderItemStatus = `
UPDATE order_items
SET status = $2
WHERE id = $1 AND status = $3
RETURNING id, order_id, menu_item_id, quantity, price, status, notes, created_at
`

type UpdateOrderItemStatusParams struct {
	ID         uuid.UUID
	Status     OrderItemStatus
	FromStatus OrderItemStatus
}

// UpdateOrderItemStatus performs a conditional write guarded by the expected
// prior status. A concurrent transition that got there first leaves zero rows
// to update, surfacing as pgx.ErrNoRows to the losing caller.
func (q *Queries) UpdateOrderItemStatus(ctx context.Context, arg UpdateOrderItemStatusParams) (OrderItem, error) {
	row := q.db.QueryRow(ctx, updateOrderItemStatus, arg.ID, arg.Status, arg.FromStatus)
	return scanOrderItem(row)
}

const closeOrderIfAllDelivered = `
UPDATE orders
SET status = 'close', updated_at = now()
WHERE id = $1
  AND status = 'open'
  AND NOT EXISTS (
    SELECT 1 FROM order_items
    WHERE order_id = $1 AND status <> 'delivered'
  )
RETURNING id, customer_name, customer_phone, payment_method, amount_paid, change_due, total, status, created_by, created_at, updated_at
`

// CloseOrderIfAllDelivered atomically closes the order when every item has
// been delivered. Returns pgx.ErrNoRows when a sibling is still in flight or
// the order is already closed.
func (q *Queries) CloseOrderIfAllDelivered(ctx context.Context, orderID uuid.UUID) (Order, error) {
	return scanOrder(q.db.QueryRow(ctx, closeOrderIfAllDelivered, orderID))
}

const countOrders = `
SELECT count(*) FROM orders
`

func (q *Queries) CountOrders(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countOrders)
	var count int64
	err := row.Scan(&count)
	return count, err
}

const sumOrderTotals = `
SELECT COALESCE(sum(total), 0) FROM orders
`

func (q *Queries) SumOrderTotals(ctx context.Context) (pgtype.Numeric, error) {
	row := q.db.QueryRow(ctx, sumOrderTotals)
	var sum pgtype.Numeric
	err := row.Scan(&sum)
	return sum, err
}

func scanOrder(row pgx.Row) (Order, error) {
	var o Order
	err := row.Scan(&o.ID, &o.CustomerName, &o.CustomerPhone, &o.PaymentMethod,
		&o.AmountPaid, &o.ChangeDue, &o.Total, &o.Status, &o.CreatedBy, &o.CreatedAt, &o.UpdatedAt)
	return o, err
}

func scanOrderItem(row pgx.Row) (OrderItem, error) {
	var oi OrderItem
	err := row.Scan(&oi.ID, &oi.OrderID, &oi.MenuItemID, &oi.Quantity, &oi.Price, &oi.Status, &oi.Notes, &oi.CreatedAt)
	return oi, err
}

func scanOrderItemDetail(row pgx.Row) (OrderItemDetail, error) {
	var d OrderItemDetail
	err := row.Scan(&d.ID, &d.OrderID, &d.MenuItemID, &d.MenuName, &d.Quantity, &d.Price, &d.Status, &d.Notes, &d.CreatedAt)
	return d, err
}
