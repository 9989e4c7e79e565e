package database

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
)

const createMenuItem = `
INSERT INTO menu_items (name, description, price, image_url, is_active)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, name, description, price, image_url, is_active, created_at, updated_at
`

type CreateMenuItemParams struct {
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageUrl    pgtype.Text
	IsActive    bool
}

func (q *Queries) CreateMenuItem(ctx context.Context, arg CreateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, createMenuItem, arg.Name, arg.Description, arg.Price, arg.ImageUrl, arg.IsActive)
	return scanMenuItem(row)
}

const getMenuItem = `
SELECT id, name, description, price, image_url, is_active, created_at, updated_at
FROM menu_items
WHERE id = $1
`

func (q *Queries) GetMenuItem(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, getMenuItem, id))
}

const getMenuItemForOrder = `
SELECT id, name, description, price, image_url, is_active, created_at, updated_at
FROM menu_items
WHERE id = $1 AND is_active = true
`

// GetMenuItemForOrder resolves a cart line against the catalog. Inactive or
// deleted items return pgx.ErrNoRows so checkout can skip them.
func (q *Queries) GetMenuItemForOrder(ctx context.Context, id uuid.UUID) (MenuItem, error) {
	return scanMenuItem(q.db.QueryRow(ctx, getMenuItemForOrder, id))
}

const listMenuItems = `
SELECT id, name, description, price, image_url, is_active, created_at, updated_at
FROM menu_items
ORDER BY created_at DESC
`

func (q *Queries) ListMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenuItems(rows)
}

const listActiveMenuItems = `
SELECT id, name, description, price, image_url, is_active, created_at, updated_at
FROM menu_items
WHERE is_active = true
ORDER BY name
`

func (q *Queries) ListActiveMenuItems(ctx context.Context) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, listActiveMenuItems)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenuItems(rows)
}

const searchActiveMenuItems = `
SELECT id, name, description, price, image_url, is_active, created_at, updated_at
FROM menu_items
WHERE is_active = true
  AND (name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
ORDER BY name
`

func (q *Queries) SearchActiveMenuItems(ctx context.Context, query string) ([]MenuItem, error) {
	rows, err := q.db.Query(ctx, searchActiveMenuItems, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanMenuItems(rows)
}

const updateMenuItem = `
UPDATE menu_items
SET name = $2, description = $3, price = $4, image_url = $5, is_active = $6, updated_at = now()
WHERE id = $1
RETURNING id, name, description, price, image_url, is_active, created_at, updated_at
`

type UpdateMenuItemParams struct {
	ID          uuid.UUID
	Name        string
	Description pgtype.Text
	Price       pgtype.Numeric
	ImageUrl    pgtype.Text
	IsActive    bool
}

func (q *Queries) UpdateMenuItem(ctx context.Context, arg UpdateMenuItemParams) (MenuItem, error) {
	row := q.db.QueryRow(ctx, updateMenuItem, arg.ID, arg.Name, arg.Description, arg.Price, arg.ImageUrl, arg.IsActive)
	return scanMenuItem(row)
}

const deleteMenuItem = `
DELETE FROM menu_items WHERE id = $1
RETURNING id
`

func (q *Queries) DeleteMenuItem(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
	row := q.db.QueryRow(ctx, deleteMenuItem, id)
	var deleted uuid.UUID
	err := row.Scan(&deleted)
	return deleted, err
}

const countMenuItems = `
SELECT count(*) FROM menu_items
`

func (q *Queries) CountMenuItems(ctx context.Context) (int64, error) {
	row := q.db.QueryRow(ctx, countMenuItems)
	var count int64
	err := row.Scan(&count)
	return count, err
}

func scanMenuItem(row pgx.Row) (MenuItem, error) {
	var m MenuItem
	err := row.Scan(&m.ID, &m.Name, &m.Description, &m.Price, &m.ImageUrl, &m.IsActive, &m.CreatedAt, &m.UpdatedAt)
	return m, err
}

func scanMenuItems(rows pgx.Rows) ([]MenuItem, error) {
	var items []MenuItem
	for rows.Next() {
		m, err := scanMenuItem(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, m)
	}
	return items, rows.Err()
}
