package database

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"
)

const createFeedback = `
INSERT INTO feedback (order_id, customer_name, rating, message)
VALUES ($1, $2, $3, $4)
RETURNING id, order_id, customer_name, rating, message, created_at
`

type CreateFeedbackParams struct {
	OrderID      pgtype.UUID
	CustomerName string
	Rating       int32
	Message      string
}

func (q *Queries) CreateFeedback(ctx context.Context, arg CreateFeedbackParams) (Feedback, error) {
	row := q.db.QueryRow(ctx, createFeedback, arg.OrderID, arg.CustomerName, arg.Rating, arg.Message)
	var f Feedback
	err := row.Scan(&f.ID, &f.OrderID, &f.CustomerName, &f.Rating, &f.Message, &f.CreatedAt)
	return f, err
}

const listFeedback = `
SELECT id, order_id, customer_name, rating, message, created_at
FROM feedback
ORDER BY created_at DESC
LIMIT $1 OFFSET $2
`

type ListFeedbackParams struct {
	Limit  int32
	Offset int32
}

func (q *Queries) ListFeedback(ctx context.Context, arg ListFeedbackParams) ([]Feedback, error) {
	rows, err := q.db.Query(ctx, listFeedback, arg.Limit, arg.Offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var items []Feedback
	for rows.Next() {
		var f Feedback
		if err := rows.Scan(&f.ID, &f.OrderID, &f.CustomerName, &f.Rating, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		items = append(items, f)
	}
	return items, rows.Err()
}
