package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lamogo-pos/api/internal/database"
)

const defaultFeedbackPageSize = 50

// FeedbackStore defines the database methods needed by feedback handlers.
type FeedbackStore interface {
	CreateFeedback(ctx context.Context, arg database.CreateFeedbackParams) (database.Feedback, error)
	ListFeedback(ctx context.Context, arg database.ListFeedbackParams) ([]database.Feedback, error)
	GetOrder(ctx context.Context, id uuid.UUID) (database.Order, error)
}

// FeedbackHandler handles customer ratings. Submission is public (the link
// arrives in the WhatsApp receipt); listing is admin only.
type FeedbackHandler struct {
	store FeedbackStore
}

func NewFeedbackHandler(store FeedbackStore) *FeedbackHandler {
	return &FeedbackHandler{store: store}
}

type feedbackRequest struct {
	OrderID      string `json:"order_id"`
	CustomerName string `json:"customer_name"`
	Rating       int32  `json:"rating"`
	Message      string `json:"message"`
}

type feedbackResponse struct {
	ID           uuid.UUID `json:"id"`
	OrderID      string    `json:"order_id,omitempty"`
	CustomerName string    `json:"customer_name"`
	Rating       int32     `json:"rating"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Submit records one customer rating. The order reference is optional; when
// present it must point at a real order.
func (h *FeedbackHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req feedbackRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	if req.Rating < 1 || req.Rating > 5 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "rating must be between 1 and 5"})
		return
	}
	if req.CustomerName == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "customer_name is required"})
		return
	}

	orderID := pgtype.UUID{}
	if req.OrderID != "" {
		id, err := uuid.Parse(req.OrderID)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid order_id"})
			return
		}
		if _, err := h.store.GetOrder(r.Context(), id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				writeJSON(w, http.StatusNotFound, map[string]string{"error": "order not found"})
				return
			}
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
			return
		}
		orderID = pgtype.UUID{Bytes: id, Valid: true}
	}

	fb, err := h.store.CreateFeedback(r.Context(), database.CreateFeedbackParams{
		OrderID:      orderID,
		CustomerName: req.CustomerName,
		Rating:       req.Rating,
		Message:      req.Message,
	})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	writeJSON(w, http.StatusCreated, toFeedbackResponse(fb))
}

// List returns feedback newest first, paginated. Admin only.
func (h *FeedbackHandler) List(w http.ResponseWriter, r *http.Request) {
	limit := int32(defaultFeedbackPageSize)
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

	items, err := h.store.ListFeedback(r.Context(), database.ListFeedbackParams{Limit: limit, Offset: offset})
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
		return
	}

	out := make([]feedbackResponse, 0, len(items))
	for _, fb := range items {
		out = append(out, toFeedbackResponse(fb))
	}
	writeJSON(w, http.StatusOK, out)
}

func toFeedbackResponse(fb database.Feedback) feedbackResponse {
	resp := feedbackResponse{
		ID:           fb.ID,
		CustomerName: fb.CustomerName,
		Rating:       fb.Rating,
		Message:      fb.Message,
		CreatedAt:    fb.CreatedAt,
	}
	if fb.OrderID.Valid {
		resp.OrderID = uuid.UUID(fb.OrderID.Bytes).String()
	}
	return resp
}
