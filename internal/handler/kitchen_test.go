package handler_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/lamogo-pos/api/internal/database"
	"github.com/lamogo-pos/api/internal/enum"
	"github.com/lamogo-pos/api/internal/handler"
	"github.com/lamogo-pos/api/internal/middleware"
	"github.com/lamogo-pos/api/internal/service"
)

// --- Mocks ---

type mockWorkQueueStore struct {
	listFn func(ctx context.Context, statuses []string) ([]database.OrderItemDetail, error)
}

func (m *mockWorkQueueStore) ListOrderItemDetailsByStatus(ctx context.Context, statuses []string) ([]database.OrderItemDetail, error) {
	return m.listFn(ctx, statuses)
}

type mockWorkflowService struct {
	markCookingFn   func(ctx context.Context, itemID uuid.UUID) (*service.TransitionResult, error)
	markReadyFn     func(ctx context.Context, itemID uuid.UUID) (*service.TransitionResult, error)
	markDeliveredFn func(ctx context.Context, itemID uuid.UUID) (*service.TransitionResult, error)
}

func (m *mockWorkflowService) MarkCooking(ctx context.Context, itemID uuid.UUID) (*service.TransitionResult, error) {
	return m.markCookingFn(ctx, itemID)
}
func (m *mockWorkflowService) MarkReady(ctx context.Context, itemID uuid.UUID) (*service.TransitionResult, error) {
	return m.markReadyFn(ctx, itemID)
}
func (m *mockWorkflowService) MarkDelivered(ctx context.Context, itemID uuid.UUID) (*service.TransitionResult, error) {
	return m.markDeliveredFn(ctx, itemID)
}

func setupKitchenRouter(store handler.WorkQueueStore, workflow handler.WorkflowService) *chi.Mux {
	kh := handler.NewKitchenHandler(store, workflow)
	wh := handler.NewWaiterHandler(store, workflow)

	r := chi.NewRouter()
	r.Use(middleware.Authenticate(testJWTSecret))
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(enum.UserRoleKitchen, enum.UserRoleAdmin))
		r.Get("/kitchen/items", kh.Queue)
		r.Post("/kitchen/items/{id}/cooking", kh.StartCooking)
		r.Post("/kitchen/items/{id}/ready", kh.MarkReady)
	})
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireRole(enum.UserRoleWaiter, enum.UserRoleAdmin))
		r.Get("/waiter/items", wh.Queue)
		r.Post("/waiter/items/{id}/deliver", wh.Deliver)
	})
	return r
}

// =====================
// Queues
// =====================

func TestKitchenQueue_RequestsOpenAndCooking(t *testing.T) {
	var gotStatuses []string
	store := &mockWorkQueueStore{
		listFn: func(ctx context.Context, statuses []string) ([]database.OrderItemDetail, error) {
			gotStatuses = statuses
			return []database.OrderItemDetail{
				{ID: uuid.New(), MenuName: "Bebek Goreng", Quantity: 1, Price: testNumeric("30000.00"), Status: database.OrderItemStatusOpen},
			}, nil
		},
	}

	router := setupKitchenRouter(store, &mockWorkflowService{})
	rr := doAuthRequest(t, router, http.MethodGet, "/kitchen/items", nil, uuid.New(), enum.UserRoleKitchen)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(gotStatuses) != 2 || gotStatuses[0] != "open" || gotStatuses[1] != "cooking" {
		t.Errorf("expected [open cooking], got %v", gotStatuses)
	}
}

func TestWaiterQueue_RequestsReadyOnly(t *testing.T) {
	var gotStatuses []string
	store := &mockWorkQueueStore{
		listFn: func(ctx context.Context, statuses []string) ([]database.OrderItemDetail, error) {
			gotStatuses = statuses
			return nil, nil
		},
	}

	router := setupKitchenRouter(store, &mockWorkflowService{})
	rr := doAuthRequest(t, router, http.MethodGet, "/waiter/items", nil, uuid.New(), enum.UserRoleWaiter)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}
	if len(gotStatuses) != 1 || gotStatuses[0] != "ready" {
		t.Errorf("expected [ready], got %v", gotStatuses)
	}
}

// =====================
// Transitions
// =====================

func TestStartCooking_Success(t *testing.T) {
	itemID := uuid.New()
	workflow := &mockWorkflowService{
		markCookingFn: func(ctx context.Context, id uuid.UUID) (*service.TransitionResult, error) {
			return &service.TransitionResult{
				Item:        database.OrderItem{ID: id, Status: database.OrderItemStatusCooking, Price: testNumeric("25000.00")},
				OrderStatus: database.OrderStatusOpen,
			}, nil
		},
	}

	router := setupKitchenRouter(&mockWorkQueueStore{}, workflow)
	rr := doAuthRequest(t, router, http.MethodPost, "/kitchen/items/"+itemID.String()+"/cooking", nil, uuid.New(), enum.UserRoleKitchen)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rr.Code, rr.Body.String())
	}

	resp := decodeJSON(t, rr)
	item := resp["item"].(map[string]interface{})
	if item["status"].(string) != "cooking" {
		t.Errorf("expected status cooking, got %v", item["status"])
	}
}

func TestStartCooking_Conflict(t *testing.T) {
	workflow := &mockWorkflowService{
		markCookingFn: func(ctx context.Context, id uuid.UUID) (*service.TransitionResult, error) {
			return nil, service.ErrInvalidTransition
		},
	}

	router := setupKitchenRouter(&mockWorkQueueStore{}, workflow)
	rr := doAuthRequest(t, router, http.MethodPost, "/kitchen/items/"+uuid.NewString()+"/cooking", nil, uuid.New(), enum.UserRoleKitchen)

	if rr.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d", rr.Code)
	}
}

func TestStartCooking_NotFound(t *testing.T) {
	workflow := &mockWorkflowService{
		markCookingFn: func(ctx context.Context, id uuid.UUID) (*service.TransitionResult, error) {
			return nil, service.ErrItemNotFound
		},
	}

	router := setupKitchenRouter(&mockWorkQueueStore{}, workflow)
	rr := doAuthRequest(t, router, http.MethodPost, "/kitchen/items/"+uuid.NewString()+"/cooking", nil, uuid.New(), enum.UserRoleKitchen)

	if rr.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rr.Code)
	}
}

func TestDeliver_ReportsClosedOrder(t *testing.T) {
	itemID := uuid.New()
	workflow := &mockWorkflowService{
		markDeliveredFn: func(ctx context.Context, id uuid.UUID) (*service.TransitionResult, error) {
			return &service.TransitionResult{
				Item:        database.OrderItem{ID: id, Status: database.OrderItemStatusDelivered, Price: testNumeric("25000.00")},
				OrderStatus: database.OrderStatusClose,
				OrderClosed: true,
			}, nil
		},
	}

	router := setupKitchenRouter(&mockWorkQueueStore{}, workflow)
	rr := doAuthRequest(t, router, http.MethodPost, "/waiter/items/"+itemID.String()+"/deliver", nil, uuid.New(), enum.UserRoleWaiter)

	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rr.Code)
	}

	resp := decodeJSON(t, rr)
	if resp["order_status"].(string) != "close" {
		t.Errorf("expected order_status close, got %v", resp["order_status"])
	}
}

// =====================
// Role enforcement
// =====================

func TestKitchenEndpoints_RejectOtherRoles(t *testing.T) {
	router := setupKitchenRouter(&mockWorkQueueStore{}, &mockWorkflowService{})

	rr := doAuthRequest(t, router, http.MethodGet, "/kitchen/items", nil, uuid.New(), enum.UserRoleWaiter)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("waiter on kitchen endpoint: expected 403, got %d", rr.Code)
	}

	rr = doAuthRequest(t, router, http.MethodPost, "/waiter/items/"+uuid.NewString()+"/deliver", nil, uuid.New(), enum.UserRoleKitchen)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("kitchen on waiter endpoint: expected 403, got %d", rr.Code)
	}
}

func TestKitchenEndpoints_AdminAllowed(t *testing.T) {
	store := &mockWorkQueueStore{
		listFn: func(ctx context.Context, statuses []string) ([]database.OrderItemDetail, error) {
			return nil, nil
		},
	}
	router := setupKitchenRouter(store, &mockWorkflowService{})

	rr := doAuthRequest(t, router, http.MethodGet, "/kitchen/items", nil, uuid.New(), enum.UserRoleAdmin)
	if rr.Code != http.StatusOK {
		t.Fatalf("admin on kitchen endpoint: expected 200, got %d", rr.Code)
	}
}
