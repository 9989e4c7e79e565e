package main

import (
	"context"
	"log"
	"net/http"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/lamogo-pos/api/internal/cart"
	"github.com/lamogo-pos/api/internal/config"
	"github.com/lamogo-pos/api/internal/database"
	"github.com/lamogo-pos/api/internal/handler"
	"github.com/lamogo-pos/api/internal/notify"
	"github.com/lamogo-pos/api/internal/router"
	"github.com/lamogo-pos/api/internal/service"
	"github.com/lamogo-pos/api/internal/ws"
)

func main() {
	cfg := config.Load()

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("FATAL: connect to database: %v", err)
	}
	defer pool.Close()

	if err := pool.Ping(ctx); err != nil {
		log.Fatalf("FATAL: ping database: %v", err)
	}

	queries := database.New(pool)
	carts := cart.NewStore()

	hub := ws.NewHub()
	go hub.Run()

	var wa *notify.WhatsAppClient
	if cfg.WhatsAppGatewayURL != "" {
		wa = notify.NewWhatsAppClient(cfg.WhatsAppGatewayURL, cfg.NotifyTimeout)
	} else {
		log.Printf("WARN: WHATSAPP_GATEWAY_URL not set, receipts disabled")
	}
	notifier := notify.New(hub, wa, cfg.FeedbackURL)

	orderService := service.NewOrderService(pool, func(db database.DBTX) service.OrderStore {
		return database.New(db)
	}, notifier)
	workflowService := service.NewWorkflowService(pool, func(db database.DBTX) service.WorkflowStore {
		return database.New(db)
	}, notifier)

	mux := router.New(router.Deps{
		JWTSecret: cfg.JWTSecret,
		Hub:       hub,
		Auth:      handler.NewAuthHandler(queries, cfg.JWTSecret),
		Menu:      handler.NewMenuHandler(queries),
		Users:     handler.NewUserHandler(queries),
		Cart:      handler.NewCartHandler(carts, queries),
		Orders:    handler.NewOrderHandler(orderService, carts, queries),
		Kitchen:   handler.NewKitchenHandler(queries, workflowService),
		Waiter:    handler.NewWaiterHandler(queries, workflowService),
		Dashboard: handler.NewDashboardHandler(queries),
		Feedback:  handler.NewFeedbackHandler(queries),
	})

	addr := ":" + cfg.Port
	log.Printf("Server starting on %s", addr)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("FATAL: server: %v", err)
	}
}
