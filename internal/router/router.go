// Package router assembles the HTTP surface: public auth and feedback
// endpoints, the WebSocket upgrade, and the role-scoped dashboard APIs.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/lamogo-pos/api/internal/enum"
	"github.com/lamogo-pos/api/internal/handler"
	"github.com/lamogo-pos/api/internal/middleware"
	"github.com/lamogo-pos/api/internal/ws"
)

// Deps carries everything the router needs to wire up handlers.
type Deps struct {
	JWTSecret string
	Hub       *ws.Hub

	Auth      *handler.AuthHandler
	Menu      *handler.MenuHandler
	Users     *handler.UserHandler
	Cart      *handler.CartHandler
	Orders    *handler.OrderHandler
	Kitchen   *handler.KitchenHandler
	Waiter    *handler.WaiterHandler
	Dashboard *handler.DashboardHandler
	Feedback  *handler.FeedbackHandler
}

// New builds the Chi router. Route groups mirror the staff roles: cashiers
// own the cart and checkout, the kitchen and waiters own their queues, and
// admins own the catalog, accounts and overview.
func New(deps Deps) http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Public endpoints.
	deps.Auth.RegisterRoutes(r)
	r.Post("/feedback", deps.Feedback.Submit)

	// Live order updates. Auth is a token query param because browsers
	// cannot set headers on WebSocket upgrades.
	r.Get("/ws/orders", func(w http.ResponseWriter, req *http.Request) {
		ws.ServeWS(deps.Hub, deps.JWTSecret, w, req)
	})

	// Authenticated endpoints.
	r.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(deps.JWTSecret))

		// Any staff member can browse the active menu.
		r.Get("/menu", deps.Menu.List)
		r.Get("/menu/{id}", deps.Menu.Get)

		// Cashier: cart and checkout.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enum.UserRoleCashier, enum.UserRoleAdmin))

			r.Get("/cart", deps.Cart.View)
			r.Post("/cart/items", deps.Cart.AddItem)
			r.Put("/cart/items/{menuItemID}", deps.Cart.UpdateItem)
			r.Delete("/cart/items/{menuItemID}", deps.Cart.RemoveItem)

			r.Post("/checkout", deps.Orders.Checkout)
			r.Get("/orders", deps.Orders.List)
			r.Get("/orders/{id}", deps.Orders.Get)
		})

		// Kitchen: cooking queue and its transitions.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enum.UserRoleKitchen, enum.UserRoleAdmin))

			r.Get("/kitchen/items", deps.Kitchen.Queue)
			r.Post("/kitchen/items/{id}/cooking", deps.Kitchen.StartCooking)
			r.Post("/kitchen/items/{id}/ready", deps.Kitchen.MarkReady)
		})

		// Waiter: pickup queue and delivery.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enum.UserRoleWaiter, enum.UserRoleAdmin))

			r.Get("/waiter/items", deps.Waiter.Queue)
			r.Post("/waiter/items/{id}/deliver", deps.Waiter.Deliver)
		})

		// Admin: catalog, accounts, counters, feedback inbox.
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(enum.UserRoleAdmin))

			r.Get("/admin/dashboard", deps.Dashboard.Overview)

			r.Get("/admin/menu", deps.Menu.ListAll)
			r.Post("/admin/menu", deps.Menu.Create)
			r.Put("/admin/menu/{id}", deps.Menu.Update)
			r.Delete("/admin/menu/{id}", deps.Menu.Delete)

			r.Get("/admin/users", deps.Users.List)
			r.Get("/admin/users/{id}", deps.Users.Get)
			r.Post("/admin/users", deps.Users.Create)
			r.Put("/admin/users/{id}", deps.Users.Update)
			r.Delete("/admin/users/{id}", deps.Users.Delete)

			r.Get("/admin/feedback", deps.Feedback.List)
		})
	})

	return r
}
