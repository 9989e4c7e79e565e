package enum

// ── State machines (CHECK constrained in DB) ──

const (
	OrderStatusOpen  = "open"
	OrderStatusClose = "close"
)

const (
	OrderItemStatusOpen      = "open"
	OrderItemStatusCooking   = "cooking"
	OrderItemStatusReady     = "ready"
	OrderItemStatusDelivered = "delivered"
)

// ── Roles (CHECK constrained in DB) ──

const (
	UserRoleAdmin   = "admin"
	UserRoleCashier = "cashier"
	UserRoleWaiter  = "waiter"
	UserRoleKitchen = "kitchen"
)

// ── Configurable labels (no DB constraint) ──

const (
	PaymentMethodCash     = "cash"
	PaymentMethodQRIS     = "qris"
	PaymentMethodTransfer = "transfer"
)
