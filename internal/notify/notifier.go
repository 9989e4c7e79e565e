// Package notify implements the outbound side effects of the order workflow:
// real-time pushes to dashboard WebSocket clients and WhatsApp receipts to
// customers. Everything here is best-effort; callers have already committed
// their transaction and only log failures.
package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/lamogo-pos/api/internal/database"
	"github.com/lamogo-pos/api/internal/service"
	"github.com/lamogo-pos/api/internal/ws"
)

// Notifier fans events out to the WebSocket hub and receipts out to the
// WhatsApp gateway. Implements service.Notifier.
type Notifier struct {
	hub         *ws.Hub
	wa          *WhatsAppClient // nil when no gateway is configured
	feedbackURL string
}

func New(hub *ws.Hub, wa *WhatsAppClient, feedbackURL string) *Notifier {
	return &Notifier{hub: hub, wa: wa, feedbackURL: feedbackURL}
}

// Broadcast pushes an event to every connected dashboard session.
// Fire-and-forget: at-most-once delivery, submission order preserved.
func (n *Notifier) Broadcast(event string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		log.Printf("ERROR: marshal %s payload: %v", event, err)
		return
	}
	n.hub.Broadcast(ws.Event{Type: event, Payload: data})
}

// SendReceipt formats and delivers the order receipt to the customer's phone.
// A missing gateway or phone number is not an error; the receipt is simply
// not sent.
func (n *Notifier) SendReceipt(ctx context.Context, order database.Order, lines []service.ReceiptLine) error {
	if n.wa == nil || order.CustomerPhone == "" {
		return nil
	}

	phone, err := NormalizePhone(order.CustomerPhone)
	if err != nil {
		return err
	}

	return n.wa.Send(ctx, phone, FormatReceipt(order, lines, n.feedbackURL))
}
