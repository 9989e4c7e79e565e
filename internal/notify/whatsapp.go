package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgtype"
	"github.com/lamogo-pos/api/internal/database"
	"github.com/lamogo-pos/api/internal/enum"
	"github.com/lamogo-pos/api/internal/service"
	"github.com/shopspring/decimal"
)

// ErrInvalidPhone is returned for numbers that cannot be normalized into
// international form.
var ErrInvalidPhone = errors.New("invalid phone number")

// WhatsAppClient delivers messages through an external WhatsApp HTTP gateway.
// One attempt per message with a short client timeout; the send path must
// never stall a checkout behind retries.
type WhatsAppClient struct {
	gatewayURL string
	client     *http.Client
}

func NewWhatsAppClient(gatewayURL string, timeout time.Duration) *WhatsAppClient {
	return &WhatsAppClient{
		gatewayURL: gatewayURL,
		client:     &http.Client{Timeout: timeout},
	}
}

type sendRequest struct {
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

// Send posts one message to the gateway. phone must already be normalized.
func (c *WhatsAppClient) Send(ctx context.Context, phone, message string) error {
	body, err := json.Marshal(sendRequest{Phone: phone, Message: message})
	if err != nil {
		return fmt.Errorf("marshal send request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.gatewayURL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("send whatsapp message: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("whatsapp gateway returned %d", resp.StatusCode)
	}
	return nil
}

// NormalizePhone canonicalizes an Indonesian phone number into international
// form: a leading national 0 becomes country code 62, an explicit +62 loses
// the plus. Separators and spaces are stripped first.
func NormalizePhone(raw string) (string, error) {
	var b strings.Builder
	for i, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '+' && i == 0:
			// dropped; handled below via the digits that follow
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// separator, ignore
		default:
			return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
		}
	}

	digits := b.String()
	switch {
	case strings.HasPrefix(digits, "0"):
		digits = "62" + digits[1:]
	case strings.HasPrefix(digits, "62"):
		// already international
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}

	if len(digits) < 10 || len(digits) > 15 {
		return "", fmt.Errorf("%w: %q", ErrInvalidPhone, raw)
	}
	return digits, nil
}

// FormatReceipt builds the human-readable WhatsApp receipt: customer, line
// items, total, paid/change for cash orders, and a feedback link.
func FormatReceipt(order database.Order, lines []service.ReceiptLine, feedbackURL string) string {
	var sb strings.Builder

	sb.WriteString("Terima kasih sudah memesan di LAMOGO! 🙏\n\n")
	sb.WriteString(fmt.Sprintf("Pesanan atas nama %s:\n", order.CustomerName))

	for _, line := range lines {
		sb.WriteString(fmt.Sprintf("• %s x%d = %s\n", line.Name, line.Quantity, formatRupiah(line.Subtotal)))
	}

	sb.WriteString(fmt.Sprintf("\nTotal: %s\n", formatRupiah(numericToDecimal(order.Total))))

	if order.PaymentMethod == enum.PaymentMethodCash && order.AmountPaid.Valid {
		sb.WriteString(fmt.Sprintf("Bayar (cash): %s\n", formatRupiah(numericToDecimal(order.AmountPaid))))
		if order.ChangeDue.Valid {
			sb.WriteString(fmt.Sprintf("Kembalian: %s\n", formatRupiah(numericToDecimal(order.ChangeDue))))
		}
	} else {
		sb.WriteString(fmt.Sprintf("Metode bayar: %s\n", order.PaymentMethod))
	}

	if feedbackURL != "" {
		sb.WriteString(fmt.Sprintf("\nBeri penilaianmu: %s", feedbackURL))
	}

	return sb.String()
}

func formatRupiah(d decimal.Decimal) string {
	if d.GreaterThanOrEqual(decimal.NewFromInt(1_000_000)) {
		jt := d.Div(decimal.NewFromInt(1_000_000))
		return jt.StringFixed(1) + "Jt"
	}
	if d.GreaterThanOrEqual(decimal.NewFromInt(1_000)) {
		k := d.Div(decimal.NewFromInt(1_000))
		return k.StringFixed(0) + "K"
	}
	return d.StringFixed(0)
}

func numericToDecimal(n pgtype.Numeric) decimal.Decimal {
	if !n.Valid {
		return decimal.Zero
	}
	val, err := n.Value()
	if err != nil || val == nil {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(val.(string))
	if err != nil {
		return decimal.Zero
	}
	return d
}
