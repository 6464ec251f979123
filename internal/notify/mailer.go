package notify

import (
	"bytes"
	"fmt"
	"net/smtp"
	"strings"

	html "github.com/gofiber/template/html/v2"

	"sugarstudio/internal/domain"
)

// Mailer sends events over SMTP, rendering bodies from the HTML
// templates under web/templates/email.
type Mailer struct {
	addr       string // host:port
	from       string
	bakerEmail string
	engine     *html.Engine
}

func NewMailer(addr, from, bakerEmail, templateDir string) (*Mailer, error) {
	engine := html.New(templateDir, ".html")
	if err := engine.Load(); err != nil {
		return nil, fmt.Errorf("load email templates: %w", err)
	}
	return &Mailer{addr: addr, from: from, bakerEmail: bakerEmail, engine: engine}, nil
}

func (m *Mailer) Send(ev Event) error {
	to, subject, tmpl := m.route(ev)
	if to == "" {
		// Guest order with no email on file; nothing to send.
		return nil
	}
	var body bytes.Buffer
	if err := m.engine.Render(&body, tmpl, bind(ev)); err != nil {
		return fmt.Errorf("render %s: %w", tmpl, err)
	}
	msg := message(m.from, to, subject, body.String())
	return smtp.SendMail(m.addr, nil, m.from, []string{to}, msg)
}

func (m *Mailer) route(ev Event) (to, subject, tmpl string) {
	switch ev.Kind {
	case KindStaffAlert:
		return m.bakerEmail,
			fmt.Sprintf("New order %s needs preparing", ev.Order.OrderNumber),
			"email/staff_alert"
	case KindStatusUpdate:
		return ev.Customer.Email,
			fmt.Sprintf("Order %s is now %s", ev.Order.OrderNumber, ev.NewStatus),
			"email/status_update"
	default:
		return ev.Customer.Email,
			fmt.Sprintf("Order %s confirmed", ev.Order.OrderNumber),
			"email/order_confirmation"
	}
}

func bind(ev Event) map[string]any {
	return map[string]any{
		"Order":      ev.Order,
		"Customer":   ev.Customer,
		"NewStatus":  ev.NewStatus,
		"StatusLine": StatusLine(ev.NewStatus),
		"Total":      ev.Order.TotalAmount.StringFixed(2),
	}
}

func message(from, to, subject, body string) []byte {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(body)
	return []byte(b.String())
}

// StatusLine is the customer-facing sentence for a status email.
func StatusLine(s domain.Status) string {
	switch s {
	case domain.StatusConfirmed:
		return "We have confirmed your order and will start on it soon."
	case domain.StatusPreparing:
		return "Our bakers are preparing your order."
	case domain.StatusReady:
		return "Your order is ready for pickup."
	case domain.StatusOutForDelivery:
		return "Your order is out for delivery."
	case domain.StatusDelivered:
		return "Your order has been delivered. Enjoy!"
	case domain.StatusCancelled:
		return "Your order has been cancelled."
	default:
		return "Your order status has been updated."
	}
}
