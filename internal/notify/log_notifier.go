package notify

import (
	"sugarstudio/internal/log"
)

// LogNotifier is the dev fallback when SMTP is not configured: events
// land in the structured log instead of an inbox.
type LogNotifier struct{}

func (LogNotifier) Send(ev Event) error {
	log.Info(nil, "notify."+string(ev.Kind), map[string]any{
		"order_number": ev.Order.OrderNumber,
		"customer":     ev.Customer.Email,
		"status":       string(ev.NewStatus),
	})
	return nil
}
