// Package notify delivers customer and staff emails for order events.
// Services return the events to send; the HTTP layer dispatches them
// after the database work has committed, so a failed email can never
// roll back an order.
package notify

import (
	"sugarstudio/internal/domain"
)

type Kind string

const (
	// KindOrderConfirmation goes to the customer right after placement.
	KindOrderConfirmation Kind = "order_confirmation"
	// KindStaffAlert tells the bakery a new order needs preparing.
	KindStaffAlert Kind = "staff_alert"
	// KindStatusUpdate goes to the customer on every status change.
	KindStatusUpdate Kind = "status_update"
)

type Event struct {
	Kind      Kind
	Order     domain.Order
	Customer  domain.Customer
	NewStatus domain.Status
}

type Notifier interface {
	Send(ev Event) error
}
