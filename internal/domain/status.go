package domain

type OrderType string

const (
	OrderTypePickup   OrderType = "pickup"
	OrderTypeDelivery OrderType = "delivery"
)

func ParseOrderType(s string) (OrderType, error) {
	switch OrderType(s) {
	case OrderTypePickup, OrderTypeDelivery:
		return OrderType(s), nil
	}
	return "", Validationf("invalid order type %q", s)
}

// Status is the lifecycle state of an order.
//
//	pending -> confirmed -> preparing -> ready -> delivered          (pickup)
//	pending -> confirmed -> preparing -> ready -> out_for_delivery -> delivered (delivery)
//
// cancelled is reachable from any non-terminal state. delivered and
// cancelled are terminal.
type Status string

const (
	StatusPending        Status = "pending"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending, StatusConfirmed, StatusPreparing, StatusReady,
		StatusOutForDelivery, StatusDelivered, StatusCancelled:
		return Status(s), nil
	}
	return "", Validationf("invalid status %q", s)
}

func (s Status) String() string { return string(s) }

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanCancel reports whether a cancel transition is allowed.
func (s Status) CanCancel() bool { return !s.Terminal() }

// Next returns the successor status for the given order type.
// Terminal statuses have no successor.
func (s Status) Next(t OrderType) (Status, error) {
	switch s {
	case StatusPending:
		return StatusConfirmed, nil
	case StatusConfirmed:
		return StatusPreparing, nil
	case StatusPreparing:
		return StatusReady, nil
	case StatusReady:
		if t == OrderTypeDelivery {
			return StatusOutForDelivery, nil
		}
		return StatusDelivered, nil
	case StatusOutForDelivery:
		return StatusDelivered, nil
	}
	return "", Statef("no valid next status after %q", s)
}
