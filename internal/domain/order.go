package domain

import "github.com/shopspring/decimal"

type Order struct {
	ID              string          `db:"id" json:"id"`
	OrderNumber     string          `db:"order_number" json:"order_number"`
	CustomerID      string          `db:"customer_id" json:"customer_id,omitempty"` // empty for guest checkout
	TotalAmount     decimal.Decimal `db:"total_amount" json:"total_amount"`
	Status          Status          `db:"status" json:"status"`
	OrderType       OrderType       `db:"order_type" json:"order_type"`
	ScheduledTime   string          `db:"scheduled_time" json:"scheduled_time,omitempty"`
	DeliveryAddress string          `db:"delivery_address" json:"delivery_address,omitempty"`
	PaymentMethod   string          `db:"payment_method" json:"payment_method,omitempty"`
	Notes           string          `db:"notes" json:"notes,omitempty"`
	CreatedAt       string          `db:"created_at" json:"created_at"`
	UpdatedAt       string          `db:"updated_at" json:"updated_at,omitempty"`

	Items []OrderItem `db:"-" json:"items,omitempty"`
}

// OrderItem carries a price snapshot: UnitPrice is the product price at
// order time and is never re-derived from the product row.
type OrderItem struct {
	ID                  string          `db:"id" json:"id"`
	OrderID             string          `db:"order_id" json:"-"`
	ProductID           string          `db:"product_id" json:"product_id"`
	ProductName         string          `db:"product_name" json:"product_name,omitempty"`
	Quantity            int             `db:"quantity" json:"quantity"`
	UnitPrice           decimal.Decimal `db:"unit_price" json:"unit_price"`
	Subtotal            decimal.Decimal `db:"subtotal" json:"subtotal"`
	SpecialInstructions string          `db:"special_instructions" json:"special_instructions,omitempty"`
}

type OrderStats struct {
	TotalOrders       int             `db:"total_orders" json:"total_orders"`
	TotalRevenue      decimal.Decimal `db:"total_revenue" json:"total_revenue"`
	AverageOrderValue decimal.Decimal `db:"average_order_value" json:"average_order_value"`
	CompletedOrders   int             `db:"completed_orders" json:"completed_orders"`
	CancelledOrders   int             `db:"cancelled_orders" json:"cancelled_orders"`
}
