package repos

import (
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"

	"sugarstudio/internal/domain"
)

type OrderRepo struct{ db *sqlx.DB }

func NewOrderRepo(db *sqlx.DB) *OrderRepo { return &OrderRepo{db: db} }

// BeginTx starts the transaction the order writer and the cancel path
// run inside. Callers must commit or roll back.
func (r *OrderRepo) BeginTx() (*sqlx.Tx, error) {
	return r.db.Beginx()
}

const orderCols = `id, order_number, COALESCE(customer_id,'') AS customer_id, total_amount,
  status, order_type, COALESCE(scheduled_time,'') AS scheduled_time,
  COALESCE(delivery_address,'') AS delivery_address, COALESCE(payment_method,'') AS payment_method,
  COALESCE(notes,'') AS notes, created_at, COALESCE(updated_at,'') AS updated_at`

const orderItemCols = `oi.id, oi.order_id, oi.product_id, p.name AS product_name, oi.quantity,
  oi.unit_price, oi.subtotal, COALESCE(oi.special_instructions,'') AS special_instructions`

// InsertTx writes the order header inside the caller's transaction.
func (r *OrderRepo) InsertTx(tx *sqlx.Tx, o *domain.Order) error {
	_, err := tx.Exec(`
	  INSERT INTO orders
	    (id, order_number, customer_id, total_amount, status, order_type,
	     scheduled_time, delivery_address, payment_method, notes, created_at)
	  VALUES
	    (?, ?, NULLIF(?, ''), ?, ?, ?, NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), NULLIF(?, ''), CURRENT_TIMESTAMP)
	`, o.ID, o.OrderNumber, o.CustomerID, o.TotalAmount, o.Status, o.OrderType,
		o.ScheduledTime, o.DeliveryAddress, o.PaymentMethod, o.Notes)
	return err
}

func (r *OrderRepo) InsertItemTx(tx *sqlx.Tx, it *domain.OrderItem) error {
	_, err := tx.Exec(`
	  INSERT INTO order_items(id, order_id, product_id, quantity, unit_price, subtotal, special_instructions)
	  VALUES(?, ?, ?, ?, ?, ?, NULLIF(?, ''))
	`, it.ID, it.OrderID, it.ProductID, it.Quantity, it.UnitPrice, it.Subtotal, it.SpecialInstructions)
	return err
}

func (r *OrderRepo) Get(id string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE id = ?`, id); err != nil {
		return domain.Order{}, err
	}
	items, err := r.items(o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

// ByNumber resolves an order by its human-readable number (public tracking).
func (r *OrderRepo) ByNumber(orderNumber string) (domain.Order, error) {
	var o domain.Order
	if err := r.db.Get(&o, `SELECT `+orderCols+` FROM orders WHERE order_number = ?`, orderNumber); err != nil {
		return domain.Order{}, err
	}
	items, err := r.items(o.ID)
	if err != nil {
		return domain.Order{}, err
	}
	o.Items = items
	return o, nil
}

func (r *OrderRepo) items(orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := r.db.Select(&items, `
	  SELECT `+orderItemCols+`
	  FROM order_items oi
	  JOIN products p ON p.id = oi.product_id
	  WHERE oi.order_id = ?
	  ORDER BY p.name
	`, orderID)
	return items, err
}

// ItemsTx loads line items inside the cancel transaction.
func (r *OrderRepo) ItemsTx(tx *sqlx.Tx, orderID string) ([]domain.OrderItem, error) {
	items := []domain.OrderItem{}
	err := tx.Select(&items, `
	  SELECT oi.id, oi.order_id, oi.product_id, '' AS product_name, oi.quantity,
	         oi.unit_price, oi.subtotal, COALESCE(oi.special_instructions,'') AS special_instructions
	  FROM order_items oi
	  WHERE oi.order_id = ?
	`, orderID)
	return items, err
}

type OrderSummary struct {
	ID            string           `db:"id" json:"id"`
	OrderNumber   string           `db:"order_number" json:"order_number"`
	CustomerID    string           `db:"customer_id" json:"customer_id,omitempty"`
	CustomerName  string           `db:"customer_name" json:"customer_name,omitempty"`
	CustomerEmail string           `db:"customer_email" json:"customer_email,omitempty"`
	TotalAmount   decimal.Decimal  `db:"total_amount" json:"total_amount"`
	Status        domain.Status    `db:"status" json:"status"`
	OrderType     domain.OrderType `db:"order_type" json:"order_type"`
	ItemCount     int              `db:"item_count" json:"item_count"`
	CreatedAt     string           `db:"created_at" json:"created_at"`
}

type OrderFilter struct {
	Status     string
	CustomerID string
	DateFrom   string
	DateTo     string
	Limit      int
	Offset     int
}

func (r *OrderRepo) List(f OrderFilter) ([]OrderSummary, error) {
	where := `1=1`
	args := []any{}
	if f.Status != "" {
		where += ` AND o.status = ?`
		args = append(args, f.Status)
	}
	if f.CustomerID != "" {
		where += ` AND o.customer_id = ?`
		args = append(args, f.CustomerID)
	}
	if f.DateFrom != "" {
		where += ` AND o.created_at >= ?`
		args = append(args, f.DateFrom)
	}
	if f.DateTo != "" {
		where += ` AND o.created_at <= ?`
		args = append(args, f.DateTo)
	}
	limit := f.Limit
	if limit <= 0 {
		limit = 100
	}
	args = append(args, limit, f.Offset)

	out := []OrderSummary{}
	err := r.db.Select(&out, `
	  SELECT o.id, o.order_number, COALESCE(o.customer_id,'') AS customer_id,
	         COALESCE(c.first_name || ' ' || c.last_name, '') AS customer_name,
	         COALESCE(c.email,'') AS customer_email,
	         o.total_amount, o.status, o.order_type,
	         (SELECT COUNT(*) FROM order_items oi WHERE oi.order_id = o.id) AS item_count,
	         o.created_at
	  FROM orders o
	  LEFT JOIN customers c ON c.id = o.customer_id
	  WHERE `+where+`
	  ORDER BY datetime(o.created_at) DESC
	  LIMIT ? OFFSET ?`, args...)
	return out, err
}

func (r *OrderRepo) ListByCustomer(customerID string) ([]OrderSummary, error) {
	return r.List(OrderFilter{CustomerID: customerID})
}

// UpdateStatus is a compare-and-swap on the status column: the update
// only lands if the row still holds the status the caller read.
// Returns false when a concurrent transition won the race.
func (r *OrderRepo) UpdateStatus(id string, from, to domain.Status) (bool, error) {
	res, err := r.db.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = ?
	`, to, id, from)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

// UpdateStatusTx is the transactional variant used by cancellation so
// the status flip commits atomically with the stock restoration.
func (r *OrderRepo) UpdateStatusTx(tx *sqlx.Tx, id string, from, to domain.Status) (bool, error) {
	res, err := tx.Exec(`
	  UPDATE orders SET status = ?, updated_at = CURRENT_TIMESTAMP
	  WHERE id = ? AND status = ?
	`, to, id, from)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}

func (r *OrderRepo) Stats(dateFrom, dateTo string) (domain.OrderStats, error) {
	where := `1=1`
	args := []any{}
	if dateFrom != "" && dateTo != "" {
		where = `created_at BETWEEN ? AND ?`
		args = append(args, dateFrom, dateTo)
	}
	var s domain.OrderStats
	err := r.db.Get(&s, `
	  SELECT COUNT(*) AS total_orders,
	         COALESCE(SUM(total_amount),0) AS total_revenue,
	         COALESCE(AVG(total_amount),0) AS average_order_value,
	         COUNT(CASE WHEN status = 'delivered' THEN 1 END) AS completed_orders,
	         COUNT(CASE WHEN status = 'cancelled' THEN 1 END) AS cancelled_orders
	  FROM orders
	  WHERE `+where, args...)
	return s, err
}
