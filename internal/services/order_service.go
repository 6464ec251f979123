package services

import (
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"sugarstudio/internal/domain"
	"sugarstudio/internal/notify"
	"sugarstudio/internal/repos"
)

// OrderService owns order placement and the status lifecycle. Placement
// is a single transaction: every line item must be in stock or the
// whole order fails. Status moves are compare-and-swap writes so two
// staff members cannot both advance the same order.
type OrderService struct {
	orders    *repos.OrderRepo
	products  *repos.ProductRepo
	customers *repos.CustomerRepo
}

func NewOrderService(orders *repos.OrderRepo, products *repos.ProductRepo, customers *repos.CustomerRepo) *OrderService {
	return &OrderService{orders: orders, products: products, customers: customers}
}

type PlaceOrderItem struct {
	ProductID           string `json:"product_id"`
	Quantity            int    `json:"quantity"`
	SpecialInstructions string `json:"special_instructions"`
}

type PlaceOrderRequest struct {
	CustomerID      string           `json:"customer_id"`
	OrderType       string           `json:"order_type"`
	ScheduledTime   string           `json:"scheduled_time"`
	DeliveryAddress string           `json:"delivery_address"`
	PaymentMethod   string           `json:"payment_method"`
	Notes           string           `json:"notes"`
	Items           []PlaceOrderItem `json:"items"`
}

// Place creates an order atomically: price snapshots, guarded stock
// decrements and the order rows all commit together or not at all.
// The returned events are dispatched by the caller after commit.
func (s *OrderService) Place(req PlaceOrderRequest) (*domain.Order, []notify.Event, error) {
	orderType, err := domain.ParseOrderType(req.OrderType)
	if err != nil {
		return nil, nil, err
	}
	if len(req.Items) == 0 {
		return nil, nil, domain.Validationf("order must contain at least one item")
	}
	if orderType == domain.OrderTypeDelivery && req.DeliveryAddress == "" {
		return nil, nil, domain.Validationf("delivery orders require a delivery address")
	}
	for _, it := range req.Items {
		if it.ProductID == "" {
			return nil, nil, domain.Validationf("order item is missing a product id")
		}
		if it.Quantity < 1 {
			return nil, nil, domain.Validationf("quantity for product %s must be at least 1", it.ProductID)
		}
	}

	var customer domain.Customer
	if req.CustomerID != "" {
		customer, err = s.customers.Get(req.CustomerID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.NotFoundf("customer %s not found", req.CustomerID)
		}
		if err != nil {
			return nil, nil, domain.Storage("load customer", err)
		}
	}

	tx, err := s.orders.BeginTx()
	if err != nil {
		return nil, nil, domain.Storage("begin order transaction", err)
	}
	defer tx.Rollback()

	order := domain.Order{
		ID:              uuid.NewString(),
		OrderNumber:     newOrderNumber(),
		CustomerID:      req.CustomerID,
		Status:          domain.StatusPending,
		OrderType:       orderType,
		ScheduledTime:   req.ScheduledTime,
		DeliveryAddress: req.DeliveryAddress,
		PaymentMethod:   req.PaymentMethod,
		Notes:           req.Notes,
	}

	total := decimal.Zero
	for _, it := range req.Items {
		p, err := s.products.GetTx(tx, it.ProductID)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.NotFoundf("product %s not found", it.ProductID)
		}
		if err != nil {
			return nil, nil, domain.Storage("load product", err)
		}
		if !p.IsAvailable {
			return nil, nil, domain.Statef("product %q is not available", p.Name)
		}
		if err := s.products.DecrementStockTx(tx, p.ID, it.Quantity); err != nil {
			return nil, nil, err
		}
		// Price is frozen here; later catalog edits never touch this order.
		sub := p.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		order.Items = append(order.Items, domain.OrderItem{
			ID:                  uuid.NewString(),
			OrderID:             order.ID,
			ProductID:           p.ID,
			ProductName:         p.Name,
			Quantity:            it.Quantity,
			UnitPrice:           p.Price,
			Subtotal:            sub,
			SpecialInstructions: it.SpecialInstructions,
		})
		total = total.Add(sub)
	}
	order.TotalAmount = total

	if err := s.orders.InsertTx(tx, &order); err != nil {
		return nil, nil, domain.Storage("insert order", err)
	}
	for i := range order.Items {
		if err := s.orders.InsertItemTx(tx, &order.Items[i]); err != nil {
			return nil, nil, domain.Storage("insert order item", err)
		}
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, domain.Storage("commit order", err)
	}

	events := []notify.Event{{Kind: notify.KindStaffAlert, Order: order}}
	if customer.Email != "" {
		events = append(events, notify.Event{Kind: notify.KindOrderConfirmation, Order: order, Customer: customer})
	}
	return &order, events, nil
}

// newOrderNumber builds a short human-readable reference: BK, the last
// six digits of the millisecond clock, and a random three-digit suffix.
// Uniqueness is ultimately enforced by the column constraint.
func newOrderNumber() string {
	ms := time.Now().UnixMilli() % 1_000_000
	return fmt.Sprintf("BK%06d%03d", ms, rand.Intn(1000))
}

// Advance moves an order to its next lifecycle status.
func (s *OrderService) Advance(id string) (*domain.Order, []notify.Event, error) {
	order, err := s.get(id)
	if err != nil {
		return nil, nil, err
	}
	next, err := order.Status.Next(order.OrderType)
	if err != nil {
		return nil, nil, err
	}
	return s.swap(order, next)
}

// SetStatus moves an order directly to the named status. Cancellation
// routes through Cancel so stock restoration is never skipped.
func (s *OrderService) SetStatus(id, statusStr string) (*domain.Order, []notify.Event, error) {
	status, err := domain.ParseStatus(statusStr)
	if err != nil {
		return nil, nil, err
	}
	if status == domain.StatusCancelled {
		return s.Cancel(id)
	}
	order, err := s.get(id)
	if err != nil {
		return nil, nil, err
	}
	if order.Status.Terminal() {
		return nil, nil, domain.Statef("order %s is %s and cannot change status", order.OrderNumber, order.Status)
	}
	if status == order.Status {
		return &order, nil, nil
	}
	return s.swap(order, status)
}

func (s *OrderService) swap(order domain.Order, to domain.Status) (*domain.Order, []notify.Event, error) {
	ok, err := s.orders.UpdateStatus(order.ID, order.Status, to)
	if err != nil {
		return nil, nil, domain.Storage("update order status", err)
	}
	if !ok {
		return nil, nil, domain.Statef("order %s changed status concurrently, reload and retry", order.OrderNumber)
	}
	order.Status = to
	return &order, s.statusEvents(order), nil
}

// Cancel voids a non-terminal order and restores the stock it reserved,
// in one transaction with the status flip.
func (s *OrderService) Cancel(id string) (*domain.Order, []notify.Event, error) {
	order, err := s.get(id)
	if err != nil {
		return nil, nil, err
	}
	if !order.Status.CanCancel() {
		return nil, nil, domain.Statef("order %s is %s and cannot be cancelled", order.OrderNumber, order.Status)
	}

	tx, err := s.orders.BeginTx()
	if err != nil {
		return nil, nil, domain.Storage("begin cancel transaction", err)
	}
	defer tx.Rollback()

	items, err := s.orders.ItemsTx(tx, order.ID)
	if err != nil {
		return nil, nil, domain.Storage("load order items", err)
	}
	for _, it := range items {
		if err := s.products.RestoreStockTx(tx, it.ProductID, it.Quantity); err != nil {
			return nil, nil, domain.Storage("restore stock", err)
		}
	}
	ok, err := s.orders.UpdateStatusTx(tx, order.ID, order.Status, domain.StatusCancelled)
	if err != nil {
		return nil, nil, domain.Storage("cancel order", err)
	}
	if !ok {
		return nil, nil, domain.Statef("order %s changed status concurrently, reload and retry", order.OrderNumber)
	}
	if err := tx.Commit(); err != nil {
		return nil, nil, domain.Storage("commit cancel", err)
	}

	order.Status = domain.StatusCancelled
	return &order, s.statusEvents(order), nil
}

func (s *OrderService) statusEvents(order domain.Order) []notify.Event {
	if order.CustomerID == "" {
		return nil
	}
	customer, err := s.customers.Get(order.CustomerID)
	if err != nil || customer.Email == "" {
		return nil
	}
	return []notify.Event{{Kind: notify.KindStatusUpdate, Order: order, Customer: customer, NewStatus: order.Status}}
}

func (s *OrderService) get(id string) (domain.Order, error) {
	order, err := s.orders.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NotFoundf("order %s not found", id)
	}
	if err != nil {
		return domain.Order{}, domain.Storage("load order", err)
	}
	return order, nil
}

func (s *OrderService) Get(id string) (domain.Order, error) { return s.get(id) }

// Track resolves an order by its public order number.
func (s *OrderService) Track(orderNumber string) (domain.Order, error) {
	order, err := s.orders.ByNumber(orderNumber)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Order{}, domain.NotFoundf("order %s not found", orderNumber)
	}
	if err != nil {
		return domain.Order{}, domain.Storage("load order", err)
	}
	return order, nil
}

func (s *OrderService) List(f repos.OrderFilter) ([]repos.OrderSummary, error) {
	out, err := s.orders.List(f)
	if err != nil {
		return nil, domain.Storage("list orders", err)
	}
	return out, nil
}

func (s *OrderService) ListByCustomer(customerID string) ([]repos.OrderSummary, error) {
	out, err := s.orders.ListByCustomer(customerID)
	if err != nil {
		return nil, domain.Storage("list customer orders", err)
	}
	return out, nil
}

func (s *OrderService) Stats(dateFrom, dateTo string) (domain.OrderStats, error) {
	stats, err := s.orders.Stats(dateFrom, dateTo)
	if err != nil {
		return domain.OrderStats{}, domain.Storage("order stats", err)
	}
	return stats, nil
}
