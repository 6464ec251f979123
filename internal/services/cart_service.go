package services

import (
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	"sugarstudio/internal/domain"
	"sugarstudio/internal/log"
	"sugarstudio/internal/notify"
	"sugarstudio/internal/repos"
)

// CartService manages the per-customer cart. Carts hold live prices,
// not snapshots; prices freeze only when the cart becomes an order.
type CartService struct {
	carts     *repos.CartRepo
	products  *repos.ProductRepo
	customers *repos.CustomerRepo
}

func NewCartService(carts *repos.CartRepo, products *repos.ProductRepo, customers *repos.CustomerRepo) *CartService {
	return &CartService{carts: carts, products: products, customers: customers}
}

type Cart struct {
	Items     []repos.CartItemRow `json:"items"`
	ItemCount int                 `json:"item_count"`
	Total     decimal.Decimal     `json:"total"`
}

func (s *CartService) Get(customerID string) (Cart, error) {
	items, err := s.carts.Items(customerID)
	if err != nil {
		return Cart{}, domain.Storage("load cart", err)
	}
	cart := Cart{Items: items, Total: decimal.Zero}
	for _, it := range items {
		cart.ItemCount += it.Quantity
		cart.Total = cart.Total.Add(it.Subtotal)
	}
	return cart, nil
}

func (s *CartService) Add(customerID, productID string, qty int, instructions string) (Cart, error) {
	if qty < 1 {
		return Cart{}, domain.Validationf("quantity must be at least 1")
	}
	if _, err := s.customers.Get(customerID); errors.Is(err, sql.ErrNoRows) {
		return Cart{}, domain.NotFoundf("customer %s not found", customerID)
	} else if err != nil {
		return Cart{}, domain.Storage("load customer", err)
	}
	p, err := s.products.Get(productID)
	if errors.Is(err, sql.ErrNoRows) {
		return Cart{}, domain.NotFoundf("product %s not found", productID)
	}
	if err != nil {
		return Cart{}, domain.Storage("load product", err)
	}
	if !p.IsAvailable {
		return Cart{}, domain.Statef("product %q is not available", p.Name)
	}
	if err := s.carts.Upsert(customerID, productID, qty, instructions); err != nil {
		return Cart{}, domain.Storage("add to cart", err)
	}
	return s.Get(customerID)
}

func (s *CartService) UpdateItem(customerID, itemID string, qty int, instructions string) (Cart, error) {
	if qty < 1 {
		return Cart{}, domain.Validationf("quantity must be at least 1")
	}
	ok, err := s.carts.UpdateItem(itemID, qty, instructions)
	if err != nil {
		return Cart{}, domain.Storage("update cart item", err)
	}
	if !ok {
		return Cart{}, domain.NotFoundf("cart item %s not found", itemID)
	}
	return s.Get(customerID)
}

func (s *CartService) Remove(customerID, itemID string) (Cart, error) {
	ok, err := s.carts.Remove(itemID)
	if err != nil {
		return Cart{}, domain.Storage("remove cart item", err)
	}
	if !ok {
		return Cart{}, domain.NotFoundf("cart item %s not found", itemID)
	}
	return s.Get(customerID)
}

func (s *CartService) Clear(customerID string) error {
	if err := s.carts.Clear(customerID); err != nil {
		return domain.Storage("clear cart", err)
	}
	return nil
}

type CheckoutOptions struct {
	OrderType       string `json:"order_type"`
	ScheduledTime   string `json:"scheduled_time"`
	DeliveryAddress string `json:"delivery_address"`
	PaymentMethod   string `json:"payment_method"`
	Notes           string `json:"notes"`
}

// Checkout turns the cart into a placement request and empties the
// cart once the order commits. Placement itself runs through
// OrderService.Place, so checkout gets the same stock guarantees.
func (s *CartService) Checkout(customerID string, orders *OrderService, opts CheckoutOptions) (*domain.Order, []notify.Event, error) {
	items, err := s.carts.Items(customerID)
	if err != nil {
		return nil, nil, domain.Storage("load cart", err)
	}
	if len(items) == 0 {
		return nil, nil, domain.Validationf("cart is empty")
	}
	req := PlaceOrderRequest{
		CustomerID:      customerID,
		OrderType:       opts.OrderType,
		ScheduledTime:   opts.ScheduledTime,
		DeliveryAddress: opts.DeliveryAddress,
		PaymentMethod:   opts.PaymentMethod,
		Notes:           opts.Notes,
	}
	for _, it := range items {
		req.Items = append(req.Items, PlaceOrderItem{
			ProductID:           it.ProductID,
			Quantity:            it.Quantity,
			SpecialInstructions: it.SpecialInstructions,
		})
	}
	order, events, err := orders.Place(req)
	if err != nil {
		return nil, nil, err
	}
	if err := s.carts.Clear(customerID); err != nil {
		// The order exists either way; an uncleaned cart is only noise.
		log.Error(nil, "cart.clear_after_checkout", err, map[string]any{"customer_id": customerID})
	}
	return order, events, nil
}
