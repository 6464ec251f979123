package services_test

import (
	"testing"

	"github.com/shopspring/decimal"

	"sugarstudio/internal/domain"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/services"
)

func newCartService(t *testing.T) (*services.CartService, *services.OrderService, *repos.ProductRepo, string) {
	t.Helper()
	db := memdb(t)
	prodRepo := repos.NewProductRepo(db)
	custRepo := repos.NewCustomerRepo(db)
	cartSvc := services.NewCartService(repos.NewCartRepo(db), prodRepo, custRepo)
	orderSvc := services.NewOrderService(repos.NewOrderRepo(db), prodRepo, custRepo)
	customerID := seedCustomer(t, db)
	return cartSvc, orderSvc, prodRepo, customerID
}

func TestCart_AddAndTotals(t *testing.T) {
	cartSvc, _, _, customerID := newCartService(t)

	cart, err := cartSvc.Add(customerID, "vanilla-cup", 3, "")
	if err != nil {
		t.Fatal(err)
	}
	if cart.ItemCount != 3 {
		t.Fatalf("want 3 items, got %d", cart.ItemCount)
	}
	// 3 x 80.00
	if want := decimal.RequireFromString("240.00"); !cart.Total.Equal(want) {
		t.Fatalf("want total %s, got %s", want, cart.Total)
	}

	// Same product merges quantities.
	cart, err = cartSvc.Add(customerID, "vanilla-cup", 2, "extra sprinkles")
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 || cart.ItemCount != 5 {
		t.Fatalf("want one merged line of 5, got %+v", cart)
	}
}

func TestCart_UnavailableProductRejected(t *testing.T) {
	cartSvc, _, prodRepo, customerID := newCartService(t)

	p, err := prodRepo.Get("red-velvet")
	if err != nil {
		t.Fatal(err)
	}
	p.IsAvailable = false
	if _, err := prodRepo.Update(&p); err != nil {
		t.Fatal(err)
	}

	_, err = cartSvc.Add(customerID, "red-velvet", 1, "")
	if domain.KindOf(err) != domain.KindState {
		t.Fatalf("want state error, got %v", err)
	}
}

func TestCart_UnknownCustomerAndProduct(t *testing.T) {
	cartSvc, _, _, customerID := newCartService(t)

	if _, err := cartSvc.Add("ghost", "vanilla-cup", 1, ""); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("want not_found for unknown customer, got %v", err)
	}
	if _, err := cartSvc.Add(customerID, "no-such", 1, ""); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("want not_found for unknown product, got %v", err)
	}
}

func TestCart_UpdateAndRemove(t *testing.T) {
	cartSvc, _, _, customerID := newCartService(t)

	cart, err := cartSvc.Add(customerID, "choco-chip", 2, "")
	if err != nil {
		t.Fatal(err)
	}
	itemID := cart.Items[0].ID

	cart, err = cartSvc.UpdateItem(customerID, itemID, 6, "no nuts")
	if err != nil {
		t.Fatal(err)
	}
	if cart.ItemCount != 6 {
		t.Fatalf("want 6, got %d", cart.ItemCount)
	}

	cart, err = cartSvc.Remove(customerID, itemID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart should be empty, got %+v", cart.Items)
	}

	if _, err := cartSvc.Remove(customerID, itemID); domain.KindOf(err) != domain.KindNotFound {
		t.Fatalf("want not_found for removed item, got %v", err)
	}
}

func TestCart_CheckoutPlacesOrderAndClearsCart(t *testing.T) {
	cartSvc, orderSvc, prodRepo, customerID := newCartService(t)

	if _, err := cartSvc.Add(customerID, "choc-truffle", 1, "happy birthday on top"); err != nil {
		t.Fatal(err)
	}
	if _, err := cartSvc.Add(customerID, "choco-chip", 4, ""); err != nil {
		t.Fatal(err)
	}

	order, events, err := cartSvc.Checkout(customerID, orderSvc, services.CheckoutOptions{
		OrderType: "pickup",
	})
	if err != nil {
		t.Fatal(err)
	}
	// 550.00 + 4 x 40.00
	if want := decimal.RequireFromString("710.00"); !order.TotalAmount.Equal(want) {
		t.Fatalf("want total %s, got %s", want, order.TotalAmount)
	}
	if len(events) != 2 {
		t.Fatalf("want staff alert plus confirmation, got %d events", len(events))
	}
	if got := stockOf(t, prodRepo, "choc-truffle"); got != 5 {
		t.Fatalf("want stock 5, got %d", got)
	}

	cart, err := cartSvc.Get(customerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 0 {
		t.Fatalf("cart should be cleared after checkout, got %+v", cart.Items)
	}

	// The line instructions survive onto the order.
	placed, err := orderSvc.Get(order.ID)
	if err != nil {
		t.Fatal(err)
	}
	var found bool
	for _, it := range placed.Items {
		if it.SpecialInstructions == "happy birthday on top" {
			found = true
		}
	}
	if !found {
		t.Fatalf("special instructions lost: %+v", placed.Items)
	}
}

func TestCart_CheckoutEmptyCart(t *testing.T) {
	cartSvc, orderSvc, _, customerID := newCartService(t)

	_, _, err := cartSvc.Checkout(customerID, orderSvc, services.CheckoutOptions{OrderType: "pickup"})
	if domain.KindOf(err) != domain.KindValidation {
		t.Fatalf("want validation error, got %v", err)
	}
}

func TestCart_CheckoutOversellKeepsCart(t *testing.T) {
	cartSvc, orderSvc, prodRepo, customerID := newCartService(t)

	if _, err := cartSvc.Add(customerID, "red-velvet", 4, ""); err != nil {
		t.Fatal(err)
	}
	// Someone buys the stock out from under the cart.
	if _, err := prodRepo.AdjustStock("red-velvet", "set", 1); err != nil {
		t.Fatal(err)
	}

	_, _, err := cartSvc.Checkout(customerID, orderSvc, services.CheckoutOptions{OrderType: "pickup"})
	if domain.KindOf(err) != domain.KindState {
		t.Fatalf("want state error, got %v", err)
	}

	cart, err := cartSvc.Get(customerID)
	if err != nil {
		t.Fatal(err)
	}
	if len(cart.Items) != 1 {
		t.Fatalf("failed checkout must keep the cart, got %+v", cart.Items)
	}
}
