package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "sugarstudio/internal/log"
	"sugarstudio/internal/services"
	"sugarstudio/internal/validate"
)

type CartHandler struct {
	Cart   *services.CartService
	Orders *services.OrderService
	Notify NotifyFunc
}

func (h *CartHandler) Get(c *fiber.Ctx) error {
	customerID, okID := validate.ID(c.Params("customerId"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	cart, err := h.Cart.Get(customerID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "cart", cart)
}

func (h *CartHandler) Add(c *fiber.Ctx) error {
	customerID, okID := validate.ID(c.Params("customerId"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	var req struct {
		ProductID           string `json:"product_id"`
		Quantity            int    `json:"quantity"`
		SpecialInstructions string `json:"special_instructions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cart, err := h.Cart.Add(customerID, req.ProductID, req.Quantity, req.SpecialInstructions)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "item added to cart", cart)
}

func (h *CartHandler) UpdateItem(c *fiber.Ctx) error {
	customerID, okID := validate.ID(c.Params("customerId"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	itemID, okItem := validate.ID(c.Params("itemId"))
	if !okItem {
		return badRequest(c, "invalid cart item id")
	}
	var req struct {
		Quantity            int    `json:"quantity"`
		SpecialInstructions string `json:"special_instructions"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	cart, err := h.Cart.UpdateItem(customerID, itemID, req.Quantity, req.SpecialInstructions)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "cart item updated", cart)
}

func (h *CartHandler) Remove(c *fiber.Ctx) error {
	customerID, okID := validate.ID(c.Params("customerId"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	itemID, okItem := validate.ID(c.Params("itemId"))
	if !okItem {
		return badRequest(c, "invalid cart item id")
	}
	cart, err := h.Cart.Remove(customerID, itemID)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "cart item removed", cart)
}

func (h *CartHandler) Clear(c *fiber.Ctx) error {
	customerID, okID := validate.ID(c.Params("customerId"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	if err := h.Cart.Clear(customerID); err != nil {
		return fail(c, err)
	}
	return ok(c, "cart cleared", nil)
}

// Checkout places an order from the cart contents.
func (h *CartHandler) Checkout(c *fiber.Ctx) error {
	customerID, okID := validate.ID(c.Params("customerId"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	var opts services.CheckoutOptions
	if err := c.BodyParser(&opts); err != nil {
		return badRequest(c, "invalid request body")
	}
	order, events, err := h.Cart.Checkout(customerID, h.Orders, opts)
	if err != nil {
		return fail(c, err)
	}
	h.Notify(events)
	applog.Audit(c, "cart.checkout", map[string]any{
		"customer_id": customerID, "order_number": order.OrderNumber, "total": order.TotalAmount.String(),
	})
	return created(c, "order placed", order)
}
