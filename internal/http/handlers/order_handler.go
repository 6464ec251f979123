package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "sugarstudio/internal/log"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/services"
	"sugarstudio/internal/validate"
)

type OrderHandler struct {
	Orders *services.OrderService
	Notify NotifyFunc
}

// Place creates an order directly from a request body (guest checkout
// and the staff phone-order flow).
func (h *OrderHandler) Place(c *fiber.Ctx) error {
	var req services.PlaceOrderRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	order, events, err := h.Orders.Place(req)
	if err != nil {
		return fail(c, err)
	}
	h.Notify(events)
	applog.Audit(c, "order.place", map[string]any{
		"order_number": order.OrderNumber, "total": order.TotalAmount.String(), "items": len(order.Items),
	})
	return created(c, "order placed", order)
}

func (h *OrderHandler) Get(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid order id")
	}
	order, err := h.Orders.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "order", order)
}

// Track is the public lookup by order number; no auth required.
func (h *OrderHandler) Track(c *fiber.Ctx) error {
	number := strings.TrimSpace(c.Params("number"))
	if number == "" {
		return badRequest(c, "order number is required")
	}
	order, err := h.Orders.Track(number)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "order", order)
}

func (h *OrderHandler) List(c *fiber.Ctx) error {
	limit, offset := validate.Page(c.Query("limit"), c.Query("offset"))
	f := repos.OrderFilter{
		Status:     strings.TrimSpace(c.Query("status")),
		CustomerID: strings.TrimSpace(c.Query("customer")),
		DateFrom:   strings.TrimSpace(c.Query("from")),
		DateTo:     strings.TrimSpace(c.Query("to")),
		Limit:      limit,
		Offset:     offset,
	}
	orders, err := h.Orders.List(f)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "orders", orders)
}

// Advance moves an order one step along its lifecycle.
func (h *OrderHandler) Advance(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid order id")
	}
	order, events, err := h.Orders.Advance(id)
	if err != nil {
		return fail(c, err)
	}
	h.Notify(events)
	applog.Audit(c, "order.advance", map[string]any{
		"order_number": order.OrderNumber, "status": string(order.Status),
	})
	return ok(c, "order status updated", order)
}

// SetStatus moves an order to an explicit status.
func (h *OrderHandler) SetStatus(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid order id")
	}
	var req struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	order, events, err := h.Orders.SetStatus(id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	h.Notify(events)
	applog.Audit(c, "order.set_status", map[string]any{
		"order_number": order.OrderNumber, "status": string(order.Status),
	})
	return ok(c, "order status updated", order)
}

// Cancel voids the order and restores its stock.
func (h *OrderHandler) Cancel(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid order id")
	}
	order, events, err := h.Orders.Cancel(id)
	if err != nil {
		return fail(c, err)
	}
	h.Notify(events)
	applog.Audit(c, "order.cancel", map[string]any{"order_number": order.OrderNumber})
	return ok(c, "order cancelled", order)
}

func (h *OrderHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Orders.Stats(strings.TrimSpace(c.Query("from")), strings.TrimSpace(c.Query("to")))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "order stats", stats)
}
