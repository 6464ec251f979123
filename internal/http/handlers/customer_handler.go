package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "sugarstudio/internal/log"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/services"
	"sugarstudio/internal/validate"
)

type CustomerHandler struct {
	Customers *services.CustomerService
	Order     *services.OrderService
}

func (h *CustomerHandler) List(c *fiber.Ctx) error {
	limit, offset := validate.Page(c.Query("limit"), c.Query("offset"))
	f := repos.CustomerFilter{
		Search:   strings.TrimSpace(c.Query("search")),
		IsActive: boolQuery(c, "active"),
		Limit:    limit,
		Offset:   offset,
	}
	customers, err := h.Customers.List(f)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "customers", customers)
}

func (h *CustomerHandler) Get(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	customer, err := h.Customers.Get(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "customer", customer)
}

// ByEmail resolves a customer record from an email address, used by
// staff taking phone orders.
func (h *CustomerHandler) ByEmail(c *fiber.Ctx) error {
	customer, err := h.Customers.ByEmail(c.Query("email"))
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "customer", customer)
}

func (h *CustomerHandler) Create(c *fiber.Ctx) error {
	var in services.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	customer, err := h.Customers.Create(in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "customer.create", map[string]any{"customer_id": customer.ID})
	return created(c, "customer created", customer)
}

func (h *CustomerHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	var in services.CustomerInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	customer, err := h.Customers.Update(id, in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "customer.update", map[string]any{"customer_id": id})
	return ok(c, "customer updated", customer)
}

func (h *CustomerHandler) Deactivate(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	if err := h.Customers.Deactivate(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "customer.deactivate", map[string]any{"customer_id": id})
	return ok(c, "customer deactivated", nil)
}

// Orders lists a customer's order history.
func (h *CustomerHandler) Orders(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	if _, err := h.Customers.Get(id); err != nil {
		return fail(c, err)
	}
	orders, err := h.Order.ListByCustomer(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "customer orders", orders)
}

func (h *CustomerHandler) Stats(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid customer id")
	}
	stats, err := h.Customers.Stats(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "customer stats", stats)
}
