package handlers

import (
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"

	applog "sugarstudio/internal/log"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/services"
	"sugarstudio/internal/validate"
)

type ProductHandler struct {
	Catalog *services.CatalogService
}

func boolQuery(c *fiber.Ctx, key string) *bool {
	v := strings.TrimSpace(c.Query(key))
	if v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}

func (h *ProductHandler) List(c *fiber.Ctx) error {
	limit, offset := validate.Page(c.Query("limit"), c.Query("offset"))
	f := repos.ProductFilter{
		CategoryID: strings.TrimSpace(c.Query("category")),
		Q:          strings.ToLower(strings.TrimSpace(c.Query("q"))),
		Available:  boolQuery(c, "available"),
		Featured:   boolQuery(c, "featured"),
		Limit:      limit,
		Offset:     offset,
	}
	products, err := h.Catalog.Products(f)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "products", products)
}

func (h *ProductHandler) Get(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	p, err := h.Catalog.Product(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "product", p)
}

// Availability is the storefront stock badge endpoint.
func (h *ProductHandler) Availability(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	avail, err := h.Catalog.Availability(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "availability", avail)
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Catalog.CreateProduct(in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.create", map[string]any{"product_id": p.ID, "name": p.Name})
	return created(c, "product created", p)
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	var in services.ProductInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Catalog.UpdateProduct(id, in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.update", map[string]any{"product_id": id})
	return ok(c, "product updated", p)
}

func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	if err := h.Catalog.DeleteProduct(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.delete", map[string]any{"product_id": id})
	return ok(c, "product deleted", nil)
}

// AdjustStock handles staff stock corrections: add, subtract or set.
func (h *ProductHandler) AdjustStock(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid product id")
	}
	var req struct {
		Operation string `json:"operation"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	p, err := h.Catalog.AdjustStock(id, req.Operation, req.Quantity)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "product.stock."+req.Operation, map[string]any{
		"product_id": id, "quantity": req.Quantity, "stock_after": p.StockQuantity,
	})
	return ok(c, "stock updated", p)
}
