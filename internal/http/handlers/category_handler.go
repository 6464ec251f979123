package handlers

import (
	"github.com/gofiber/fiber/v2"

	applog "sugarstudio/internal/log"
	"sugarstudio/internal/repos"
	"sugarstudio/internal/services"
	"sugarstudio/internal/validate"
)

type CategoryHandler struct {
	Catalog *services.CatalogService
}

func (h *CategoryHandler) List(c *fiber.Ctx) error {
	// Staff can pass all=true to include deactivated categories.
	activeOnly := c.Query("all") != "true"
	cats, err := h.Catalog.Categories(activeOnly)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "categories", cats)
}

func (h *CategoryHandler) Get(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid category id")
	}
	cat, err := h.Catalog.Category(id)
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "category", cat)
}

// Products returns the category together with its product listing.
func (h *CategoryHandler) Products(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid category id")
	}
	cat, err := h.Catalog.Category(id)
	if err != nil {
		return fail(c, err)
	}
	limit, offset := validate.Page(c.Query("limit"), c.Query("offset"))
	products, err := h.Catalog.Products(repos.ProductFilter{CategoryID: id, Limit: limit, Offset: offset})
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "category products", fiber.Map{"category": cat, "products": products})
}

func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in services.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	cat, err := h.Catalog.CreateCategory(in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "category.create", map[string]any{"category_id": cat.ID, "name": cat.Name})
	return created(c, "category created", cat)
}

func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid category id")
	}
	var in services.CategoryInput
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "invalid request body")
	}
	cat, err := h.Catalog.UpdateCategory(id, in)
	if err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "category.update", map[string]any{"category_id": id})
	return ok(c, "category updated", cat)
}

func (h *CategoryHandler) Deactivate(c *fiber.Ctx) error {
	id, okID := validate.ID(c.Params("id"))
	if !okID {
		return badRequest(c, "invalid category id")
	}
	if err := h.Catalog.DeactivateCategory(id); err != nil {
		return fail(c, err)
	}
	applog.Audit(c, "category.deactivate", map[string]any{"category_id": id})
	return ok(c, "category deactivated", nil)
}

func (h *CategoryHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.Catalog.CategoryStats()
	if err != nil {
		return fail(c, err)
	}
	return ok(c, "category stats", stats)
}
