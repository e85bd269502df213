package handler

import (
	"github.com/gofiber/fiber/v2"

	"support-widget/internal/service"
)

// CatalogHandler wires HTTP → CatalogService (categories, product search,
// filter metadata).
type CatalogHandler struct {
	svc service.CatalogService
}

// NewCatalogHandler returns a handler instance.
func NewCatalogHandler(svc service.CatalogService) *CatalogHandler {
	return &CatalogHandler{svc: svc}
}

// Register mounts the product-discovery endpoints on the given router group.
func (h *CatalogHandler) Register(r fiber.Router) {
	r.Get("/fourth_level_categories", h.categories)
	r.Get("/products", h.products)
	r.Get("/category/:category_id", h.category)
	r.Get("/category_filters", h.categoryFilters)
}

// categories handles GET /fourth_level_categories, returning leaf categories only.
func (h *CatalogHandler) categories(c *fiber.Ctx) error {
	cats, err := h.svc.Categories(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": fiber.Map{"categories": cats}})
}

// products handles GET /products?category=...&search=...&brand=...&<facets>
func (h *CatalogHandler) products(c *fiber.Ctx) error {
	params := map[string]string{}
	for key, vals := range c.Queries() {
		params[key] = vals
	}

	rows, err := h.svc.Products(c.UserContext(), params)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"products": rows})
}

// category handles GET /category/:category_id, one category document so the
// widget can build the collection handle.
func (h *CatalogHandler) category(c *fiber.Ctx) error {
	cat, err := h.svc.Category(c.UserContext(), c.Params("category_id"))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"id":         cat.ID.Hex(),
		"name":       cat.Name,
		"breadcrumb": cat.Breadcrumb,
	})
}

// categoryFilters handles GET /category_filters?category_id=...
func (h *CatalogHandler) categoryFilters(c *fiber.Ctx) error {
	categoryID := c.Query("category_id")
	if categoryID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "category_id is required")
	}

	filters, err := h.svc.CategoryFilters(c.UserContext(), categoryID)
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": filters})
}
