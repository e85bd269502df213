package handler

import (
	"github.com/gofiber/fiber/v2"

	"support-widget/internal/models"
	"support-widget/internal/service"
)

// ProductHandler wires HTTP → ProductResolver for explicit product syncs.
type ProductHandler struct {
	resolver service.ProductResolver
}

// NewProductHandler returns a handler instance.
func NewProductHandler(resolver service.ProductResolver) *ProductHandler {
	return &ProductHandler{resolver: resolver}
}

// Register mounts POST /product on the given router group.
func (h *ProductHandler) Register(r fiber.Router) {
	r.Post("/product", h.product)
}

// product handles POST /product?product_id=123: fetch, normalize and sync
// one product from the commerce platform, returning the normalized context.
func (h *ProductHandler) product(c *fiber.Ctx) error {
	productID := c.Query("product_id")
	if productID == "" {
		return fiber.NewError(fiber.StatusBadRequest, "product_id is required")
	}

	product, err := h.resolver.Resolve(c.UserContext(), models.ProductReference{ProductID: productID})
	if err != nil {
		return err
	}
	return c.JSON(product)
}
