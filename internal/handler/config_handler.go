package handler

import (
	"github.com/gofiber/fiber/v2"

	"support-widget/internal/models"
)

// ConfigHandler serves the static widget bootstrap configuration.
type ConfigHandler struct{}

// NewConfigHandler returns a handler instance.
func NewConfigHandler() *ConfigHandler {
	return &ConfigHandler{}
}

// Register mounts GET /config on the given router group.
func (h *ConfigHandler) Register(r fiber.Router) {
	r.Get("/config", h.config)
}

// config handles GET /config.
func (h *ConfigHandler) config(c *fiber.Ctx) error {
	return c.JSON(models.WidgetConfig{
		Theme: map[string]string{
			"primary_color":    "#1976d2",
			"secondary_color":  "#fff",
			"background_color": "#f5f5f5",
			"font_family":      "Arial, sans-serif",
		},
		Position:    "bottom-right",
		Greeting:    "Hello! Ask me about this product",
		Placeholder: "Type your message...",
	})
}
