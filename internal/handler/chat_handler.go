package handler

import (
	"github.com/gofiber/fiber/v2"

	"support-widget/internal/models"
	"support-widget/internal/service"
)

// ChatHandler wires HTTP → ChatService.
type ChatHandler struct {
	svc service.ChatService
}

// NewChatHandler returns a struct pointer so you can call Register on it.
func NewChatHandler(svc service.ChatService) *ChatHandler {
	return &ChatHandler{svc: svc}
}

// Register mounts the /chat endpoint on the supplied router group.
func (h *ChatHandler) Register(r fiber.Router) {
	r.Post("/chat", h.chat)
}

// chat handles POST /chat
// { "message": "...", "product_context": {...}, "product_id": "...", "session_id": "..." }
func (h *ChatHandler) chat(c *fiber.Ctx) error {
	var req models.ChatRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid JSON body")
	}

	resp, err := h.svc.ProcessMessage(c.UserContext(), req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
