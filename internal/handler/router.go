package handler

import (
	"github.com/gofiber/fiber/v2"

	"support-widget/internal/middleware"
	"support-widget/internal/service"
)

// RegisterRoutes mounts every authenticated endpoint under /api/v1, behind
// the credential gate.
func RegisterRoutes(app *fiber.App,
	gate *middleware.APIKeyGate,
	chatSvc service.ChatService,
	catalogSvc service.CatalogService,
	resolver service.ProductResolver,
	questions QuestionLister,
) {
	v1 := app.Group("/api/v1", gate.Handler())
	NewChatHandler(chatSvc).Register(v1)
	NewProductHandler(resolver).Register(v1)
	NewCatalogHandler(catalogSvc).Register(v1)
	NewQuestionsHandler(questions).Register(v1)
	NewConfigHandler().Register(v1)
}
