package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"

	"support-widget/internal/config"
	"support-widget/internal/database"
	"support-widget/internal/handler"
	"support-widget/internal/middleware"
	"support-widget/internal/repository"
	"support-widget/internal/service"
	"support-widget/internal/shopify"
)

// main is the single entry-point for the REST API.
func main() {
	// Load configuration
	cfg := config.Load()
	log.Printf("Configuration loaded:")
	log.Printf("  - Database: %s", cfg.DBName)
	log.Printf("  - Shopify store: %s", cfg.ShopifyStore)

	// Connect to MongoDB (catalog store)
	client, ctx, cancel, err := database.NewMongo(cfg.MongoURI)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	defer cancel()
	defer client.Disconnect(ctx)
	log.Printf("Connected to MongoDB")

	// Initialize repositories
	db := client.Database(cfg.DBName)
	catalogRepo := repository.NewCatalogRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	questionRepo := repository.NewQuestionRepository(db)
	filterRepo := repository.NewFilterRepository(db)

	// The unique (question, category) index backs duplicate suppression.
	if err := questionRepo.EnsureIndexes(ctx); err != nil {
		log.Printf("Warning: failed to ensure question indexes: %v", err)
	}

	// Commerce platform client
	shopClient := shopify.NewClient(cfg.ShopifyStore, cfg.ShopifyToken)

	// LLM providers: OpenAI primary, Gemini fallback.
	openai := service.NewOpenAIProvider(cfg.OpenAIKey, cfg.OpenAIModel)
	gemini, err := service.NewGeminiProvider(context.Background(), cfg.ProjectID, cfg.Location, cfg.GeminiModel)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini provider: %v", err)
	}
	defer gemini.Close()

	// Initialize services
	generator := service.NewAnswerGenerator(
		[]service.Provider{openai, gemini},
		service.GeneratorConfig{
			MaxAttempts:    cfg.GenMaxAttempts,
			InitialBackoff: cfg.GenInitialBackoff,
		},
	)
	resolver := service.NewProductResolver(shopClient, catalogRepo, categoryRepo)
	matcher := service.NewKnowledgeMatcher(questionRepo)
	chatSvc := service.NewChatService(resolver, matcher, generator, questionRepo)
	catalogSvc := service.NewCatalogService(categoryRepo, catalogRepo, filterRepo)

	// Credential gate
	gate := middleware.NewAPIKeyGate(map[string]middleware.KeyConfig{
		cfg.WidgetAPIKey: {
			Name:      "Demo store",
			Domain:    "*",
			RateLimit: cfg.WidgetRateLimit,
		},
	})

	// Create Fiber app
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		ErrorHandler: handler.ErrorHandler,
	})

	// Add middleware
	app.Use(middleware.Logging())

	// Register routes
	handler.RegisterRoutes(app, gate, chatSvc, catalogSvc, resolver, questionRepo)

	// Add health check
	handler.NewHealthHandler(client).Register(app)

	// Start server
	log.Printf("Server starting on port %s", cfg.Port)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
