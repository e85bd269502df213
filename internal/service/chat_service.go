package service

import (
	"context"
	"log"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"support-widget/internal/apperr"
	"support-widget/internal/models"
)

// QuestionWriter persists freshly generated answers back into the knowledge
// base (the write-through cache step).
type QuestionWriter interface {
	Save(ctx context.Context, q models.Question) (bool, error)
}

// ChatService runs one support-chat turn end to end.
type ChatService interface {
	ProcessMessage(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error)
}

type chatService struct {
	resolver  ProductResolver
	matcher   KnowledgeMatcher
	generator AnswerGenerator
	questions QuestionWriter
}

// NewChatService wires dependencies and returns ChatService.
func NewChatService(resolver ProductResolver, matcher KnowledgeMatcher, generator AnswerGenerator, questions QuestionWriter) ChatService {
	return &chatService{
		resolver:  resolver,
		matcher:   matcher,
		generator: generator,
		questions: questions,
	}
}

// ProcessMessage runs the fixed pipeline: validate → resolve → knowledge
// lookup → generate → persist. Each step is terminal on failure except the
// final persist, which is logged and swallowed because the answer has already
// been computed for the caller.
func (s *chatService) ProcessMessage(ctx context.Context, req models.ChatRequest) (models.ChatResponse, error) {
	query := strings.TrimSpace(req.Message)
	if query == "" {
		return models.ChatResponse{}, apperr.New(apperr.KindInvalidRequest, "message is required")
	}
	if req.ProductContext == nil && strings.TrimSpace(req.ProductID) == "" {
		return models.ChatResponse{}, apperr.New(apperr.KindInvalidRequest, "a product_context or product_id is required")
	}

	product, err := s.resolver.Resolve(ctx, models.ProductReference{
		Context:   req.ProductContext,
		ProductID: req.ProductID,
	})
	if err != nil {
		return models.ChatResponse{}, err
	}
	if product.Title == "" && product.Name == "" {
		return models.ChatResponse{}, apperr.New(apperr.KindInvalidRequest,
			"resolved product has no usable title")
	}

	sessionID := req.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	if answer, ok, err := s.matcher.Lookup(ctx, query, product.CategoryID); err != nil {
		return models.ChatResponse{}, err
	} else if ok {
		log.Printf("[Chat Service] Knowledge-base hit for %q", query)
		return s.respond(answer, sessionID, product), nil
	}

	answer, err := s.generator.Generate(ctx, query, product)
	if err != nil {
		return models.ChatResponse{}, err
	}

	// Write-through cache: persist the generated pair for future exact
	// matches. Failures (store down, duplicate race) must not cost the
	// caller an answer that already exists.
	q := models.Question{
		Question:     query,
		Answer:       answer,
		QuestionType: "ai_generated",
		CategoryID:   product.CategoryID,
	}
	if product.ID != 0 {
		pid := product.ID
		q.ProductID = &pid
	}
	if _, err := s.questions.Save(ctx, q); err != nil {
		log.Printf("[Chat Service] Failed to persist answer for %q: %v", query, err)
	}

	return s.respond(answer, sessionID, product), nil
}

func (s *chatService) respond(answer, sessionID string, product models.NormalizedProduct) models.ChatResponse {
	productID := product.SKU
	if product.ID != 0 {
		productID = strconv.FormatInt(product.ID, 10)
	}
	return models.ChatResponse{
		Response:  answer,
		SessionID: sessionID,
		ProductID: productID,
	}
}
