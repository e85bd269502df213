package handler

import (
	"context"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"support-widget/internal/models"
)

// maxListedQuestions caps GET /questions responses.
const maxListedQuestions = 5

// QuestionLister exposes stored questions per product.
type QuestionLister interface {
	ListByProduct(ctx context.Context, productID int64, limit int) ([]models.Question, error)
}

// QuestionsHandler wires HTTP → the question store.
type QuestionsHandler struct {
	questions QuestionLister
}

// NewQuestionsHandler returns a handler instance.
func NewQuestionsHandler(questions QuestionLister) *QuestionsHandler {
	return &QuestionsHandler{questions: questions}
}

// Register mounts GET /questions/:product_id on the given router group.
func (h *QuestionsHandler) Register(r fiber.Router) {
	r.Get("/questions/:product_id", h.list)
}

// list handles GET /questions/:product_id: up to five stored questions the
// widget can offer as suggestions.
func (h *QuestionsHandler) list(c *fiber.Ctx) error {
	productID, err := strconv.ParseInt(c.Params("product_id"), 10, 64)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "product_id must be an integer")
	}

	questions, err := h.questions.ListByProduct(c.UserContext(), productID, maxListedQuestions)
	if err != nil {
		return err
	}

	rows := make([]models.QuestionRow, len(questions))
	for i, q := range questions {
		rows[i] = models.QuestionRow{ID: q.ID.Hex(), Question: q.Question}
	}
	return c.JSON(rows)
}
