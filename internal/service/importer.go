package service

import (
	"context"
	"log"
	"strings"

	"support-widget/internal/models"
)

// CategoryEnsurer finds or creates the leaf category a question row belongs
// to.
type CategoryEnsurer interface {
	EnsureByName(ctx context.Context, name, breadcrumb string) (models.Category, error)
}

// QuestionImportRow is one decoded row of a bulk question import.
type QuestionImportRow struct {
	Question     string
	Answer       string
	QuestionType string
	CategoryName string
	Breadcrumb   string
}

// ImportSummary reports what a bulk import did.
type ImportSummary struct {
	Saved   int
	Skipped int
}

// QuestionImporter bulk-loads pre-authored question/answer rows into the
// knowledge base, find-or-creating their categories.
type QuestionImporter struct {
	questions  QuestionWriter
	categories CategoryEnsurer
}

// NewQuestionImporter wires dependencies.
func NewQuestionImporter(questions QuestionWriter, categories CategoryEnsurer) *QuestionImporter {
	return &QuestionImporter{questions: questions, categories: categories}
}

// Import saves each row, skipping blanks and duplicates. Rows with no
// category name fall into the "Uncategorized" bucket.
func (im *QuestionImporter) Import(ctx context.Context, rows []QuestionImportRow) (ImportSummary, error) {
	var sum ImportSummary
	for _, row := range rows {
		question := strings.TrimSpace(row.Question)
		answer := strings.TrimSpace(row.Answer)
		if question == "" || answer == "" {
			sum.Skipped++
			continue
		}

		name := strings.TrimSpace(row.CategoryName)
		if name == "" {
			name = "Uncategorized"
		}
		cat, err := im.categories.EnsureByName(ctx, name, row.Breadcrumb)
		if err != nil {
			return sum, err
		}

		catID := cat.ID
		inserted, err := im.questions.Save(ctx, models.Question{
			Question:     question,
			Answer:       answer,
			QuestionType: row.QuestionType,
			CategoryID:   &catID,
		})
		if err != nil {
			return sum, err
		}
		if inserted {
			sum.Saved++
		} else {
			log.Printf("[Importer] Skipping duplicate question: %q", question)
			sum.Skipped++
		}
	}
	return sum, nil
}
