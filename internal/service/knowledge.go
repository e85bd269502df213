package service

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// QuestionFinder looks up stored answers by exact question text within a
// category.
type QuestionFinder interface {
	FindAnswer(ctx context.Context, question string, categoryID primitive.ObjectID) (string, bool, error)
}

// KnowledgeMatcher checks the question/answer knowledge base for a
// pre-authored answer before any generation happens.
type KnowledgeMatcher interface {
	// Lookup returns the stored answer for (query, category), or ok=false on
	// a miss. A nil category is always a miss: there is no cross-category
	// search. Matching is case-insensitive exact: no stemming, no partial
	// matching.
	Lookup(ctx context.Context, query string, categoryID *primitive.ObjectID) (string, bool, error)
}

type knowledgeMatcher struct {
	questions QuestionFinder
}

// NewKnowledgeMatcher wires the question store.
func NewKnowledgeMatcher(questions QuestionFinder) KnowledgeMatcher {
	return &knowledgeMatcher{questions: questions}
}

func (m *knowledgeMatcher) Lookup(ctx context.Context, query string, categoryID *primitive.ObjectID) (string, bool, error) {
	if categoryID == nil {
		return "", false, nil
	}

	answer, ok, err := m.questions.FindAnswer(ctx, query, *categoryID)
	if err != nil || !ok {
		return "", false, err
	}
	// A stored row with a blank answer is useless; treat it as a miss so the
	// generator can produce a real one.
	if strings.TrimSpace(answer) == "" {
		return "", false, nil
	}
	return answer, true, nil
}
