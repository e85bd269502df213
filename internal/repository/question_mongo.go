package repository

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"support-widget/internal/models"
)

// caseInsensitive is the collation used for question lookups and the
// uniqueness index, so "What is the price?" and "what is the price?" are the
// same question.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// QuestionRepository provides Mongo-backed persistence for the question/answer
// knowledge base.
type QuestionRepository struct {
	col *mongo.Collection
}

// NewQuestionRepository returns a QuestionRepository operating on the
// "product_questions" collection.
func NewQuestionRepository(db *mongo.Database) *QuestionRepository {
	return &QuestionRepository{
		col: db.Collection("product_questions"),
	}
}

// EnsureIndexes creates the unique (question, category_id) index that backs
// duplicate suppression. Safe to call on every start.
func (r *QuestionRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.col.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "question", Value: 1},
			{Key: "category_id", Value: 1},
		},
		Options: options.Index().
			SetUnique(true).
			SetCollation(caseInsensitive).
			SetName("question_category_unique"),
	})
	return err
}

// FindAnswer performs a case-insensitive exact match of question within
// categoryID. The boolean reports a hit; a miss is not an error.
func (r *QuestionRepository) FindAnswer(ctx context.Context, question string, categoryID primitive.ObjectID) (string, bool, error) {
	var q models.Question
	err := r.col.FindOne(ctx,
		bson.M{"question": question, "category_id": categoryID},
		options.FindOne().SetCollation(caseInsensitive),
	).Decode(&q)
	if err == mongo.ErrNoDocuments {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return q.Answer, true, nil
}

// Save inserts a question/answer row, reporting whether a row was created.
// A duplicate (question, category_id) pair is silently skipped: the unique
// index is the safety net when two concurrent requests answer the same novel
// question, and the loser's answer was already returned to its caller.
func (r *QuestionRepository) Save(ctx context.Context, q models.Question) (bool, error) {
	if q.ID.IsZero() {
		q.ID = primitive.NewObjectID()
	}
	if q.CreatedAt.IsZero() {
		q.CreatedAt = time.Now()
	}

	_, err := r.col.InsertOne(ctx, q)
	if mongo.IsDuplicateKeyError(err) {
		log.Printf("[Question Repository] Skipping duplicate question: %q", q.Question)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// ListByProduct returns up to limit stored questions tagged with the given
// external product id.
func (r *QuestionRepository) ListByProduct(ctx context.Context, productID int64, limit int) ([]models.Question, error) {
	cur, err := r.col.Find(ctx,
		bson.M{"product_id": productID},
		options.Find().SetLimit(int64(limit)),
	)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var qs []models.Question
	if err := cur.All(ctx, &qs); err != nil {
		return nil, err
	}
	return qs, nil
}
