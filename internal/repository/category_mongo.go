package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"support-widget/internal/models"
)

// ErrCategoryNotFound is returned by FindByID when no category exists with
// the given id.
var ErrCategoryNotFound = errors.New("category not found")

// CategoryRepository provides Mongo-backed access to the category hierarchy.
type CategoryRepository struct {
	col *mongo.Collection
}

// NewCategoryRepository returns a CategoryRepository operating on the
// "product_category" collection.
func NewCategoryRepository(db *mongo.Database) *CategoryRepository {
	return &CategoryRepository{
		col: db.Collection("product_category"),
	}
}

// ListEndLevel returns all leaf categories in store order.
func (r *CategoryRepository) ListEndLevel(ctx context.Context) ([]models.Category, error) {
	cur, err := r.col.Find(ctx, bson.M{"end_level": true})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var cats []models.Category
	if err := cur.All(ctx, &cats); err != nil {
		return nil, err
	}
	return cats, nil
}

// FindByID fetches one category by id.
func (r *CategoryRepository) FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error) {
	var cat models.Category
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&cat)
	if err == mongo.ErrNoDocuments {
		return models.Category{}, ErrCategoryNotFound
	}
	return cat, err
}

// FindByName looks up a category by exact name match. The boolean reports
// whether a match exists; an absent category is not an error.
func (r *CategoryRepository) FindByName(ctx context.Context, name string) (models.Category, bool, error) {
	var cat models.Category
	err := r.col.FindOne(ctx, bson.M{"name": name}).Decode(&cat)
	if err == mongo.ErrNoDocuments {
		return models.Category{}, false, nil
	}
	if err != nil {
		return models.Category{}, false, err
	}
	return cat, true, nil
}

// EnsureByName returns the category with the given name, creating it as a
// leaf when absent. Used by the question importer only; the product sync path
// never creates categories.
func (r *CategoryRepository) EnsureByName(ctx context.Context, name, breadcrumb string) (models.Category, error) {
	cat, ok, err := r.FindByName(ctx, name)
	if err != nil {
		return models.Category{}, err
	}
	if ok {
		return cat, nil
	}

	cat = models.Category{
		ID:         primitive.NewObjectID(),
		Name:       name,
		Breadcrumb: breadcrumb,
		EndLevel:   true,
	}
	if _, err := r.col.InsertOne(ctx, cat); err != nil {
		return models.Category{}, err
	}
	return cat, nil
}
