package repository

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"support-widget/internal/models"
)

// FilterRepository provides Mongo-backed access to per-category facet
// definitions.
type FilterRepository struct {
	col *mongo.Collection
}

// NewFilterRepository returns a FilterRepository operating on the "filter"
// collection.
func NewFilterRepository(db *mongo.Database) *FilterRepository {
	return &FilterRepository{
		col: db.Collection("filter"),
	}
}

// ListByCategory returns every filter defined for the category, in store
// order. Option pruning and sorting are the service's concern.
func (r *FilterRepository) ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Filter, error) {
	cur, err := r.col.Find(ctx, bson.M{"category_id": categoryID})
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var filters []models.Filter
	if err := cur.All(ctx, &filters); err != nil {
		return nil, err
	}
	return filters, nil
}
