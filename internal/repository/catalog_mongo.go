package repository

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"support-widget/internal/models"
)

// CatalogRepository provides Mongo-backed persistence for synced catalog
// products.
type CatalogRepository struct {
	col *mongo.Collection
}

// NewCatalogRepository returns a CatalogRepository operating on the
// "shopify_products" collection.
//
// Expected schema:
//
//	shopify_products
//	  { _id: int64, title, vendor, brand, product_type, handle, tags,
//	    body_html, description, image_url, variants: [...],
//	    attributes: {name: value}, category_id: ObjectId, last_synced }
func NewCatalogRepository(db *mongo.Database) *CatalogRepository {
	return &CatalogRepository{
		col: db.Collection("shopify_products"),
	}
}

// Upsert inserts or replaces the record with the same external product id.
func (r *CatalogRepository) Upsert(ctx context.Context, p models.CatalogProduct) error {
	_, err := r.col.ReplaceOne(
		ctx,
		bson.M{"_id": p.ID},
		p,
		options.Replace().SetUpsert(true),
	)
	if err != nil {
		log.Printf("[Catalog Repository] Error upserting product %d: %v", p.ID, err)
		return err
	}
	return nil
}

// FindByID fetches a catalog product by its external id.
// A missing document returns an empty record and a nil error so callers can
// decide to sync.
func (r *CatalogRepository) FindByID(ctx context.Context, id int64) (models.CatalogProduct, error) {
	var p models.CatalogProduct
	err := r.col.FindOne(ctx, bson.M{"_id": id}).Decode(&p)
	if err == mongo.ErrNoDocuments {
		return models.CatalogProduct{}, nil
	}
	return p, err
}

// Search runs the faceted product query and returns flattened projection rows.
// Absent fields get deterministic defaults in the projection stage so the
// widget never sees raw stored documents.
func (r *CatalogRepository) Search(ctx context.Context, q models.ProductQuery) ([]models.ProductRow, error) {
	match := bson.M{}
	if q.CategoryID != nil {
		match["category_id"] = *q.CategoryID
	}
	if len(q.Brands) > 0 {
		match["brand"] = bson.M{"$in": q.Brands}
	}
	for name, values := range q.Attributes {
		match["attributes."+name] = bson.M{"$in": values}
	}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$lookup", Value: bson.D{
			{Key: "from", Value: "product_category"},
			{Key: "localField", Value: "category_id"},
			{Key: "foreignField", Value: "_id"},
			{Key: "as", Value: "product_category_ins"},
		}}},
		{{Key: "$unwind", Value: "$product_category_ins"}},
	}

	if q.Search != "" {
		pipeline = append(pipeline, bson.D{{Key: "$match", Value: bson.M{
			"$or": bson.A{
				bson.M{"brand": bson.M{"$regex": q.Search, "$options": "i"}},
				bson.M{"title": bson.M{"$regex": q.Search, "$options": "i"}},
				bson.M{"sku": bson.M{"$regex": q.Search, "$options": "i"}},
			},
		}}})
	}

	pipeline = append(pipeline, bson.D{{Key: "$project", Value: bson.D{
		{Key: "_id", Value: 0},
		{Key: "id", Value: bson.M{"$toString": "$_id"}},
		{Key: "shopify_id", Value: "$_id"},
		{Key: "handle", Value: bson.M{"$ifNull": bson.A{"$handle", ""}}},
		{Key: "variant_id", Value: bson.M{"$ifNull": bson.A{bson.M{"$first": "$variants.id"}, nil}}},
		{Key: "image", Value: bson.M{"$ifNull": bson.A{"$image_url", ""}}},
		{Key: "title", Value: bson.M{"$ifNull": bson.A{"$title", "Untitled"}}},
		{Key: "sku", Value: bson.M{"$ifNull": bson.A{bson.M{"$first": "$variants.sku"}, "N/A"}}},
		{Key: "category", Value: bson.M{"$ifNull": bson.A{"$product_category_ins.name", "Uncategorized"}}},
		{Key: "breadcrumb", Value: bson.M{"$ifNull": bson.A{"$product_category_ins.breadcrumb", ""}}},
		{Key: "price", Value: bson.M{"$ifNull": bson.A{bson.M{"$first": "$variants.price"}, 0}}},
		{Key: "description", Value: bson.M{"$ifNull": bson.A{"$body_html", ""}}},
		{Key: "tags", Value: bson.M{"$ifNull": bson.A{"$tags", bson.A{}}}},
		{Key: "brand", Value: bson.M{"$ifNull": bson.A{"$brand", ""}}},
		{Key: "vendor", Value: bson.M{"$ifNull": bson.A{"$vendor", ""}}},
	}}})

	cur, err := r.col.Aggregate(ctx, pipeline)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var rows []models.ProductRow
	if err := cur.All(ctx, &rows); err != nil {
		return nil, err
	}
	return rows, nil
}
