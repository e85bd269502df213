package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ProductVariant is one purchasable variant of a product. The same shape is
// used in API payloads and in the stored catalog document.
type ProductVariant struct {
	ID                int64   `bson:"id" json:"id"`
	Title             string  `bson:"title" json:"title"`
	SKU               string  `bson:"sku" json:"sku"`
	Price             float64 `bson:"price" json:"price"`
	Available         bool    `bson:"available" json:"available"`
	InventoryQuantity int     `bson:"inventory_quantity" json:"inventory_quantity"`
}

// NormalizedProduct is the canonical in-memory product shape used by the chat
// pipeline. It is built fresh per request by the resolver, either from a
// trusted caller-supplied context or from a commerce platform fetch, and is
// never mutated afterwards.
type NormalizedProduct struct {
	ID          int64            `json:"productId"`
	SKU         string           `json:"sku"`
	Title       string           `json:"title"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Price       float64          `json:"price"`
	Currency    string           `json:"currency"`
	Brand       string           `json:"brand"`
	Vendor      string           `json:"vendor"`
	Category    string           `json:"category"`
	Images      []string         `json:"images"`
	URL         string           `json:"url"`
	Handle      string           `json:"handle"`
	InStock     bool             `json:"inStock"`
	Available   bool             `json:"available"`
	Variants    []ProductVariant `json:"variants"`

	// CategoryID is the catalog category the product was classified into
	// during resolution, when an exact product-type match exists.
	CategoryID *primitive.ObjectID `json:"-"`
}

// CatalogProduct is the persisted catalog record, keyed by the external
// (Shopify) product id. Writes are upserts: a record with the same id is
// replaced in place, never duplicated.
type CatalogProduct struct {
	ID          int64               `bson:"_id"`
	Title       string              `bson:"title"`
	Vendor      string              `bson:"vendor"`
	Brand       string              `bson:"brand"`
	ProductType string              `bson:"product_type"`
	Handle      string              `bson:"handle"`
	Tags        []string            `bson:"tags"`
	Status      string              `bson:"status"`
	BodyHTML    string              `bson:"body_html"`
	Description string              `bson:"description"`
	ImageURL    string              `bson:"image_url"`
	SKU         string              `bson:"sku"`
	Variants    []ProductVariant    `bson:"variants"`
	Attributes  map[string]string   `bson:"attributes,omitempty"`
	CategoryID  *primitive.ObjectID `bson:"category_id,omitempty"`
	CreatedAt   time.Time           `bson:"created_at"`
	UpdatedAt   time.Time           `bson:"updated_at"`
	LastSynced  time.Time           `bson:"last_synced"`
}

// Category is a node in the shallow category hierarchy. EndLevel marks leaf
// categories eligible for filtering and FAQ association.
type Category struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name       string             `bson:"name" json:"name"`
	Breadcrumb string             `bson:"breadcrumb,omitempty" json:"breadcrumb,omitempty"`
	Level      int                `bson:"level,omitempty" json:"-"`
	EndLevel   bool               `bson:"end_level" json:"-"`
}

// Question is a knowledge-base entry: a pre-authored or AI-generated answer
// tied to a category and optionally a product. Uniqueness is enforced on
// (question, category_id); rows are immutable once created.
type Question struct {
	ID           primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Question     string              `bson:"question" json:"question"`
	Answer       string              `bson:"answer" json:"answer"`
	QuestionType string              `bson:"question_type,omitempty" json:"question_type,omitempty"`
	ProductID    *int64              `bson:"product_id,omitempty" json:"-"`
	CategoryID   *primitive.ObjectID `bson:"category_id,omitempty" json:"-"`
	CreatedAt    time.Time           `bson:"created_at" json:"-"`
}

// FilterConfig holds the facet's value set. A filter whose Options list is
// empty is excluded from listing responses.
type FilterConfig struct {
	Options      []string `bson:"options" json:"options"`
	DisplayStyle string   `bson:"display_style,omitempty" json:"display_style,omitempty"`
}

// Filter is a per-category facet definition.
type Filter struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"-"`
	CategoryID   primitive.ObjectID `bson:"category_id" json:"-"`
	Name         string             `bson:"name" json:"name"`
	FilterType   string             `bson:"filter_type" json:"filter_type"`
	DisplayOrder int                `bson:"display_order" json:"display_order"`
	Config       FilterConfig       `bson:"config" json:"config"`
}

// ProductRow is the flattened search projection returned to the widget. It is
// never the raw stored document; absent fields get deterministic defaults in
// the aggregation projection. RawPrice carries the numeric price out of the
// pipeline; the service formats it into Price for the response.
type ProductRow struct {
	ID          string   `bson:"id" json:"id"`
	ShopifyID   int64    `bson:"shopify_id" json:"shopify_id"`
	Handle      string   `bson:"handle" json:"handle"`
	VariantID   *int64   `bson:"variant_id" json:"variant_id"`
	Image       string   `bson:"image" json:"image"`
	Title       string   `bson:"title" json:"title"`
	SKU         string   `bson:"sku" json:"sku"`
	Category    string   `bson:"category" json:"category"`
	Breadcrumb  string   `bson:"breadcrumb" json:"breadcrumb"`
	RawPrice    float64  `bson:"price" json:"-"`
	Price       string   `bson:"-" json:"price"`
	Description string   `bson:"description" json:"description"`
	Tags        []string `bson:"tags" json:"tags"`
	Brand       string   `bson:"brand" json:"brand"`
	Vendor      string   `bson:"vendor" json:"vendor"`
}

// ProductQuery is the set of supported search predicates. Unknown query
// parameters never reach this struct; the service drops them while
// translating the raw query string.
type ProductQuery struct {
	CategoryID *primitive.ObjectID
	Search     string
	Brands     []string
	// Attributes maps display attribute names (already translated from
	// query-parameter keys) to the accepted value sets.
	Attributes map[string][]string
}
