package service

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"support-widget/internal/apperr"
	"support-widget/internal/models"
)

// attributeNames translates query-parameter keys to the human-readable
// attribute names products are stored with. Parameters outside this table
// (and the base parameters) are silently ignored.
var attributeNames = map[string]string{
	"color":            "Color",
	"capacity":         "Capacity",
	"energy_rating":    "Energy Rating",
	"connectivity":     "Connectivity",
	"tv_type":          "TV Type",
	"screen_size":      "Screen Size",
	"resolution":       "Resolution",
	"refresh_rate":     "Refresh Rate",
	"display_type":     "Display Type",
	"operating_system": "Operating System",
	"laundry_features": "Laundry Features",
	"load_type":        "Load Type",
	"smart_features":   "Smart Features",
}

// baseParams are the non-attribute query parameters of GET /products.
var baseParams = map[string]bool{
	"category": true,
	"search":   true,
	"brand":    true,
}

// placeholderImage substitutes for products without an image.
const placeholderImage = "https://via.placeholder.com/300"

// ---- Repository contracts --------------------------------------------------

// CategoryReader provides category listing and lookup.
type CategoryReader interface {
	ListEndLevel(ctx context.Context) ([]models.Category, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (models.Category, error)
}

// ProductSearcher runs the faceted catalog query.
type ProductSearcher interface {
	Search(ctx context.Context, q models.ProductQuery) ([]models.ProductRow, error)
}

// FilterReader lists facet definitions per category.
type FilterReader interface {
	ListByCategory(ctx context.Context, categoryID primitive.ObjectID) ([]models.Filter, error)
}

// ---- Service interface + implementation ------------------------------------

// CatalogService is the read-only product-discovery surface: leaf categories,
// faceted search and per-category filter metadata.
type CatalogService interface {
	Categories(ctx context.Context) ([]models.CategorySummary, error)
	Products(ctx context.Context, params map[string]string) ([]models.ProductRow, error)
	Category(ctx context.Context, idHex string) (models.Category, error)
	CategoryFilters(ctx context.Context, idHex string) (models.CategoryFilters, error)
}

type catalogService struct {
	categories CategoryReader
	products   ProductSearcher
	filters    FilterReader
}

// NewCatalogService wires the catalog repositories.
func NewCatalogService(categories CategoryReader, products ProductSearcher, filters FilterReader) CatalogService {
	return &catalogService{
		categories: categories,
		products:   products,
		filters:    filters,
	}
}

// Categories returns leaf categories only, in store order.
func (s *catalogService) Categories(ctx context.Context) ([]models.CategorySummary, error) {
	cats, err := s.categories.ListEndLevel(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.CategorySummary, len(cats))
	for i, c := range cats {
		out[i] = models.CategorySummary{ID: c.ID.Hex(), Name: c.Name}
	}
	return out, nil
}

// Products translates the raw query parameters into search predicates and
// post-processes the projection rows for the widget.
func (s *catalogService) Products(ctx context.Context, params map[string]string) ([]models.ProductRow, error) {
	q := models.ProductQuery{Attributes: map[string][]string{}}

	if category := strings.TrimSpace(params["category"]); category != "" {
		id, err := primitive.ObjectIDFromHex(category)
		if err != nil {
			// An unparseable category id matches nothing.
			return []models.ProductRow{}, nil
		}
		q.CategoryID = &id
	}
	q.Search = strings.TrimSpace(params["search"])
	if brand := params["brand"]; brand != "" {
		q.Brands = splitValues(brand)
	}

	for rawKey, rawVal := range params {
		key := strings.ToLower(strings.ReplaceAll(strings.TrimSpace(rawKey), " ", "_"))
		if baseParams[key] {
			continue
		}
		name, ok := attributeNames[key]
		if !ok {
			continue // unknown parameters are not an error
		}
		if values := splitValues(rawVal); len(values) > 0 {
			q.Attributes[name] = values
		}
	}

	rows, err := s.products.Search(ctx, q)
	if err != nil {
		return nil, err
	}

	for i := range rows {
		rows[i].Price = fmt.Sprintf("$%v USD", trimPrice(rows[i].RawPrice))
		rows[i].Handle = slugifyHandle(rows[i].Handle)
		if rows[i].Image == "" {
			rows[i].Image = placeholderImage
		}
	}
	if rows == nil {
		rows = []models.ProductRow{}
	}
	return rows, nil
}

// Category returns one category document by id.
func (s *catalogService) Category(ctx context.Context, idHex string) (models.Category, error) {
	id, err := primitive.ObjectIDFromHex(idHex)
	if err != nil {
		return models.Category{}, apperr.New(apperr.KindInvalidRequest, "invalid category id")
	}
	cat, err := s.categories.FindByID(ctx, id)
	if err != nil {
		return models.Category{}, apperr.Wrap(apperr.KindNotFound,
			fmt.Sprintf("category %s not found", idHex), err)
	}
	return cat, nil
}

// CategoryFilters returns the category's facet definitions sorted by display
// name. Blank options are pruned and filters left with no options are
// excluded entirely.
func (s *catalogService) CategoryFilters(ctx context.Context, idHex string) (models.CategoryFilters, error) {
	cat, err := s.Category(ctx, idHex)
	if err != nil {
		return models.CategoryFilters{}, err
	}

	filters, err := s.filters.ListByCategory(ctx, cat.ID)
	if err != nil {
		return models.CategoryFilters{}, err
	}

	kept := make([]models.Filter, 0, len(filters))
	for _, f := range filters {
		valid := make([]string, 0, len(f.Config.Options))
		for _, opt := range f.Config.Options {
			if strings.TrimSpace(opt) != "" {
				valid = append(valid, opt)
			}
		}
		if len(valid) == 0 {
			continue
		}
		f.Config.Options = valid
		kept = append(kept, f)
	}

	// Sorted by display name, not by the stored display_order field.
	sort.SliceStable(kept, func(i, j int) bool {
		return strings.ToLower(kept[i].Name) < strings.ToLower(kept[j].Name)
	})

	return models.CategoryFilters{
		CategoryID:   idHex,
		CategoryName: cat.Name,
		Filters:      kept,
	}, nil
}

// ---- Helpers ---------------------------------------------------------------

func splitValues(raw string) []string {
	var out []string
	for _, v := range strings.Split(raw, ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// trimPrice renders whole prices without a decimal tail ("40" not "40.00").
func trimPrice(price float64) string {
	s := fmt.Sprintf("%.2f", price)
	s = strings.TrimRight(s, "0")
	return strings.TrimSuffix(s, ".")
}

var (
	handleInvalid  = regexp.MustCompile(`[^a-z0-9-]`)
	handleCollapse = regexp.MustCompile(`-+`)
)

// slugifyHandle normalizes a stored handle into a URL-safe slug.
func slugifyHandle(handle string) string {
	if handle == "" {
		return ""
	}
	h := strings.NewReplacer(`"`, "", "'", "").Replace(handle)
	h = strings.ToLower(h)
	h = strings.ReplaceAll(h, " ", "-")
	h = strings.ReplaceAll(h, "/", "-")
	h = handleInvalid.ReplaceAllString(h, "")
	h = handleCollapse.ReplaceAllString(h, "-")
	return strings.Trim(h, "-")
}
