package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"time"

	"support-widget/internal/apperr"
	"support-widget/internal/models"
	"support-widget/internal/shopify"
)

const (
	// placeholderSKU is the sentinel the storefront widget sends before it
	// has loaded real product data.
	placeholderSKU = "shopify"
	// placeholderTitle is the widget's loading-state title sentinel.
	placeholderTitle = "Loading..."
	// maxVariants caps the variant list in the normalized payload.
	maxVariants = 10
)

// ---- Collaborator contracts ------------------------------------------------

// CommerceClient fetches authoritative product data by external id.
type CommerceClient interface {
	GetProduct(ctx context.Context, id string) (shopify.Product, error)
	Store() string
}

// CatalogWriter persists synced catalog records.
type CatalogWriter interface {
	Upsert(ctx context.Context, p models.CatalogProduct) error
}

// CategoryFinder matches a product type against existing categories.
type CategoryFinder interface {
	FindByName(ctx context.Context, name string) (models.Category, bool, error)
}

// ---- Service interface + implementation ------------------------------------

// ProductResolver turns a product reference into a normalized product,
// fetching and syncing from the commerce platform when the caller-supplied
// context is absent or a placeholder.
type ProductResolver interface {
	Resolve(ctx context.Context, ref models.ProductReference) (models.NormalizedProduct, error)
}

type productResolver struct {
	shop       CommerceClient
	catalog    CatalogWriter
	categories CategoryFinder
}

// NewProductResolver wires dependencies.
func NewProductResolver(shop CommerceClient, catalog CatalogWriter, categories CategoryFinder) ProductResolver {
	return &productResolver{
		shop:       shop,
		catalog:    catalog,
		categories: categories,
	}
}

// Resolve applies the decision policy: trust a non-placeholder inline
// context, otherwise fetch by external id, normalize and sync to the catalog.
func (r *productResolver) Resolve(ctx context.Context, ref models.ProductReference) (models.NormalizedProduct, error) {
	if ref.Context != nil && !IsPlaceholderContext(ref.Context) {
		return productFromContext(ref.Context), nil
	}

	id := externalID(ref)
	if id == "" {
		return models.NormalizedProduct{}, apperr.New(apperr.KindInvalidRequest,
			"a product_id or a product_context with an id is required")
	}

	raw, err := r.shop.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, shopify.ErrNotFound) {
			return models.NormalizedProduct{}, apperr.Wrap(apperr.KindProductResolution,
				fmt.Sprintf("product %s not found upstream", id), err)
		}
		var apiErr *shopify.APIError
		if errors.As(err, &apiErr) {
			return models.NormalizedProduct{}, apperr.Wrap(apperr.KindProductResolution,
				fmt.Sprintf("failed to fetch product %s (upstream status %d)", id, apiErr.StatusCode), err)
		}
		return models.NormalizedProduct{}, apperr.Wrap(apperr.KindProductResolution,
			fmt.Sprintf("failed to fetch product %s", id), err)
	}
	log.Printf("[Resolver] Fetched product %d: %s", raw.ID, raw.Title)

	product := r.normalize(raw)

	// Classify by exact product-type name match. No fuzzy matching and no
	// category creation on this path.
	if name := strings.TrimSpace(raw.ProductType); name != "" {
		cat, ok, err := r.categories.FindByName(ctx, name)
		if err != nil {
			return models.NormalizedProduct{}, fmt.Errorf("classify product %s: %w", id, err)
		}
		if ok {
			catID := cat.ID
			product.CategoryID = &catID
		} else {
			log.Printf("[Resolver] No matching category for product_type %q", name)
		}
	}

	if err := r.catalog.Upsert(ctx, catalogRecord(raw, product)); err != nil {
		return models.NormalizedProduct{}, fmt.Errorf("persist product %s: %w", id, err)
	}

	return product, nil
}

// IsPlaceholderContext reports whether a caller-supplied context is a widget
// placeholder rather than real product data. The three sentinel conditions:
// the SKU sentinel, the loading-title sentinel, or a context that carries
// only an id field with no descriptive fields.
func IsPlaceholderContext(ctx map[string]any) bool {
	if strings.EqualFold(str(ctx, "sku"), placeholderSKU) {
		return true
	}
	if str(ctx, "title") == placeholderTitle || str(ctx, "name") == placeholderTitle {
		return true
	}

	if len(ctx) == 0 {
		return true
	}
	for k := range ctx {
		switch strings.ToLower(k) {
		case "productid", "product_id", "id":
		default:
			return false
		}
	}
	return true
}

// externalID extracts the external product id from the inline context's id
// field or the reference's direct id field.
func externalID(ref models.ProductReference) string {
	for _, key := range []string{"productId", "product_id", "id"} {
		if id := str(ref.Context, key); id != "" {
			return id
		}
	}
	return strings.TrimSpace(ref.ProductID)
}

// normalize transforms the raw commerce payload into the canonical shape: the
// first variant supplies the representative price and SKU, the HTML
// description becomes plain text, and variants are capped.
func (r *productResolver) normalize(raw shopify.Product) models.NormalizedProduct {
	var first shopify.Variant
	if len(raw.Variants) > 0 {
		first = raw.Variants[0]
	}

	sku := first.SKU
	if sku == "" {
		sku = strconv.FormatInt(raw.ID, 10)
	}

	variants := raw.Variants
	if len(variants) > maxVariants {
		variants = variants[:maxVariants]
	}
	normVariants := make([]models.ProductVariant, len(variants))
	for i, v := range variants {
		normVariants[i] = models.ProductVariant{
			ID:                v.ID,
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             parsePrice(v.Price),
			Available:         v.InventoryQuantity > 0,
			InventoryQuantity: v.InventoryQuantity,
		}
	}

	images := make([]string, len(raw.Images))
	for i, img := range raw.Images {
		images[i] = img.Src
	}

	storefront := strings.TrimSuffix(r.shop.Store(), ".myshopify.com")

	return models.NormalizedProduct{
		ID:          raw.ID,
		SKU:         sku,
		Title:       raw.Title,
		Name:        raw.Title,
		Description: StripHTMLTags(raw.BodyHTML),
		Price:       parsePrice(first.Price),
		Currency:    "USD",
		Brand:       raw.Vendor,
		Vendor:      raw.Vendor,
		Category:    raw.ProductType,
		Images:      images,
		URL:         fmt.Sprintf("https://%s/products/%s", storefront, raw.Handle),
		Handle:      raw.Handle,
		InStock:     first.InventoryQuantity > 0,
		Available:   first.InventoryQuantity > 0,
		Variants:    normVariants,
	}
}

// catalogRecord builds the persisted superset record from the raw payload.
func catalogRecord(raw shopify.Product, product models.NormalizedProduct) models.CatalogProduct {
	var tags []string
	if raw.Tags != "" {
		for _, t := range strings.Split(raw.Tags, ",") {
			tags = append(tags, strings.TrimSpace(t))
		}
	}

	variants := make([]models.ProductVariant, len(raw.Variants))
	for i, v := range raw.Variants {
		variants[i] = models.ProductVariant{
			ID:                v.ID,
			Title:             v.Title,
			SKU:               v.SKU,
			Price:             parsePrice(v.Price),
			Available:         v.InventoryQuantity > 0,
			InventoryQuantity: v.InventoryQuantity,
		}
	}

	imageURL := raw.Image.Src
	if imageURL == "" && len(raw.Images) > 0 {
		imageURL = raw.Images[0].Src
	}

	return models.CatalogProduct{
		ID:          raw.ID,
		Title:       raw.Title,
		Vendor:      raw.Vendor,
		Brand:       raw.Vendor,
		ProductType: raw.ProductType,
		Handle:      raw.Handle,
		Tags:        tags,
		Status:      raw.Status,
		BodyHTML:    raw.BodyHTML,
		Description: product.Description,
		ImageURL:    imageURL,
		SKU:         product.SKU,
		Variants:    variants,
		CategoryID:  product.CategoryID,
		CreatedAt:   parseShopifyDate(raw.CreatedAt),
		UpdatedAt:   parseShopifyDate(raw.UpdatedAt),
		LastSynced:  time.Now(),
	}
}

// productFromContext builds a NormalizedProduct from a trusted inline
// context, validating field types leniently at the boundary.
func productFromContext(ctx map[string]any) models.NormalizedProduct {
	title := str(ctx, "title")
	if title == "" {
		title = str(ctx, "name")
	}

	p := models.NormalizedProduct{
		ID:          i64(ctx, "productId"),
		SKU:         str(ctx, "sku"),
		Title:       title,
		Name:        title,
		Description: str(ctx, "description"),
		Price:       f64(ctx, "price"),
		Currency:    strOr(ctx, "currency", "USD"),
		Brand:       str(ctx, "brand"),
		Vendor:      strOr(ctx, "vendor", str(ctx, "brand")),
		Category:    strOr(ctx, "category", str(ctx, "type")),
		URL:         str(ctx, "url"),
		Handle:      str(ctx, "handle"),
		InStock:     boolean(ctx, "inStock") || boolean(ctx, "available"),
		Available:   boolean(ctx, "available") || boolean(ctx, "inStock"),
	}
	if p.ID == 0 {
		p.ID = i64(ctx, "id")
	}

	if imgs, ok := ctx["images"].([]any); ok {
		for _, img := range imgs {
			if s, ok := img.(string); ok {
				p.Images = append(p.Images, s)
			}
		}
	}

	if vars, ok := ctx["variants"].([]any); ok {
		for _, v := range vars {
			vm, ok := v.(map[string]any)
			if !ok {
				continue
			}
			p.Variants = append(p.Variants, models.ProductVariant{
				ID:                i64(vm, "id"),
				Title:             str(vm, "title"),
				SKU:               str(vm, "sku"),
				Price:             f64(vm, "price"),
				Available:         boolean(vm, "available"),
				InventoryQuantity: int(i64(vm, "inventory_quantity")),
			})
			if len(p.Variants) == maxVariants {
				break
			}
		}
	}

	return p
}

// ---- Helpers ---------------------------------------------------------------

var htmlTagPattern = regexp.MustCompile(`<[^>]*>`)

// StripHTMLTags flattens an HTML fragment to whitespace-normalized plain text.
func StripHTMLTags(html string) string {
	if html == "" {
		return ""
	}
	text := htmlTagPattern.ReplaceAllString(html, " ")
	return strings.Join(strings.Fields(text), " ")
}

func parsePrice(s string) float64 {
	if s == "" {
		return 0
	}
	price, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return price
}

func parseShopifyDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		log.Printf("[Resolver] Failed to parse date %q: %v", s, err)
		return time.Time{}
	}
	return t
}

// str pulls a string field from a decoded JSON map, stringifying numbers.
func str(m map[string]any, key string) string {
	switch v := m[key].(type) {
	case string:
		return strings.TrimSpace(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case int:
		return strconv.Itoa(v)
	case int64:
		return strconv.FormatInt(v, 10)
	default:
		return ""
	}
}

func strOr(m map[string]any, key, fallback string) string {
	if s := str(m, key); s != "" {
		return s
	}
	return fallback
}

func f64(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	case string:
		return parsePrice(v)
	default:
		return 0
	}
}

func i64(m map[string]any, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case int64:
		return v
	case string:
		n, _ := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
		return n
	default:
		return 0
	}
}

func boolean(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}
