package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"support-widget/internal/apperr"
	"support-widget/internal/models"
	"support-widget/internal/shopify"
)

// ---- Fakes -----------------------------------------------------------------

type fakeCommerce struct {
	product shopify.Product
	err     error
	calls   int
	lastID  string
}

func (f *fakeCommerce) GetProduct(_ context.Context, id string) (shopify.Product, error) {
	f.calls++
	f.lastID = id
	if f.err != nil {
		return shopify.Product{}, f.err
	}
	return f.product, nil
}

func (f *fakeCommerce) Store() string { return "demo-store.myshopify.com" }

type fakeCatalog struct {
	records map[int64]models.CatalogProduct
	err     error
	writes  int
}

func (f *fakeCatalog) Upsert(_ context.Context, p models.CatalogProduct) error {
	if f.err != nil {
		return f.err
	}
	if f.records == nil {
		f.records = map[int64]models.CatalogProduct{}
	}
	f.records[p.ID] = p
	f.writes++
	return nil
}

type fakeCategories struct {
	byName map[string]models.Category
}

func (f *fakeCategories) FindByName(_ context.Context, name string) (models.Category, bool, error) {
	cat, ok := f.byName[name]
	return cat, ok, nil
}

func newTestResolver(shop *fakeCommerce, catalog *fakeCatalog, cats *fakeCategories) ProductResolver {
	if catalog == nil {
		catalog = &fakeCatalog{}
	}
	if cats == nil {
		cats = &fakeCategories{}
	}
	return NewProductResolver(shop, catalog, cats)
}

func tvProduct() shopify.Product {
	return shopify.Product{
		ID:          123,
		Title:       "55-inch OLED TV",
		Vendor:      "Acme",
		ProductType: "TV",
		Handle:      "55-inch-oled-tv",
		Tags:        "tv, oled",
		Status:      "active",
		BodyHTML:    "<p>A <b>great</b> TV.</p>",
		Images:      []shopify.Image{{Src: "https://cdn/img1.png"}},
		Variants: []shopify.Variant{
			{ID: 1, SKU: "TV-55", Price: "499.99", InventoryQuantity: 3},
			{ID: 2, SKU: "TV-55-B", Price: "549.99", InventoryQuantity: 0},
		},
	}
}

// ---- Placeholder detection -------------------------------------------------

func TestIsPlaceholderContext(t *testing.T) {
	cases := []struct {
		name string
		ctx  map[string]any
		want bool
	}{
		{"sku sentinel", map[string]any{"sku": "shopify", "title": "Real TV"}, true},
		{"sku sentinel case-insensitive", map[string]any{"sku": "Shopify"}, true},
		{"loading title", map[string]any{"title": "Loading...", "sku": "TV-55"}, true},
		{"loading name", map[string]any{"name": "Loading..."}, true},
		{"id only", map[string]any{"productId": float64(123)}, true},
		{"id only snake case", map[string]any{"product_id": "123"}, true},
		{"empty", map[string]any{}, true},
		{"real context", map[string]any{"sku": "TV-55", "title": "Real TV", "price": 499.99}, false},
		{"id plus descriptive field", map[string]any{"productId": float64(1), "title": "Real TV"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsPlaceholderContext(tc.ctx))
		})
	}
}

func TestResolveFetchesWhenContextIsPlaceholder(t *testing.T) {
	for _, ctx := range []map[string]any{
		{"sku": "shopify", "productId": float64(123)},
		{"title": "Loading...", "productId": float64(123)},
		{"productId": float64(123)},
	} {
		shop := &fakeCommerce{product: tvProduct()}
		r := newTestResolver(shop, nil, nil)

		product, err := r.Resolve(context.Background(), models.ProductReference{Context: ctx})
		require.NoError(t, err)
		assert.Equal(t, 1, shop.calls, "placeholder context must trigger a fetch")
		assert.Equal(t, "123", shop.lastID)
		assert.Equal(t, "55-inch OLED TV", product.Title)
	}
}

func TestResolveTrustsAuthoritativeContext(t *testing.T) {
	shop := &fakeCommerce{product: tvProduct()}
	catalog := &fakeCatalog{}
	r := newTestResolver(shop, catalog, nil)

	product, err := r.Resolve(context.Background(), models.ProductReference{
		Context: map[string]any{
			"productId": float64(99),
			"sku":       "TV-55",
			"title":     "Caller TV",
			"price":     100.0,
			"brand":     "Acme",
		},
	})
	require.NoError(t, err)
	assert.Zero(t, shop.calls, "authoritative context must not fetch")
	assert.Zero(t, catalog.writes, "trusted path must not write the catalog")
	assert.Equal(t, "Caller TV", product.Title)
	assert.Equal(t, int64(99), product.ID)
	assert.Equal(t, 100.0, product.Price)
}

// ---- Fetch path ------------------------------------------------------------

func TestResolveNormalizesFetchedProduct(t *testing.T) {
	shop := &fakeCommerce{product: tvProduct()}
	r := newTestResolver(shop, nil, nil)

	product, err := r.Resolve(context.Background(), models.ProductReference{ProductID: "123"})
	require.NoError(t, err)

	assert.Equal(t, int64(123), product.ID)
	assert.Equal(t, "TV-55", product.SKU, "first variant supplies the SKU")
	assert.Equal(t, 499.99, product.Price, "first variant supplies the price")
	assert.Equal(t, "USD", product.Currency)
	assert.Equal(t, "A great TV.", product.Description, "markup is stripped")
	assert.True(t, product.InStock)
	assert.Equal(t, "https://demo-store/products/55-inch-oled-tv", product.URL)
	assert.Len(t, product.Variants, 2)
	assert.False(t, product.Variants[1].Available)
}

func TestResolveDefaultsWithoutVariants(t *testing.T) {
	raw := tvProduct()
	raw.Variants = nil
	shop := &fakeCommerce{product: raw}
	r := newTestResolver(shop, nil, nil)

	product, err := r.Resolve(context.Background(), models.ProductReference{ProductID: "123"})
	require.NoError(t, err)
	assert.Equal(t, "123", product.SKU, "SKU falls back to the external id")
	assert.Zero(t, product.Price)
	assert.False(t, product.InStock)
}

func TestResolveCapsVariants(t *testing.T) {
	raw := tvProduct()
	raw.Variants = nil
	for i := 0; i < 15; i++ {
		raw.Variants = append(raw.Variants, shopify.Variant{ID: int64(i), SKU: "V", Price: "1.00"})
	}
	shop := &fakeCommerce{product: raw}
	r := newTestResolver(shop, nil, nil)

	product, err := r.Resolve(context.Background(), models.ProductReference{ProductID: "123"})
	require.NoError(t, err)
	assert.Len(t, product.Variants, maxVariants)
}

func TestResolveUpsertIsIdempotent(t *testing.T) {
	shop := &fakeCommerce{product: tvProduct()}
	catalog := &fakeCatalog{}
	r := newTestResolver(shop, catalog, nil)

	_, err := r.Resolve(context.Background(), models.ProductReference{ProductID: "123"})
	require.NoError(t, err)

	// Second sync with updated upstream data replaces the record in place.
	updated := tvProduct()
	updated.Title = "55-inch OLED TV (2026)"
	shop.product = updated

	_, err = r.Resolve(context.Background(), models.ProductReference{ProductID: "123"})
	require.NoError(t, err)

	require.Len(t, catalog.records, 1)
	assert.Equal(t, "55-inch OLED TV (2026)", catalog.records[123].Title, "second resolution's values win")
}

func TestResolveClassifiesByExactCategoryName(t *testing.T) {
	catID := primitive.NewObjectID()
	shop := &fakeCommerce{product: tvProduct()}
	catalog := &fakeCatalog{}
	cats := &fakeCategories{byName: map[string]models.Category{
		"TV": {ID: catID, Name: "TV", EndLevel: true},
	}}
	r := newTestResolver(shop, catalog, cats)

	product, err := r.Resolve(context.Background(), models.ProductReference{ProductID: "123"})
	require.NoError(t, err)
	require.NotNil(t, product.CategoryID)
	assert.Equal(t, catID, *product.CategoryID)
	assert.Equal(t, &catID, catalog.records[123].CategoryID)
}

func TestResolveLeavesCategoryNilWithoutMatch(t *testing.T) {
	shop := &fakeCommerce{product: tvProduct()}
	r := newTestResolver(shop, nil, &fakeCategories{})

	product, err := r.Resolve(context.Background(), models.ProductReference{ProductID: "123"})
	require.NoError(t, err)
	assert.Nil(t, product.CategoryID, "no fuzzy matching, no auto-creation")
}

// ---- Errors ----------------------------------------------------------------

func TestResolveRequiresAnID(t *testing.T) {
	shop := &fakeCommerce{}
	r := newTestResolver(shop, nil, nil)

	_, err := r.Resolve(context.Background(), models.ProductReference{})
	require.Error(t, err)
	assert.Equal(t, apperr.KindInvalidRequest, apperr.KindOf(err))
	assert.Zero(t, shop.calls)
}

func TestResolveNotFoundCarriesExternalID(t *testing.T) {
	shop := &fakeCommerce{err: shopify.ErrNotFound}
	r := newTestResolver(shop, nil, nil)

	_, err := r.Resolve(context.Background(), models.ProductReference{ProductID: "4040"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindProductResolution, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "4040")
}

func TestResolveUpstreamErrorCarriesStatus(t *testing.T) {
	shop := &fakeCommerce{err: &shopify.APIError{StatusCode: 502, Status: "502 Bad Gateway"}}
	r := newTestResolver(shop, nil, nil)

	_, err := r.Resolve(context.Background(), models.ProductReference{ProductID: "123"})
	require.Error(t, err)
	assert.Equal(t, apperr.KindProductResolution, apperr.KindOf(err))
	assert.Contains(t, err.Error(), "502")
}

func TestStripHTMLTags(t *testing.T) {
	assert.Equal(t, "Hello world", StripHTMLTags("<h1>Hello</h1>\n<p>world</p>"))
	assert.Equal(t, "", StripHTMLTags(""))
	assert.Equal(t, "plain", StripHTMLTags("plain"))
}
