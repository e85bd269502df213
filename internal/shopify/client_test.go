package shopify

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient("demo-store.myshopify.com", "shpat_test")
	c.baseURL = srv.URL
	return c
}

func TestGetProduct(t *testing.T) {
	var gotPath, gotToken string
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotToken = r.Header.Get("X-Shopify-Access-Token")
		fmt.Fprint(w, `{"product":{"id":123,"title":"55-inch OLED TV","vendor":"LG",
			"product_type":"Televisions","body_html":"<p>Great TV.</p>",
			"variants":[{"id":1,"sku":"TV-55-OLED","price":"499.99","inventory_quantity":4}]}}`)
	})

	p, err := c.GetProduct(context.Background(), "123")
	require.NoError(t, err)

	assert.Equal(t, "/admin/api/"+apiVersion+"/products/123.json", gotPath)
	assert.Equal(t, "shpat_test", gotToken)
	assert.Equal(t, int64(123), p.ID)
	assert.Equal(t, "55-inch OLED TV", p.Title)
	assert.Equal(t, "Televisions", p.ProductType)
	require.Len(t, p.Variants, 1)
	assert.Equal(t, "499.99", p.Variants[0].Price)
}

func TestGetProductNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"errors":"Not Found"}`, http.StatusNotFound)
	})

	_, err := c.GetProduct(context.Background(), "4040")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProductEmptyPayloadIsNotFound(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"product":{}}`)
	})

	_, err := c.GetProduct(context.Background(), "123")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetProductUpstreamError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad gateway", http.StatusBadGateway)
	})

	_, err := c.GetProduct(context.Background(), "123")
	require.Error(t, err)

	var apiErr *APIError
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadGateway, apiErr.StatusCode)
}

func TestGetProductTransportError(t *testing.T) {
	c := NewClient("demo-store.myshopify.com", "shpat_test")
	c.baseURL = "http://127.0.0.1:1"

	_, err := c.GetProduct(context.Background(), "123")
	assert.Error(t, err)
}
