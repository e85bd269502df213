// Package shopify is a minimal wrapper around the Shopify Admin REST API.
// It covers just the endpoints our services require.
package shopify

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"
)

const apiVersion = "2025-01"

// ErrNotFound is returned when the store has no product with the given id.
var ErrNotFound = errors.New("shopify: product not found")

// APIError is a non-404 upstream failure, carrying the HTTP status so callers
// can surface it.
type APIError struct {
	StatusCode int
	Status     string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("shopify: unexpected status %s", e.Status)
}

// Image is one product image.
type Image struct {
	Src string `json:"src"`
}

// Variant is one purchasable variant as Shopify returns it. Price comes back
// as a string.
type Variant struct {
	ID                int64   `json:"id"`
	Title             string  `json:"title"`
	SKU               string  `json:"sku"`
	Price             string  `json:"price"`
	InventoryQuantity int     `json:"inventory_quantity"`
	Barcode           string  `json:"barcode"`
	Weight            float64 `json:"weight"`
	WeightUnit        string  `json:"weight_unit"`
}

// Product is the raw product payload from the Admin API.
type Product struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Vendor      string    `json:"vendor"`
	ProductType string    `json:"product_type"`
	Handle      string    `json:"handle"`
	Tags        string    `json:"tags"`
	Status      string    `json:"status"`
	BodyHTML    string    `json:"body_html"`
	Image       Image     `json:"image"`
	Images      []Image   `json:"images"`
	Variants    []Variant `json:"variants"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

// Client talks to one store's Admin API.
type Client struct {
	http    *http.Client
	store   string // e.g. "example.myshopify.com"
	token   string
	baseURL string
}

// NewClient returns a ready-to-use Shopify Admin client for the given store
// domain and access token.
func NewClient(store, token string) *Client {
	return &Client{
		http: &http.Client{
			Timeout: 10 * time.Second,
		},
		store:   store,
		token:   token,
		baseURL: "https://" + store,
	}
}

// Store returns the store domain the client was built for.
func (c *Client) Store() string { return c.store }

// GetProduct fetches a single product by its external id.
func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	u := fmt.Sprintf("%s/admin/api/%s/products/%s.json", c.baseURL, apiVersion, url.PathEscape(id))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return Product{}, err
	}
	c.addHeaders(req)

	var payload struct {
		Product Product `json:"product"`
	}
	if err := c.do(req, &payload); err != nil {
		return Product{}, err
	}
	if payload.Product.ID == 0 {
		return Product{}, ErrNotFound
	}
	return payload.Product, nil
}

// addHeaders sets authentication and content-type headers.
func (c *Client) addHeaders(req *http.Request) {
	req.Header.Set("X-Shopify-Access-Token", c.token)
	req.Header.Set("Content-Type", "application/json")
}

// do executes the HTTP request and decodes JSON into v.
func (c *Client) do(req *http.Request, v interface{}) error {
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	if resp.StatusCode >= 300 {
		return &APIError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return json.NewDecoder(resp.Body).Decode(v)
}
