package models

// ChatRequest is the payload for POST /chat. Exactly one of ProductContext /
// ProductID must ultimately resolve a product.
type ChatRequest struct {
	Message        string         `json:"message"`
	ProductContext map[string]any `json:"product_context"`
	ProductID      string         `json:"product_id"`
	SessionID      string         `json:"session_id"`
}

// ChatResponse is the terminal response shape for a chat turn.
type ChatResponse struct {
	Response  string `json:"response"`
	SessionID string `json:"session_id"`
	ProductID string `json:"product_id"`
}

// ProductReference identifies the product a chat turn is about: an inline
// context mapping of already-known attributes, an external product id, or
// both (the context may itself be a placeholder that only carries an id).
type ProductReference struct {
	Context   map[string]any
	ProductID string
}

// QuestionRow is one row of GET /questions/:product_id.
type QuestionRow struct {
	ID       string `json:"id"`
	Question string `json:"question"`
}

// CategorySummary is one row of the leaf-category listing.
type CategorySummary struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// CategoryFilters is the response body of GET /category_filters.
type CategoryFilters struct {
	CategoryID   string   `json:"category_id"`
	CategoryName string   `json:"category_name"`
	Filters      []Filter `json:"filters"`
}

// WidgetConfig is the static widget bootstrap payload for GET /config.
type WidgetConfig struct {
	Theme       map[string]string `json:"theme"`
	Position    string            `json:"position"`
	Greeting    string            `json:"greeting_message"`
	Placeholder string            `json:"placeholder"`
}
