package api

import (
	"github.com/example/storefront/domain/product"
	"github.com/example/storefront/modules/cart"
)

// ErrorResponse is the API error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// HealthResponse is the API response for health checks.
type HealthResponse struct {
	Status  string         `json:"status"`
	Details map[string]any `json:"details,omitempty"`
}

// FavoriteRequest is the body of PUT /api/v1/products/:id/favorite.
type FavoriteRequest struct {
	Favorite *bool `json:"favorite"`
}

// FavoriteResponse confirms a favorite change.
type FavoriteResponse struct {
	Product product.Product `json:"product"`
	Message string          `json:"message"`
}

// AddItemRequest is the body of POST /api/v1/cart/items.
type AddItemRequest struct {
	ProductID string `json:"product_id"`
}

// QuantityRequest is the body of PUT /api/v1/cart/items/:id.
type QuantityRequest struct {
	Quantity *int `json:"quantity"`
}

// CartResponse is the cart after a mutation, with an optional confirmation.
type CartResponse struct {
	Cart    cart.Snapshot `json:"cart"`
	Message string        `json:"message,omitempty"`
}
