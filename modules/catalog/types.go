package catalog

import (
	"github.com/example/storefront/domain/product"
	"github.com/example/storefront/domain/resource"
)

// Service names registered on the catalog module's container.
const (
	ServiceRefresh        = "refresh"
	ServiceGet            = "get"
	ServiceToggleFavorite = "toggle-favorite"
)

// RefreshRequest asks for one explicit catalog refresh.
type RefreshRequest struct{}

// GetProductRequest asks for one cached product.
type GetProductRequest struct {
	ID string `json:"id"`
}

// ToggleFavoriteRequest sets a product's favorite flag.
type ToggleFavoriteRequest struct {
	ID       string `json:"id"`
	Favorite bool   `json:"favorite"`
}

// ProductsResponse is the reply of the refresh service.
type ProductsResponse = resource.Resource[[]product.Product]

// ProductResponse is the reply of the get service.
type ProductResponse = resource.Resource[*product.Product]

// FavoriteResponse is the reply of the toggle-favorite service.
type FavoriteResponse = resource.Resource[product.Product]
