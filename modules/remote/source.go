// Package remote fetches the product catalog from the upstream HTTP API.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/storefront/domain/product"
)

// Source yields the full remote catalog.
type Source interface {
	FetchProducts(ctx context.Context) ([]product.Product, error)
}

// SourceFunc adapts a function to Source.
type SourceFunc func(ctx context.Context) ([]product.Product, error)

// FetchProducts calls f.
func (f SourceFunc) FetchProducts(ctx context.Context) ([]product.Product, error) {
	return f(ctx)
}

// productDTO is one element of the catalog payload. isFavorite is never read
// from upstream.
type productDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Brand       string `json:"brand"`
	Model       string `json:"model"`
	Price       string `json:"price"`
	Image       string `json:"image"`
	CreatedAt   string `json:"createdAt"` // accepted in any format, not stored
}

func (d productDTO) toProduct() product.Product {
	return product.Product{
		ID:          d.ID,
		Name:        d.Name,
		Description: d.Description,
		Brand:       d.Brand,
		Model:       d.Model,
		Price:       d.Price,
		Image:       d.Image,
	}
}

// decodeProducts turns a catalog payload into products. An empty body or a
// JSON null is an empty catalog.
func decodeProducts(body []byte) ([]product.Product, error) {
	if len(bytes.TrimSpace(body)) == 0 {
		return nil, nil
	}
	var dtos []productDTO
	if err := json.Unmarshal(body, &dtos); err != nil {
		return nil, fmt.Errorf("failed to decode catalog response: %w", err)
	}

	products := make([]product.Product, 0, len(dtos))
	for _, d := range dtos {
		products = append(products, d.toProduct())
	}
	return products, nil
}
