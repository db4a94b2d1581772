package store

import (
	"context"
	"slices"

	"github.com/example/storefront/domain/product"
	"github.com/example/storefront/modules/broadcast"
)

// ProductsResult is one emission of a live product query.
type ProductsResult = broadcast.Result[[]product.Product]

// ProductStore reads and writes the products table and signals subscribers
// after every committed change.
type ProductStore struct {
	repo *product.Repository
	hub  *broadcast.Hub
}

// List returns every cached product.
func (s *ProductStore) List(ctx context.Context) ([]product.Product, error) {
	return s.repo.List(ctx)
}

// ListFavorites returns favorite products ordered by name.
func (s *ProductStore) ListFavorites(ctx context.Context) ([]product.Product, error) {
	return s.repo.ListFavorites(ctx)
}

// Get returns one product, or nil when it is not cached.
func (s *ProductStore) Get(ctx context.Context, id string) (*product.Product, error) {
	return s.repo.GetByID(ctx, id)
}

// ReplaceAll swaps the table contents for products.
func (s *ProductStore) ReplaceAll(ctx context.Context, products []product.Product) error {
	if err := s.repo.ReplaceAll(ctx, products); err != nil {
		return err
	}
	s.hub.Notify()
	return nil
}

// SetFavorite updates one row's favorite flag and reports whether it existed.
func (s *ProductStore) SetFavorite(ctx context.Context, id string, favorite bool) (bool, error) {
	n, err := s.repo.UpdateFavorite(ctx, id, favorite)
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.hub.Notify()
	}
	return n > 0, nil
}

// Clear removes every product.
func (s *ProductStore) Clear(ctx context.Context) error {
	if err := s.repo.DeleteAll(ctx); err != nil {
		return err
	}
	s.hub.Notify()
	return nil
}

// Watch streams the full product list, re-reading after each change.
func (s *ProductStore) Watch(ctx context.Context) <-chan ProductsResult {
	return broadcast.Watch(ctx, s.hub, s.repo.List, equalProducts)
}

// WatchFavorites streams the favorite products, re-reading after each change.
func (s *ProductStore) WatchFavorites(ctx context.Context) <-chan ProductsResult {
	return broadcast.Watch(ctx, s.hub, s.repo.ListFavorites, equalProducts)
}

// Subscribers returns the number of live queries on the table.
func (s *ProductStore) Subscribers() int {
	return s.hub.SubscriberCount()
}

func equalProducts(a, b []product.Product) bool {
	return slices.Equal(a, b)
}
