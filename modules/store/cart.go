package store

import (
	"context"
	"slices"

	"github.com/example/storefront/domain/cart"
	"github.com/example/storefront/modules/broadcast"
)

// ItemsResult is one emission of a live cart query.
type ItemsResult = broadcast.Result[[]cart.Item]

// CartStore reads and writes the cart_items table and signals subscribers
// after every committed change.
type CartStore struct {
	repo *cart.Repository
	hub  *broadcast.Hub
}

// List returns every cart row.
func (s *CartStore) List(ctx context.Context) ([]cart.Item, error) {
	return s.repo.List(ctx)
}

// Get returns the row for productID, or nil.
func (s *CartStore) Get(ctx context.Context, productID string) (*cart.Item, error) {
	return s.repo.GetByProductID(ctx, productID)
}

// AddOne inserts item with quantity 1 or bumps an existing row by one.
func (s *CartStore) AddOne(ctx context.Context, item cart.Item) (cart.Item, error) {
	saved, err := s.repo.AddOne(ctx, item)
	if err != nil {
		return cart.Item{}, err
	}
	s.hub.Notify()
	return saved, nil
}

// SetQuantity updates the quantity of an existing row and reports whether it
// existed.
func (s *CartStore) SetQuantity(ctx context.Context, productID string, quantity int) (bool, error) {
	n, err := s.repo.UpdateQuantity(ctx, productID, quantity)
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.hub.Notify()
	}
	return n > 0, nil
}

// Adjust adds delta to a row's quantity, deleting it at zero.
func (s *CartStore) Adjust(ctx context.Context, productID string, delta int) (*cart.Item, error) {
	item, err := s.repo.AdjustQuantity(ctx, productID, delta)
	if err != nil {
		return nil, err
	}
	s.hub.Notify()
	return item, nil
}

// Delete removes a row and reports whether it existed.
func (s *CartStore) Delete(ctx context.Context, productID string) (bool, error) {
	n, err := s.repo.DeleteByProductID(ctx, productID)
	if err != nil {
		return false, err
	}
	if n > 0 {
		s.hub.Notify()
	}
	return n > 0, nil
}

// Clear removes every row.
func (s *CartStore) Clear(ctx context.Context) error {
	if err := s.repo.Clear(ctx); err != nil {
		return err
	}
	s.hub.Notify()
	return nil
}

// Watch streams the cart rows, re-reading after each change.
func (s *CartStore) Watch(ctx context.Context) <-chan ItemsResult {
	return broadcast.Watch(ctx, s.hub, s.repo.List, func(a, b []cart.Item) bool {
		return slices.Equal(a, b)
	})
}

// Subscribers returns the number of live queries on the table.
func (s *CartStore) Subscribers() int {
	return s.hub.SubscriberCount()
}
