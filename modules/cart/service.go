// Package cart runs the shopping cart flow on top of the local store.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/example/storefront/domain/cart"
	"github.com/example/storefront/domain/product"
	"github.com/example/storefront/domain/resource"
	"github.com/example/storefront/events"
	"github.com/example/storefront/modules/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// ErrProductNotFound is returned when adding an id the catalog does not hold.
var ErrProductNotFound = errors.New("product not found")

// ItemsResource is the envelope emitted for cart contents.
type ItemsResource = resource.Resource[[]domain.Item]

const msgCartLoad = "Failed to load cart from database: "

// Service mutates and observes the cart.
type Service struct {
	items    *store.CartStore
	products *store.ProductStore
	eventBus mono.EventBus
	logger   types.Logger
}

// NewService creates a cart service. eventBus may be nil.
func NewService(items *store.CartStore, products *store.ProductStore, eventBus mono.EventBus, logger types.Logger) *Service {
	return &Service{
		items:    items,
		products: products,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Add puts one unit of p in the cart, snapshotting its name, price and image
// when it is new.
func (s *Service) Add(ctx context.Context, p product.Product) (domain.Item, error) {
	item, err := s.items.AddOne(ctx, domain.NewItem(p, 1))
	if err != nil {
		return domain.Item{}, err
	}
	s.publish(events.CartActionAdded, item.ProductID, item.Name, item.Quantity)
	return item, nil
}

// AddByID looks productID up in the local catalog and adds it.
func (s *Service) AddByID(ctx context.Context, productID string) (domain.Item, error) {
	p, err := s.products.Get(ctx, productID)
	if err != nil {
		return domain.Item{}, err
	}
	if p == nil {
		return domain.Item{}, fmt.Errorf("%w: %s", ErrProductNotFound, productID)
	}
	return s.Add(ctx, *p)
}

// Remove deletes a row. Removing an absent product is a no-op.
func (s *Service) Remove(ctx context.Context, productID string) error {
	existing, err := s.items.Get(ctx, productID)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	removed, err := s.items.Delete(ctx, productID)
	if err != nil {
		return err
	}
	if removed {
		s.publish(events.CartActionRemoved, productID, existing.Name, 0)
	}
	return nil
}

// SetQuantity sets a row's quantity. A quantity of zero or less removes it.
func (s *Service) SetQuantity(ctx context.Context, productID string, quantity int) error {
	if quantity <= 0 {
		return s.Remove(ctx, productID)
	}
	existing, err := s.items.Get(ctx, productID)
	if err != nil || existing == nil {
		return err
	}
	updated, err := s.items.SetQuantity(ctx, productID, quantity)
	if err != nil {
		return err
	}
	if updated {
		s.publish(events.CartActionUpdated, productID, existing.Name, quantity)
	}
	return nil
}

// Increment raises a row's quantity by one. It returns nil when the product is
// not in the cart.
func (s *Service) Increment(ctx context.Context, productID string) (*domain.Item, error) {
	return s.adjust(ctx, productID, 1)
}

// Decrement lowers a row's quantity by one, removing the row at zero. It
// returns nil when the row is gone.
func (s *Service) Decrement(ctx context.Context, productID string) (*domain.Item, error) {
	return s.adjust(ctx, productID, -1)
}

func (s *Service) adjust(ctx context.Context, productID string, delta int) (*domain.Item, error) {
	existing, err := s.items.Get(ctx, productID)
	if err != nil || existing == nil {
		return nil, err
	}
	item, err := s.items.Adjust(ctx, productID, delta)
	if err != nil {
		return nil, err
	}
	if item != nil {
		s.publish(events.CartActionUpdated, item.ProductID, item.Name, item.Quantity)
	} else {
		s.publish(events.CartActionRemoved, productID, existing.Name, 0)
	}
	return item, nil
}

// Clear empties the cart. Clearing an empty cart succeeds.
func (s *Service) Clear(ctx context.Context) error {
	if err := s.items.Clear(ctx); err != nil {
		return err
	}
	s.publish(events.CartActionCleared, "", "", 0)
	return nil
}

// List returns the current rows.
func (s *Service) List(ctx context.Context) ([]domain.Item, error) {
	return s.items.List(ctx)
}

// Items streams the cart rows, emitting again after every change until ctx is
// cancelled. Read faults become Error envelopes with the last good rows.
func (s *Service) Items(ctx context.Context) <-chan ItemsResource {
	out := make(chan ItemsResource)

	go func() {
		defer close(out)

		var lastGood []domain.Item
		for r := range s.items.Watch(ctx) {
			env := resource.Success(r.Value)
			if r.Err != nil {
				env = resource.Error(msgCartLoad+r.Err.Error(), lastGood, r.Err)
			} else {
				lastGood = r.Value
			}
			select {
			case out <- env:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (s *Service) publish(action, productID, name string, quantity int) {
	if s.eventBus == nil {
		return
	}
	event := events.CartChangedEvent{
		Action:    action,
		ProductID: productID,
		Name:      name,
		Quantity:  quantity,
		ChangedAt: time.Now(),
	}
	if err := events.CartChangedV1.Publish(s.eventBus, event, nil); err != nil {
		s.logger.Warn("Failed to publish CartChanged event", "action", action, "error", err)
	}
}
