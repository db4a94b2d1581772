// Package catalog reconciles the remote product catalog with the local store
// and exposes it as a stream of resource envelopes.
package catalog

import (
	"context"
	"time"

	"github.com/example/storefront/domain/product"
	"github.com/example/storefront/domain/resource"
	"github.com/example/storefront/events"
	"github.com/example/storefront/modules/remote"
	"github.com/example/storefront/modules/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"golang.org/x/sync/singleflight"
)

// ProductsResource is the envelope emitted for product lists.
type ProductsResource = resource.Resource[[]product.Product]

// invalidator is implemented by sources that keep their own copy of the
// catalog and can be told to drop it.
type invalidator interface {
	Invalidate(ctx context.Context) error
}

// Service runs the product reconciliation flow.
type Service struct {
	source   remote.Source
	products *store.ProductStore
	eventBus mono.EventBus
	logger   types.Logger
	refresh  singleflight.Group
}

// NewService creates a catalog service. eventBus may be nil, in which case no
// events are published.
func NewService(source remote.Source, products *store.ProductStore, eventBus mono.EventBus, logger types.Logger) *Service {
	return &Service{
		source:   source,
		products: products,
		eventBus: eventBus,
		logger:   logger,
	}
}

// Products starts a new reconciliation flow. It emits Loading with the cached
// list, then an Error if the refresh failed, then Success with the current
// table on every change until ctx is cancelled, when the channel is closed.
func (s *Service) Products(ctx context.Context) <-chan ProductsResource {
	out := make(chan ProductsResource)

	go func() {
		defer close(out)

		send := func(r ProductsResource) bool {
			select {
			case out <- r:
				return true
			case <-ctx.Done():
				return false
			}
		}

		cached, err := s.products.List(ctx)
		if err != nil {
			s.logger.Warn("Failed to read cached products", "error", err)
			cached = nil
		}
		if !send(resource.Loading(cached)) {
			return
		}

		if err := s.sync(ctx); err != nil {
			if ctx.Err() != nil {
				return
			}
			s.publishFailure(err, len(cached))
			if !send(resource.Error(refreshMessage(err), cached, err)) {
				return
			}
		}

		s.follow(s.products.Watch(ctx), "", send)
	}()

	return out
}

// Refresh fetches the remote catalog once, bypassing any response cache, and
// returns the resulting table.
func (s *Service) Refresh(ctx context.Context) ProductsResource {
	if inv, ok := s.source.(invalidator); ok {
		if err := inv.Invalidate(ctx); err != nil {
			s.logger.Warn("Failed to invalidate catalog cache", "error", err)
		}
	}

	syncErr := s.sync(ctx)

	current, err := s.products.List(ctx)
	if err != nil {
		err = localStoreError(err)
		if syncErr == nil {
			return resource.Error(msgUnexpected+err.Error(), []product.Product(nil), err)
		}
	}

	if syncErr != nil {
		s.publishFailure(syncErr, len(current))
		return resource.Error(refreshMessage(syncErr), current, syncErr)
	}
	return resource.Success(current)
}

// sync fetches the catalog and writes it to the store. Concurrent callers share
// one in-flight fetch. The shared work is detached from any single caller's
// cancellation so that one subscriber leaving does not fail the others.
func (s *Service) sync(ctx context.Context) error {
	ch := s.refresh.DoChan("refresh", func() (any, error) {
		return nil, s.apply(context.WithoutCancel(ctx))
	})

	select {
	case <-ctx.Done():
		return ctx.Err()
	case r := <-ch:
		return r.Err
	}
}

// apply performs one fetch-merge-replace cycle. An empty payload leaves the
// store untouched.
func (s *Service) apply(ctx context.Context) error {
	fetched, err := s.source.FetchProducts(ctx)
	if err != nil {
		return err
	}
	if len(fetched) == 0 {
		s.logger.Info("Remote catalog empty, keeping local products")
		s.publishRefreshed(0, false)
		return nil
	}

	local, err := s.products.List(ctx)
	if err != nil {
		return localStoreError(err)
	}

	merged := Merge(fetched, local)
	if err := s.products.ReplaceAll(ctx, merged); err != nil {
		return localStoreError(err)
	}

	s.logger.Info("Catalog refreshed", "count", len(merged))
	s.publishRefreshed(len(merged), true)
	return nil
}

// follow forwards a live query as envelopes. Faults become Error envelopes
// carrying the last good list, prefixed by prefix, or by the unexpected-error
// message when prefix is empty.
func (s *Service) follow(live <-chan store.ProductsResult, prefix string, send func(ProductsResource) bool) {
	if prefix == "" {
		prefix = msgUnexpected
	}

	var lastGood []product.Product
	for r := range live {
		var env ProductsResource
		if r.Err != nil {
			err := localStoreError(r.Err)
			env = resource.Error(prefix+err.Error(), lastGood, err)
		} else {
			lastGood = r.Value
			env = resource.Success(r.Value)
		}
		if !send(env) {
			return
		}
	}
}

// SetFavorite updates one product's favorite flag and returns the stored row.
func (s *Service) SetFavorite(ctx context.Context, id string, favorite bool) resource.Resource[product.Product] {
	var zero product.Product

	if _, err := s.products.SetFavorite(ctx, id, favorite); err != nil {
		err = localStoreError(err)
		return resource.Error(msgFavoriteUpdate+err.Error(), zero, err)
	}

	updated, err := s.products.Get(ctx, id)
	if err != nil {
		err = localStoreError(err)
		return resource.Error(msgFavoriteUpdate+err.Error(), zero, err)
	}
	if updated == nil {
		return resource.Error(MsgNotFoundAfterUpdate, zero, ErrNotFoundAfterUpdate)
	}

	if s.eventBus != nil {
		event := events.FavoriteToggledEvent{
			ProductID:  updated.ID,
			Name:       updated.Name,
			IsFavorite: updated.IsFavorite,
			ToggledAt:  time.Now(),
		}
		if err := events.FavoriteToggledV1.Publish(s.eventBus, event, nil); err != nil {
			s.logger.Warn("Failed to publish FavoriteToggled event", "product_id", id, "error", err)
		}
	}

	return resource.Success(*updated)
}

// Product returns one cached product. A missing row is a success with nil data.
func (s *Service) Product(ctx context.Context, id string) resource.Resource[*product.Product] {
	p, err := s.products.Get(ctx, id)
	if err != nil {
		err = localStoreError(err)
		return resource.Error[*product.Product](msgGetByID+err.Error(), nil, err)
	}
	return resource.Success(p)
}

// Favorites streams the favorite products ordered by name. Read faults are
// reported as Error envelopes and the stream keeps running.
func (s *Service) Favorites(ctx context.Context) <-chan ProductsResource {
	out := make(chan ProductsResource)

	go func() {
		defer close(out)
		s.follow(s.products.WatchFavorites(ctx), msgFavoritesLoad, func(r ProductsResource) bool {
			select {
			case out <- r:
				return true
			case <-ctx.Done():
				return false
			}
		})
	}()

	return out
}

func (s *Service) publishRefreshed(count int, replaced bool) {
	if s.eventBus == nil {
		return
	}
	event := events.CatalogRefreshedEvent{
		Count:       count,
		Replaced:    replaced,
		RefreshedAt: time.Now(),
	}
	if err := events.CatalogRefreshedV1.Publish(s.eventBus, event, nil); err != nil {
		s.logger.Warn("Failed to publish CatalogRefreshed event", "error", err)
	}
}

func (s *Service) publishFailure(err error, cached int) {
	s.logger.Warn("Catalog refresh failed", "error", err)
	if s.eventBus == nil {
		return
	}
	event := events.CatalogRefreshFailedEvent{
		Message:  refreshMessage(err),
		Cached:   cached,
		FailedAt: time.Now(),
	}
	if err := events.CatalogRefreshFailedV1.Publish(s.eventBus, event, nil); err != nil {
		s.logger.Warn("Failed to publish CatalogRefreshFailed event", "error", err)
	}
}
