package remote

import (
	"context"

	"github.com/example/storefront/domain/product"
	"github.com/go-monolith/mono/pkg/types"
)

// catalogCacheKey is the cache key holding the last good payload.
const catalogCacheKey = "catalog:products"

// ResponseCache is the subset of the Redis cache the catalog source needs.
type ResponseCache interface {
	Get(ctx context.Context, key string, dest any) (bool, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// CachedSource serves the catalog from a shared cache when possible and falls
// through to the upstream on a miss. Cache faults never fail a fetch.
type CachedSource struct {
	source Source
	cache  ResponseCache
	logger types.Logger
}

// NewCachedSource wraps source with cache-aside reads.
func NewCachedSource(source Source, cache ResponseCache, logger types.Logger) *CachedSource {
	return &CachedSource{
		source: source,
		cache:  cache,
		logger: logger,
	}
}

// FetchProducts returns the cached payload or fetches and stores a fresh one.
// Failed fetches are never cached.
func (s *CachedSource) FetchProducts(ctx context.Context) ([]product.Product, error) {
	var cached []product.Product
	hit, err := s.cache.Get(ctx, catalogCacheKey, &cached)
	if err != nil {
		s.logger.Warn("Catalog cache read failed", "error", err)
	}
	if hit {
		return cached, nil
	}

	products, err := s.source.FetchProducts(ctx)
	if err != nil {
		return nil, err
	}

	if len(products) > 0 {
		if err := s.cache.Set(ctx, catalogCacheKey, products); err != nil {
			s.logger.Warn("Catalog cache write failed", "error", err)
		}
	}
	return products, nil
}

// Invalidate drops the cached payload so the next fetch reaches upstream.
func (s *CachedSource) Invalidate(ctx context.Context) error {
	return s.cache.Delete(ctx, catalogCacheKey)
}
