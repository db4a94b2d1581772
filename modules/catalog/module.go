package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/example/storefront/events"
	"github.com/example/storefront/modules/cache"
	"github.com/example/storefront/modules/remote"
	"github.com/example/storefront/modules/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module provides the product reconciliation flow as a mono module.
type Module struct {
	storePlugin *store.PluginModule
	cachePlugin *cache.PluginModule
	eventBus    mono.EventBus
	service     *Service
	source      remote.Source
	catalogURL  string
	timeout     time.Duration
	logger      types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.ServiceProviderModule = (*Module)(nil)
	_ mono.EventEmitterModule    = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a catalog module fetching from catalogURL.
func NewModule(catalogURL string, timeout time.Duration, logger types.Logger) *Module {
	return &Module{
		catalogURL: catalogURL,
		timeout:    timeout,
		logger:     logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "catalog"
}

// SetPlugin receives the store plugin and, when configured, the cache plugin.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	switch alias {
	case "store":
		p, ok := plugin.(*store.PluginModule)
		if !ok {
			m.logger.Error("Invalid plugin type for store", "alias", alias, "expected", "*store.PluginModule")
			return
		}
		m.storePlugin = p
		m.logger.Info("Received store plugin", "alias", alias)
	case "cache":
		p, ok := plugin.(*cache.PluginModule)
		if !ok {
			m.logger.Error("Invalid plugin type for cache", "alias", alias, "expected", "*cache.PluginModule")
			return
		}
		m.cachePlugin = p
		m.logger.Info("Received cache plugin", "alias", alias)
	}
}

// SetEventBus receives the event bus used to publish catalog events.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents lists the events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.CatalogRefreshedV1.ToBase(),
		events.CatalogRefreshFailedV1.ToBase(),
		events.FavoriteToggledV1.ToBase(),
	}
}

// RegisterServices registers the catalog request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceRefresh, json.Unmarshal, json.Marshal, m.handleRefresh,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRefresh, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceGet, json.Unmarshal, json.Marshal, m.handleGet,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceGet, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceToggleFavorite, json.Unmarshal, json.Marshal, m.handleToggleFavorite,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceToggleFavorite, err)
	}

	m.logger.Info("Registered services", "services", []string{ServiceRefresh, ServiceGet, ServiceToggleFavorite})
	return nil
}

// Start builds the remote source and the service.
func (m *Module) Start(_ context.Context) error {
	if m.storePlugin == nil || m.storePlugin.Port() == nil {
		return fmt.Errorf("required plugin 'store' not registered")
	}
	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, catalog events will not be published")
	}

	m.source = remote.NewClient(m.catalogURL, m.timeout)
	if m.cachePlugin != nil && m.cachePlugin.Port() != nil {
		m.source = remote.NewCachedSource(m.source, m.cachePlugin.Port(), m.logger)
		m.logger.Info("Catalog responses cached in Redis")
	}

	m.service = NewService(m.source, m.storePlugin.Port().Products(), m.eventBus, m.logger)
	m.logger.Info("Catalog module started", "catalog_url", m.catalogURL, "timeout", m.timeout.String())
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Catalog module stopped")
	return nil
}

// Service returns the catalog service. It is nil until Start has run.
func (m *Module) Service() *Service {
	return m.service
}

// Health returns the current health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	_, cached := m.source.(*remote.CachedSource)
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"catalog_url": m.catalogURL,
			"cached":      cached,
		},
	}
}

func (m *Module) handleRefresh(ctx context.Context, _ RefreshRequest, _ *mono.Msg) (ProductsResponse, error) {
	return m.service.Refresh(ctx), nil
}

func (m *Module) handleGet(ctx context.Context, req GetProductRequest, _ *mono.Msg) (ProductResponse, error) {
	if req.ID == "" {
		return ProductResponse{}, fmt.Errorf("product id is required")
	}
	return m.service.Product(ctx, req.ID), nil
}

func (m *Module) handleToggleFavorite(ctx context.Context, req ToggleFavoriteRequest, _ *mono.Msg) (FavoriteResponse, error) {
	if req.ID == "" {
		return FavoriteResponse{}, fmt.Errorf("product id is required")
	}
	return m.service.SetFavorite(ctx, req.ID, req.Favorite), nil
}
