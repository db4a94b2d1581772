package storefront

import (
	"context"
	"fmt"
	"time"

	"github.com/example/storefront/modules/cart"
	"github.com/example/storefront/modules/catalog"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
)

// Module owns the shared product, favorites and cart feeds.
type Module struct {
	catalogModule *catalog.Module
	cartModule    *cart.Module
	home          *ProductFeed
	favorites     *ProductFeed
	cart          *CartFeed
	grace         time.Duration
	optionLimit   int
	logger        types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a storefront module. Feeds keep their upstream alive for
// grace after the last subscriber leaves.
func NewModule(grace time.Duration, optionLimit int, logger types.Logger) *Module {
	return &Module{
		grace:       grace,
		optionLimit: optionLimit,
		logger:      logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "storefront"
}

// Dependencies returns the modules whose services back the feeds.
func (m *Module) Dependencies() []string {
	return []string{"catalog", "cart"}
}

// SetDependencyServiceContainer is a no-op. Feeds are streams, which the
// request-reply services cannot carry, so the modules are injected directly.
func (m *Module) SetDependencyServiceContainer(_ string, _ mono.ServiceContainer) {}

// SetCatalogModule sets the catalog module (called from main.go).
func (m *Module) SetCatalogModule(cm *catalog.Module) {
	m.catalogModule = cm
}

// SetCartModule sets the cart module (called from main.go).
func (m *Module) SetCartModule(cm *cart.Module) {
	m.cartModule = cm
}

// Start builds the feeds. Upstreams only run while someone subscribes.
func (m *Module) Start(_ context.Context) error {
	if m.catalogModule == nil || m.catalogModule.Service() == nil {
		return fmt.Errorf("catalog module not set")
	}
	if m.cartModule == nil || m.cartModule.Service() == nil {
		return fmt.Errorf("cart module not set")
	}

	products := m.catalogModule.Service()
	m.home = NewProductFeed(products.Products, m.grace, m.optionLimit)
	m.favorites = NewProductFeed(products.Favorites, m.grace, m.optionLimit)
	m.cart = NewCartFeed(m.cartModule.Service().Items, m.grace)

	m.logger.Info("Storefront module started", "grace", m.grace.String(), "option_limit", m.optionLimit)
	return nil
}

// Stop cancels every running upstream.
func (m *Module) Stop(_ context.Context) error {
	if m.home != nil {
		m.home.Close()
		m.favorites.Close()
		m.cart.Close()
	}
	m.logger.Info("Storefront module stopped")
	return nil
}

// Home returns the home feed. It is nil until Start has run.
func (m *Module) Home() *ProductFeed {
	return m.home
}

// Favorites returns the favorites feed.
func (m *Module) Favorites() *ProductFeed {
	return m.favorites
}

// Cart returns the cart feed.
func (m *Module) Cart() *CartFeed {
	return m.cart
}

// Health reports subscriber counts per feed.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	if m.home == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "feeds not initialized",
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"home_subscribers":      m.home.Shared().Subscribers(),
			"favorites_subscribers": m.favorites.Shared().Subscribers(),
			"cart_subscribers":      m.cart.Shared().Subscribers(),
		},
	}
}
