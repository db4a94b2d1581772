// Package api serves the storefront over HTTP and WebSocket.
package api

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/example/storefront/modules/cache"
	"github.com/example/storefront/modules/cart"
	"github.com/example/storefront/modules/catalog"
	"github.com/example/storefront/modules/notification"
	"github.com/example/storefront/modules/storefront"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

// notificationLog is the read side of the notification module.
type notificationLog interface {
	GetNotifications() []notification.Notification
}

// cacheStats is the statistics side of the response cache.
type cacheStats interface {
	Stats() cache.Stats
	ResetStats()
}

// Module provides the HTTP API for the storefront.
type Module struct {
	app              *fiber.App
	catalogAdapter   catalog.Port
	cartAdapter      cart.Port
	storefrontModule *storefront.Module
	cachePlugin      *cache.PluginModule
	home             *storefront.ProductFeed
	favorites        *storefront.ProductFeed
	cartFeed         *storefront.CartFeed
	notifications    notificationLog
	stats            cacheStats
	port             int
	requestTimeout   time.Duration
	logger           types.Logger
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.DependentModule       = (*Module)(nil)
	_ mono.UsePluginModule       = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a new API module. requestTimeout bounds how long a read
// waits for a settled state.
func NewModule(port int, requestTimeout time.Duration, logger types.Logger) *Module {
	return &Module{
		port:           port,
		requestTimeout: requestTimeout,
		logger:         logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "api"
}

// Dependencies returns the list of module dependencies.
func (m *Module) Dependencies() []string {
	return []string{"catalog", "cart", "storefront", "notification"}
}

// SetDependencyServiceContainer receives service containers from dependencies.
func (m *Module) SetDependencyServiceContainer(dependency string, container mono.ServiceContainer) {
	switch dependency {
	case "catalog":
		m.catalogAdapter = catalog.NewAdapter(container)
	case "cart":
		m.cartAdapter = cart.NewAdapter(container)
	}
}

// SetPlugin receives the cache plugin when one is registered.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "cache" {
		return
	}
	p, ok := plugin.(*cache.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for cache", "alias", alias, "expected", "*cache.PluginModule")
		return
	}
	m.cachePlugin = p
}

// SetStorefrontModule sets the module owning the feeds (called from main.go).
func (m *Module) SetStorefrontModule(sm *storefront.Module) {
	m.storefrontModule = sm
}

// SetNotificationModule sets the notification log (called from main.go).
func (m *Module) SetNotificationModule(nm *notification.Module) {
	m.notifications = nm
}

// Start builds the Fiber app and starts the HTTP server.
func (m *Module) Start(_ context.Context) error {
	if m.catalogAdapter == nil {
		return fmt.Errorf("catalog adapter dependency not set")
	}
	if m.cartAdapter == nil {
		return fmt.Errorf("cart adapter dependency not set")
	}
	if m.storefrontModule == nil || m.storefrontModule.Home() == nil {
		return fmt.Errorf("storefront module not set")
	}
	if m.notifications == nil {
		return fmt.Errorf("notification module not set")
	}

	m.home = m.storefrontModule.Home()
	m.favorites = m.storefrontModule.Favorites()
	m.cartFeed = m.storefrontModule.Cart()
	if m.cachePlugin != nil && m.cachePlugin.Port() != nil {
		m.stats = m.cachePlugin.Port()
	}

	m.app = m.newApp()

	go func() {
		addr := fmt.Sprintf(":%d", m.port)
		log.Printf("[api] Starting HTTP server on %s", addr)
		if err := m.app.Listen(addr); err != nil {
			log.Printf("[api] HTTP server error: %v", err)
		}
	}()

	return nil
}

// newApp creates the Fiber app with middleware and routes.
func (m *Module) newApp() *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "Storefront",
		DisableStartupMessage: true,
		ErrorHandler:          m.errorHandler,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          60 * time.Second,
		IdleTimeout:           120 * time.Second,
	})

	// Global middleware
	app.Use(recover.New())
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
		Next:   websocket.IsWebSocketUpgrade,
	}))
	app.Use(cors.New())

	m.setupRoutes(app)
	return app
}

// Stop stops the HTTP server gracefully.
func (m *Module) Stop(_ context.Context) error {
	if m.app != nil {
		log.Println("[api] Shutting down HTTP server...")
		return m.app.Shutdown()
	}
	return nil
}

// Health returns the health status.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	return mono.HealthStatus{
		Healthy: m.app != nil,
		Message: "operational",
		Details: map[string]any{
			"port":          m.port,
			"cache_enabled": m.stats != nil,
		},
	}
}

// errorHandler handles errors from Fiber routes.
func (m *Module) errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	} else {
		m.logger.Error("Unhandled route error", "path", c.Path(), "error", err)
	}

	return c.Status(code).JSON(fiber.Map{
		"error":   "server_error",
		"message": message,
		"code":    code,
		"path":    c.Path(),
		"method":  c.Method(),
	})
}

// GetApp returns the Fiber app (for testing).
func (m *Module) GetApp() *fiber.App {
	return m.app
}
