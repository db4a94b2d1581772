package main

import (
	"context"
	"log"
	"os"

	"github.com/example/storefront/config"
	apimod "github.com/example/storefront/modules/api"
	cachemod "github.com/example/storefront/modules/cache"
	cartmod "github.com/example/storefront/modules/cart"
	catalogmod "github.com/example/storefront/modules/catalog"
	notificationmod "github.com/example/storefront/modules/notification"
	storemod "github.com/example/storefront/modules/store"
	storefrontmod "github.com/example/storefront/modules/storefront"
	gfshutdown "github.com/gelmium/graceful-shutdown"
	"github.com/go-monolith/mono"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Println("=== Storefront ===")
	log.Printf("Catalog: %s", cfg.CatalogURL)
	log.Printf("Database: %s", cfg.DBPath)
	log.Printf("HTTP Port: %d", cfg.HTTPPort)
	if cfg.CacheEnabled() {
		log.Printf("Redis: %s (TTL %s, prefix %q)", cfg.RedisAddr, cfg.CacheTTL, cfg.CachePrefix)
	} else {
		log.Println("Redis: disabled")
	}
	log.Printf("Subscription grace: %s", cfg.SubscriptionGrace)

	// Create mono application
	app, err := mono.NewMonoApplication(
		mono.WithShutdownTimeout(cfg.ShutdownTimeout),
		mono.WithLogLevel(mono.LogLevelInfo),
		mono.WithLogFormat(mono.LogFormatText),
	)
	if err != nil {
		log.Fatalf("Failed to create mono application: %v", err)
	}
	logger := app.Logger()

	// Plugins start before and stop after every module that uses them.
	// Modules implementing UsePluginModule receive them via SetPlugin.
	storePlugin := storemod.NewPluginModule(cfg.DBPath, logger)
	if err := app.RegisterPlugin(storePlugin, "store"); err != nil {
		log.Fatalf("Failed to register store plugin: %v", err)
	}
	if cfg.CacheEnabled() {
		cachePlugin := cachemod.NewPluginModule(cachemod.Config{
			RedisAddr: cfg.RedisAddr,
			Prefix:    cfg.CachePrefix,
			TTL:       cfg.CacheTTL,
		}, logger)
		if err := app.RegisterPlugin(cachePlugin, "cache"); err != nil {
			log.Fatalf("Failed to register cache plugin: %v", err)
		}
	}

	// Create modules
	catalogModule := catalogmod.NewModule(cfg.CatalogURL, cfg.RequestTimeout, logger)
	cartModule := cartmod.NewModule(logger)
	notificationModule := notificationmod.NewModule(cfg.NotificationLimit, logger)
	storefrontModule := storefrontmod.NewModule(cfg.SubscriptionGrace, cfg.FilterOptionLimit, logger)
	apiModule := apimod.NewModule(cfg.HTTPPort, cfg.RequestTimeout, logger)

	// Feeds are streams, which the service containers cannot carry, so these
	// are injected directly.
	storefrontModule.SetCatalogModule(catalogModule)
	storefrontModule.SetCartModule(cartModule)
	apiModule.SetStorefrontModule(storefrontModule)
	apiModule.SetNotificationModule(notificationModule)

	// Register modules
	// - catalog, cart: core flows (ServiceProviderModule + EventEmitterModule)
	// - notification: event consumer
	// - storefront: shared feeds over catalog and cart
	// - api: Fiber HTTP/WebSocket server
	app.Register(catalogModule)
	app.Register(cartModule)
	app.Register(notificationModule)
	app.Register(storefrontModule)
	app.Register(apiModule)

	if err := app.Start(context.Background()); err != nil {
		log.Fatalf("Failed to start app: %v", err)
	}

	log.Println("=== Application Started ===")
	log.Printf("API available at http://localhost:%d", cfg.HTTPPort)
	log.Println("Endpoints:")
	log.Println("  GET    /health                          - Health check")
	log.Println("  GET    /api/v1/products?q=&brand=&model=&sort= - Filtered product list")
	log.Println("  POST   /api/v1/products/refresh         - Refresh from the remote catalog")
	log.Println("  GET    /api/v1/products/:id             - Get product")
	log.Println("  PUT    /api/v1/products/:id/favorite    - Set favorite flag")
	log.Println("  GET    /api/v1/favorites                - Favorite products")
	log.Println("  GET    /api/v1/filters                  - Brand and model options")
	log.Println("  GET    /api/v1/cart                     - Cart with totals")
	log.Println("  POST   /api/v1/cart/items               - Add to cart")
	log.Println("  PUT    /api/v1/cart/items/:id           - Set quantity")
	log.Println("  POST   /api/v1/cart/items/:id/increment - Quantity +1")
	log.Println("  POST   /api/v1/cart/items/:id/decrement - Quantity -1")
	log.Println("  DELETE /api/v1/cart/items/:id           - Remove from cart")
	log.Println("  DELETE /api/v1/cart                     - Clear cart")
	log.Println("  GET    /api/v1/notifications            - Recent notifications")
	log.Println("  GET    /api/v1/cache/stats              - Cache statistics")
	log.Println("  POST   /api/v1/cache/stats/reset        - Reset cache stats")
	log.Println("  WS     /ws/products, /ws/favorites, /ws/cart - Live views")
	log.Println("")
	log.Println("Press Ctrl+C to shutdown")

	// Setup graceful shutdown using gelmium/graceful-shutdown
	wait := gfshutdown.GracefulShutdown(
		context.Background(),
		cfg.ShutdownTimeout,
		map[string]gfshutdown.Operation{
			"mono-app": func(ctx context.Context) error {
				log.Println("Graceful shutdown initiated...")
				return app.Stop(ctx)
			},
		},
	)

	// Wait for shutdown signal and exit with appropriate code
	exitCode := <-wait
	log.Printf("Application exited with code: %d", exitCode)
	os.Exit(exitCode)
}
