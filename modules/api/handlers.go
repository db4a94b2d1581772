package api

import (
	"context"
	"strings"

	"github.com/example/storefront/events"
	"github.com/example/storefront/modules/cart"
	"github.com/example/storefront/modules/catalog"
	"github.com/example/storefront/modules/notification"
	"github.com/example/storefront/modules/storefront"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

// setupRoutes configures all HTTP routes.
func (m *Module) setupRoutes(app *fiber.App) {
	// Health check
	app.Get("/health", m.healthCheck)

	// WebSocket streams
	ws := app.Group("/ws", m.upgrade)
	ws.Get("/products", websocket.New(m.streamProducts))
	ws.Get("/favorites", websocket.New(m.streamFavorites))
	ws.Get("/cart", websocket.New(m.streamCart))

	// API v1 routes
	api := app.Group("/api/v1")

	products := api.Group("/products")
	products.Get("/", m.listProducts)
	products.Post("/refresh", m.refreshProducts)
	products.Get("/:id", m.getProduct)
	products.Put("/:id/favorite", m.setFavorite)

	api.Get("/favorites", m.listFavorites)
	api.Get("/filters", m.getFilters)

	carts := api.Group("/cart")
	carts.Get("/", m.getCart)
	carts.Delete("/", m.clearCart)
	carts.Post("/items", m.addCartItem)
	carts.Put("/items/:id", m.setCartQuantity)
	carts.Post("/items/:id/increment", m.incrementCartItem)
	carts.Post("/items/:id/decrement", m.decrementCartItem)
	carts.Delete("/items/:id", m.removeCartItem)

	api.Get("/notifications", m.listNotifications)

	// Cache statistics endpoints
	cacheGroup := api.Group("/cache")
	cacheGroup.Get("/stats", m.getCacheStats)
	cacheGroup.Post("/stats/reset", m.resetCacheStats)
}

func (m *Module) requestContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), m.requestTimeout)
}

// healthCheck handles GET /health.
func (m *Module) healthCheck(c *fiber.Ctx) error {
	return c.JSON(HealthResponse{
		Status: "healthy",
		Details: map[string]any{
			"module":        "api",
			"port":          m.port,
			"cache_enabled": m.stats != nil,
		},
	})
}

// parseCriteria reads q, brand, model and sort. brand and model may repeat or
// hold comma separated values.
func parseCriteria(c *fiber.Ctx) (storefront.Criteria, error) {
	sort, err := storefront.ParseSortOrder(c.Query("sort"))
	if err != nil {
		return storefront.Criteria{}, err
	}
	return storefront.Criteria{
		Query:  strings.TrimSpace(c.Query("q")),
		Brands: multiQuery(c, "brand"),
		Models: multiQuery(c, "model"),
		Sort:   sort,
	}, nil
}

func multiQuery(c *fiber.Ctx, key string) []string {
	var out []string
	for _, raw := range c.Context().QueryArgs().PeekMulti(key) {
		for _, v := range strings.Split(string(raw), ",") {
			if v = strings.TrimSpace(v); v != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

func badCriteria(c *fiber.Ctx, err error) error {
	return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
		Error:   "validation_error",
		Message: err.Error(),
	})
}

// listProducts handles GET /api/v1/products. When no settled state arrives in
// time the latest, still loading, view is returned.
func (m *Module) listProducts(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return badCriteria(c, err)
	}
	ctx, cancel := m.requestContext(c)
	defer cancel()

	view, _ := m.home.Current(ctx, criteria)
	return c.JSON(view)
}

// refreshProducts handles POST /api/v1/products/refresh.
func (m *Module) refreshProducts(c *fiber.Ctx) error {
	resp, err := m.catalogAdapter.Refresh(c.UserContext())
	if err != nil {
		m.logger.Error("Refresh call failed", "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "service_unavailable",
			Message: "Catalog service unavailable",
		})
	}
	if resp.IsError() {
		return c.Status(fiber.StatusBadGateway).JSON(resp)
	}
	return c.JSON(resp)
}

// getProduct handles GET /api/v1/products/:id.
func (m *Module) getProduct(c *fiber.Ctx) error {
	resp, err := m.catalogAdapter.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		m.logger.Error("Get product call failed", "id", c.Params("id"), "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "service_unavailable",
			Message: "Catalog service unavailable",
		})
	}
	if resp.IsError() {
		return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
			Error:   "lookup_failed",
			Message: resp.Message,
		})
	}
	if resp.Data == nil {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Product not found",
		})
	}
	return c.JSON(resp.Data)
}

// setFavorite handles PUT /api/v1/products/:id/favorite.
func (m *Module) setFavorite(c *fiber.Ctx) error {
	var req FavoriteRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if req.Favorite == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "favorite is required",
		})
	}

	resp, err := m.catalogAdapter.ToggleFavorite(c.UserContext(), c.Params("id"), *req.Favorite)
	if err != nil {
		m.logger.Error("Toggle favorite call failed", "id", c.Params("id"), "error", err)
		return c.Status(fiber.StatusServiceUnavailable).JSON(ErrorResponse{
			Error:   "service_unavailable",
			Message: "Catalog service unavailable",
		})
	}
	if resp.IsError() {
		status := fiber.StatusInternalServerError
		if resp.Message == catalog.MsgNotFoundAfterUpdate {
			status = fiber.StatusNotFound
		}
		return c.Status(status).JSON(ErrorResponse{
			Error:   "favorite_failed",
			Message: resp.Message,
		})
	}

	return c.JSON(FavoriteResponse{
		Product: resp.Data,
		Message: notification.FavoriteMessage(resp.Data.Name, resp.Data.IsFavorite),
	})
}

// listFavorites handles GET /api/v1/favorites. The same filters as the product
// list apply.
func (m *Module) listFavorites(c *fiber.Ctx) error {
	criteria, err := parseCriteria(c)
	if err != nil {
		return badCriteria(c, err)
	}
	ctx, cancel := m.requestContext(c)
	defer cancel()

	view, _ := m.favorites.Current(ctx, criteria)
	return c.JSON(view)
}

// getFilters handles GET /api/v1/filters.
func (m *Module) getFilters(c *fiber.Ctx) error {
	ctx, cancel := m.requestContext(c)
	defer cancel()

	view, _ := m.home.Current(ctx, storefront.Criteria{})
	return c.JSON(view.Options)
}

// getCart handles GET /api/v1/cart.
func (m *Module) getCart(c *fiber.Ctx) error {
	ctx, cancel := m.requestContext(c)
	defer cancel()

	state, _ := m.cartFeed.Current(ctx)
	return c.JSON(state)
}

// addCartItem handles POST /api/v1/cart/items.
func (m *Module) addCartItem(c *fiber.Ctx) error {
	var req AddItemRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if strings.TrimSpace(req.ProductID) == "" {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "product_id is required",
		})
	}

	snapshot, err := m.cartAdapter.Add(c.UserContext(), req.ProductID)
	if err != nil {
		return m.cartError(c, err)
	}

	resp := CartResponse{Cart: snapshot}
	for _, item := range snapshot.Items {
		if item.ProductID == req.ProductID {
			resp.Message = notification.CartMessage(events.CartChangedEvent{
				Action: events.CartActionAdded,
				Name:   item.Name,
			})
			break
		}
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// setCartQuantity handles PUT /api/v1/cart/items/:id.
func (m *Module) setCartQuantity(c *fiber.Ctx) error {
	var req QuantityRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "invalid_request",
			Message: "Invalid request body",
		})
	}
	if req.Quantity == nil {
		return c.Status(fiber.StatusBadRequest).JSON(ErrorResponse{
			Error:   "validation_error",
			Message: "quantity is required",
		})
	}

	snapshot, err := m.cartAdapter.SetQuantity(c.UserContext(), c.Params("id"), *req.Quantity)
	if err != nil {
		return m.cartError(c, err)
	}
	return c.JSON(CartResponse{Cart: snapshot})
}

// incrementCartItem handles POST /api/v1/cart/items/:id/increment.
func (m *Module) incrementCartItem(c *fiber.Ctx) error {
	snapshot, err := m.cartAdapter.Increment(c.UserContext(), c.Params("id"))
	if err != nil {
		return m.cartError(c, err)
	}
	return c.JSON(CartResponse{Cart: snapshot})
}

// decrementCartItem handles POST /api/v1/cart/items/:id/decrement.
func (m *Module) decrementCartItem(c *fiber.Ctx) error {
	snapshot, err := m.cartAdapter.Decrement(c.UserContext(), c.Params("id"))
	if err != nil {
		return m.cartError(c, err)
	}
	return c.JSON(CartResponse{Cart: snapshot})
}

// removeCartItem handles DELETE /api/v1/cart/items/:id.
func (m *Module) removeCartItem(c *fiber.Ctx) error {
	snapshot, err := m.cartAdapter.Remove(c.UserContext(), c.Params("id"))
	if err != nil {
		return m.cartError(c, err)
	}
	return c.JSON(CartResponse{Cart: snapshot})
}

// clearCart handles DELETE /api/v1/cart.
func (m *Module) clearCart(c *fiber.Ctx) error {
	snapshot, err := m.cartAdapter.Clear(c.UserContext())
	if err != nil {
		return m.cartError(c, err)
	}
	return c.JSON(CartResponse{Cart: snapshot})
}

// cartError maps a cart service failure. Errors cross the service boundary as
// text, so the not-found case is recognized by its message.
func (m *Module) cartError(c *fiber.Ctx, err error) error {
	if strings.Contains(err.Error(), cart.ErrProductNotFound.Error()) {
		return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
			Error:   "not_found",
			Message: "Product not found",
		})
	}
	m.logger.Error("Cart call failed", "path", c.Path(), "error", err)
	return c.Status(fiber.StatusInternalServerError).JSON(ErrorResponse{
		Error:   "cart_failed",
		Message: "Failed to update cart",
	})
}

// listNotifications handles GET /api/v1/notifications.
func (m *Module) listNotifications(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"notifications": m.notifications.GetNotifications(),
	})
}

// getCacheStats handles GET /api/v1/cache/stats.
func (m *Module) getCacheStats(c *fiber.Ctx) error {
	if m.stats == nil {
		return cacheDisabled(c)
	}
	return c.JSON(m.stats.Stats())
}

// resetCacheStats handles POST /api/v1/cache/stats/reset.
func (m *Module) resetCacheStats(c *fiber.Ctx) error {
	if m.stats == nil {
		return cacheDisabled(c)
	}
	m.stats.ResetStats()
	return c.JSON(fiber.Map{
		"message": "Cache statistics reset",
	})
}

func cacheDisabled(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(ErrorResponse{
		Error:   "cache_disabled",
		Message: "Response cache is not configured",
	})
}
