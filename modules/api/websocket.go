package api

import (
	"context"

	"github.com/example/storefront/modules/storefront"
	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
)

const criteriaKey = "criteria"

// upgrade rejects plain HTTP requests on /ws and parses the filter criteria
// before the connection is hijacked.
func (m *Module) upgrade(c *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(c) {
		return fiber.ErrUpgradeRequired
	}
	criteria, err := parseCriteria(c)
	if err != nil {
		return badCriteria(c, err)
	}
	c.Locals(criteriaKey, criteria)
	return c.Next()
}

// connContext returns a context cancelled once the client goes away. Incoming
// messages are read and discarded so that close frames are noticed.
func connContext(c *websocket.Conn) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		defer cancel()
		for {
			if _, _, err := c.ReadMessage(); err != nil {
				return
			}
		}
	}()
	return ctx, cancel
}

func criteriaOf(c *websocket.Conn) storefront.Criteria {
	criteria, _ := c.Locals(criteriaKey).(storefront.Criteria)
	return criteria
}

// stream writes every value of ch as a JSON text frame until the client leaves
// or a write fails.
func stream[T any](m *Module, c *websocket.Conn, ch <-chan T) {
	for v := range ch {
		if err := c.WriteJSON(v); err != nil {
			m.logger.Debug("WebSocket write failed", "error", err)
			return
		}
	}
}

// streamProducts handles GET /ws/products.
func (m *Module) streamProducts(c *websocket.Conn) {
	ctx, cancel := connContext(c)
	defer cancel()
	stream(m, c, m.home.Views(ctx, criteriaOf(c)))
}

// streamFavorites handles GET /ws/favorites.
func (m *Module) streamFavorites(c *websocket.Conn) {
	ctx, cancel := connContext(c)
	defer cancel()
	stream(m, c, m.favorites.Views(ctx, criteriaOf(c)))
}

// streamCart handles GET /ws/cart.
func (m *Module) streamCart(c *websocket.Conn) {
	ctx, cancel := connContext(c)
	defer cancel()
	stream(m, c, m.cartFeed.Subscribe(ctx))
}
