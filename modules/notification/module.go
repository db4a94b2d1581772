// Package notification turns storefront events into the user-facing messages
// a client shows as toasts.
package notification

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/example/storefront/events"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
	"github.com/google/uuid"
)

// DefaultLimit is the number of notifications kept when none is configured.
const DefaultLimit = 100

// Notification types.
const (
	TypeFavorite       = "favorite"
	TypeCart           = "cart"
	TypeCatalog        = "catalog"
	TypeCatalogFailure = "catalog_failure"
)

// Notification is one logged message.
type Notification struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Message   string    `json:"message"`
	Subject   string    `json:"subject,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// Module consumes catalog and cart events and keeps the most recent messages.
type Module struct {
	notifications []Notification
	limit         int
	logger        types.Logger
	mu            sync.RWMutex
}

// Compile-time interface checks.
var (
	_ mono.Module                = (*Module)(nil)
	_ mono.EventConsumerModule   = (*Module)(nil)
	_ mono.HealthCheckableModule = (*Module)(nil)
)

// NewModule creates a notification module keeping at most limit messages.
func NewModule(limit int, logger types.Logger) *Module {
	if limit <= 0 {
		limit = DefaultLimit
	}
	return &Module{
		notifications: make([]Notification, 0, limit),
		limit:         limit,
		logger:        logger,
	}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "notification"
}

// RegisterEventConsumers subscribes to catalog and cart events.
func (m *Module) RegisterEventConsumers(registry mono.EventRegistry) error {
	if err := helper.RegisterTypedEventConsumer(registry, events.FavoriteToggledV1, m.handleFavoriteToggled, m); err != nil {
		return fmt.Errorf("failed to register FavoriteToggled consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.CartChangedV1, m.handleCartChanged, m); err != nil {
		return fmt.Errorf("failed to register CartChanged consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.CatalogRefreshedV1, m.handleCatalogRefreshed, m); err != nil {
		return fmt.Errorf("failed to register CatalogRefreshed consumer: %w", err)
	}
	if err := helper.RegisterTypedEventConsumer(registry, events.CatalogRefreshFailedV1, m.handleCatalogRefreshFailed, m); err != nil {
		return fmt.Errorf("failed to register CatalogRefreshFailed consumer: %w", err)
	}

	m.logger.Info("Registered event consumers", "events", []string{"FavoriteToggled", "CartChanged", "CatalogRefreshed", "CatalogRefreshFailed"})
	return nil
}

func (m *Module) handleFavoriteToggled(_ context.Context, event events.FavoriteToggledEvent, _ *mono.Msg) error {
	m.record(TypeFavorite, event.ProductID, FavoriteMessage(event.Name, event.IsFavorite))
	return nil
}

func (m *Module) handleCartChanged(_ context.Context, event events.CartChangedEvent, _ *mono.Msg) error {
	m.record(TypeCart, event.ProductID, CartMessage(event))
	return nil
}

func (m *Module) handleCatalogRefreshed(_ context.Context, event events.CatalogRefreshedEvent, _ *mono.Msg) error {
	if !event.Replaced {
		return nil
	}
	m.record(TypeCatalog, "", fmt.Sprintf("Catalog updated: %d products.", event.Count))
	return nil
}

func (m *Module) handleCatalogRefreshFailed(_ context.Context, event events.CatalogRefreshFailedEvent, _ *mono.Msg) error {
	m.record(TypeCatalogFailure, "", event.Message)
	return nil
}

// FavoriteMessage is the confirmation shown after a favorite toggle.
func FavoriteMessage(name string, favorite bool) string {
	if favorite {
		return name + " added to favorites."
	}
	return name + " removed from favorites."
}

// CartMessage is the confirmation shown after a cart change.
func CartMessage(event events.CartChangedEvent) string {
	switch event.Action {
	case events.CartActionAdded:
		return event.Name + " added to cart!"
	case events.CartActionRemoved:
		return event.Name + " removed from cart."
	case events.CartActionCleared:
		return "Cart cleared."
	default:
		return fmt.Sprintf("%s quantity set to %d.", event.Name, event.Quantity)
	}
}

func (m *Module) record(notificationType, subject, message string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.notifications) == m.limit {
		copy(m.notifications, m.notifications[1:])
		m.notifications = m.notifications[:m.limit-1]
	}
	m.notifications = append(m.notifications, Notification{
		ID:        uuid.NewString(),
		Type:      notificationType,
		Message:   message,
		Subject:   subject,
		Timestamp: time.Now(),
	})
	m.logger.Debug("Notification recorded", "type", notificationType, "message", message)
}

// GetNotifications returns the kept messages, oldest first.
func (m *Module) GetNotifications() []Notification {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]Notification, len(m.notifications))
	copy(result, m.notifications)
	return result
}

// Start starts the module.
func (m *Module) Start(_ context.Context) error {
	m.logger.Info("Notification module started", "limit", m.limit)
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Notification module stopped")
	return nil
}

// Health reports how many messages are kept.
func (m *Module) Health(_ context.Context) mono.HealthStatus {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"notifications": len(m.notifications),
			"limit":         m.limit,
		},
	}
}
