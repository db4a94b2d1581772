package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/example/storefront/events"
	"github.com/example/storefront/modules/store"
	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/helper"
	"github.com/go-monolith/mono/pkg/types"
)

// Module provides the cart flow as a mono module.
type Module struct {
	storePlugin *store.PluginModule
	eventBus    mono.EventBus
	service     *Service
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

// NewModule creates a cart module.
func NewModule(logger types.Logger) *Module {
	return &Module{logger: logger}
}

// Name returns the module name.
func (m *Module) Name() string {
	return "cart"
}

// SetPlugin receives the store plugin.
func (m *Module) SetPlugin(alias string, plugin mono.PluginModule) {
	if alias != "store" {
		return
	}
	p, ok := plugin.(*store.PluginModule)
	if !ok {
		m.logger.Error("Invalid plugin type for store", "alias", alias, "expected", "*store.PluginModule")
		return
	}
	m.storePlugin = p
	m.logger.Info("Received store plugin", "alias", alias)
}

// SetEventBus receives the event bus used to publish cart events.
func (m *Module) SetEventBus(bus mono.EventBus) {
	m.eventBus = bus
}

// EmitEvents lists the events this module publishes.
func (m *Module) EmitEvents() []mono.BaseEventDefinition {
	return []mono.BaseEventDefinition{
		events.CartChangedV1.ToBase(),
	}
}

// RegisterServices registers the cart request-reply services.
func (m *Module) RegisterServices(container mono.ServiceContainer) error {
	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceAdd, json.Unmarshal, json.Marshal, m.handleAdd,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceAdd, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceRemove, json.Unmarshal, json.Marshal, m.handleRemove,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceRemove, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceSetQuantity, json.Unmarshal, json.Marshal, m.handleSetQuantity,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceSetQuantity, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceIncrement, json.Unmarshal, json.Marshal, m.handleIncrement,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceIncrement, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceDecrement, json.Unmarshal, json.Marshal, m.handleDecrement,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceDecrement, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceClear, json.Unmarshal, json.Marshal, m.handleClear,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceClear, err)
	}

	if err := helper.RegisterTypedRequestReplyService(
		container, ServiceList, json.Unmarshal, json.Marshal, m.handleList,
	); err != nil {
		return fmt.Errorf("failed to register %s service: %w", ServiceList, err)
	}

	m.logger.Info("Registered services", "services", []string{
		ServiceAdd, ServiceRemove, ServiceSetQuantity, ServiceIncrement, ServiceDecrement, ServiceClear, ServiceList,
	})
	return nil
}

// Start creates the service.
func (m *Module) Start(_ context.Context) error {
	if m.storePlugin == nil || m.storePlugin.Port() == nil {
		return fmt.Errorf("required plugin 'store' not registered")
	}
	if m.eventBus == nil {
		m.logger.Warn("Event bus not set, cart events will not be published")
	}

	s := m.storePlugin.Port()
	m.service = NewService(s.Cart(), s.Products(), m.eventBus, m.logger)
	m.logger.Info("Cart module started")
	return nil
}

// Stop stops the module.
func (m *Module) Stop(_ context.Context) error {
	m.logger.Info("Cart module stopped")
	return nil
}

// Service returns the cart service. It is nil until Start has run.
func (m *Module) Service() *Service {
	return m.service
}

// Health returns the current health status.
func (m *Module) Health(ctx context.Context) mono.HealthStatus {
	if m.service == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "service not initialized",
		}
	}
	items, err := m.service.List(ctx)
	if err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("cart read failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"lines": len(items),
		},
	}
}

// snapshot reads the cart after a mutation for the reply.
func (m *Module) snapshot(ctx context.Context) (Snapshot, error) {
	items, err := m.service.List(ctx)
	if err != nil {
		return Snapshot{}, err
	}
	return NewSnapshot(items), nil
}

func (m *Module) handleAdd(ctx context.Context, req ItemRequest, _ *mono.Msg) (Snapshot, error) {
	if req.ProductID == "" {
		return Snapshot{}, fmt.Errorf("product_id is required")
	}
	if _, err := m.service.AddByID(ctx, req.ProductID); err != nil {
		return Snapshot{}, err
	}
	return m.snapshot(ctx)
}

func (m *Module) handleRemove(ctx context.Context, req ItemRequest, _ *mono.Msg) (Snapshot, error) {
	if err := m.service.Remove(ctx, req.ProductID); err != nil {
		return Snapshot{}, err
	}
	return m.snapshot(ctx)
}

func (m *Module) handleSetQuantity(ctx context.Context, req SetQuantityRequest, _ *mono.Msg) (Snapshot, error) {
	if err := m.service.SetQuantity(ctx, req.ProductID, req.Quantity); err != nil {
		return Snapshot{}, err
	}
	return m.snapshot(ctx)
}

func (m *Module) handleIncrement(ctx context.Context, req ItemRequest, _ *mono.Msg) (Snapshot, error) {
	if _, err := m.service.Increment(ctx, req.ProductID); err != nil {
		return Snapshot{}, err
	}
	return m.snapshot(ctx)
}

func (m *Module) handleDecrement(ctx context.Context, req ItemRequest, _ *mono.Msg) (Snapshot, error) {
	if _, err := m.service.Decrement(ctx, req.ProductID); err != nil {
		return Snapshot{}, err
	}
	return m.snapshot(ctx)
}

func (m *Module) handleClear(ctx context.Context, _ EmptyRequest, _ *mono.Msg) (Snapshot, error) {
	if err := m.service.Clear(ctx); err != nil {
		return Snapshot{}, err
	}
	return m.snapshot(ctx)
}

func (m *Module) handleList(ctx context.Context, _ EmptyRequest, _ *mono.Msg) (Snapshot, error) {
	return m.snapshot(ctx)
}
