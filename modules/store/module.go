package store

import (
	"context"
	"fmt"

	"github.com/go-monolith/mono"
	"github.com/go-monolith/mono/pkg/types"
	"gorm.io/gorm/logger"
)

// PluginModule exposes the local store as a mono plugin so it starts before and
// stops after every module that reads from it.
type PluginModule struct {
	container types.ServiceContainer
	store     *Store
	dbPath    string
	logger    types.Logger
}

// Compile-time interface checks.
var (
	_ mono.PluginModule          = (*PluginModule)(nil)
	_ mono.HealthCheckableModule = (*PluginModule)(nil)
)

// NewPluginModule creates a store plugin backed by the SQLite file at dbPath.
func NewPluginModule(dbPath string, logger types.Logger) *PluginModule {
	return &PluginModule{
		dbPath: dbPath,
		logger: logger,
	}
}

// Name returns the module name.
func (m *PluginModule) Name() string {
	return "store"
}

// Start opens the database and applies the schema.
func (m *PluginModule) Start(_ context.Context) error {
	s, err := Open(m.dbPath, logger.Warn)
	if err != nil {
		return err
	}
	m.store = s
	m.logger.Info("Store plugin started", "db_path", m.dbPath, "schema_version", SchemaVersion)
	return nil
}

// Stop closes the database connection.
func (m *PluginModule) Stop(_ context.Context) error {
	if m.store != nil {
		if err := m.store.Close(); err != nil {
			m.logger.Error("Failed to close database", "error", err)
			return fmt.Errorf("failed to close database: %w", err)
		}
	}
	m.logger.Info("Store plugin stopped")
	return nil
}

// SetContainer sets the service container for this plugin.
func (m *PluginModule) SetContainer(container types.ServiceContainer) {
	m.container = container
}

// Container returns the service container for this plugin.
func (m *PluginModule) Container() types.ServiceContainer {
	return m.container
}

// Port returns the opened store. It is nil until Start has run.
func (m *PluginModule) Port() *Store {
	return m.store
}

// Health returns the current health status.
func (m *PluginModule) Health(ctx context.Context) mono.HealthStatus {
	if m.store == nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: "database not initialized",
		}
	}
	if err := m.store.Ping(ctx); err != nil {
		return mono.HealthStatus{
			Healthy: false,
			Message: fmt.Sprintf("database ping failed: %v", err),
		}
	}
	return mono.HealthStatus{
		Healthy: true,
		Message: "operational",
		Details: map[string]any{
			"db_path":            m.dbPath,
			"schema_version":     SchemaVersion,
			"product_watchers":   m.store.Products().Subscribers(),
			"cart_item_watchers": m.store.Cart().Subscribers(),
		},
	}
}
