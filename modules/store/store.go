// Package store owns the SQLite handle shared by the catalog and cart flows.
package store

import (
	"context"
	"fmt"

	"github.com/example/storefront/domain/cart"
	"github.com/example/storefront/domain/product"
	"github.com/example/storefront/modules/broadcast"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SchemaVersion is written to PRAGMA user_version. A database carrying any
// other version is wiped and rebuilt on open.
const SchemaVersion = 4

// Store bundles the product and cart tables with their change hubs.
type Store struct {
	db       *gorm.DB
	products *ProductStore
	cart     *CartStore
}

// Open opens the SQLite database at path and prepares its schema.
func Open(path string, level logger.LogLevel) (*Store, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	s, err := New(db)
	if err != nil {
		if sqlDB, dbErr := db.DB(); dbErr == nil {
			sqlDB.Close()
		}
		return nil, err
	}
	return s, nil
}

// New wraps an open GORM handle. SQLite only tolerates one writer, so the pool
// is pinned to a single connection; this also keeps ":memory:" databases
// consistent across calls.
func New(db *gorm.DB) (*Store, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := ensureSchema(db); err != nil {
		return nil, err
	}

	return &Store{
		db:       db,
		products: &ProductStore{repo: product.NewRepository(db), hub: broadcast.NewHub("products")},
		cart:     &CartStore{repo: cart.NewRepository(db), hub: broadcast.NewHub("cart_items")},
	}, nil
}

// ensureSchema drops both tables when the stored version differs, then
// migrates and stamps the current version.
func ensureSchema(db *gorm.DB) error {
	var version int
	if err := db.Raw("PRAGMA user_version").Scan(&version).Error; err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}

	if version != SchemaVersion {
		if err := db.Migrator().DropTable(&product.Product{}, &cart.Item{}); err != nil {
			return fmt.Errorf("failed to drop outdated tables: %w", err)
		}
	}

	if err := db.AutoMigrate(&product.Product{}, &cart.Item{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}

	if version != SchemaVersion {
		if err := db.Exec(fmt.Sprintf("PRAGMA user_version = %d", SchemaVersion)).Error; err != nil {
			return fmt.Errorf("failed to write schema version: %w", err)
		}
	}
	return nil
}

// Products returns the product table port.
func (s *Store) Products() *ProductStore {
	return s.products
}

// Cart returns the cart table port.
func (s *Store) Cart() *CartStore {
	return s.cart
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return fmt.Errorf("database error: %w", err)
	}
	return sqlDB.PingContext(ctx)
}

// Close closes the database connection.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
