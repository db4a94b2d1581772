package product

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// Repository provides database operations for products.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new product repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List retrieves all products in insertion order.
func (r *Repository) List(ctx context.Context) ([]Product, error) {
	var products []Product
	if err := r.db.WithContext(ctx).Order("rowid").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// ListFavorites retrieves favorite products ordered by name.
func (r *Repository) ListFavorites(ctx context.Context) ([]Product, error) {
	var products []Product
	err := r.db.WithContext(ctx).
		Where("isFavorite = ?", true).
		Order("name ASC").
		Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list favorite products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by its ID. A missing row yields nil, nil.
func (r *Repository) GetByID(ctx context.Context, id string) (*Product, error) {
	var product Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return &product, nil
}

// ReplaceAll swaps the table contents for products in a single transaction.
func (r *Repository) ReplaceAll(ctx context.Context, products []Product) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Exec("DELETE FROM products").Error; err != nil {
			return err
		}
		if len(products) == 0 {
			return nil
		}
		return tx.CreateInBatches(products, 100).Error
	})
	if err != nil {
		return fmt.Errorf("failed to replace products: %w", err)
	}
	return nil
}

// UpdateFavorite sets the favorite flag on a single row and reports how many
// rows matched.
func (r *Repository) UpdateFavorite(ctx context.Context, id string, favorite bool) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Product{}).
		Where("id = ?", id).
		Update("isFavorite", favorite)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update favorite: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteAll removes every product.
func (r *Repository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("DELETE FROM products").Error; err != nil {
		return fmt.Errorf("failed to delete products: %w", err)
	}
	return nil
}

// Migrate runs database migrations for the product table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Product{})
}
