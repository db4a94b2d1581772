package cart

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository provides database operations for cart items.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new cart repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// List retrieves all cart items in insertion order.
func (r *Repository) List(ctx context.Context) ([]Item, error) {
	var items []Item
	if err := r.db.WithContext(ctx).Order("rowid").Find(&items).Error; err != nil {
		return nil, fmt.Errorf("failed to list cart items: %w", err)
	}
	return items, nil
}

// GetByProductID retrieves the row for a product. A missing row yields nil, nil.
func (r *Repository) GetByProductID(ctx context.Context, productID string) (*Item, error) {
	var item Item
	if err := r.db.WithContext(ctx).First(&item, `"productId" = ?`, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get cart item: %w", err)
	}
	return &item, nil
}

// AddOne inserts item with quantity 1, or rewrites the existing row with its
// quantity bumped by one. The existing snapshot is kept.
func (r *Repository) AddOne(ctx context.Context, item Item) (Item, error) {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Item
		err := tx.First(&existing, `"productId" = ?`, item.ProductID).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item.Quantity = 1
		case err != nil:
			return err
		default:
			item = existing
			item.Quantity++
		}
		return tx.Clauses(clause.OnConflict{UpdateAll: true}).Create(&item).Error
	})
	if err != nil {
		return Item{}, fmt.Errorf("failed to add cart item: %w", err)
	}
	return item, nil
}

// UpdateQuantity sets the quantity of a row and reports how many rows matched.
func (r *Repository) UpdateQuantity(ctx context.Context, productID string, quantity int) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&Item{}).
		Where(`"productId" = ?`, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to update cart quantity: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// AdjustQuantity adds delta to a row's quantity and deletes the row when the
// result drops to zero or below. It returns the updated row, or nil when the
// row is gone or never existed.
func (r *Repository) AdjustQuantity(ctx context.Context, productID string, delta int) (*Item, error) {
	var out *Item
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing Item
		err := tx.First(&existing, `"productId" = ?`, productID).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		next := existing.Quantity + delta
		if next <= 0 {
			return tx.Delete(&Item{}, `"productId" = ?`, productID).Error
		}
		if err := tx.Model(&Item{}).Where(`"productId" = ?`, productID).Update("quantity", next).Error; err != nil {
			return err
		}
		existing.Quantity = next
		out = &existing
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to adjust cart quantity: %w", err)
	}
	return out, nil
}

// DeleteByProductID removes a row and reports how many rows matched.
func (r *Repository) DeleteByProductID(ctx context.Context, productID string) (int64, error) {
	result := r.db.WithContext(ctx).Delete(&Item{}, `"productId" = ?`, productID)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to delete cart item: %w", result.Error)
	}
	return result.RowsAffected, nil
}

// Clear removes every cart row.
func (r *Repository) Clear(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Exec("DELETE FROM cart_items").Error; err != nil {
		return fmt.Errorf("failed to clear cart: %w", err)
	}
	return nil
}

// Migrate runs database migrations for the cart table.
func (r *Repository) Migrate() error {
	return r.db.AutoMigrate(&Item{})
}
