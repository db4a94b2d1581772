// Package product holds the locally cached catalog and its persistence.
package product

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Product is a catalog row. IsFavorite is local-only state and is never taken
// from the remote catalog.
type Product struct {
	ID          string `gorm:"column:id;primaryKey" json:"id"`
	Name        string `gorm:"column:name" json:"name"`
	Description string `gorm:"column:description" json:"description"`
	Brand       string `gorm:"column:brand" json:"brand"`
	Model       string `gorm:"column:model" json:"model"`
	Price       string `gorm:"column:price" json:"price"`
	Image       string `gorm:"column:image" json:"image"`
	IsFavorite  bool   `gorm:"column:isFavorite;not null" json:"is_favorite"`
}

// TableName returns the table name for Product model.
func (Product) TableName() string {
	return "products"
}

// ParsePrice parses a price string, accepting a comma as decimal separator.
// Unparsable input yields zero.
func ParsePrice(s string) decimal.Decimal {
	normalized := strings.ReplaceAll(strings.TrimSpace(s), ",", ".")
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// UnitPrice returns the parsed price of p.
func (p Product) UnitPrice() decimal.Decimal {
	return ParsePrice(p.Price)
}
