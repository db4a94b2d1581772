// Package cart holds shopping cart rows and their persistence.
package cart

import (
	"github.com/example/storefront/domain/product"
	"github.com/shopspring/decimal"
)

// Item is a cart row. Name, Price and Image are copied from the product when it
// is added and are not refreshed afterwards.
type Item struct {
	ProductID string `gorm:"column:productId;primaryKey" json:"product_id"`
	Name      string `gorm:"column:name" json:"name"`
	Price     string `gorm:"column:price" json:"price"`
	Image     string `gorm:"column:image" json:"image"`
	Quantity  int    `gorm:"column:quantity;not null" json:"quantity"`
}

// TableName returns the table name for Item model.
func (Item) TableName() string {
	return "cart_items"
}

// NewItem snapshots p into a cart row with the given quantity.
func NewItem(p product.Product, quantity int) Item {
	return Item{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Image:     p.Image,
		Quantity:  quantity,
	}
}

// Subtotal returns price times quantity.
func (i Item) Subtotal() decimal.Decimal {
	return product.ParsePrice(i.Price).Mul(decimal.NewFromInt(int64(i.Quantity)))
}
