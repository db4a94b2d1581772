package cart

import (
	domain "github.com/example/storefront/domain/cart"
	"github.com/shopspring/decimal"
)

// Summary aggregates a cart.
type Summary struct {
	Lines    int
	Quantity int
	Total    decimal.Decimal
}

// Summarize totals items. Prices that do not parse count as zero.
func Summarize(items []domain.Item) Summary {
	s := Summary{Total: decimal.Zero}
	for _, item := range items {
		s.Lines++
		s.Quantity += item.Quantity
		s.Total = s.Total.Add(item.Subtotal())
	}
	return s
}

// Snapshot is the wire form of a cart: its rows plus the summary.
type Snapshot struct {
	Items    []domain.Item `json:"items"`
	Lines    int           `json:"lines"`
	Quantity int           `json:"quantity"`
	Total    string        `json:"total"`
}

// NewSnapshot builds a Snapshot of items with the total rendered to cents.
func NewSnapshot(items []domain.Item) Snapshot {
	if items == nil {
		items = []domain.Item{}
	}
	s := Summarize(items)
	return Snapshot{
		Items:    items,
		Lines:    s.Lines,
		Quantity: s.Quantity,
		Total:    s.Total.StringFixed(2),
	}
}
