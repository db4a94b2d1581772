// Package storefront holds the presentation state shared by the HTTP and
// WebSocket surfaces: filtering, option lists and long-lived subscriptions.
package storefront

import (
	"fmt"
	"slices"
	"strings"

	"github.com/example/storefront/domain/product"
)

// SortOrder names a product ordering.
type SortOrder string

const (
	SortDefault   SortOrder = "default"
	SortNameAsc   SortOrder = "name_asc"
	SortNameDesc  SortOrder = "name_desc"
	SortPriceAsc  SortOrder = "price_asc"
	SortPriceDesc SortOrder = "price_desc"
)

// ParseSortOrder validates a sort name. The empty string is SortDefault.
func ParseSortOrder(s string) (SortOrder, error) {
	switch o := SortOrder(strings.ToLower(strings.TrimSpace(s))); o {
	case "":
		return SortDefault, nil
	case SortDefault, SortNameAsc, SortNameDesc, SortPriceAsc, SortPriceDesc:
		return o, nil
	default:
		return "", fmt.Errorf("unknown sort order %q", s)
	}
}

// Criteria selects and orders products. Empty fields do not filter.
type Criteria struct {
	Query  string    `json:"query,omitempty"`
	Brands []string  `json:"brands,omitempty"`
	Models []string  `json:"models,omitempty"`
	Sort   SortOrder `json:"sort,omitempty"`
}

// Apply returns the products matching c in the order c asks for. The input is
// not modified.
func Apply(products []product.Product, c Criteria) []product.Product {
	query := strings.ToLower(strings.TrimSpace(c.Query))
	brands := toSet(c.Brands)
	models := toSet(c.Models)

	out := make([]product.Product, 0, len(products))
	for _, p := range products {
		if query != "" && !strings.Contains(strings.ToLower(p.Name), query) {
			continue
		}
		if len(brands) > 0 && !brands[p.Brand] {
			continue
		}
		if len(models) > 0 && !models[p.Model] {
			continue
		}
		out = append(out, p)
	}

	switch c.Sort {
	case SortNameAsc:
		slices.SortStableFunc(out, func(a, b product.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case SortNameDesc:
		slices.SortStableFunc(out, func(a, b product.Product) int {
			return strings.Compare(strings.ToLower(b.Name), strings.ToLower(a.Name))
		})
	case SortPriceAsc:
		slices.SortStableFunc(out, func(a, b product.Product) int {
			return a.UnitPrice().Cmp(b.UnitPrice())
		})
	case SortPriceDesc:
		slices.SortStableFunc(out, func(a, b product.Product) int {
			return b.UnitPrice().Cmp(a.UnitPrice())
		})
	}
	return out
}

func toSet(values []string) map[string]bool {
	if len(values) == 0 {
		return nil
	}
	set := make(map[string]bool, len(values))
	for _, v := range values {
		set[v] = true
	}
	return set
}

// FilterOptions lists the brand and model values a filter can offer.
type FilterOptions struct {
	Brands []string `json:"brands"`
	Models []string `json:"models"`
}

// Options derives the distinct non-empty brands and models of products,
// sorted. A positive limit caps each list.
func Options(products []product.Product, limit int) FilterOptions {
	brands := make(map[string]struct{})
	models := make(map[string]struct{})
	for _, p := range products {
		if strings.TrimSpace(p.Brand) != "" {
			brands[p.Brand] = struct{}{}
		}
		if strings.TrimSpace(p.Model) != "" {
			models[p.Model] = struct{}{}
		}
	}
	return FilterOptions{
		Brands: sortedKeys(brands, limit),
		Models: sortedKeys(models, limit),
	}
}

func sortedKeys(set map[string]struct{}, limit int) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	if limit > 0 && len(keys) > limit {
		keys = keys[:limit]
	}
	return keys
}
