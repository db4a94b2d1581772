package catalog

import "github.com/example/storefront/domain/product"

// Merge copies local favorite flags onto the remote list by id. Remote rows
// without a local counterpart are not favorites. When the payload repeats an
// id, the last occurrence wins and keeps its position.
func Merge(remote, local []product.Product) []product.Product {
	favorites := make(map[string]bool, len(local))
	for _, p := range local {
		favorites[p.ID] = p.IsFavorite
	}

	last := make(map[string]int, len(remote))
	for i, p := range remote {
		last[p.ID] = i
	}

	merged := make([]product.Product, 0, len(last))
	for i, p := range remote {
		if last[p.ID] != i {
			continue
		}
		p.IsFavorite = favorites[p.ID]
		merged = append(merged, p)
	}
	return merged
}
