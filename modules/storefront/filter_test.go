package storefront

import (
	"testing"

	"github.com/example/storefront/domain/product"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleProducts() []product.Product {
	return []product.Product{
		{ID: "1", Name: "Galaxy S9", Brand: "Samsung", Model: "S9", Price: "499,90"},
		{ID: "2", Name: "iPhone 11", Brand: "Apple", Model: "11", Price: "899"},
		{ID: "3", Name: "galaxy note", Brand: "Samsung", Model: "Note", Price: "79.5"},
		{ID: "4", Name: "Pixel", Brand: "", Model: "", Price: "n/a"},
	}
}

func names(products []product.Product) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Name)
	}
	return out
}

func TestParseSortOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    SortOrder
		wantErr bool
	}{
		{"", SortDefault, false},
		{"default", SortDefault, false},
		{" Price_Desc ", SortPriceDesc, false},
		{"name_asc", SortNameAsc, false},
		{"cheapest", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSortOrder(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestApply(t *testing.T) {
	products := sampleProducts()

	tests := []struct {
		name     string
		criteria Criteria
		want     []string
	}{
		{"no criteria keeps order", Criteria{}, []string{"Galaxy S9", "iPhone 11", "galaxy note", "Pixel"}},
		{"query ignores case", Criteria{Query: "GALAXY"}, []string{"Galaxy S9", "galaxy note"}},
		{"brand set", Criteria{Brands: []string{"Apple"}}, []string{"iPhone 11"}},
		{"brand and model combine", Criteria{Brands: []string{"Samsung"}, Models: []string{"Note", "11"}}, []string{"galaxy note"}},
		{"query and brand combine", Criteria{Query: "s9", Brands: []string{"Apple"}}, []string{}},
		{"name ascending", Criteria{Sort: SortNameAsc}, []string{"Galaxy S9", "galaxy note", "iPhone 11", "Pixel"}},
		{"name descending", Criteria{Sort: SortNameDesc}, []string{"Pixel", "iPhone 11", "galaxy note", "Galaxy S9"}},
		{"price ascending, unparsable is zero", Criteria{Sort: SortPriceAsc}, []string{"Pixel", "galaxy note", "Galaxy S9", "iPhone 11"}},
		{"price descending", Criteria{Sort: SortPriceDesc}, []string{"iPhone 11", "Galaxy S9", "galaxy note", "Pixel"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, names(Apply(products, tt.criteria)))
		})
	}

	assert.Equal(t, "Galaxy S9", products[0].Name, "input must not be reordered")
}

func TestOptions(t *testing.T) {
	opts := Options(sampleProducts(), 0)
	assert.Equal(t, []string{"Apple", "Samsung"}, opts.Brands)
	assert.Equal(t, []string{"11", "Note", "S9"}, opts.Models)

	capped := Options(sampleProducts(), 1)
	assert.Equal(t, []string{"Apple"}, capped.Brands)
	assert.Equal(t, []string{"11"}, capped.Models)

	empty := Options(nil, 0)
	assert.Empty(t, empty.Brands)
	assert.NotNil(t, empty.Brands)
}
