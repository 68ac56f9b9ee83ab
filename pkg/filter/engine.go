package filter

import (
	"cmp"
	"slices"
	"strings"

	"github.com/matst80/slask-boutique/pkg/types"
)

func Match(item *types.Product, state *types.FilterState) bool {
	return Compile(state).Match(item)
}

// Apply returns the products passing the filter state, keeping their input order.
func Apply(products []types.Product, state *types.FilterState) []types.Product {
	p := Compile(state)
	ret := make([]types.Product, 0, len(products))
	for i := range products {
		if p.Match(&products[i]) {
			ret = append(ret, products[i])
		}
	}
	return ret
}

// Sort orders the products in place. Equal elements keep their relative order.
func Sort(products []types.Product, order types.SortOrder) {
	switch order {
	case types.SortPriceAsc:
		slices.SortStableFunc(products, func(a, b types.Product) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case types.SortPriceDesc:
		slices.SortStableFunc(products, func(a, b types.Product) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case types.SortName:
		slices.SortStableFunc(products, func(a, b types.Product) int {
			return strings.Compare(strings.ToLower(a.Name), strings.ToLower(b.Name))
		})
	case types.SortNewest:
		slices.Reverse(products)
	}
}

// Page slices out one page, an out of range page gives an empty result.
func Page(products []types.Product, page, size int) []types.Product {
	if size <= 0 || page < 0 {
		return []types.Product{}
	}
	start := page * size
	if start >= len(products) {
		return []types.Product{}
	}
	end := min(start+size, len(products))
	return products[start:end]
}
