package facet

import (
	"slices"
	"strings"

	"github.com/matst80/slask-boutique/pkg/types"
)

type valueCounter struct {
	counts map[string]int
}

func newValueCounter() *valueCounter {
	return &valueCounter{counts: make(map[string]int)}
}

func (c *valueCounter) add(value string) {
	if value == "" {
		return
	}
	c.counts[value]++
}

func (c *valueCounter) values() []string {
	ret := make([]string, 0, len(c.counts))
	for v := range c.counts {
		ret = append(ret, v)
	}
	return ret
}

func (c *valueCounter) sorted() []types.ValueCount {
	ret := make([]types.ValueCount, 0, len(c.counts))
	for v, n := range c.counts {
		ret = append(ret, types.ValueCount{Value: v, Count: n})
	}
	slices.SortFunc(ret, func(a, b types.ValueCount) int {
		return strings.Compare(a.Value, b.Value)
	})
	return ret
}

// InCategories reports if the product category case-insensitively equals one of categories.
func InCategories(p *types.Product, categories []string) bool {
	for _, c := range categories {
		if strings.EqualFold(p.Category, c) {
			return true
		}
	}
	return false
}

// Scope limits products to the selected categories, or returns all of them when
// nothing is selected.
func Scope(products []types.Product, categories []string) []types.Product {
	if len(categories) == 0 {
		return products
	}
	ret := make([]types.Product, 0, len(products))
	for i := range products {
		if InCategories(&products[i], categories) {
			ret = append(ret, products[i])
		}
	}
	return ret
}

// DeriveOptions collects the selectable values of every facet. The category facet
// is always counted over the full catalog so shoppers can switch category, the
// rest only over products in the selected categories.
func DeriveOptions(products []types.Product, categories []string, bands []types.PriceBand) types.FacetOptions {
	scoped := Scope(products, categories)

	category := newValueCounter()
	for i := range products {
		category.add(products[i].Category)
	}

	subcategory := newValueCounter()
	size := newValueCounter()
	color := newValueCounter()
	fabric := newValueCounter()
	work := newValueCounter()
	for i := range scoped {
		p := &scoped[i]
		subcategory.add(p.Subcategory)
		seen := make(map[string]struct{}, len(p.Sizes))
		for _, s := range p.Sizes {
			if _, dup := seen[s]; dup {
				continue
			}
			seen[s] = struct{}{}
			size.add(s)
		}
		color.add(p.Color)
		fabric.add(p.Fabric)
		work.add(p.Work)
	}

	return types.FacetOptions{
		Categories:    category.sorted(),
		Subcategories: subcategory.sorted(),
		Sizes:         SortSizes(size.values()),
		Colors:        color.sorted(),
		Fabrics:       fabric.sorted(),
		Works:         work.sorted(),
		PriceRange:    priceRange(products),
		PriceBands:    bandCounts(scoped, bands),
	}
}

func priceRange(products []types.Product) *types.PriceRange {
	if len(products) == 0 {
		return nil
	}
	r := &types.PriceRange{Min: products[0].Price, Max: products[0].Price}
	for i := range products[1:] {
		price := products[i+1].Price
		r.Min = min(r.Min, price)
		r.Max = max(r.Max, price)
	}
	return r
}

func bandCounts(products []types.Product, bands []types.PriceBand) []types.ValueCount {
	if len(bands) == 0 {
		return nil
	}
	ret := make([]types.ValueCount, len(bands))
	for i, b := range bands {
		ret[i].Value = b.String()
		for j := range products {
			if b.Contains(products[j].Price) {
				ret[i].Count++
			}
		}
	}
	return ret
}
