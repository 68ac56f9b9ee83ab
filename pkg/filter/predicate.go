package filter

import (
	"slices"
	"strings"

	"github.com/matst80/slask-boutique/pkg/types"
)

type stringSet map[string]struct{}

func makeSet(values []string, transform func(string) string) stringSet {
	if len(values) == 0 {
		return nil
	}
	ret := make(stringSet, len(values))
	for _, v := range values {
		if transform != nil {
			v = transform(v)
		}
		ret[v] = struct{}{}
	}
	return ret
}

func (s stringSet) has(v string) bool {
	_, ok := s[v]
	return ok
}

// Predicate is a filter state prepared for matching many products.
type Predicate struct {
	categories    stringSet
	subcategories []string
	bounds        types.PriceBounds
	bands         []types.PriceBand
	hasBands      bool
	sizes         stringSet
	colors        stringSet
	fabrics       stringSet
	works         stringSet
}

func Compile(state *types.FilterState) *Predicate {
	p := &Predicate{
		categories: makeSet(state.Categories, strings.ToLower),
		bounds:     state.Price,
		bands:      types.ParsePriceBands(state.PriceRanges),
		sizes:      makeSet(state.Size, nil),
		colors:     makeSet(state.Color, nil),
		fabrics:    makeSet(state.Fabric, nil),
		works:      makeSet(state.Work, nil),
	}
	p.hasBands = len(p.bands) > 0
	if len(state.Subcategories) > 0 {
		p.subcategories = make([]string, len(state.Subcategories))
		for i, s := range state.Subcategories {
			p.subcategories[i] = strings.ToLower(s)
		}
	}
	return p
}

func (p *Predicate) matchCategory(item *types.Product) bool {
	return p.categories == nil || p.categories.has(strings.ToLower(item.Category))
}

// subcategory selections match on containment, so "silk" also selects "Banarasi Silk".
func (p *Predicate) matchSubcategory(item *types.Product) bool {
	if p.subcategories == nil {
		return true
	}
	if item.Subcategory == "" {
		return false
	}
	sub := strings.ToLower(item.Subcategory)
	return slices.ContainsFunc(p.subcategories, func(s string) bool {
		return strings.Contains(sub, s)
	})
}

func (p *Predicate) matchPrice(item *types.Product) bool {
	if !p.bounds.Contains(item.Price) {
		return false
	}
	if !p.hasBands {
		return true
	}
	return slices.ContainsFunc(p.bands, func(b types.PriceBand) bool {
		return b.Contains(item.Price)
	})
}

func (p *Predicate) matchSize(item *types.Product) bool {
	if p.sizes == nil {
		return true
	}
	return slices.ContainsFunc(item.Sizes, p.sizes.has)
}

func matchValue(set stringSet, value string) bool {
	if set == nil {
		return true
	}
	return value != "" && set.has(value)
}

// Match reports whether the product passes every active facet.
func (p *Predicate) Match(item *types.Product) bool {
	return p.matchCategory(item) &&
		p.matchSubcategory(item) &&
		p.matchPrice(item) &&
		p.matchSize(item) &&
		matchValue(p.colors, item.Color) &&
		matchValue(p.fabrics, item.Fabric) &&
		matchValue(p.works, item.Work)
}
