package types

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

type Facet string

const (
	FacetCategory    Facet = "category"
	FacetSubcategory Facet = "subcategory"
	FacetPrice       Facet = "price"
	FacetPriceRange  Facet = "priceRange"
	FacetSize        Facet = "size"
	FacetColor       Facet = "color"
	FacetFabric      Facet = "fabric"
	FacetWork        Facet = "work"
)

var AllFacets = []Facet{
	FacetCategory,
	FacetSubcategory,
	FacetPrice,
	FacetPriceRange,
	FacetSize,
	FacetColor,
	FacetFabric,
	FacetWork,
}

var (
	ErrUnknownFacet  = errors.New("unknown facet")
	ErrNotToggleable = errors.New("facet does not hold selectable values")
)

var facetAliases = map[string]Facet{
	"categories":    FacetCategory,
	"subcategories": FacetSubcategory,
	"priceranges":   FacetPriceRange,
	"pricerange":    FacetPriceRange,
	"sizes":         FacetSize,
	"colors":        FacetColor,
	"fabrics":       FacetFabric,
	"works":         FacetWork,
}

// ParseFacet accepts the facet names used in urls and request bodies,
// including the plural forms of the option lists.
func ParseFacet(name string) (Facet, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	for _, f := range AllFacets {
		if strings.ToLower(string(f)) == n {
			return f, nil
		}
	}
	if f, ok := facetAliases[n]; ok {
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFacet, name)
}

type PriceBounds struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

func (b PriceBounds) IsSet() bool {
	return b.Min != nil || b.Max != nil
}

func (b PriceBounds) Contains(price float64) bool {
	if b.Min != nil && price < *b.Min {
		return false
	}
	if b.Max != nil && price > *b.Max {
		return false
	}
	return true
}

// FilterState is the set of selections a shopper has made in the filter sidebar.
// Within a facet selections are alternatives, across facets they all apply.
type FilterState struct {
	Categories    []string    `json:"categories"`
	Subcategories []string    `json:"subcategories"`
	Price         PriceBounds `json:"price"`
	PriceRanges   []string    `json:"priceRanges"`
	Size          []string    `json:"size"`
	Color         []string    `json:"color"`
	Fabric        []string    `json:"fabric"`
	Work          []string    `json:"work"`
}

func NewFilterState() FilterState {
	return FilterState{
		Categories:    []string{},
		Subcategories: []string{},
		PriceRanges:   []string{},
		Size:          []string{},
		Color:         []string{},
		Fabric:        []string{},
		Work:          []string{},
	}
}

func cloneList(v []string) []string {
	if v == nil {
		return []string{}
	}
	return slices.Clone(v)
}

func cloneFloat(v *float64) *float64 {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func (s FilterState) Clone() FilterState {
	return FilterState{
		Categories:    cloneList(s.Categories),
		Subcategories: cloneList(s.Subcategories),
		Price:         PriceBounds{Min: cloneFloat(s.Price.Min), Max: cloneFloat(s.Price.Max)},
		PriceRanges:   cloneList(s.PriceRanges),
		Size:          cloneList(s.Size),
		Color:         cloneList(s.Color),
		Fabric:        cloneList(s.Fabric),
		Work:          cloneList(s.Work),
	}
}

func (s *FilterState) values(f Facet) (*[]string, error) {
	switch f {
	case FacetCategory:
		return &s.Categories, nil
	case FacetSubcategory:
		return &s.Subcategories, nil
	case FacetPriceRange:
		return &s.PriceRanges, nil
	case FacetSize:
		return &s.Size, nil
	case FacetColor:
		return &s.Color, nil
	case FacetFabric:
		return &s.Fabric, nil
	case FacetWork:
		return &s.Work, nil
	case FacetPrice:
		return nil, ErrNotToggleable
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFacet, f)
}

// Values returns the selected values of a facet, nil for the price bounds.
func (s *FilterState) Values(f Facet) []string {
	v, err := s.values(f)
	if err != nil {
		return nil
	}
	return *v
}

// Toggle adds the value to the facet selection or removes it if already selected.
func (s *FilterState) Toggle(f Facet, value string) error {
	list, err := s.values(f)
	if err != nil {
		return err
	}
	if i := slices.Index(*list, value); i >= 0 {
		*list = slices.Delete(*list, i, i+1)
		return nil
	}
	*list = append(*list, value)
	return nil
}

func (s *FilterState) SetValues(f Facet, values []string) error {
	list, err := s.values(f)
	if err != nil {
		return err
	}
	*list = cloneList(values)
	return nil
}

func (s *FilterState) SetPriceBound(min, max *float64) {
	s.Price = PriceBounds{Min: cloneFloat(min), Max: cloneFloat(max)}
}

func (s *FilterState) ClearFacet(f Facet) error {
	if f == FacetPrice {
		s.Price = PriceBounds{}
		return nil
	}
	list, err := s.values(f)
	if err != nil {
		return err
	}
	*list = []string{}
	return nil
}

func (s *FilterState) ClearAll() {
	*s = NewFilterState()
}

// ActiveFacets lists the facets that currently restrict the result.
func (s *FilterState) ActiveFacets() []Facet {
	ret := make([]Facet, 0, len(AllFacets))
	for _, f := range AllFacets {
		if f == FacetPrice {
			if s.Price.IsSet() {
				ret = append(ret, f)
			}
			continue
		}
		if len(s.Values(f)) > 0 {
			ret = append(ret, f)
		}
	}
	return ret
}

func (s *FilterState) IsEmpty() bool {
	return len(s.ActiveFacets()) == 0
}
