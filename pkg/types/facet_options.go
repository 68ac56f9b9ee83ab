package types

type ValueCount struct {
	Value string `json:"value"`
	Count int    `json:"count"`
}

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// FacetOptions lists the values a shopper can pick from. Category counts cover
// the whole catalog while every other facet is limited to the selected categories.
type FacetOptions struct {
	Categories    []ValueCount `json:"categories"`
	Subcategories []ValueCount `json:"subcategories"`
	Sizes         []string     `json:"sizes"`
	Colors        []ValueCount `json:"colors"`
	Fabrics       []ValueCount `json:"fabrics"`
	Works         []ValueCount `json:"works"`
	PriceRange    *PriceRange  `json:"priceRange,omitempty"`
	PriceBands    []ValueCount `json:"priceBands,omitempty"`
}
