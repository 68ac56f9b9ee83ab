package types

// Product is a catalog entry as served by the upstream product api.
// Optional attributes are left empty when the upstream omits them.
type Product struct {
	Id            string   `json:"id"`
	Name          string   `json:"name"`
	Category      string   `json:"category"`
	Subcategory   string   `json:"subcategory,omitempty"`
	Price         float64  `json:"price"`
	OriginalPrice *float64 `json:"originalPrice,omitempty"`
	Sizes         []string `json:"sizes,omitempty"`
	Color         string   `json:"color,omitempty"`
	Fabric        string   `json:"fabric,omitempty"`
	Work          string   `json:"work,omitempty"`
	Images        []string `json:"images,omitempty"`
	CountInStock  *int     `json:"countInStock,omitempty"`
}

func (p *Product) HasSizes() bool {
	return len(p.Sizes) > 0
}

func (p *Product) InStock() bool {
	return p.CountInStock == nil || *p.CountInStock > 0
}

// Discount returns the reduction from the original price, zero when there is none.
func (p *Product) Discount() float64 {
	if p.OriginalPrice == nil || *p.OriginalPrice <= p.Price {
		return 0
	}
	return *p.OriginalPrice - p.Price
}
