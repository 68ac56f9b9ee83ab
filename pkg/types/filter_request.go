package types

import (
	"net/http"
	"net/url"
	"slices"
	"strings"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
)

type SortOrder string

const (
	SortFeatured  SortOrder = "featured"
	SortPriceAsc  SortOrder = "price-asc"
	SortPriceDesc SortOrder = "price-desc"
	SortName      SortOrder = "name"
	SortNewest    SortOrder = "newest"
)

var SortOrders = []SortOrder{SortFeatured, SortPriceAsc, SortPriceDesc, SortName, SortNewest}

// FilterRequest is what a product listing or facet call asks for.
type FilterRequest struct {
	Filters  FilterState `json:"filters" schema:"-"`
	Sort     SortOrder   `json:"sort" schema:"-"`
	Page     int         `json:"page" schema:"-"`
	PageSize int         `json:"limit" schema:"-"`
}

// filterQuery mirrors the storefront url. Multiple values are given either by
// repeating the key or by joining them with "||".
type filterQuery struct {
	Category    []string `schema:"category"`
	Subcategory []string `schema:"subcategory"`
	MinPrice    *float64 `schema:"minPrice"`
	MaxPrice    *float64 `schema:"maxPrice"`
	PriceRange  []string `schema:"priceRange"`
	Size        []string `schema:"size"`
	Color       []string `schema:"color"`
	Fabric      []string `schema:"fabric"`
	Work        []string `schema:"work"`
	Sort        string   `schema:"sort"`
	Page        int      `schema:"page"`
	Limit       int      `schema:"limit"`
}

const DefaultPageSize = 24

var decoder = schema.NewDecoder()

func init() {
	decoder.IgnoreUnknownKeys(true)
}

func clamp[T int | float64](value, min, max T) T {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}

func splitValues(values []string) []string {
	ret := make([]string, 0, len(values))
	for _, v := range values {
		for _, part := range strings.Split(v, "||") {
			part = strings.TrimSpace(part)
			if part != "" && !slices.Contains(ret, part) {
				ret = append(ret, part)
			}
		}
	}
	return ret
}

func nonNil(v []string) []string {
	if v == nil {
		return []string{}
	}
	return v
}

func (s *FilterRequest) Sanitize() {
	s.Page = clamp(s.Page, 0, 1000)
	if s.PageSize == 0 {
		s.PageSize = DefaultPageSize
	}
	s.PageSize = clamp(s.PageSize, 1, 500)
	if !slices.Contains(SortOrders, s.Sort) {
		s.Sort = SortFeatured
	}
	f := &s.Filters
	f.Categories = nonNil(f.Categories)
	f.Subcategories = nonNil(f.Subcategories)
	f.PriceRanges = nonNil(f.PriceRanges)
	f.Size = nonNil(f.Size)
	f.Color = nonNil(f.Color)
	f.Fabric = nonNil(f.Fabric)
	f.Work = nonNil(f.Work)
}

func makeBaseFilterRequest() *FilterRequest {
	return &FilterRequest{
		Filters:  NewFilterState(),
		Sort:     SortFeatured,
		Page:     0,
		PageSize: DefaultPageSize,
	}
}

// GetFilterRequest reads the filter request from the query string on GET and
// from a json body otherwise.
func GetFilterRequest(r *http.Request) (*FilterRequest, error) {
	fr := makeBaseFilterRequest()
	var err error
	if r.Method == http.MethodGet {
		err = filterRequestFromQuery(r.URL.Query(), fr)
	} else {
		err = jsoncompat.NewDecoder(r.Body).Decode(fr)
	}
	fr.Sanitize()
	return fr, err
}

func filterRequestFromQuery(query url.Values, result *FilterRequest) error {
	q := filterQuery{}
	if err := decoder.Decode(&q, query); err != nil {
		return err
	}
	result.Filters = FilterState{
		Categories:    splitValues(q.Category),
		Subcategories: splitValues(q.Subcategory),
		Price:         PriceBounds{Min: q.MinPrice, Max: q.MaxPrice},
		PriceRanges:   splitValues(q.PriceRange),
		Size:          splitValues(q.Size),
		Color:         splitValues(q.Color),
		Fabric:        splitValues(q.Fabric),
		Work:          splitValues(q.Work),
	}
	if q.Sort != "" {
		result.Sort = SortOrder(q.Sort)
	}
	result.Page = q.Page
	if q.Limit > 0 {
		result.PageSize = q.Limit
	}
	return nil
}
