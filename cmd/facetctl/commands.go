package main

import (
	"context"
	"io"

	"github.com/matst80/slask-boutique/pkg/catalog"
	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	"github.com/matst80/slask-boutique/pkg/config"
	"github.com/matst80/slask-boutique/pkg/facet"
	"github.com/matst80/slask-boutique/pkg/filter"
	"github.com/matst80/slask-boutique/pkg/types"
	"github.com/spf13/cobra"
)

type filterOptions struct {
	categories    []string
	subcategories []string
	sizes         []string
	colors        []string
	fabrics       []string
	works         []string
	ranges        []string
	min           float64
	max           float64
	sort          string
	page          int
	limit         int
}

type filterResult struct {
	Total int             `json:"total"`
	Items []types.Product `json:"items"`
}

func loadProducts(ctx context.Context) ([]types.Product, error) {
	return (&catalog.FileSource{Path: productsFile}).FetchProducts(ctx)
}

func writeJson(w io.Writer, v any) error {
	if pretty {
		data, err := jsoncompat.MarshalIndent(v, "", "  ")
		if err != nil {
			return err
		}
		_, err = w.Write(append(data, '\n'))
		return err
	}
	return jsoncompat.NewEncoder(w).Encode(v)
}

func newFacetsCmd() *cobra.Command {
	var categories []string
	cmd := &cobra.Command{
		Use:   "facets",
		Short: "Print the facet options for the selected categories",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := loadProducts(cmd.Context())
			if err != nil {
				return err
			}
			bands, err := config.LoadPriceBands(bandsFile)
			if err != nil {
				return err
			}
			return writeJson(cmd.OutOrStdout(), facet.DeriveOptions(products, categories, bands))
		},
	}
	cmd.Flags().StringSliceVarP(&categories, "category", "c", nil, "selected categories")
	return cmd
}

func (o *filterOptions) request(cmd *cobra.Command) *types.FilterRequest {
	fs := types.NewFilterState()
	fs.Categories = append(fs.Categories, o.categories...)
	fs.Subcategories = append(fs.Subcategories, o.subcategories...)
	fs.Size = append(fs.Size, o.sizes...)
	fs.Color = append(fs.Color, o.colors...)
	fs.Fabric = append(fs.Fabric, o.fabrics...)
	fs.Work = append(fs.Work, o.works...)
	fs.PriceRanges = append(fs.PriceRanges, o.ranges...)
	if cmd.Flags().Changed("min") {
		fs.Price.Min = &o.min
	}
	if cmd.Flags().Changed("max") {
		fs.Price.Max = &o.max
	}
	fr := &types.FilterRequest{
		Filters:  fs,
		Sort:     types.SortOrder(o.sort),
		Page:     o.page,
		PageSize: o.limit,
	}
	fr.Sanitize()
	return fr
}

func runFilter(products []types.Product, fr *types.FilterRequest) filterResult {
	matched := filter.Apply(products, &fr.Filters)
	filter.Sort(matched, fr.Sort)
	return filterResult{
		Total: len(matched),
		Items: filter.Page(matched, fr.Page, fr.PageSize),
	}
}

func newFilterCmd() *cobra.Command {
	o := &filterOptions{}
	cmd := &cobra.Command{
		Use:   "filter",
		Short: "Print the products matching the given selections",
		RunE: func(cmd *cobra.Command, args []string) error {
			products, err := loadProducts(cmd.Context())
			if err != nil {
				return err
			}
			return writeJson(cmd.OutOrStdout(), runFilter(products, o.request(cmd)))
		},
	}
	f := cmd.Flags()
	f.StringSliceVarP(&o.categories, "category", "c", nil, "categories")
	f.StringSliceVar(&o.subcategories, "subcategory", nil, "subcategories, matched as substrings")
	f.StringSliceVar(&o.sizes, "size", nil, "sizes")
	f.StringSliceVar(&o.colors, "color", nil, "colors")
	f.StringSliceVar(&o.fabrics, "fabric", nil, "fabrics")
	f.StringSliceVar(&o.works, "work", nil, "work types")
	f.StringSliceVar(&o.ranges, "range", nil, "price bands as min-max")
	f.Float64Var(&o.min, "min", 0, "minimum price")
	f.Float64Var(&o.max, "max", 0, "maximum price")
	f.StringVar(&o.sort, "sort", string(types.SortFeatured), "featured, price-asc, price-desc, name or newest")
	f.IntVar(&o.page, "page", 0, "page, starting at 0")
	f.IntVar(&o.limit, "limit", 500, "page size")
	return cmd
}
