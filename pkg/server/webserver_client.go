package server

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/matst80/slask-boutique/pkg/catalog"
	"github.com/matst80/slask-boutique/pkg/common"
	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	"github.com/matst80/slask-boutique/pkg/facet"
	"github.com/matst80/slask-boutique/pkg/filter"
	"github.com/matst80/slask-boutique/pkg/types"
)

type ProductsResponse struct {
	Items   []types.Product `json:"items"`
	Total   int             `json:"total"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Sort    types.SortOrder `json:"sort"`
	Version uint64          `json:"version"`
}

type FacetsResponse struct {
	types.FacetOptions
	Version uint64 `json:"version"`
}

func listProducts(s *catalog.Snapshot, fr *types.FilterRequest) ProductsResponse {
	start := time.Now()
	matched := filter.Apply(s.Products, &fr.Filters)
	filter.Sort(matched, fr.Sort)
	filterDuration.Observe(time.Since(start).Seconds())
	return ProductsResponse{
		Items:   filter.Page(matched, fr.Page, fr.PageSize),
		Total:   len(matched),
		Page:    fr.Page,
		Limit:   fr.PageSize,
		Sort:    fr.Sort,
		Version: s.Version,
	}
}

func (ws *WebServer) trackFilter(sessionId int, fs *types.FilterState, total int, r *http.Request) {
	if ws.Tracking == nil {
		return
	}
	filters := fs.Clone()
	go ws.Tracking.TrackFilter(sessionId, &filters, total, r)
}

func (ws *WebServer) Products(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	fr, err := types.GetFilterRequest(r)
	if err != nil {
		return common.WithStatus(http.StatusBadRequest, err)
	}
	s, err := ws.snapshot()
	if err != nil {
		return err
	}
	productRequests.Inc()
	result := listProducts(s, fr)
	ws.trackFilter(sessionId, &fr.Filters, result.Total, r)
	w.Header().Set("Cache-Control", "public, max-age=30, stale-while-revalidate=120")
	return enc.Encode(result)
}

func facetCacheKey(hash string, categories []string) string {
	keys := make([]string, 0, len(categories))
	for _, c := range categories {
		keys = append(keys, strings.ToLower(c))
	}
	slices.Sort(keys)
	keys = slices.Compact(keys)
	return fmt.Sprintf("facets:%s:%s", hash, strings.Join(keys, "|"))
}

func (ws *WebServer) facetOptions(ctx context.Context, s *catalog.Snapshot, categories []string) types.FacetOptions {
	facetRequests.Inc()
	var options types.FacetOptions
	hit := ws.facetCache.Handle(ctx, facetCacheKey(s.Hash, categories), &options, func() types.FacetOptions {
		return facet.DeriveOptions(s.Products, categories, ws.PriceBands)
	}, ws.CacheTtl)
	if hit {
		facetCacheHits.Inc()
	}
	return options
}

// Facets only looks at the selected categories, the other facets never narrow the options.
func (ws *WebServer) Facets(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error {
	fr, err := types.GetFilterRequest(r)
	if err != nil {
		return common.WithStatus(http.StatusBadRequest, err)
	}
	s, err := ws.snapshot()
	if err != nil {
		return err
	}
	w.Header().Set("Cache-Control", "public, max-age=60, stale-while-revalidate=300")
	return enc.Encode(FacetsResponse{
		FacetOptions: ws.facetOptions(r.Context(), s, fr.Filters.Categories),
		Version:      s.Version,
	})
}

func (ws *WebServer) ClientHandler() *http.ServeMux {
	srv := http.NewServeMux()
	srv.HandleFunc("/products", ws.handle(ws.Products))
	srv.HandleFunc("/facets", ws.handle(ws.Facets))

	srv.HandleFunc("POST /filters", ws.handle(ws.CreateSession))
	srv.HandleFunc("GET /filters/{id}", ws.handle(ws.GetSession))
	srv.HandleFunc("PUT /filters/{id}", ws.handle(ws.SetSession))
	srv.HandleFunc("DELETE /filters/{id}", ws.handle(ws.ClearSession))
	srv.HandleFunc("POST /filters/{id}/toggle", ws.handle(ws.ToggleSession))
	srv.HandleFunc("PUT /filters/{id}/price", ws.handle(ws.SetSessionPrice))
	srv.HandleFunc("GET /filters/{id}/products", ws.handle(ws.SessionProducts))
	srv.HandleFunc("GET /filters/{id}/facets", ws.handle(ws.SessionFacets))
	srv.HandleFunc("DELETE /filters/{id}/{facet}", ws.handle(ws.ClearSessionFacet))
	srv.HandleFunc("OPTIONS /filters", common.RespondToOptions)
	srv.HandleFunc("OPTIONS /filters/", common.RespondToOptions)
	return srv
}
