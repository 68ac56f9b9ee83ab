package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/matst80/slask-boutique/pkg/auth"
	"github.com/matst80/slask-boutique/pkg/cache"
	"github.com/matst80/slask-boutique/pkg/catalog"
	"github.com/matst80/slask-boutique/pkg/common"
	"github.com/matst80/slask-boutique/pkg/state"
	"github.com/matst80/slask-boutique/pkg/types"
)

type CatalogProvider interface {
	Current() (*catalog.Snapshot, error)
	Refresh(ctx context.Context) (*catalog.Snapshot, error)
}

// ChangeNotifier tells the other nodes that the catalog was reloaded.
type ChangeNotifier interface {
	Publish(reason string, version uint64) error
}

type WebServer struct {
	Catalog    CatalogProvider
	Sessions   *state.Store
	Cache      *cache.Cache
	CacheTtl   time.Duration
	PriceBands []types.PriceBand
	Tracking   types.Tracking
	Auth       auth.AuthHandler
	Notifier   ChangeNotifier
	facetCache *cache.CacheHelper[types.FacetOptions]
}

func NewWebServer(c CatalogProvider, sessions *state.Store, bands []types.PriceBand) *WebServer {
	return &WebServer{
		Catalog:    c,
		Sessions:   sessions,
		PriceBands: bands,
		CacheTtl:   time.Minute,
		Auth:       &auth.MockAuth{},
	}
}

// WithCache enables caching of facet options.
func (ws *WebServer) WithCache(c *cache.Cache, ttl time.Duration) *WebServer {
	ws.Cache = c
	ws.CacheTtl = ttl
	ws.facetCache = cache.NewCacheHelper[types.FacetOptions](c)
	return ws
}

func (ws *WebServer) snapshot() (*catalog.Snapshot, error) {
	s, err := ws.Catalog.Current()
	if errors.Is(err, catalog.ErrNoSnapshot) {
		return nil, common.WithStatus(http.StatusServiceUnavailable, err)
	}
	return s, err
}

func sessionError(err error) error {
	switch {
	case errors.Is(err, state.ErrSessionNotFound):
		return common.WithStatus(http.StatusNotFound, err)
	case errors.Is(err, types.ErrUnknownFacet), errors.Is(err, types.ErrNotToggleable):
		return common.WithStatus(http.StatusBadRequest, err)
	}
	return err
}

func (ws *WebServer) handle(fn common.JsonHandlerFunc) http.HandlerFunc {
	return common.JsonHandler(ws.Tracking, fn)
}
