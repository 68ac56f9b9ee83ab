package catalog

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	"github.com/matst80/slask-boutique/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ErrNoSnapshot = errors.New("no catalog snapshot loaded")

var (
	refreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "boutique_catalog_refresh_total",
		Help: "Catalog refreshes by outcome",
	}, []string{"result"})
	productCount = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "boutique_catalog_products",
		Help: "Number of products in the current snapshot",
	})
)

type Source interface {
	FetchProducts(ctx context.Context) ([]types.Product, error)
}

type Persister interface {
	SaveProducts(products []types.Product) error
	LoadProducts() ([]types.Product, time.Time, error)
}

// Snapshot is an immutable view of the catalog. Callers must not modify Products.
type Snapshot struct {
	Products []types.Product `json:"-"`
	Version  uint64          `json:"version"`
	Hash     string          `json:"hash"`
	LoadedAt time.Time       `json:"loadedAt"`
	Origin   string          `json:"origin"`
}

type Catalog struct {
	mu        sync.RWMutex
	current   *Snapshot
	version   uint64
	source    Source
	persister Persister
	OnRefresh func(s *Snapshot)
}

func New(source Source, persister Persister) *Catalog {
	return &Catalog{
		source:    source,
		persister: persister,
	}
}

func (c *Catalog) Current() (*Snapshot, error) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.current == nil {
		return nil, ErrNoSnapshot
	}
	return c.current, nil
}

func (c *Catalog) IsLoaded() bool {
	_, err := c.Current()
	return err == nil
}

func (c *Catalog) swap(products []types.Product, origin string, loadedAt time.Time) *Snapshot {
	hash := ContentHash(products)
	c.mu.Lock()
	c.version++
	s := &Snapshot{
		Products: products,
		Version:  c.version,
		Hash:     hash,
		LoadedAt: loadedAt,
		Origin:   origin,
	}
	c.current = s
	c.mu.Unlock()
	productCount.Set(float64(len(products)))
	if c.OnRefresh != nil {
		c.OnRefresh(s)
	}
	return s
}

// ContentHash identifies a product listing independently of the process that
// loaded it, so nodes sharing a cache agree on keys only when their catalogs match.
func ContentHash(products []types.Product) string {
	data, err := jsoncompat.Marshal(products)
	if err != nil {
		log.Printf("Failed to hash catalog: %v", err)
		return fmt.Sprintf("unhashed-%d", time.Now().UnixNano())
	}
	return fmt.Sprintf("%016x", xxhash.Sum64(data))
}

// Refresh fetches the product listing and replaces the snapshot. When the
// upstream fails before anything was loaded the last snapshot on disk is used.
func (c *Catalog) Refresh(ctx context.Context) (*Snapshot, error) {
	products, err := c.source.FetchProducts(ctx)
	if err != nil {
		refreshes.WithLabelValues("error").Inc()
		if !c.IsLoaded() {
			if diskErr := c.LoadFromDisk(); diskErr != nil {
				log.Printf("No disk snapshot to fall back to: %v", diskErr)
			} else {
				log.Printf("Upstream failed, serving disk snapshot: %v", err)
			}
		}
		return nil, err
	}
	refreshes.WithLabelValues("ok").Inc()
	s := c.swap(products, "upstream", time.Now())
	log.Printf("Catalog refreshed, %d products, version %d", len(products), s.Version)
	if c.persister != nil {
		if err := c.persister.SaveProducts(products); err != nil {
			log.Printf("Failed to save catalog snapshot: %v", err)
		}
	}
	return s, nil
}

func (c *Catalog) LoadFromDisk() error {
	if c.persister == nil {
		return ErrNoSnapshot
	}
	products, savedAt, err := c.persister.LoadProducts()
	if err != nil {
		return err
	}
	c.swap(products, "disk", savedAt)
	log.Printf("Loaded %d products from disk snapshot", len(products))
	return nil
}

func (c *Catalog) Save() error {
	s, err := c.Current()
	if err != nil {
		return err
	}
	if c.persister == nil {
		return nil
	}
	return c.persister.SaveProducts(s.Products)
}

// Watch refreshes on every tick until ctx is done.
func (c *Catalog) Watch(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := c.Refresh(ctx); err != nil {
				log.Printf("Scheduled catalog refresh failed: %v", err)
			}
		}
	}
}
