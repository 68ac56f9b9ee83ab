package catalog

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/matst80/slask-boutique/pkg/types"
)

type fakeSource struct {
	products []types.Product
	err      error
}

func (f *fakeSource) FetchProducts(ctx context.Context) ([]types.Product, error) {
	return f.products, f.err
}

type memoryPersister struct {
	saved []types.Product
	err   error
}

func (m *memoryPersister) SaveProducts(products []types.Product) error {
	m.saved = products
	return nil
}

func (m *memoryPersister) LoadProducts() ([]types.Product, time.Time, error) {
	if m.err != nil {
		return nil, time.Time{}, m.err
	}
	return m.saved, time.Unix(100, 0), nil
}

func TestCurrentBeforeLoad(t *testing.T) {
	c := New(&fakeSource{}, nil)
	if _, err := c.Current(); !errors.Is(err, ErrNoSnapshot) {
		t.Errorf("Expected ErrNoSnapshot, got %v", err)
	}
}

func TestRefreshSwapsAndSaves(t *testing.T) {
	src := &fakeSource{products: []types.Product{{Id: "1"}}}
	p := &memoryPersister{}
	c := New(src, p)
	var notified *Snapshot
	c.OnRefresh = func(s *Snapshot) { notified = s }

	s, err := c.Refresh(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if s.Version != 1 || s.Origin != "upstream" || len(s.Products) != 1 {
		t.Errorf("Unexpected snapshot %+v", s)
	}
	if len(p.saved) != 1 {
		t.Errorf("Expected snapshot to be persisted")
	}
	if notified != s {
		t.Errorf("Expected refresh hook with the new snapshot")
	}

	src.products = []types.Product{{Id: "1"}, {Id: "2"}}
	s, _ = c.Refresh(context.Background())
	if s.Version != 2 {
		t.Errorf("Expected version 2, got %d", s.Version)
	}
}

func TestRefreshFallsBackToDisk(t *testing.T) {
	src := &fakeSource{err: errors.New("upstream down")}
	p := &memoryPersister{saved: []types.Product{{Id: "disk"}}}
	c := New(src, p)

	if _, err := c.Refresh(context.Background()); err == nil {
		t.Fatalf("Expected refresh error")
	}
	s, err := c.Current()
	if err != nil {
		t.Fatalf("Expected disk snapshot, got %v", err)
	}
	if s.Origin != "disk" || s.Products[0].Id != "disk" || !s.LoadedAt.Equal(time.Unix(100, 0)) {
		t.Errorf("Unexpected snapshot %+v", s)
	}
}

func TestRefreshErrorKeepsCurrent(t *testing.T) {
	src := &fakeSource{products: []types.Product{{Id: "1"}}}
	c := New(src, nil)
	_, _ = c.Refresh(context.Background())
	src.err = errors.New("boom")
	if _, err := c.Refresh(context.Background()); err == nil {
		t.Fatalf("Expected error")
	}
	s, _ := c.Current()
	if s.Version != 1 || s.Products[0].Id != "1" {
		t.Errorf("Expected previous snapshot to stay, got %+v", s)
	}
}

func TestWatchStopsWithContext(t *testing.T) {
	src := &fakeSource{products: []types.Product{{Id: "1"}}}
	c := New(src, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Watch(ctx, 5*time.Millisecond)
		close(done)
	}()
	time.Sleep(30 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Expected Watch to return after cancel")
	}
	if !c.IsLoaded() {
		t.Errorf("Expected at least one scheduled refresh")
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "products.json")
	if err := os.WriteFile(path, []byte(`{"products":[{"id":"1","name":"Kurti","category":"Kurta","price":900}]}`), 0644); err != nil {
		t.Fatal(err)
	}
	products, err := (&FileSource{Path: path}).FetchProducts(context.Background())
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if len(products) != 1 || products[0].Category != "Kurta" {
		t.Errorf("Unexpected products %+v", products)
	}
	if _, err := (&FileSource{Path: path + ".missing"}).FetchProducts(context.Background()); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestSnapshotHashFollowsContent(t *testing.T) {
	red := []types.Product{{Id: "1", Category: "Saree", Color: "Red", Price: 100}}
	blue := []types.Product{{Id: "1", Category: "Saree", Color: "Blue", Price: 100}}

	a := New(&fakeSource{products: red}, nil)
	b := New(&fakeSource{products: blue}, nil)
	c := New(&fakeSource{products: red}, nil)
	sa, _ := a.Refresh(context.Background())
	sb, _ := b.Refresh(context.Background())
	sc, _ := c.Refresh(context.Background())

	if sa.Version != sb.Version {
		t.Fatalf("Expected both catalogs at the same version, got %d and %d", sa.Version, sb.Version)
	}
	if sa.Hash == sb.Hash {
		t.Errorf("Expected different listings to hash differently, both got %s", sa.Hash)
	}
	if sa.Hash != sc.Hash || sa.Hash == "" {
		t.Errorf("Expected equal listings to share a hash, got %s and %s", sa.Hash, sc.Hash)
	}
}
