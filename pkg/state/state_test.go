package state

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"

	"github.com/matst80/slask-boutique/pkg/types"
)

func TestContainerNotifiesOnChange(t *testing.T) {
	c := NewContainer(types.NewFilterState())
	var got []types.FilterState
	unsubscribe := c.Subscribe(func(s types.FilterState) {
		got = append(got, s)
	})

	if _, err := c.Toggle(types.FacetColor, "Red"); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	min := 10.0
	c.SetPriceBound(&min, nil)

	if len(got) != 2 {
		t.Fatalf("Expected 2 notifications, got %d", len(got))
	}
	if !slices.Equal(got[0].Color, []string{"Red"}) {
		t.Errorf("Expected first notification to carry Red, got %v", got[0].Color)
	}
	if got[1].Price.Min == nil || *got[1].Price.Min != 10 {
		t.Errorf("Expected min 10, got %v", got[1].Price.Min)
	}

	unsubscribe()
	c.ClearAll()
	if len(got) != 2 {
		t.Errorf("Expected no notification after unsubscribe, got %d", len(got))
	}
}

func TestContainerPatchErrorKeepsState(t *testing.T) {
	c := NewContainer(types.NewFilterState())
	_, _ = c.Toggle(types.FacetSize, "M")
	calls := 0
	c.Subscribe(func(types.FilterState) { calls++ })

	_, err := c.Toggle(types.Facet("brand"), "x")
	if !errors.Is(err, types.ErrUnknownFacet) {
		t.Errorf("Expected ErrUnknownFacet, got %v", err)
	}
	if calls != 0 {
		t.Errorf("Expected no notification on error, got %d", calls)
	}
	if s := c.Get(); !slices.Equal(s.Size, []string{"M"}) {
		t.Errorf("Expected state untouched, got %v", s.Size)
	}
}

func TestContainerGetReturnsCopy(t *testing.T) {
	c := NewContainer(types.NewFilterState())
	s := c.Get()
	s.Categories = append(s.Categories, "Saree")
	if len(c.Get().Categories) != 0 {
		t.Errorf("Expected container state to be unaffected by caller changes")
	}
}

func TestListenerCanReadContainer(t *testing.T) {
	c := NewContainer(types.NewFilterState())
	var seen []string
	c.Subscribe(func(types.FilterState) {
		seen = c.Get().Work
	})
	_, _ = c.Toggle(types.FacetWork, "Zari")
	if !slices.Equal(seen, []string{"Zari"}) {
		t.Errorf("Expected listener to read new state, got %v", seen)
	}
}

func TestLastNotificationMatchesState(t *testing.T) {
	c := NewContainer(types.NewFilterState())
	var mu sync.Mutex
	var last types.FilterState
	c.Subscribe(func(s types.FilterState) {
		mu.Lock()
		last = s
		mu.Unlock()
	})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 20; j++ {
				if _, err := c.Toggle(types.FacetColor, fmt.Sprintf("c%d", (i+j)%7)); err != nil {
					t.Errorf("Expected no error, got %v", err)
				}
			}
		}(i)
	}
	wg.Wait()

	current := c.Get()
	mu.Lock()
	defer mu.Unlock()
	if !slices.Equal(last.Color, current.Color) {
		t.Errorf("Expected last notification %v to match state %v", last.Color, current.Color)
	}
}

func TestStoreCreateGetRemove(t *testing.T) {
	store, err := NewStore(2)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	var changed []string
	store.OnChange = func(id string, _ types.FilterState) {
		changed = append(changed, id)
	}

	id, c := store.Create(types.NewFilterState())
	got, err := store.Get(id)
	if err != nil || got != c {
		t.Fatalf("Expected to find session %s, got %v", id, err)
	}
	_, _ = c.Toggle(types.FacetCategory, "Saree")
	if !slices.Equal(changed, []string{id}) {
		t.Errorf("Expected change hook for %s, got %v", id, changed)
	}

	if !store.Remove(id) {
		t.Errorf("Expected remove to report true")
	}
	if _, err := store.Get(id); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound, got %v", err)
	}
	if _, err := store.Get("not-a-uuid"); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected ErrSessionNotFound for malformed id, got %v", err)
	}
}

func TestStoreEvictsOldest(t *testing.T) {
	store, _ := NewStore(2)
	first, _ := store.Create(types.NewFilterState())
	store.Create(types.NewFilterState())
	store.Create(types.NewFilterState())
	if store.Len() != 2 {
		t.Errorf("Expected 2 sessions, got %d", store.Len())
	}
	if _, err := store.Get(first); !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("Expected first session to be evicted, got %v", err)
	}
}
