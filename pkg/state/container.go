package state

import (
	"sync"

	"github.com/matst80/slask-boutique/pkg/types"
)

type Listener func(types.FilterState)

// Container owns a single filter state. Every successful mutation is followed by
// a synchronous notification of all subscribers with a copy of the new state.
// Notifications are delivered in mutation order; a listener must not mutate the
// container it is subscribed to.
type Container struct {
	mu        sync.Mutex
	notifyMu  sync.Mutex
	state     types.FilterState
	nextId    int
	listeners map[int]Listener
}

func NewContainer(initial types.FilterState) *Container {
	return &Container{
		state:     initial.Clone(),
		listeners: make(map[int]Listener),
	}
}

func (c *Container) Get() types.FilterState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

func (c *Container) Set(s types.FilterState) {
	c.mu.Lock()
	c.state = s.Clone()
	c.notifyLocked()
}

// Patch applies fn to a copy of the state and keeps the result only if fn
// succeeds. Listeners are not called on error.
func (c *Container) Patch(fn func(*types.FilterState) error) (types.FilterState, error) {
	c.mu.Lock()
	next := c.state.Clone()
	if err := fn(&next); err != nil {
		current := c.state.Clone()
		c.mu.Unlock()
		return current, err
	}
	c.state = next
	return c.notifyLocked(), nil
}

// Subscribe registers a listener, the returned func removes it again.
func (c *Container) Subscribe(fn Listener) func() {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextId
	c.nextId++
	c.listeners[id] = fn
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		delete(c.listeners, id)
	}
}

// notifyLocked releases the state lock before calling listeners so they can read
// the container. notifyMu is taken first so a later mutation cannot notify ahead
// of an earlier one.
func (c *Container) notifyLocked() types.FilterState {
	snapshot := c.state.Clone()
	listeners := make([]Listener, 0, len(c.listeners))
	for _, l := range c.listeners {
		listeners = append(listeners, l)
	}
	c.notifyMu.Lock()
	c.mu.Unlock()
	defer c.notifyMu.Unlock()
	for _, l := range listeners {
		l(snapshot.Clone())
	}
	return snapshot
}

func (c *Container) Toggle(f types.Facet, value string) (types.FilterState, error) {
	return c.Patch(func(s *types.FilterState) error {
		return s.Toggle(f, value)
	})
}

func (c *Container) SetPriceBound(min, max *float64) types.FilterState {
	s, _ := c.Patch(func(s *types.FilterState) error {
		s.SetPriceBound(min, max)
		return nil
	})
	return s
}

func (c *Container) ClearFacet(f types.Facet) (types.FilterState, error) {
	return c.Patch(func(s *types.FilterState) error {
		return s.ClearFacet(f)
	})
}

func (c *Container) ClearAll() types.FilterState {
	s, _ := c.Patch(func(s *types.FilterState) error {
		s.ClearAll()
		return nil
	})
	return s
}
