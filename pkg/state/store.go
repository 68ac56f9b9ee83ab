package state

import (
	"errors"
	"log"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/matst80/slask-boutique/pkg/types"
)

var ErrSessionNotFound = errors.New("filter session not found")

// ChangeHandler is called after any container in the store changed.
type ChangeHandler func(id string, s types.FilterState)

// Store keeps filter sessions in memory. The least recently used session is
// dropped once the limit is reached.
type Store struct {
	sessions *lru.Cache[string, *Container]
	OnChange ChangeHandler
}

func NewStore(limit int) (*Store, error) {
	if limit <= 0 {
		limit = 10000
	}
	c, err := lru.NewWithEvict(limit, func(id string, _ *Container) {
		log.Printf("Evicted filter session %s", id)
	})
	if err != nil {
		return nil, err
	}
	return &Store{sessions: c}, nil
}

func (s *Store) Create(initial types.FilterState) (string, *Container) {
	id := uuid.NewString()
	c := NewContainer(initial)
	c.Subscribe(func(fs types.FilterState) {
		if s.OnChange != nil {
			s.OnChange(id, fs)
		}
	})
	s.sessions.Add(id, c)
	return id, c
}

func (s *Store) Get(id string) (*Container, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, ErrSessionNotFound
	}
	c, ok := s.sessions.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return c, nil
}

func (s *Store) Remove(id string) bool {
	return s.sessions.Remove(id)
}

func (s *Store) Len() int {
	return s.sessions.Len()
}
