// Package favorites keeps the set of favorited city names and persists it as
// a JSON array under a single key.
package favorites

import (
	"encoding/json"
	"log/slog"
	"slices"
	"sync"
)

// Key is the persisted key holding the favorites array
const Key = "favorites"

// Backend persists the encoded favorites array. Load returns nil, nil when
// nothing has been stored yet.
type Backend interface {
	Load() ([]byte, error)
	Save(data []byte) error
}

// Store is the single shared favorites set. It is safe for concurrent use.
type Store struct {
	backend Backend
	logger  *slog.Logger

	mu          sync.Mutex
	names       []string // insertion order, no duplicates
	subscribers map[int]func([]string)
	nextSubID   int
}

// New creates a store and reads the persisted set once. A missing or
// unreadable value yields an empty set.
func New(backend Backend, logger *slog.Logger) *Store {
	s := &Store{
		backend:     backend,
		logger:      logger,
		subscribers: make(map[int]func([]string)),
	}
	s.names = s.load()
	return s
}

func (s *Store) load() []string {
	data, err := s.backend.Load()
	if err != nil {
		s.logger.Warn("reading favorites failed, starting empty", "error", err)
		return nil
	}
	if len(data) == 0 {
		return nil
	}

	var stored []string
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("favorites value is not a JSON array, starting empty", "error", err)
		return nil
	}

	// The persisted value may have been written by something else
	names := make([]string, 0, len(stored))
	for _, name := range stored {
		if !slices.Contains(names, name) {
			names = append(names, name)
		}
	}
	return names
}

// IsFavorite reports whether name is in the set
func (s *Store) IsFavorite(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Contains(s.names, name)
}

// List returns a copy of the favorites in insertion order
func (s *Store) List() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.names)
}

// Toggle adds name if absent or removes it if present, persists the whole
// set and notifies subscribers. It returns the new membership. Persistence
// errors are logged and otherwise ignored.
func (s *Store) Toggle(name string) bool {
	s.mu.Lock()

	var added bool
	if i := slices.Index(s.names, name); i >= 0 {
		s.names = slices.Delete(slices.Clone(s.names), i, i+1)
	} else {
		s.names = append(slices.Clone(s.names), name)
		added = true
	}
	snapshot := slices.Clone(s.names)

	s.persist(snapshot)

	subs := make([]func([]string), 0, len(s.subscribers))
	for _, fn := range s.subscribers {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(slices.Clone(snapshot))
	}

	s.logger.Debug("favorite toggled", "city", name, "favorite", added)
	return added
}

// persist must be called with mu held so writes land in toggle order
func (s *Store) persist(names []string) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		s.logger.Error("encoding favorites failed", "error", err)
		return
	}
	if err := s.backend.Save(data); err != nil {
		s.logger.Error("saving favorites failed", "error", err)
	}
}

// Subscribe registers fn to be called with the new set after every change.
// The returned function removes the subscription.
func (s *Store) Subscribe(fn func([]string)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSubID
	s.nextSubID++
	s.subscribers[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subscribers, id)
	}
}
