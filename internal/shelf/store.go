// Package shelf implements the reading-list store: it owns the item
// collection and the preferences, applies mutations, mirrors every change to
// a types.Storage backend, and derives the sorted, filtered view.
package shelf

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/pocketshelf/pkg/types"
)

// Store holds the in-memory shelf and its storage backend.
// Safe for concurrent use; each mutation persists before the lock is released.
type Store struct {
	mu      sync.RWMutex
	storage types.Storage
	logger  *zap.Logger
	now     func() time.Time
	newID   func() string

	items   []types.Item
	prefs   types.Preferences
	saveErr error
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for recovered load and save failures.
func WithLogger(l *zap.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock replaces time.Now for creation timestamps.
func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

// WithIDGenerator replaces the UUID generator.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) { s.newID = gen }
}

// New creates a Store with default state over storage. Call Load to read
// persisted state.
func New(storage types.Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		logger:  zap.NewNop(),
		now:     time.Now,
		newID:   generateUUID,
		prefs:   types.DefaultPreferences(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// generateUUID generates a random UUID v4 for item IDs. Random IDs keep the
// leading characters distinct, so short prefixes resolve.
func generateUUID() string {
	return uuid.NewString()
}

// Load reads both keys from storage. A value that fails to parse is removed
// from storage and the in-memory default is kept. Successful loads do not
// write back. Only backend read failures are returned.
func (s *Store) Load() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	raw, ok, err := s.storage.Get(types.ItemsKey)
	if err != nil {
		return fmt.Errorf("loading items: %w", err)
	}
	if ok {
		var items []types.Item
		if err := json.Unmarshal([]byte(raw), &items); err != nil {
			s.discard(types.ItemsKey, err)
		} else {
			if items == nil {
				items = []types.Item{}
			}
			s.items = items
		}
	}

	raw, ok, err = s.storage.Get(types.PrefsKey)
	if err != nil {
		return fmt.Errorf("loading preferences: %w", err)
	}
	if ok {
		prefs := types.DefaultPreferences()
		if err := json.Unmarshal([]byte(raw), &prefs); err != nil {
			s.discard(types.PrefsKey, err)
		} else {
			sanitized, changed := prefs.Sanitize()
			if changed {
				s.logger.Warn("stored preferences had unknown values, using defaults for them",
					zap.String("key", types.PrefsKey),
					zap.String("sort", string(prefs.Sort)),
					zap.String("filter", string(prefs.Filter)))
			}
			s.prefs = sanitized
		}
	}

	s.logger.Debug("shelf loaded",
		zap.Int("items", len(s.items)),
		zap.String("sort", string(s.prefs.Sort)),
		zap.String("filter", string(s.prefs.Filter)))
	return nil
}

// discard removes an unparseable stored value. The caller must hold s.mu.
func (s *Store) discard(key string, cause error) {
	s.logger.Warn("discarding unreadable stored value", zap.String("key", key), zap.Error(cause))
	if err := s.storage.Remove(key); err != nil {
		s.logger.Warn("could not clear stored value", zap.String("key", key), zap.Error(err))
	}
}

// Save writes both keys to storage.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.persist(types.ItemsKey); err != nil {
		return err
	}
	return s.persist(types.PrefsKey)
}

// SaveErr returns the most recent persistence failure, or nil if the last
// write succeeded.
func (s *Store) SaveErr() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.saveErr
}

// persist serializes the state behind key and writes it. Failures are
// recorded in saveErr and returned wrapping types.ErrNotSaved.
// The caller must hold s.mu.
func (s *Store) persist(key string) error {
	var v any
	switch key {
	case types.ItemsKey:
		items := s.items
		if items == nil {
			items = []types.Item{}
		}
		v = items
	case types.PrefsKey:
		v = s.prefs
	default:
		return fmt.Errorf("%w: %q", types.ErrInvalidKey, key)
	}

	data, err := json.Marshal(v)
	if err == nil {
		err = s.storage.Set(key, string(data))
	}
	if err != nil {
		s.saveErr = fmt.Errorf("persist %s: %w: %w", key, types.ErrNotSaved, err)
		s.logger.Warn("write to storage failed", zap.String("key", key), zap.Error(err))
		return s.saveErr
	}
	s.saveErr = nil
	return nil
}

// mutate applies fn to the state and then persists key. fn returning an
// error aborts without persisting.
func (s *Store) mutate(key string, fn func() error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := fn(); err != nil {
		return err
	}
	return s.persist(key)
}

// indexOf returns the position of id in the collection, or -1.
// The caller must hold s.mu.
func (s *Store) indexOf(id string) int {
	for i := range s.items {
		if s.items[i].ID == id {
			return i
		}
	}
	return -1
}

// AddItem creates an item from draft, prepends it, and persists the
// collection. Returns ErrInvalidTitle if the trimmed title is empty.
// When only the write fails the item is returned with an error wrapping
// ErrNotSaved.
func (s *Store) AddItem(draft types.Draft) (types.Item, error) {
	d := draft.Normalize()
	if err := d.Validate(); err != nil {
		return types.Item{}, err
	}

	var item types.Item
	err := s.mutate(types.ItemsKey, func() error {
		item = types.Item{
			ID:        s.newID(),
			Title:     d.Title,
			Author:    d.Author,
			Link:      d.Link,
			Notes:     d.Notes,
			Status:    types.StatusBacklog,
			CreatedAt: s.now().UTC().Truncate(time.Millisecond),
		}
		s.items = append([]types.Item{item}, s.items...)
		return nil
	})
	return item, err
}

// UpdateStatus sets the status of item id.
// Returns ErrInvalidStatus or ErrNotFound without changing anything.
func (s *Store) UpdateStatus(id string, status types.Status) error {
	if !status.Valid() {
		return types.ErrInvalidStatus
	}
	return s.mutate(types.ItemsKey, func() error {
		i := s.indexOf(id)
		if i < 0 {
			return types.ErrNotFound
		}
		return s.items[i].SetStatus(status)
	})
}

// RemoveItem deletes item id. Returns ErrNotFound when id is unknown, in
// which case the collection is unchanged.
func (s *Store) RemoveItem(id string) error {
	return s.mutate(types.ItemsKey, func() error {
		i := s.indexOf(id)
		if i < 0 {
			return types.ErrNotFound
		}
		s.items = append(s.items[:i:i], s.items[i+1:]...)
		return nil
	})
}

// ToggleFavorite flips the favorite flag of item id and returns the new value.
func (s *Store) ToggleFavorite(id string) (bool, error) {
	var fav bool
	err := s.mutate(types.ItemsKey, func() error {
		i := s.indexOf(id)
		if i < 0 {
			return types.ErrNotFound
		}
		fav = s.items[i].ToggleFavorite()
		return nil
	})
	return fav, err
}

// SetPreferences merges patch into the preferences and persists them.
func (s *Store) SetPreferences(patch types.PreferencesPatch) (types.Preferences, error) {
	var prefs types.Preferences
	err := s.mutate(types.PrefsKey, func() error {
		next, err := patch.Apply(s.prefs)
		if err != nil {
			prefs = s.prefs
			return err
		}
		s.prefs = next
		prefs = next
		return nil
	})
	return prefs, err
}

// Items returns a copy of the collection in stored order.
func (s *Store) Items() []types.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]types.Item, len(s.items))
	copy(out, s.items)
	return out
}

// Item returns item id.
func (s *Store) Item(id string) (types.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	i := s.indexOf(id)
	if i < 0 {
		return types.Item{}, types.ErrNotFound
	}
	return s.items[i], nil
}

// ResolveID returns the ID of the single item whose ID equals or starts
// with prefix. Returns ErrNotFound or ErrAmbiguousID otherwise.
func (s *Store) ResolveID(prefix string) (string, error) {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" {
		return "", types.ErrInvalidID
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var match string
	for _, it := range s.items {
		if it.ID == prefix {
			return it.ID, nil
		}
		if strings.HasPrefix(it.ID, prefix) {
			if match != "" {
				return "", fmt.Errorf("%w: %s", types.ErrAmbiguousID, prefix)
			}
			match = it.ID
		}
	}
	if match == "" {
		return "", types.ErrNotFound
	}
	return match, nil
}

// Preferences returns the current preferences.
func (s *Store) Preferences() types.Preferences {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.prefs
}

// View returns the derived view of the current state for search.
func (s *Store) View(search string) []types.Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return DerivedView(s.items, s.prefs, search)
}

// IsNotSaved reports whether err only signals a failed write after a
// mutation that was applied in memory.
func IsNotSaved(err error) bool {
	return errors.Is(err, types.ErrNotSaved)
}
