package admin

import (
	"sync"

	"github.com/Veraticus/spice-console/internal/model"
)

// EntityKind tags the three editable record kinds.
type EntityKind string

// Entity kinds.
const (
	KindGroup    EntityKind = "group"
	KindCategory EntityKind = "category"
	KindCurrency EntityKind = "currency"
)

// Snapshot is a read-only copy of the committed collections, in collaborator
// order.
type Snapshot struct {
	Groups     []model.CategoryGroup
	Categories []model.Category
	Currencies []model.Currency
}

// Store holds the committed collections. Only the coordinator's loads write
// to it, and every write replaces a collection wholesale.
type Store struct {
	groups     []model.CategoryGroup
	categories []model.Category
	currencies []model.Currency
	mu         sync.RWMutex
	closed     bool
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{}
}

// Close tears the store down. Later loads are dropped.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
}

// Closed reports whether Close was called.
func (s *Store) Closed() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.closed
}

// Snapshot returns copies of every collection.
func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	categories := make([]model.Category, len(s.categories))
	for i, c := range s.categories {
		categories[i] = cloneCategory(c)
	}
	return Snapshot{
		Groups:     append([]model.CategoryGroup(nil), s.groups...),
		Categories: categories,
		Currencies: append([]model.Currency(nil), s.currencies...),
	}
}

// Groups returns a copy of the group collection.
func (s *Store) Groups() []model.CategoryGroup {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.CategoryGroup(nil), s.groups...)
}

// group looks up a loaded group by id.
func (s *Store) group(id string) (model.CategoryGroup, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, g := range s.groups {
		if g.ID == id {
			return g, true
		}
	}
	return model.CategoryGroup{}, false
}

func (s *Store) replaceGroups(groups []model.CategoryGroup) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.groups = append([]model.CategoryGroup(nil), groups...)
	return true
}

func (s *Store) replaceCategories(categories []model.Category) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.categories = make([]model.Category, len(categories))
	for i, c := range categories {
		s.categories[i] = cloneCategory(c)
	}
	return true
}

func (s *Store) replaceCurrencies(currencies []model.Currency) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.currencies = append([]model.Currency(nil), currencies...)
	return true
}

// cloneCategory copies c without sharing its pointer fields.
func cloneCategory(c model.Category) model.Category {
	if c.GroupID != nil {
		id := *c.GroupID
		c.GroupID = &id
	}
	if c.Group != nil {
		g := *c.Group
		c.Group = &g
	}
	return c
}
