package store

import (
	"fmt"
	"sort"
	"sync"

	"gorm.io/gorm"

	"github.com/keymarket/pianoscout/internal/models"
)

// MemoryStore keeps listings in memory. It backs the scout's dry-run mode
// (observe a full cycle without touching the database) and the test suite.
type MemoryStore struct {
	mu     sync.RWMutex
	nextID uint
	rows   map[uint]models.Listing
	byLink map[string]uint
}

// NewMemoryStore returns an empty in-memory ListingStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID: 1,
		rows:   make(map[uint]models.Listing),
		byLink: make(map[string]uint),
	}
}

func (s *MemoryStore) AlreadySeen(link string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.byLink[link]
	return ok, nil
}

func (s *MemoryStore) Insert(l *models.Listing) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.byLink[l.Link]; ok {
		return fmt.Errorf("duplicate link %q", l.Link)
	}

	l.ID = s.nextID
	s.nextID++
	s.rows[l.ID] = *l
	s.byLink[l.Link] = l.ID
	return nil
}

func (s *MemoryStore) SetActive(id uint, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	row, ok := s.rows[id]
	if !ok {
		return fmt.Errorf("listing %d: %w", id, gorm.ErrRecordNotFound)
	}
	row.Active = active
	s.rows[id] = row
	return nil
}

func (s *MemoryStore) SyncActiveStatuses(edits []StatusEdit) error {
	for _, e := range edits {
		if err := s.SetActive(e.ID, e.Active); err != nil {
			return err
		}
	}
	return nil
}

func (s *MemoryStore) Active() ([]models.Listing, error) {
	return s.list(func(l models.Listing) bool { return l.Active })
}

func (s *MemoryStore) All() ([]models.Listing, error) {
	return s.list(func(models.Listing) bool { return true })
}

func (s *MemoryStore) Count() (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.rows)), nil
}

func (s *MemoryStore) list(keep func(models.Listing) bool) ([]models.Listing, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	listings := make([]models.Listing, 0, len(s.rows))
	for _, l := range s.rows {
		if keep(l) {
			listings = append(listings, l)
		}
	}
	sort.Slice(listings, func(i, j int) bool { return listings[i].ID < listings[j].ID })
	return listings, nil
}
