package store

import (
	"errors"
	"fmt"

	"github.com/keymarket/pianoscout/internal/database"
	"github.com/keymarket/pianoscout/internal/models"
	"gorm.io/gorm"
)

// GormStore is the PostgreSQL-backed ListingStore. The unique index on the
// link column is a schema-level backstop for the permanent dedup policy;
// AlreadySeen is still checked first so duplicate observations never reach
// the classifier.
type GormStore struct {
	db *database.DB
}

// NewGormStore wraps an open database connection.
func NewGormStore(db *database.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) AlreadySeen(link string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.Listing{}).Where("link = ?", link).Count(&count).Error; err != nil {
		return false, fmt.Errorf("dedup lookup failed: %w", err)
	}
	return count > 0, nil
}

func (s *GormStore) Insert(l *models.Listing) error {
	if err := s.db.Create(l).Error; err != nil {
		return fmt.Errorf("failed to insert listing: %w", err)
	}
	return nil
}

func (s *GormStore) SetActive(id uint, active bool) error {
	res := s.db.Model(&models.Listing{}).Where("id = ?", id).Update("active", active)
	if res.Error != nil {
		return fmt.Errorf("failed to update listing %d: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("listing %d: %w", id, gorm.ErrRecordNotFound)
	}
	return nil
}

func (s *GormStore) SyncActiveStatuses(edits []StatusEdit) error {
	for _, e := range edits {
		if err := s.SetActive(e.ID, e.Active); err != nil {
			return err
		}
	}
	return nil
}

func (s *GormStore) Active() ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.db.Where("active = ?", true).Order("id").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch active listings: %w", err)
	}
	return listings, nil
}

func (s *GormStore) All() ([]models.Listing, error) {
	var listings []models.Listing
	if err := s.db.Order("id").Find(&listings).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch listings: %w", err)
	}
	return listings, nil
}

func (s *GormStore) Count() (int64, error) {
	var count int64
	if err := s.db.Model(&models.Listing{}).Count(&count).Error; err != nil {
		return 0, fmt.Errorf("failed to count listings: %w", err)
	}
	return count, nil
}

// IsNotFound reports whether err came from targeting a missing listing.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}
