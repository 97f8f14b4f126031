// Package store persists listings and answers the one question the
// ingestion pipeline asks before spending money on classification: has this
// canonical link ever been seen before.
package store

import "github.com/keymarket/pianoscout/internal/models"

// StatusEdit is one row of a bulk active-flag sync.
type StatusEdit struct {
	ID     uint `json:"id"`
	Active bool `json:"active"`
}

// ListingStore is the persistence boundary of the ingestion and analytics
// core. Implementations must make single-row writes atomic; no multi-row
// transaction is required anywhere.
type ListingStore interface {
	// AlreadySeen reports whether any listing with this exact canonical
	// link exists, irrespective of observation date. Read-only.
	AlreadySeen(link string) (bool, error)

	// Insert persists exactly one new listing row.
	Insert(l *models.Listing) error

	// SetActive flips the active flag of the one targeted listing.
	SetActive(id uint, active bool) error

	// SyncActiveStatuses applies edits as independent single-row updates.
	// There is no atomicity across the batch; the first failing update
	// stops the sweep and is reported.
	SyncActiveStatuses(edits []StatusEdit) error

	// Active returns the working set consumed by the aggregator.
	Active() ([]models.Listing, error)

	// All returns every listing, active or not.
	All() ([]models.Listing, error)

	// Count returns the total number of stored listings.
	Count() (int64, error)
}
