package irs990

import (
	"context"
	"time"
)

// SavedFiling is an extracted filing persisted for later inspection and
// question answering.
type SavedFiling struct {
	ID          string           `json:"id"`
	ObjectID    string           `json:"objectId"`
	Fields      map[string]Value `json:"fields"`
	ContentHash string           `json:"contentHash"`
	CreatedAt   time.Time        `json:"createdAt"`
}

// Validate returns an error if the saved filing contains invalid fields.
func (f *SavedFiling) Validate() error {
	if f.ObjectID == "" {
		return Errorf(EINVALID, "saved filing object ID required")
	}
	if len(f.Fields) == 0 {
		return Errorf(EINVALID, "saved filing fields required")
	}
	return nil
}

// SavedFilingService represents a service for managing saved filings.
type SavedFilingService interface {
	// CreateSavedFiling persists a new saved filing.
	// Returns ECONFLICT if an identical extraction for the same object ID
	// already exists.
	CreateSavedFiling(ctx context.Context, f *SavedFiling) error

	// FindSavedFilingByID retrieves a saved filing by ID.
	// Returns ENOTFOUND if it does not exist.
	FindSavedFilingByID(ctx context.Context, id string) (*SavedFiling, error)

	// FindSavedFilings retrieves saved filings matching the filter,
	// newest first.
	FindSavedFilings(ctx context.Context, filter SavedFilingFilter) ([]*SavedFiling, error)

	// DeleteSavedFiling permanently removes a saved filing.
	// Returns ENOTFOUND if it does not exist.
	DeleteSavedFiling(ctx context.Context, id string) error
}

// SavedFilingFilter represents a filter for FindSavedFilings.
type SavedFilingFilter struct {
	ID       *string `json:"id"`
	ObjectID *string `json:"objectId"`

	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}
