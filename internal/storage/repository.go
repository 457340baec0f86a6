package storage

import (
	"context"
	"errors"

	"linksift/internal/domain"
)

// ErrNotFound is returned when a list entry does not exist.
var ErrNotFound = errors.New("link not found")

// Repository stores the current link list of each user.
// This allows us to swap storage implementations (e.g., BadgerDB, PostgreSQL)
// without changing the code that edits lists.
type Repository interface {
	// ReplaceList drops the user's stored list and stores urls in its place.
	ReplaceList(ctx context.Context, userID int64, urls []domain.ExtractedURL) error

	// GetList returns the user's list ordered by OriginalIndex.
	GetList(ctx context.Context, userID int64) ([]domain.ExtractedURL, error)

	// UpdateLink overwrites an existing entry, matched by ID.
	// It returns ErrNotFound if the entry is not stored.
	UpdateLink(ctx context.Context, userID int64, link domain.ExtractedURL) error

	// DeleteLink removes one entry. Deleting a missing entry is not an error.
	DeleteLink(ctx context.Context, userID int64, id string) error

	// Clear removes the user's whole list.
	Clear(ctx context.Context, userID int64) error

	// Close gracefully shuts down the repository connection.
	Close() error
}
