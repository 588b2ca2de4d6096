// internal/store/store.go
package store

import (
	"context"
	"errors"

	"github.com/javajoker/nft-marketplace/internal/models"
)

var (
	ErrCollectionNotFound = errors.New("collection not found")
	ErrItemNotFound       = errors.New("item not found in collection")
	ErrInvalidName        = errors.New("collection name must not be empty")
	ErrInvalidTokenID     = errors.New("token id must not be empty")

	ErrMintNotFound       = errors.New("mint not found")
	ErrListingNotFound    = errors.New("listing not found")
	ErrTokenAlreadyMinted = errors.New("token has already been minted")
)

type NewCollection struct {
	Name        string
	Description string
	MintAddress string
}

// ListOptions pages through collections in insertion order. A zero Limit
// returns everything after Offset.
type ListOptions struct {
	Offset int
	Limit  int
}

// CollectionStore owns every collection and its items. Mutations on one
// collection are serialized; readers always get a consistent snapshot.
type CollectionStore interface {
	CreateCollection(ctx context.Context, in NewCollection) (*models.Collection, error)
	GetCollection(ctx context.Context, id string) (*models.Collection, error)
	ListCollections(ctx context.Context, opts ListOptions) ([]models.Collection, int64, error)
	// AddItem inserts tokenID or replaces its price if it is already present.
	AddItem(ctx context.Context, collectionID, tokenID string, price models.Price) (*models.CollectionItem, error)
	// AddItemIfAbsent inserts tokenID unlisted and leaves an existing item
	// untouched. The bool reports whether an insert happened.
	AddItemIfAbsent(ctx context.Context, collectionID, tokenID string) (*models.CollectionItem, bool, error)
	RemoveItem(ctx context.Context, collectionID, tokenID string) error
	Stats(ctx context.Context, collectionID string) (*models.CollectionStats, error)
	CountItems(ctx context.Context) (int64, error)
}

type RecordStore interface {
	// CreateMint fails with ErrTokenAlreadyMinted while another mint for the
	// same token is pending or minted.
	CreateMint(ctx context.Context, record *models.MintRecord) error
	UpdateMint(ctx context.Context, record *models.MintRecord) error
	GetMint(ctx context.Context, id string) (*models.MintRecord, error)
	CountMints(ctx context.Context) (int64, error)

	CreateListing(ctx context.Context, record *models.ListingRecord) error
	UpdateListingStatus(ctx context.Context, id string, status models.ListingStatus) error
	GetListing(ctx context.Context, id string) (*models.ListingRecord, error)
	CountListings(ctx context.Context) (int64, error)
}

type AuditStore interface {
	CreateAuditLog(ctx context.Context, entry *models.AuditLog) error
}

func isBlank(s string) bool {
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case ' ', '\t', '\n', '\r':
		default:
			return false
		}
	}
	return true
}

func clampPage(total, offset, limit int) (int, int) {
	if offset < 0 {
		offset = 0
	}
	if offset > total {
		offset = total
	}
	end := total
	if limit > 0 && offset+limit < total {
		end = offset + limit
	}
	return offset, end
}
