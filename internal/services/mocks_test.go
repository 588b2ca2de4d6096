package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/store"
)

type mockMinter struct {
	mock.Mock
}

func (m *mockMinter) MintNFT(ctx context.Context, params MintParams) (string, error) {
	args := m.Called(ctx, params)
	return args.String(0), args.Error(1)
}

func (m *mockMinter) MintCollection(ctx context.Context, name string) (string, error) {
	args := m.Called(ctx, name)
	return args.String(0), args.Error(1)
}

// failingItemStore rejects every AddItem.
type failingItemStore struct {
	*store.MemoryStore
	err error
}

func (s *failingItemStore) AddItem(ctx context.Context, collectionID, tokenID string, price models.Price) (*models.CollectionItem, error) {
	return nil, s.err
}

// recordingRecordStore remembers the last listing id it created.
type recordingRecordStore struct {
	*store.MemoryRecordStore
	lastListingID string
}

func (s *recordingRecordStore) CreateListing(ctx context.Context, record *models.ListingRecord) error {
	if err := s.MemoryRecordStore.CreateListing(ctx, record); err != nil {
		return err
	}
	s.lastListingID = record.ID
	return nil
}
