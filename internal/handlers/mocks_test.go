package handlers

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/services"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

type MockCollectionService struct {
	mock.Mock
}

func (m *MockCollectionService) CreateCollection(ctx context.Context, req *services.CreateCollectionRequest) (*models.Collection, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) MintCollection(ctx context.Context, req *services.CreateCollectionRequest) (*models.Collection, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Collection), args.Error(1)
}

func (m *MockCollectionService) ListCollections(ctx context.Context, params utils.PaginationParams) ([]models.Collection, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]models.Collection), args.Get(1).(int64), args.Error(2)
}

func (m *MockCollectionService) AddItem(ctx context.Context, collectionID string, req *services.AddItemRequest) (*models.CollectionItem, error) {
	args := m.Called(ctx, collectionID, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CollectionItem), args.Error(1)
}

func (m *MockCollectionService) RemoveItem(ctx context.Context, collectionID, tokenID string) error {
	args := m.Called(ctx, collectionID, tokenID)
	return args.Error(0)
}

func (m *MockCollectionService) Stats(ctx context.Context, collectionID string) (*models.CollectionStats, error) {
	args := m.Called(ctx, collectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.CollectionStats), args.Error(1)
}

func (m *MockCollectionService) PlatformStats(ctx context.Context) (*services.PlatformStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*services.PlatformStats), args.Error(1)
}

type MockNFTService struct {
	mock.Mock
}

func (m *MockNFTService) Mint(ctx context.Context, owner string, req *services.MintNFTRequest) (*models.MintRecord, error) {
	args := m.Called(ctx, owner, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MintRecord), args.Error(1)
}

func (m *MockNFTService) GetMint(ctx context.Context, id string) (*models.MintRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MintRecord), args.Error(1)
}

func (m *MockNFTService) List(ctx context.Context, seller string, req *services.ListNFTRequest) (*models.ListingRecord, error) {
	args := m.Called(ctx, seller, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingRecord), args.Error(1)
}

func (m *MockNFTService) GetListing(ctx context.Context, id string) (*models.ListingRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.ListingRecord), args.Error(1)
}
