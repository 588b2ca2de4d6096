// internal/handlers/interfaces.go
package handlers

import (
	"context"

	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/services"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

// CollectionServiceInterface defines the methods used by handlers from CollectionService
type CollectionServiceInterface interface {
	CreateCollection(ctx context.Context, req *services.CreateCollectionRequest) (*models.Collection, error)
	MintCollection(ctx context.Context, req *services.CreateCollectionRequest) (*models.Collection, error)
	GetCollection(ctx context.Context, id string) (*models.Collection, error)
	ListCollections(ctx context.Context, params utils.PaginationParams) ([]models.Collection, int64, error)
	AddItem(ctx context.Context, collectionID string, req *services.AddItemRequest) (*models.CollectionItem, error)
	RemoveItem(ctx context.Context, collectionID, tokenID string) error
	Stats(ctx context.Context, collectionID string) (*models.CollectionStats, error)
	PlatformStats(ctx context.Context) (*services.PlatformStats, error)
}

// NFTServiceInterface defines the methods used by handlers from NFTService
type NFTServiceInterface interface {
	Mint(ctx context.Context, owner string, req *services.MintNFTRequest) (*models.MintRecord, error)
	GetMint(ctx context.Context, id string) (*models.MintRecord, error)
	List(ctx context.Context, seller string, req *services.ListNFTRequest) (*models.ListingRecord, error)
	GetListing(ctx context.Context, id string) (*models.ListingRecord, error)
}

var (
	_ CollectionServiceInterface = (*services.CollectionService)(nil)
	_ NFTServiceInterface        = (*services.NFTService)(nil)
)
