// internal/services/collection_service.go
package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/store"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

type CollectionService struct {
	collections store.CollectionStore
	records     store.RecordStore
	minter      Minter
}

type CreateCollectionRequest struct {
	Name        string `json:"name" validate:"required,notblank,max=255"`
	Description string `json:"description,omitempty" validate:"max=2000"`
}

// AddItemRequest carries an optional price. A missing price adds the item
// unlisted.
type AddItemRequest struct {
	TokenID string  `json:"tokenId" validate:"required,token_id"`
	Price   *string `json:"price,omitempty" validate:"omitempty,max=100"`
}

type PlatformStats struct {
	Collections int64 `json:"collections"`
	Items       int64 `json:"items"`
	Mints       int64 `json:"mints"`
	Listings    int64 `json:"listings"`
}

func NewCollectionService(collections store.CollectionStore, records store.RecordStore, minter Minter) *CollectionService {
	return &CollectionService{
		collections: collections,
		records:     records,
		minter:      minter,
	}
}

func (s *CollectionService) CreateCollection(ctx context.Context, req *CreateCollectionRequest) (*models.Collection, error) {
	collection, err := s.collections.CreateCollection(ctx, store.NewCollection{
		Name:        req.Name,
		Description: req.Description,
	})
	collectionOperations.WithLabelValues("create", statusLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"collection_id": collection.ID,
		"name":          collection.Name,
	}).Debug("Collection created")

	return collection, nil
}

// MintCollection registers the collection on-chain first. Nothing is stored
// when the minter fails.
func (s *CollectionService) MintCollection(ctx context.Context, req *CreateCollectionRequest) (*models.Collection, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, store.ErrInvalidName
	}

	address, err := s.minter.MintCollection(ctx, req.Name)
	if err != nil {
		collectionOperations.WithLabelValues("mint", "error").Inc()
		logrus.WithError(err).WithField("name", req.Name).Warn("Collection mint failed")
		return nil, minterError(err)
	}

	collection, err := s.collections.CreateCollection(ctx, store.NewCollection{
		Name:        req.Name,
		Description: req.Description,
		MintAddress: address,
	})
	collectionOperations.WithLabelValues("mint", statusLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"collection_id": collection.ID,
		"mint_address":  address,
	}).Info("Collection minted")

	return collection, nil
}

func (s *CollectionService) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	return s.collections.GetCollection(ctx, id)
}

func (s *CollectionService) ListCollections(ctx context.Context, params utils.PaginationParams) ([]models.Collection, int64, error) {
	return s.collections.ListCollections(ctx, store.ListOptions{
		Offset: params.Offset(),
		Limit:  params.Limit,
	})
}

// AddItem parses the price before the store is touched, so a malformed
// price leaves the collection unchanged.
func (s *CollectionService) AddItem(ctx context.Context, collectionID string, req *AddItemRequest) (*models.CollectionItem, error) {
	price := models.ZeroPrice()
	if req.Price != nil {
		parsed, err := models.ParsePrice(*req.Price)
		if err != nil {
			collectionOperations.WithLabelValues("add_item", "error").Inc()
			return nil, err
		}
		price = parsed
	}

	item, err := s.collections.AddItem(ctx, collectionID, req.TokenID, price)
	collectionOperations.WithLabelValues("add_item", statusLabel(err)).Inc()
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"collection_id": collectionID,
		"token_id":      item.TokenID,
		"price":         item.Price.String(),
	}).Debug("Collection item added")

	return item, nil
}

func (s *CollectionService) RemoveItem(ctx context.Context, collectionID, tokenID string) error {
	err := s.collections.RemoveItem(ctx, collectionID, tokenID)
	collectionOperations.WithLabelValues("remove_item", statusLabel(err)).Inc()
	if err != nil {
		return err
	}

	logrus.WithFields(logrus.Fields{
		"collection_id": collectionID,
		"token_id":      tokenID,
	}).Debug("Collection item removed")

	return nil
}

func (s *CollectionService) Stats(ctx context.Context, collectionID string) (*models.CollectionStats, error) {
	return s.collections.Stats(ctx, collectionID)
}

func (s *CollectionService) PlatformStats(ctx context.Context) (*PlatformStats, error) {
	var stats PlatformStats

	_, total, err := s.collections.ListCollections(ctx, store.ListOptions{Limit: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to count collections: %w", err)
	}
	stats.Collections = total

	if stats.Items, err = s.collections.CountItems(ctx); err != nil {
		return nil, err
	}
	if stats.Mints, err = s.records.CountMints(ctx); err != nil {
		return nil, err
	}
	if stats.Listings, err = s.records.CountListings(ctx); err != nil {
		return nil, err
	}

	return &stats, nil
}
