// internal/services/nft_service.go
package services

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/store"
	"github.com/javajoker/nft-marketplace/internal/utils"
)

var ErrInvalidListing = errors.New("invalid listing")

const defaultListingCurrency = "ETH"

type NFTService struct {
	collections store.CollectionStore
	records     store.RecordStore
	storage     *StorageService
	minter      Minter
	now         func() time.Time
}

type MintNFTRequest struct {
	TokenID         string                 `json:"tokenId" validate:"required,token_id"`
	Metadata        map[string]interface{} `json:"metadata,omitempty"`
	CollectionID    string                 `json:"collectionId,omitempty" validate:"max=64"`
	CollectionMint  string                 `json:"collectionMint,omitempty" validate:"max=128"`
	AuthorityPubkey string                 `json:"authorityPubkey,omitempty" validate:"max=128"`
}

// ListNFTRequest prices the token in whole currency units ("1.5" ETH).
type ListNFTRequest struct {
	TokenID      string     `json:"tokenId" validate:"required,token_id"`
	Price        string     `json:"price" validate:"required,max=100"`
	Currency     string     `json:"currency,omitempty" validate:"omitempty,currency"`
	ExpiresAt    *time.Time `json:"expiresAt,omitempty"`
	CollectionID string     `json:"collectionId,omitempty" validate:"max=64"`
}

func NewNFTService(collections store.CollectionStore, records store.RecordStore, storage *StorageService, minter Minter) *NFTService {
	return &NFTService{
		collections: collections,
		records:     records,
		storage:     storage,
		minter:      minter,
		now:         time.Now,
	}
}

// Mint records a pending mint, calls the minter and settles the record as
// minted or failed. A minted token joins its collection unlisted unless it
// is already there.
func (s *NFTService) Mint(ctx context.Context, owner string, req *MintNFTRequest) (*models.MintRecord, error) {
	record, err := s.mint(ctx, owner, req)
	nftOperations.WithLabelValues("mint", statusLabel(err)).Inc()
	return record, err
}

func (s *NFTService) mint(ctx context.Context, owner string, req *MintNFTRequest) (*models.MintRecord, error) {
	collectionMint := req.CollectionMint
	if req.CollectionID != "" {
		collection, err := s.collections.GetCollection(ctx, req.CollectionID)
		if err != nil {
			return nil, err
		}
		if collectionMint == "" {
			collectionMint = collection.MintAddress
		}
	}

	metadataURI, err := s.storage.UploadMetadata(ctx, req.TokenID, req.Metadata)
	if err != nil {
		return nil, err
	}

	id, err := utils.GenerateRecordID("mint")
	if err != nil {
		return nil, fmt.Errorf("failed to generate mint id: %w", err)
	}

	record := &models.MintRecord{
		ID:              id,
		TokenID:         req.TokenID,
		CollectionID:    req.CollectionID,
		CollectionMint:  collectionMint,
		AuthorityPubkey: req.AuthorityPubkey,
		Metadata:        models.JSONB(req.Metadata),
		MetadataURI:     metadataURI,
		Owner:           owner,
		Status:          models.MintStatusPending,
	}
	if err := s.records.CreateMint(ctx, record); err != nil {
		return nil, err
	}

	address, mintErr := s.minter.MintNFT(ctx, MintParams{
		TokenID:         req.TokenID,
		MetadataURI:     metadataURI,
		CollectionMint:  collectionMint,
		AuthorityPubkey: req.AuthorityPubkey,
		Owner:           owner,
	})
	if mintErr != nil {
		record.Status = models.MintStatusFailed
		record.FailureReason = mintErr.Error()
		// The request may already be cancelled; the record must still settle.
		if err := s.records.UpdateMint(context.WithoutCancel(ctx), record); err != nil {
			logrus.WithError(err).WithField("mint_id", record.ID).Error("Failed to mark mint as failed")
		}
		logrus.WithError(mintErr).WithFields(logrus.Fields{
			"mint_id":  record.ID,
			"token_id": record.TokenID,
		}).Warn("NFT mint failed")
		return nil, minterError(mintErr)
	}

	mintedAt := s.now()
	record.Status = models.MintStatusMinted
	record.Address = address
	record.MintedAt = &mintedAt
	if err := s.records.UpdateMint(context.WithoutCancel(ctx), record); err != nil {
		return nil, fmt.Errorf("failed to record minted token: %w", err)
	}

	if req.CollectionID != "" {
		if _, _, err := s.collections.AddItemIfAbsent(ctx, req.CollectionID, req.TokenID); err != nil {
			return nil, fmt.Errorf("failed to add minted token to collection: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"mint_id":  record.ID,
		"token_id": record.TokenID,
		"address":  address,
		"owner":    owner,
	}).Info("NFT minted")

	return record, nil
}

func (s *NFTService) GetMint(ctx context.Context, id string) (*models.MintRecord, error) {
	return s.records.GetMint(ctx, id)
}

// List creates an active listing. When the token belongs to a collection its
// item price becomes the listing price in base units.
func (s *NFTService) List(ctx context.Context, seller string, req *ListNFTRequest) (*models.ListingRecord, error) {
	record, err := s.list(ctx, seller, req)
	nftOperations.WithLabelValues("list", statusLabel(err)).Inc()
	return record, err
}

func (s *NFTService) list(ctx context.Context, seller string, req *ListNFTRequest) (*models.ListingRecord, error) {
	currency := req.Currency
	if currency == "" {
		currency = defaultListingCurrency
	}

	baseUnits, err := ToBaseUnits(req.Price, currency)
	if err != nil {
		return nil, err
	}
	if req.ExpiresAt != nil && !req.ExpiresAt.After(s.now()) {
		return nil, fmt.Errorf("%w: expiresAt must be in the future", ErrInvalidListing)
	}

	if req.CollectionID != "" {
		if _, err := s.collections.GetCollection(ctx, req.CollectionID); err != nil {
			return nil, err
		}
	}

	id, err := utils.GenerateRecordID("listing")
	if err != nil {
		return nil, fmt.Errorf("failed to generate listing id: %w", err)
	}

	record := &models.ListingRecord{
		ID:           id,
		TokenID:      req.TokenID,
		CollectionID: req.CollectionID,
		Price:        req.Price,
		Currency:     currency,
		BaseUnits:    baseUnits,
		Seller:       seller,
		Status:       models.ListingStatusActive,
		ExpiresAt:    req.ExpiresAt,
	}
	if err := s.records.CreateListing(ctx, record); err != nil {
		return nil, err
	}

	if req.CollectionID != "" {
		if _, err := s.collections.AddItem(ctx, req.CollectionID, req.TokenID, baseUnits); err != nil {
			// An unpriced item must not leave an active listing behind.
			if cancelErr := s.records.UpdateListingStatus(context.WithoutCancel(ctx), record.ID, models.ListingStatusCancelled); cancelErr != nil {
				logrus.WithError(cancelErr).WithField("listing_id", record.ID).Error("Failed to cancel listing")
			}
			return nil, fmt.Errorf("failed to price collection item: %w", err)
		}
	}

	logrus.WithFields(logrus.Fields{
		"listing_id": record.ID,
		"token_id":   record.TokenID,
		"price":      record.Price,
		"currency":   currency,
		"seller":     seller,
	}).Info("NFT listed")

	return record, nil
}

// GetListing reports an active listing past its expiry as expired.
func (s *NFTService) GetListing(ctx context.Context, id string) (*models.ListingRecord, error) {
	record, err := s.records.GetListing(ctx, id)
	if err != nil {
		return nil, err
	}
	record.Status = record.EffectiveStatus(s.now())
	return record, nil
}

// Plain decimal digits only; exponent notation is rejected before conversion.
var listingAmountPattern = regexp.MustCompile(`^[0-9]{1,40}(\.[0-9]{1,30})?$`)

// ToBaseUnits converts a positive decimal amount of currency into its
// smallest unit. Amounts finer than the currency allows are rejected.
func ToBaseUnits(amount, currency string) (models.Price, error) {
	decimals, ok := models.CurrencyDecimals(currency)
	if !ok {
		return models.Price{}, fmt.Errorf("%w: unsupported currency %q", ErrInvalidListing, currency)
	}

	if !listingAmountPattern.MatchString(amount) {
		return models.Price{}, fmt.Errorf("%w: price %q must be plain decimal digits", ErrInvalidListing, amount)
	}

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return models.Price{}, fmt.Errorf("%w: price %q is not a decimal number", ErrInvalidListing, amount)
	}
	if !value.IsPositive() {
		return models.Price{}, fmt.Errorf("%w: price must be positive", ErrInvalidListing)
	}

	base := value.Shift(decimals)
	if !base.Equal(base.Truncate(0)) {
		return models.Price{}, fmt.Errorf("%w: %s supports at most %d decimal places", ErrInvalidListing, currency, decimals)
	}

	return models.PriceFromBigInt(base.BigInt())
}
