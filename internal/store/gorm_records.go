// internal/store/gorm_records.go
package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/javajoker/nft-marketplace/internal/models"
)

// GormRecordStore persists mint, listing and audit records. Live mint
// uniqueness per token is enforced by idx_mint_records_live_token.
type GormRecordStore struct {
	db *gorm.DB
}

func NewGormRecordStore(db *gorm.DB) *GormRecordStore {
	return &GormRecordStore{db: db}
}

func (s *GormRecordStore) CreateMint(ctx context.Context, record *models.MintRecord) error {
	if record.TokenID == "" {
		return ErrInvalidTokenID
	}
	if record.Status == "" {
		record.Status = models.MintStatusPending
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrTokenAlreadyMinted
		}
		return fmt.Errorf("failed to create mint record: %w", err)
	}
	return nil
}

func (s *GormRecordStore) UpdateMint(ctx context.Context, record *models.MintRecord) error {
	result := s.db.WithContext(ctx).Model(record).Select("*").Omit("created_at").Updates(record)
	if result.Error != nil {
		return fmt.Errorf("failed to update mint record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrMintNotFound
	}
	return nil
}

func (s *GormRecordStore) GetMint(ctx context.Context, id string) (*models.MintRecord, error) {
	var record models.MintRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, ErrMintNotFound)
	}
	return &record, nil
}

func (s *GormRecordStore) CountMints(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.MintRecord{})
}

func (s *GormRecordStore) CreateListing(ctx context.Context, record *models.ListingRecord) error {
	if record.TokenID == "" {
		return ErrInvalidTokenID
	}
	if record.Status == "" {
		record.Status = models.ListingStatusActive
	}

	if err := s.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("failed to create listing record: %w", err)
	}
	return nil
}

func (s *GormRecordStore) UpdateListingStatus(ctx context.Context, id string, status models.ListingStatus) error {
	result := s.db.WithContext(ctx).Model(&models.ListingRecord{}).Where("id = ?", id).Update("status", status)
	if result.Error != nil {
		return fmt.Errorf("failed to update listing record: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrListingNotFound
	}
	return nil
}

func (s *GormRecordStore) GetListing(ctx context.Context, id string) (*models.ListingRecord, error) {
	var record models.ListingRecord
	if err := s.db.WithContext(ctx).First(&record, "id = ?", id).Error; err != nil {
		return nil, translateNotFound(err, ErrListingNotFound)
	}
	return &record, nil
}

func (s *GormRecordStore) CountListings(ctx context.Context) (int64, error) {
	return s.count(ctx, &models.ListingRecord{})
}

func (s *GormRecordStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to create audit log: %w", err)
	}
	return nil
}

func (s *GormRecordStore) count(ctx context.Context, model interface{}) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(model).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count records: %w", err)
	}
	return total, nil
}
