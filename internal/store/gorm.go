// internal/store/gorm.go
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/javajoker/nft-marketplace/internal/database"
	"github.com/javajoker/nft-marketplace/internal/models"
)

// GormStore persists collections in PostgreSQL. Every mutation locks the
// collection row first, which serializes writers per collection.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

func (s *GormStore) CreateCollection(ctx context.Context, in NewCollection) (*models.Collection, error) {
	if isBlank(in.Name) {
		return nil, ErrInvalidName
	}

	collection := &models.Collection{
		ID:          uuid.NewString(),
		Name:        in.Name,
		Description: in.Description,
		MintAddress: in.MintAddress,
	}
	if err := s.db.WithContext(ctx).Omit(clause.Associations).Create(collection).Error; err != nil {
		return nil, fmt.Errorf("failed to create collection: %w", err)
	}

	collection.Items = []models.CollectionItem{}
	return collection, nil
}

func (s *GormStore) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	var collection models.Collection
	err := s.readOnly(ctx, func(tx *gorm.DB) error {
		return tx.Preload("Items", orderItems).First(&collection, "id = ?", id).Error
	})
	if err != nil {
		return nil, translateNotFound(err, ErrCollectionNotFound)
	}
	normalizeItems(&collection)
	return &collection, nil
}

func (s *GormStore) ListCollections(ctx context.Context, opts ListOptions) ([]models.Collection, int64, error) {
	var (
		collections []models.Collection
		total       int64
	)

	err := s.readOnly(ctx, func(tx *gorm.DB) error {
		if err := tx.Model(&models.Collection{}).Count(&total).Error; err != nil {
			return fmt.Errorf("failed to count collections: %w", err)
		}

		query := tx.Preload("Items", orderItems).Order("created_at ASC, id ASC")
		if opts.Offset > 0 {
			query = query.Offset(opts.Offset)
		}
		if opts.Limit > 0 {
			query = query.Limit(opts.Limit)
		}
		if err := query.Find(&collections).Error; err != nil {
			return fmt.Errorf("failed to fetch collections: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, 0, err
	}

	if collections == nil {
		collections = []models.Collection{}
	}
	for i := range collections {
		normalizeItems(&collections[i])
	}
	return collections, total, nil
}

func (s *GormStore) AddItem(ctx context.Context, collectionID, tokenID string, price models.Price) (*models.CollectionItem, error) {
	var item models.CollectionItem

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := lockCollection(tx, collectionID); err != nil {
			return err
		}
		if tokenID == "" {
			return ErrInvalidTokenID
		}

		now := time.Now()
		item = models.CollectionItem{
			CollectionID: collectionID,
			TokenID:      tokenID,
			Price:        price,
			Timestamps:   models.Timestamps{CreatedAt: now, UpdatedAt: now},
		}

		err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "collection_id"}, {Name: "token_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"price", "updated_at"}),
		}).Create(&item).Error
		if err != nil {
			return fmt.Errorf("failed to upsert item: %w", err)
		}

		return touchCollection(tx, collectionID, now)
	})
	if err != nil {
		return nil, err
	}

	return &item, nil
}

func (s *GormStore) AddItemIfAbsent(ctx context.Context, collectionID, tokenID string) (*models.CollectionItem, bool, error) {
	var (
		item     models.CollectionItem
		inserted bool
	)

	err := database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := lockCollection(tx, collectionID); err != nil {
			return err
		}
		if tokenID == "" {
			return ErrInvalidTokenID
		}

		err := tx.Where("collection_id = ? AND token_id = ?", collectionID, tokenID).First(&item).Error
		if err == nil {
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("failed to look up item: %w", err)
		}

		now := time.Now()
		item = models.CollectionItem{
			CollectionID: collectionID,
			TokenID:      tokenID,
			Timestamps:   models.Timestamps{CreatedAt: now, UpdatedAt: now},
		}
		if err := tx.Create(&item).Error; err != nil {
			return fmt.Errorf("failed to insert item: %w", err)
		}
		inserted = true

		return touchCollection(tx, collectionID, now)
	})
	if err != nil {
		return nil, false, err
	}

	return &item, inserted, nil
}

func (s *GormStore) RemoveItem(ctx context.Context, collectionID, tokenID string) error {
	return database.WithTransaction(s.db.WithContext(ctx), func(tx *gorm.DB) error {
		if err := lockCollection(tx, collectionID); err != nil {
			return err
		}

		result := tx.Where("collection_id = ? AND token_id = ?", collectionID, tokenID).
			Delete(&models.CollectionItem{})
		if result.Error != nil {
			return fmt.Errorf("failed to remove item: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrItemNotFound
		}

		return touchCollection(tx, collectionID, time.Now())
	})
}

func (s *GormStore) Stats(ctx context.Context, collectionID string) (*models.CollectionStats, error) {
	collection, err := s.GetCollection(ctx, collectionID)
	if err != nil {
		return nil, err
	}

	stats := models.ComputeStats(collection.Items)
	return &stats, nil
}

func (s *GormStore) CountItems(ctx context.Context) (int64, error) {
	var total int64
	if err := s.db.WithContext(ctx).Model(&models.CollectionItem{}).Count(&total).Error; err != nil {
		return 0, fmt.Errorf("failed to count items: %w", err)
	}
	return total, nil
}

// readOnly runs fn in a repeatable-read transaction so the collection row
// and its items come from the same snapshot.
func (s *GormStore) readOnly(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return s.db.WithContext(ctx).Transaction(fn, &sql.TxOptions{
		Isolation: sql.LevelRepeatableRead,
		ReadOnly:  true,
	})
}

func lockCollection(tx *gorm.DB, id string) error {
	var locked models.Collection
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&locked, "id = ?", id).Error
	return translateNotFound(err, ErrCollectionNotFound)
}

func touchCollection(tx *gorm.DB, id string, now time.Time) error {
	err := tx.Model(&models.Collection{}).Where("id = ?", id).UpdateColumn("updated_at", now).Error
	if err != nil {
		return fmt.Errorf("failed to touch collection: %w", err)
	}
	return nil
}

// normalizeItems keeps an empty collection encoding as "items":[].
func normalizeItems(c *models.Collection) {
	if c.Items == nil {
		c.Items = []models.CollectionItem{}
	}
}

func orderItems(db *gorm.DB) *gorm.DB {
	return db.Order("collection_items.id ASC")
}

func translateNotFound(err, notFound error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return notFound
	}
	return err
}
