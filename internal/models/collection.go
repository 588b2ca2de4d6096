// internal/models/collection.go
package models

import "fmt"

type Collection struct {
	ID          string           `json:"id" gorm:"primaryKey;size:64"`
	Name        string           `json:"name" gorm:"size:255;not null"`
	Description string           `json:"description,omitempty" gorm:"type:text"`
	MintAddress string           `json:"mintAddress,omitempty" gorm:"size:128"`
	Items       []CollectionItem `json:"items" gorm:"foreignKey:CollectionID;references:ID"`
	Timestamps
}

// CollectionItem is keyed by TokenID within its collection. A zero price
// means the item is not listed.
type CollectionItem struct {
	ID           uint   `json:"-" gorm:"primaryKey"`
	CollectionID string `json:"-" gorm:"size:64;not null;uniqueIndex:idx_collection_items_token"`
	TokenID      string `json:"tokenId" gorm:"size:255;not null;uniqueIndex:idx_collection_items_token"`
	Price        Price  `json:"price" gorm:"type:numeric;not null;default:0"`
	Timestamps   `json:"-"`
}

func (i CollectionItem) Listed() bool {
	return !i.Price.IsZero()
}

// CollectionStats is derived from a snapshot of items and never stored.
type CollectionStats struct {
	Total      int   `json:"total"`
	Listed     int   `json:"listed"`
	FloorPrice Price `json:"floorPrice"`
	Volume     Price `json:"volume"`
}

// ComputeStats is a pure function of items. FloorPrice is zero when nothing
// is listed; Volume sums every item, so unlisted items add zero.
func ComputeStats(items []CollectionItem) CollectionStats {
	stats := CollectionStats{
		Total:      len(items),
		FloorPrice: ZeroPrice(),
		Volume:     ZeroPrice(),
	}

	for _, item := range items {
		stats.Volume = stats.Volume.Add(item.Price)

		if !item.Listed() {
			continue
		}
		if stats.Listed == 0 || item.Price.Cmp(stats.FloorPrice) < 0 {
			stats.FloorPrice = item.Price
		}
		stats.Listed++
	}

	return stats
}

func (s CollectionStats) String() string {
	return fmt.Sprintf("total=%d listed=%d floor=%s volume=%s", s.Total, s.Listed, s.FloorPrice, s.Volume)
}
