// internal/models/nft.go
package models

import (
	"time"
)

type MintRecord struct {
	ID              string     `json:"id" gorm:"primaryKey;size:64"`
	TokenID         string     `json:"tokenId" gorm:"size:255;not null;index"`
	CollectionID    string     `json:"collectionId,omitempty" gorm:"size:64;index"`
	CollectionMint  string     `json:"collectionMint,omitempty" gorm:"size:128"`
	AuthorityPubkey string     `json:"authorityPubkey,omitempty" gorm:"size:128"`
	Metadata        JSONB      `json:"metadata,omitempty" gorm:"type:jsonb"`
	MetadataURI     string     `json:"metadataUri,omitempty" gorm:"type:text"`
	Address         string     `json:"address,omitempty" gorm:"size:128"`
	Owner           string     `json:"owner" gorm:"size:255;not null"`
	Status          MintStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	FailureReason   string     `json:"failureReason,omitempty" gorm:"type:text"`
	MintedAt        *time.Time `json:"mintedAt,omitempty"`
	Timestamps
}

type ListingRecord struct {
	ID           string        `json:"id" gorm:"primaryKey;size:64"`
	TokenID      string        `json:"tokenId" gorm:"size:255;not null;index"`
	CollectionID string        `json:"collectionId,omitempty" gorm:"size:64;index"`
	Price        string        `json:"price" gorm:"size:100;not null"`
	Currency     string        `json:"currency" gorm:"size:16;not null"`
	BaseUnits    Price         `json:"baseUnits" gorm:"type:numeric;not null"`
	Seller       string        `json:"seller" gorm:"size:255;not null"`
	Status       ListingStatus `json:"status" gorm:"type:varchar(20);default:'active';index"`
	ExpiresAt    *time.Time    `json:"expiresAt,omitempty"`
	Timestamps
}

// EffectiveStatus reports an active listing past its expiry as expired.
func (l ListingRecord) EffectiveStatus(now time.Time) ListingStatus {
	if l.Status == ListingStatusActive && l.ExpiresAt != nil && !now.Before(*l.ExpiresAt) {
		return ListingStatusExpired
	}
	return l.Status
}

type AuditLog struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Identity     string    `json:"identity" gorm:"size:255;not null;index"`
	Action       string    `json:"action" gorm:"size:255;not null;index"`
	ResourceType string    `json:"resourceType" gorm:"size:50;not null;index"`
	ResourceID   string    `json:"resourceId,omitempty" gorm:"size:255;index"`
	StatusCode   int       `json:"statusCode"`
	NewValues    JSONB     `json:"newValues,omitempty" gorm:"type:jsonb"`
	IPAddress    string    `json:"ipAddress" gorm:"size:45"`
	UserAgent    string    `json:"userAgent" gorm:"type:text"`
	CreatedAt    time.Time `json:"createdAt"`
}

var currencyDecimals = map[string]int32{
	"ETH":   18,
	"MATIC": 18,
	"SOL":   9,
	"USDC":  6,
}

// CurrencyDecimals reports how many base units make up one unit of code.
func CurrencyDecimals(code string) (int32, bool) {
	d, ok := currencyDecimals[code]
	return d, ok
}

func SupportedCurrencies() []string {
	return []string{"ETH", "MATIC", "SOL", "USDC"}
}
