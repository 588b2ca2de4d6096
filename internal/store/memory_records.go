// internal/store/memory_records.go
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/javajoker/nft-marketplace/internal/models"
)

// MemoryRecordStore keeps mint, listing and audit records in memory. It
// implements both RecordStore and AuditStore.
type MemoryRecordStore struct {
	mu       sync.RWMutex
	mints    map[string]models.MintRecord
	listings map[string]models.ListingRecord
	audit    []models.AuditLog
	nextLog  atomic.Uint64
	now      func() time.Time
}

func NewMemoryRecordStore() *MemoryRecordStore {
	return &MemoryRecordStore{
		mints:    make(map[string]models.MintRecord),
		listings: make(map[string]models.ListingRecord),
		now:      time.Now,
	}
}

func (s *MemoryRecordStore) CreateMint(ctx context.Context, record *models.MintRecord) error {
	if record.TokenID == "" {
		return ErrInvalidTokenID
	}
	if record.Status == "" {
		record.Status = models.MintStatusPending
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.mints {
		if existing.TokenID == record.TokenID && existing.Status != models.MintStatusFailed {
			return ErrTokenAlreadyMinted
		}
	}

	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now
	s.mints[record.ID] = *record
	return nil
}

func (s *MemoryRecordStore) UpdateMint(ctx context.Context, record *models.MintRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, ok := s.mints[record.ID]
	if !ok {
		return ErrMintNotFound
	}

	record.CreatedAt = existing.CreatedAt
	record.UpdatedAt = s.now()
	s.mints[record.ID] = *record
	return nil
}

func (s *MemoryRecordStore) GetMint(ctx context.Context, id string) (*models.MintRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.mints[id]
	if !ok {
		return nil, ErrMintNotFound
	}
	return &record, nil
}

func (s *MemoryRecordStore) CountMints(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.mints)), nil
}

func (s *MemoryRecordStore) CreateListing(ctx context.Context, record *models.ListingRecord) error {
	if record.TokenID == "" {
		return ErrInvalidTokenID
	}
	if record.Status == "" {
		record.Status = models.ListingStatusActive
	}

	now := s.now()
	record.CreatedAt = now
	record.UpdatedAt = now

	s.mu.Lock()
	s.listings[record.ID] = *record
	s.mu.Unlock()
	return nil
}

func (s *MemoryRecordStore) UpdateListingStatus(ctx context.Context, id string, status models.ListingStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.listings[id]
	if !ok {
		return ErrListingNotFound
	}
	record.Status = status
	record.UpdatedAt = s.now()
	s.listings[id] = record
	return nil
}

func (s *MemoryRecordStore) GetListing(ctx context.Context, id string) (*models.ListingRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.listings[id]
	if !ok {
		return nil, ErrListingNotFound
	}
	return &record, nil
}

func (s *MemoryRecordStore) CountListings(ctx context.Context) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.listings)), nil
}

func (s *MemoryRecordStore) CreateAuditLog(ctx context.Context, entry *models.AuditLog) error {
	entry.ID = uint(s.nextLog.Add(1))
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = s.now()
	}

	s.mu.Lock()
	s.audit = append(s.audit, *entry)
	s.mu.Unlock()
	return nil
}

// AuditLogs returns a copy of every audit entry in write order.
func (s *MemoryRecordStore) AuditLogs() []models.AuditLog {
	s.mu.RLock()
	defer s.mu.RUnlock()

	logs := make([]models.AuditLog, len(s.audit))
	copy(logs, s.audit)
	return logs
}
