// internal/store/memory.go
package store

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/javajoker/nft-marketplace/internal/models"
)

type collectionEntry struct {
	mu         sync.RWMutex
	collection models.Collection
	items      []models.CollectionItem
	index      map[string]int
}

// snapshot copies the entry so callers never share the item slice.
func (e *collectionEntry) snapshot() *models.Collection {
	e.mu.RLock()
	defer e.mu.RUnlock()

	c := e.collection
	c.Items = make([]models.CollectionItem, len(e.items))
	copy(c.Items, e.items)
	return &c
}

// insertLocked appends a new item. Callers hold e.mu.
func (e *collectionEntry) insertLocked(id uint, tokenID string, price models.Price, now time.Time) models.CollectionItem {
	item := models.CollectionItem{
		ID:           id,
		CollectionID: e.collection.ID,
		TokenID:      tokenID,
		Price:        price,
		Timestamps:   models.Timestamps{CreatedAt: now, UpdatedAt: now},
	}
	e.index[tokenID] = len(e.items)
	e.items = append(e.items, item)
	e.collection.UpdatedAt = now
	return item
}

// MemoryStore keeps collections in process memory. The store lock only
// guards the id map; each collection has its own lock for item mutations.
type MemoryStore struct {
	mu          sync.RWMutex
	collections map[string]*collectionEntry
	order       []string
	nextItemID  atomic.Uint64
	now         func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		collections: make(map[string]*collectionEntry),
		now:         time.Now,
	}
}

func (s *MemoryStore) CreateCollection(ctx context.Context, in NewCollection) (*models.Collection, error) {
	if isBlank(in.Name) {
		return nil, ErrInvalidName
	}

	now := s.now()
	entry := &collectionEntry{
		collection: models.Collection{
			ID:          uuid.NewString(),
			Name:        in.Name,
			Description: in.Description,
			MintAddress: in.MintAddress,
			Timestamps:  models.Timestamps{CreatedAt: now, UpdatedAt: now},
		},
		index: make(map[string]int),
	}

	s.mu.Lock()
	s.collections[entry.collection.ID] = entry
	s.order = append(s.order, entry.collection.ID)
	s.mu.Unlock()

	return entry.snapshot(), nil
}

func (s *MemoryStore) GetCollection(ctx context.Context, id string) (*models.Collection, error) {
	entry, err := s.entry(id)
	if err != nil {
		return nil, err
	}
	return entry.snapshot(), nil
}

func (s *MemoryStore) ListCollections(ctx context.Context, opts ListOptions) ([]models.Collection, int64, error) {
	s.mu.RLock()
	start, end := clampPage(len(s.order), opts.Offset, opts.Limit)
	page := make([]*collectionEntry, 0, end-start)
	for _, id := range s.order[start:end] {
		page = append(page, s.collections[id])
	}
	total := int64(len(s.order))
	s.mu.RUnlock()

	collections := make([]models.Collection, 0, len(page))
	for _, entry := range page {
		collections = append(collections, *entry.snapshot())
	}
	return collections, total, nil
}

func (s *MemoryStore) AddItem(ctx context.Context, collectionID, tokenID string, price models.Price) (*models.CollectionItem, error) {
	entry, err := s.entry(collectionID)
	if err != nil {
		return nil, err
	}
	if tokenID == "" {
		return nil, ErrInvalidTokenID
	}

	now := s.now()

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if pos, ok := entry.index[tokenID]; ok {
		entry.items[pos].Price = price
		entry.items[pos].UpdatedAt = now
		entry.collection.UpdatedAt = now
		item := entry.items[pos]
		return &item, nil
	}

	item := entry.insertLocked(s.allocItemID(), tokenID, price, now)
	return &item, nil
}

func (s *MemoryStore) AddItemIfAbsent(ctx context.Context, collectionID, tokenID string) (*models.CollectionItem, bool, error) {
	entry, err := s.entry(collectionID)
	if err != nil {
		return nil, false, err
	}
	if tokenID == "" {
		return nil, false, ErrInvalidTokenID
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	if pos, ok := entry.index[tokenID]; ok {
		item := entry.items[pos]
		return &item, false, nil
	}

	item := entry.insertLocked(s.allocItemID(), tokenID, models.ZeroPrice(), s.now())
	return &item, true, nil
}

func (s *MemoryStore) RemoveItem(ctx context.Context, collectionID, tokenID string) error {
	entry, err := s.entry(collectionID)
	if err != nil {
		return err
	}

	entry.mu.Lock()
	defer entry.mu.Unlock()

	pos, ok := entry.index[tokenID]
	if !ok {
		return ErrItemNotFound
	}

	// Keep insertion order for listings.
	entry.items = append(entry.items[:pos:pos], entry.items[pos+1:]...)
	delete(entry.index, tokenID)
	for i := pos; i < len(entry.items); i++ {
		entry.index[entry.items[i].TokenID] = i
	}
	entry.collection.UpdatedAt = s.now()

	return nil
}

func (s *MemoryStore) Stats(ctx context.Context, collectionID string) (*models.CollectionStats, error) {
	entry, err := s.entry(collectionID)
	if err != nil {
		return nil, err
	}

	entry.mu.RLock()
	stats := models.ComputeStats(entry.items)
	entry.mu.RUnlock()

	return &stats, nil
}

func (s *MemoryStore) CountItems(ctx context.Context) (int64, error) {
	s.mu.RLock()
	entries := make([]*collectionEntry, 0, len(s.collections))
	for _, entry := range s.collections {
		entries = append(entries, entry)
	}
	s.mu.RUnlock()

	var total int64
	for _, entry := range entries {
		entry.mu.RLock()
		total += int64(len(entry.items))
		entry.mu.RUnlock()
	}
	return total, nil
}

func (s *MemoryStore) entry(id string) (*collectionEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.collections[id]
	if !ok {
		return nil, ErrCollectionNotFound
	}
	return entry, nil
}

func (s *MemoryStore) allocItemID() uint {
	return uint(s.nextItemID.Add(1))
}
