//go:build integration

package store

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/gorm"

	"github.com/javajoker/nft-marketplace/internal/config"
	"github.com/javajoker/nft-marketplace/internal/database"
	"github.com/javajoker/nft-marketplace/internal/models"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "nft_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	db, err := database.Initialize(config.DatabaseConfig{
		Host:         host,
		Port:         port.Port(),
		User:         "test",
		Password:     "test",
		Database:     "nft_test",
		SSLMode:      "disable",
		MaxOpenConns: 10,
		MaxIdleConns: 5,
		MaxLifetime:  60,
		LogLevel:     "silent",
	})
	require.NoError(t, err)
	t.Cleanup(func() { database.Close(db) })

	require.NoError(t, database.RunMigrations(db))
	return db
}

func TestGormStore_Integration(t *testing.T) {
	db := setupTestDB(t)
	s := NewGormStore(db)
	records := NewGormRecordStore(db)
	ctx := context.Background()

	t.Run("empty collection encodes items as array", func(t *testing.T) {
		c, err := s.CreateCollection(ctx, NewCollection{Name: "Empty"})
		require.NoError(t, err)

		got, err := s.GetCollection(ctx, c.ID)
		require.NoError(t, err)
		data, err := json.Marshal(got)
		require.NoError(t, err)
		assert.Contains(t, string(data), `"items":[]`)

		page, _, err := s.ListCollections(ctx, ListOptions{})
		require.NoError(t, err)
		for _, listed := range page {
			assert.NotNil(t, listed.Items, listed.ID)
		}
	})

	t.Run("collections and big prices", func(t *testing.T) {
		c, err := s.CreateCollection(ctx, NewCollection{Name: "Punks"})
		require.NoError(t, err)

		_, err = s.AddItem(ctx, c.ID, "a", models.MustParsePrice("340282366920938463463374607431768211456"))
		require.NoError(t, err)
		_, err = s.AddItem(ctx, c.ID, "b", models.MustParsePrice("1000000000000000000"))
		require.NoError(t, err)
		_, err = s.AddItem(ctx, c.ID, "c", models.ZeroPrice())
		require.NoError(t, err)
		_, err = s.AddItem(ctx, c.ID, "b", models.MustParsePrice("2000000000000000000"))
		require.NoError(t, err)

		stats, err := s.Stats(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, stats.Total)
		assert.Equal(t, 2, stats.Listed)
		assert.Equal(t, "2000000000000000000", stats.FloorPrice.String())
		assert.Equal(t, "340282366920938463465374607431768211456", stats.Volume.String())

		got, err := s.GetCollection(ctx, c.ID)
		require.NoError(t, err)
		require.Len(t, got.Items, 3)
		assert.Equal(t, "a", got.Items[0].TokenID)

		require.NoError(t, s.RemoveItem(ctx, c.ID, "b"))
		assert.ErrorIs(t, s.RemoveItem(ctx, c.ID, "b"), ErrItemNotFound)

		_, err = s.AddItem(ctx, "missing", "a", models.ZeroPrice())
		assert.ErrorIs(t, err, ErrCollectionNotFound)
		_, err = s.Stats(ctx, "missing")
		assert.ErrorIs(t, err, ErrCollectionNotFound)
	})

	t.Run("concurrent upsert of one token", func(t *testing.T) {
		c, err := s.CreateCollection(ctx, NewCollection{Name: "Race"})
		require.NoError(t, err)

		var wg sync.WaitGroup
		for i := 1; i <= 10; i++ {
			wg.Add(1)
			go func(n int) {
				defer wg.Done()
				_, err := s.AddItem(ctx, c.ID, "same", models.MustParsePrice(fmt.Sprint(n)))
				assert.NoError(t, err)
			}(i)
		}
		wg.Wait()

		stats, err := s.Stats(ctx, c.ID)
		require.NoError(t, err)
		assert.Equal(t, 1, stats.Total)
	})

	t.Run("live mint per token", func(t *testing.T) {
		first := &models.MintRecord{ID: "mint_a", TokenID: "tok-1", Owner: "anonymous"}
		require.NoError(t, records.CreateMint(ctx, first))

		err := records.CreateMint(ctx, &models.MintRecord{ID: "mint_b", TokenID: "tok-1", Owner: "anonymous"})
		assert.ErrorIs(t, err, ErrTokenAlreadyMinted)

		first.Status = models.MintStatusFailed
		first.FailureReason = "rpc down"
		require.NoError(t, records.UpdateMint(ctx, first))
		require.NoError(t, records.CreateMint(ctx, &models.MintRecord{ID: "mint_c", TokenID: "tok-1", Owner: "anonymous"}))

		got, err := records.GetMint(ctx, "mint_a")
		require.NoError(t, err)
		assert.Equal(t, models.MintStatusFailed, got.Status)
		assert.Equal(t, "rpc down", got.FailureReason)

		_, err = records.GetMint(ctx, "nope")
		assert.ErrorIs(t, err, ErrMintNotFound)
	})

	t.Run("listings", func(t *testing.T) {
		listing := &models.ListingRecord{
			ID:        "listing_a",
			TokenID:   "tok-1",
			Price:     "1.5",
			Currency:  "ETH",
			BaseUnits: models.MustParsePrice("1500000000000000000"),
			Seller:    "anonymous",
		}
		require.NoError(t, records.CreateListing(ctx, listing))

		got, err := records.GetListing(ctx, "listing_a")
		require.NoError(t, err)
		assert.Equal(t, "1500000000000000000", got.BaseUnits.String())
		assert.Equal(t, models.ListingStatusActive, got.Status)

		count, err := records.CountListings(ctx)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)

		require.NoError(t, records.UpdateListingStatus(ctx, "listing_a", models.ListingStatusCancelled))
		got, err = records.GetListing(ctx, "listing_a")
		require.NoError(t, err)
		assert.Equal(t, models.ListingStatusCancelled, got.Status)
		assert.ErrorIs(t, records.UpdateListingStatus(ctx, "listing_missing", models.ListingStatusCancelled), ErrListingNotFound)
	})
}
