package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/javajoker/nft-marketplace/internal/config"
	"github.com/javajoker/nft-marketplace/internal/models"
	"github.com/javajoker/nft-marketplace/internal/store"
)

type NFTServiceTestSuite struct {
	suite.Suite
	collections *store.MemoryStore
	records     *store.MemoryRecordStore
	minter      *mockMinter
	service     *NFTService
	ctx         context.Context
}

func (suite *NFTServiceTestSuite) SetupTest() {
	suite.collections = store.NewMemoryStore()
	suite.records = store.NewMemoryRecordStore()
	suite.minter = new(mockMinter)
	storage, err := NewStorageService(config.AWSConfig{MetadataPrefix: "metadata"})
	suite.Require().NoError(err)
	suite.service = NewNFTService(suite.collections, suite.records, storage, suite.minter)
	suite.ctx = context.Background()
}

func (suite *NFTServiceTestSuite) newCollection() *models.Collection {
	c, err := suite.collections.CreateCollection(suite.ctx, store.NewCollection{Name: "Apes", MintAddress: "0xcoll"})
	suite.Require().NoError(err)
	return c
}

func (suite *NFTServiceTestSuite) TestMint_Success() {
	c := suite.newCollection()
	suite.minter.On("MintNFT", mock.Anything, mock.MatchedBy(func(p MintParams) bool {
		return p.TokenID == "tok-1" && p.CollectionMint == "0xcoll" && p.Owner == "alice" && p.MetadataURI != ""
	})).Return("0xnft", nil)

	record, err := suite.service.Mint(suite.ctx, "alice", &MintNFTRequest{
		TokenID:      "tok-1",
		CollectionID: c.ID,
		Metadata:     map[string]interface{}{"name": "Ape"},
	})
	suite.Require().NoError(err)
	suite.Equal(models.MintStatusMinted, record.Status)
	suite.Equal("0xnft", record.Address)
	suite.NotNil(record.MintedAt)
	suite.Regexp(`^mint_\d+_[a-z0-9]{9}$`, record.ID)

	stored, err := suite.service.GetMint(suite.ctx, record.ID)
	suite.Require().NoError(err)
	suite.Equal(models.MintStatusMinted, stored.Status)

	stats, err := suite.collections.Stats(suite.ctx, c.ID)
	suite.Require().NoError(err)
	suite.Equal(1, stats.Total)
	suite.Equal(0, stats.Listed)
}

func (suite *NFTServiceTestSuite) TestMint_KeepsExistingItemPrice() {
	c := suite.newCollection()
	_, err := suite.collections.AddItem(suite.ctx, c.ID, "tok-1", models.MustParsePrice("9"))
	suite.Require().NoError(err)
	suite.minter.On("MintNFT", mock.Anything, mock.Anything).Return("0xnft", nil)

	_, err = suite.service.Mint(suite.ctx, "alice", &MintNFTRequest{TokenID: "tok-1", CollectionID: c.ID})
	suite.Require().NoError(err)

	stats, err := suite.collections.Stats(suite.ctx, c.ID)
	suite.Require().NoError(err)
	suite.Equal("9", stats.FloorPrice.String())
}

func (suite *NFTServiceTestSuite) TestMint_FailureMarksRecordAndAllowsRetry() {
	suite.minter.On("MintNFT", mock.Anything, mock.Anything).Return("", errors.New("signer offline")).Once()
	suite.minter.On("MintNFT", mock.Anything, mock.Anything).Return("0xnft", nil).Once()

	_, err := suite.service.Mint(suite.ctx, "alice", &MintNFTRequest{TokenID: "tok-2"})
	suite.ErrorIs(err, ErrMinterUnavailable)

	record, err := suite.service.Mint(suite.ctx, "alice", &MintNFTRequest{TokenID: "tok-2"})
	suite.Require().NoError(err)
	suite.Equal(models.MintStatusMinted, record.Status)

	count, err := suite.records.CountMints(suite.ctx)
	suite.Require().NoError(err)
	suite.EqualValues(2, count)
}

func (suite *NFTServiceTestSuite) TestMint_RejectsSecondLiveMint() {
	suite.minter.On("MintNFT", mock.Anything, mock.Anything).Return("0xnft", nil).Once()

	_, err := suite.service.Mint(suite.ctx, "alice", &MintNFTRequest{TokenID: "tok-3"})
	suite.Require().NoError(err)

	_, err = suite.service.Mint(suite.ctx, "bob", &MintNFTRequest{TokenID: "tok-3"})
	suite.ErrorIs(err, store.ErrTokenAlreadyMinted)
	suite.minter.AssertNumberOfCalls(suite.T(), "MintNFT", 1)
}

func (suite *NFTServiceTestSuite) TestMint_UnknownCollection() {
	_, err := suite.service.Mint(suite.ctx, "alice", &MintNFTRequest{TokenID: "tok-4", CollectionID: "missing"})
	suite.ErrorIs(err, store.ErrCollectionNotFound)
	suite.minter.AssertNotCalled(suite.T(), "MintNFT", mock.Anything, mock.Anything)
}

func (suite *NFTServiceTestSuite) TestList_PricesCollectionItem() {
	c := suite.newCollection()

	record, err := suite.service.List(suite.ctx, "alice", &ListNFTRequest{
		TokenID:      "tok-1",
		Price:        "1.5",
		CollectionID: c.ID,
	})
	suite.Require().NoError(err)
	suite.Equal(models.ListingStatusActive, record.Status)
	suite.Equal("ETH", record.Currency)
	suite.Equal("1500000000000000000", record.BaseUnits.String())
	suite.Regexp(`^listing_\d+_[a-z0-9]{9}$`, record.ID)

	stats, err := suite.collections.Stats(suite.ctx, c.ID)
	suite.Require().NoError(err)
	suite.Equal(1, stats.Listed)
	suite.Equal("1500000000000000000", stats.FloorPrice.String())
}

func (suite *NFTServiceTestSuite) TestList_Invalid() {
	past := time.Now().Add(-time.Hour)
	cases := []*ListNFTRequest{
		{TokenID: "t", Price: "0"},
		{TokenID: "t", Price: "-1"},
		{TokenID: "t", Price: "abc"},
		{TokenID: "t", Price: "0.0000001", Currency: "USDC"},
		{TokenID: "t", Price: "1", ExpiresAt: &past},
		{TokenID: "t", Price: "1", Currency: "DOGE"},
	}
	for _, req := range cases {
		_, err := suite.service.List(suite.ctx, "alice", req)
		suite.ErrorIs(err, ErrInvalidListing, "%+v", req)
	}

	count, err := suite.records.CountListings(suite.ctx)
	suite.Require().NoError(err)
	suite.Zero(count)

	_, err = suite.service.List(suite.ctx, "alice", &ListNFTRequest{TokenID: "t", Price: "1", CollectionID: "missing"})
	suite.ErrorIs(err, store.ErrCollectionNotFound)
}

func (suite *NFTServiceTestSuite) TestList_CancelsListingWhenItemUpdateFails() {
	c := suite.newCollection()
	items := &failingItemStore{MemoryStore: suite.collections, err: errors.New("disk full")}
	records := &recordingRecordStore{MemoryRecordStore: suite.records}
	storage, err := NewStorageService(config.AWSConfig{})
	suite.Require().NoError(err)
	service := NewNFTService(items, records, storage, suite.minter)

	_, err = service.List(suite.ctx, "alice", &ListNFTRequest{TokenID: "tok-1", Price: "1", CollectionID: c.ID})
	suite.Require().Error(err)
	suite.NotErrorIs(err, ErrInvalidListing)
	suite.Require().NotEmpty(records.lastListingID)

	listing, err := suite.records.GetListing(suite.ctx, records.lastListingID)
	suite.Require().NoError(err)
	suite.Equal(models.ListingStatusCancelled, listing.Status)

	stats, err := suite.collections.Stats(suite.ctx, c.ID)
	suite.Require().NoError(err)
	suite.Zero(stats.Total)
}

func (suite *NFTServiceTestSuite) TestGetListing_ReportsExpiry() {
	expires := time.Now().Add(time.Hour)
	record, err := suite.service.List(suite.ctx, "alice", &ListNFTRequest{TokenID: "t", Price: "2", ExpiresAt: &expires})
	suite.Require().NoError(err)

	suite.service.now = func() time.Time { return expires.Add(time.Second) }
	got, err := suite.service.GetListing(suite.ctx, record.ID)
	suite.Require().NoError(err)
	suite.Equal(models.ListingStatusExpired, got.Status)

	_, err = suite.service.GetListing(suite.ctx, "nope")
	suite.ErrorIs(err, store.ErrListingNotFound)
}

func TestNFTServiceSuite(t *testing.T) {
	suite.Run(t, new(NFTServiceTestSuite))
}

func TestToBaseUnits(t *testing.T) {
	cases := []struct {
		amount, currency, want string
	}{
		{"1.5", "ETH", "1500000000000000000"},
		{"0.000000000000000001", "ETH", "1"},
		{"2", "SOL", "2000000000"},
		{"10.25", "USDC", "10250000"},
		{"123456789012345678901234567890", "MATIC", "123456789012345678901234567890000000000000000000"},
	}
	for _, tc := range cases {
		got, err := ToBaseUnits(tc.amount, tc.currency)
		require.NoError(t, err, tc.amount)
		assert.Equal(t, tc.want, got.String(), tc.amount)
	}

	_, err := ToBaseUnits("0.0000000001", "SOL")
	assert.ErrorIs(t, err, ErrInvalidListing)

	for _, amount := range []string{"1e30", "1E5", "1e2000000000", "1.5e-3", "+1", "-1", ".5", "1.", " 1", "0", "0.000",
		"12345678901234567890123456789012345678901"} {
		_, err := ToBaseUnits(amount, "ETH")
		assert.ErrorIs(t, err, ErrInvalidListing, amount)
	}

	got, err := ToBaseUnits("1234567890123456789012345678901234567890.5", "ETH")
	require.NoError(t, err)
	assert.Equal(t, "1234567890123456789012345678901234567890500000000000000000", got.String())
}
