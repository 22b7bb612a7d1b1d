package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"souq-auctions/internal/auctionerrors"
)

func newGormStore(t *testing.T) *GormStore {
	t.Helper()
	db, err := OpenSQLite(":memory:")
	require.NoError(t, err)
	require.NoError(t, AutoMigrate(db))
	return NewGormStore(db)
}

func TestGormStore_CreateAuction_DuplicateAd(t *testing.T) {
	ctx := context.Background()
	store := newGormStore(t)

	first := newAuction("auction1", "ad1", time.Hour)
	require.NoError(t, store.CreateAuction(ctx, first))

	// A second auction for the same ad trips the unique index on ad_id and
	// must surface as the duplicate-auction error, not a raw driver error.
	second := newAuction("auction2", "ad1", time.Hour)
	err := store.CreateAuction(ctx, second)
	require.Error(t, err)
	require.True(t, errors.Is(err, auctionerrors.ErrDuplicateAuction), "got: %v", err)
}

func TestGormStore_UpdateAuction_VersionGuard(t *testing.T) {
	ctx := context.Background()
	store := newGormStore(t)

	auction := newAuction("auction1", "ad1", time.Hour)
	require.NoError(t, store.CreateAuction(ctx, auction))

	stored, err := store.GetAuction(ctx, "auction1")
	require.NoError(t, err)

	stored.BidCount = 1
	require.NoError(t, store.UpdateAuction(ctx, stored))

	// The same snapshot again carries a stale version.
	err = store.UpdateAuction(ctx, stored)
	require.Error(t, err)
	require.True(t, errors.Is(err, auctionerrors.ErrConflict), "got: %v", err)

	missing := newAuction("ghost", "ad9", time.Hour)
	err = store.UpdateAuction(ctx, missing)
	require.True(t, errors.Is(err, auctionerrors.ErrAuctionNotFound), "got: %v", err)
}

func TestGormStore_RecordBid_Atomic(t *testing.T) {
	ctx := context.Background()
	store := newGormStore(t)

	auction := newAuction("auction1", "ad1", time.Hour)
	require.NoError(t, store.CreateAuction(ctx, auction))

	stored, err := store.GetAuction(ctx, "auction1")
	require.NoError(t, err)

	now := time.Now().UTC()
	price := decimal.NewFromInt(10100)
	stored.LastPrice = &price
	stored.BidCount = 1
	stored.UpdatedAt = now
	require.NoError(t, store.RecordBid(ctx, stored, newBid("bid1", "auction1", "user1", 10100, now)))

	// A stale auction snapshot must keep the bid out of the table too.
	err = store.RecordBid(ctx, stored, newBid("bid2", "auction1", "user2", 10200, now))
	require.True(t, errors.Is(err, auctionerrors.ErrConflict), "got: %v", err)

	bids, err := store.ListBids(ctx, "auction1")
	require.NoError(t, err)
	require.Len(t, bids, 1)
	require.Equal(t, "bid1", bids[0].BidID)
}
