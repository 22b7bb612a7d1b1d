package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	auction "souq-auctions/internal/auctionService"
	"souq-auctions/internal/auctionerrors"
	"souq-auctions/internal/models"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time { return c.now }

var testNow = time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

type stubDue struct {
	auctions []models.Auction
	err      error
}

func (s *stubDue) DueAuctions(_ context.Context, _ time.Time) ([]models.Auction, error) {
	return s.auctions, s.err
}

// stubCloser closes every auction except the ones listed in fail, and
// records which auctions it was asked to close.
type stubCloser struct {
	mu     sync.Mutex
	closed []string
	fail   map[string]error
}

func (s *stubCloser) CloseAuction(_ context.Context, auctionID, _ string, privileged bool) (auction.ClosingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !privileged {
		return auction.ClosingResult{}, errors.New("sweep must close as privileged")
	}
	if err, ok := s.fail[auctionID]; ok {
		return auction.ClosingResult{}, err
	}
	s.closed = append(s.closed, auctionID)
	winner := "user1"
	return auction.ClosingResult{
		AuctionID:    auctionID,
		WinnerUserID: &winner,
		ReserveMet:   true,
		Message:      "auction closed, won at 20000",
	}, nil
}

func dueAuction(id string) models.Auction {
	return models.Auction{
		AuctionID:  id,
		AdID:       "ad-" + id,
		StartPrice: decimal.NewFromInt(10000),
		StartTime:  testNow.Add(-48 * time.Hour),
		EndTime:    testNow.Add(-time.Hour),
		Status:     models.AuctionActive,
		AutoClose:  true,
	}
}

func TestAutoCloser_RunOnce(t *testing.T) {
	t.Parallel()

	due := &stubDue{auctions: []models.Auction{
		dueAuction("auction1"),
		dueAuction("auction2"),
		dueAuction("auction3"),
	}}
	closer := &stubCloser{fail: map[string]error{
		"auction2": fmt.Errorf("service: failed to close auction auction2: %w", auctionerrors.ErrConflict),
	}}

	sweep := NewAutoCloser(due, closer, &fakeClock{now: testNow}, time.Minute, 4)
	summary, err := sweep.RunOnce(context.Background(), false)
	require.NoError(t, err)

	require.Equal(t, 2, summary.ClosedCount)
	require.Equal(t, 1, summary.FailedCount)
	require.True(t, summary.Failed())
	require.Len(t, summary.Details, 3)

	// Details come back sorted regardless of worker completion order.
	require.Equal(t, "auction1", summary.Details[0].AuctionID)
	require.Equal(t, "auction2", summary.Details[1].AuctionID)
	require.Equal(t, "auction3", summary.Details[2].AuctionID)

	require.Empty(t, summary.Details[0].Error)
	require.NotNil(t, summary.Details[0].WinnerUserID)
	require.Contains(t, summary.Details[1].Error, "concurrent modification")
	require.Empty(t, summary.Details[2].Error)

	// The failing auction never aborted the rest of the batch.
	require.ElementsMatch(t, []string{"auction1", "auction3"}, closer.closed)
}

func TestAutoCloser_RunOnce_DryRun(t *testing.T) {
	t.Parallel()

	due := &stubDue{auctions: []models.Auction{
		dueAuction("auction1"),
		dueAuction("auction2"),
	}}
	closer := &stubCloser{}

	sweep := NewAutoCloser(due, closer, &fakeClock{now: testNow}, time.Minute, 4)
	summary, err := sweep.RunOnce(context.Background(), true)
	require.NoError(t, err)

	require.True(t, summary.DryRun)
	require.Equal(t, 2, summary.ClosedCount)
	require.Equal(t, 0, summary.FailedCount)
	require.Len(t, summary.Details, 2)
	require.Equal(t, "would close", summary.Details[0].Message)

	// Dry run must not touch any auction.
	require.Empty(t, closer.closed)
}

func TestAutoCloser_RunOnce_SelectionError(t *testing.T) {
	t.Parallel()

	due := &stubDue{err: errors.New("db unavailable")}
	sweep := NewAutoCloser(due, &stubCloser{}, &fakeClock{now: testNow}, time.Minute, 4)

	_, err := sweep.RunOnce(context.Background(), false)
	require.Error(t, err)
	require.Contains(t, err.Error(), "db unavailable")
}

func TestAutoCloser_RunOnce_NoDueAuctions(t *testing.T) {
	t.Parallel()

	sweep := NewAutoCloser(&stubDue{}, &stubCloser{}, &fakeClock{now: testNow}, time.Minute, 4)
	summary, err := sweep.RunOnce(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 0, summary.ClosedCount)
	require.Equal(t, 0, summary.FailedCount)
	require.False(t, summary.Failed())
}

func TestAutoCloser_WorkerClamp(t *testing.T) {
	t.Parallel()

	// Zero workers would deadlock the fan-out; the constructor clamps to 1.
	due := &stubDue{auctions: []models.Auction{dueAuction("auction1")}}
	closer := &stubCloser{}
	sweep := NewAutoCloser(due, closer, nil, time.Minute, 0)

	summary, err := sweep.RunOnce(context.Background(), false)
	require.NoError(t, err)
	require.Equal(t, 1, summary.ClosedCount)
}
