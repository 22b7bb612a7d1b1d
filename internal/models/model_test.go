package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// Test MinimumNextBid
func TestAuction_MinimumNextBid(t *testing.T) {
	t.Parallel()

	last := dec(10000)

	tests := []struct {
		name     string
		auction  Auction
		expected decimal.Decimal
	}{
		{
			name:     "no_bids_start_above_increment",
			auction:  Auction{StartPrice: dec(10000), MinIncrement: dec(100)},
			expected: dec(10000),
		},
		{
			name:     "no_bids_increment_above_start",
			auction:  Auction{StartPrice: dec(50), MinIncrement: dec(100)},
			expected: dec(100),
		},
		{
			name:     "no_bids_start_equals_increment",
			auction:  Auction{StartPrice: dec(100), MinIncrement: dec(100)},
			expected: dec(100),
		},
		{
			name:     "with_last_price",
			auction:  Auction{StartPrice: dec(10000), LastPrice: &last, MinIncrement: dec(100)},
			expected: dec(10100),
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.True(t, tc.auction.MinimumNextBid().Equal(tc.expected),
				"expected %s, got %s", tc.expected, tc.auction.MinimumNextBid())
		})
	}
}

// Test timing helpers around the end boundary
func TestAuction_Timing(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(24 * time.Hour)
	a := Auction{StartTime: start, EndTime: end, AntiSnipeWindowSec: 300}

	require.False(t, a.HasStarted(start.Add(-time.Second)))
	require.True(t, a.HasStarted(start))

	require.False(t, a.HasEnded(end.Add(-time.Second)))
	require.True(t, a.HasEnded(end), "the end instant itself counts as ended")
	require.True(t, a.HasEnded(end.Add(time.Second)))
}

// Test InAntiSnipeWindow boundaries
func TestAuction_InAntiSnipeWindow(t *testing.T) {
	t.Parallel()

	end := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	a := Auction{EndTime: end, AntiSnipeWindowSec: 300}

	tests := []struct {
		name   string
		now    time.Time
		inside bool
	}{
		{name: "well_before_window", now: end.Add(-time.Hour), inside: false},
		{name: "just_outside_window", now: end.Add(-301 * time.Second), inside: false},
		{name: "exactly_at_window_edge", now: end.Add(-300 * time.Second), inside: true},
		{name: "inside_window", now: end.Add(-4 * time.Minute), inside: true},
		{name: "one_second_left", now: end.Add(-time.Second), inside: true},
		{name: "at_end_time", now: end, inside: false},
		{name: "after_end_time", now: end.Add(time.Second), inside: false},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, tc.inside, a.InAntiSnipeWindow(tc.now))
		})
	}
}

// Test ReserveMetBy
func TestAuction_ReserveMetBy(t *testing.T) {
	t.Parallel()

	reserve := dec(15000)

	noReserve := Auction{}
	require.True(t, noReserve.ReserveMetBy(dec(1)))

	withReserve := Auction{ReservePrice: &reserve}
	require.False(t, withReserve.ReserveMetBy(dec(14999)))
	require.True(t, withReserve.ReserveMetBy(dec(15000)), "reserve equal to bid counts as met")
	require.True(t, withReserve.ReserveMetBy(dec(20000)))
}

// Test terminal states
func TestAuction_IsTerminal(t *testing.T) {
	t.Parallel()

	require.False(t, (&Auction{Status: AuctionActive}).IsTerminal())
	require.True(t, (&Auction{Status: AuctionClosed}).IsTerminal())
	require.True(t, (&Auction{Status: AuctionCancelled}).IsTerminal())
}
