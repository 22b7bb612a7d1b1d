// Package scheduler drives the periodic auto-close sweep: it discovers
// auctions whose end time has passed, fans them out over a bounded worker
// pool, and closes each one inside its own failure boundary so a single
// conflicting auction never aborts the batch.
package scheduler

import (
	"context"
	"sort"
	"sync"
	"time"

	auction "souq-auctions/internal/auctionService"
	"souq-auctions/internal/models"
	"souq-auctions/utils"
)

// DueSource yields the auctions eligible for automatic closing at an instant.
type DueSource interface {
	DueAuctions(ctx context.Context, now time.Time) ([]models.Auction, error)
}

// AuctionCloser is the slice of the auction service the sweep needs.
type AuctionCloser interface {
	CloseAuction(ctx context.Context, auctionID, requesterID string, privileged bool) (auction.ClosingResult, error)
}

// ItemResult records the outcome for one auction in a sweep.
type ItemResult struct {
	AuctionID    string  `json:"auction_id"`
	WinnerUserID *string `json:"winner_user_id,omitempty"`
	ReserveMet   bool    `json:"reserve_met"`
	Message      string  `json:"message,omitempty"`
	Error        string  `json:"error,omitempty"`
}

// Summary aggregates one sweep run.
type Summary struct {
	DryRun      bool         `json:"dry_run"`
	ClosedCount int          `json:"closed_count"`
	FailedCount int          `json:"failed_count"`
	Details     []ItemResult `json:"details"`
}

// Failed reports whether any auction in the run failed to close.
func (s Summary) Failed() bool {
	return s.FailedCount > 0
}

// AutoCloser is the periodic batch process closing due auctions.
type AutoCloser struct {
	due      DueSource
	closer   AuctionCloser
	clock    auction.Clock
	interval time.Duration
	workers  int
}

// NewAutoCloser creates a sweep over the given sources. A nil clock selects
// the system clock; workers below 1 are clamped to 1.
func NewAutoCloser(due DueSource, closer AuctionCloser, clock auction.Clock, interval time.Duration, workers int) *AutoCloser {
	if clock == nil {
		clock = auction.SystemClock{}
	}
	if workers < 1 {
		workers = 1
	}
	return &AutoCloser{
		due:      due,
		closer:   closer,
		clock:    clock,
		interval: interval,
		workers:  workers,
	}
}

// RunOnce performs a single sweep. In dry-run mode it reports the auctions
// that would be closed without mutating anything. The returned error covers
// only the selection query; per-auction failures land in the summary.
func (c *AutoCloser) RunOnce(ctx context.Context, dryRun bool) (Summary, error) {
	now := c.clock.Now()
	due, err := c.due.DueAuctions(ctx, now)
	if err != nil {
		return Summary{DryRun: dryRun}, err
	}

	summary := Summary{DryRun: dryRun, Details: make([]ItemResult, 0, len(due))}

	if dryRun {
		for _, a := range due {
			summary.ClosedCount++
			summary.Details = append(summary.Details, ItemResult{
				AuctionID: a.AuctionID,
				Message:   "would close",
			})
		}
		return summary, nil
	}

	jobs := make(chan models.Auction)
	results := make(chan ItemResult)

	var wg sync.WaitGroup
	for i := 0; i < c.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for a := range jobs {
				results <- c.closeOne(ctx, a)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, a := range due {
			select {
			case jobs <- a:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	for r := range results {
		if r.Error != "" {
			summary.FailedCount++
		} else {
			summary.ClosedCount++
		}
		summary.Details = append(summary.Details, r)
	}

	sort.Slice(summary.Details, func(i, j int) bool {
		return summary.Details[i].AuctionID < summary.Details[j].AuctionID
	})
	return summary, nil
}

// closeOne closes a single auction, capturing its failure locally. The
// scheduler acts as a privileged caller, the same way a manual admin close
// would.
func (c *AutoCloser) closeOne(ctx context.Context, a models.Auction) ItemResult {
	result, err := c.closer.CloseAuction(ctx, a.AuctionID, "", true)
	if err != nil {
		return ItemResult{AuctionID: a.AuctionID, Error: err.Error()}
	}
	return ItemResult{
		AuctionID:    a.AuctionID,
		WinnerUserID: result.WinnerUserID,
		ReserveMet:   result.ReserveMet,
		Message:      result.Message,
	}
}

// Run executes sweeps on the configured interval until the context is
// cancelled. Each run's summary is logged; failures are surfaced at warn
// level for operational alerting.
func (c *AutoCloser) Run(ctx context.Context) {
	ticker := time.NewTicker(c.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			summary, err := c.RunOnce(ctx, false)
			if err != nil {
				utils.Error("auto-close sweep selection failed", map[string]any{"error": err.Error()})
				continue
			}
			if len(summary.Details) == 0 {
				continue
			}
			fields := map[string]any{
				"closed": summary.ClosedCount,
				"failed": summary.FailedCount,
			}
			if summary.Failed() {
				utils.Warn("auto-close sweep finished with failures", fields)
			} else {
				utils.Info("auto-close sweep finished", fields)
			}
		}
	}
}
