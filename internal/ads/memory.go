package ads

import (
	"context"
	"fmt"
	"sync"
	"time"

	"souq-auctions/internal/auctionerrors"
	model "souq-auctions/internal/models"
)

// MemoryDirectory is a concurrency-safe in-memory Directory, used by tests
// and by the server's dev mode.
type MemoryDirectory struct {
	mu  sync.RWMutex
	ads map[string]model.Ad
}

// NewMemoryDirectory creates a new in-memory directory instance
func NewMemoryDirectory() *MemoryDirectory {
	return &MemoryDirectory{ads: make(map[string]model.Ad)}
}

// AddAd registers an ad. Intended for seeding and tests.
func (d *MemoryDirectory) AddAd(ad model.Ad) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.ads[ad.AdID] = ad
}

// GetAd returns the ad with the given id.
func (d *MemoryDirectory) GetAd(_ context.Context, adID string) (model.Ad, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	ad, ok := d.ads[adID]
	if !ok {
		return model.Ad{}, fmt.Errorf("get ad %s: %w", adID, auctionerrors.ErrAdNotFound)
	}
	return ad, nil
}

// SetAdStatus updates the publication status of an ad.
func (d *MemoryDirectory) SetAdStatus(_ context.Context, adID string, status model.AdStatus, at time.Time) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	ad, ok := d.ads[adID]
	if !ok {
		return fmt.Errorf("set status for ad %s: %w", adID, auctionerrors.ErrAdNotFound)
	}
	ad.Status = status
	ad.StatusChangedAt = at
	d.ads[adID] = ad
	return nil
}
