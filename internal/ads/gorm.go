package ads

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"souq-auctions/internal/auctionerrors"
	model "souq-auctions/internal/models"
)

// GormDirectory is the SQLite-backed Directory implementation. It shares the
// database handle with the auction store.
type GormDirectory struct {
	db *gorm.DB
}

// NewGormDirectory creates a directory over an opened gorm handle.
func NewGormDirectory(db *gorm.DB) *GormDirectory {
	return &GormDirectory{db: db}
}

// GetAd returns the ad with the given id.
func (d *GormDirectory) GetAd(ctx context.Context, adID string) (model.Ad, error) {
	var ad model.Ad
	err := d.db.WithContext(ctx).First(&ad, "ad_id = ?", adID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Ad{}, fmt.Errorf("get ad %s: %w", adID, auctionerrors.ErrAdNotFound)
		}
		return model.Ad{}, fmt.Errorf("get ad %s: %w", adID, err)
	}
	return ad, nil
}

// SetAdStatus updates the publication status of an ad.
func (d *GormDirectory) SetAdStatus(ctx context.Context, adID string, status model.AdStatus, at time.Time) error {
	res := d.db.WithContext(ctx).Model(&model.Ad{}).
		Where("ad_id = ?", adID).
		Updates(map[string]any{
			"status":            status,
			"status_changed_at": at,
		})
	if res.Error != nil {
		return fmt.Errorf("set status for ad %s: %w", adID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("set status for ad %s: %w", adID, auctionerrors.ErrAdNotFound)
	}
	return nil
}

// SeedAd inserts an ad row if it does not exist yet. Intended for dev setups.
func (d *GormDirectory) SeedAd(ctx context.Context, ad model.Ad) error {
	return d.db.WithContext(ctx).FirstOrCreate(&ad, model.Ad{AdID: ad.AdID}).Error
}
