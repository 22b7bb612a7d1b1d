package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"souq-auctions/internal/auctionerrors"
	model "souq-auctions/internal/models"
)

// GormStore is the SQLite-backed implementation of AuctionStore. Optimistic
// writes are expressed as UPDATE ... WHERE version = ?; zero affected rows
// means another writer got there first.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore creates a store over an opened gorm handle.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// CreateAuction inserts a new auction row; the unique index on ad_id
// enforces at most one auction per ad.
func (s *GormStore) CreateAuction(ctx context.Context, auction model.Auction) error {
	err := s.db.WithContext(ctx).Create(&auction).Error
	if err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return fmt.Errorf("create auction for ad %s: %w", auction.AdID, auctionerrors.ErrDuplicateAuction)
		}
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, err)
	}
	return nil
}

// GetAuction returns the auction with the given id.
func (s *GormStore) GetAuction(ctx context.Context, auctionID string) (model.Auction, error) {
	var auction model.Auction
	err := s.db.WithContext(ctx).First(&auction, "auction_id = ?", auctionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
		}
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// UpdateAuction writes back a mutated auction, guarded by its read version.
func (s *GormStore) UpdateAuction(ctx context.Context, auction model.Auction) error {
	return s.casAuction(s.db.WithContext(ctx), auction)
}

// RecordBid applies the auction summary update and the bid insert in one
// transaction.
func (s *GormStore) RecordBid(ctx context.Context, auction model.Auction, bid model.Bid) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.casAuction(tx, auction); err != nil {
			return err
		}
		if err := tx.Create(&bid).Error; err != nil {
			return fmt.Errorf("record bid %s: %w", bid.BidID, err)
		}
		return nil
	})
}

// casAuction issues the version-guarded update and maps a missed guard to
// either not-found or conflict.
func (s *GormStore) casAuction(tx *gorm.DB, auction model.Auction) error {
	res := tx.Model(&model.Auction{}).
		Where("auction_id = ? AND version = ?", auction.AuctionID, auction.Version).
		Updates(map[string]any{
			"last_price":     auction.LastPrice,
			"bid_count":      auction.BidCount,
			"end_time":       auction.EndTime,
			"winner_user_id": auction.WinnerUserID,
			"status":         auction.Status,
			"updated_at":     auction.UpdatedAt,
			"version":        auction.Version + 1,
		})
	if res.Error != nil {
		return fmt.Errorf("update auction %s: %w", auction.AuctionID, res.Error)
	}
	if res.RowsAffected == 0 {
		var count int64
		s.db.Model(&model.Auction{}).Where("auction_id = ?", auction.AuctionID).Count(&count)
		if count == 0 {
			return fmt.Errorf("update auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionNotFound)
		}
		return fmt.Errorf("update auction %s: %w", auction.AuctionID, auctionerrors.ErrConflict)
	}
	return nil
}

// GetBid returns one bid of an auction.
func (s *GormStore) GetBid(ctx context.Context, auctionID, bidID string) (model.Bid, error) {
	var bid model.Bid
	err := s.db.WithContext(ctx).First(&bid, "auction_id = ? AND bid_id = ?", auctionID, bidID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Bid{}, fmt.Errorf("get bid %s for auction %s: %w", bidID, auctionID, auctionerrors.ErrBidNotFound)
		}
		return model.Bid{}, fmt.Errorf("get bid %s: %w", bidID, err)
	}
	return bid, nil
}

// UpdateBid persists the withdrawal flags of a bid. Nothing else on a bid
// row is ever updated.
func (s *GormStore) UpdateBid(ctx context.Context, bid model.Bid) error {
	res := s.db.WithContext(ctx).Model(&model.Bid{}).
		Where("bid_id = ?", bid.BidID).
		Updates(map[string]any{
			"status":       bid.Status,
			"withdrawn_at": bid.WithdrawnAt,
		})
	if res.Error != nil {
		return fmt.Errorf("update bid %s: %w", bid.BidID, res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("update bid %s: %w", bid.BidID, auctionerrors.ErrBidNotFound)
	}
	return nil
}

// ListBids returns all bids for an auction in creation order.
func (s *GormStore) ListBids(ctx context.Context, auctionID string) ([]model.Bid, error) {
	if _, err := s.GetAuction(ctx, auctionID); err != nil {
		return nil, err
	}
	var bids []model.Bid
	err := s.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("created_at ASC").
		Find(&bids).Error
	if err != nil {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}

// HighestBid returns the bid with the maximum price for an auction,
// irrespective of withdrawal status. Ties go to the earliest bid.
func (s *GormStore) HighestBid(ctx context.Context, auctionID string) (model.Bid, error) {
	var bid model.Bid
	err := s.db.WithContext(ctx).
		Where("auction_id = ?", auctionID).
		Order("price DESC, created_at ASC").
		First(&bid).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return model.Bid{}, fmt.Errorf("get highest bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
		}
		return model.Bid{}, fmt.Errorf("get highest bid for auction %s: %w", auctionID, err)
	}
	return bid, nil
}

// DueAuctions returns active auto-close auctions whose end time has passed.
func (s *GormStore) DueAuctions(ctx context.Context, now time.Time) ([]model.Auction, error) {
	var due []model.Auction
	err := s.db.WithContext(ctx).
		Where("status = ? AND auto_close = ? AND end_time <= ?", model.AuctionActive, true, now).
		Order("end_time ASC").
		Find(&due).Error
	if err != nil {
		return nil, fmt.Errorf("select due auctions: %w", err)
	}
	return due, nil
}
