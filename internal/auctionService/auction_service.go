// Package auction implements the auction lifecycle and bidding engines:
// bid validation and acceptance with anti-snipe extension, bid withdrawal,
// closing with winner determination, and cancellation. Every mutation of one
// auction runs inside that auction's exclusive section and is written back
// with a version-guarded update, so concurrent callers either serialize here
// or surface ErrConflict from the store.
package auction

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"souq-auctions/internal/ads"
	"souq-auctions/internal/auctionerrors"
	"souq-auctions/internal/models"
	"souq-auctions/internal/repository"
	"souq-auctions/utils"
)

// AuctionService defines the business logic for the auction lifecycle
type AuctionService struct {
	store repository.AuctionStore
	ads   ads.Directory
	clock Clock
	locks *lockKeeper
}

// NewAuctionService creates a new AuctionService instance. A nil clock
// selects the system clock.
func NewAuctionService(store repository.AuctionStore, dir ads.Directory, clock Clock) *AuctionService {
	if clock == nil {
		clock = SystemClock{}
	}
	return &AuctionService{
		store: store,
		ads:   dir,
		clock: clock,
		locks: newLockKeeper(),
	}
}

// BidResult is the outcome of an accepted bid, including whether the
// anti-snipe extension fired so the caller can surface it.
type BidResult struct {
	Bid                models.Bid
	AntiSnipeTriggered bool
	NewEndTime         *time.Time
}

// ClosingResult describes the outcome of closing one auction.
type ClosingResult struct {
	AuctionID    string
	WinnerUserID *string
	WinningBid   *models.Bid
	ReserveMet   bool
	Message      string
}

// CreateAuctionParams carries the creation-time inputs for a new auction.
// Zero values select the documented defaults.
type CreateAuctionParams struct {
	AdID                  string
	StartPrice            decimal.Decimal
	ReservePrice          *decimal.Decimal
	MinIncrement          *decimal.Decimal
	StartTime             time.Time
	EndTime               time.Time
	AntiSnipeWindowSec    int
	AntiSnipeExtensionSec int
	AutoClose             bool
}

// CreateAuction opens an auction for a published ad owned by the caller,
// enforcing the creation-time pricing and timing invariants.
func (s *AuctionService) CreateAuction(ctx context.Context, callerID string, params CreateAuctionParams) (models.Auction, error) {
	if callerID == "" || params.AdID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - missing caller or ad id", auctionerrors.ErrInvalidInput)
	}

	ad, err := s.ads.GetAd(ctx, params.AdID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to resolve ad %s: %w", params.AdID, err)
	}
	if ad.Status != models.AdPublished {
		return models.Auction{}, fmt.Errorf("service: ad %s: %w", params.AdID, auctionerrors.ErrAdNotPublished)
	}
	if callerID != ad.OwnerID {
		return models.Auction{}, fmt.Errorf("service: ad %s: %w", params.AdID, auctionerrors.ErrNotAdOwner)
	}

	now := s.clock.Now()
	auction := models.Auction{
		AuctionID:             utils.NewAuctionID(),
		AdID:                  params.AdID,
		StartPrice:            params.StartPrice,
		ReservePrice:          params.ReservePrice,
		MinIncrement:          models.DefaultMinIncrement,
		StartTime:             params.StartTime,
		EndTime:               params.EndTime,
		AntiSnipeWindowSec:    params.AntiSnipeWindowSec,
		AntiSnipeExtensionSec: params.AntiSnipeExtensionSec,
		Status:                models.AuctionActive,
		AutoClose:             params.AutoClose,
		CreatedAt:             now,
		UpdatedAt:             now,
	}
	if params.MinIncrement != nil {
		auction.MinIncrement = *params.MinIncrement
	}
	if auction.StartTime.IsZero() {
		auction.StartTime = now
	}
	if auction.AntiSnipeWindowSec == 0 {
		auction.AntiSnipeWindowSec = models.DefaultAntiSnipeWindowSec
	}
	if auction.AntiSnipeExtensionSec == 0 {
		auction.AntiSnipeExtensionSec = models.DefaultAntiSnipeExtensionSec
	}

	if err := validateNewAuction(auction); err != nil {
		return models.Auction{}, err
	}

	if err := s.store.CreateAuction(ctx, auction); err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to create auction for ad %s: %w", params.AdID, err)
	}
	return auction, nil
}

// validateNewAuction checks the creation-time invariants from the data model.
func validateNewAuction(a models.Auction) error {
	if a.StartPrice.IsNegative() {
		return fmt.Errorf("service: %w - start price must be >= 0", auctionerrors.ErrInvalidPricing)
	}
	if !a.MinIncrement.IsPositive() {
		return fmt.Errorf("service: %w - minimum bid increment must be > 0", auctionerrors.ErrInvalidPricing)
	}
	if a.ReservePrice != nil && a.ReservePrice.LessThan(a.StartPrice) {
		return fmt.Errorf("service: %w - reserve price must be >= start price", auctionerrors.ErrInvalidPricing)
	}
	if a.AntiSnipeWindowSec < 0 || a.AntiSnipeExtensionSec < 0 {
		return fmt.Errorf("service: %w - anti-snipe window and extension must be >= 0", auctionerrors.ErrInvalidWindow)
	}
	duration := a.EndTime.Sub(a.StartTime)
	if duration <= 0 {
		return fmt.Errorf("service: %w - end time must be after start time", auctionerrors.ErrInvalidWindow)
	}
	if duration < models.MinAuctionDuration || duration > models.MaxAuctionDuration {
		return fmt.Errorf("service: %w - duration must be between %s and %s",
			auctionerrors.ErrInvalidWindow, models.MinAuctionDuration, models.MaxAuctionDuration)
	}
	return nil
}

// PlaceBid validates and records a bid on an auction. Preconditions are
// checked in a fixed order and the first failure wins; nothing is persisted
// on failure. An accepted bid inside the anti-snipe window extends the
// auction's end time by the configured amount, with no cap on how often
// successive late bids may extend it.
func (s *AuctionService) PlaceBid(ctx context.Context, auctionID, bidderID string, price decimal.Decimal, comment string) (BidResult, error) {
	if auctionID == "" || bidderID == "" {
		return BidResult{}, fmt.Errorf("service: %w - missing auctionID or bidderID", auctionerrors.ErrInvalidInput)
	}
	if !price.IsPositive() {
		return BidResult{}, fmt.Errorf("service: %w - non-positive bid price", auctionerrors.ErrInvalidInput)
	}
	if len(comment) > models.MaxBidCommentLen {
		return BidResult{}, fmt.Errorf("service: %w - comment exceeds %d characters", auctionerrors.ErrCommentTooLong, models.MaxBidCommentLen)
	}

	unlock := s.locks.acquire(auctionID)
	defer unlock()

	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return BidResult{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}

	ad, err := s.ads.GetAd(ctx, auction.AdID)
	if err != nil {
		return BidResult{}, fmt.Errorf("service: failed to resolve ad %s: %w", auction.AdID, err)
	}
	if ad.Status != models.AdPublished {
		return BidResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrAdNotPublished)
	}
	if bidderID == ad.OwnerID {
		return BidResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrSelfBid)
	}

	now := s.clock.Now()
	if auction.Status != models.AuctionActive {
		return BidResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrAuctionNotActive)
	}
	if !auction.HasStarted(now) {
		return BidResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrAuctionNotOpen)
	}
	if auction.HasEnded(now) {
		return BidResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrAuctionEnded)
	}
	if auction.WinnerUserID != nil {
		return BidResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrWinnerDecided)
	}

	minNext := auction.MinimumNextBid()
	if price.LessThan(minNext) {
		return BidResult{}, fmt.Errorf("service: %w - minimum next bid is %s (increment %s)",
			auctionerrors.ErrBidTooLow, minNext, auction.MinIncrement)
	}

	bid := models.Bid{
		BidID:     utils.NewBidID(),
		AuctionID: auctionID,
		UserID:    bidderID,
		Price:     price,
		Comment:   comment,
		Status:    models.BidActive,
		CreatedAt: now,
	}

	auction.LastPrice = &price
	auction.BidCount++
	auction.UpdatedAt = now

	result := BidResult{Bid: bid}
	if auction.InAntiSnipeWindow(now) {
		extended := auction.EndTime.Add(time.Duration(auction.AntiSnipeExtensionSec) * time.Second)
		auction.EndTime = extended
		result.AntiSnipeTriggered = true
		result.NewEndTime = &extended
	}

	if err := s.store.RecordBid(ctx, auction, bid); err != nil {
		return BidResult{}, fmt.Errorf("service: failed to record bid on auction %s by user %s: %w", auctionID, bidderID, err)
	}
	return result, nil
}

// WithdrawBid marks a bid as withdrawn on behalf of its bidder. The bid that
// set the auction's current last price can never be withdrawn while the
// auction is active, so the displayed highest price never moves backwards.
func (s *AuctionService) WithdrawBid(ctx context.Context, auctionID, bidID, requesterID string) (models.Bid, error) {
	if auctionID == "" || bidID == "" || requesterID == "" {
		return models.Bid{}, fmt.Errorf("service: %w - missing auctionID, bidID or requesterID", auctionerrors.ErrInvalidInput)
	}

	unlock := s.locks.acquire(auctionID)
	defer unlock()

	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	bid, err := s.store.GetBid(ctx, auctionID, bidID)
	if err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to load bid %s: %w", bidID, err)
	}

	if requesterID != bid.UserID {
		return models.Bid{}, fmt.Errorf("service: bid %s: %w", bidID, auctionerrors.ErrNotBidOwner)
	}
	if bid.IsWithdrawn() {
		return models.Bid{}, fmt.Errorf("service: bid %s: %w", bidID, auctionerrors.ErrAlreadyWithdrawn)
	}

	now := s.clock.Now()
	if auction.Status != models.AuctionActive || auction.HasEnded(now) {
		return models.Bid{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrWithdrawClosed)
	}
	if auction.LastPrice != nil && bid.Price.Equal(*auction.LastPrice) {
		return models.Bid{}, fmt.Errorf("service: bid %s: %w", bidID, auctionerrors.ErrHighestBid)
	}

	bid.Status = models.BidWithdrawn
	bid.WithdrawnAt = &now

	// The auction's last_price and bid_count are intentionally left alone:
	// bid_count counts bids ever placed, and a withdrawn bid was never the
	// current highest.
	if err := s.store.UpdateBid(ctx, bid); err != nil {
		return models.Bid{}, fmt.Errorf("service: failed to withdraw bid %s: %w", bidID, err)
	}
	return bid, nil
}

// CloseAuction transitions an active auction to closed, determining the
// winner from the highest bid and the reserve. The ad owner may close only
// after the end time; a privileged caller may close early. Winner selection
// looks at the raw maximum price over all bids, withdrawn included.
func (s *AuctionService) CloseAuction(ctx context.Context, auctionID, requesterID string, privileged bool) (ClosingResult, error) {
	if auctionID == "" {
		return ClosingResult{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}

	unlock := s.locks.acquire(auctionID)
	defer unlock()

	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return ClosingResult{}, fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	if auction.IsTerminal() {
		return ClosingResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrAuctionTerminal)
	}

	now := s.clock.Now()
	if !privileged {
		ad, err := s.ads.GetAd(ctx, auction.AdID)
		if err != nil {
			return ClosingResult{}, fmt.Errorf("service: failed to resolve ad %s: %w", auction.AdID, err)
		}
		if requesterID != ad.OwnerID {
			return ClosingResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrNotAdOwner)
		}
		if !auction.HasEnded(now) {
			return ClosingResult{}, fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrEarlyClose)
		}
	}

	result := ClosingResult{AuctionID: auctionID}

	highest, err := s.store.HighestBid(ctx, auctionID)
	switch {
	case err == nil:
		result.ReserveMet = auction.ReserveMetBy(highest.Price)
		if result.ReserveMet {
			winner := highest.UserID
			auction.WinnerUserID = &winner
			result.WinnerUserID = &winner
			result.WinningBid = &highest
			result.Message = fmt.Sprintf("auction closed, won at %s", highest.Price)
		} else {
			result.Message = "auction closed, reserve not met"
		}
	case errors.Is(err, auctionerrors.ErrNoBids):
		result.Message = "auction closed with no bids"
	default:
		return ClosingResult{}, fmt.Errorf("service: failed to find highest bid for auction %s: %w", auctionID, err)
	}

	auction.Status = models.AuctionClosed
	auction.UpdatedAt = now
	if err := s.store.UpdateAuction(ctx, auction); err != nil {
		return ClosingResult{}, fmt.Errorf("service: failed to close auction %s: %w", auctionID, err)
	}

	if err := s.ads.SetAdStatus(ctx, auction.AdID, models.AdExpired, now); err != nil {
		return ClosingResult{}, fmt.Errorf("service: auction %s closed but ad write-back failed: %w", auctionID, err)
	}
	return result, nil
}

// CancelAuction transitions an active auction to cancelled. Once bids exist
// only a privileged caller may cancel; no winner is ever assigned.
func (s *AuctionService) CancelAuction(ctx context.Context, auctionID, requesterID string, privileged bool) error {
	if auctionID == "" {
		return fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}

	unlock := s.locks.acquire(auctionID)
	defer unlock()

	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return fmt.Errorf("service: failed to load auction %s: %w", auctionID, err)
	}
	if auction.IsTerminal() {
		return fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrAuctionTerminal)
	}

	if !privileged {
		ad, err := s.ads.GetAd(ctx, auction.AdID)
		if err != nil {
			return fmt.Errorf("service: failed to resolve ad %s: %w", auction.AdID, err)
		}
		if requesterID != ad.OwnerID {
			return fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrNotAdOwner)
		}
		if auction.BidCount > 0 {
			return fmt.Errorf("service: auction %s: %w", auctionID, auctionerrors.ErrCancelWithBids)
		}
	}

	now := s.clock.Now()
	auction.Status = models.AuctionCancelled
	auction.UpdatedAt = now
	if err := s.store.UpdateAuction(ctx, auction); err != nil {
		return fmt.Errorf("service: failed to cancel auction %s: %w", auctionID, err)
	}

	if err := s.ads.SetAdStatus(ctx, auction.AdID, models.AdRemoved, now); err != nil {
		return fmt.Errorf("service: auction %s cancelled but ad write-back failed: %w", auctionID, err)
	}
	return nil
}

// GetAuction returns one auction by id.
func (s *AuctionService) GetAuction(ctx context.Context, auctionID string) (models.Auction, error) {
	if auctionID == "" {
		return models.Auction{}, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}
	auction, err := s.store.GetAuction(ctx, auctionID)
	if err != nil {
		return models.Auction{}, fmt.Errorf("service: failed to get auction %s: %w", auctionID, err)
	}
	return auction, nil
}

// ListBids returns all bids for an auction in creation order.
func (s *AuctionService) ListBids(ctx context.Context, auctionID string) ([]models.Bid, error) {
	if auctionID == "" {
		return nil, fmt.Errorf("service: %w - empty auction ID", auctionerrors.ErrInvalidInput)
	}
	bids, err := s.store.ListBids(ctx, auctionID)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list bids for auction %s: %w", auctionID, err)
	}
	return bids, nil
}
