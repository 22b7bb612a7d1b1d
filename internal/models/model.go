package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuctionStatus is the lifecycle state of an auction.
type AuctionStatus string

const (
	AuctionActive    AuctionStatus = "active"
	AuctionClosed    AuctionStatus = "closed"
	AuctionCancelled AuctionStatus = "cancelled"
)

// BidStatus is the lifecycle state of a bid.
type BidStatus string

const (
	BidActive    BidStatus = "active"
	BidWithdrawn BidStatus = "withdrawn"
)

// AdStatus is the publication state of the ad an auction belongs to.
// Ad management itself lives outside this service; the engine only reads
// the status and writes a terminal one back when an auction ends.
type AdStatus string

const (
	AdPublished AdStatus = "published"
	AdExpired   AdStatus = "expired"
	AdRemoved   AdStatus = "removed"
)

// Creation-time defaults and bounds for auctions.
var DefaultMinIncrement = decimal.NewFromInt(100)

const (
	DefaultAntiSnipeWindowSec    = 300
	DefaultAntiSnipeExtensionSec = 300

	MinAuctionDuration = time.Hour
	MaxAuctionDuration = 30 * 24 * time.Hour

	MaxBidCommentLen = 500
)

// Ad is the narrow view of an ad this engine depends on.
type Ad struct {
	AdID            string    `json:"ad_id" gorm:"primaryKey;column:ad_id"`
	OwnerID         string    `json:"owner_id" gorm:"column:owner_id"`
	Status          AdStatus  `json:"status" gorm:"column:status"`
	StatusChangedAt time.Time `json:"status_changed_at" gorm:"column:status_changed_at"`
}

// Auction is the aggregate holding pricing state, timing window and outcome
// for one ad. LastPrice is nil until the first bid is accepted. Version backs
// optimistic concurrency control: every accepted mutation bumps it by one.
type Auction struct {
	AuctionID string `json:"auction_id" gorm:"primaryKey;column:auction_id"`
	AdID      string `json:"ad_id" gorm:"column:ad_id;uniqueIndex"`

	StartPrice   decimal.Decimal  `json:"start_price" gorm:"column:start_price;type:decimal(20,2)"`
	LastPrice    *decimal.Decimal `json:"last_price" gorm:"column:last_price;type:decimal(20,2)"`
	ReservePrice *decimal.Decimal `json:"reserve_price,omitempty" gorm:"column:reserve_price;type:decimal(20,2)"`
	MinIncrement decimal.Decimal  `json:"minimum_bid_increment" gorm:"column:min_increment;type:decimal(20,2)"`

	StartTime time.Time `json:"start_time" gorm:"column:start_time"`
	EndTime   time.Time `json:"end_time" gorm:"column:end_time"`

	AntiSnipeWindowSec    int `json:"anti_snip_window_seconds" gorm:"column:anti_snipe_window_sec"`
	AntiSnipeExtensionSec int `json:"anti_snip_extension_seconds" gorm:"column:anti_snipe_extension_sec"`

	WinnerUserID *string       `json:"winner_user_id,omitempty" gorm:"column:winner_user_id"`
	Status       AuctionStatus `json:"status" gorm:"column:status"`
	BidCount     int           `json:"bid_count" gorm:"column:bid_count"`
	AutoClose    bool          `json:"auto_close" gorm:"column:auto_close"`

	Version   int64     `json:"-" gorm:"column:version"`
	CreatedAt time.Time `json:"created_at" gorm:"column:created_at"`
	UpdatedAt time.Time `json:"updated_at" gorm:"column:updated_at"`
}

// Bid is an append-only record of one user's offer on an auction. Price,
// AuctionID, UserID and CreatedAt never change after creation; only Status
// and WithdrawnAt are mutable, through withdrawal.
type Bid struct {
	BidID     string `json:"bid_id" gorm:"primaryKey;column:bid_id"`
	AuctionID string `json:"auction_id" gorm:"column:auction_id;index"`
	UserID    string `json:"user_id" gorm:"column:user_id"`

	Price   decimal.Decimal `json:"price" gorm:"column:price;type:decimal(20,2)"`
	Comment string          `json:"comment,omitempty" gorm:"column:comment"`

	Status      BidStatus  `json:"status" gorm:"column:status"`
	WithdrawnAt *time.Time `json:"withdrawn_at,omitempty" gorm:"column:withdrawn_at"`
	CreatedAt   time.Time  `json:"created_at" gorm:"column:created_at"`
}

// MinimumNextBid returns the lowest price the next bid must reach:
// last_price + increment once any bid exists, otherwise
// max(start_price, increment).
func (a *Auction) MinimumNextBid() decimal.Decimal {
	if a.LastPrice != nil {
		return a.LastPrice.Add(a.MinIncrement)
	}
	if a.StartPrice.GreaterThanOrEqual(a.MinIncrement) {
		return a.StartPrice
	}
	return a.MinIncrement
}

// IsTerminal reports whether the auction reached a final state.
func (a *Auction) IsTerminal() bool {
	return a.Status == AuctionClosed || a.Status == AuctionCancelled
}

// HasStarted reports whether bidding has opened at the given instant.
func (a *Auction) HasStarted(now time.Time) bool {
	return !now.Before(a.StartTime)
}

// HasEnded reports whether the bidding window is over. The end instant
// itself counts as ended: a bid at now == end_time is rejected.
func (a *Auction) HasEnded(now time.Time) bool {
	return !now.Before(a.EndTime)
}

// InAntiSnipeWindow reports whether a bid accepted at the given instant
// falls inside the trailing window and must extend the auction.
func (a *Auction) InAntiSnipeWindow(now time.Time) bool {
	remaining := a.EndTime.Sub(now)
	return remaining > 0 && remaining <= time.Duration(a.AntiSnipeWindowSec)*time.Second
}

// ReserveMetBy reports whether the given price satisfies the reserve.
// An unset reserve is always met; a set one is met at equality.
func (a *Auction) ReserveMetBy(price decimal.Decimal) bool {
	return a.ReservePrice == nil || price.GreaterThanOrEqual(*a.ReservePrice)
}

// IsWithdrawn reports whether the bid has already been withdrawn.
func (b *Bid) IsWithdrawn() bool {
	return b.Status == BidWithdrawn
}
