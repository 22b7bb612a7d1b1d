package helpers

import (
	"time"

	"github.com/shopspring/decimal"

	auction "souq-auctions/internal/auctionService"
	model "souq-auctions/internal/models"
)

// Request DTOs
type CreateAuctionRequest struct {
	AdID                  string           `json:"ad_id" binding:"required"`
	StartPrice            decimal.Decimal  `json:"start_price"`
	ReservePrice          *decimal.Decimal `json:"reserve_price"`
	MinIncrement          *decimal.Decimal `json:"minimum_bid_increment"`
	StartTime             *time.Time       `json:"start_time"`
	EndTime               time.Time        `json:"end_time" binding:"required"`
	AntiSnipeWindowSec    int              `json:"anti_snip_window_seconds"`
	AntiSnipeExtensionSec int              `json:"anti_snip_extension_seconds"`
	AutoClose             bool             `json:"auto_close"`
}

type PlaceBidRequest struct {
	Price   decimal.Decimal `json:"price" binding:"required"`
	Comment string          `json:"comment"`
}

// Response DTOs
type BidResponse struct {
	BidID       string          `json:"bid_id"`
	AuctionID   string          `json:"auction_id"`
	UserID      string          `json:"user_id"`
	Price       decimal.Decimal `json:"price"`
	Comment     string          `json:"comment,omitempty"`
	Status      string          `json:"status"`
	WithdrawnAt *string         `json:"withdrawn_at,omitempty"`
	CreatedAt   string          `json:"created_at"`
}

type AntiSnipeInfo struct {
	Triggered  bool    `json:"triggered"`
	NewEndTime *string `json:"new_end_time,omitempty"`
}

type PlaceBidResponse struct {
	Bid       BidResponse   `json:"bid"`
	AntiSnipe AntiSnipeInfo `json:"anti_snipe"`
}

type ClosingResultResponse struct {
	AuctionID    string       `json:"auction_id"`
	WinnerUserID *string      `json:"winner_user_id,omitempty"`
	WinningBid   *BidResponse `json:"winning_bid,omitempty"`
	ReserveMet   bool         `json:"reserve_met"`
	Message      string       `json:"message"`
}

// NewBidResponse converts a bid record to its wire shape.
func NewBidResponse(bid model.Bid) BidResponse {
	resp := BidResponse{
		BidID:     bid.BidID,
		AuctionID: bid.AuctionID,
		UserID:    bid.UserID,
		Price:     bid.Price,
		Comment:   bid.Comment,
		Status:    string(bid.Status),
		CreatedAt: bid.CreatedAt.UTC().Format(time.RFC3339),
	}
	if bid.WithdrawnAt != nil {
		w := bid.WithdrawnAt.UTC().Format(time.RFC3339)
		resp.WithdrawnAt = &w
	}
	return resp
}

// NewPlaceBidResponse converts a bidding-engine result to its wire shape.
func NewPlaceBidResponse(result auction.BidResult) PlaceBidResponse {
	resp := PlaceBidResponse{
		Bid:       NewBidResponse(result.Bid),
		AntiSnipe: AntiSnipeInfo{Triggered: result.AntiSnipeTriggered},
	}
	if result.NewEndTime != nil {
		e := result.NewEndTime.UTC().Format(time.RFC3339)
		resp.AntiSnipe.NewEndTime = &e
	}
	return resp
}

// NewClosingResultResponse converts a closing-engine result to its wire shape.
func NewClosingResultResponse(result auction.ClosingResult) ClosingResultResponse {
	resp := ClosingResultResponse{
		AuctionID:    result.AuctionID,
		WinnerUserID: result.WinnerUserID,
		ReserveMet:   result.ReserveMet,
		Message:      result.Message,
	}
	if result.WinningBid != nil {
		b := NewBidResponse(*result.WinningBid)
		resp.WinningBid = &b
	}
	return resp
}
