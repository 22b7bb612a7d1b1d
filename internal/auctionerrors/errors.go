package auctionerrors

import "errors"

// Not-found errors
var (
	ErrAuctionNotFound = errors.New("auction not found")
	ErrBidNotFound     = errors.New("bid not found")
	ErrAdNotFound      = errors.New("ad not found")
	ErrNoBids          = errors.New("no bids found for auction")
)

// Authorization errors
var (
	ErrSelfBid        = errors.New("ad owner cannot bid on own auction")
	ErrAdNotPublished = errors.New("ad is not open for bids")
	ErrNotBidOwner    = errors.New("only the bidder may withdraw this bid")
	ErrHighestBid     = errors.New("the current highest bid cannot be withdrawn")
	ErrWithdrawClosed = errors.New("bids can no longer be withdrawn from this auction")
	ErrEarlyClose     = errors.New("auction cannot be closed before its end time")
	ErrNotAdOwner     = errors.New("caller does not own the ad")
)

// Invalid-state errors
var (
	ErrAuctionNotActive = errors.New("auction is not active")
	ErrAuctionNotOpen   = errors.New("auction has not started yet")
	ErrAuctionEnded     = errors.New("auction has ended")
	ErrWinnerDecided    = errors.New("auction winner already decided")
	ErrAlreadyWithdrawn = errors.New("bid already withdrawn")
	ErrAuctionTerminal  = errors.New("auction is already closed or cancelled")
	ErrCancelWithBids   = errors.New("auction with bids cannot be cancelled")
	ErrDuplicateAuction = errors.New("ad already has an auction")
)

// Validation errors
var (
	ErrInvalidInput   = errors.New("invalid input")
	ErrBidTooLow      = errors.New("bid amount below minimum next bid")
	ErrCommentTooLong = errors.New("bid comment too long")
	ErrInvalidWindow  = errors.New("auction timing window invalid")
	ErrInvalidPricing = errors.New("auction pricing invalid")
)

// Concurrency errors
var (
	// ErrConflict signals that the auction row changed between read and
	// write; the caller may retry against fresh state.
	ErrConflict = errors.New("concurrent modification detected")
)
