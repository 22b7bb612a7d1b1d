package utils

import (
	"github.com/google/uuid"
)

// NewAuctionID returns the identifier for a newly created auction.
func NewAuctionID() string {
	return uuid.NewString()
}

// NewBidID returns the identifier for a newly accepted bid.
func NewBidID() string {
	return uuid.NewString()
}
