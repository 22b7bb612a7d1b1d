package repository

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"souq-auctions/internal/auctionerrors"
	model "souq-auctions/internal/models"
)

// AuctionStore defines the persistence interface for auctions and their bids.
//
// UpdateAuction and RecordBid are compare-and-swap writes: the given auction
// must carry the Version it was read with, the store bumps it by one on
// success and returns ErrConflict when the stored version moved on. RecordBid
// applies the auction update and the bid insert as one atomic unit.
type AuctionStore interface {
	CreateAuction(ctx context.Context, auction model.Auction) error
	GetAuction(ctx context.Context, auctionID string) (model.Auction, error)
	UpdateAuction(ctx context.Context, auction model.Auction) error
	RecordBid(ctx context.Context, auction model.Auction, bid model.Bid) error
	GetBid(ctx context.Context, auctionID, bidID string) (model.Bid, error)
	UpdateBid(ctx context.Context, bid model.Bid) error
	ListBids(ctx context.Context, auctionID string) ([]model.Bid, error)
	HighestBid(ctx context.Context, auctionID string) (model.Bid, error)
	DueAuctions(ctx context.Context, now time.Time) ([]model.Auction, error)
}

// MemoryStore is a concurrency-safe in-memory implementation of AuctionStore,
// used by tests and by the server's dev mode.
type MemoryStore struct {
	mu       sync.RWMutex
	auctions map[string]model.Auction // key: auctionID
	byAd     map[string]string        // key: adID -> auctionID
	bids     map[string][]model.Bid   // key: auctionID -> bids in creation order
}

// NewMemoryStore creates a new in-memory store instance
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		auctions: make(map[string]model.Auction),
		byAd:     make(map[string]string),
		bids:     make(map[string][]model.Bid),
	}
}

// CreateAuction inserts a new auction; at most one auction per ad.
func (s *MemoryStore) CreateAuction(_ context.Context, auction model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[auction.AuctionID]; ok {
		return fmt.Errorf("create auction %s: %w", auction.AuctionID, auctionerrors.ErrDuplicateAuction)
	}
	if _, ok := s.byAd[auction.AdID]; ok {
		return fmt.Errorf("create auction for ad %s: %w", auction.AdID, auctionerrors.ErrDuplicateAuction)
	}

	s.auctions[auction.AuctionID] = auction
	s.byAd[auction.AdID] = auction.AuctionID
	return nil
}

// GetAuction returns the auction with the given id.
func (s *MemoryStore) GetAuction(_ context.Context, auctionID string) (model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	auction, ok := s.auctions[auctionID]
	if !ok {
		return model.Auction{}, fmt.Errorf("get auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return auction, nil
}

// UpdateAuction writes back a mutated auction, guarded by its read version.
func (s *MemoryStore) UpdateAuction(_ context.Context, auction model.Auction) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.casAuction(auction)
}

// RecordBid atomically applies the auction summary update and appends the bid.
func (s *MemoryStore) RecordBid(_ context.Context, auction model.Auction, bid model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.casAuction(auction); err != nil {
		return err
	}
	s.bids[auction.AuctionID] = append(s.bids[auction.AuctionID], bid)
	return nil
}

// casAuction performs the version check and write. Caller holds the lock.
func (s *MemoryStore) casAuction(auction model.Auction) error {
	current, ok := s.auctions[auction.AuctionID]
	if !ok {
		return fmt.Errorf("update auction %s: %w", auction.AuctionID, auctionerrors.ErrAuctionNotFound)
	}
	if current.Version != auction.Version {
		return fmt.Errorf("update auction %s: %w", auction.AuctionID, auctionerrors.ErrConflict)
	}
	auction.Version++
	s.auctions[auction.AuctionID] = auction
	return nil
}

// GetBid returns one bid of an auction.
func (s *MemoryStore) GetBid(_ context.Context, auctionID, bidID string) (model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, b := range s.bids[auctionID] {
		if b.BidID == bidID {
			return b, nil
		}
	}
	return model.Bid{}, fmt.Errorf("get bid %s for auction %s: %w", bidID, auctionID, auctionerrors.ErrBidNotFound)
}

// UpdateBid writes back a mutated bid (withdrawal flags only).
func (s *MemoryStore) UpdateBid(_ context.Context, bid model.Bid) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	list := s.bids[bid.AuctionID]
	for i, b := range list {
		if b.BidID == bid.BidID {
			list[i] = bid
			return nil
		}
	}
	return fmt.Errorf("update bid %s: %w", bid.BidID, auctionerrors.ErrBidNotFound)
}

// ListBids returns all bids for an auction in creation order.
func (s *MemoryStore) ListBids(_ context.Context, auctionID string) ([]model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, ok := s.auctions[auctionID]; !ok {
		return nil, fmt.Errorf("list bids for auction %s: %w", auctionID, auctionerrors.ErrAuctionNotFound)
	}
	return append([]model.Bid(nil), s.bids[auctionID]...), nil
}

// HighestBid returns the bid with the maximum price for an auction,
// irrespective of withdrawal status. Ties go to the earliest bid.
func (s *MemoryStore) HighestBid(_ context.Context, auctionID string) (model.Bid, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	bids := s.bids[auctionID]
	if len(bids) == 0 {
		return model.Bid{}, fmt.Errorf("get highest bid for auction %s: %w", auctionID, auctionerrors.ErrNoBids)
	}

	highest := bids[0]
	for _, b := range bids[1:] {
		if b.Price.GreaterThan(highest.Price) || (b.Price.Equal(highest.Price) && b.CreatedAt.Before(highest.CreatedAt)) {
			highest = b
		}
	}
	return highest, nil
}

// DueAuctions returns active auto-close auctions whose end time has passed,
// ordered by end time.
func (s *MemoryStore) DueAuctions(_ context.Context, now time.Time) ([]model.Auction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []model.Auction
	for _, a := range s.auctions {
		if a.Status == model.AuctionActive && a.AutoClose && !a.EndTime.After(now) {
			due = append(due, a)
		}
	}
	sort.Slice(due, func(i, j int) bool { return due[i].EndTime.Before(due[j].EndTime) })
	return due, nil
}
