package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"souq-auctions/internal/ads"
	auction "souq-auctions/internal/auctionService"
	"souq-auctions/internal/config"
	model "souq-auctions/internal/models"
	"souq-auctions/internal/repository"
	"souq-auctions/internal/scheduler"
	"souq-auctions/internal/server"
	"souq-auctions/utils"
)

func main() {
	cfg := config.MustLoad()
	utils.SetLogLevel(cfg.LogLevel)
	gin.SetMode(cfg.GinMode)

	store, dir, err := buildStores(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open storage: %v\n", err)
		os.Exit(1)
	}

	svc := auction.NewAuctionService(store, dir, nil)
	router := server.SetupRouter(svc, cfg.CORSAllowedOrigins)

	if cfg.AutoCloseEnabled {
		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()
		sweep := scheduler.NewAutoCloser(store, svc, nil, cfg.AutoCloseInterval, cfg.AutoCloseWorkers)
		go sweep.Run(ctx)
	}

	fmt.Printf("Starting auction server on %s...\n", cfg.Addr())
	if err := router.Run(cfg.Addr()); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to start server: %v\n", err)
		os.Exit(1)
	}
}

// buildStores selects SQLite-backed storage when DB_PATH is set, otherwise
// the in-memory store seeded with demo data.
func buildStores(cfg config.Config) (repository.AuctionStore, ads.Directory, error) {
	if cfg.DBPath == "" {
		store := repository.NewMemoryStore()
		dir := ads.NewMemoryDirectory()
		seedDemoData(store, dir)
		return store, dir, nil
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, nil, err
	}
	if err := repository.AutoMigrate(db); err != nil {
		return nil, nil, err
	}
	return repository.NewGormStore(db), ads.NewGormDirectory(db), nil
}

// seedDemoData adds sample ads and auctions to the in-memory stores
func seedDemoData(store *repository.MemoryStore, dir *ads.MemoryDirectory) {
	now := time.Now().UTC()
	reserve := decimal.NewFromInt(15000)

	seeds := []struct {
		ad      model.Ad
		auction model.Auction
	}{
		{
			ad: model.Ad{AdID: "ad1", OwnerID: "seller1", Status: model.AdPublished, StatusChangedAt: now},
			auction: model.Auction{
				AuctionID: "auction1", AdID: "ad1",
				StartPrice: decimal.NewFromInt(10000), MinIncrement: model.DefaultMinIncrement,
				StartTime: now, EndTime: now.Add(48 * time.Hour),
				AntiSnipeWindowSec: model.DefaultAntiSnipeWindowSec, AntiSnipeExtensionSec: model.DefaultAntiSnipeExtensionSec,
				Status: model.AuctionActive, AutoClose: true, CreatedAt: now, UpdatedAt: now,
			},
		},
		{
			ad: model.Ad{AdID: "ad2", OwnerID: "seller2", Status: model.AdPublished, StatusChangedAt: now},
			auction: model.Auction{
				AuctionID: "auction2", AdID: "ad2",
				StartPrice: decimal.NewFromInt(5000), ReservePrice: &reserve, MinIncrement: decimal.NewFromInt(250),
				StartTime: now, EndTime: now.Add(72 * time.Hour),
				AntiSnipeWindowSec: model.DefaultAntiSnipeWindowSec, AntiSnipeExtensionSec: model.DefaultAntiSnipeExtensionSec,
				Status: model.AuctionActive, AutoClose: false, CreatedAt: now, UpdatedAt: now,
			},
		},
	}

	ctx := context.Background()
	for _, s := range seeds {
		dir.AddAd(s.ad)
		if err := store.CreateAuction(ctx, s.auction); err != nil {
			utils.Warn("failed to seed auction", map[string]any{"auction_id": s.auction.AuctionID, "error": err.Error()})
		}
	}
}
