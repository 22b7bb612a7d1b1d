// Command autoclose runs one auto-close sweep and exits. It is intended to
// be driven by cron or a manual operator; the exit status reflects whether
// any auction failed to close.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"souq-auctions/internal/ads"
	auction "souq-auctions/internal/auctionService"
	"souq-auctions/internal/config"
	"souq-auctions/internal/repository"
	"souq-auctions/internal/scheduler"
	"souq-auctions/utils"
)

func main() {
	dryRun := flag.Bool("dry-run", false, "report auctions that would be closed without mutating state")
	flag.Parse()

	cfg := config.MustLoad()
	utils.SetLogLevel(cfg.LogLevel)

	if cfg.DBPath == "" {
		fmt.Fprintln(os.Stderr, "DB_PATH is required: a one-shot sweep needs durable storage")
		os.Exit(2)
	}

	db, err := repository.OpenSQLite(cfg.DBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(2)
	}
	if err := repository.AutoMigrate(db); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to migrate database: %v\n", err)
		os.Exit(2)
	}

	store := repository.NewGormStore(db)
	svc := auction.NewAuctionService(store, ads.NewGormDirectory(db), nil)
	sweep := scheduler.NewAutoCloser(store, svc, nil, cfg.AutoCloseInterval, cfg.AutoCloseWorkers)

	summary, err := sweep.RunOnce(context.Background(), *dryRun)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Sweep selection failed: %v\n", err)
		os.Exit(2)
	}

	out, _ := json.MarshalIndent(summary, "", "  ")
	fmt.Println(string(out))

	if summary.Failed() {
		os.Exit(1)
	}
}
