// Package ads is the boundary to the ad-management subsystem. The auction
// engine only ever reads an ad's owner and publication status, and writes a
// terminal status back when an auction ends; everything else about ads is
// somebody else's problem.
package ads

import (
	"context"
	"time"

	model "souq-auctions/internal/models"
)

// Directory is the narrow ad collaborator interface the engine depends on.
type Directory interface {
	GetAd(ctx context.Context, adID string) (model.Ad, error)
	SetAdStatus(ctx context.Context, adID string, status model.AdStatus, at time.Time) error
}
