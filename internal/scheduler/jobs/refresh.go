package jobs

import (
	"context"
	"time"

	"github.com/agustinp/tradepulse/internal/realtime"
)

// PriceRefresh walks the universe for latest quote snapshots.
type PriceRefresh struct {
	refresher *realtime.Refresher
}

func NewPriceRefresh(refresher *realtime.Refresher) *PriceRefresh {
	return &PriceRefresh{refresher: refresher}
}

func (j *PriceRefresh) Name() string { return "PRICE_REFRESH" }

func (j *PriceRefresh) Run(ctx context.Context, _ time.Time) error {
	_, err := j.refresher.Refresh(ctx)
	return err
}
