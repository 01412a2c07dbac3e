// Package report collects inventory health snapshots through the waste
// reduction API and publishes them to Redis.
package report

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	logx "github.com/wastewise/wastewise-core/pkg/logger"
	"github.com/wastewise/wastewise-core/pkg/wasteapi"
)

// Source is the part of *wasteapi.Client a snapshot needs.
type Source interface {
	InventorySummary(ctx context.Context, includeCategoryBreakdown bool) (wasteapi.InventorySummaryResponse, error)
	DeadStockRisk(ctx context.Context, category string) ([]wasteapi.DeadStockRiskItem, error)
	ExpiredProducts(ctx context.Context) (wasteapi.ExpiredProductsResponse, error)
}

var _ Source = (*wasteapi.Client)(nil)

type Snapshot struct {
	ID        string                            `json:"id"`
	CreatedAt time.Time                         `json:"created_at"`
	Category  string                            `json:"category,omitempty"`
	Summary   wasteapi.InventorySummaryResponse `json:"summary"`
	DeadStock []wasteapi.DeadStockRiskItem      `json:"dead_stock"`
	Expired   wasteapi.ExpiredProductsResponse  `json:"expired"`
}

type Options struct {
	// Category narrows the dead-stock list; the summary and expired figures
	// always cover the whole store.
	Category                 string
	IncludeCategoryBreakdown bool
	// Now stamps the snapshot; time.Now when nil.
	Now func() time.Time
}

// Collect runs the three calls concurrently. The first failure cancels the
// others and is returned.
func Collect(ctx context.Context, src Source, opts Options) (*Snapshot, error) {
	now := time.Now
	if opts.Now != nil {
		now = opts.Now
	}

	snap := &Snapshot{
		ID:        uuid.NewString(),
		CreatedAt: now().UTC(),
		Category:  opts.Category,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		summary, err := src.InventorySummary(gctx, opts.IncludeCategoryBreakdown)
		if err != nil {
			return fmt.Errorf("inventory summary: %w", err)
		}
		snap.Summary = summary
		return nil
	})
	g.Go(func() error {
		items, err := src.DeadStockRisk(gctx, opts.Category)
		if err != nil {
			return fmt.Errorf("dead stock risk: %w", err)
		}
		if items == nil {
			items = []wasteapi.DeadStockRiskItem{}
		}
		snap.DeadStock = items
		return nil
	})
	g.Go(func() error {
		expired, err := src.ExpiredProducts(gctx)
		if err != nil {
			return fmt.Errorf("expired products: %w", err)
		}
		snap.Expired = expired
		return nil
	})

	if err := g.Wait(); err != nil {
		logx.Error().Err(err).Str("snapshot_id", snap.ID).Msg("failed to collect report snapshot")
		return nil, err
	}

	logx.Debug().
		Str("snapshot_id", snap.ID).
		Int("dead_stock_items", len(snap.DeadStock)).
		Int("expired_products", snap.Expired.TotalExpiredProducts).
		Msg("report snapshot collected")
	return snap, nil
}
