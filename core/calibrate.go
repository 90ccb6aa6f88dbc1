package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
	"github.com/udithaR/Alitheia-Core/internal/contract"
	"github.com/udithaR/Alitheia-Core/schema"
)

// Calibrator recomputes category and type weights every Interval processed
// resources. The counter lives in memory and starts over on restart; the
// weights themselves are read back from the ledger.
type Calibrator struct {
	mu       sync.Mutex
	counter  int
	interval int
	ledger   contract.Ledger
	now      func() time.Time
}

// NewCalibrator returns a calibrator. A non-positive interval falls back to
// the default with a warning.
func NewCalibrator(l contract.Ledger, interval int) *Calibrator {
	if interval <= 0 {
		contract.LogWarn("Calibration interval not set, using default",
			fmt.Errorf("got %d, using %d", interval, contract.DefaultCalibrationInterval))
		interval = contract.DefaultCalibrationInterval
	}
	return &Calibrator{interval: interval, ledger: l, now: time.Now}
}

// Interval returns the number of resources between calibration passes.
func (c *Calibrator) Interval() int {
	return c.interval
}

// Tick records one processed resource and recalculates when the counter
// reaches a multiple of the interval. It reports whether a pass ran.
func (c *Calibrator) Tick(ctx context.Context) (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.counter++
	if c.counter%c.interval != 0 {
		return false, nil
	}
	return true, c.recalculateLocked(ctx)
}

// Force recalculates immediately, regardless of the counter.
func (c *Calibrator) Force(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.recalculateLocked(ctx)
}

func (c *Calibrator) recalculateLocked(ctx context.Context) error {
	tx, err := c.ledger.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	totals, err := tx.Totals(ctx)
	if err != nil {
		return err
	}
	weights := ComputeWeights(totals, c.now())
	for _, w := range weights {
		if err := tx.SaveWeight(ctx, w); err != nil {
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit weights: %w", err)
	}
	log.WithFields(log.Fields{"total": totals.Global, "weights": len(weights)}).Debug("Recalculated weights")
	return nil
}

// ComputeWeights derives weights from one snapshot of the totals. Categories
// without actions keep their previous weights, as do their types.
func ComputeWeights(totals schema.ActionTotals, at time.Time) []schema.Weight {
	if totals.Global <= 0 {
		return nil
	}
	var weights []schema.Weight
	for _, cat := range schema.AllCategories {
		catTotal := totals.ByCategory[cat]
		if catTotal <= 0 {
			continue
		}
		weights = append(weights, schema.Weight{
			Kind:      schema.CategoryWeight,
			Key:       string(cat),
			Value:     100 * float64(catTotal) / float64(totals.Global),
			UpdatedAt: at,
		})
		for _, t := range schema.TypesOf(cat) {
			weights = append(weights, schema.Weight{
				Kind:      schema.TypeWeight,
				Key:       string(t),
				Value:     100 * float64(totals.ByType[t]) / float64(catTotal),
				UpdatedAt: at,
			})
		}
	}
	return weights
}
