package rates

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"

	"shipping-optimizer/internal/common/logger"
	"shipping-optimizer/internal/common/metrics"
)

// VariantExecutor prices one variant. Implementations never fail the batch:
// broken variants come back as unavailable rates.
type VariantExecutor interface {
	Execute(ctx context.Context, in QuoteInput, v DimensionVariant) []Rate
}

// Orchestrator drives the deviation grid through the executor in fixed-size
// concurrent batches gated by the sliding-window limiter.
type Orchestrator struct {
	executor  VariantExecutor
	limiter   *SlidingWindowLimiter
	batchSize int
	logger    logger.Logger
}

func NewOrchestrator(executor VariantExecutor, limiter *SlidingWindowLimiter, batchSize int, log logger.Logger) *Orchestrator {
	if batchSize <= 0 {
		batchSize = 10
	}
	return &Orchestrator{
		executor:  executor,
		limiter:   limiter,
		batchSize: batchSize,
		logger:    log.WithFields(map[string]interface{}{"component": "orchestrator"}),
	}
}

// FetchShippingRates expands the deviation grid, prices every variant,
// applies the operational-cost surcharge, and returns the ranked result
// list. A variant's failure never aborts its siblings; the only error path
// is context cancellation while waiting on the quota, in which case the
// rates gathered so far are ranked and returned alongside the error.
func (o *Orchestrator) FetchShippingRates(ctx context.Context, in QuoteInput, costs CostTable, onProgress ProgressFunc) ([]Rate, error) {
	grid := BuildGrid(in.Dimensions, in.DeviationRange, in.PackagingProtectionCm)
	total := len(grid)

	o.logger.Info("starting rate search", map[string]interface{}{
		"origin":      in.OriginCEP,
		"destination": in.DestinationCEP,
		"variants":    total,
		"batchSize":   o.batchSize,
	})

	var (
		mu        sync.Mutex
		all       = make([]Rate, 0, total)
		completed int
	)

	finishVariant := func(variantRates []Rate) {
		mu.Lock()
		all = append(all, variantRates...)
		completed++
		done, outcome := completed, "available"
		for _, r := range variantRates {
			if !r.Available() {
				outcome = "unavailable"
				break
			}
		}
		// Delivered under mu: the observer never sees the completed
		// count go backwards.
		if onProgress != nil {
			onProgress(float64(done)/float64(total), done, total)
		}
		mu.Unlock()

		metrics.VariantsProcessedTotal.WithLabelValues(outcome).Inc()
	}

	for start := 0; start < total; start += o.batchSize {
		// Strict quota compliance: the batch does not advance until the
		// window has room. Refusals poll-wait and retry the same batch.
		if err := o.limiter.Wait(ctx); err != nil {
			return Rank(all, in.CostTolerance), err
		}

		end := start + o.batchSize
		if end > total {
			end = total
		}
		batch := grid[start:end]
		metrics.BatchesProcessedTotal.Inc()

		g, gctx := errgroup.WithContext(ctx)
		for _, variant := range batch {
			v := variant
			g.Go(func() error {
				variantRates := o.executor.Execute(gctx, in, v)
				for i := range variantRates {
					ApplyOperationalCost(&variantRates[i], costs)
				}
				finishVariant(variantRates)
				return nil
			})
		}
		// Workers always return nil; Wait is a join point, not error fanout.
		_ = g.Wait()
	}

	o.logger.Info("rate search finished", map[string]interface{}{
		"variants": total,
		"rates":    len(all),
	})

	return Rank(all, in.CostTolerance), nil
}
