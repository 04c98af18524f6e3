package pipeline

import (
	"context"
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// Summary reports what one batch did.
type Summary struct {
	Source    string        `json:"source"`
	Processed int           `json:"processed"`
	Skipped   int           `json:"skipped"`
	Removed   int           `json:"removed"`
	Failed    int           `json:"failed"`
	Elapsed   time.Duration `json:"elapsed"`
}

// RunOpts configures a batch.
type RunOpts struct {
	Filter string        // slug substring; non-matching resorts are skipped before any fetch
	Delay  time.Duration // pause between resorts to stay polite to the upstream
}

// Run drives one batch: List, then for each resort Fetch → Transform →
// Write, sequentially. A per-resort error is logged and counted, never
// fatal to the batch; ErrNoData triggers Sink.Remove instead. Rerunning
// against unchanged upstream state converges on the same rows.
func Run[P, R any](ctx context.Context, src Source[P], tf Transformer[P, R], sink Sink[R], opts RunOpts) (*Summary, error) {
	log := zap.L().With(zap.String("source", src.Name()))
	start := time.Now()

	resorts, err := src.List(ctx)
	if err != nil {
		return nil, eris.Wrapf(err, "pipeline: list %s", src.Name())
	}

	log.Info("starting batch", zap.Int("candidates", len(resorts)))

	sum := &Summary{Source: src.Name()}
	for i, r := range resorts {
		select {
		case <-ctx.Done():
			return sum, ctx.Err()
		default:
		}

		// Filtering happens before the fetch so excluded resorts cost
		// no upstream calls.
		if opts.Filter != "" && !strings.Contains(r.Slug, opts.Filter) {
			sum.Skipped++
			continue
		}

		rLog := log.With(zap.String("slug", r.Slug))

		if i > 0 && opts.Delay > 0 {
			select {
			case <-ctx.Done():
				return sum, ctx.Err()
			case <-time.After(opts.Delay):
			}
		}

		payload, err := src.Fetch(ctx, r)
		if err != nil {
			if eris.Is(err, ErrNoData) {
				if rmErr := sink.Remove(ctx, r); rmErr != nil {
					rLog.Error("teardown failed", zap.Error(rmErr))
					sum.Failed++
					continue
				}
				rLog.Info("upstream record gone, removed")
				sum.Removed++
				continue
			}
			rLog.Error("fetch failed", zap.Error(err))
			sum.Failed++
			continue
		}

		rec, err := tf.Transform(ctx, r, payload)
		if err != nil {
			rLog.Error("transform failed", zap.Error(err))
			sum.Failed++
			continue
		}

		if err := sink.Write(ctx, r, rec); err != nil {
			rLog.Error("write failed", zap.Error(err))
			sum.Failed++
			continue
		}

		rLog.Debug("synced")
		sum.Processed++
	}

	sum.Elapsed = time.Since(start)
	log.Info("batch complete",
		zap.Int("processed", sum.Processed),
		zap.Int("skipped", sum.Skipped),
		zap.Int("removed", sum.Removed),
		zap.Int("failed", sum.Failed),
		zap.Duration("elapsed", sum.Elapsed),
	)
	return sum, nil
}
