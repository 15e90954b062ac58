// Package engine estimates many product drafts at once.
//
// BatchEstimator splits the input into fixed-size batches, estimates them
// with bounded concurrency and returns results in input order. Estimation
// itself is pure; the engine adds cancellation, progress reporting and a
// per-draft observer hook used for metrics.
package engine

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/engine/batch"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
	"github.com/ecobazaarx/ecoimpact/internal/logging"
)

// ErrNilReference is returned when a BatchEstimator has no reference tables.
var ErrNilReference = errors.New("reference tables cannot be nil")

// Estimate is the outcome for one draft.
type Estimate struct {
	// Index is the position of the draft in the input.
	Index     int              `json:"index"`
	Result    impact.Result    `json:"result"`
	Breakdown impact.Breakdown `json:"breakdown"`
}

// Observer receives every estimate as it is produced. Implementations must
// be safe for concurrent use.
type Observer interface {
	ObserveEstimate(b impact.Breakdown)
}

// ProgressFunc reports batch progress.
type ProgressFunc = batch.ProgressCallback

// ProgressSnapshot is the progress state passed to a ProgressFunc.
type ProgressSnapshot = batch.ProgressSnapshot

// BatchEstimator estimates drafts in batches.
type BatchEstimator struct {
	ref         *impact.Reference
	batchSize   int
	concurrency int
	onProgress  ProgressFunc
	observer    Observer
}

// Option configures a BatchEstimator.
type Option func(*BatchEstimator)

// WithBatchSize sets the number of drafts per batch (1..1000).
func WithBatchSize(n int) Option {
	return func(e *BatchEstimator) { e.batchSize = n }
}

// WithConcurrency sets the maximum number of batches in flight.
func WithConcurrency(n int) Option {
	return func(e *BatchEstimator) { e.concurrency = n }
}

// WithProgress registers a progress callback.
func WithProgress(fn ProgressFunc) Option {
	return func(e *BatchEstimator) { e.onProgress = fn }
}

// WithObserver registers a per-estimate observer.
func WithObserver(o Observer) Option {
	return func(e *BatchEstimator) { e.observer = o }
}

// WithConfig applies the estimator section of the configuration.
func WithConfig(cfg config.EstimatorConfig) Option {
	return func(e *BatchEstimator) {
		if cfg.BatchSize > 0 {
			e.batchSize = cfg.BatchSize
		}
		if cfg.Concurrency > 0 {
			e.concurrency = cfg.Concurrency
		}
	}
}

// NewBatchEstimator returns an estimator over ref. A nil ref selects the
// embedded reference tables.
func NewBatchEstimator(ref *impact.Reference, opts ...Option) (*BatchEstimator, error) {
	if ref == nil {
		ref = impact.Default()
	}
	e := &BatchEstimator{
		ref:         ref,
		batchSize:   batch.DefaultBatchSize,
		concurrency: config.DefaultConcurrency,
	}
	for _, opt := range opts {
		opt(e)
	}
	if _, err := batch.NewProcessor[impact.Draft](e.batchSize); err != nil {
		return nil, err
	}
	e.concurrency = max(e.concurrency, 1)
	return e, nil
}

// Estimate estimates every draft. Results are in input order. On
// cancellation the context error is returned together with no results. A
// draft whose result overflows aborts the batch with an error wrapping
// impact.ErrCalculationOverflow.
func (e *BatchEstimator) Estimate(ctx context.Context, drafts []impact.Draft) ([]Estimate, error) {
	if e.ref == nil {
		return nil, ErrNilReference
	}

	log := logging.FromContext(ctx)
	start := time.Now()
	log.Debug().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "batch_estimate").
		Int("drafts", len(drafts)).
		Int("batch_size", e.batchSize).
		Int("concurrency", e.concurrency).
		Msg("starting batch estimation")

	proc, err := batch.NewProcessor[impact.Draft](e.batchSize)
	if err != nil {
		return nil, err
	}
	proc.WithProgressCallback(e.onProgress)

	out := make([]Estimate, len(drafts))
	err = proc.ProcessConcurrent(ctx, drafts, func(ctx context.Context, items []impact.Draft, offset int) error {
		for i, d := range items {
			if err := ctx.Err(); err != nil {
				return err
			}
			b := e.ref.Explain(d)
			res := b.Result()
			if err := res.Validate(); err != nil {
				return fmt.Errorf("draft %d: %w", offset+i, err)
			}
			out[offset+i] = Estimate{Index: offset + i, Result: res, Breakdown: b}
			if e.observer != nil {
				e.observer.ObserveEstimate(b)
			}
		}
		return nil
	}, e.concurrency)
	if err != nil {
		log.Warn().
			Ctx(ctx).
			Str("component", "engine").
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("batch estimation aborted")
		return nil, err
	}

	log.Info().
		Ctx(ctx).
		Str("component", "engine").
		Str("operation", "batch_estimate").
		Int("drafts", len(drafts)).
		Dur("duration", time.Since(start)).
		Msg("batch estimation complete")
	return out, nil
}
