package engine_test

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ecobazaarx/ecoimpact/internal/config"
	"github.com/ecobazaarx/ecoimpact/internal/engine"
	"github.com/ecobazaarx/ecoimpact/internal/engine/batch"
	"github.com/ecobazaarx/ecoimpact/internal/impact"
)

type countingObserver struct {
	mu         sync.Mutex
	categories map[string]int
}

func (o *countingObserver) ObserveEstimate(b impact.Breakdown) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.categories == nil {
		o.categories = map[string]int{}
	}
	o.categories[b.Category]++
}

func drafts(n int) []impact.Draft {
	categories := []string{"Laptop", "Bag", "Books", "Mystery"}
	out := make([]impact.Draft, n)
	for i := range out {
		out[i] = impact.Draft{
			Category:  categories[i%len(categories)],
			WeightKg:  impact.Float(float64(i%7) + 0.5),
			Materials: []string{"Bamboo", "Steel"}[:i%3%2+1],
		}
	}
	return out
}

func TestBatchEstimator_PreservesOrder(t *testing.T) {
	input := drafts(257)
	obs := &countingObserver{}
	e, err := engine.NewBatchEstimator(nil,
		engine.WithBatchSize(10),
		engine.WithConcurrency(8),
		engine.WithObserver(obs),
	)
	require.NoError(t, err)

	got, err := e.Estimate(context.Background(), input)
	require.NoError(t, err)
	require.Len(t, got, len(input))

	for i, est := range got {
		assert.Equal(t, i, est.Index)
		assert.Equal(t, impact.Estimate(input[i]), est.Result, "draft %d", i)
		assert.Equal(t, est.Result, est.Breakdown.Result())
	}

	total := 0
	for _, n := range obs.categories {
		total += n
	}
	assert.Equal(t, len(input), total)
	assert.Equal(t, 64, obs.categories["Accessories"], "unknown categories are observed under the fallback")
}

func TestBatchEstimator_Progress(t *testing.T) {
	var mu sync.Mutex
	var last batch.ProgressSnapshot
	calls := 0

	e, err := engine.NewBatchEstimator(nil,
		engine.WithBatchSize(25),
		engine.WithProgress(func(s batch.ProgressSnapshot) {
			mu.Lock()
			defer mu.Unlock()
			calls++
			last = s
		}),
	)
	require.NoError(t, err)

	_, err = e.Estimate(context.Background(), drafts(100))
	require.NoError(t, err)
	assert.Equal(t, 4, calls)
	assert.True(t, last.IsComplete())
}

func TestBatchEstimator_Cancelled(t *testing.T) {
	e, err := engine.NewBatchEstimator(nil, engine.WithBatchSize(1))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	got, err := e.Estimate(ctx, drafts(50))
	require.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, got)
}

func TestBatchEstimator_Overflow(t *testing.T) {
	input := drafts(20)
	input[13] = impact.Draft{Category: "Laptop", WeightKg: impact.Float(1e308), Materials: []string{"Aluminum"}}

	e, err := engine.NewBatchEstimator(nil, engine.WithBatchSize(5), engine.WithConcurrency(2))
	require.NoError(t, err)

	got, err := e.Estimate(context.Background(), input)
	require.ErrorIs(t, err, impact.ErrCalculationOverflow)
	assert.Contains(t, err.Error(), "draft 13")
	assert.Nil(t, got)
}

func TestBatchEstimator_Empty(t *testing.T) {
	e, err := engine.NewBatchEstimator(nil)
	require.NoError(t, err)

	got, err := e.Estimate(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestNewBatchEstimator_Options(t *testing.T) {
	_, err := engine.NewBatchEstimator(nil, engine.WithBatchSize(5000))
	require.ErrorIs(t, err, batch.ErrInvalidBatchSize)

	_, err = engine.NewBatchEstimator(nil, engine.WithConfig(config.EstimatorConfig{BatchSize: 50, Concurrency: 2}))
	require.NoError(t, err)

	_, err = engine.NewBatchEstimator(nil, engine.WithConfig(config.EstimatorConfig{}))
	require.NoError(t, err, "zero values keep defaults")
}
