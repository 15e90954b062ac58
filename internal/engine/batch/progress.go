package batch

import (
	"sync"
	"time"
)

// percentMultiplier is used to convert a ratio to percentage (0-100).
const percentMultiplier = 100

// Progress tracks a running ProcessConcurrent call. It is safe for concurrent use.
type Progress struct {
	mu       sync.Mutex
	notifyMu sync.Mutex

	totalItems       int
	processedItems   int
	totalBatches     int
	processedBatches int
	batchSize        int
	startTime        time.Time
	lastUpdateTime   time.Time
}

// NewProgress creates a new progress tracker.
func NewProgress(totalItems, totalBatches, batchSize int) *Progress {
	now := time.Now()
	return &Progress{
		totalItems:     totalItems,
		totalBatches:   totalBatches,
		batchSize:      batchSize,
		startTime:      now,
		lastUpdateTime: now,
	}
}

// AddProcessed records a completed batch of n items and returns the new state.
func (p *Progress) AddProcessed(n int) ProgressSnapshot {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.processedItems += n
	p.processedBatches++
	p.lastUpdateTime = time.Now()
	return p.snapshotLocked()
}

// advance records a completed batch and reports it to cb, if set. Reports
// are serialized so cb observes monotonically increasing counts.
func (p *Progress) advance(n int, cb ProgressCallback) {
	p.notifyMu.Lock()
	defer p.notifyMu.Unlock()
	snap := p.AddProcessed(n)
	if cb != nil {
		cb(snap)
	}
}

func (p *Progress) snapshotLocked() ProgressSnapshot {
	elapsed := time.Since(p.startTime)
	s := ProgressSnapshot{
		TotalItems:       p.totalItems,
		ProcessedItems:   p.processedItems,
		TotalBatches:     p.totalBatches,
		ProcessedBatches: p.processedBatches,
		BatchSize:        p.batchSize,
		StartTime:        p.startTime,
		LastUpdateTime:   p.lastUpdateTime,
		ElapsedTime:      elapsed,
	}
	if p.totalItems > 0 {
		s.PercentComplete = float64(p.processedItems) / float64(p.totalItems) * percentMultiplier
	}
	if secs := elapsed.Seconds(); secs > 0 {
		s.ItemsPerSecond = float64(p.processedItems) / secs
	}
	return s
}

// ProgressSnapshot is an immutable snapshot of progress state.
type ProgressSnapshot struct {
	TotalItems       int
	ProcessedItems   int
	TotalBatches     int
	ProcessedBatches int
	BatchSize        int
	StartTime        time.Time
	LastUpdateTime   time.Time
	PercentComplete  float64
	ElapsedTime      time.Duration
	ItemsPerSecond   float64
}

// IsComplete reports whether every item has been processed.
func (s ProgressSnapshot) IsComplete() bool {
	return s.ProcessedItems >= s.TotalItems
}

// EstimatedTimeRemaining extrapolates from the rate so far. It is zero
// before the first batch completes.
func (s ProgressSnapshot) EstimatedTimeRemaining() time.Duration {
	if s.ProcessedItems == 0 {
		return 0
	}
	perItem := s.ElapsedTime / time.Duration(s.ProcessedItems)
	return perItem * time.Duration(s.TotalItems-s.ProcessedItems)
}
