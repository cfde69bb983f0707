package utils

import (
	"log/slog"
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

const (
	DefaultBatchSize = 100
	DefaultEWMAAlpha = 0.1
)

// BatchStats summarizes one completed batch of step timings, in milliseconds
type BatchStats struct {
	Batch   int
	Samples int
	Min     float64
	Median  float64
	Max     float64
	EWMA    float64
}

// LogValue implements slog.LogValuer
func (b BatchStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("batch", b.Batch),
		slog.Int("samples", b.Samples),
		slog.Float64("min_ms", b.Min),
		slog.Float64("median_ms", b.Median),
		slog.Float64("max_ms", b.Max),
		slog.Float64("ewma_ms", b.EWMA),
	)
}

// Sampler records step compute durations. It keeps an exponential moving
// average over every sample and summarizes fixed-size batches.
type Sampler struct {
	alpha     float64
	batchSize int

	ewma    float64
	count   int
	batch   []float64
	batches int
	last    BatchStats

	onBatch func(BatchStats)
}

// NewSampler creates a sampler; non-positive arguments select the defaults
func NewSampler(batchSize int, alpha float64) *Sampler {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if alpha <= 0 || alpha > 1 {
		alpha = DefaultEWMAAlpha
	}
	return &Sampler{
		alpha:     alpha,
		batchSize: batchSize,
		batch:     make([]float64, 0, batchSize),
	}
}

// OnBatch registers fn to receive every completed batch
func (s *Sampler) OnBatch(fn func(BatchStats)) {
	s.onBatch = fn
}

// Record adds one step duration
func (s *Sampler) Record(d time.Duration) {
	s.RecordMillis(float64(d) / float64(time.Millisecond))
}

// RecordMillis adds one step duration expressed in milliseconds
func (s *Sampler) RecordMillis(ms float64) {
	if s.count == 0 {
		s.ewma = ms
	} else {
		s.ewma += s.alpha * (ms - s.ewma)
	}
	s.count++

	s.batch = append(s.batch, ms)
	if len(s.batch) < s.batchSize {
		return
	}

	s.batches++
	s.last = summarize(s.batch)
	s.last.Batch = s.batches
	s.last.EWMA = s.ewma
	s.batch = s.batch[:0]

	if s.onBatch != nil {
		s.onBatch(s.last)
	}
}

// EWMA returns the smoothed step duration in milliseconds
func (s *Sampler) EWMA() float64 { return s.ewma }

// Count returns the number of samples recorded
func (s *Sampler) Count() int { return s.count }

// Pending returns the number of samples in the unfinished batch
func (s *Sampler) Pending() int { return len(s.batch) }

// LastBatch returns the most recent completed batch
func (s *Sampler) LastBatch() (BatchStats, bool) {
	return s.last, s.batches > 0
}

func summarize(samples []float64) BatchStats {
	return BatchStats{
		Samples: len(samples),
		Min:     floats.Min(samples),
		Median:  median(samples),
		Max:     floats.Max(samples),
	}
}

// median sorts a copy, leaving samples in arrival order
func median(samples []float64) float64 {
	sorted := append([]float64(nil), samples...)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return stat.Mean(sorted[n/2-1:n/2+1], nil)
	}
	return sorted[n/2]
}
