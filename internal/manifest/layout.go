package manifest

import (
	"fmt"
	"math"
)

const (
	LayoutVersion  = "v1"
	DefaultBuckets = 100
	DefaultSamples = 1000
)

// Layout is the binning contract shared with renderers. Bucket i covers
// [i/N*100, (i+1)/N*100); the top edge 100 is closed into the last bucket.
// Baseline and trial histograms always use the same Layout.
type Layout struct {
	Version string `json:"version" yaml:"version"`
	Buckets int    `json:"buckets" yaml:"buckets"`
	Samples int    `json:"samples" yaml:"samples"`
}

// DefaultLayout returns the documented v1 contract: 100 buckets, 1000 samples.
func DefaultLayout() Layout {
	return Layout{Version: LayoutVersion, Buckets: DefaultBuckets, Samples: DefaultSamples}
}

func (l Layout) Validate() error {
	if l.Version == "" {
		return fmt.Errorf("%w: layout version is required", ErrInvalidConfig)
	}
	if l.Buckets < 2 {
		return fmt.Errorf("%w: layout buckets must be >= 2, got %d", ErrInvalidConfig, l.Buckets)
	}
	if l.Samples < 1 {
		return fmt.Errorf("%w: layout samples must be >= 1, got %d", ErrInvalidConfig, l.Samples)
	}
	return nil
}

// Bucket maps an outcome to its bucket index: floor(x/100*N) clamped to [0, N-1].
func (l Layout) Bucket(x float64) int {
	if math.IsNaN(x) {
		return 0
	}
	// multiply first so integral outcomes land exactly on their bucket edge
	i := int(math.Floor(x * float64(l.Buckets) / MaxOutcome))
	if i < 0 {
		return 0
	}
	if i > l.Buckets-1 {
		return l.Buckets - 1
	}
	return i
}

// Range returns the outcome interval [lo, hi) covered by bucket i.
func (l Layout) Range(i int) (lo, hi float64) {
	n := float64(l.Buckets)
	return float64(i) * MaxOutcome / n, float64(i+1) * MaxOutcome / n
}

// Position is the proportional x coordinate of bucket i in [0,1]: i/(N-1).
func (l Layout) Position(i int) float64 {
	return float64(i) / float64(l.Buckets-1)
}

// OutcomePosition is the proportional x coordinate of an outcome marker in [0,1].
func (l Layout) OutcomePosition(outcome float64) float64 {
	return clampOutcome(outcome) / MaxOutcome
}

// Geometry is what a renderer needs to place bars and the outcome marker.
type Geometry struct {
	BucketWidth float64   `json:"bucket_width"`
	Positions   []float64 `json:"positions"`
}

// Geometry returns the bucket width in percent and every bucket's Position.
func (l Layout) Geometry() Geometry {
	lo, hi := l.Range(0)
	g := Geometry{BucketWidth: hi - lo, Positions: make([]float64, l.Buckets)}
	for i := range g.Positions {
		g.Positions[i] = l.Position(i)
	}
	return g
}

// Fill bucketizes samples into a fresh histogram of length Buckets.
func (l Layout) Fill(samples []float64) Histogram {
	h := make(Histogram, l.Buckets)
	for _, x := range samples {
		h[l.Bucket(x)]++
	}
	return h
}

// Histogram holds per-bucket counts. Index order is the bucket order and is never changed.
type Histogram []int

func (h Histogram) Total() int {
	total := 0
	for _, c := range h {
		total += c
	}
	return total
}

// Frequencies returns counts normalized by the total; all zeros for an empty histogram.
func (h Histogram) Frequencies() []float64 {
	out := make([]float64, len(h))
	total := h.Total()
	if total == 0 {
		return out
	}
	for i, c := range h {
		out[i] = float64(c) / float64(total)
	}
	return out
}

// Peak returns the index of the highest bucket (lowest index on ties), -1 if empty.
func (h Histogram) Peak() int {
	peak := -1
	best := 0
	for i, c := range h {
		if c > best {
			best = c
			peak = i
		}
	}
	return peak
}
