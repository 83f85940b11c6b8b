package manifest

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

// ManifestThreshold splits outcomes into "manifested" (>= threshold) and not.
const ManifestThreshold = 50.0

// Stats summarizes one series of draws.
type Stats struct {
	Mean   float64 `json:"mean"`
	Var    float64 `json:"var"`
	StdDev float64 `json:"std_dev"`
	P50    float64 `json:"p50"`
	P90    float64 `json:"p90"`
	P99    float64 `json:"p99"`
}

// calcStats computes population mean/variance and percentiles.
func calcStats(xs []float64) Stats {
	if len(xs) == 0 {
		return Stats{}
	}
	mean, variance := stat.PopMeanVariance(xs, nil)

	cp := append([]float64(nil), xs...)
	sort.Float64s(cp)
	return Stats{
		Mean:   mean,
		Var:    variance,
		StdDev: math.Sqrt(variance),
		P50:    stat.Quantile(0.50, stat.LinInterp, cp, nil),
		P90:    stat.Quantile(0.90, stat.LinInterp, cp, nil),
		P99:    stat.Quantile(0.99, stat.LinInterp, cp, nil),
	}
}

// Summary reports both series and how often the wish manifested in each.
type Summary struct {
	Trial    Stats `json:"trial"`
	Baseline Stats `json:"baseline"`

	ManifestedCount           int     `json:"manifested_count"`
	NotManifestedCount        int     `json:"not_manifested_count"`
	ManifestedPercent         float64 `json:"manifested_percent"`
	NotManifestedPercent      float64 `json:"not_manifested_percent"`
	BaselineManifestedPercent float64 `json:"baseline_manifested_percent"`
	DifferenceFromBaseline    float64 `json:"difference_from_baseline"`
}

func countManifested(xs []float64) int {
	n := 0
	for _, x := range xs {
		if x >= ManifestThreshold {
			n++
		}
	}
	return n
}

func summarize(baseline, trial []float64) Summary {
	s := Summary{
		Trial:    calcStats(trial),
		Baseline: calcStats(baseline),
	}
	if len(trial) == 0 {
		return s
	}
	s.ManifestedCount = countManifested(trial)
	s.NotManifestedCount = len(trial) - s.ManifestedCount
	s.ManifestedPercent = float64(s.ManifestedCount) / float64(len(trial)) * 100
	s.NotManifestedPercent = 100 - s.ManifestedPercent
	if len(baseline) > 0 {
		s.BaselineManifestedPercent = float64(countManifested(baseline)) / float64(len(baseline)) * 100
	}
	s.DifferenceFromBaseline = s.ManifestedPercent - s.BaselineManifestedPercent
	return s
}
