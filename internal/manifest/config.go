package manifest

import (
	"errors"
	"fmt"
	"math"
)

// Cluster is one Beta-shaped component of the trial mixture, on the unit interval.
type Cluster struct {
	Alpha float64 `json:"alpha" yaml:"alpha"`
	Beta  float64 `json:"beta" yaml:"beta"`
}

func (c Cluster) mean() float64 { return c.Alpha / (c.Alpha + c.Beta) }

func (c Cluster) stdDev() float64 {
	s := c.Alpha + c.Beta
	return math.Sqrt(c.Alpha * c.Beta / (s * s * (s + 1)))
}

// Bounds that keep the trial histogram two-peaked at every intensity.
const (
	// MinFloor is the smallest share either cluster may get.
	MinFloor = 0.05
	// MinClusterSeparation is the minimum distance between the cluster means,
	// in units of the sum of their standard deviations.
	MinClusterSeparation = 2.5
)

// ClusterSeparation is (mean(high) - mean(low)) / (sd(low) + sd(high)).
func ClusterSeparation(low, high Cluster) float64 {
	return (high.mean() - low.mean()) / (low.stdDev() + high.stdDev())
}

// BaselineParams shapes the chance-only distribution.
type BaselineParams struct {
	Mean   float64 `json:"mean" yaml:"mean"`
	StdDev float64 `json:"std_dev" yaml:"std_dev"`
}

// TrialParams shapes the intensity-biased bimodal distribution.
type TrialParams struct {
	Curve Curve   `json:"curve" yaml:"curve"`
	Floor float64 `json:"floor" yaml:"floor"` // minimum weight of either cluster, in [MinFloor, 0.5)
	Pivot float64 `json:"pivot" yaml:"pivot"` // intensity of zero preference (observer curve)
	Scale float64 `json:"scale" yaml:"scale"` // intensity units per unit of preference (observer curve)
	Low   Cluster `json:"low" yaml:"low"`
	High  Cluster `json:"high" yaml:"high"`
}

// Config fully determines an Engine.
type Config struct {
	Layout   Layout         `json:"layout" yaml:"layout"`
	Baseline BaselineParams `json:"baseline" yaml:"baseline"`
	Trial    TrialParams    `json:"trial" yaml:"trial"`
}

// DefaultConfig returns the documented deployment: 100 buckets, 1000 samples,
// a N(50, 15) baseline and Beta(4,16)/Beta(16,4) trial clusters.
func DefaultConfig() Config {
	return Config{
		Layout:   DefaultLayout(),
		Baseline: BaselineParams{Mean: 50, StdDev: 15},
		Trial: TrialParams{
			Curve: CurveObserver,
			Floor: 0.15,
			Pivot: 50.5,
			Scale: 25,
			Low:   Cluster{Alpha: 4, Beta: 16},
			High:  Cluster{Alpha: 16, Beta: 4},
		},
	}
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

// Validate reports every problem with the config, joined.
func (c Config) Validate() error {
	var errs []error
	if err := c.Layout.Validate(); err != nil {
		errs = append(errs, err)
	}
	if !finite(c.Baseline.Mean) {
		errs = append(errs, fmt.Errorf("%w: baseline mean must be finite", ErrInvalidConfig))
	}
	if !finite(c.Baseline.StdDev) || c.Baseline.StdDev <= 0 {
		errs = append(errs, fmt.Errorf("%w: baseline std_dev must be > 0", ErrInvalidConfig))
	}
	t := c.Trial
	if !t.Curve.valid() {
		errs = append(errs, fmt.Errorf("%w: trial curve %q is unknown", ErrInvalidConfig, t.Curve))
	}
	if !(t.Floor >= MinFloor && t.Floor < 0.5) {
		errs = append(errs, fmt.Errorf("%w: trial floor must be in [%g, 0.5)", ErrInvalidConfig, MinFloor))
	}
	if !finite(t.Pivot) {
		errs = append(errs, fmt.Errorf("%w: trial pivot must be finite", ErrInvalidConfig))
	}
	if !finite(t.Scale) || t.Scale <= 0 {
		errs = append(errs, fmt.Errorf("%w: trial scale must be > 0", ErrInvalidConfig))
	}
	clustersOK := true
	for _, cl := range []struct {
		name string
		c    Cluster
	}{{"low", t.Low}, {"high", t.High}} {
		// alpha, beta > 1 gives each cluster an interior peak
		if !finite(cl.c.Alpha) || !finite(cl.c.Beta) || cl.c.Alpha <= 1 || cl.c.Beta <= 1 {
			errs = append(errs, fmt.Errorf("%w: trial %s cluster alpha and beta must be > 1", ErrInvalidConfig, cl.name))
			clustersOK = false
		}
	}
	if clustersOK {
		if t.Low.mean() >= t.High.mean() {
			errs = append(errs, fmt.Errorf("%w: trial low cluster mean must be below the high cluster mean", ErrInvalidConfig))
		} else if sep := ClusterSeparation(t.Low, t.High); sep < MinClusterSeparation {
			errs = append(errs, fmt.Errorf("%w: trial clusters overlap (separation %.2f, need >= %g)",
				ErrInvalidConfig, sep, MinClusterSeparation))
		}
	}
	return errors.Join(errs...)
}
