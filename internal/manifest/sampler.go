package manifest

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// Sampler produces one outcome in [0,100] per call.
type Sampler interface {
	Sample(rng RandomSource) float64
}

// uniform draws from rng, kept strictly inside (0,1) so inverse CDFs stay finite.
func uniform(rng RandomSource) float64 {
	u := rng.Float64()
	if u <= 0 {
		return math.SmallestNonzeroFloat64
	}
	if u >= 1 {
		return math.Nextafter(1, 0)
	}
	return u
}

// BaselineSampler draws what chance alone produces: a normal around the
// midpoint, clamped into range so every draw lands in a bucket.
type BaselineSampler struct {
	dist distuv.Normal
}

func NewBaselineSampler(p BaselineParams) (*BaselineSampler, error) {
	if !finite(p.Mean) || !finite(p.StdDev) || p.StdDev <= 0 {
		return nil, fmt.Errorf("%w: baseline mean=%v std_dev=%v", ErrInvalidConfig, p.Mean, p.StdDev)
	}
	return &BaselineSampler{dist: distuv.Normal{Mu: p.Mean, Sigma: p.StdDev}}, nil
}

func (s *BaselineSampler) Sample(rng RandomSource) float64 {
	return clampOutcome(s.dist.Quantile(uniform(rng)))
}

// MixtureWeight is the share of the high-outcome cluster for intensity:
// floor + (1-2*floor) * curve(intensity). Non-decreasing in intensity and
// always inside [floor, 1-floor], so both clusters stay populated.
func MixtureWeight(intensity int, p TrialParams) float64 {
	var ramp float64
	switch p.Curve {
	case CurveObserver, "":
		ramp = NewObserver(intensity, p.Pivot, p.Scale).CollapseProbability()
	default:
		ramp = ease(p.Curve, intensityProgress(intensity))
	}
	return p.Floor + (1-2*p.Floor)*ramp
}

// TrialSampler draws the wisher's outcome: either the "doesn't manifest"
// cluster near the bottom or the "manifests" cluster near the top.
type TrialSampler struct {
	weight float64
	low    distuv.Beta
	high   distuv.Beta
}

// NewTrialSampler builds the sampler for one intensity. Out-of-range intensity
// is a caller defect and is reported as ErrInvalidIntensity.
func NewTrialSampler(intensity int, p TrialParams) (*TrialSampler, error) {
	if err := ValidateIntensity(intensity); err != nil {
		return nil, err
	}
	w := MixtureWeight(intensity, p)
	if err := validateProb(w); err != nil {
		return nil, fmt.Errorf("%w: mixture weight %v", ErrInvalidConfig, w)
	}
	return &TrialSampler{
		weight: w,
		low:    distuv.Beta{Alpha: p.Low.Alpha, Beta: p.Low.Beta},
		high:   distuv.Beta{Alpha: p.High.Alpha, Beta: p.High.Beta},
	}, nil
}

// Weight returns the high-cluster mixture weight.
func (s *TrialSampler) Weight() float64 { return s.weight }

func (s *TrialSampler) Sample(rng RandomSource) float64 {
	// weight is validated at construction
	high, _ := Chance(s.weight, rng)
	dist := s.low
	if high {
		dist = s.high
	}
	return clampOutcome(dist.Quantile(uniform(rng)) * MaxOutcome)
}
