package manifest

import "math"

// Curve specifies how intensity ramps the weight of the high-outcome cluster.
type Curve string

const (
	CurveObserver       Curve = "observer"
	CurveLinear         Curve = "linear"
	CurveEaseOutQuad    Curve = "easeOutQuad"
	CurveEaseInOutCubic Curve = "easeInOutCubic"
)

func (c Curve) valid() bool {
	switch c {
	case CurveObserver, CurveLinear, CurveEaseOutQuad, CurveEaseInOutCubic:
		return true
	}
	return false
}

// ease maps progress t in [0,1] through the curve. Every curve is non-decreasing
// with ease(0)=0 and ease(1)=1.
func ease(c Curve, t float64) float64 {
	if t < 0 {
		t = 0
	}
	if t > 1 {
		t = 1
	}
	switch c {
	case CurveEaseOutQuad:
		// f(t) = 1 - (1 - t)^2
		return 1 - (1-t)*(1-t)
	case CurveEaseInOutCubic:
		// accelerate then decelerate
		if t < 0.5 {
			return 4 * t * t * t
		}
		return 1 - math.Pow(-2*t+2, 3)/2
	default:
		return t
	}
}

// intensityProgress is (intensity-1)/99.
func intensityProgress(intensity int) float64 {
	return float64(intensity-MinIntensity) / float64(MaxIntensity-MinIntensity)
}

// HumanConsciousness is the observer level reported for intensity 50.
const HumanConsciousness = 1e15

// Observer is the wishing observer for one run. Preference drives the collapse
// toward manifestation; Consciousness scales every outcome equally and so
// cancels out of the normalized probability.
type Observer struct {
	// Preference is centered on the pivot: (intensity-pivot)/scale, negative
	// below it. It is not intensity/50; that scale lives in Consciousness.
	Preference    float64 `json:"preference_strength"`
	Consciousness float64 `json:"consciousness_level"`
}

// NewObserver derives the observer from intensity; preference is zero at pivot.
func NewObserver(intensity int, pivot, scale float64) Observer {
	return Observer{
		Preference:    (float64(intensity) - pivot) / scale,
		Consciousness: HumanConsciousness * float64(intensity) / 50,
	}
}

// Value returns how much the observer values an outcome, in [-1, 1].
func (o Observer) Value(manifested bool) float64 {
	if manifested {
		return math.Tanh(o.Preference)
	}
	return math.Tanh(-o.Preference)
}

// CollapseProbability is the normalized chance of the manifested outcome when
// each outcome is weighted by 10^value over an equal superposition.
func (o Observer) CollapseProbability() float64 {
	up := math.Pow(10, o.Value(true))
	down := math.Pow(10, o.Value(false))
	return up / (up + down)
}
