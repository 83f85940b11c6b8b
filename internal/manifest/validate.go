package manifest

import (
	"errors"
	"fmt"
	"math"
)

const (
	MinIntensity = 1
	MaxIntensity = 100

	MinOutcome = 0.0
	MaxOutcome = 100.0
)

var (
	ErrInvalidProb      = errors.New("invalid probability p; must be 0..1")
	ErrInvalidIntensity = errors.New("intensity must be between 1 and 100")
	ErrInvalidConfig    = errors.New("invalid engine config")
	// ErrContractViolation marks a result that broke the output contract. It is a defect, never user input.
	ErrContractViolation = errors.New("simulation contract violated")
)

func validateProb(p float64) error {
	if math.IsNaN(p) || math.IsInf(p, 0) {
		return ErrInvalidProb
	}
	if p < 0 || p > 1 {
		return ErrInvalidProb
	}
	return nil
}

// ValidateIntensity reports whether intensity lies in [MinIntensity, MaxIntensity].
func ValidateIntensity(intensity int) error {
	if intensity < MinIntensity || intensity > MaxIntensity {
		return fmt.Errorf("%w: got %d", ErrInvalidIntensity, intensity)
	}
	return nil
}

// clampOutcome pulls x into [MinOutcome, MaxOutcome]. NaN lands on MinOutcome.
func clampOutcome(x float64) float64 {
	if math.IsNaN(x) || x < MinOutcome {
		return MinOutcome
	}
	if x > MaxOutcome {
		return MaxOutcome
	}
	return x
}
