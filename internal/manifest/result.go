package manifest

import (
	"errors"
	"fmt"
)

// SimulationResult is the output contract for one wish. It is built once per
// run and never mutated afterwards.
type SimulationResult struct {
	Layout            Layout    `json:"layout"`
	Intensity         int       `json:"intensity"`
	BaselineHistogram Histogram `json:"baseline_histogram"`
	TrialHistogram    Histogram `json:"trial_histogram"`
	OutcomePercent    float64   `json:"outcome_percent"`
	// OutcomePosition and the frequency series are the proportional view of
	// the same run, in [0,1].
	OutcomePosition     float64   `json:"outcome_position"`
	BaselineFrequencies []float64 `json:"baseline_frequencies"`
	TrialFrequencies    []float64 `json:"trial_frequencies"`
	MixtureWeight       float64   `json:"mixture_weight"`
	Observer            Observer  `json:"observer"`
	Summary             Summary   `json:"summary"`
}

// OutcomeBucket returns the trial bucket holding OutcomePercent.
func (r *SimulationResult) OutcomeBucket() int {
	return r.Layout.Bucket(r.OutcomePercent)
}

// Verify checks the invariants a renderer relies on. Any failure wraps
// ErrContractViolation.
func (r *SimulationResult) Verify() error {
	var errs []error
	n := r.Layout.Buckets
	if len(r.BaselineHistogram) != n || len(r.TrialHistogram) != n {
		errs = append(errs, fmt.Errorf("histogram lengths baseline=%d trial=%d, want %d",
			len(r.BaselineHistogram), len(r.TrialHistogram), n))
	}
	if got := r.BaselineHistogram.Total(); got != r.Layout.Samples {
		errs = append(errs, fmt.Errorf("baseline total %d, want %d", got, r.Layout.Samples))
	}
	if got := r.TrialHistogram.Total(); got != r.Layout.Samples {
		errs = append(errs, fmt.Errorf("trial total %d, want %d", got, r.Layout.Samples))
	}
	if !(r.OutcomePercent >= MinOutcome && r.OutcomePercent <= MaxOutcome) {
		errs = append(errs, fmt.Errorf("outcome %v outside [0,100]", r.OutcomePercent))
	} else if b := r.OutcomeBucket(); b >= len(r.TrialHistogram) || r.TrialHistogram[b] == 0 {
		errs = append(errs, fmt.Errorf("outcome %v lands in empty trial bucket %d", r.OutcomePercent, b))
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrContractViolation, errors.Join(errs...))
	}
	return nil
}

// assemble packages the run and refuses to hand out a result that breaks the contract.
func assemble(layout Layout, intensity int, baseline, trial []float64, outcome float64, weight float64, obs Observer) (*SimulationResult, error) {
	r := &SimulationResult{
		Layout:            layout,
		Intensity:         intensity,
		BaselineHistogram: layout.Fill(baseline),
		TrialHistogram:    layout.Fill(trial),
		OutcomePercent:    outcome,
		OutcomePosition:   layout.OutcomePosition(outcome),
		MixtureWeight:     weight,
		Observer:          obs,
		Summary:           summarize(baseline, trial),
	}
	r.BaselineFrequencies = r.BaselineHistogram.Frequencies()
	r.TrialFrequencies = r.TrialHistogram.Frequencies()
	if err := r.Verify(); err != nil {
		return nil, err
	}
	return r, nil
}
