// Package manifest is the outcome simulation engine: it draws a chance-only
// baseline and an intensity-biased trial series, bins both on one layout and
// picks the outcome shown to the wisher.
package manifest

import "fmt"

// Engine runs simulations for one immutable Config. It holds no mutable state
// and is safe for concurrent use; every Run brings its own RandomSource.
type Engine struct {
	cfg      Config
	baseline *BaselineSampler
}

func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	baseline, err := NewBaselineSampler(cfg.Baseline)
	if err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg, baseline: baseline}, nil
}

// Config returns the engine configuration.
func (e *Engine) Config() Config { return e.cfg }

// Layout returns the binning contract of every result this engine produces.
func (e *Engine) Layout() Layout { return e.cfg.Layout }

// draw collects n samples from s.
func draw(s Sampler, n int, rng RandomSource) []float64 {
	xs := make([]float64, n)
	for i := range xs {
		xs[i] = s.Sample(rng)
	}
	return xs
}

// Run simulates one wish.
//   - baseline: Samples draws from the chance-only sampler
//   - trial: Samples draws from the intensity-biased sampler
//   - outcome: one trial draw picked by a uniform index, so its bucket is never empty
//
// A nil rng falls back to DefaultRNG.
func (e *Engine) Run(intensity int, rng RandomSource) (*SimulationResult, error) {
	trial, err := NewTrialSampler(intensity, e.cfg.Trial)
	if err != nil {
		return nil, err
	}
	if rng == nil {
		rng = DefaultRNG()
	}
	n := e.cfg.Layout.Samples

	baselineDraws := draw(e.baseline, n, rng)
	trialDraws := draw(trial, n, rng)

	pick := int(rng.Float64() * float64(n))
	if pick >= n {
		pick = n - 1
	}
	outcome := trialDraws[pick]

	obs := NewObserver(intensity, e.cfg.Trial.Pivot, e.cfg.Trial.Scale)
	res, err := assemble(e.cfg.Layout, intensity, baselineDraws, trialDraws, outcome, trial.Weight(), obs)
	if err != nil {
		return nil, fmt.Errorf("run intensity %d: %w", intensity, err)
	}
	return res, nil
}
