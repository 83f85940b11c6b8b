// resolve.go
package profile

import (
	"fmt"

	"github.com/xtding233/wishmachine/internal/manifest"
)

// Resolve overlays a merged RawConfig on manifest.DefaultConfig and validates
// the result.
func Resolve(raw RawConfig) (manifest.Config, error) {
	if err := ValidateRaw(raw); err != nil {
		return manifest.Config{}, err
	}
	cfg := manifest.DefaultConfig()

	if raw.Version != "" {
		cfg.Layout.Version = raw.Version
	}
	set(&cfg.Layout.Buckets, raw.Layout.Buckets)
	set(&cfg.Layout.Samples, raw.Layout.Samples)

	set(&cfg.Baseline.Mean, raw.Baseline.Mean)
	set(&cfg.Baseline.StdDev, raw.Baseline.StdDev)

	if raw.Trial.Curve != "" {
		cfg.Trial.Curve = manifest.Curve(raw.Trial.Curve)
	}
	set(&cfg.Trial.Floor, raw.Trial.Floor)
	set(&cfg.Trial.Pivot, raw.Trial.Pivot)
	set(&cfg.Trial.Scale, raw.Trial.Scale)
	if c := raw.Trial.Low; c != nil {
		set(&cfg.Trial.Low.Alpha, c.Alpha)
		set(&cfg.Trial.Low.Beta, c.Beta)
	}
	if c := raw.Trial.High; c != nil {
		set(&cfg.Trial.High.Alpha, c.Alpha)
		set(&cfg.Trial.High.Beta, c.Beta)
	}

	if err := cfg.Validate(); err != nil {
		return manifest.Config{}, fmt.Errorf("resolve profile: %w", err)
	}
	return cfg, nil
}

func set[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
