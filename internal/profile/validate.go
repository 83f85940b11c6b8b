package profile

import (
	"fmt"
	"strings"

	"github.com/xtding233/wishmachine/internal/manifest"
)

// ValidateRaw checks semantic constraints of a RawConfig layer.
func ValidateRaw(cfg RawConfig) error {
	var errs []string

	// layout
	if cfg.Layout.Buckets != nil && *cfg.Layout.Buckets < 2 {
		errs = append(errs, "layout.buckets must be >= 2")
	}
	if cfg.Layout.Samples != nil && *cfg.Layout.Samples < 1 {
		errs = append(errs, "layout.samples must be >= 1")
	}

	// baseline
	if cfg.Baseline.StdDev != nil && *cfg.Baseline.StdDev <= 0 {
		errs = append(errs, "baseline.std_dev must be > 0")
	}

	// trial
	switch cfg.Trial.Curve {
	case "", "observer", "linear", "easeOutQuad", "easeInOutCubic":
	default:
		errs = append(errs, "trial.curve must be one of: observer, linear, easeOutQuad, easeInOutCubic")
	}
	if cfg.Trial.Floor != nil && !(*cfg.Trial.Floor >= manifest.MinFloor && *cfg.Trial.Floor < 0.5) {
		errs = append(errs, fmt.Sprintf("trial.floor must be in [%g,0.5)", manifest.MinFloor))
	}
	if cfg.Trial.Scale != nil && *cfg.Trial.Scale <= 0 {
		errs = append(errs, "trial.scale must be > 0")
	}
	clusters := []struct {
		name string
		c    *ClusterCfg
	}{{"low", cfg.Trial.Low}, {"high", cfg.Trial.High}}
	for _, cl := range clusters {
		name, c := cl.name, cl.c
		if c == nil {
			continue
		}
		if c.Alpha != nil && *c.Alpha <= 1 {
			errs = append(errs, fmt.Sprintf("trial.%s.alpha must be > 1", name))
		}
		if c.Beta != nil && *c.Beta <= 1 {
			errs = append(errs, fmt.Sprintf("trial.%s.beta must be > 1", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
