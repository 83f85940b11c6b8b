package profile

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sync"

	"gopkg.in/yaml.v3"
)

// DefaultProfile names the base layer alone.
const DefaultProfile = "default"

var (
	ErrInvalidName = errors.New("invalid profile name")
	ErrNotFound    = errors.New("profile not found")

	namePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)
)

// ValidateName rejects names that could escape the profiles directory.
func ValidateName(name string) error {
	if !namePattern.MatchString(name) {
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return nil
}

// Paths helper for default/profile files.
type Paths struct {
	BaseDir string // base directory, e.g., /opt/app/config
}

func (p Paths) DefaultPath() string {
	return filepath.Join(p.BaseDir, "engine", "default.yaml")
}

func (p Paths) ProfilePath(name string) string {
	return filepath.Join(p.BaseDir, "engine", "profiles", name+".yaml")
}

// Loader reads YAML layers and merges default → profile.
type Loader struct {
	paths Paths

	mu    sync.RWMutex
	cache map[string]RawConfig // key: profile name
	gen   uint64               // bumped by Invalidate
}

// NewLoader creates a config loader with the given base directory.
func NewLoader(baseDir string) *Loader {
	return &Loader{
		paths: Paths{BaseDir: baseDir},
		cache: make(map[string]RawConfig),
	}
}

func (l *Loader) Paths() Paths { return l.paths }

// LoadMerged loads and merges default → profile. The default profile is the
// base layer alone and may be missing; any other profile needs its own file.
// The result is not normalized.
func (l *Loader) LoadMerged(name string) (RawConfig, error) {
	if err := ValidateName(name); err != nil {
		return RawConfig{}, err
	}
	l.mu.RLock()
	if cfg, ok := l.cache[name]; ok {
		l.mu.RUnlock()
		return cfg, nil
	}
	gen := l.gen
	l.mu.RUnlock()

	merged, err := readYAML(l.paths.DefaultPath())
	if err != nil {
		return RawConfig{}, fmt.Errorf("read default: %w", err)
	}
	if name != DefaultProfile {
		path := l.paths.ProfilePath(name)
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		layer, err := readYAML(path)
		if err != nil {
			return RawConfig{}, fmt.Errorf("read profile %s: %w", name, err)
		}
		merged = mergeRaw(merged, layer)
	}

	l.store(name, merged, gen)
	return merged, nil
}

// store caches cfg unless Invalidate ran after gen was read.
func (l *Loader) store(name string, cfg RawConfig, gen uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.gen == gen {
		l.cache[name] = cfg
	}
}

// Invalidate clears loader's cache. Call after hot-reload detects changes.
func (l *Loader) Invalidate() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.cache = make(map[string]RawConfig)
	l.gen++
}

// readYAML loads a YAML file into RawConfig. Missing files return zero cfg, no error.
func readYAML(path string) (RawConfig, error) {
	var cfg RawConfig
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return RawConfig{}, nil
		}
		return RawConfig{}, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return RawConfig{}, fmt.Errorf("decode %s: %w", path, err)
	}
	return cfg, nil
}

func override[T any](dst **T, src *T) {
	if src != nil {
		v := *src
		*dst = &v
	}
}

func mergeCluster(a, b *ClusterCfg) *ClusterCfg {
	switch {
	case b == nil:
		return a
	case a == nil:
		c := *b
		return &c
	}
	out := *a
	override(&out.Alpha, b.Alpha)
	override(&out.Beta, b.Beta)
	return &out
}

// mergeRaw returns a with every field set in b overriding it.
func mergeRaw(a, b RawConfig) RawConfig {
	out := a

	if b.Version != "" {
		out.Version = b.Version
	}
	if b.Notes != "" {
		out.Notes = b.Notes
	}

	// layout
	override(&out.Layout.Buckets, b.Layout.Buckets)
	override(&out.Layout.Samples, b.Layout.Samples)

	// baseline
	override(&out.Baseline.Mean, b.Baseline.Mean)
	override(&out.Baseline.StdDev, b.Baseline.StdDev)

	// trial
	if b.Trial.Curve != "" {
		out.Trial.Curve = b.Trial.Curve
	}
	override(&out.Trial.Floor, b.Trial.Floor)
	override(&out.Trial.Pivot, b.Trial.Pivot)
	override(&out.Trial.Scale, b.Trial.Scale)
	out.Trial.Low = mergeCluster(a.Trial.Low, b.Trial.Low)
	out.Trial.High = mergeCluster(a.Trial.High, b.Trial.High)

	return out
}
