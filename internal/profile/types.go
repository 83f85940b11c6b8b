// types.go
package profile

// RawConfig is one YAML layer of an engine profile. Unset fields fall through
// to the layer below and finally to manifest.DefaultConfig.
type RawConfig struct {
	Version  string         `yaml:"version"`
	Layout   LayoutConfig   `yaml:"layout"`
	Baseline BaselineConfig `yaml:"baseline"`
	Trial    TrialConfig    `yaml:"trial"`
	Notes    string         `yaml:"notes,omitempty"`
}

type LayoutConfig struct {
	Buckets *int `yaml:"buckets"`
	Samples *int `yaml:"samples"`
}

type BaselineConfig struct {
	Mean   *float64 `yaml:"mean"`
	StdDev *float64 `yaml:"std_dev"`
}

type TrialConfig struct {
	Curve string      `yaml:"curve,omitempty"` // observer | linear | easeOutQuad | easeInOutCubic
	Floor *float64    `yaml:"floor"`
	Pivot *float64    `yaml:"pivot"`
	Scale *float64    `yaml:"scale"`
	Low   *ClusterCfg `yaml:"low,omitempty"`
	High  *ClusterCfg `yaml:"high,omitempty"`
}

type ClusterCfg struct {
	Alpha *float64 `yaml:"alpha"`
	Beta  *float64 `yaml:"beta"`
}
