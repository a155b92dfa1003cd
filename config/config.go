// Package config loads mofcheck settings with viper.
//
// Precedence, lowest first: built-in defaults (SetDefaults), an optional
// config file (yaml, toml or json, picked by extension), then MOFCHECK_*
// environment variables with "." replaced by "_", e.g.
//
//	MOFCHECK_GRAPH_STRATEGY=jmol
//	MOFCHECK_THRESHOLDS_OMS_OPEN_RATIO=0.6
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/katalvlaran/mofcheck/checks"
)

// EnvPrefix is the environment variable prefix.
const EnvPrefix = "MOFCHECK"

// Config is the full settings tree.
type Config struct {
	Graph      GraphConfig     `mapstructure:"graph"`
	Thresholds ThresholdConfig `mapstructure:"thresholds"`
	Batch      BatchConfig     `mapstructure:"batch"`
	Memo       MemoConfig      `mapstructure:"memo"`
	External   ExternalConfig  `mapstructure:"external"`
	Log        LogConfig       `mapstructure:"log"`
}

// GraphConfig selects the neighbor strategy.
type GraphConfig struct {
	Strategy          string `mapstructure:"strategy"`
	StrictElementData bool   `mapstructure:"strict_element_data"`
}

// ThresholdConfig mirrors checks.Thresholds.
type ThresholdConfig struct {
	OMSOpenRatio           float64 `mapstructure:"oms_open_ratio"`
	ExposedAngle           float64 `mapstructure:"exposed_angle"`
	OverlapTolerance       float64 `mapstructure:"overlap_tolerance"`
	HighCharge             float64 `mapstructure:"high_charge"`
	MinPoreDiameter        float64 `mapstructure:"min_pore_diameter"`
	CarbonAngleTolerance   float64 `mapstructure:"carbon_angle_tolerance"`
	NitrogenAngleTolerance float64 `mapstructure:"nitrogen_angle_tolerance"`
	HydrogenBondLength     float64 `mapstructure:"hydrogen_bond_length"`
}

// BatchConfig sizes the batch worker pool. Zero means GOMAXPROCS.
type BatchConfig struct {
	Workers int `mapstructure:"workers"`
}

// MemoConfig sizes the process-wide result cache. Zero disables it.
type MemoConfig struct {
	Size int `mapstructure:"size"`
}

// ExternalConfig configures collaborator tools.
type ExternalConfig struct {
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	ZeoPPBinary    string `mapstructure:"zeopp_binary"`
}

// LogConfig configures the zap logger.
type LogConfig struct {
	Env   string `mapstructure:"env"`
	Level string `mapstructure:"level"`
}

// SetDefaults configures default values for all configuration options.
func SetDefaults(v *viper.Viper) {
	d := checks.DefaultThresholds()

	v.SetDefault("graph.strategy", "vesta")
	v.SetDefault("graph.strict_element_data", false)

	v.SetDefault("thresholds.oms_open_ratio", d.OMSOpenRatio)
	v.SetDefault("thresholds.exposed_angle", d.ExposedAngle) // degrees
	v.SetDefault("thresholds.overlap_tolerance", d.OverlapTolerance)
	v.SetDefault("thresholds.high_charge", d.HighCharge)
	v.SetDefault("thresholds.min_pore_diameter", d.MinPoreDiameter) // Å
	v.SetDefault("thresholds.carbon_angle_tolerance", d.CarbonAngleTolerance)
	v.SetDefault("thresholds.nitrogen_angle_tolerance", d.NitrogenAngleTolerance)
	v.SetDefault("thresholds.hydrogen_bond_length", d.HydrogenBondLength)

	v.SetDefault("batch.workers", 0)
	v.SetDefault("memo.size", 256)

	v.SetDefault("external.timeout_seconds", 120)
	v.SetDefault("external.zeopp_binary", "network")

	v.SetDefault("log.env", "development")
	v.SetDefault("log.level", "info")
}

// New returns a viper instance with defaults and environment binding.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// Load reads configuration from path (optional) on top of the defaults.
func Load(path string) (*Config, error) {
	v := New()
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}
	}
	return LoadWithViper(v)
}

// LoadWithViper unmarshals v into a Config.
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// CheckThresholds converts the threshold section for the check framework.
func (c *Config) CheckThresholds() checks.Thresholds {
	t := c.Thresholds
	return checks.Thresholds{
		OMSOpenRatio:           t.OMSOpenRatio,
		ExposedAngle:           t.ExposedAngle,
		OverlapTolerance:       t.OverlapTolerance,
		HighCharge:             t.HighCharge,
		MinPoreDiameter:        t.MinPoreDiameter,
		CarbonAngleTolerance:   t.CarbonAngleTolerance,
		NitrogenAngleTolerance: t.NitrogenAngleTolerance,
		HydrogenBondLength:     t.HydrogenBondLength,
	}
}

// Timeout is the per-call budget for external collaborators.
func (c *Config) Timeout() time.Duration {
	if c.External.TimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(c.External.TimeoutSeconds) * time.Second
}
