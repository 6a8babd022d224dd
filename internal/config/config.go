// Package config handles configuration loading, validation, and live
// reload for swipekit tools.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"

	"swipekit/pkg/swipe"
)

// Version is the current configuration schema version.
const Version = 1

// Config holds the complete tool configuration.
type Config struct {
	// Version is the configuration schema version.
	Version int `toml:"version"`

	// Detector holds the gesture engine tuning.
	Detector DetectorConfig `toml:"detector"`

	// Logging configuration.
	Logging LoggingConfig `toml:"logging"`

	// Trace configuration for the gesture trace database.
	Trace TraceConfig `toml:"trace"`
}

// DetectorConfig mirrors swipe.ThresholdConfig in file-friendly units.
type DetectorConfig struct {
	// Sensitivity divides every distance and velocity threshold.
	// Valid range is 0.5 to 2.0.
	Sensitivity float64 `toml:"sensitivity"`

	// Density is the device pixel density (px per dp).
	Density float64 `toml:"density"`

	// TapThreshold is the tap displacement ceiling in dp.
	TapThreshold float64 `toml:"tap_threshold"`

	// SwipeMinDistance is the cursor-swipe minimum in dp.
	SwipeMinDistance float64 `toml:"swipe_min_distance"`

	// SwipeTypeMinDistance is the word-swipe minimum in dp.
	SwipeTypeMinDistance float64 `toml:"swipe_type_min_distance"`

	// VelocityThreshold is the flick velocity floor in dp/ms.
	VelocityThreshold float64 `toml:"velocity_threshold"`

	// MinTypingDurationMs is the word-swipe duration floor.
	MinTypingDurationMs int `toml:"min_typing_duration_ms"`

	// QuickGestureCapMs is the flick duration ceiling.
	QuickGestureCapMs int `toml:"quick_gesture_cap_ms"`

	// SampleIntervalMs rate-limits path recording.
	SampleIntervalMs int `toml:"sample_interval_ms"`

	// MaxPathSamples caps the recorded path length.
	MaxPathSamples int `toml:"max_path_samples"`

	// ResampleCount is the probabilistic extractor's point count.
	ResampleCount int `toml:"resample_count"`

	// SigmaFactor scales the Gaussian spread per key half-extent.
	SigmaFactor float64 `toml:"sigma_factor"`

	// NoiseFloor discards Gaussian probabilities below this value.
	NoiseFloor float64 `toml:"noise_floor"`

	// ConfidenceOverride re-appends a key above this probability.
	ConfidenceOverride float64 `toml:"confidence_override"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level    string `toml:"level"`
	Format   string `toml:"format"`
	Output   string `toml:"output"`
	FilePath string `toml:"file_path"`
}

// TraceConfig holds gesture trace database configuration.
type TraceConfig struct {
	// Path is the SQLite database file for recorded traces.
	Path string `toml:"path"`
}

// DefaultConfig returns a configuration matching the engine defaults.
func DefaultConfig() *Config {
	t := swipe.DefaultThresholds()
	return &Config{
		Version: Version,
		Detector: DetectorConfig{
			Sensitivity:          t.Sensitivity,
			Density:              t.Density,
			TapThreshold:         t.TapThreshold,
			SwipeMinDistance:     t.SwipeMinDistance,
			SwipeTypeMinDistance: t.SwipeTypeMinDistance,
			VelocityThreshold:    t.VelocityThreshold,
			MinTypingDurationMs:  int(t.MinTypingDuration / time.Millisecond),
			QuickGestureCapMs:    int(t.QuickGestureCap / time.Millisecond),
			SampleIntervalMs:     int(t.SampleInterval / time.Millisecond),
			MaxPathSamples:       t.MaxPathSamples,
			ResampleCount:        t.ResampleCount,
			SigmaFactor:          t.SigmaFactor,
			NoiseFloor:           t.NoiseFloor,
			ConfidenceOverride:   t.ConfidenceOverride,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Trace: TraceConfig{
			Path: "swipekit-traces.db",
		},
	}
}

// DefaultPath returns the per-user config file location, or "" when the
// platform config directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "swipekit", "swipekit.toml")
}

// Load reads a TOML config file, filling unset fields from the defaults,
// and validates the result.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	meta, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return nil, fmt.Errorf("config: unknown keys: %s", strings.Join(keys, ", "))
	}
	if err := Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the configuration as TOML.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create config: %w", err)
	}
	defer f.Close()
	if err := toml.NewEncoder(f).Encode(c); err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	return nil
}

// Thresholds converts the detector section into engine tuning.
func (c *Config) Thresholds() swipe.ThresholdConfig {
	d := c.Detector
	return swipe.ThresholdConfig{
		TapThreshold:         d.TapThreshold,
		SwipeMinDistance:     d.SwipeMinDistance,
		SwipeTypeMinDistance: d.SwipeTypeMinDistance,
		VelocityThreshold:    d.VelocityThreshold,
		MinTypingDuration:    time.Duration(d.MinTypingDurationMs) * time.Millisecond,
		QuickGestureCap:      time.Duration(d.QuickGestureCapMs) * time.Millisecond,
		SampleInterval:       time.Duration(d.SampleIntervalMs) * time.Millisecond,
		MaxPathSamples:       d.MaxPathSamples,
		ResampleCount:        d.ResampleCount,
		SigmaFactor:          d.SigmaFactor,
		NoiseFloor:           d.NoiseFloor,
		ConfidenceOverride:   d.ConfidenceOverride,
		NearKeyRadiusScale:   swipe.DefaultThresholds().NearKeyRadiusScale,
		DedupRadiusScale:     swipe.DefaultThresholds().DedupRadiusScale,
		Sensitivity:          d.Sensitivity,
		Density:              d.Density,
	}
}
