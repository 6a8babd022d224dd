package swipe

import (
	"fmt"
	"time"
)

// Sensitivity limits. Values outside this range are clamped by Validate.
const (
	MinSensitivity = 0.5
	MaxSensitivity = 2.0
)

// ThresholdConfig holds every tuning constant of the detector.
//
// Distance fields are density-independent (dp): before comparison they are
// multiplied by Density and divided by Sensitivity, so a higher sensitivity
// makes every gesture easier to trigger. The config is owned by the
// detector instance and is never mutated mid-gesture; SetThresholds on a
// busy detector defers the swap until the current gesture ends.
type ThresholdConfig struct {
	// TapThreshold is the displacement (dp) below which a gesture is a tap.
	TapThreshold float64

	// SwipeMinDistance is the minimum displacement (dp) for a cursor swipe.
	SwipeMinDistance float64

	// SwipeTypeMinDistance is the minimum displacement (dp) for a word swipe.
	SwipeTypeMinDistance float64

	// VelocityThreshold is the minimum speed (dp per millisecond) for the
	// quick delete/shift flicks.
	VelocityThreshold float64

	// MinTypingDuration is the minimum duration of a word swipe. Shorter
	// multi-key crossings are treated as flicks.
	MinTypingDuration time.Duration

	// QuickGestureCap is the maximum duration of a delete/shift flick.
	QuickGestureCap time.Duration

	// SampleInterval rate-limits path recording: a move sample is accepted
	// only if this much time passed since the last accepted sample.
	SampleInterval time.Duration

	// MaxPathSamples caps the recorded path length. An arbitrarily long
	// hold keeps streaming events; the cap bounds memory.
	MaxPathSamples int

	// ResampleCount is the number of arc-length-even points the
	// probabilistic extractor resamples a path to.
	ResampleCount int

	// SigmaFactor scales the Gaussian standard deviation relative to a
	// key's half-extent. Empirical tuning constant.
	SigmaFactor float64

	// NoiseFloor discards Gaussian hit probabilities below this value.
	NoiseFloor float64

	// ConfidenceOverride re-appends the same key when its hit probability
	// exceeds this value, capturing fast repeated hits on one key.
	ConfidenceOverride float64

	// NearKeyRadiusScale is the nearest-key tolerance while swiping, as a
	// fraction of each candidate key's width.
	NearKeyRadiusScale float64

	// DedupRadiusScale is the fraction of a key's width the touch must
	// travel before the same key may be appended twice in a row.
	DedupRadiusScale float64

	// Sensitivity divides every distance and velocity threshold. Valid
	// range is [MinSensitivity, MaxSensitivity].
	Sensitivity float64

	// Density is the device pixel density (px per dp).
	Density float64
}

// DefaultThresholds returns the documented default tuning.
func DefaultThresholds() ThresholdConfig {
	return ThresholdConfig{
		TapThreshold:         25,
		SwipeMinDistance:     60,
		SwipeTypeMinDistance: 90,
		VelocityThreshold:    0.3,
		MinTypingDuration:    100 * time.Millisecond,
		QuickGestureCap:      300 * time.Millisecond,
		SampleInterval:       8 * time.Millisecond,
		MaxPathSamples:       2048,
		ResampleCount:        64,
		SigmaFactor:          0.8,
		NoiseFloor:           0.01,
		ConfidenceOverride:   0.85,
		NearKeyRadiusScale:   0.6,
		DedupRadiusScale:     0.5,
		Sensitivity:          1.0,
		Density:              1.0,
	}
}

// Validate clamps the sensitivity into its legal range and rejects
// nonsensical tuning values.
func (c *ThresholdConfig) Validate() error {
	if c.Sensitivity < MinSensitivity {
		c.Sensitivity = MinSensitivity
	}
	if c.Sensitivity > MaxSensitivity {
		c.Sensitivity = MaxSensitivity
	}
	if c.Density <= 0 {
		return fmt.Errorf("thresholds: density must be positive, got %g", c.Density)
	}
	if c.TapThreshold <= 0 || c.SwipeMinDistance <= 0 || c.SwipeTypeMinDistance <= 0 {
		return fmt.Errorf("thresholds: distance thresholds must be positive")
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("thresholds: sample interval must be positive")
	}
	if c.MaxPathSamples < 2 {
		return fmt.Errorf("thresholds: max path samples must be at least 2, got %d", c.MaxPathSamples)
	}
	if c.ResampleCount < 2 {
		return fmt.Errorf("thresholds: resample count must be at least 2, got %d", c.ResampleCount)
	}
	if c.SigmaFactor <= 0 {
		return fmt.Errorf("thresholds: sigma factor must be positive, got %g", c.SigmaFactor)
	}
	if c.NoiseFloor < 0 || c.NoiseFloor >= 1 {
		return fmt.Errorf("thresholds: noise floor must be in [0,1), got %g", c.NoiseFloor)
	}
	if c.ConfidenceOverride <= 0 || c.ConfidenceOverride > 1 {
		return fmt.Errorf("thresholds: confidence override must be in (0,1], got %g", c.ConfidenceOverride)
	}
	return nil
}

// scaleDistance converts a dp threshold into pixels, applying sensitivity.
func (c *ThresholdConfig) scaleDistance(dp float64) float64 {
	return dp * c.Density / c.Sensitivity
}

// tapDistance is the effective tap threshold in pixels.
func (c *ThresholdConfig) tapDistance() float64 {
	return c.scaleDistance(c.TapThreshold)
}

// minSwipeDistance is the effective cursor-swipe minimum in pixels.
func (c *ThresholdConfig) minSwipeDistance() float64 {
	return c.scaleDistance(c.SwipeMinDistance)
}

// minSwipeTypeDistance is the effective word-swipe minimum in pixels.
func (c *ThresholdConfig) minSwipeTypeDistance() float64 {
	return c.scaleDistance(c.SwipeTypeMinDistance)
}

// minVelocity is the effective flick velocity threshold in px/ms.
func (c *ThresholdConfig) minVelocity() float64 {
	return c.VelocityThreshold * c.Density / c.Sensitivity
}
