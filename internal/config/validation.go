package config

import (
	"fmt"
	"strings"

	"swipekit/internal/logging"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config: %s: %s", e.Field, e.Message)
}

// ValidationErrors is a collection of validation errors.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return ""
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate performs comprehensive validation of the configuration.
func Validate(c *Config) error {
	var errs ValidationErrors

	if c.Version < 1 || c.Version > Version {
		errs = append(errs, ValidationError{
			Field:   "version",
			Message: fmt.Sprintf("unsupported version %d (current: %d)", c.Version, Version),
		})
	}

	d := c.Detector
	if d.Sensitivity < 0.5 || d.Sensitivity > 2.0 {
		errs = append(errs, ValidationError{
			Field:   "detector.sensitivity",
			Message: fmt.Sprintf("must be between 0.5 and 2.0, got %g", d.Sensitivity),
		})
	}
	if d.Density <= 0 {
		errs = append(errs, ValidationError{
			Field:   "detector.density",
			Message: "must be positive",
		})
	}
	if d.TapThreshold <= 0 || d.SwipeMinDistance <= 0 || d.SwipeTypeMinDistance <= 0 {
		errs = append(errs, ValidationError{
			Field:   "detector",
			Message: "distance thresholds must be positive",
		})
	}
	if d.SampleIntervalMs <= 0 {
		errs = append(errs, ValidationError{
			Field:   "detector.sample_interval_ms",
			Message: "must be positive",
		})
	}
	if d.MaxPathSamples < 2 {
		errs = append(errs, ValidationError{
			Field:   "detector.max_path_samples",
			Message: "must be at least 2",
		})
	}
	if d.ResampleCount < 2 {
		errs = append(errs, ValidationError{
			Field:   "detector.resample_count",
			Message: "must be at least 2",
		})
	}
	if d.SigmaFactor <= 0 {
		errs = append(errs, ValidationError{
			Field:   "detector.sigma_factor",
			Message: "must be positive",
		})
	}
	if d.NoiseFloor < 0 || d.NoiseFloor >= 1 {
		errs = append(errs, ValidationError{
			Field:   "detector.noise_floor",
			Message: "must be in [0, 1)",
		})
	}
	if d.ConfidenceOverride <= 0 || d.ConfidenceOverride > 1 {
		errs = append(errs, ValidationError{
			Field:   "detector.confidence_override",
			Message: "must be in (0, 1]",
		})
	}

	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.level",
			Message: err.Error(),
		})
	}
	if _, err := logging.ParseFormat(c.Logging.Format); err != nil {
		errs = append(errs, ValidationError{
			Field:   "logging.format",
			Message: err.Error(),
		})
	}
	if c.Logging.Output == "file" && c.Logging.FilePath == "" {
		errs = append(errs, ValidationError{
			Field:   "logging.file_path",
			Message: "required when output is \"file\"",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
