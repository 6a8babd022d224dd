package swipe

import (
	"math"

	"swipekit/pkg/layout"
)

// normalizedKey is a character key mapped into keyboard-relative space,
// with the Gaussian spread precomputed from its half-extents.
type normalizedKey struct {
	output string
	u, v   float64
	sigmaU float64
	sigmaV float64
}

// normalizeKeys projects the layout's character keys into the unit square.
// Special keys are skipped; they never contribute to a word.
func normalizeKeys(geo layout.Provider, b Bounds, sigmaFactor float64) []normalizedKey {
	if geo == nil || b.IsZero() {
		return nil
	}
	var out []normalizedKey
	for _, k := range geo.Keys() {
		if k.Special || k.Output == "" {
			continue
		}
		out = append(out, normalizedKey{
			output: k.Output,
			u:      (k.CenterX - b.Left) / b.Width,
			v:      (k.CenterY - b.Top) / b.Height,
			sigmaU: sigmaFactor * (k.Width / 2) / b.Width,
			sigmaV: sigmaFactor * (k.Height / 2) / b.Height,
		})
	}
	return out
}

// hitProbability is a 2D Gaussian centered on the key. Not a true density:
// it peaks at 1 on the key center, which makes the noise floor and the
// confidence override directly comparable across keys of different sizes.
func (k *normalizedKey) hitProbability(p NormalizedPoint) float64 {
	if k.sigmaU <= 0 || k.sigmaV <= 0 {
		return 0
	}
	du := (p.U - k.u) / k.sigmaU
	dv := (p.V - k.v) / k.sigmaV
	return math.Exp(-0.5 * (du*du + dv*dv))
}

// extractProbabilistic scores every character key at every resampled point
// and selects a best-path key sequence. The path must already be smoothed
// and resampled (see Smooth and Resample).
//
// A key is appended when it differs from the previous selection, or when
// its probability exceeds the high-confidence override, which captures fast
// repeated hits on one key. Fewer than two distinct selections yield an
// empty result: a signal that the path carried no word, not an error.
func extractProbabilistic(resampled []NormalizedPoint, keys []normalizedKey, cfg *ThresholdConfig) []string {
	if len(resampled) < 2 || len(keys) == 0 {
		return nil
	}

	var selected []string
	prev := ""
	highSeen := false // probability exceeded the override since the last append
	armed := false    // high then fell: the next high is a deliberate repeat
	for _, p := range resampled {
		bestProb := 0.0
		bestKey := ""
		for i := range keys {
			prob := keys[i].hitProbability(p)
			if prob < cfg.NoiseFloor {
				continue
			}
			if prob > bestProb {
				bestProb = prob
				bestKey = keys[i].output
			}
		}
		if bestKey == "" {
			continue
		}

		confident := bestProb > cfg.ConfidenceOverride
		if bestKey != prev {
			selected = append(selected, bestKey)
			prev = bestKey
			highSeen = confident
			armed = false
			continue
		}

		// Same key as the previous selection. A repeat needs the finger
		// to leave the key's center and come back: probability high,
		// then below the override, then high again.
		switch {
		case confident && armed:
			selected = append(selected, bestKey)
			highSeen = true
			armed = false
		case confident:
			highSeen = true
		case highSeen:
			armed = true
			highSeen = false
		}
	}

	if distinctKeys(selected) < 2 {
		return nil
	}
	return selected
}
