package swipe

import (
	"strings"
	"time"

	"swipekit/pkg/layout"
)

// Strategy identifies which extraction tier produced a word.
type Strategy int

const (
	// StrategyNone means no tier produced at least two distinct keys.
	StrategyNone Strategy = iota

	// StrategyIncremental is the live key-crossing sequence recorded
	// while the gesture happened.
	StrategyIncremental

	// StrategyProbabilistic is the Gaussian extractor over the smoothed,
	// resampled normalized path.
	StrategyProbabilistic

	// StrategyRawFallback is the adaptive-interval walk of the original
	// pixel path.
	StrategyRawFallback
)

func (s Strategy) String() string {
	switch s {
	case StrategyIncremental:
		return "incremental"
	case StrategyProbabilistic:
		return "probabilistic"
	case StrategyRawFallback:
		return "raw_fallback"
	default:
		return "none"
	}
}

// WordResult is the outcome of word extraction: the key sequence and the
// tier that produced it. Empty Keys with StrategyNone signals "no word";
// the caller decides whether that means discarding the gesture.
type WordResult struct {
	Keys     []string
	Strategy Strategy
}

// Word joins the key sequence into the extracted word.
func (r WordResult) Word() string {
	return strings.Join(r.Keys, "")
}

// BuildWord reconstructs the letter sequence for a word-swipe gesture,
// trying the cheapest tier first:
//
//  1. the live key-crossing sequence, when it already has two or more
//     distinct entries;
//  2. the probabilistic extractor over the gesture's resampled path;
//  3. a raw-pixel walk of the original, un-normalized path with a sampling
//     interval that shrinks as measured velocity increases, so very fast
//     swipes don't skip keys.
//
// Every tier is independently allowed to come back empty.
func BuildWord(g *Gesture, geo layout.Provider, cfg ThresholdConfig) WordResult {
	if g == nil {
		return WordResult{Strategy: StrategyNone}
	}

	if distinctKeys(g.Keys) >= 2 {
		keys := make([]string, len(g.Keys))
		copy(keys, g.Keys)
		return WordResult{Keys: keys, Strategy: StrategyIncremental}
	}

	resampled := g.ResampledPath
	if len(resampled) == 0 && len(g.NormalizedPath) >= 2 {
		resampled = Resample(Smooth(g.NormalizedPath), cfg.ResampleCount)
	}
	if keys := extractProbabilistic(resampled, normalizeKeys(geo, g.Bounds, cfg.SigmaFactor), &cfg); len(keys) > 0 {
		return WordResult{Keys: keys, Strategy: StrategyProbabilistic}
	}

	if keys := extractRawFallback(g.Path, geo, &cfg); len(keys) > 0 {
		return WordResult{Keys: keys, Strategy: StrategyRawFallback}
	}

	return WordResult{Strategy: StrategyNone}
}

// ExtractWord is the pure-function form of BuildWord for hosts that only
// want the final string after OnSwipeEnd. Empty string means no word.
func ExtractWord(g *Gesture, geo layout.Provider, cfg ThresholdConfig) string {
	return BuildWord(g, geo, cfg).Word()
}

// rawFallbackBaseInterval is the hit-test interval for a slow swipe; the
// effective interval shrinks as local velocity grows.
const rawFallbackBaseInterval = 32 * time.Millisecond

// extractRawFallback walks the original pixel path, applying the same
// hit-test and spatial-dedup rules as the live recorder directly in pixel
// space. It needs no keyboard bounds, which makes it the tier of last
// resort when normalization was unavailable.
func extractRawFallback(path []TouchSample, geo layout.Provider, cfg *ThresholdConfig) []string {
	if len(path) < 2 || geo == nil {
		return nil
	}

	rec := newCrossingRecorder(geo, cfg)
	rec.observe(path[0].X, path[0].Y, true)

	lastTest := path[0].Time
	for i := 1; i < len(path); i++ {
		prev, cur := path[i-1], path[i]

		// Local velocity in px/ms between adjacent samples.
		dt := cur.Time.Sub(prev.Time)
		velocity := 0.0
		if dt > 0 {
			velocity = pixelDistance(prev.X, prev.Y, cur.X, cur.Y) / (float64(dt) / float64(time.Millisecond))
		}

		interval := time.Duration(float64(rawFallbackBaseInterval) / (1 + velocity))
		if cur.Time.Sub(lastTest) < interval {
			continue
		}
		rec.observe(cur.X, cur.Y, true)
		lastTest = cur.Time
	}
	// The release point always gets a test; the last key of a word is
	// often only reached on the final sample.
	last := path[len(path)-1]
	rec.observe(last.X, last.Y, true)

	if rec.distinctCount() < 2 {
		return nil
	}
	return rec.sequence()
}
