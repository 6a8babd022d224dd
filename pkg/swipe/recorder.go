package swipe

import "swipekit/pkg/layout"

// crossingRecorder performs incremental, real-time hit-testing of touch
// positions against key geometry, building the key sequence as the gesture
// happens. Special keys never enter the sequence.
//
// The spatial-deduplication invariant: the same key is appended twice in a
// row only when the touch jumped more than DedupRadiusScale times that
// key's width since the previous hit on it. Gradual traversal of a wide
// key, however long, yields one entry; a deliberate leave-and-return (or a
// long hop within the key) yields the double letter.
type crossingRecorder struct {
	geo       layout.Provider
	nearScale float64
	dedup     float64

	keys  []string
	lastX float64
	lastY float64
	last  string
}

func newCrossingRecorder(geo layout.Provider, cfg *ThresholdConfig) *crossingRecorder {
	return &crossingRecorder{
		geo:       geo,
		nearScale: cfg.NearKeyRadiusScale,
		dedup:     cfg.DedupRadiusScale,
	}
}

// reset clears the sequence for a new gesture.
func (r *crossingRecorder) reset() {
	r.keys = r.keys[:0]
	r.last = ""
}

// observe hit-tests one raw pixel coordinate. While a swipe is active the
// exact test falls back to nearest-key-within-radius to tolerate overshoot
// past a key's boundary.
func (r *crossingRecorder) observe(x, y float64, swiping bool) {
	if r.geo == nil {
		return
	}
	key, ok := r.geo.KeyAt(x, y)
	if !ok && swiping {
		key, ok = r.geo.NearestKeyWithin(x, y, r.nearScale)
	}
	if !ok || key.Special || key.Output == "" {
		return
	}

	if key.Output == r.last {
		// Same key again: only an intentional revisit (a jump of more than
		// half the key's width since the previous hit) counts. The
		// reference position advances on every suppressed hit, so slowly
		// dragging across one key never accumulates into a repeat.
		if pixelDistance(x, y, r.lastX, r.lastY) <= r.dedup*key.Width {
			r.lastX = x
			r.lastY = y
			return
		}
	}

	r.keys = append(r.keys, key.Output)
	r.last = key.Output
	r.lastX = x
	r.lastY = y
}

// sequence returns a copy of the recorded key sequence.
func (r *crossingRecorder) sequence() []string {
	out := make([]string, len(r.keys))
	copy(out, r.keys)
	return out
}

// distinctCount returns the number of distinct entries in the sequence.
func (r *crossingRecorder) distinctCount() int {
	return distinctKeys(r.keys)
}

func distinctKeys(keys []string) int {
	seen := make(map[string]struct{}, len(keys))
	for _, k := range keys {
		seen[k] = struct{}{}
	}
	return len(seen)
}
