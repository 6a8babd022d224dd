package swipe

import "time"

// pathSampler accumulates the raw and normalized path for one in-progress
// gesture. Recording is rate-limited by the sample interval, independent of
// pixel distance, so memory growth stays bounded under very fast swipes
// while capturing enough points for classification.
//
// One gesture, one sampler lifecycle: begin on down, observe on move,
// the slices are frozen into the Gesture (or discarded) at up/cancel.
type pathSampler struct {
	interval   time.Duration
	maxSamples int

	path       []TouchSample
	normalized []NormalizedPoint
	lastAccept time.Time
}

// begin resets all per-gesture state and records the first sample
// unconditionally.
func (ps *pathSampler) begin(s TouchSample, b Bounds) {
	ps.path = ps.path[:0]
	ps.normalized = ps.normalized[:0]
	ps.accept(s, b)
}

// observe records a move sample if the rate limit allows it. Returns true
// when the sample was accepted.
func (ps *pathSampler) observe(s TouchSample, b Bounds) bool {
	if len(ps.path) > 0 && s.Time.Sub(ps.lastAccept) < ps.interval {
		return false
	}
	if len(ps.path) >= ps.maxSamples {
		return false
	}
	ps.accept(s, b)
	return true
}

func (ps *pathSampler) accept(s TouchSample, b Bounds) {
	ps.path = append(ps.path, s)
	ps.lastAccept = s.Time
	// Zero bounds: degraded mode, keep only the raw pixel path.
	if !b.IsZero() {
		ps.normalized = append(ps.normalized, Normalize(s.X, s.Y, b))
	}
}

// freeze returns copies of the recorded paths, detaching them from the
// sampler's reusable buffers.
func (ps *pathSampler) freeze() ([]TouchSample, []NormalizedPoint) {
	path := make([]TouchSample, len(ps.path))
	copy(path, ps.path)
	normalized := make([]NormalizedPoint, len(ps.normalized))
	copy(normalized, ps.normalized)
	return path, normalized
}
