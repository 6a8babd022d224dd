package swipe

import "time"

// gestureMetrics carries everything the disambiguator looks at. Computed
// once, at touch-up.
type gestureMetrics struct {
	distance  float64 // total displacement, pixels
	duration  time.Duration
	velocity  float64 // pixels per millisecond
	dx, dy    float64 // signed deltas, start to end
	direction Direction
	distinct  int // distinct entries in the live key sequence
}

// classify assigns a gesture type using distance, velocity, duration and
// key-sequence-size heuristics, in strict priority order.
//
// The word-swipe check runs before any directional heuristic on purpose: a
// long horizontal swipe that has already crossed two or more distinct keys
// must never be reclassified as a cursor move. Reordering these cases
// silently breaks word-swiping for horizontal words.
func classify(m gestureMetrics, cfg *ThresholdConfig) GestureType {
	if m.distance < cfg.tapDistance() {
		return GestureTap
	}

	if m.distinct >= 2 &&
		m.distance >= cfg.minSwipeTypeDistance() &&
		m.duration >= cfg.MinTypingDuration {
		return GestureSwipeType
	}

	quick := m.velocity > cfg.minVelocity() && m.duration < cfg.QuickGestureCap
	if m.direction == DirectionLeft && quick {
		return GestureSwipeDelete
	}
	if m.direction == DirectionUp && quick {
		return GestureSwipeShift
	}

	horizontal := abs(m.dx) > abs(m.dy)*1.5
	if horizontal && m.distinct < 2 && m.distance >= cfg.minSwipeDistance() {
		return GestureSwipeCursor
	}

	return GestureQuickSwipe
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
