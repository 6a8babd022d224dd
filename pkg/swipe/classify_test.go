package swipe

import (
	"testing"
	"time"
)

func defaultMetrics() gestureMetrics {
	return gestureMetrics{
		distance:  200,
		duration:  250 * time.Millisecond,
		velocity:  0.8,
		dx:        200,
		dy:        0,
		direction: DirectionRight,
		distinct:  0,
	}
}

func TestClassifyPriorityOrder(t *testing.T) {
	cfg := DefaultThresholds()

	tests := []struct {
		name   string
		mutate func(*gestureMetrics)
		want   GestureType
	}{
		{
			name: "tiny displacement is a tap",
			mutate: func(m *gestureMetrics) {
				m.distance = 10
				m.distinct = 3 // keys touched do not matter below the tap threshold
			},
			want: GestureTap,
		},
		{
			name: "multi-key crossing is a word swipe",
			mutate: func(m *gestureMetrics) {
				m.distinct = 4
			},
			want: GestureSwipeType,
		},
		{
			name: "fast leftward flick deletes",
			mutate: func(m *gestureMetrics) {
				m.dx = -200
				m.direction = DirectionLeft
				m.duration = 150 * time.Millisecond
				m.velocity = 1.3
			},
			want: GestureSwipeDelete,
		},
		{
			name: "fast upward flick shifts",
			mutate: func(m *gestureMetrics) {
				m.dx = 0
				m.dy = -200
				m.direction = DirectionUp
				m.duration = 150 * time.Millisecond
				m.velocity = 1.3
			},
			want: GestureSwipeShift,
		},
		{
			name: "slow horizontal drag without keys moves the cursor",
			mutate: func(m *gestureMetrics) {
				m.duration = 500 * time.Millisecond
				m.velocity = 0.2
			},
			want: GestureSwipeCursor,
		},
		{
			name: "leftward cursor drag below flick velocity",
			mutate: func(m *gestureMetrics) {
				m.dx = -200
				m.direction = DirectionLeft
				m.duration = 800 * time.Millisecond
				m.velocity = 0.25
			},
			want: GestureSwipeCursor,
		},
		{
			name: "diagonal without keys is a quick swipe",
			mutate: func(m *gestureMetrics) {
				m.dx = 120
				m.dy = 120
				m.direction = DirectionDown
			},
			want: GestureQuickSwipe,
		},
		{
			name: "slow left flick misses the cap and falls through",
			mutate: func(m *gestureMetrics) {
				m.dx = -200
				m.dy = -180 // not horizontal enough for a cursor move
				m.direction = DirectionLeft
				m.duration = 600 * time.Millisecond
				m.velocity = 0.5
			},
			want: GestureQuickSwipe,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := defaultMetrics()
			tc.mutate(&m)
			if got := classify(m, &cfg); got != tc.want {
				t.Errorf("classify() = %s, want %s", got, tc.want)
			}
		})
	}
}

// A long horizontal swipe that crossed two or more distinct keys must stay
// a word swipe: the key-sequence gate runs before the cursor heuristic.
// Reordering those checks silently breaks word-swiping for horizontal
// words like "were" or "tree".
func TestClassifyHorizontalWordSwipeBeatsCursor(t *testing.T) {
	cfg := DefaultThresholds()

	m := gestureMetrics{
		distance:  600,
		duration:  320 * time.Millisecond,
		velocity:  1.9,
		dx:        600,
		dy:        10, // almost perfectly horizontal
		direction: DirectionRight,
		distinct:  6,
	}

	if got := classify(m, &cfg); got != GestureSwipeType {
		t.Fatalf("horizontal multi-key swipe classified as %s, want %s", got, GestureSwipeType)
	}

	// The same geometry without key crossings is a cursor move.
	m.distinct = 1
	if got := classify(m, &cfg); got != GestureSwipeCursor {
		t.Fatalf("horizontal keyless swipe classified as %s, want %s", got, GestureSwipeCursor)
	}
}

func TestClassifySensitivityScalesThresholds(t *testing.T) {
	cfg := DefaultThresholds()
	m := defaultMetrics()
	m.distance = 20 // above tap threshold only at high sensitivity
	m.distinct = 0

	cfg.Sensitivity = 1.0
	if got := classify(m, &cfg); got != GestureTap {
		t.Errorf("at sensitivity 1.0: got %s, want tap", got)
	}

	cfg.Sensitivity = 2.0 // halves the effective tap threshold
	if got := classify(m, &cfg); got == GestureTap {
		t.Error("at sensitivity 2.0 a 20px gesture should no longer be a tap")
	}
}

func TestClassifyDensityScalesThresholds(t *testing.T) {
	cfg := DefaultThresholds()
	cfg.Density = 3.0 // high-dpi: thresholds triple in pixels

	m := defaultMetrics()
	m.distance = 50 // would be a swipe at density 1, still a tap at 3

	if got := classify(m, &cfg); got != GestureTap {
		t.Errorf("at density 3.0: got %s, want tap", got)
	}
}
