package swipe

import (
	"strings"
	"testing"
	"time"
)

// captureListener records every callback for assertions.
type captureListener struct {
	taps     []TouchSample
	starts   []TouchSample
	moves    int
	cancels  int
	gestures []*Gesture
}

func (l *captureListener) OnTap(x, y float64) {
	l.taps = append(l.taps, TouchSample{X: x, Y: y})
}
func (l *captureListener) OnSwipeStart(x, y float64) {
	l.starts = append(l.starts, TouchSample{X: x, Y: y})
}
func (l *captureListener) OnSwipeMove(x, y float64, path []TouchSample) { l.moves++ }
func (l *captureListener) OnSwipeEnd(g *Gesture)                       { l.gestures = append(l.gestures, g) }
func (l *captureListener) OnSwipeCancel()                              { l.cancels++ }

func newTestDetector(t *testing.T) (*Detector, *captureListener) {
	t.Helper()
	listener := &captureListener{}
	det := NewDetector(testGrid(), listener,
		WithBounds(Bounds{Left: 0, Top: 0, Width: 1000, Height: 400}))
	return det, listener
}

// feed replays a touch sequence with timestamps offset from a fixed base.
func feed(det *Detector, phase TouchPhase, x, y float64, atMs int64) {
	base := time.Unix(1700000000, 0)
	det.HandleTouch(phase, x, y, base.Add(time.Duration(atMs)*time.Millisecond))
}

// sweep feeds a down-move-up line from (x0,y0) to (x1,y1).
func sweep(det *Detector, x0, y0, x1, y1 float64, steps int, durMs int64) {
	feed(det, PhaseDown, x0, y0, 0)
	for i := 1; i <= steps; i++ {
		f := float64(i) / float64(steps)
		feed(det, PhaseMove, x0+(x1-x0)*f, y0+(y1-y0)*f, durMs*int64(i)/int64(steps))
	}
	feed(det, PhaseUp, x1, y1, durMs)
}

func TestTopRowSweepIsWordSwipe(t *testing.T) {
	det, listener := newTestDetector(t)

	// Left-to-right across the whole top row over ~300ms.
	sweep(det, 50, 50, 950, 50, 30, 300)

	if len(listener.gestures) != 1 {
		t.Fatalf("expected 1 gesture, got %d (taps=%d)", len(listener.gestures), len(listener.taps))
	}
	g := listener.gestures[0]
	if g.Type != GestureSwipeType {
		t.Fatalf("classified as %s, want %s", g.Type, GestureSwipeType)
	}
	if got := strings.Join(g.Keys, ""); got != "qwertyuiop" {
		t.Fatalf("live sequence %q, want qwertyuiop", got)
	}
	if word := det.ExtractWord(g); word != "qwertyuiop" {
		t.Fatalf("extracted %q, want qwertyuiop", word)
	}
	if result := det.BuildWord(g); result.Strategy != StrategyIncremental {
		t.Fatalf("strategy %s, want incremental", result.Strategy)
	}
}

func TestLeftFlickOnDeleteKey(t *testing.T) {
	det, listener := newTestDetector(t)

	// 80px leftward, 200ms, confined to the delete key.
	sweep(det, 960, 250, 880, 250, 10, 200)

	if len(listener.gestures) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(listener.gestures))
	}
	g := listener.gestures[0]
	if g.Type != GestureSwipeDelete {
		t.Fatalf("classified as %s, want %s", g.Type, GestureSwipeDelete)
	}
	if g.Direction != DirectionLeft {
		t.Fatalf("direction %s, want left", g.Direction)
	}
	if len(g.Keys) != 0 {
		t.Fatalf("special key leaked into the sequence: %v", g.Keys)
	}
}

func TestJitteryPressIsTap(t *testing.T) {
	det, listener := newTestDetector(t)

	feed(det, PhaseDown, 500, 150, 0)
	feed(det, PhaseMove, 505, 152, 20)
	feed(det, PhaseMove, 498, 147, 45)
	feed(det, PhaseUp, 503, 151, 80)

	if len(listener.taps) != 1 {
		t.Fatalf("expected 1 tap, got %d (gestures=%d)", len(listener.taps), len(listener.gestures))
	}
	if len(listener.gestures) != 0 || len(listener.starts) != 0 {
		t.Fatal("a tap must not produce swipe callbacks")
	}
	if tap := listener.taps[0]; tap.X != 503 || tap.Y != 151 {
		t.Fatalf("tap reported at (%g,%g), want the release point", tap.X, tap.Y)
	}
}

func TestTapDominatesRegardlessOfDurationAndKeys(t *testing.T) {
	det, listener := newTestDetector(t)

	// A very long press with sub-threshold wiggling on a letter key is
	// still a tap.
	feed(det, PhaseDown, 150, 50, 0)
	for i := int64(1); i <= 20; i++ {
		feed(det, PhaseMove, 150+float64(i%3), 50+float64(i%2), i*100)
	}
	feed(det, PhaseUp, 151, 50, 2100)

	if len(listener.taps) != 1 || len(listener.gestures) != 0 {
		t.Fatalf("long still press: taps=%d gestures=%d, want a single tap",
			len(listener.taps), len(listener.gestures))
	}
}

func TestDoubleLetterSurvivesExtraction(t *testing.T) {
	det, listener := newTestDetector(t)

	// "hello": the path revisits l with more than half a key width of
	// separation between the two visits.
	feed(det, PhaseDown, 600, 150, 0)  // h
	feed(det, PhaseMove, 250, 50, 50)  // e
	feed(det, PhaseMove, 870, 150, 100) // l
	feed(det, PhaseMove, 940, 150, 150) // l again, 70px away
	feed(det, PhaseMove, 850, 50, 200) // o
	feed(det, PhaseUp, 850, 50, 250)

	if len(listener.gestures) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(listener.gestures))
	}
	g := listener.gestures[0]
	if g.Type != GestureSwipeType {
		t.Fatalf("classified as %s, want %s", g.Type, GestureSwipeType)
	}
	if got := strings.Join(g.Keys, ""); got != "hello" {
		t.Fatalf("extracted %q, want hello", got)
	}
}

func TestSpacebarDragIsCursorMove(t *testing.T) {
	det, listener := newTestDetector(t)

	// 120px horizontal confined to the spacebar, no letter keys touched.
	sweep(det, 440, 350, 560, 350, 10, 150)

	if len(listener.gestures) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(listener.gestures))
	}
	g := listener.gestures[0]
	if g.Type != GestureSwipeCursor {
		t.Fatalf("classified as %s, want %s", g.Type, GestureSwipeCursor)
	}
	if g.Direction != DirectionRight {
		t.Fatalf("direction %s, want right (dx > 0)", g.Direction)
	}

	// Same drag leftwards, slow enough to miss the delete flick.
	sweep(det, 560, 350, 440, 350, 10, 500)
	g = listener.gestures[1]
	if g.Type != GestureSwipeCursor || g.Direction != DirectionLeft {
		t.Fatalf("leftward drag: %s %s, want cursor left", g.Type, g.Direction)
	}
}

func TestCancelDiscardsInFlightGesture(t *testing.T) {
	det, listener := newTestDetector(t)

	feed(det, PhaseDown, 50, 50, 0)
	feed(det, PhaseMove, 300, 50, 50)
	feed(det, PhaseMove, 500, 50, 100)
	feed(det, PhaseCancel, 0, 0, 120)

	if listener.cancels != 1 {
		t.Fatalf("expected 1 cancel, got %d", listener.cancels)
	}
	if len(listener.gestures) != 0 || len(listener.taps) != 0 {
		t.Fatal("a cancelled gesture must never emit a result")
	}

	// The next independent gesture starts cleanly from idle.
	sweep(det, 960, 250, 880, 250, 10, 200)
	if len(listener.gestures) != 1 || listener.gestures[0].Type != GestureSwipeDelete {
		t.Fatalf("gesture after cancel mishandled: %d gestures", len(listener.gestures))
	}
}

func TestSecondPointerIgnored(t *testing.T) {
	det, listener := newTestDetector(t)

	feed(det, PhaseDown, 50, 50, 0)
	feed(det, PhaseDown, 900, 300, 10) // second finger: ignored
	feed(det, PhaseMove, 300, 50, 50)
	feed(det, PhaseUp, 500, 50, 150)

	if len(listener.gestures) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(listener.gestures))
	}
	if start := listener.gestures[0].Start; start.X != 50 || start.Y != 50 {
		t.Fatalf("second down reset the gesture start to (%g,%g)", start.X, start.Y)
	}
}

func TestMoveRateLimitBoundsPath(t *testing.T) {
	det, listener := newTestDetector(t)

	// 200 move events at 1ms spacing: the 8ms interval must reject most.
	feed(det, PhaseDown, 50, 200, 0)
	for i := int64(1); i <= 200; i++ {
		feed(det, PhaseMove, 50+float64(i)*4, 200, i)
	}
	feed(det, PhaseUp, 850, 200, 201)

	if len(listener.gestures) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(listener.gestures))
	}
	g := listener.gestures[0]
	if len(g.Path) > 30 {
		t.Fatalf("rate limiter let %d samples through for a 200ms gesture", len(g.Path))
	}
	if len(g.Path) < 10 {
		t.Fatalf("rate limiter too aggressive: %d samples", len(g.Path))
	}
}

func TestThresholdSwapDeferredMidGesture(t *testing.T) {
	det, listener := newTestDetector(t)

	feed(det, PhaseDown, 50, 50, 0)
	feed(det, PhaseMove, 300, 50, 50)

	cfg := DefaultThresholds()
	cfg.Sensitivity = 2.0
	if err := det.SetThresholds(cfg); err != nil {
		t.Fatalf("SetThresholds: %v", err)
	}
	if det.Thresholds().Sensitivity != 1.0 {
		t.Fatal("thresholds mutated mid-gesture")
	}

	feed(det, PhaseUp, 500, 50, 150)
	if det.Thresholds().Sensitivity != 2.0 {
		t.Fatal("deferred threshold swap not applied after the gesture")
	}
	_ = listener
}

func TestSetThresholdsRejectsInvalid(t *testing.T) {
	det, _ := newTestDetector(t)

	cfg := DefaultThresholds()
	cfg.ResampleCount = 0
	if err := det.SetThresholds(cfg); err == nil {
		t.Fatal("invalid thresholds accepted")
	}
}

func TestDegradedModeWithoutBounds(t *testing.T) {
	// No keyboard bounds: normalization is skipped but the raw-pixel
	// recorder still classifies and extracts.
	listener := &captureListener{}
	det := NewDetector(testGrid(), listener)

	sweep(det, 50, 50, 950, 50, 30, 300)

	if len(listener.gestures) != 1 {
		t.Fatalf("expected 1 gesture, got %d", len(listener.gestures))
	}
	g := listener.gestures[0]
	if g.Type != GestureSwipeType {
		t.Fatalf("degraded mode classified as %s, want %s", g.Type, GestureSwipeType)
	}
	if len(g.NormalizedPath) != 0 || len(g.ResampledPath) != 0 {
		t.Fatal("normalized paths produced without bounds")
	}
	if word := det.ExtractWord(g); word != "qwertyuiop" {
		t.Fatalf("degraded extraction got %q", word)
	}
}

func TestEventSinkDelivery(t *testing.T) {
	sink := NewEventSink(256)
	det := NewDetector(testGrid(), sink,
		WithBounds(Bounds{Left: 0, Top: 0, Width: 1000, Height: 400}))

	feed(det, PhaseDown, 500, 150, 0)
	feed(det, PhaseUp, 502, 151, 60)

	select {
	case ev := <-sink.Events():
		if ev.Kind != EventTap {
			t.Fatalf("got %s, want tap", ev.Kind)
		}
		if ev.X != 502 || ev.Y != 151 {
			t.Fatalf("tap event at (%g,%g)", ev.X, ev.Y)
		}
	default:
		t.Fatal("no event delivered")
	}
}

func TestEventSinkMovePathSurvivesNextGesture(t *testing.T) {
	sink := NewEventSink(256)
	det := NewDetector(testGrid(), sink,
		WithBounds(Bounds{Left: 0, Top: 0, Width: 1000, Height: 400}))

	feed(det, PhaseDown, 50, 50, 0)
	feed(det, PhaseMove, 300, 50, 50)
	feed(det, PhaseMove, 500, 50, 100)
	feed(det, PhaseUp, 700, 50, 150)

	// Buffer the events without consuming them, then run a second gesture
	// somewhere else entirely.
	var buffered []Event
	for len(sink.Events()) > 0 {
		buffered = append(buffered, <-sink.Events())
	}
	sweep(det, 500, 250, 900, 250, 10, 150)

	found := false
	for _, ev := range buffered {
		if ev.Kind != EventSwipeMove {
			continue
		}
		found = true
		if first := ev.Path[0]; first.X != 50 || first.Y != 50 {
			t.Fatalf("buffered move path mutated by the next gesture: starts at (%g,%g)",
				first.X, first.Y)
		}
	}
	if !found {
		t.Fatal("no swipe_move event buffered")
	}
}

func TestFlickWithoutMovesStillStartsSwipe(t *testing.T) {
	det, listener := newTestDetector(t)

	// A delete flick delivered as just down and up: the release point is
	// the first sample past the tap threshold.
	feed(det, PhaseDown, 960, 250, 0)
	feed(det, PhaseUp, 880, 250, 150)

	if len(listener.starts) != 1 {
		t.Fatalf("expected OnSwipeStart before OnSwipeEnd, got %d starts", len(listener.starts))
	}
	if start := listener.starts[0]; start.X != 960 || start.Y != 250 {
		t.Fatalf("swipe started at (%g,%g), want the down point", start.X, start.Y)
	}
	if len(listener.gestures) != 1 || listener.gestures[0].Type != GestureSwipeDelete {
		t.Fatalf("expected a delete flick, got %d gestures", len(listener.gestures))
	}
}

func TestMoveAndUpWithoutDownIgnored(t *testing.T) {
	det, listener := newTestDetector(t)

	feed(det, PhaseMove, 100, 100, 0)
	feed(det, PhaseUp, 100, 100, 10)
	feed(det, PhaseCancel, 0, 0, 20)

	if len(listener.taps)+len(listener.gestures)+listener.cancels != 0 {
		t.Fatal("events without a down phase produced output")
	}
}
