// Package swipe recognizes touch-gesture intent on a soft keyboard.
//
// A Detector consumes a stream of raw touch samples for a single pointer
// and, at gesture end, classifies the interaction as one of six discrete
// gesture types (tap, word-swipe, delete-swipe, shift-swipe, cursor-swipe,
// generic quick swipe). For word-swipes the package reconstructs the
// intended letter sequence from the finger's path, using an incremental
// key-crossing recorder with a probabilistic Gaussian extractor and a
// raw-pixel sampler as fallbacks.
//
// Everything is synchronous and single-threaded: touch events are processed
// in arrival order on the caller's thread, callbacks fire inline, and no
// state is shared across gestures.
package swipe

import "time"

// TouchPhase is the kind of a raw touch event.
type TouchPhase int

const (
	PhaseDown TouchPhase = iota
	PhaseMove
	PhaseUp
	PhaseCancel
)

func (p TouchPhase) String() string {
	switch p {
	case PhaseDown:
		return "down"
	case PhaseMove:
		return "move"
	case PhaseUp:
		return "up"
	case PhaseCancel:
		return "cancel"
	default:
		return "unknown"
	}
}

// TouchSample is one raw touch coordinate with its timestamp. Immutable
// once recorded.
type TouchSample struct {
	X    float64
	Y    float64
	Time time.Time
}

// NormalizedPoint is a keyboard-relative coordinate in the unit square.
// Always clamped to [0,1] even when the raw coordinate left the keyboard.
type NormalizedPoint struct {
	U float64
	V float64
}

// Bounds is the keyboard rectangle in screen pixels, used to map raw
// coordinates into normalized space.
type Bounds struct {
	Left   float64
	Top    float64
	Width  float64
	Height float64
}

// IsZero reports whether the bounds are unset or degenerate. Normalization
// is skipped while bounds are zero; the raw-pixel fallback still works.
func (b Bounds) IsZero() bool {
	return b.Width <= 0 || b.Height <= 0
}

// GestureType is the classified intent of one completed gesture.
type GestureType int

const (
	// GestureTap is a press without meaningful movement. Non-consuming:
	// the host proceeds with ordinary key-press handling.
	GestureTap GestureType = iota

	// GestureSwipeType is a continuous word-swipe across letter keys.
	GestureSwipeType

	// GestureSwipeDelete is a quick leftward flick (delete word/char).
	GestureSwipeDelete

	// GestureSwipeShift is a quick upward flick (shift/caps).
	GestureSwipeShift

	// GestureSwipeCursor is a horizontal drag that moves the cursor.
	GestureSwipeCursor

	// GestureQuickSwipe is any other swipe; the host interprets it by
	// direction.
	GestureQuickSwipe
)

func (t GestureType) String() string {
	switch t {
	case GestureTap:
		return "tap"
	case GestureSwipeType:
		return "swipe_type"
	case GestureSwipeDelete:
		return "swipe_delete"
	case GestureSwipeShift:
		return "swipe_shift"
	case GestureSwipeCursor:
		return "swipe_cursor"
	case GestureQuickSwipe:
		return "quick_swipe"
	default:
		return "unknown"
	}
}

// Direction is the 4-way quantized direction of a gesture.
type Direction int

const (
	DirectionNone Direction = iota
	DirectionLeft
	DirectionRight
	DirectionUp
	DirectionDown
)

func (d Direction) String() string {
	switch d {
	case DirectionLeft:
		return "left"
	case DirectionRight:
		return "right"
	case DirectionUp:
		return "up"
	case DirectionDown:
		return "down"
	default:
		return "none"
	}
}

// Gesture is one completed touch interaction. Produced exactly once at
// gesture end, immutable afterwards; the listener consumes it and the
// detector never references it again.
type Gesture struct {
	Type      GestureType
	Direction Direction

	// Path is the raw recorded pixel path.
	Path []TouchSample

	// NormalizedPath holds the keyboard-relative points for samples that
	// were recorded while bounds were set. May be shorter than Path in
	// degraded mode.
	NormalizedPath []NormalizedPoint

	// ResampledPath is NormalizedPath smoothed and resampled to a fixed
	// count of arc-length-even points. Empty when NormalizedPath was too
	// short.
	ResampledPath []NormalizedPoint

	// Keys is the live key-crossing sequence recorded during the swipe.
	Keys []string

	// Bounds is a snapshot of the keyboard bounds at gesture end, kept so
	// extraction stays consistent if the layout moves afterwards.
	Bounds Bounds

	Distance float64       // total displacement, pixels
	Velocity float64       // pixels per millisecond
	Duration time.Duration
	Start    TouchSample
	End      TouchSample
}

// EventKind tags a detector event.
type EventKind int

const (
	EventTap EventKind = iota
	EventSwipeStart
	EventSwipeMove
	EventSwipeEnd
	EventSwipeCancel
)

func (k EventKind) String() string {
	switch k {
	case EventTap:
		return "tap"
	case EventSwipeStart:
		return "swipe_start"
	case EventSwipeMove:
		return "swipe_move"
	case EventSwipeEnd:
		return "swipe_end"
	case EventSwipeCancel:
		return "swipe_cancel"
	default:
		return "unknown"
	}
}

// Event is the tagged-union form of a detector notification, for hosts
// that prefer a queue over callbacks. X/Y are set for Tap, SwipeStart and
// SwipeMove; Path for SwipeMove; Gesture for SwipeEnd.
type Event struct {
	Kind    EventKind
	X, Y    float64
	Path    []TouchSample
	Gesture *Gesture
}

// Listener receives detector notifications. All methods are invoked
// synchronously on the thread feeding the detector, in event order.
type Listener interface {
	// OnTap fires for a press without meaningful movement. Non-consuming:
	// the host should proceed with its ordinary key-press handling.
	OnTap(x, y float64)

	// OnSwipeStart fires once when movement first exceeds the tap
	// threshold, with the gesture's starting coordinate.
	OnSwipeStart(x, y float64)

	// OnSwipeMove fires for each accepted sample while swiping. path is
	// the gesture path so far and must not be retained or mutated.
	OnSwipeMove(x, y float64, path []TouchSample)

	// OnSwipeEnd fires with the classified gesture.
	OnSwipeEnd(g *Gesture)

	// OnSwipeCancel fires when an in-flight gesture is cancelled. No
	// other callback is delivered for the discarded path.
	OnSwipeCancel()
}

// EventSink adapts the Listener contract to a buffered channel of tagged
// events. Delivery stays synchronous and in-order; if the channel is full
// the send blocks, preserving ordering rather than dropping events. Paths
// are copied before queueing, since a buffered event may outlive the
// gesture that produced it.
type EventSink struct {
	ch chan Event
}

// NewEventSink creates a sink with the given buffer size.
func NewEventSink(buffer int) *EventSink {
	return &EventSink{ch: make(chan Event, buffer)}
}

// Events returns the receive side of the sink.
func (s *EventSink) Events() <-chan Event { return s.ch }

func (s *EventSink) OnTap(x, y float64) {
	s.ch <- Event{Kind: EventTap, X: x, Y: y}
}

func (s *EventSink) OnSwipeStart(x, y float64) {
	s.ch <- Event{Kind: EventSwipeStart, X: x, Y: y}
}

func (s *EventSink) OnSwipeMove(x, y float64, path []TouchSample) {
	p := make([]TouchSample, len(path))
	copy(p, path)
	s.ch <- Event{Kind: EventSwipeMove, X: x, Y: y, Path: p}
}

func (s *EventSink) OnSwipeEnd(g *Gesture) {
	s.ch <- Event{Kind: EventSwipeEnd, Gesture: g}
}

func (s *EventSink) OnSwipeCancel() {
	s.ch <- Event{Kind: EventSwipeCancel}
}
