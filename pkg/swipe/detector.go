package swipe

import (
	"log/slog"
	"time"

	"swipekit/pkg/layout"
)

// state is the detector's position in the gesture lifecycle.
type state int

const (
	stateIdle state = iota
	stateTracking
	stateSwiping
)

// Detector is the gesture classification engine. It consumes ordered touch
// events for a single pointer and delivers classified gestures through its
// Listener, synchronously on the calling thread.
//
// A Detector is not safe for concurrent use; the touch stream that feeds
// it is single-threaded by contract.
type Detector struct {
	cfg     ThresholdConfig
	pending *ThresholdConfig
	geo     layout.Provider
	bounds  Bounds

	listener Listener
	log      *slog.Logger

	state    state
	sampler  pathSampler
	recorder *crossingRecorder
	start    TouchSample
}

// Option configures a Detector.
type Option func(*Detector)

// WithThresholds replaces the default tuning. Invalid values are corrected
// by ThresholdConfig.Validate; a config that cannot be repaired falls back
// to the defaults.
func WithThresholds(cfg ThresholdConfig) Option {
	return func(d *Detector) {
		if err := cfg.Validate(); err != nil {
			return
		}
		d.cfg = cfg
	}
}

// WithBounds sets the initial keyboard bounds.
func WithBounds(b Bounds) Option {
	return func(d *Detector) { d.bounds = b }
}

// WithLogger attaches a logger. The detector logs only at Debug level and
// only at gesture end, never in the per-sample hot path.
func WithLogger(log *slog.Logger) Option {
	return func(d *Detector) { d.log = log }
}

// NewDetector creates a detector over the given key geometry. The listener
// may be nil when the host polls results exclusively through ExtractWord.
func NewDetector(geo layout.Provider, listener Listener, opts ...Option) *Detector {
	d := &Detector{
		cfg:      DefaultThresholds(),
		geo:      geo,
		listener: listener,
	}
	for _, opt := range opts {
		opt(d)
	}
	d.sampler = pathSampler{
		interval:   d.cfg.SampleInterval,
		maxSamples: d.cfg.MaxPathSamples,
	}
	d.recorder = newCrossingRecorder(geo, &d.cfg)
	return d
}

// SetBounds updates the keyboard bounds, normally on layout changes. Takes
// effect immediately; samples already normalized under the old bounds are
// kept as-is (stale geometry mid-gesture is tolerated, not refreshed).
func (d *Detector) SetBounds(b Bounds) {
	d.bounds = b
}

// Bounds returns the current keyboard bounds.
func (d *Detector) Bounds() Bounds { return d.bounds }

// SetThresholds replaces the tuning configuration. When a gesture is in
// flight the swap is deferred until it completes, so thresholds are never
// mutated mid-gesture.
func (d *Detector) SetThresholds(cfg ThresholdConfig) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	if d.state != stateIdle {
		d.pending = &cfg
		return nil
	}
	d.applyThresholds(cfg)
	return nil
}

// Thresholds returns the active tuning configuration.
func (d *Detector) Thresholds() ThresholdConfig { return d.cfg }

func (d *Detector) applyThresholds(cfg ThresholdConfig) {
	d.cfg = cfg
	d.sampler.interval = cfg.SampleInterval
	d.sampler.maxSamples = cfg.MaxPathSamples
	d.recorder.nearScale = cfg.NearKeyRadiusScale
	d.recorder.dedup = cfg.DedupRadiusScale
}

// HandleTouch processes one raw touch event. Events must arrive in order;
// a second pointer going down while a gesture is in flight is ignored.
func (d *Detector) HandleTouch(phase TouchPhase, x, y float64, t time.Time) {
	s := TouchSample{X: x, Y: y, Time: t}
	switch phase {
	case PhaseDown:
		d.handleDown(s)
	case PhaseMove:
		d.handleMove(s)
	case PhaseUp:
		d.handleUp(s)
	case PhaseCancel:
		d.handleCancel()
	}
}

func (d *Detector) handleDown(s TouchSample) {
	if d.state != stateIdle {
		// Single active pointer only.
		return
	}
	if d.pending != nil {
		d.applyThresholds(*d.pending)
		d.pending = nil
	}
	d.state = stateTracking
	d.start = s
	d.sampler.begin(s, d.bounds)
	d.recorder.reset()
	d.recorder.observe(s.X, s.Y, false)
}

func (d *Detector) handleMove(s TouchSample) {
	if d.state == stateIdle {
		return
	}
	if !d.sampler.observe(s, d.bounds) {
		return
	}

	if d.state == stateTracking &&
		pixelDistance(d.start.X, d.start.Y, s.X, s.Y) >= d.cfg.tapDistance() {
		d.state = stateSwiping
		if d.listener != nil {
			d.listener.OnSwipeStart(d.start.X, d.start.Y)
		}
	}

	d.recorder.observe(s.X, s.Y, d.state == stateSwiping)

	if d.state == stateSwiping && d.listener != nil {
		d.listener.OnSwipeMove(s.X, s.Y, d.sampler.path)
	}
}

func (d *Detector) handleUp(s TouchSample) {
	if d.state == stateIdle {
		return
	}

	// The release point bypasses the rate limit: the last key of a word
	// is often only reached on the final sample. It can also be the first
	// sample past the tap threshold (a flick too quick for any accepted
	// move), so the tracking-to-swiping transition is repeated here to
	// keep OnSwipeStart/OnSwipeEnd paired.
	d.sampler.accept(s, d.bounds)
	if d.state == stateTracking &&
		pixelDistance(d.start.X, d.start.Y, s.X, s.Y) >= d.cfg.tapDistance() {
		d.state = stateSwiping
		if d.listener != nil {
			d.listener.OnSwipeStart(d.start.X, d.start.Y)
		}
	}
	d.recorder.observe(s.X, s.Y, d.state == stateSwiping)

	m := d.metrics(s)
	kind := classify(m, &d.cfg)

	if kind == GestureTap {
		d.finish()
		if d.listener != nil {
			d.listener.OnTap(s.X, s.Y)
		}
		return
	}

	g := d.buildGesture(s, m, kind)
	d.finish()

	if d.log != nil {
		d.log.Debug("gesture classified",
			"type", g.Type.String(),
			"direction", g.Direction.String(),
			"distance_px", g.Distance,
			"duration_ms", g.Duration.Milliseconds(),
			"keys", len(g.Keys),
		)
	}
	if d.listener != nil {
		d.listener.OnSwipeEnd(g)
	}
}

func (d *Detector) handleCancel() {
	if d.state == stateIdle {
		return
	}
	// Discard the in-flight path. Nothing recorded so far may ever be
	// delivered for a cancelled gesture.
	d.finish()
	if d.listener != nil {
		d.listener.OnSwipeCancel()
	}
}

// metrics computes the classifier inputs at touch-up.
func (d *Detector) metrics(end TouchSample) gestureMetrics {
	dx := end.X - d.start.X
	dy := end.Y - d.start.Y
	distance := pixelDistance(d.start.X, d.start.Y, end.X, end.Y)
	duration := end.Time.Sub(d.start.Time)

	velocity := 0.0
	if duration > 0 {
		velocity = distance / (float64(duration) / float64(time.Millisecond))
	}

	return gestureMetrics{
		distance:  distance,
		duration:  duration,
		velocity:  velocity,
		dx:        dx,
		dy:        dy,
		direction: QuantizeDirection(dx, dy),
		distinct:  d.recorder.distinctCount(),
	}
}

// buildGesture freezes the per-gesture state into an immutable Gesture.
func (d *Detector) buildGesture(end TouchSample, m gestureMetrics, kind GestureType) *Gesture {
	path, normalized := d.sampler.freeze()

	var resampled []NormalizedPoint
	if len(normalized) >= 2 {
		resampled = Resample(Smooth(normalized), d.cfg.ResampleCount)
	}

	return &Gesture{
		Type:           kind,
		Direction:      m.direction,
		Path:           path,
		NormalizedPath: normalized,
		ResampledPath:  resampled,
		Keys:           d.recorder.sequence(),
		Bounds:         d.bounds,
		Distance:       m.distance,
		Velocity:       m.velocity,
		Duration:       m.duration,
		Start:          d.start,
		End:            end,
	}
}

// finish returns the detector to idle and applies any deferred threshold
// swap.
func (d *Detector) finish() {
	d.state = stateIdle
	if d.pending != nil {
		d.applyThresholds(*d.pending)
		d.pending = nil
	}
}

// ExtractWord reconstructs the letter sequence for a word-swipe gesture
// using the detector's geometry and tuning. Pure with respect to detector
// state: safe to call any time after OnSwipeEnd. Empty string means no
// word; the host decides whether to discard the gesture.
func (d *Detector) ExtractWord(g *Gesture) string {
	return ExtractWord(g, d.geo, d.cfg)
}

// BuildWord is ExtractWord with the producing strategy attached.
func (d *Detector) BuildWord(g *Gesture) WordResult {
	return BuildWord(g, d.geo, d.cfg)
}
