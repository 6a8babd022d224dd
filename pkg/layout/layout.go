// Package layout provides hit-testable key geometry for a soft keyboard.
//
// The gesture engine treats key geometry as an external collaborator: it only
// needs to resolve a screen coordinate to a key, with some tolerance for
// fingers that overshoot a key's exact boundary mid-swipe. This package
// defines that contract (Provider) plus a simple in-memory implementation
// backed by a list of rectangles, and loaders for layout description files.
package layout

import "math"

// KeyRegion is the hit-testable rectangle for one keyboard key.
//
// CenterX/CenterY are the key's center in screen pixels. A KeyRegion is a
// read-only snapshot: the engine holds it for at most the duration of one
// gesture and tolerates it going stale if the layout changes mid-flight.
type KeyRegion struct {
	ID      string  `json:"id" toml:"id" yaml:"id"`
	Output  string  `json:"output" toml:"output" yaml:"output"`
	CenterX float64 `json:"center_x" toml:"center_x" yaml:"center_x"`
	CenterY float64 `json:"center_y" toml:"center_y" yaml:"center_y"`
	Width   float64 `json:"width" toml:"width" yaml:"width"`
	Height  float64 `json:"height" toml:"height" yaml:"height"`

	// Special marks non-character keys (space, shift, delete, ...).
	// Special keys are hit-testable but never contribute to a word.
	Special bool `json:"special,omitempty" toml:"special" yaml:"special"`
}

// Contains reports whether the point lies inside the key's rectangle.
func (k *KeyRegion) Contains(x, y float64) bool {
	return x >= k.CenterX-k.Width/2 && x <= k.CenterX+k.Width/2 &&
		y >= k.CenterY-k.Height/2 && y <= k.CenterY+k.Height/2
}

// CenterDistance returns the Euclidean distance from the point to the
// key's center.
func (k *KeyRegion) CenterDistance(x, y float64) float64 {
	dx := x - k.CenterX
	dy := y - k.CenterY
	return math.Sqrt(dx*dx + dy*dy)
}

// Provider resolves screen coordinates to keys.
//
// Implementations must fail gracefully: if geometry is stale or unset,
// return ok=false rather than an error. The engine treats "no key here"
// as a normal outcome.
type Provider interface {
	// KeyAt performs an exact point-in-rectangle test.
	KeyAt(x, y float64) (KeyRegion, bool)

	// NearestKeyWithin returns the key whose center is closest to the
	// point, considering only keys within radiusScale times their own
	// width of the point. Used while a swipe is active to tolerate
	// overshoot past a key's exact boundary.
	NearestKeyWithin(x, y, radiusScale float64) (KeyRegion, bool)

	// Keys returns all keys in the layout.
	Keys() []KeyRegion
}

// StaticProvider is a Provider backed by a fixed list of keys.
type StaticProvider struct {
	keys []KeyRegion
}

// NewStaticProvider creates a provider from a list of key regions.
func NewStaticProvider(keys []KeyRegion) *StaticProvider {
	return &StaticProvider{keys: keys}
}

// KeyAt performs an exact hit test against every key.
func (p *StaticProvider) KeyAt(x, y float64) (KeyRegion, bool) {
	for i := range p.keys {
		if p.keys[i].Contains(x, y) {
			return p.keys[i], true
		}
	}
	return KeyRegion{}, false
}

// NearestKeyWithin returns the closest key whose center is within
// radiusScale x key width of the point.
func (p *StaticProvider) NearestKeyWithin(x, y, radiusScale float64) (KeyRegion, bool) {
	best := -1
	bestDist := math.Inf(1)
	for i := range p.keys {
		k := &p.keys[i]
		d := k.CenterDistance(x, y)
		if d > radiusScale*k.Width {
			continue
		}
		if d < bestDist {
			bestDist = d
			best = i
		}
	}
	if best < 0 {
		return KeyRegion{}, false
	}
	return p.keys[best], true
}

// Keys returns a copy of the key list.
func (p *StaticProvider) Keys() []KeyRegion {
	out := make([]KeyRegion, len(p.keys))
	copy(out, p.keys)
	return out
}
