package swipe

import "math"

// Normalize maps a pixel coordinate into the keyboard-relative unit square,
// clamping coordinates that land outside the bounds. Callers must check
// Bounds.IsZero first; Normalize on zero bounds returns the origin.
func Normalize(x, y float64, b Bounds) NormalizedPoint {
	if b.IsZero() {
		return NormalizedPoint{}
	}
	return NormalizedPoint{
		U: clamp01((x - b.Left) / b.Width),
		V: clamp01((y - b.Top) / b.Height),
	}
}

// Denormalize is the exact inverse of Normalize for points that were in
// bounds when normalized.
func Denormalize(p NormalizedPoint, b Bounds) (x, y float64) {
	return b.Left + p.U*b.Width, b.Top + p.V*b.Height
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// Smooth applies a 3-tap low-pass filter (quarter, half, quarter) to remove
// high-frequency jitter. Endpoints are preserved so the gesture's anchor
// points survive filtering.
func Smooth(points []NormalizedPoint) []NormalizedPoint {
	if len(points) < 3 {
		out := make([]NormalizedPoint, len(points))
		copy(out, points)
		return out
	}
	out := make([]NormalizedPoint, len(points))
	out[0] = points[0]
	out[len(points)-1] = points[len(points)-1]
	for i := 1; i < len(points)-1; i++ {
		out[i] = NormalizedPoint{
			U: 0.25*points[i-1].U + 0.5*points[i].U + 0.25*points[i+1].U,
			V: 0.25*points[i-1].V + 0.5*points[i].V + 0.25*points[i+1].V,
		}
	}
	return out
}

// Resample converts a variable-length path into n points evenly spaced by
// arc length, decoupling extraction quality from gesture speed. Resampling
// an already evenly spaced n-point path to n points is (approximately)
// idempotent. Paths shorter than two points come back copied as-is.
func Resample(points []NormalizedPoint, n int) []NormalizedPoint {
	if len(points) < 2 || n < 2 {
		out := make([]NormalizedPoint, len(points))
		copy(out, points)
		return out
	}

	total := PathLength(points)
	if total == 0 {
		// Degenerate path: every point identical.
		out := make([]NormalizedPoint, n)
		for i := range out {
			out[i] = points[0]
		}
		return out
	}

	step := total / float64(n-1)
	out := make([]NormalizedPoint, 0, n)
	out = append(out, points[0])

	accumulated := 0.0
	prev := points[0]
	for i := 1; i < len(points); i++ {
		cur := points[i]
		d := pointDistance(prev, cur)
		for accumulated+d >= step && d > 0 {
			t := (step - accumulated) / d
			mid := NormalizedPoint{
				U: prev.U + t*(cur.U-prev.U),
				V: prev.V + t*(cur.V-prev.V),
			}
			out = append(out, mid)
			if len(out) == n {
				return out
			}
			d = d - (step - accumulated)
			accumulated = 0
			prev = mid
		}
		accumulated += d
		prev = cur
	}

	// Floating-point shortfall: pad with the final point.
	for len(out) < n {
		out = append(out, points[len(points)-1])
	}
	return out
}

// PathLength returns the cumulative arc length of the path.
func PathLength(points []NormalizedPoint) float64 {
	total := 0.0
	for i := 1; i < len(points); i++ {
		total += pointDistance(points[i-1], points[i])
	}
	return total
}

func pointDistance(a, b NormalizedPoint) float64 {
	du := a.U - b.U
	dv := a.V - b.V
	return math.Sqrt(du*du + dv*dv)
}

// pixelDistance is the Euclidean distance between two pixel coordinates.
func pixelDistance(x1, y1, x2, y2 float64) float64 {
	dx := x2 - x1
	dy := y2 - y1
	return math.Sqrt(dx*dx + dy*dy)
}

// QuantizeDirection buckets a displacement into four directions using
// 90-degree bands around the axes. Screen coordinates: positive dy is down.
func QuantizeDirection(dx, dy float64) Direction {
	if dx == 0 && dy == 0 {
		return DirectionNone
	}
	deg := math.Atan2(dy, dx) * 180 / math.Pi
	switch {
	case deg >= -45 && deg < 45:
		return DirectionRight
	case deg >= 45 && deg < 135:
		return DirectionDown
	case deg >= -135 && deg < -45:
		return DirectionUp
	default:
		return DirectionLeft
	}
}
