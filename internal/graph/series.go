package graph

import "math"

// Point is one telemetry sample in series coordinates.
type Point struct {
	X float64
	Y float64
}

// Series owns the bounded live window and the larger bounded history for one
// channel. It is not safe for concurrent use on its own; Channel serializes
// access to it.
type Series struct {
	cfg     Config
	window  []Point // oldest first, len <= cfg.Window
	history []Point // oldest first, len <= cfg.History

	// pushed reports whether any real sample arrived. The constructor seeds
	// the window with synthetic midpoint points so the chart is never blank,
	// but those do not count as data for Stats.
	pushed bool
}

// NewSeries builds a series pre-seeded with cfg.Window synthetic points at
// the midpoint of the default range. The seed points are mirrored into
// history so x coordinates keep advancing from them.
func NewSeries(cfg Config) *Series {
	mid := cfg.Midpoint()
	window := make([]Point, cfg.Window)
	for i := range window {
		window[i] = Point{X: float64(i), Y: mid}
	}
	history := make([]Point, len(window), cfg.History)
	copy(history, window)
	return &Series{cfg: cfg, window: window, history: history}
}

// Push appends a sample to the window and history, evicting the oldest entry
// of either once it is full. Non-finite values are stored as-is; Stats skips
// them.
func (s *Series) Push(x, y float64) {
	if len(s.window) == s.cfg.Window {
		copy(s.window, s.window[1:])
		s.window = s.window[:len(s.window)-1]
	}
	s.window = append(s.window, Point{X: x, Y: y})

	s.history = append(s.history, Point{X: x, Y: y})
	if over := len(s.history) - s.cfg.History; over > 0 {
		copy(s.history, s.history[over:])
		s.history = s.history[:len(s.history)-over]
	}
	s.pushed = true
}

// NextX returns the x coordinate the next sample should use: one past the
// newest history entry, or 0 if history is somehow empty.
func (s *Series) NextX() float64 {
	if len(s.history) == 0 {
		return 0
	}
	return s.history[len(s.history)-1].X + 1
}

// Stats scans the live window and returns (min, max, last). When no real
// sample has arrived yet, or every window value is non-finite, it falls back
// to (RangeLo, RangeHi, midpoint) so callers never have to handle an empty
// result.
func (s *Series) Stats() (min, max, last float64) {
	if !s.pushed {
		return s.cfg.RangeLo, s.cfg.RangeHi, s.cfg.Midpoint()
	}
	min = math.Inf(1)
	max = math.Inf(-1)
	for _, p := range s.window {
		if !isFinite(p.Y) {
			continue
		}
		if p.Y < min {
			min = p.Y
		}
		if p.Y > max {
			max = p.Y
		}
	}
	if math.IsInf(min, 1) || math.IsInf(max, -1) {
		return s.cfg.RangeLo, s.cfg.RangeHi, s.cfg.Midpoint()
	}
	last = s.window[len(s.window)-1].Y
	return min, max, last
}

// XBounds returns the x coordinates of the oldest and newest window points.
func (s *Series) XBounds() (first, last float64) {
	if len(s.window) == 0 {
		return 0, 0
	}
	return s.window[0].X, s.window[len(s.window)-1].X
}

// Window returns a copy of the live window, oldest first.
func (s *Series) Window() []Point {
	out := make([]Point, len(s.window))
	copy(out, s.window)
	return out
}

// History returns a copy of the bounded history, oldest first.
func (s *Series) History() []Point {
	out := make([]Point, len(s.history))
	copy(out, s.history)
	return out
}

// Len returns the current window length.
func (s *Series) Len() int { return len(s.window) }

// HistoryLen returns the current history length.
func (s *Series) HistoryLen() int { return len(s.history) }

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
