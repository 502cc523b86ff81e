package graph

import "math"

// Phase is the stabilization phase of a channel's displayed bounds.
type Phase int

const (
	PhaseStable Phase = iota
	PhaseExpanding
	PhaseShrinking
)

func (p Phase) String() string {
	switch p {
	case PhaseExpanding:
		return "Expanding"
	case PhaseShrinking:
		return "Shrinking"
	default:
		return "Stable"
	}
}

// Bounds is a displayed y-range.
type Bounds struct {
	Lo float64
	Hi float64
}

// ViewState tracks the hysteresis machine for one channel. Bounds is only
// meaningful once Initialized is true (set on the first render step).
type ViewState struct {
	Bounds      Bounds
	Initialized bool

	// Streak counts consecutive frames judged comfortable; shrinking is
	// confirmed only once it reaches the channel's shrink confirm count.
	Streak int

	Phase Phase
}

// flatEps is the threshold below which a window is treated as a flat signal
// and padded by magnitude instead of proportionally.
const flatEps = 2.220446049250313e-16

// targetBounds computes the ideal displayed range for the given window stats
// when autoscale is active. Flat signals get symmetric magnitude-relative
// padding (a flat line at 0 still shows a visible band, a flat line at 1000
// a proportionally larger one); everything else gets 10% of the span on each
// side.
func targetBounds(min, max float64) Bounds {
	if math.Abs(max-min) < flatEps {
		pad := math.Max(math.Abs(min), 1.0) * 0.1
		return Bounds{Lo: min - pad, Hi: max + pad}
	}
	pad := (max - min) * 0.1
	return Bounds{Lo: min - pad, Hi: max + pad}
}

// interpBounds moves current toward target by alpha, clamped to [0,1],
// applied independently to both ends. alpha of 1 snaps, 0 stays.
func interpBounds(current, target Bounds, alpha float64) Bounds {
	a := clamp(alpha, 0, 1)
	return Bounds{
		Lo: current.Lo*(1-a) + target.Lo*a,
		Hi: current.Hi*(1-a) + target.Hi*a,
	}
}

// advanceView runs one render step of the hysteresis machine, mutating v in
// place and returning the bounds to display this frame.
//
// Expansion is asymmetric on purpose: data escaping the current bounds
// forces movement at alpha >= 0.5 on the very next frame so real samples are
// never left off-screen, while shrinking waits for confirmFrames consecutive
// comfortable frames before tightening at the configured smoothing. The
// comfortable test compares the padded target against a margin inside the
// current bounds, not the raw data, which keeps the view from oscillating
// right at the padding boundary.
func advanceView(v *ViewState, min, max float64, target Bounds, smoothing float64, locked bool, confirmFrames int, marginFrac float64) Bounds {
	if !v.Initialized {
		v.Bounds = target
		v.Initialized = true
		v.Streak = 0
		v.Phase = PhaseStable
		return v.Bounds
	}

	if locked {
		v.Phase = PhaseStable
		return v.Bounds
	}

	if min < v.Bounds.Lo || max > v.Bounds.Hi {
		v.Phase = PhaseExpanding
		v.Streak = 0
		v.Bounds = interpBounds(v.Bounds, target, math.Max(smoothing, 0.5))
		return v.Bounds
	}

	span := math.Max(math.Abs(v.Bounds.Hi-v.Bounds.Lo), 1e-9)
	margin := marginFrac * span
	comfortable := target.Lo >= v.Bounds.Lo+margin && target.Hi <= v.Bounds.Hi-margin
	if comfortable {
		v.Streak++
		if v.Streak >= confirmFrames {
			v.Phase = PhaseShrinking
			v.Bounds = interpBounds(v.Bounds, target, smoothing)
		} else {
			v.Phase = PhaseStable
		}
		return v.Bounds
	}

	v.Streak = 0
	v.Phase = PhaseStable
	if smoothing == 1.0 {
		// instant mode: nothing to smooth, so track the target directly
		// instead of waiting out the confirmation delay
		v.Bounds = target
	}
	return v.Bounds
}

func clamp(v, lo, hi float64) float64 {
	// NaN fails both comparisons; treat it as the low end so a bad value can
	// never leak into an interpolation step
	if math.IsNaN(v) || v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
