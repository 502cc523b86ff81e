package graph

import (
	"errors"
	"sync"

	"gonum.org/v1/gonum/stat"
)

// ErrNoBounds is returned by Lock before the first render step has
// established displayed bounds to pin.
var ErrNoBounds = errors.New("no bounds")

const (
	// DefaultShrinkConfirmFrames is the number of consecutive comfortable
	// frames required before the view starts shrinking.
	DefaultShrinkConfirmFrames = 8

	// DefaultShrinkMarginFraction is the headroom, as a fraction of the
	// current span, the autoscale target must keep inside the current
	// bounds for a frame to count as comfortable.
	DefaultShrinkMarginFraction = 0.20
)

// Settings are the per-channel display parameters applied at construction.
// Smoothing is clamped to [0,1]; zero-valued shrink tunables fall back to
// the package defaults.
type Settings struct {
	Name      string
	Color     string // opaque tag, interpreted by the renderer
	Autoscale bool
	Smoothing float64

	ShrinkConfirmFrames  int
	ShrinkMarginFraction float64
}

// Channel is the shared per-channel aggregate. The serial collector pushes
// samples into it, the render loop advances its view once per frame, and
// remote control sessions flip its display flags, all concurrently. A single
// RWMutex guards the whole aggregate: every mutation (including StepView,
// which updates the view state) takes the write lock, and read-only
// snapshots take the read lock. No method acquires another channel's lock,
// so cross-channel deadlock cannot occur, and every critical section is
// O(window).
type Channel struct {
	mu sync.RWMutex

	series *Series
	view   ViewState

	name      string
	color     string
	autoscale bool
	smoothing float64

	locked    Bounds
	hasLocked bool

	confirmFrames int
	marginFrac    float64
}

// NewChannel builds a channel for the given config and display settings.
// The config must already be validated.
func NewChannel(cfg Config, set Settings) *Channel {
	if set.ShrinkConfirmFrames <= 0 {
		set.ShrinkConfirmFrames = DefaultShrinkConfirmFrames
	}
	if set.ShrinkMarginFraction <= 0 {
		set.ShrinkMarginFraction = DefaultShrinkMarginFraction
	}
	return &Channel{
		series:        NewSeries(cfg),
		name:          set.Name,
		color:         set.Color,
		autoscale:     set.Autoscale,
		smoothing:     clamp(set.Smoothing, 0, 1),
		confirmFrames: set.ShrinkConfirmFrames,
		marginFrac:    set.ShrinkMarginFraction,
	}
}

// Name returns the channel's display name.
func (c *Channel) Name() string { return c.name }

// Color returns the channel's opaque color tag.
func (c *Channel) Color() string { return c.color }

// Push records a sample at the given x coordinate.
func (c *Channel) Push(x, y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series.Push(x, y)
}

// PushNext records a sample one x step past the newest history entry. This
// is the ingestion entry point: a single producer per channel calls it, so
// x stays monotonically non-decreasing.
func (c *Channel) PushNext(y float64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.series.Push(c.series.NextX(), y)
}

// StepView advances the displayed bounds one frame toward their target and
// returns them. Called once per render frame.
func (c *Channel) StepView() Bounds {
	c.mu.Lock()
	defer c.mu.Unlock()

	min, max, _ := c.series.Stats()
	target := c.target(min, max)
	return advanceView(&c.view, min, max, target, c.smoothing, c.hasLocked, c.confirmFrames, c.marginFrac)
}

// target computes this frame's target bounds. Locked bounds win
// unconditionally; with autoscale off the default range applies; otherwise
// the padded autoscale target is used.
func (c *Channel) target(min, max float64) Bounds {
	switch {
	case c.hasLocked:
		return c.locked
	case !c.autoscale:
		return Bounds{Lo: c.series.cfg.RangeLo, Hi: c.series.cfg.RangeHi}
	default:
		return targetBounds(min, max)
	}
}

// ToggleAutoscale flips autoscale and reports the new state. Enabling
// autoscale clears any locked bounds.
func (c *Channel) ToggleAutoscale() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.autoscale = !c.autoscale
	if c.autoscale {
		c.hasLocked = false
	}
	return c.autoscale
}

// SetSmoothing stores the smoothing factor clamped to [0,1] and returns the
// stored value.
func (c *Channel) SetSmoothing(v float64) float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.smoothing = clamp(v, 0, 1)
	return c.smoothing
}

// Smoothing returns the current smoothing factor.
func (c *Channel) Smoothing() float64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.smoothing
}

// Autoscale reports whether autoscale is enabled.
func (c *Channel) Autoscale() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.autoscale
}

// Lock pins the displayed bounds at their current value, overriding
// autoscale until Unlock. It fails with ErrNoBounds before the first render
// step, since there is nothing to pin yet.
func (c *Channel) Lock() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.view.Initialized {
		return ErrNoBounds
	}
	c.locked = c.view.Bounds
	c.hasLocked = true
	return nil
}

// Unlock clears locked bounds; autoscale (if enabled) resumes on the next
// frame.
func (c *Channel) Unlock() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hasLocked = false
}

// ToggleLock locks at the current bounds, or unlocks if already locked, and
// reports whether the channel is locked afterwards. Locking before the
// first render step is a no-op, matching the keyboard binding's behavior.
func (c *Channel) ToggleLock() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.hasLocked {
		c.hasLocked = false
		return false
	}
	if !c.view.Initialized {
		return false
	}
	c.locked = c.view.Bounds
	c.hasLocked = true
	return true
}

// Locked reports whether bounds are currently locked.
func (c *Channel) Locked() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.hasLocked
}

// Snapshot is a consistent read-only view of a channel, safe to render from
// without holding the channel lock.
type Snapshot struct {
	Name  string
	Color string

	Min  float64
	Max  float64
	Last float64

	Bounds    Bounds
	HasBounds bool
	Phase     Phase
	Autoscale bool
	Smoothing float64
	Locked    bool
	LockedAt  Bounds

	XFirst float64
	XLast  float64

	// Trend is the least-squares slope of the live window in y units per
	// sample, 0 when the window has too few finite points to fit.
	Trend float64

	Window  []Point
	History []Point
}

// Snapshot copies everything the renderer needs under a single read lock.
func (c *Channel) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	min, max, last := c.series.Stats()
	xFirst, xLast := c.series.XBounds()
	window := c.series.Window()

	snap := Snapshot{
		Name:      c.name,
		Color:     c.color,
		Min:       min,
		Max:       max,
		Last:      last,
		HasBounds: c.view.Initialized,
		Phase:     c.view.Phase,
		Autoscale: c.autoscale,
		Smoothing: c.smoothing,
		Locked:    c.hasLocked,
		LockedAt:  c.locked,
		XFirst:    xFirst,
		XLast:     xLast,
		Trend:     windowTrend(window),
		Window:    window,
		History:   c.series.History(),
	}
	if c.view.Initialized {
		snap.Bounds = c.view.Bounds
	} else {
		snap.Bounds = Bounds{Lo: c.series.cfg.RangeLo, Hi: c.series.cfg.RangeHi}
	}
	return snap
}

// windowTrend fits y = alpha + beta*x over the finite window points and
// returns beta.
func windowTrend(window []Point) float64 {
	xs := make([]float64, 0, len(window))
	ys := make([]float64, 0, len(window))
	for _, p := range window {
		if !isFinite(p.Y) {
			continue
		}
		xs = append(xs, p.X)
		ys = append(ys, p.Y)
	}
	if len(xs) < 2 {
		return 0
	}
	_, beta := stat.LinearRegression(xs, ys, nil, false)
	return beta
}
