// Package graph implements the per-channel telemetry view: a bounded
// sliding-window series with scrollback history, the autoscale/hysteresis
// view-bounds engine, and the lock-guarded shared channel aggregate that the
// serial collector, the render loop, and remote control sessions all operate
// on concurrently.
package graph

import "fmt"

// Config controls window sizing and the fallback display range for one
// channel. It is immutable after construction.
type Config struct {
	// Window is the number of points visible in the live sliding window.
	Window int

	// History is the maximum number of points retained for scrollback.
	History int

	// RangeLo and RangeHi are the default y-range, used when autoscale is
	// off and as the stats fallback when no usable data exists.
	RangeLo float64
	RangeHi float64
}

// Validate checks the structural invariants of the config.
func (c Config) Validate() error {
	if c.Window <= 0 {
		return fmt.Errorf("window must be positive, got %d", c.Window)
	}
	if c.History < c.Window {
		return fmt.Errorf("history (%d) must be at least window (%d)", c.History, c.Window)
	}
	if c.RangeLo >= c.RangeHi {
		return fmt.Errorf("range lo (%v) must be below hi (%v)", c.RangeLo, c.RangeHi)
	}
	return nil
}

// Midpoint returns the centre of the default range. Fresh series are
// pre-seeded at this value so charts never start empty.
func (c Config) Midpoint() float64 {
	return (c.RangeLo + c.RangeHi) / 2
}
