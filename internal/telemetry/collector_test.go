package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/mat-jhgfd/tui-monitor/internal/graph"
)

// fakeSource hands out a pre-filled line channel.
type fakeSource struct {
	lines chan string
}

func (f *fakeSource) Subscribe() (string, chan string) { return "test", f.lines }
func (f *fakeSource) Unsubscribe(string)               {}

func testChannels(n int) []*graph.Channel {
	channels := make([]*graph.Channel, n)
	for i := range channels {
		channels[i] = graph.NewChannel(
			graph.Config{Window: 10, History: 100, RangeLo: 0, RangeHi: 100},
			graph.Settings{Autoscale: true, Smoothing: 0.5},
		)
	}
	return channels
}

func TestCollectorPushesSamples(t *testing.T) {
	channels := testChannels(NumChannels)
	src := &fakeSource{lines: make(chan string, 4)}
	src.lines <- "Received:  1  -90.0  20.5  1000.0  55.0  120.0"
	src.lines <- "RSSI_PACKET: -85.0 dBm"
	src.lines <- "ACK sent back automatically."
	close(src.lines)

	c := NewCollector(src, channels)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	wantLast := []float64{1, -90.0, 20.5, 1000.0, 55.0, 120.0, -85.0}
	for i, want := range wantLast {
		snap := channels[i].Snapshot()
		if snap.Last != want {
			t.Errorf("channel %d last = %v, want %v", i, snap.Last, want)
		}
	}
}

// Samples advance x by one per push, continuing past the seeded history.
func TestCollectorAdvancesX(t *testing.T) {
	channels := testChannels(1)
	src := &fakeSource{lines: make(chan string, 3)}
	// channel 0 is ChanMsg, the frame's message counter
	src.lines <- "Received:  10  -90  1  1  1  1"
	src.lines <- "Received:  11  -90  1  1  1  1"
	close(src.lines)

	c := NewCollector(src, channels)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	snap := channels[0].Snapshot()
	// seeds occupy x 0..9, pushes land at 10 and 11
	if snap.XLast != 11 {
		t.Errorf("XLast = %v, want 11", snap.XLast)
	}
	if snap.Last != 11 {
		t.Errorf("Last = %v, want 11", snap.Last)
	}
}

// Samples for channels past the configured list are dropped, not fatal.
func TestCollectorDropsUnknownChannels(t *testing.T) {
	channels := testChannels(2) // fewer channels than the frame addresses
	src := &fakeSource{lines: make(chan string, 2)}
	src.lines <- "Received:  5  -80  1  2  3  4"
	close(src.lines)

	c := NewCollector(src, channels)
	if err := c.Run(context.Background()); err != nil {
		t.Fatalf("Run: %v", err)
	}

	if got := channels[0].Snapshot().Last; got != 5 {
		t.Errorf("channel 0 last = %v, want 5", got)
	}
	if got := channels[1].Snapshot().Last; got != -80 {
		t.Errorf("channel 1 last = %v, want -80", got)
	}
}

func TestCollectorStopsOnCancel(t *testing.T) {
	channels := testChannels(1)
	src := &fakeSource{lines: make(chan string)}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- NewCollector(src, channels).Run(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Run returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("collector did not stop on cancel")
	}
}
