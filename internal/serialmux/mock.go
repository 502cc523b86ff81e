package serialmux

import (
	"io"
	"time"
)

// MockPort implements Porter over an in-memory pipe, used for dev mode and
// tests.
type MockPort struct {
	*io.PipeReader
	w *io.PipeWriter
}

// Close tears down both pipe ends; pending reads return io.EOF.
func (m *MockPort) Close() error {
	m.w.Close()
	return m.PipeReader.Close()
}

// NewMockFeed returns a feed whose port replays the given lines in a cycle,
// one line per interval, simulating a live telemetry source. With no lines
// the feed stays idle until closed.
func NewMockFeed(lines []string, interval time.Duration) *Feed[*MockPort] {
	r, w := io.Pipe()
	port := &MockPort{PipeReader: r, w: w}

	if len(lines) == 0 {
		return NewFeed(port)
	}

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for i := 0; ; i++ {
			<-ticker.C
			line := lines[i%len(lines)]
			if _, err := w.Write([]byte(line + "\n")); err != nil {
				return
			}
		}
	}()

	return NewFeed(port)
}
