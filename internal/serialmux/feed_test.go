package serialmux

import (
	"context"
	"errors"
	"io"
	"sync"
	"testing"
	"time"
)

// scriptedPort implements Porter over a fixed byte sequence, then blocks
// until closed to simulate an idle line.
type scriptedPort struct {
	mu      sync.Mutex
	data    []byte
	offset  int
	closed  bool
	readErr error
}

func newScriptedPort(data string) *scriptedPort {
	return &scriptedPort{data: []byte(data)}
}

func (p *scriptedPort) Read(buf []byte) (int, error) {
	for {
		p.mu.Lock()
		if p.closed {
			p.mu.Unlock()
			return 0, io.EOF
		}
		if p.readErr != nil && p.offset >= len(p.data) {
			err := p.readErr
			p.mu.Unlock()
			return 0, err
		}
		if p.offset < len(p.data) {
			n := copy(buf, p.data[p.offset:])
			p.offset += n
			p.mu.Unlock()
			return n, nil
		}
		p.mu.Unlock()
		time.Sleep(5 * time.Millisecond)
	}
}

func (p *scriptedPort) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

func (p *scriptedPort) setReadErr(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.readErr = err
}

func TestFeedDeliversLines(t *testing.T) {
	port := newScriptedPort("alpha\nbeta\ngamma\n")
	feed := NewFeed(port)
	defer feed.Close()

	id, ch := feed.Subscribe()
	defer feed.Unsubscribe(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Monitor(ctx)

	for _, want := range []string{"alpha", "beta", "gamma"} {
		select {
		case got := <-ch:
			if got != want {
				t.Errorf("line = %q, want %q", got, want)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for %q", want)
		}
	}
}

func TestFeedMultipleSubscribers(t *testing.T) {
	port := newScriptedPort("one\n")
	feed := NewFeed(port)
	defer feed.Close()

	id1, ch1 := feed.Subscribe()
	defer feed.Unsubscribe(id1)
	id2, ch2 := feed.Subscribe()
	defer feed.Unsubscribe(id2)
	if id1 == id2 {
		t.Fatal("subscriber ids collide")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Monitor(ctx)

	for i, ch := range []chan string{ch1, ch2} {
		select {
		case got := <-ch:
			if got != "one" {
				t.Errorf("subscriber %d got %q", i, got)
			}
		case <-time.After(time.Second):
			t.Fatalf("subscriber %d timed out", i)
		}
	}
}

func TestFeedMonitorStopsOnCancel(t *testing.T) {
	port := newScriptedPort("")
	feed := NewFeed(port)
	defer feed.Close()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- feed.Monitor(ctx) }()

	cancel()
	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Monitor returned %v, want context.Canceled", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Monitor did not stop on cancel")
	}
}

func TestFeedMonitorReturnsReadError(t *testing.T) {
	port := newScriptedPort("last\n")
	readErr := errors.New("device unplugged")
	port.setReadErr(readErr)
	feed := NewFeed(port)
	defer feed.Close()

	done := make(chan error, 1)
	go func() { done <- feed.Monitor(context.Background()) }()

	select {
	case err := <-done:
		if !errors.Is(err, readErr) {
			t.Errorf("Monitor returned %v, want %v", err, readErr)
		}
	case <-time.After(time.Second):
		t.Fatal("Monitor did not surface the read error")
	}
}

func TestFeedUnsubscribeClosesChannel(t *testing.T) {
	feed := NewFeed(newScriptedPort(""))
	defer feed.Close()

	id, ch := feed.Subscribe()
	feed.Unsubscribe(id)
	if _, ok := <-ch; ok {
		t.Error("channel should be closed after Unsubscribe")
	}
	// double unsubscribe is a no-op
	feed.Unsubscribe(id)
}

func TestFeedCloseClosesSubscribers(t *testing.T) {
	port := newScriptedPort("")
	feed := NewFeed(port)
	_, ch := feed.Subscribe()

	if err := feed.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if _, ok := <-ch; ok {
		t.Error("subscriber channel should be closed after Close")
	}
	if !port.closed {
		t.Error("port should be closed")
	}
}

func TestMockFeedReplaysLines(t *testing.T) {
	feed := NewMockFeed([]string{"a 1", "b 2"}, time.Millisecond)
	defer feed.Close()

	id, ch := feed.Subscribe()
	defer feed.Unsubscribe(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Monitor(ctx)

	seen := map[string]bool{}
	deadline := time.After(time.Second)
	for len(seen) < 2 {
		select {
		case line := <-ch:
			seen[line] = true
		case <-deadline:
			t.Fatalf("timed out; saw %v", seen)
		}
	}
}

func TestMockFeedNoLines(t *testing.T) {
	feed := NewMockFeed(nil, time.Millisecond)

	id, ch := feed.Subscribe()
	defer feed.Unsubscribe(id)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	done := make(chan struct{})
	go func() {
		feed.Monitor(ctx)
		close(done)
	}()

	select {
	case line := <-ch:
		t.Fatalf("idle feed delivered %q", line)
	case <-time.After(20 * time.Millisecond):
	}

	if err := feed.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Monitor did not stop after Close")
	}
}
