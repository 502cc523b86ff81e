// Package serialmux reads line-oriented telemetry from a serial port and
// fans the lines out to any number of subscribers. One Feed wraps one port;
// the collector subscribes for samples and, in dev mode, a mock port stands
// in for real hardware.
package serialmux

import (
	"bufio"
	"context"
	crand "crypto/rand"
	"encoding/hex"
	"io"
	"sync"
)

// Porter is the minimal interface the feed needs from a serial port. The
// abstraction enables unit testing without real serial hardware.
type Porter interface {
	io.Reader
	io.Closer
}

// Feed multiplexes lines read from a single port to multiple subscribers.
type Feed[T Porter] struct {
	port T

	subscriberMu sync.Mutex
	subscribers  map[string]chan string

	closingMu sync.Mutex
	closing   bool
}

// Source is the subscriber-facing side of a Feed, letting consumers stay
// independent of the port type parameter.
type Source interface {
	Subscribe() (string, chan string)
	Unsubscribe(string)
}

// NewFeed wraps an open port.
func NewFeed[T Porter](port T) *Feed[T] {
	return &Feed[T]{
		port:        port,
		subscribers: make(map[string]chan string),
	}
}

// randomID generates a random subscriber ID (8 byte random hex encoded value)
func randomID() string {
	b := make([]byte, 8)
	crand.Read(b)
	return hex.EncodeToString(b)
}

// Subscribe creates a new channel receiving each line read from the port.
// The returned ID identifies the subscription for Unsubscribe.
func (f *Feed[T]) Subscribe() (string, chan string) {
	id := randomID()
	ch := make(chan string)
	f.subscriberMu.Lock()
	defer f.subscriberMu.Unlock()
	f.subscribers[id] = ch
	return id, ch
}

// Unsubscribe removes and closes a subscription.
func (f *Feed[T]) Unsubscribe(id string) {
	f.subscriberMu.Lock()
	defer f.subscriberMu.Unlock()
	if ch, ok := f.subscribers[id]; ok {
		close(ch)
		delete(f.subscribers, id)
	}
}

// Monitor reads lines from the port and delivers them to subscribers until
// the context is cancelled, the port closes, or a read error occurs. Slow
// subscribers are skipped rather than allowed to stall the read loop.
func (f *Feed[T]) Monitor(ctx context.Context) error {
	scan := bufio.NewScanner(f.port)

	lineChan := make(chan string)
	scanErrChan := make(chan error, 1)

	// the blocking scan.Scan runs in its own goroutine so the outer loop can
	// keep awaiting lines and cancellation at the same time
	go func() {
		defer close(lineChan)
		for scan.Scan() {
			select {
			case lineChan <- scan.Text():
			case <-ctx.Done():
				return
			}
		}
		if err := scan.Err(); err != nil {
			select {
			case scanErrChan <- err:
			case <-ctx.Done():
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case err := <-scanErrChan:
			return err

		case line, ok := <-lineChan:
			if !ok {
				// port closed or EOF; a scan error may still be pending
				if err := scan.Err(); err != nil {
					return err
				}
				return nil
			}

			f.closingMu.Lock()
			if f.closing {
				f.closingMu.Unlock()
				return nil
			}
			f.closingMu.Unlock()

			f.subscriberMu.Lock()
			for _, ch := range f.subscribers {
				select {
				case ch <- line:
				default:
					// skip full subscribers so the read loop never blocks
				}
			}
			f.subscriberMu.Unlock()
		}
	}
}

// Close closes all subscriptions and the underlying port.
func (f *Feed[T]) Close() error {
	f.closingMu.Lock()
	f.closing = true
	f.closingMu.Unlock()

	f.subscriberMu.Lock()
	for id, ch := range f.subscribers {
		close(ch)
		delete(f.subscribers, id)
	}
	f.subscriberMu.Unlock()

	return f.port.Close()
}
