// Package control serves the line-based TCP remote control protocol. Each
// connection gets its own handler goroutine; commands address channels by
// their index in the startup order.
//
// Grammar, one command per line, one reply per line:
//
//	toggle autoscale <idx>   flip autoscale (enabling clears locked bounds)
//	set smoothing <idx> <v>  set smoothing, clamped to [0,1]
//	lock <idx>               pin bounds at the current view
//	unlock <idx>             clear pinned bounds
//	quit                     reply "OK bye" and close
//
// Replies are "OK", "OK bye", or "ERR <reason>". Blank lines are ignored.
package control

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/google/uuid"

	"github.com/mat-jhgfd/tui-monitor/internal/graph"
	"github.com/mat-jhgfd/tui-monitor/internal/monitoring"
)

// Server accepts control connections and applies commands to the shared
// channels. It holds no per-session state beyond the open sockets.
type Server struct {
	addr     string
	channels []*graph.Channel
	ln       net.Listener
}

// NewServer configures a server for the given bind address and channel
// list. Call Listen then Serve.
func NewServer(addr string, channels []*graph.Channel) *Server {
	return &Server{addr: addr, channels: channels}
}

// Listen binds the control socket. A bind failure disables remote control
// only; callers log it and carry on.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("control: bind %s: %w", s.addr, err)
	}
	s.ln = ln
	return nil
}

// Addr returns the bound address; nil before Listen succeeds. Tests bind to
// port 0 and read the real address back from here.
func (s *Server) Addr() net.Addr {
	if s.ln == nil {
		return nil
	}
	return s.ln.Addr()
}

// Serve accepts connections until the context is cancelled or the listener
// fails. Each accepted connection is handled on its own goroutine; a failed
// accept of one connection never takes down the server.
func (s *Server) Serve(ctx context.Context) error {
	if s.ln == nil {
		return errors.New("control: Serve called before Listen")
	}

	go func() {
		<-ctx.Done()
		s.ln.Close()
	}()

	for {
		conn, err := s.ln.Accept()
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, net.ErrClosed) {
				return nil
			}
			monitoring.Logf("control: accept: %v", err)
			continue
		}
		go s.handleConn(conn)
	}
}

// handleConn runs one session: read a line, apply it, reply, until quit,
// disconnect, or a transport error.
func (s *Server) handleConn(conn net.Conn) {
	defer conn.Close()

	session := uuid.NewString()
	monitoring.Logf("control: session %s from %s", session, conn.RemoteAddr())

	scan := bufio.NewScanner(conn)
	for scan.Scan() {
		raw := strings.TrimSpace(scan.Text())
		if raw == "" {
			continue
		}

		reply, quit := s.execute(raw)
		if _, err := fmt.Fprintf(conn, "%s\n", reply); err != nil {
			monitoring.Logf("control: session %s write: %v", session, err)
			return
		}
		if quit {
			break
		}
	}
	if err := scan.Err(); err != nil {
		monitoring.Logf("control: session %s read: %v", session, err)
	}
	monitoring.Logf("control: session %s closed", session)
}

// execute parses one non-empty command line and applies it, returning the
// reply and whether the session should end.
func (s *Server) execute(raw string) (reply string, quit bool) {
	parts := strings.Fields(raw)

	switch {
	case strings.EqualFold(parts[0], "toggle") && len(parts) == 3 && strings.EqualFold(parts[1], "autoscale"):
		idx, err := strconv.Atoi(parts[2])
		if err != nil {
			return "ERR idx", false
		}
		ch, ok := s.channel(idx)
		if !ok {
			return fmt.Sprintf("ERR no graph %d", idx), false
		}
		ch.ToggleAutoscale()
		return "OK", false

	case strings.EqualFold(parts[0], "set") && len(parts) == 4 && strings.EqualFold(parts[1], "smoothing"):
		idx, err := strconv.Atoi(parts[2])
		if err != nil {
			return "ERR idx", false
		}
		val, err := strconv.ParseFloat(parts[3], 64)
		if err != nil {
			return "ERR val", false
		}
		ch, ok := s.channel(idx)
		if !ok {
			return fmt.Sprintf("ERR no graph %d", idx), false
		}
		ch.SetSmoothing(val)
		return "OK", false

	case strings.EqualFold(parts[0], "lock") && len(parts) == 2:
		idx, err := strconv.Atoi(parts[1])
		if err != nil {
			return "ERR idx", false
		}
		ch, ok := s.channel(idx)
		if !ok {
			return fmt.Sprintf("ERR no graph %d", idx), false
		}
		if err := ch.Lock(); err != nil {
			return "ERR no_bounds", false
		}
		return "OK", false

	case strings.EqualFold(parts[0], "unlock") && len(parts) == 2:
		idx, err := strconv.Atoi(parts[1])
		if err != nil {
			return "ERR idx", false
		}
		ch, ok := s.channel(idx)
		if !ok {
			return fmt.Sprintf("ERR no graph %d", idx), false
		}
		ch.Unlock()
		return "OK", false

	// quit matches on the first token alone; trailing tokens are ignored
	case strings.EqualFold(parts[0], "quit"):
		return "OK bye", true

	default:
		return "ERR unknown " + strings.Join(parts, " "), false
	}
}

func (s *Server) channel(idx int) (*graph.Channel, bool) {
	if idx < 0 || idx >= len(s.channels) {
		return nil, false
	}
	return s.channels[idx], true
}
