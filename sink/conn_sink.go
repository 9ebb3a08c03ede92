package sink

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"context"
	"fmt"
	"sync"
	"time"
)

// ConnSink is the outbound side of one connection.
// Send only queues; a single writer goroutine (Run) owns every network write,
// so lines reach the peer in the order they were accepted.
type ConnSink struct {
	conn         contract.Conn
	writeTimeout time.Duration

	mu     sync.Mutex
	closed bool
	outbox chan string
	done   chan struct{}
}

func NewConnSink(conn contract.Conn, bufferSize int, writeTimeout time.Duration) *ConnSink {
	return &ConnSink{
		conn:         conn,
		writeTimeout: writeTimeout,
		outbox:       make(chan string, bufferSize),
		done:         make(chan struct{}),
	}
}

// Send queues a line without waiting for the peer.
// A full outbox means the peer is not reading; the line is dropped for it.
func (s *ConnSink) Send(ctx context.Context, line string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return errors.ErrSinkClosed
	}
	select {
	case s.outbox <- line:
		return nil
	default:
		return errors.ErrSinkFull
	}
}

// Run writes queued lines until the sink is closed and drained, or until a write fails.
// On failure the sink closes itself and the remaining lines are discarded.
func (s *ConnSink) Run() error {
	defer close(s.done)
	for line := range s.outbox {
		if s.writeTimeout > 0 {
			_ = s.conn.SetWriteDeadline(time.Now().Add(s.writeTimeout))
		}
		if err := s.conn.WriteLine(line); err != nil {
			s.Close()
			for range s.outbox {
			}
			return fmt.Errorf("writing to %s: %w", s.conn.RemoteAddr(), err)
		}
	}
	return nil
}

// Close stops accepting lines. Lines already queued are still written by Run.
func (s *ConnSink) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	close(s.outbox)
}

// Done is closed once Run has returned.
func (s *ConnSink) Done() <-chan struct{} {
	return s.done
}

// Flush closes the sink and waits for the queued lines to be written, at most timeout.
func (s *ConnSink) Flush(timeout time.Duration) bool {
	s.Close()
	select {
	case <-s.done:
		return true
	case <-time.After(timeout):
		return false
	}
}
