package tcp

import (
	"chat-relay/contract"
	"chat-relay/errors"
	"chat-relay/transport"
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"net"
	"sync"
	"time"
)

const maxAcceptBackoff = time.Second

// Server accepts TCP clients and gives each one its own goroutine.
type Server struct {
	log           *slog.Logger
	handler       contract.IConnHandler
	maxLineLength int
	wg            sync.WaitGroup
}

func NewServer(log *slog.Logger, handler contract.IConnHandler, maxLineLength int) *Server {
	return &Server{log: log, handler: handler, maxLineLength: maxLineLength}
}

// Serve accepts until ctx is done, then waits for every connection handler to return.
// Transient accept failures are logged and retried with a growing pause.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	stop := context.AfterFunc(ctx, func() {
		_ = listener.Close()
	})
	defer stop()
	defer s.wg.Wait()

	s.log.Info("Chat relay listening", "address", listener.Addr().String(), "at", time.Now().UTC())

	var backoff time.Duration
	for {
		conn, err := listener.Accept()
		if err != nil {
			if ctx.Err() != nil {
				s.log.Info("Listener stopped", "address", listener.Addr().String())
				return nil
			}
			if stderrors.Is(err, net.ErrClosed) {
				return fmt.Errorf("%w: %v", errors.ErrServerClosed, err)
			}
			backoff = nextBackoff(backoff)
			s.log.Warn("Accept failed", "error", err, "retry_in", backoff)
			select {
			case <-time.After(backoff):
			case <-ctx.Done():
			}
			continue
		}
		backoff = 0

		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			s.handler.Serve(ctx, transport.NewLineConn(conn, s.maxLineLength))
		}()
	}
}

func nextBackoff(current time.Duration) time.Duration {
	if current == 0 {
		return 5 * time.Millisecond
	}
	return min(current*2, maxAcceptBackoff)
}
