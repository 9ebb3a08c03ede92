// Package ws exposes the chat relay to browsers over WebSocket, with the same commands as TCP.
package ws

import (
	"chat-relay/contract"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	Endpoint          = "/ws"
	readHeaderTimeout = 5 * time.Second
)

type Server struct {
	log           *slog.Logger
	handler       contract.IConnHandler
	maxLineLength int
	upgrader      websocket.Upgrader

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

func NewServer(log *slog.Logger, handler contract.IConnHandler, maxLineLength int) *Server {
	return &Server{
		log:           log,
		handler:       handler,
		maxLineLength: maxLineLength,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Terminal and script clients send no Origin; the relay has no cookies to protect.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Handler upgrades requests and serves each socket until the session ends or ctx is done.
func (s *Server) Handler(ctx context.Context) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(Endpoint, func(w http.ResponseWriter, r *http.Request) {
		if !s.track() {
			http.Error(w, "server is shutting down", http.StatusServiceUnavailable)
			return
		}
		defer s.wg.Done()

		socket, err := s.upgrader.Upgrade(w, r, nil)
		if err != nil {
			s.log.Debug("WebSocket upgrade failed", "remote", r.RemoteAddr, "error", err)
			return
		}
		s.handler.Serve(ctx, NewConn(socket, s.maxLineLength))
	})
	return mux
}

// track counts one more socket handler, unless Serve has already started waiting.
func (s *Server) track() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false
	}
	s.wg.Add(1)
	return true
}

// Serve runs the HTTP side until ctx is done. Hijacked sockets are not tracked by
// http.Server, so Serve also waits for their handlers before returning.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(ctx),
		ReadHeaderTimeout: readHeaderTimeout,
	}
	stop := context.AfterFunc(ctx, func() {
		_ = server.Close()
	})
	defer stop()

	s.log.Info("WebSocket endpoint listening", "address", listener.Addr().String(), "path", Endpoint)
	err := server.Serve(listener)
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.wg.Wait()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return fmt.Errorf("websocket server: %w", err)
}
