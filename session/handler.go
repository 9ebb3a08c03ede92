// Package session drives one client connection from the nickname handshake to cleanup.
package session

import (
	"chat-relay/contract"
	"chat-relay/domain"
	"chat-relay/errors"
	"chat-relay/observability"
	"chat-relay/protocol"
	"chat-relay/services"
	"chat-relay/sink"
	"context"
	stderrors "errors"
	"io"
	"log/slog"
	"net"
	"strings"
	"time"
)

type Config struct {
	OutboxSize          int
	RegistrationTimeout time.Duration
	IdleTimeout         time.Duration
	WriteTimeout        time.Duration
	FlushTimeout        time.Duration
}

const (
	DefaultOutboxSize   = 64
	DefaultFlushTimeout = time.Second
)

// Reasons recorded when a session ends.
const (
	ReasonQuit        = "quit"
	ReasonEOF         = "eof"
	ReasonLineTooLong = "line too long"
	ReasonIdle        = "idle timeout"
	ReasonShutdown    = "shutdown"
	ReasonReadError   = "read error"
)

type Handler struct {
	log        *slog.Logger
	registry   contract.IRegistry
	service    services.IChatService
	auditor    contract.IAuditor
	monitoring *observability.MonitoringManager
	cfg        Config
}

// NewHandler wires the connection lifecycle. auditor and monitoring may be nil.
func NewHandler(log *slog.Logger, registry contract.IRegistry, service services.IChatService,
	auditor contract.IAuditor, monitoring *observability.MonitoringManager, cfg Config) *Handler {
	if cfg.OutboxSize <= 0 {
		cfg.OutboxSize = DefaultOutboxSize
	}
	if cfg.FlushTimeout <= 0 {
		cfg.FlushTimeout = DefaultFlushTimeout
	}
	return &Handler{
		log:        log,
		registry:   registry,
		service:    service,
		auditor:    auditor,
		monitoring: monitoring,
		cfg:        cfg,
	}
}

// Serve owns conn until it returns: the connection is always closed and,
// if a nickname was registered, it is released together with its channel memberships.
func (h *Handler) Serve(ctx context.Context, conn contract.Conn) {
	h.monitoring.ConnectionOpened()
	defer h.monitoring.ConnectionClosed()

	remote := conn.RemoteAddr()
	log := h.log.With("remote", remote)
	log.Debug("Connection accepted")

	// Unblock a pending read on shutdown; the loops below notice ctx and leave cleanly.
	stop := context.AfterFunc(ctx, func() {
		_ = conn.SetReadDeadline(time.Now())
	})
	defer stop()

	nickname, outbox, ok := h.register(ctx, conn, log)
	if !ok {
		return
	}
	log = log.With("nickname", nickname)

	reason := h.loop(ctx, conn, outbox, nickname, log)

	left := h.registry.Unregister(nickname)
	if !outbox.Flush(h.cfg.FlushTimeout) {
		log.Warn("Outbox not flushed before close")
	}
	_ = conn.Close()
	h.record(domain.NewSessionEvent(domain.SessionDisconnected, nickname, remote, reason))
	log.Info("Session closed", "reason", reason, "channels_left", left)
}

// register reads the first line as the nickname and claims it in the registry.
// On rejection one explanatory line is written and the connection is closed.
func (h *Handler) register(ctx context.Context, conn contract.Conn, log *slog.Logger) (string, *sink.ConnSink, bool) {
	if err := armReadDeadline(ctx, conn, h.cfg.RegistrationTimeout); err != nil {
		_ = conn.Close()
		return "", nil, false
	}
	line, err := conn.ReadLine()
	if err != nil {
		log.Debug("Connection closed before registration", "error", err)
		_ = conn.Close()
		return "", nil, false
	}
	nickname := strings.TrimSuffix(line, "\r")

	if err := domain.ValidateNickname(nickname); err != nil {
		if stderrors.Is(err, errors.ErrEmptyNickname) {
			h.reject(conn, nickname, protocol.EmptyNickname(), err, log)
		} else {
			h.reject(conn, nickname, protocol.InvalidNickname(nickname), err, log)
		}
		return "", nil, false
	}

	outbox := sink.NewConnSink(conn, h.cfg.OutboxSize, h.cfg.WriteTimeout)
	if err := h.registry.Register(nickname, outbox); err != nil {
		h.reject(conn, nickname, protocol.NicknameTaken(nickname), err, log)
		return "", nil, false
	}

	go func() {
		if err := outbox.Run(); err != nil {
			log.Debug("Writer stopped", "error", err)
			// a dead writer means a dead peer: wake the reader up
			_ = conn.Close()
		}
	}()

	h.monitoring.IncrRegistrations()
	h.record(domain.NewSessionEvent(domain.SessionConnected, nickname, conn.RemoteAddr(), ""))
	log.Info("Session registered", "nickname", nickname)
	h.send(ctx, outbox, protocol.Welcome(nickname), log)
	return nickname, outbox, true
}

func (h *Handler) reject(conn contract.Conn, nickname, line string, cause error, log *slog.Logger) {
	h.monitoring.IncrRejectedNicknames()
	log.Info("Registration rejected", "nickname", nickname, "error", cause)
	if h.cfg.WriteTimeout > 0 {
		_ = conn.SetWriteDeadline(time.Now().Add(h.cfg.WriteTimeout))
	}
	if err := conn.WriteLine(line); err != nil {
		log.Debug("Rejection not delivered", "error", err)
	}
	h.record(domain.NewSessionEvent(domain.SessionRejected, nickname, conn.RemoteAddr(), cause.Error()))
	_ = conn.Close()
}

// loop handles commands in arrival order and returns why the session ended.
func (h *Handler) loop(ctx context.Context, conn contract.Conn, outbox *sink.ConnSink, nickname string, log *slog.Logger) string {
	for {
		if err := armReadDeadline(ctx, conn, h.cfg.IdleTimeout); err != nil {
			h.send(ctx, outbox, protocol.ShuttingDown(), log)
			return ReasonShutdown
		}
		line, err := conn.ReadLine()
		if err != nil {
			return h.readFailure(ctx, outbox, nickname, err, log)
		}

		outcome := h.service.Handle(ctx, nickname, protocol.Parse(line))
		if outcome.Reply != "" {
			h.send(ctx, outbox, outcome.Reply, log)
		}
		if outcome.Quit {
			return ReasonQuit
		}
	}
}

func (h *Handler) readFailure(ctx context.Context, outbox *sink.ConnSink, nickname string, err error, log *slog.Logger) string {
	var netErr net.Error
	switch {
	case ctx.Err() != nil:
		h.send(ctx, outbox, protocol.ShuttingDown(), log)
		return ReasonShutdown
	case stderrors.Is(err, io.EOF):
		// end of stream counts as /quit
		h.send(ctx, outbox, protocol.Goodbye(nickname), log)
		return ReasonEOF
	case stderrors.Is(err, errors.ErrLineTooLong):
		h.monitoring.IncrProtocolErrors()
		h.send(ctx, outbox, protocol.LineTooLong(), log)
		return ReasonLineTooLong
	case stderrors.As(err, &netErr) && netErr.Timeout():
		h.send(ctx, outbox, protocol.IdleTimeout(), log)
		return ReasonIdle
	default:
		log.Debug("Read failed", "error", err)
		return ReasonReadError
	}
}

// send queues a reply for the client itself. Replies survive cancellation of ctx
// so that a farewell can still be flushed during shutdown.
func (h *Handler) send(ctx context.Context, outbox contract.Sink, line string, log *slog.Logger) {
	if err := outbox.Send(context.WithoutCancel(ctx), line); err != nil {
		log.Debug("Reply dropped", "error", err)
	}
}

func (h *Handler) record(evt domain.SessionEvent) {
	if h.auditor == nil {
		return
	}
	h.auditor.Record(evt)
}

// armReadDeadline sets the next read deadline, or clears it when timeout is zero.
// It reports a cancelled ctx after arming, so a shutdown deadline set concurrently is never lost.
func armReadDeadline(ctx context.Context, conn contract.Conn, timeout time.Duration) error {
	var deadline time.Time
	if timeout > 0 {
		deadline = time.Now().Add(timeout)
	}
	_ = conn.SetReadDeadline(deadline)
	return ctx.Err()
}

var _ contract.IConnHandler = (*Handler)(nil)
