package main

import (
	"chat-relay/contract"
	"chat-relay/infrastructure/grpc/server"
	"chat-relay/infrastructure/tcp"
	"chat-relay/infrastructure/ws"
	"chat-relay/internal"
	"chat-relay/moderation"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"chat-relay/runtime/workers"
	"chat-relay/services"
	"chat-relay/session"
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/mama165/sdk-go/logs"
	"golang.org/x/sync/errgroup"
)

// Exit codes to provide meaningful status to the operating system or service manager.
const (
	exitOK      = 0
	exitRuntime = 1
	exitConfig  = 2
)

func main() {
	code, err := run()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Chat relay terminated with error: %v\n", err)
	}
	os.Exit(code)
}

// run wires every component, serves until SIGINT/SIGTERM or a listener failure,
// then shuts down in order: listeners and sessions first, background workers last,
// so that the disconnect events of the closing sessions still reach the audit store.
func run() (int, error) {
	// 1. Configuration & Logger
	config, err := internal.LoadConfig()
	if err != nil {
		return exitConfig, err
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	moderator, err := buildModerator(config, log)
	if err != nil {
		return exitConfig, fmt.Errorf("moderation: %w", err)
	}

	// 2. Listeners, all bound before anything starts
	listeners, err := openListeners(config)
	if err != nil {
		return exitRuntime, err
	}

	// 3. Core
	registry := runtime.NewRegistry()
	monitoring := observability.NewMonitoringManager(log)
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewStatsReporter(log, registry, monitoring, config.StatsInterval))

	// 4. Session audit (BadgerDB), optional
	var auditor contract.IAuditor
	var auditRepository repositories.ISessionAuditRepository
	if config.BadgerFilepath != "" {
		db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).WithLoggingLevel(badger.WARNING))
		if err != nil {
			listeners.close()
			return exitRuntime, fmt.Errorf("database opening failed: %w", err)
		}
		defer func() {
			log.Info("Closing BadgerDB...")
			_ = db.Close()
		}()
		repository := repositories.NewSessionAuditRepository(db, log)
		sessionAuditor := workers.NewSessionAuditor(log, repository, 0)
		sup.Add(sessionAuditor)
		auditor, auditRepository = sessionAuditor, repository
	}

	service := services.NewChatService(log, registry, moderator, monitoring)
	handler := session.NewHandler(log, registry, service, auditor, monitoring, session.Config{
		OutboxSize:          config.OutboxSize,
		RegistrationTimeout: config.RegistrationTimeout,
		IdleTimeout:         config.IdleTimeout,
		WriteTimeout:        config.WriteTimeout,
	})

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	workersCtx, stopWorkers := context.WithCancel(context.Background())
	workersDone := make(chan struct{})
	go func() {
		defer close(workersDone)
		sup.Run(workersCtx)
	}()

	// 6. Servers
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		return tcp.NewServer(log, handler, config.MaxLineLength).Serve(gctx, listeners.chat)
	})
	if listeners.ws != nil {
		g.Go(func() error {
			return ws.NewServer(log, handler, config.MaxLineLength).Serve(gctx, listeners.ws)
		})
	}
	var admin *server.AdminServer
	if listeners.admin != nil {
		admin = server.NewAdminServer(log)
		g.Go(func() error { return admin.Serve(gctx, listeners.admin) })
		admin.SetServing(true)
	}
	if listeners.debug != nil {
		debug := internal.NewDebugServer(log, registry, monitoring, auditRepository)
		g.Go(func() error { return debug.Serve(gctx, listeners.debug) })
	}

	// 7. Wait for Stop or Error
	<-gctx.Done()
	log.Info("Shutting down gracefully...")
	if admin != nil {
		admin.SetServing(false)
	}

	code := exitOK
	waitErr := make(chan error, 1)
	go func() { waitErr <- g.Wait() }()
	select {
	case err = <-waitErr:
		if err != nil {
			code = exitRuntime
		}
	case <-time.After(config.ShutdownTimeout):
		log.Warn("Shutdown timeout elapsed, sessions still open", "timeout", config.ShutdownTimeout)
	}

	// 8. Final Cleanup
	stopWorkers()
	select {
	case <-workersDone:
	case <-time.After(config.ShutdownTimeout):
		log.Warn("Workers did not stop in time")
	}
	log.Info("Program stopped cleanly")
	return code, err
}

type listenerSet struct {
	chat  net.Listener
	ws    net.Listener
	admin net.Listener
	debug net.Listener
}

func (l listenerSet) close() {
	for _, listener := range []net.Listener{l.chat, l.ws, l.admin, l.debug} {
		if listener != nil {
			_ = listener.Close()
		}
	}
}

func openListeners(config internal.Config) (listenerSet, error) {
	var set listenerSet
	bind := func(address string, target *net.Listener) error {
		if address == "" {
			return nil
		}
		listener, err := net.Listen("tcp", address)
		if err != nil {
			set.close()
			return fmt.Errorf("failed to listen on %s: %w", address, err)
		}
		*target = listener
		return nil
	}
	for _, binding := range []struct {
		address string
		target  *net.Listener
	}{
		{config.ChatAddr(), &set.chat},
		{config.WebSocketAddr, &set.ws},
		{config.AdminGrpcAddr, &set.admin},
		{config.DebugAddr, &set.debug},
	} {
		if err := bind(binding.address, binding.target); err != nil {
			return listenerSet{}, err
		}
	}
	return set, nil
}

// buildModerator returns nil when no censored words are configured.
func buildModerator(config internal.Config, log *slog.Logger) (contract.IModerator, error) {
	if !config.ModerationEnabled() {
		return nil, nil
	}
	words := moderation.ParseWords(config.CensoredWords)
	if config.CensoredWordsFile != "" {
		fromFile, err := moderation.LoadWordsFile(config.CensoredWordsFile)
		if err != nil {
			return nil, err
		}
		words = append(words, fromFile...)
	}
	char, err := internal.CharacterRune(config.CharReplacement)
	if err != nil {
		return nil, err
	}
	moderator, err := moderation.NewModerator(words, char, log)
	if err != nil {
		return nil, err
	}
	log.Info("Moderation enabled", "words", len(words))
	return moderator, nil
}
