package internal

import (
	"chat-relay/domain"
	"chat-relay/observability"
	"chat-relay/repositories"
	"chat-relay/runtime"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

const (
	defaultAuditLimit = 50
	maxAuditLimit     = 1000
)

type registrySnapshotter interface {
	Snapshot() runtime.RegistrySnapshot
}

// DebugServer is a read-only HTTP view on the running relay. It is meant for
// operators on a private address, never for chat clients.
type DebugServer struct {
	log        *slog.Logger
	registry   registrySnapshotter
	monitoring *observability.MonitoringManager
	audit      repositories.ISessionAuditRepository
}

// NewDebugServer builds the server. audit may be nil when no audit store is configured.
func NewDebugServer(log *slog.Logger, registry registrySnapshotter, monitoring *observability.MonitoringManager,
	audit repositories.ISessionAuditRepository) *DebugServer {
	return &DebugServer{log: log, registry: registry, monitoring: monitoring, audit: audit}
}

type AuditPage struct {
	Events []domain.SessionEvent `json:"events"`
	Cursor *string               `json:"cursor,omitempty"`
}

func (d *DebugServer) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /debug/stats", d.handleStats)
	mux.HandleFunc("GET /debug/sessions", d.handleSessions)
	mux.HandleFunc("GET /debug/audit", d.handleAudit)
	return mux
}

func (d *DebugServer) handleStats(w http.ResponseWriter, _ *http.Request) {
	d.writeJSON(w, d.monitoring.GetLatest())
}

// handleSessions prints one row per registered nickname, in the spirit of a terminal dump.
func (d *DebugServer) handleSessions(w http.ResponseWriter, _ *http.Request) {
	snapshot := d.registry.Snapshot()
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")

	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Nickname", "Channels"})
	table.SetAutoWrapText(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	table.SetFooter([]string{
		fmt.Sprintf("%d sessions", snapshot.SessionCount),
		fmt.Sprintf("%d channels", snapshot.ChannelCount),
	})
	table.AppendBulk(lo.Map(snapshot.Sessions, func(s runtime.SessionView, _ int) []string {
		return []string{s.Nickname, strings.Join(s.Channels, ", ")}
	}))
	table.Render()
}

func (d *DebugServer) handleAudit(w http.ResponseWriter, r *http.Request) {
	if d.audit == nil {
		http.Error(w, "session audit is disabled", http.StatusNotFound)
		return
	}
	limit := defaultAuditLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			http.Error(w, "limit must be a positive integer", http.StatusBadRequest)
			return
		}
		limit = min(parsed, maxAuditLimit)
	}
	var cursor *string
	if raw := r.URL.Query().Get("cursor"); raw != "" {
		cursor = &raw
	}

	events, next, err := d.audit.Recent(limit, cursor)
	if err != nil {
		d.log.Error("Failed to read session audit", "error", err)
		http.Error(w, "cannot read session audit", http.StatusInternalServerError)
		return
	}
	if len(events) < limit {
		next = nil
	}
	if events == nil {
		events = []domain.SessionEvent{}
	}
	d.writeJSON(w, AuditPage{Events: events, Cursor: next})
}

func (d *DebugServer) writeJSON(w http.ResponseWriter, value any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(value); err != nil {
		d.log.Debug("Debug response not written", "error", err)
	}
}

// Serve runs until ctx is done.
func (d *DebugServer) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:           d.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	stop := context.AfterFunc(ctx, func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	})
	defer stop()

	d.log.Info("Debug server listening", "address", listener.Addr().String())
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("debug server: %w", err)
	}
	return nil
}
