package internal

import (
	"chat-relay/domain"
	"chat-relay/mocks"
	"chat-relay/observability"
	"chat-relay/runtime"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type noopSink struct{}

func (noopSink) Send(context.Context, string) error { return nil }

func get(t *testing.T, server *httptest.Server, path string) (int, string) {
	t.Helper()
	resp, err := http.Get(server.URL + path)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, string(body)
}

func TestDebugServer_Stats_And_Sessions(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	registry := runtime.NewRegistry()
	monitoring := observability.NewMonitoringManager(log)
	req.NoError(registry.Register("alice", noopSink{}))
	req.NoError(registry.Register("bob", noopSink{}))
	_, err := registry.Join("general", "alice")
	req.NoError(err)
	monitoring.ConnectionOpened()
	monitoring.IncrRegistrations()

	server := httptest.NewServer(NewDebugServer(log, registry, monitoring, nil).Handler())
	defer server.Close()

	status, body := get(t, server, "/debug/stats")
	req.Equal(http.StatusOK, status)
	var stats observability.MonitoringStats
	req.NoError(json.Unmarshal([]byte(body), &stats))
	req.Equal(int64(1), stats.ActiveConnections)
	req.Equal(uint64(1), stats.Registrations)

	status, body = get(t, server, "/debug/sessions")
	req.Equal(http.StatusOK, status)
	req.Contains(body, "alice")
	req.Contains(body, "general")
	req.Contains(body, "bob")
	req.Contains(body, "2 SESSIONS")

	status, _ = get(t, server, "/debug/audit")
	req.Equal(http.StatusNotFound, status)
}

func TestDebugServer_Audit(t *testing.T) {
	req := require.New(t)
	log := logs.GetLoggerFromLevel(slog.LevelDebug)
	ctrl := gomock.NewController(t)
	audit := mocks.NewMockISessionAuditRepository(ctrl)
	server := httptest.NewServer(NewDebugServer(log, runtime.NewRegistry(), nil, audit).Handler())
	defer server.Close()

	events := []domain.SessionEvent{
		domain.NewSessionEvent(domain.SessionDisconnected, "alice", "127.0.0.1:4000", "quit"),
		domain.NewSessionEvent(domain.SessionConnected, "alice", "127.0.0.1:4000", ""),
	}
	cursor := "0000000000000000001:abc"
	audit.EXPECT().Recent(2, nil).Return(events, &cursor, nil)
	audit.EXPECT().Recent(2, &cursor).Return(nil, &cursor, nil)
	audit.EXPECT().Recent(defaultAuditLimit, nil).Return(nil, nil, fmt.Errorf("badger is closed"))

	// First page is full, so a cursor is handed out
	status, body := get(t, server, "/debug/audit?limit=2")
	req.Equal(http.StatusOK, status)
	var page AuditPage
	req.NoError(json.Unmarshal([]byte(body), &page))
	req.Len(page.Events, 2)
	req.Equal("alice", page.Events[0].Nickname)
	req.Equal(domain.SessionDisconnected, page.Events[0].Kind)
	req.NotNil(page.Cursor)
	req.Equal(cursor, *page.Cursor)

	// Last page is empty and has no cursor
	status, body = get(t, server, "/debug/audit?limit=2&cursor="+cursor)
	req.Equal(http.StatusOK, status)
	req.JSONEq(`{"events":[]}`, body)

	status, _ = get(t, server, "/debug/audit?limit=zero")
	req.Equal(http.StatusBadRequest, status)

	status, _ = get(t, server, "/debug/audit")
	req.Equal(http.StatusInternalServerError, status)
}
