package workers

import (
	"chat-relay/observability"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/shirou/gopsutil/process"
	"github.com/stretchr/testify/require"
)

type stubSink struct{}

func (stubSink) Send(context.Context, string) error { return nil }

func TestStatsReporter_Report(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	registry := runtime.NewRegistry()
	monitoring := observability.NewMonitoringManager(log)
	req.NoError(registry.Register("alice", stubSink{}))

	p, err := process.NewProcess(int32(os.Getpid()))
	req.NoError(err)

	NewStatsReporter(log, registry, monitoring, time.Minute).Report(p)

	req.NotZero(monitoring.GetLatest().RSSBytes)
}

func TestStatsReporter_Stops_With_Context(t *testing.T) {
	req := require.New(t)
	log := slog.Default()
	reporter := NewStatsReporter(log, runtime.NewRegistry(), observability.NewMonitoringManager(log), 10*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	req.ErrorIs(reporter.Run(ctx), context.DeadlineExceeded)
}
