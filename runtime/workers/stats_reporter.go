package workers

import (
	"chat-relay/observability"
	"chat-relay/runtime"
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/shirou/gopsutil/process"
)

const defaultStatsInterval = 30 * time.Second

type snapshotter interface {
	Snapshot() runtime.RegistrySnapshot
}

// StatsReporter periodically samples the process and logs a one-line summary of the relay.
type StatsReporter struct {
	log        *slog.Logger
	registry   snapshotter
	monitoring *observability.MonitoringManager
	interval   time.Duration
}

func NewStatsReporter(log *slog.Logger, registry snapshotter, monitoring *observability.MonitoringManager,
	interval time.Duration) *StatsReporter {
	if interval <= 0 {
		interval = defaultStatsInterval
	}
	return &StatsReporter{log: log, registry: registry, monitoring: monitoring, interval: interval}
}

func (w *StatsReporter) Run(ctx context.Context) error {
	w.log.Info("Starting stats reporter", "interval", w.interval)
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return err
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.Report(p)
		}
	}
}

// Report takes one sample. A failing OS read only skips the process figures.
func (w *StatsReporter) Report(p *process.Process) {
	if p != nil {
		rss, cpu, err := getSelfStats(p)
		if err != nil {
			w.log.Warn("Failed to collect self stats", "err", err)
		} else {
			w.monitoring.SetProcessStats(observability.ProcessStats{RSSBytes: rss, CPUPercent: cpu})
		}
	}

	snapshot := w.registry.Snapshot()
	stats := w.monitoring.GetLatest()
	w.log.Info("Relay stats",
		"sessions", snapshot.SessionCount,
		"channels", snapshot.ChannelCount,
		"active_connections", stats.ActiveConnections,
		"commands", stats.CommandsHandled,
		"deliveries", stats.Deliveries,
		"dropped", stats.DroppedDeliveries,
		"rss_bytes", stats.RSSBytes,
		"cpu_percent", stats.CPUPercent,
		"uptime", stats.Uptime,
	)
}

func getSelfStats(p *process.Process) (uint64, float64, error) {
	memInfo, err := p.MemoryInfo()
	if err != nil {
		return 0, 0, err
	}
	cpuPercent, err := p.CPUPercent()
	if err != nil {
		return 0, 0, err
	}
	return memInfo.RSS, cpuPercent, nil
}
