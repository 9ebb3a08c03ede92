package observability

import (
	"log/slog"
	"runtime"
	"sync"
	"sync/atomic"
	"time"
)

// MonitoringStats aggregates the relay counters for the debug surface and the stats reporter.
type MonitoringStats struct {
	// --- CONNECTION METRICS ---
	ConnectionsAccepted uint64 `json:"connections_accepted"`
	ActiveConnections   int64  `json:"active_connections"`
	Registrations       uint64 `json:"registrations"`
	RejectedNicknames   uint64 `json:"rejected_nicknames"`

	// --- PROTOCOL METRICS ---
	CommandsHandled   uint64 `json:"commands_handled"`
	ProtocolErrors    uint64 `json:"protocol_errors"`
	Deliveries        uint64 `json:"deliveries"`
	DroppedDeliveries uint64 `json:"dropped_deliveries"`
	CensoredMessages  uint64 `json:"censored_messages"`

	// --- PROCESS METRICS ---
	AllocMemMb uint64  `json:"alloc_mem_mb"`
	NumGC      uint32  `json:"num_gc"`
	RSSBytes   uint64  `json:"rss_bytes"`
	CPUPercent float64 `json:"cpu_percent"`
	Uptime     string  `json:"uptime"`
}

// MonitoringManager keeps lock-free counters incremented from connection handlers.
// A nil *MonitoringManager is valid and records nothing.
type MonitoringManager struct {
	log       *slog.Logger
	startedAt time.Time

	ConnectionsAccepted uint64
	ActiveConnections   int64
	Registrations       uint64
	RejectedNicknames   uint64
	CommandsHandled     uint64
	ProtocolErrors      uint64
	Deliveries          uint64
	DroppedDeliveries   uint64
	CensoredMessages    uint64

	mu      sync.RWMutex
	process ProcessStats
}

// ProcessStats is filled by the stats reporter from the OS view of the process.
type ProcessStats struct {
	RSSBytes   uint64
	CPUPercent float64
}

func NewMonitoringManager(log *slog.Logger) *MonitoringManager {
	return &MonitoringManager{log: log, startedAt: time.Now()}
}

func (mm *MonitoringManager) ConnectionOpened() {
	if mm == nil {
		return
	}
	atomic.AddUint64(&mm.ConnectionsAccepted, 1)
	atomic.AddInt64(&mm.ActiveConnections, 1)
}

func (mm *MonitoringManager) ConnectionClosed() {
	if mm == nil {
		return
	}
	atomic.AddInt64(&mm.ActiveConnections, -1)
}

func (mm *MonitoringManager) IncrRegistrations() {
	if mm == nil {
		return
	}
	atomic.AddUint64(&mm.Registrations, 1)
}

func (mm *MonitoringManager) IncrRejectedNicknames() {
	if mm == nil {
		return
	}
	atomic.AddUint64(&mm.RejectedNicknames, 1)
}

func (mm *MonitoringManager) IncrCommands() {
	if mm == nil {
		return
	}
	atomic.AddUint64(&mm.CommandsHandled, 1)
}

func (mm *MonitoringManager) IncrProtocolErrors() {
	if mm == nil {
		return
	}
	atomic.AddUint64(&mm.ProtocolErrors, 1)
}

func (mm *MonitoringManager) IncrDeliveries() {
	if mm == nil {
		return
	}
	atomic.AddUint64(&mm.Deliveries, 1)
}

func (mm *MonitoringManager) IncrDroppedDeliveries() {
	if mm == nil {
		return
	}
	atomic.AddUint64(&mm.DroppedDeliveries, 1)
}

func (mm *MonitoringManager) IncrCensoredMessages() {
	if mm == nil {
		return
	}
	atomic.AddUint64(&mm.CensoredMessages, 1)
}

// SetProcessStats stores the latest OS level sample.
func (mm *MonitoringManager) SetProcessStats(stats ProcessStats) {
	if mm == nil {
		return
	}
	mm.mu.Lock()
	mm.process = stats
	mm.mu.Unlock()
	mm.log.Debug("Process stats sampled", "rss_bytes", stats.RSSBytes, "cpu_percent", stats.CPUPercent)
}

// GetLatest reads every counter and the Go runtime memory figures.
func (mm *MonitoringManager) GetLatest() MonitoringStats {
	if mm == nil {
		return MonitoringStats{}
	}
	mm.mu.RLock()
	process := mm.process
	mm.mu.RUnlock()

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return MonitoringStats{
		ConnectionsAccepted: atomic.LoadUint64(&mm.ConnectionsAccepted),
		ActiveConnections:   atomic.LoadInt64(&mm.ActiveConnections),
		Registrations:       atomic.LoadUint64(&mm.Registrations),
		RejectedNicknames:   atomic.LoadUint64(&mm.RejectedNicknames),
		CommandsHandled:     atomic.LoadUint64(&mm.CommandsHandled),
		ProtocolErrors:      atomic.LoadUint64(&mm.ProtocolErrors),
		Deliveries:          atomic.LoadUint64(&mm.Deliveries),
		DroppedDeliveries:   atomic.LoadUint64(&mm.DroppedDeliveries),
		CensoredMessages:    atomic.LoadUint64(&mm.CensoredMessages),
		AllocMemMb:          m.Alloc / 1024 / 1024,
		NumGC:               m.NumGC,
		RSSBytes:            process.RSSBytes,
		CPUPercent:          process.CPUPercent,
		Uptime:              time.Since(mm.startedAt).Truncate(time.Second).String(),
	}
}
