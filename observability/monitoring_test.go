package observability

import (
	"log/slog"
	"sync"
	"testing"

	"github.com/mama165/sdk-go/logs"
	"github.com/stretchr/testify/require"
)

func TestMonitoringManager_Counters(t *testing.T) {
	req := require.New(t)
	mm := NewMonitoringManager(logs.GetLoggerFromLevel(slog.LevelDebug))
	var wg sync.WaitGroup

	// When many handlers update the counters concurrently
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			mm.ConnectionOpened()
			mm.IncrRegistrations()
			mm.IncrCommands()
			mm.IncrDeliveries()
			mm.ConnectionClosed()
		}()
	}
	wg.Wait()
	mm.IncrDroppedDeliveries()
	mm.SetProcessStats(ProcessStats{RSSBytes: 1024, CPUPercent: 1.5})

	// Then the snapshot reflects every update
	stats := mm.GetLatest()
	req.Equal(uint64(50), stats.ConnectionsAccepted)
	req.Equal(int64(0), stats.ActiveConnections)
	req.Equal(uint64(50), stats.Registrations)
	req.Equal(uint64(50), stats.CommandsHandled)
	req.Equal(uint64(50), stats.Deliveries)
	req.Equal(uint64(1), stats.DroppedDeliveries)
	req.Equal(uint64(1024), stats.RSSBytes)
}

func TestMonitoringManager_Nil_Is_Noop(t *testing.T) {
	var mm *MonitoringManager

	require.NotPanics(t, func() {
		mm.ConnectionOpened()
		mm.IncrCommands()
		mm.SetProcessStats(ProcessStats{})
	})
	require.Equal(t, MonitoringStats{}, mm.GetLatest())
}
