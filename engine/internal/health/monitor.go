package health

import (
	"context"
	"time"

	"quant-dashboard-engine/engine/internal/logger"
)

// NewMonitor creates a monitor in the CHECKING state
func NewMonitor(client Checker, interval time.Duration, log *logger.Logger) *Monitor {
	return &Monitor{
		status:   StatusChecking,
		client:   client,
		interval: interval,
		log:      log,
	}
}

// Run polls immediately, then on every interval tick until ctx is done
func (m *Monitor) Run(ctx context.Context) {
	m.Poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Poll(ctx)
		}
	}
}

// Poll performs a single health check and replaces the snapshot. Any failure
// (transport, non-2xx, parse) means OFFLINE; nothing is surfaced beyond the
// online/offline indicator and a log line.
func (m *Monitor) Poll(ctx context.Context) {
	resp, err := m.client.CheckHealth(ctx)
	if err != nil {
		m.mu.Lock()
		prev := m.status
		m.status = StatusOffline
		m.snapshot = Snapshot{Online: false}
		m.mu.Unlock()

		if prev != StatusOffline {
			m.log.Warnf("Pricing service offline: %v", err)
		}
		return
	}

	snap := Snapshot{
		Online:        true,
		ServiceStatus: resp.Status,
		Service:       resp.Service,
		Version:       resp.Version,
		Features:      resp.Features,
	}
	if resp.CacheInfo != nil {
		count := resp.CacheInfo.CachedAssets
		snap.CachedAssetCount = &count
	}

	m.mu.Lock()
	prev := m.status
	m.status = StatusOnline
	m.snapshot = snap
	m.mu.Unlock()

	if prev != StatusOnline {
		m.log.Infof("Pricing service online: %s v%s", resp.Service, resp.Version)
	}
}

// Status returns the current state
func (m *Monitor) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// IsOnline reports whether the last poll succeeded
func (m *Monitor) IsOnline() bool {
	return m.Status() == StatusOnline
}

// Snapshot returns the last poll result
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.snapshot
}
