package health

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"quant-dashboard-engine/engine/internal/api"
	"quant-dashboard-engine/engine/internal/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeChecker struct {
	mu    sync.Mutex
	resp  *api.HealthResponse
	err   error
	calls int
}

func (f *fakeChecker) CheckHealth(ctx context.Context) (*api.HealthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func (f *fakeChecker) set(resp *api.HealthResponse, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resp, f.err = resp, err
}

func (f *fakeChecker) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func healthyResponse(cached int) *api.HealthResponse {
	return &api.HealthResponse{
		Status:    "healthy",
		Service:   "risk-engine",
		Version:   "2.1.0",
		Features:  []string{"monte_carlo", "var"},
		CacheInfo: &api.CacheInfo{CachedAssets: cached},
	}
}

func newTestMonitor(f *fakeChecker) *Monitor {
	return NewMonitor(f, 10*time.Millisecond, logger.NewLogger(100, logger.LevelDebug))
}

func TestMonitor_StartsInCheckingState(t *testing.T) {
	m := newTestMonitor(&fakeChecker{})

	assert.Equal(t, StatusChecking, m.Status())
	assert.False(t, m.IsOnline())
	assert.Equal(t, "CHECKING", m.Status().String())
}

func TestPoll_SuccessCapturesFullSnapshot(t *testing.T) {
	f := &fakeChecker{resp: healthyResponse(5)}
	m := newTestMonitor(f)

	m.Poll(context.Background())

	assert.Equal(t, StatusOnline, m.Status())
	assert.True(t, m.IsOnline())

	snap := m.Snapshot()
	assert.True(t, snap.Online)
	assert.Equal(t, "healthy", snap.ServiceStatus)
	assert.Equal(t, "risk-engine", snap.Service)
	assert.Equal(t, "2.1.0", snap.Version)
	assert.Equal(t, []string{"monte_carlo", "var"}, snap.Features)
	require.NotNil(t, snap.CachedAssetCount)
	assert.Equal(t, 5, *snap.CachedAssetCount)
}

func TestPoll_MissingCacheInfoLeavesCountNil(t *testing.T) {
	f := &fakeChecker{resp: &api.HealthResponse{Status: "healthy", Service: "risk-engine"}}
	m := newTestMonitor(f)

	m.Poll(context.Background())

	assert.Equal(t, StatusOnline, m.Status())
	assert.Nil(t, m.Snapshot().CachedAssetCount)
}

func TestPoll_FailureGoesOfflineAndClearsSnapshot(t *testing.T) {
	f := &fakeChecker{resp: healthyResponse(5)}
	m := newTestMonitor(f)

	m.Poll(context.Background())
	require.True(t, m.IsOnline())

	f.set(nil, errors.New("connection refused"))
	m.Poll(context.Background())

	assert.Equal(t, StatusOffline, m.Status())
	assert.False(t, m.IsOnline())
	// Snapshot is replaced wholesale, not merged: the stale service info goes
	assert.Equal(t, Snapshot{Online: false}, m.Snapshot())
}

func TestPoll_RecoversAfterOutage(t *testing.T) {
	f := &fakeChecker{err: errors.New("connection refused")}
	m := newTestMonitor(f)

	m.Poll(context.Background())
	require.Equal(t, StatusOffline, m.Status())

	f.set(healthyResponse(3), nil)
	m.Poll(context.Background())

	assert.Equal(t, StatusOnline, m.Status())
	require.NotNil(t, m.Snapshot().CachedAssetCount)
	assert.Equal(t, 3, *m.Snapshot().CachedAssetCount)
}

func TestRun_PollsImmediatelyThenOnInterval(t *testing.T) {
	f := &fakeChecker{resp: healthyResponse(1)}
	m := newTestMonitor(f)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		m.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return f.callCount() >= 2 }, time.Second, 5*time.Millisecond)
	assert.True(t, m.IsOnline())

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not stop on context cancellation")
	}
}
