package marketdata

import (
	"context"
	"time"

	"quant-dashboard-engine/engine/internal/api"
	"quant-dashboard-engine/engine/internal/logger"
)

// Needer supplies the current needed-asset set; *portfolio.Portfolio
// satisfies it
type Needer interface {
	NeededAssets() []string
	Changes() <-chan struct{}
}

// NewSyncOrchestrator creates an orchestrator over the given fetcher and cache
func NewSyncOrchestrator(client BatchFetcher, cache *Cache, log *logger.Logger) *SyncOrchestrator {
	return &SyncOrchestrator{
		state:  make(map[string]*SyncState),
		client: client,
		cache:  cache,
		log:    log,
	}
}

// Run consumes portfolio-change events and reconciles after each one. It
// performs one initial reconciliation on startup so the placeholder asset is
// synced before the user touches anything. Returns when ctx is done.
func (s *SyncOrchestrator) Run(ctx context.Context, src Needer) {
	s.reconcileLogged(ctx, src)

	for {
		select {
		case <-ctx.Done():
			return
		case <-src.Changes():
			s.reconcileLogged(ctx, src)
		}
	}
}

// reconcileLogged is the fail-soft wrapper used by the event loop: passive
// sync failures never bubble past a log line
func (s *SyncOrchestrator) reconcileLogged(ctx context.Context, src Needer) {
	if err := s.Reconcile(ctx, src.NeededAssets()); err != nil {
		s.log.Warnf("Passive sync failed, will retry on next portfolio change: %v", err)
	}
}

// Reconcile computes the assets in needed that have never been successfully
// fetched and issues one non-forced batch for exactly those. Assets already
// fetched are not re-requested. A batch failure leaves all sync state and
// cache contents unchanged.
func (s *SyncOrchestrator) Reconcile(ctx context.Context, needed []string) error {
	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	newAssets := s.unfetched(needed)
	if len(newAssets) == 0 {
		return nil
	}

	s.log.Debugf("Reconciling %d new asset(s): %v", len(newAssets), newAssets)

	resp, err := s.client.UpdateMarketData(ctx, newAssets, false)
	if err != nil {
		return err
	}

	s.applyBatch(resp)
	return nil
}

// ForceRefresh re-requests every currently needed asset regardless of prior
// fetch state. IsRefreshing reports true for the duration so callers can
// disable concurrent refresh triggers.
func (s *SyncOrchestrator) ForceRefresh(ctx context.Context, needed []string) error {
	if len(needed) == 0 {
		return nil
	}

	s.batchMu.Lock()
	defer s.batchMu.Unlock()

	s.setRefreshing(true)
	defer s.setRefreshing(false)

	s.log.Infof("Force refreshing %d asset(s)", len(needed))

	resp, err := s.client.UpdateMarketData(ctx, needed, true)
	if err != nil {
		return err
	}

	s.applyBatch(resp)
	return nil
}

// applyBatch upserts every asset present in the response's updated map and
// stamps its sync state. Tickers in the failed list stay unfetched; a 207 is
// recorded for diagnostics but does not block the successes.
func (s *SyncOrchestrator) applyBatch(resp *api.UpdateMarketDataResponse) {
	now := time.Now()

	for id, update := range resp.Updated {
		s.cache.Upsert(id, update.MarketData().Patch())
		s.markFetched(id, now)
		s.log.Debugf("Updated %s: spot=%.2f vol=%.4f rate=%.4f div=%.4f (source %s)",
			id, update.Spot, update.Vol, update.Rate, update.Dividend, update.Source)
	}

	s.mu.Lock()
	s.lastFailed = append([]string(nil), resp.Failed...)
	s.mu.Unlock()

	if len(resp.Failed) > 0 {
		s.log.Warnf("Batch left %d ticker(s) unresolved: %v", len(resp.Failed), resp.Failed)
	}
}

// unfetched filters needed down to assets without a successful fetch
func (s *SyncOrchestrator) unfetched(needed []string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []string
	for _, id := range needed {
		if st, ok := s.state[id]; !ok || !st.Fetched {
			out = append(out, id)
		}
	}
	return out
}

func (s *SyncOrchestrator) markFetched(assetID string, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	st, ok := s.state[assetID]
	if !ok {
		st = &SyncState{}
		s.state[assetID] = st
	}
	st.Fetched = true
	st.LastUpdated = at
}

func (s *SyncOrchestrator) setRefreshing(v bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshing = v
}

// IsRefreshing reports whether a forced refresh is in flight
func (s *SyncOrchestrator) IsRefreshing() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.refreshing
}

// State returns the sync bookkeeping for one asset
func (s *SyncOrchestrator) State(assetID string) (SyncState, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.state[assetID]
	if !ok {
		return SyncState{}, false
	}
	return *st, true
}

// FailedAssets returns the failed tickers from the most recent batch, for
// diagnostic display
func (s *SyncOrchestrator) FailedAssets() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]string(nil), s.lastFailed...)
}
