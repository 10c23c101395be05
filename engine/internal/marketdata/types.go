package marketdata

import (
	"context"
	"sync"
	"time"

	"quant-dashboard-engine/engine/internal/api"
	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/models"
)

//
// MARKETDATA
//

// Cache is the sole mutable store of fetched market data. Every write merges
// default-template, then the existing entry, then the incoming patch, so a
// reader never observes a partially populated record. Entries are created
// lazily and live for the rest of the session.
type Cache struct {
	mu       sync.RWMutex
	entries  map[string]models.MarketData
	template models.MarketData
}

// SyncState records per-asset fetch bookkeeping. Fetched is true iff the
// cache has received at least one successful update for the asset since the
// process started; an entry sitting at template defaults is not authoritative.
type SyncState struct {
	Fetched     bool
	LastUpdated time.Time
}

// BatchFetcher issues one batched market data request. *api.Client satisfies
// it; tests substitute fakes.
type BatchFetcher interface {
	UpdateMarketData(ctx context.Context, tickers []string, forceRefresh bool) (*api.UpdateMarketDataResponse, error)
}

// SyncOrchestrator reconciles the needed-asset set against what has already
// been fetched, keeping network traffic minimal. At most one batch of either
// kind is in flight at a time: batchMu covers both the passive and the forced
// path.
type SyncOrchestrator struct {
	batchMu sync.Mutex

	mu         sync.RWMutex
	state      map[string]*SyncState
	refreshing bool
	lastFailed []string

	client BatchFetcher
	cache  *Cache
	log    *logger.Logger
}
