package health

import (
	"context"
	"sync"
	"time"

	"quant-dashboard-engine/engine/internal/api"
	"quant-dashboard-engine/engine/internal/logger"
)

//
// HEALTH
//

// Status is the monitor's view of the pricing service
type Status int

const (
	// StatusChecking is the transient initial state before the first poll
	// completes
	StatusChecking Status = iota
	StatusOnline
	StatusOffline
)

func (s Status) String() string {
	switch s {
	case StatusOnline:
		return "ONLINE"
	case StatusOffline:
		return "OFFLINE"
	default:
		return "CHECKING"
	}
}

// Snapshot is the last poll result, replaced wholesale every tick and never
// partially merged
type Snapshot struct {
	Online           bool
	ServiceStatus    string
	Service          string
	Version          string
	Features         []string
	CachedAssetCount *int
}

// Checker performs one health request; *api.Client satisfies it
type Checker interface {
	CheckHealth(ctx context.Context) (*api.HealthResponse, error)
}

// Monitor polls the service health endpoint on a fixed interval. It is a
// monitoring signal only: it shares no state with the sync or risk paths and
// its failures stay local.
type Monitor struct {
	mu       sync.RWMutex
	status   Status
	snapshot Snapshot

	client   Checker
	interval time.Duration
	log      *logger.Logger
}
