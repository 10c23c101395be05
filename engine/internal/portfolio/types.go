package portfolio

import (
	"sync"

	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/models"
)

//
// PORTFOLIO
//

// Portfolio is the ordered sequence of instruments the user has built.
// Insertion order is display order; removal is index based; instruments are
// immutable once added. Every mutation posts a change event so the sync
// orchestrator can reconcile the needed asset set.
type Portfolio struct {
	mu            sync.RWMutex
	instruments   []models.Instrument
	defaultSymbol string
	log           *logger.Logger

	// changes carries portfolio-mutated events; buffered so mutations never
	// block, coalescing when the consumer lags
	changes chan struct{}
}
