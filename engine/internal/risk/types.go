package risk

import (
	"context"

	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/models"
)

// Submitter sends an assembled risk request to the pricing service;
// *api.Client satisfies it
type Submitter interface {
	CalculateRisk(ctx context.Context, req *models.RiskRequest) (*models.RiskMetrics, error)
}

// CacheReader is the read side of the market data cache
type CacheReader interface {
	Get(assetID string) (models.MarketData, bool)
}

// RequestBuilder assembles well-formed risk requests from the portfolio and
// the market data cache, and submits them. It never sends incomplete data:
// only assets with a usable spot make it into the payload.
type RequestBuilder struct {
	client    Submitter
	varParams models.VarParameters
	log       *logger.Logger
}
