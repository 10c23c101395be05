package risk

import (
	"context"
	"errors"

	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/models"
	"quant-dashboard-engine/engine/internal/portfolio"
)

// ErrEmptyPortfolio is returned before any network activity when there is
// nothing to price
var ErrEmptyPortfolio = errors.New("Portfolio is empty. Please add instruments first.")

// NewRequestBuilder creates a builder that attaches varParams to every request
func NewRequestBuilder(client Submitter, varParams models.VarParameters, log *logger.Logger) *RequestBuilder {
	return &RequestBuilder{
		client:    client,
		varParams: varParams,
		log:       log,
	}
}

// Build assembles a risk request from the instrument sequence and the cache.
// The market_data map carries only assets whose cached spot is strictly
// positive; anything else (unfetched, missing, zeroed) is left out so the
// engine falls back to its own data. Fails fast on an empty portfolio.
//
// Note: spot > 0 is the operative filter, not "has been fetched". An asset
// whose cache record sits at a positive default template value is
// indistinguishable here from fetched data at that same price.
func (b *RequestBuilder) Build(instruments []models.Instrument, cache CacheReader) (*models.RiskRequest, error) {
	if len(instruments) == 0 {
		return nil, ErrEmptyPortfolio
	}

	marketData := make(map[string]models.MarketData)
	for id := range portfolio.UniqueAssets(instruments) {
		entry, ok := cache.Get(id)
		if !ok || entry.Spot <= 0 {
			b.log.Debugf("Excluding %s from risk request (no usable spot)", id)
			continue
		}
		marketData[id] = entry
	}

	vp := b.varParams
	return &models.RiskRequest{
		Portfolio:     instruments,
		MarketData:    marketData,
		VarParameters: &vp,
	}, nil
}

// Calculate builds and submits a risk request. Errors carry display-ready
// messages; this is the one path whose failures reach the user directly.
func (b *RequestBuilder) Calculate(ctx context.Context, instruments []models.Instrument, cache CacheReader) (*models.RiskMetrics, error) {
	req, err := b.Build(instruments, cache)
	if err != nil {
		return nil, err
	}

	b.log.Infof("Submitting risk request: %d instrument(s), market data for %d asset(s)",
		len(req.Portfolio), len(req.MarketData))

	metrics, err := b.client.CalculateRisk(ctx, req)
	if err != nil {
		b.log.Errorf("Risk calculation failed: %v", err)
		return nil, err
	}

	b.log.Infof("Risk calculation complete: PV=%.2f VaR95=%.2f (%d instruments)",
		metrics.TotalPV, metrics.ValueAtRisk95, metrics.PortfolioSize)
	return metrics, nil
}
