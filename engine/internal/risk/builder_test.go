package risk

import (
	"context"
	"errors"
	"testing"

	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/marketdata"
	"quant-dashboard-engine/engine/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSubmitter struct {
	calls   int
	lastReq *models.RiskRequest
	metrics *models.RiskMetrics
	err     error
}

func (f *fakeSubmitter) CalculateRisk(ctx context.Context, req *models.RiskRequest) (*models.RiskMetrics, error) {
	f.calls++
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	return f.metrics, nil
}

var testVarParams = models.VarParameters{Simulations: 10000, Confidence: 0.95, TimeHorizon: 1}

func instrument(assetID string) models.Instrument {
	return models.Instrument{
		AssetID:  assetID,
		Style:    models.StyleEuropean,
		Type:     models.TypeCall,
		Strike:   100,
		Expiry:   1,
		Quantity: 10,
	}
}

func newTestBuilder(f *fakeSubmitter) *RequestBuilder {
	return NewRequestBuilder(f, testVarParams, logger.NewLogger(100, logger.LevelDebug))
}

func quoted(c *marketdata.Cache, id string, spot float64) {
	c.Upsert(id, models.MarketDataPatch{Spot: models.Float64(spot)})
}

func TestBuild_EmptyPortfolioFailsBeforeAnyNetworkCall(t *testing.T) {
	f := &fakeSubmitter{}
	b := newTestBuilder(f)
	cache := marketdata.NewCache(models.MarketData{Spot: 100, Rate: 0.05, Vol: 0.25})

	_, err := b.Calculate(context.Background(), nil, cache)

	require.ErrorIs(t, err, ErrEmptyPortfolio)
	assert.Equal(t, "Portfolio is empty. Please add instruments first.", err.Error())
	assert.Equal(t, 0, f.calls)
}

func TestBuild_UnfetchedAssetsAreLeftOut(t *testing.T) {
	b := newTestBuilder(&fakeSubmitter{})
	cache := marketdata.NewCache(models.MarketData{Spot: 100, Rate: 0.05, Vol: 0.25})

	// Nothing has been fetched for AAPL, so the request carries no market
	// data and the engine falls back to its own
	req, err := b.Build([]models.Instrument{instrument("AAPL")}, cache)

	require.NoError(t, err)
	assert.Len(t, req.Portfolio, 1)
	assert.Empty(t, req.MarketData)
}

func TestBuild_OnlyPositiveSpotsAreSent(t *testing.T) {
	b := newTestBuilder(&fakeSubmitter{})
	cache := marketdata.NewCache(models.MarketData{Spot: 100, Rate: 0.05, Vol: 0.25})
	quoted(cache, "AAPL", 175.43)
	quoted(cache, "GOOGL", 0)

	instruments := []models.Instrument{
		instrument("AAPL"),
		instrument("GOOGL"),
		instrument("MSFT"), // never quoted
	}
	req, err := b.Build(instruments, cache)

	require.NoError(t, err)
	assert.Len(t, req.MarketData, 1)
	assert.Contains(t, req.MarketData, "AAPL")
	assert.Equal(t, 175.43, req.MarketData["AAPL"].Spot)
}

func TestBuild_TemplateValuedEntriesPassTheFilter(t *testing.T) {
	b := newTestBuilder(&fakeSubmitter{})
	cache := marketdata.NewCache(models.MarketData{Spot: 100, Rate: 0.05, Vol: 0.25})

	// An empty patch materializes the template entry; its positive spot is
	// indistinguishable from a live quote at the same price
	cache.Upsert("AAPL", models.MarketDataPatch{})

	req, err := b.Build([]models.Instrument{instrument("AAPL")}, cache)

	require.NoError(t, err)
	assert.Equal(t, 100.0, req.MarketData["AAPL"].Spot)
}

func TestBuild_DuplicateAssetsSendOneQuote(t *testing.T) {
	b := newTestBuilder(&fakeSubmitter{})
	cache := marketdata.NewCache(models.MarketData{Spot: 100, Rate: 0.05, Vol: 0.25})
	quoted(cache, "AAPL", 175.43)

	req, err := b.Build([]models.Instrument{instrument("AAPL"), instrument("AAPL")}, cache)

	require.NoError(t, err)
	assert.Len(t, req.Portfolio, 2)
	assert.Len(t, req.MarketData, 1)
}

func TestBuild_AttachesVarParameters(t *testing.T) {
	b := newTestBuilder(&fakeSubmitter{})
	cache := marketdata.NewCache(models.MarketData{Spot: 100, Rate: 0.05, Vol: 0.25})

	req, err := b.Build([]models.Instrument{instrument("AAPL")}, cache)

	require.NoError(t, err)
	require.NotNil(t, req.VarParameters)
	assert.Equal(t, testVarParams, *req.VarParameters)
	// The builder hands out a copy, not its own field
	req.VarParameters.Simulations = 1

	req2, err := b.Build([]models.Instrument{instrument("AAPL")}, cache)
	require.NoError(t, err)
	assert.Equal(t, 10000, req2.VarParameters.Simulations)
}

func TestCalculate_SubmitsAndReturnsMetrics(t *testing.T) {
	f := &fakeSubmitter{metrics: &models.RiskMetrics{TotalPV: 15234.56, ValueAtRisk95: 1250.3, PortfolioSize: 1}}
	b := newTestBuilder(f)
	cache := marketdata.NewCache(models.MarketData{Spot: 100, Rate: 0.05, Vol: 0.25})
	quoted(cache, "AAPL", 175.43)

	metrics, err := b.Calculate(context.Background(), []models.Instrument{instrument("AAPL")}, cache)

	require.NoError(t, err)
	assert.Equal(t, 15234.56, metrics.TotalPV)
	assert.Equal(t, 1, f.calls)
	require.NotNil(t, f.lastReq)
	assert.Contains(t, f.lastReq.MarketData, "AAPL")
}

func TestCalculate_PropagatesSubmitError(t *testing.T) {
	submitErr := errors.New("HTTP 500: Internal Server Error")
	f := &fakeSubmitter{err: submitErr}
	b := newTestBuilder(f)
	cache := marketdata.NewCache(models.MarketData{Spot: 100, Rate: 0.05, Vol: 0.25})

	_, err := b.Calculate(context.Background(), []models.Instrument{instrument("AAPL")}, cache)

	require.ErrorIs(t, err, submitErr)
}
