package api

import "quant-dashboard-engine/engine/internal/models"

//
// WIRE TYPES
//

// HealthResponse is the pricing service's health report
type HealthResponse struct {
	Status    string     `json:"status"`
	Service   string     `json:"service"`
	Version   string     `json:"version"`
	Features  []string   `json:"features"`
	CacheInfo *CacheInfo `json:"cache_info,omitempty"`
}

// CacheInfo reports the server-side market data cache state
type CacheInfo struct {
	CachedAssets  int    `json:"cached_assets"`
	CacheLocation string `json:"cache_location,omitempty"`
	LastCleanup   string `json:"last_cleanup,omitempty"`
}

// UpdateMarketDataRequest asks the service to (re)fetch quotes for tickers
type UpdateMarketDataRequest struct {
	Tickers      []string `json:"tickers"`
	ForceRefresh bool     `json:"force_refresh"`
}

// AssetUpdate is one asset's refreshed quote in a batch response
type AssetUpdate struct {
	AssetID     string  `json:"asset_id"`
	Spot        float64 `json:"spot"`
	Vol         float64 `json:"vol"`
	Rate        float64 `json:"rate"`
	Dividend    float64 `json:"dividend"`
	LastUpdated string  `json:"last_updated"`
	Source      string  `json:"source"`
}

// MarketData converts the wire update into the cache's value type
func (u AssetUpdate) MarketData() models.MarketData {
	return models.MarketData{
		Spot:     u.Spot,
		Vol:      u.Vol,
		Rate:     u.Rate,
		Dividend: u.Dividend,
	}
}

// BatchSummary tallies a market data batch
type BatchSummary struct {
	TotalRequested int `json:"total_requested"`
	Successful     int `json:"successful"`
	Failed         int `json:"failed"`
}

// UpdateMarketDataResponse is the 200/207 body of update_market_data. On a 207
// some tickers succeeded and the rest are listed in Failed.
type UpdateMarketDataResponse struct {
	Success bool                   `json:"success"`
	Updated map[string]AssetUpdate `json:"updated"`
	Failed  []string               `json:"failed"`
	Summary BatchSummary           `json:"summary"`
	// Partial is true when the server answered 207 Multi-Status
	Partial bool `json:"-"`
}

// errorResponse is the structured body the server guarantees on errors
type errorResponse struct {
	Error string `json:"error"`
}
