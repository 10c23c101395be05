package models

// VarParameters holds Monte Carlo VaR settings sent with a risk request
type VarParameters struct {
	Simulations int     `json:"simulations"`
	Confidence  float64 `json:"confidence"`
	TimeHorizon float64 `json:"time_horizon"`
	Seed        *int64  `json:"seed,omitempty"`
}

// RiskRequest is the payload for the calculate_risk endpoint
type RiskRequest struct {
	Portfolio     []Instrument          `json:"portfolio"`
	MarketData    map[string]MarketData `json:"market_data"`
	VarParameters *VarParameters        `json:"var_parameters,omitempty"`
}

// RiskMetrics is the pricing engine's response for a portfolio. All values are
// trusted pass-through results; nothing is computed locally.
type RiskMetrics struct {
	TotalPV              float64  `json:"total_pv"`
	TotalDelta           float64  `json:"total_delta"`
	TotalGamma           float64  `json:"total_gamma"`
	TotalVega            float64  `json:"total_vega"`
	TotalTheta           float64  `json:"total_theta"`
	ValueAtRisk95        float64  `json:"value_at_risk_95"`
	ValueAtRisk99        *float64 `json:"value_at_risk_99,omitempty"`
	ExpectedShortfall95  *float64 `json:"expected_shortfall_95,omitempty"`
	PortfolioSize        int      `json:"portfolio_size"`
	AppliedVarParameters *struct {
		Simulations     int     `json:"simulations"`
		ConfidenceLevel float64 `json:"confidence_level"`
		TimeHorizonDays float64 `json:"time_horizon_days"`
	} `json:"var_parameters,omitempty"`
}
