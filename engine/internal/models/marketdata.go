package models

// MarketData holds the pricing inputs for one asset
type MarketData struct {
	Spot     float64 `json:"spot"`
	Rate     float64 `json:"rate"`
	Vol      float64 `json:"vol"`
	Dividend float64 `json:"dividend"`
}

// MarketDataPatch is a partial market data update; nil fields keep their
// previous (or template) value when merged into the cache
type MarketDataPatch struct {
	Spot     *float64
	Rate     *float64
	Vol      *float64
	Dividend *float64
}

// Float64 returns a pointer to v, for building patches
func Float64(v float64) *float64 { return &v }

// Patch converts full market data into a patch that sets every field
func (md MarketData) Patch() MarketDataPatch {
	return MarketDataPatch{
		Spot:     Float64(md.Spot),
		Rate:     Float64(md.Rate),
		Vol:      Float64(md.Vol),
		Dividend: Float64(md.Dividend),
	}
}

// ApplyTo overlays the set fields of the patch onto base and returns the result
func (p MarketDataPatch) ApplyTo(base MarketData) MarketData {
	if p.Spot != nil {
		base.Spot = *p.Spot
	}
	if p.Rate != nil {
		base.Rate = *p.Rate
	}
	if p.Vol != nil {
		base.Vol = *p.Vol
	}
	if p.Dividend != nil {
		base.Dividend = *p.Dividend
	}
	return base
}
