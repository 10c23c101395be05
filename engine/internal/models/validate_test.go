package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func validInstrument() Instrument {
	return Instrument{
		AssetID:  "AAPL",
		Style:    StyleEuropean,
		Type:     TypeCall,
		Strike:   100,
		Expiry:   1.0,
		Quantity: 100,
	}
}

func TestValidateInstrument_Valid(t *testing.T) {
	assert.Empty(t, ValidateInstrument(validInstrument()))
}

func TestValidateInstrument_Errors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Instrument)
		want   string
	}{
		{"missing asset id", func(in *Instrument) { in.AssetID = "  " }, "Asset ID is required"},
		{"bad style", func(in *Instrument) { in.Style = "bermudan" }, "Style must be european or american"},
		{"bad type", func(in *Instrument) { in.Type = "straddle" }, "Type must be call or put"},
		{"zero strike", func(in *Instrument) { in.Strike = 0 }, "Strike price must be positive"},
		{"negative expiry", func(in *Instrument) { in.Expiry = -0.5 }, "Expiry must be positive"},
		{"zero quantity", func(in *Instrument) { in.Quantity = 0 }, "Quantity cannot be zero"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInstrument()
			tt.mutate(&in)
			assert.Contains(t, ValidateInstrument(in), tt.want)
		})
	}
}

func TestValidateInstrument_CollectsAllProblems(t *testing.T) {
	errs := ValidateInstrument(Instrument{})
	assert.Len(t, errs, 6)
}

func TestNormalizeAssetID(t *testing.T) {
	assert.Equal(t, "AAPL", NormalizeAssetID("  aapl "))
	assert.Equal(t, "GOOGL", NormalizeAssetID("GOOGL"))
}

func TestMarketDataPatch_ApplyTo(t *testing.T) {
	base := MarketData{Spot: 100, Rate: 0.05, Vol: 0.25, Dividend: 0}

	patched := MarketDataPatch{Spot: Float64(175.43), Vol: Float64(0.2847)}.ApplyTo(base)
	assert.Equal(t, 175.43, patched.Spot)
	assert.Equal(t, 0.2847, patched.Vol)
	assert.Equal(t, 0.05, patched.Rate)
	assert.Equal(t, 0.0, patched.Dividend)

	// An empty patch keeps the base intact
	assert.Equal(t, base, MarketDataPatch{}.ApplyTo(base))
}

func TestMarketDataPatch_FullRoundTrip(t *testing.T) {
	md := MarketData{Spot: 42, Rate: 0.01, Vol: 0.3, Dividend: 0.02}
	assert.Equal(t, md, md.Patch().ApplyTo(MarketData{}))
}
