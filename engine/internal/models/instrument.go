package models

// OptionStyle represents the exercise style of an option
type OptionStyle string

const (
	StyleEuropean OptionStyle = "european"
	StyleAmerican OptionStyle = "american"
)

// OptionType represents call or put
type OptionType string

const (
	TypeCall OptionType = "call"
	TypePut  OptionType = "put"
)

// PricingModel selects the engine-side pricer for an instrument
type PricingModel string

const (
	ModelBlackScholes  PricingModel = "blackscholes"
	ModelBinomial      PricingModel = "binomial"
	ModelJumpDiffusion PricingModel = "jumpdiffusion"
)

// JumpParameters holds jump diffusion model parameters
type JumpParameters struct {
	Lambda float64 `json:"lambda"`
	Mean   float64 `json:"mean"`
	Vol    float64 `json:"vol"`
}

// Instrument represents a single portfolio position: an option contract with
// a quantity. Instruments are immutable once added.
type Instrument struct {
	AssetID       string          `json:"asset_id"`
	Style         OptionStyle     `json:"style"`
	Type          OptionType      `json:"type"`
	Strike        float64         `json:"strike"`
	Expiry        float64         `json:"expiry"` // years
	Quantity      int             `json:"quantity"`
	PricingModel  PricingModel    `json:"pricing_model,omitempty"`
	BinomialSteps int             `json:"binomial_steps,omitempty"`
	JumpParams    *JumpParameters `json:"jump_parameters,omitempty"`
}
