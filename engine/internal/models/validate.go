package models

import "strings"

// NormalizeAssetID trims whitespace and upper-cases a ticker for use as a
// cache key
func NormalizeAssetID(id string) string {
	return strings.ToUpper(strings.TrimSpace(id))
}

// ValidateInstrument checks instrument fields before anything is sent to the
// server and returns a list of human-readable problems, empty when valid
func ValidateInstrument(in Instrument) []string {
	var errs []string

	if strings.TrimSpace(in.AssetID) == "" {
		errs = append(errs, "Asset ID is required")
	}
	if in.Style != StyleEuropean && in.Style != StyleAmerican {
		errs = append(errs, "Style must be european or american")
	}
	if in.Type != TypeCall && in.Type != TypePut {
		errs = append(errs, "Type must be call or put")
	}
	if in.Strike <= 0 {
		errs = append(errs, "Strike price must be positive")
	}
	if in.Expiry <= 0 {
		errs = append(errs, "Expiry must be positive")
	}
	if in.Quantity == 0 {
		errs = append(errs, "Quantity cannot be zero")
	}

	return errs
}
