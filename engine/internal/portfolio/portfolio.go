package portfolio

import (
	"fmt"
	"sort"
	"strings"

	"quant-dashboard-engine/engine/internal/logger"
	"quant-dashboard-engine/engine/internal/models"
)

// NewPortfolio creates an empty portfolio. defaultSymbol is the placeholder
// asset shown (and synced) while the portfolio has no instruments.
func NewPortfolio(defaultSymbol string, log *logger.Logger) *Portfolio {
	return &Portfolio{
		instruments:   make([]models.Instrument, 0),
		defaultSymbol: models.NormalizeAssetID(defaultSymbol),
		log:           log,
		changes:       make(chan struct{}, 1),
	}
}

// Add validates and appends an instrument. Validation failures are returned
// as a single error listing every problem; nothing is sent to the server.
func (p *Portfolio) Add(in models.Instrument) error {
	in.AssetID = models.NormalizeAssetID(in.AssetID)

	if errs := models.ValidateInstrument(in); len(errs) > 0 {
		return fmt.Errorf("invalid instrument: %s", strings.Join(errs, "; "))
	}

	p.mu.Lock()
	p.instruments = append(p.instruments, in)
	count := len(p.instruments)
	p.mu.Unlock()

	p.log.Infof("Added instrument: %s %s %s strike=%.2f expiry=%.2fy qty=%d (portfolio size %d)",
		in.AssetID, in.Style, in.Type, in.Strike, in.Expiry, in.Quantity, count)

	p.notify()
	return nil
}

// RemoveAt deletes the instrument at the given display index
func (p *Portfolio) RemoveAt(index int) error {
	p.mu.Lock()
	if index < 0 || index >= len(p.instruments) {
		p.mu.Unlock()
		return fmt.Errorf("no instrument at index %d", index)
	}
	removed := p.instruments[index]
	p.instruments = append(p.instruments[:index], p.instruments[index+1:]...)
	p.mu.Unlock()

	p.log.Infof("Removed instrument %d: %s", index, removed.AssetID)

	p.notify()
	return nil
}

// Instruments returns a copy of the instrument sequence in display order
func (p *Portfolio) Instruments() []models.Instrument {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]models.Instrument, len(p.instruments))
	copy(out, p.instruments)
	return out
}

// Size returns the number of instruments
func (p *Portfolio) Size() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.instruments)
}

// Changes exposes the portfolio-mutated event channel
func (p *Portfolio) Changes() <-chan struct{} {
	return p.changes
}

// NeededAssets resolves the set of asset ids the dashboard must have market
// data for, sorted for deterministic batch requests. An empty portfolio
// resolves to the default placeholder symbol.
func (p *Portfolio) NeededAssets() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	if len(p.instruments) == 0 {
		return []string{p.defaultSymbol}
	}

	set := UniqueAssets(p.instruments)
	assets := make([]string, 0, len(set))
	for id := range set {
		assets = append(assets, id)
	}
	sort.Strings(assets)
	return assets
}

// notify posts a coalescing change event
func (p *Portfolio) notify() {
	select {
	case p.changes <- struct{}{}:
	default:
	}
}

// UniqueAssets returns the distinct asset ids referenced by instruments.
// Pure: no side effects, order irrelevant.
func UniqueAssets(instruments []models.Instrument) map[string]struct{} {
	set := make(map[string]struct{}, len(instruments))
	for _, in := range instruments {
		set[in.AssetID] = struct{}{}
	}
	return set
}
