package marketdata

import "quant-dashboard-engine/engine/internal/models"

// NewCache creates an empty cache. template is the process-wide default
// record merged into every write; it is injected here rather than read from
// ambient state.
func NewCache(template models.MarketData) *Cache {
	return &Cache{
		entries:  make(map[string]models.MarketData),
		template: template,
	}
}

// Get returns the entry for an asset, if one exists
func (c *Cache) Get(assetID string) (models.MarketData, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	entry, ok := c.entries[assetID]
	return entry, ok
}

// Upsert merges template, then the existing entry, then the patch (later
// fields win), stores the result and returns it. After the call every field
// of the stored record is populated.
func (c *Cache) Upsert(assetID string, patch models.MarketDataPatch) models.MarketData {
	c.mu.Lock()
	defer c.mu.Unlock()

	base := c.template
	if existing, ok := c.entries[assetID]; ok {
		base = existing
	}
	merged := patch.ApplyTo(base)
	c.entries[assetID] = merged
	return merged
}

// Template returns the injected default record. Display paths fall back to
// it for assets that have no cache entry yet; it is never written into the
// cache on their behalf, so absence still means "not authoritative".
func (c *Cache) Template() models.MarketData {
	return c.template
}

// Snapshot returns a copy of every entry keyed by asset id
func (c *Cache) Snapshot() map[string]models.MarketData {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make(map[string]models.MarketData, len(c.entries))
	for id, entry := range c.entries {
		out[id] = entry
	}
	return out
}

// Len returns the number of cached assets
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
