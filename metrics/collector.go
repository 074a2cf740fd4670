// Package metrics provides per-invocation counters.
//
// The Collector accumulates counters during a single CLI invocation. It is a
// leaf package with no internal dependencies. The counters make the
// load-once guarantees of config and stats resolution observable in tests
// and in debug logs.
package metrics

import "sync"

// Snapshot is an immutable point-in-time view of all counters.
// Returned by Collector.Snapshot(). Safe to read concurrently after creation.
type Snapshot struct {
	// Config resolution
	ConfigReads     int64
	ConfigCacheHits int64
	ConfigLookups   int64

	// Custom statistics
	StatsLoads  int64
	StatsErrors int64

	// Engine
	QueriesResolved  int64
	BrowsersSelected int64
	CoverageComputed int64
}

// Collector accumulates metrics during a single invocation.
// Thread-safe via sync.Mutex. All increment methods are nil-receiver safe.
type Collector struct {
	mu sync.Mutex

	configReads     int64
	configCacheHits int64
	configLookups   int64

	statsLoads  int64
	statsErrors int64

	queriesResolved  int64
	browsersSelected int64
	coverageComputed int64
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// --- Config ---

// IncConfigRead records a config file read from the filesystem.
func (c *Collector) IncConfigRead() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.configReads++
	c.mu.Unlock()
}

// IncConfigCacheHit records a config served from the resolver cache.
func (c *Collector) IncConfigCacheHit() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.configCacheHits++
	c.mu.Unlock()
}

// IncConfigLookup records one directory probed during upward discovery.
func (c *Collector) IncConfigLookup() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.configLookups++
	c.mu.Unlock()
}

// --- Stats ---

// IncStatsLoad records a successful custom stats load.
func (c *Collector) IncStatsLoad() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.statsLoads++
	c.mu.Unlock()
}

// IncStatsError records a failed custom stats load.
func (c *Collector) IncStatsError() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.statsErrors++
	c.mu.Unlock()
}

// --- Engine ---

// AddQueriesResolved records a resolved query list of n clauses yielding
// browsers entries.
func (c *Collector) AddQueriesResolved(n, browsers int) {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.queriesResolved += int64(n)
	c.browsersSelected += int64(browsers)
	c.mu.Unlock()
}

// IncCoverageComputed records one coverage computation.
func (c *Collector) IncCoverageComputed() {
	if c == nil {
		return
	}
	c.mu.Lock()
	c.coverageComputed++
	c.mu.Unlock()
}

// Snapshot returns a point-in-time copy of all counters.
// Returns the zero Snapshot for a nil Collector.
func (c *Collector) Snapshot() Snapshot {
	if c == nil {
		return Snapshot{}
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return Snapshot{
		ConfigReads:      c.configReads,
		ConfigCacheHits:  c.configCacheHits,
		ConfigLookups:    c.configLookups,
		StatsLoads:       c.statsLoads,
		StatsErrors:      c.statsErrors,
		QueriesResolved:  c.queriesResolved,
		BrowsersSelected: c.browsersSelected,
		CoverageComputed: c.coverageComputed,
	}
}

// Fields returns the snapshot as log fields.
func (s Snapshot) Fields() map[string]any {
	return map[string]any{
		"config_reads":      s.ConfigReads,
		"config_cache_hits": s.ConfigCacheHits,
		"config_lookups":    s.ConfigLookups,
		"stats_loads":       s.StatsLoads,
		"stats_errors":      s.StatsErrors,
		"queries_resolved":  s.QueriesResolved,
		"browsers_selected": s.BrowsersSelected,
		"coverage_computed": s.CoverageComputed,
	}
}
