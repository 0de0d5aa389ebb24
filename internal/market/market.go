package market

import (
	"fmt"
	"sort"
	"sync"
)

// Well-known data source names.
const (
	SourceReturns     = "returns"
	SourceBookToPrice = "bpratio"
)

// Market is the explicit data context shared by instruments, signals and
// strategies. It owns a registry of named connectors plus a memoization cache
// keyed by (source, code, date).
//
// Register every source before any concurrent strategy dispatch begins; after
// that, reads are safe to share. The memo cache itself is mutex-guarded so
// cache fills during concurrent evaluation are not a race.
type Market struct {
	mu      sync.RWMutex
	sources map[string]Connector
	memo    map[memoKey]float64
}

type memoKey struct {
	source string
	code   string
	date   string
}

func NewMarket() *Market {
	return &Market{
		sources: make(map[string]Connector),
		memo:    make(map[memoKey]float64),
	}
}

// AddDataSource registers a connector under its name. Registering a name
// twice is a configuration error.
func (m *Market) AddDataSource(c Connector) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.sources[c.Name()]; ok {
		return fmt.Errorf("source %s: %w", c.Name(), ErrAlreadyRegistered)
	}
	m.sources[c.Name()] = c
	return nil
}

// SwitchDataSource replaces a registered connector (or registers a new one)
// and invalidates every memoized value, since results derived from the old
// source are stale.
func (m *Market) SwitchDataSource(c Connector) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sources[c.Name()] = c
	m.memo = make(map[memoKey]float64)
}

// Invalidate drops all memoized values.
func (m *Market) Invalidate() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.memo = make(map[memoKey]float64)
}

func (m *Market) HasDataSource(name string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sources[name]
	return ok
}

func (m *Market) DataSourceNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.sources))
	for name := range m.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetTimeframe returns the full trading timeframe of the returns source,
// ascending and deduplicated.
func (m *Market) GetTimeframe() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.sources[SourceReturns]
	if !ok {
		return nil
	}
	return c.Timeframe()
}

// GetInstruments returns the tradable instrument codes of the returns source
// in the connector's iteration order.
func (m *Market) GetInstruments() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	c, ok := m.sources[SourceReturns]
	if !ok {
		return nil
	}
	return c.Instruments()
}

// GetName returns the display name for an instrument code.
func (m *Market) GetName(code string) string {
	return fmt.Sprintf("Stock %s", NormalizeCode(code))
}

func (m *Market) GetReturn(code, date string) (float64, error) {
	return m.GetData(SourceReturns, code, date)
}

func (m *Market) GetBP(code, date string) (float64, error) {
	return m.GetData(SourceBookToPrice, code, date)
}

// GetData looks up one scalar value, consulting the memo cache first.
func (m *Market) GetData(source, code, date string) (float64, error) {
	code = NormalizeCode(code)
	key := memoKey{source: source, code: code, date: date}

	m.mu.RLock()
	if v, ok := m.memo[key]; ok {
		m.mu.RUnlock()
		return v, nil
	}
	c, ok := m.sources[source]
	m.mu.RUnlock()
	if !ok {
		return 0, fmt.Errorf("source %s: %w", source, ErrSourceNotFound)
	}

	v, err := c.Value(code, date)
	if err != nil {
		return 0, err
	}

	m.mu.Lock()
	m.memo[key] = v
	m.mu.Unlock()
	return v, nil
}
