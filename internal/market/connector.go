package market

import (
	"errors"
	"fmt"
	"strings"
)

// Global error declarations.
var (
	ErrAlreadyRegistered  = errors.New("data source already registered")
	ErrSourceNotFound     = errors.New("data source not registered")
	ErrInstrumentNotFound = errors.New("instrument not found in data source")
	ErrDateNotFound       = errors.New("date not found in data source")
)

// Connector is a read-only source of per-(code, date) scalar values.
// Timeframe must be ascending and deduplicated; Instruments defines the
// iteration order downstream signals rely on for deterministic tie-breaks.
type Connector interface {
	Name() string
	Timeframe() []string
	Instruments() []string
	Value(code, date string) (float64, error)
}

// MemoryConnector serves values from an in-memory table. It is the backing
// store for the file- and database-based connectors and doubles as a fixture
// in tests.
type MemoryConnector struct {
	name        string
	timeframe   []string
	instruments []string
	values      map[string]map[string]float64 // code -> date -> value
}

func NewMemoryConnector(name string, timeframe, instruments []string, values map[string]map[string]float64) *MemoryConnector {
	normalized := make(map[string]map[string]float64, len(values))
	codes := make([]string, 0, len(instruments))
	for _, code := range instruments {
		codes = append(codes, NormalizeCode(code))
	}
	for code, row := range values {
		normalized[NormalizeCode(code)] = row
	}
	return &MemoryConnector{
		name:        name,
		timeframe:   timeframe,
		instruments: codes,
		values:      normalized,
	}
}

func (c *MemoryConnector) Name() string {
	return c.name
}

func (c *MemoryConnector) Timeframe() []string {
	return c.timeframe
}

func (c *MemoryConnector) Instruments() []string {
	return c.instruments
}

func (c *MemoryConnector) Value(code, date string) (float64, error) {
	row, ok := c.values[NormalizeCode(code)]
	if !ok {
		return 0, fmt.Errorf("source %s, code %s: %w", c.name, code, ErrInstrumentNotFound)
	}
	v, ok := row[date]
	if !ok {
		return 0, fmt.Errorf("source %s, code %s, date %s: %w", c.name, code, date, ErrDateNotFound)
	}
	return v, nil
}

// NormalizeCode upper-cases instrument codes so lookups are case-insensitive.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
