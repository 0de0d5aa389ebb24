package market

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"sort"

	pgxdecimal "github.com/jackc/pgx-shopspring-decimal"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
)

var (
	ErrNoRows       = errors.New("no rows found in table")
	ErrBadTableName = errors.New("table name must be a plain identifier")
)

var identPattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// NewPool creates a pgx pool with the shopspring decimal codec registered and
// verifies connectivity.
func NewPool(ctx context.Context, dbURL string) (*pgxpool.Pool, error) {
	config, err := pgxpool.ParseConfig(dbURL)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	// Register shopspring decimal
	config.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
		pgxdecimal.Register(conn.TypeMap())
		return nil
	}

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, err
	}
	// Ensure the connection is established.
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

// NewPostgresConnector eagerly loads a (code, date, value) table into memory.
// Dates are ordered ascending and deduplicated; codes are ordered ascending.
// Once loaded the connector never touches the database again, so reads are
// safe to share across concurrent strategy evaluations.
func NewPostgresConnector(ctx context.Context, pool *pgxpool.Pool, name, table string) (*MemoryConnector, error) {
	if !identPattern.MatchString(table) {
		return nil, fmt.Errorf("table %q: %w", table, ErrBadTableName)
	}

	query := fmt.Sprintf(`SELECT code, date, value FROM %s ORDER BY date, code`, table)
	rows, err := pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", table, err)
	}
	defer rows.Close()

	values := make(map[string]map[string]float64)
	var timeframe []string
	seenDates := make(map[string]bool)
	for rows.Next() {
		var (
			code, date string
			value      decimal.Decimal
		)
		if err := rows.Scan(&code, &date, &value); err != nil {
			return nil, fmt.Errorf("scan %s: %w", table, err)
		}
		code = NormalizeCode(code)
		if !seenDates[date] {
			seenDates[date] = true
			timeframe = append(timeframe, date)
		}
		if values[code] == nil {
			values[code] = make(map[string]float64)
		}
		values[code][date] = value.InexactFloat64()
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read %s: %w", table, err)
	}
	if len(values) == 0 {
		return nil, fmt.Errorf("table %s: %w", table, ErrNoRows)
	}

	codes := make([]string, 0, len(values))
	for code := range values {
		codes = append(codes, code)
	}
	sort.Strings(codes)

	return NewMemoryConnector(name, timeframe, codes, values), nil
}
