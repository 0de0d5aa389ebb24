package market

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

var (
	ErrSheetEmpty   = errors.New("sheet has no data rows")
	ErrBadRowLabel  = errors.New("row label is not of the form \"Stock N\"")
	ErrBadCellValue = errors.New("cell value is not numeric")
)

// NewXLSXConnector loads one sheet of an xlsx workbook into memory.
//
// The expected layout is row labels "Stock N" in the first column and date
// keys in the header row. Codes are sorted numerically; the timeframe keeps
// the column order of the sheet.
func NewXLSXConnector(name, path, sheet string) (*MemoryConnector, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheet, err)
	}
	if len(rows) < 2 || len(rows[0]) < 2 {
		return nil, fmt.Errorf("sheet %s: %w", sheet, ErrSheetEmpty)
	}

	timeframe := append([]string(nil), rows[0][1:]...)

	values := make(map[string]map[string]float64, len(rows)-1)
	numeric := make(map[string]int, len(rows)-1)
	for _, row := range rows[1:] {
		if len(row) == 0 {
			continue
		}
		code, n, err := parseRowLabel(row[0])
		if err != nil {
			return nil, err
		}
		cells := make(map[string]float64, len(timeframe))
		for i, date := range timeframe {
			if i+1 >= len(row) {
				break
			}
			v, err := parseCell(row[i+1])
			if err != nil {
				return nil, fmt.Errorf("sheet %s, row %s, column %s: %w", sheet, row[0], date, err)
			}
			cells[date] = v
		}
		values[code] = cells
		numeric[code] = n
	}

	codes := make([]string, 0, len(values))
	for code := range values {
		codes = append(codes, code)
	}
	sort.Slice(codes, func(i, j int) bool { return numeric[codes[i]] < numeric[codes[j]] })

	return NewMemoryConnector(name, timeframe, codes, values), nil
}

func parseRowLabel(label string) (string, int, error) {
	fields := strings.Fields(label)
	if len(fields) < 2 {
		return "", 0, fmt.Errorf("label %q: %w", label, ErrBadRowLabel)
	}
	code := fields[len(fields)-1]
	n, err := strconv.Atoi(code)
	if err != nil {
		return "", 0, fmt.Errorf("label %q: %w", label, ErrBadRowLabel)
	}
	return code, n, nil
}

// Cell values are parsed through decimal before conversion to float64 so the
// data boundary stays exact regardless of how excelize renders the cell.
func parseCell(cell string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(cell))
	if err != nil {
		return 0, fmt.Errorf("%q: %w", cell, ErrBadCellValue)
	}
	return d.InexactFloat64(), nil
}
