package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"backtester/types"
)

// WriteReturnsCSVFile writes one strategy's returns to a CSV file at the
// given path.
func WriteReturnsCSVFile(path string, res *types.StrategyResult) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create returns file: %w", err)
	}
	defer f.Close()

	return WriteReturnsCSV(f, res)
}

// WriteReturnsCSV writes a strategy's returns to any io.Writer as CSV.
// You can pass os.Stdout for debugging, or a file.
func WriteReturnsCSV(w io.Writer, res *types.StrategyResult) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	header := []string{"date", "geom_return", "log_return"}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	for i, date := range res.Dates {
		record := []string{
			date,
			strconv.FormatFloat(res.GeomReturns[i], 'f', -1, 64),
			strconv.FormatFloat(res.LogReturns[i], 'f', -1, 64),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	cw.Flush()
	if err := cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}
	return nil
}
