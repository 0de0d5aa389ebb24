package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"backtester/internal/config"
	"backtester/internal/engine"
	"backtester/internal/market"
	"backtester/internal/report"
	"backtester/internal/strategy"
	"backtester/internal/util"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, "backtest:", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	fs := flag.NewFlagSet("backtest", flag.ContinueOnError)
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "Usage: backtest [flags] STRATEGY [STRATEGY...]\n\n")
		fmt.Fprintf(fs.Output(), "Available strategies: %v\n\nFlags:\n", strategy.Names())
		fs.PrintDefaults()
	}

	var (
		configPath  = fs.String("config", "", "YAML config file path")
		dataPath    = fs.String("data", "", "xlsx market data file (overrides config)")
		outputPath  = fs.String("output-path", "", "directory for per-strategy CSV output (overrides config)")
		databaseURL = fs.String("database-url", "", "Postgres data source (overrides config and DATABASE_URL)")
		workers     = fs.Int("workers", 0, "max concurrent strategy evaluations (0 = NumCPU)")
		selection   = fs.Float64("selection", 0, "fraction of ranked names held per leg, in (0, 0.5]")
		verbose     = fs.Bool("verbose", false, "enable debug logging")
	)
	if err := fs.Parse(args); err != nil {
		return err
	}

	// .env is optional; only DATABASE_URL is read from the environment.
	_ = godotenv.Load()

	cfg := config.Default()
	if *configPath != "" {
		var err error
		cfg, err = config.Load(*configPath)
		if err != nil {
			return err
		}
	}
	if *dataPath != "" {
		cfg.Data.Path = *dataPath
	}
	if *outputPath != "" {
		cfg.Output.Path = *outputPath
	}
	if *databaseURL != "" {
		cfg.Data.DatabaseURL = *databaseURL
	} else if cfg.Data.DatabaseURL == "" {
		cfg.Data.DatabaseURL = os.Getenv("DATABASE_URL")
	}
	if *workers != 0 {
		cfg.Backtest.Workers = *workers
	}
	if *selection != 0 {
		cfg.Backtest.Selection = *selection
	}
	if *verbose {
		cfg.Logging.Level = "debug"
	}

	log := util.NewLogger(cfg.Logging.Level)

	// Positional names take precedence over the configured strategy list.
	names := fs.Args()
	if len(names) == 0 {
		names = cfg.Backtest.Strategies
	}
	if len(names) == 0 {
		fs.Usage()
		return fmt.Errorf("no strategies given")
	}

	ctx := context.Background()
	m, err := buildMarket(ctx, cfg)
	if err != nil {
		return err
	}
	log.Info().
		Strs("sources", m.DataSourceNames()).
		Int("instruments", len(m.GetInstruments())).
		Int("dates", len(m.GetTimeframe())).
		Msg("market data loaded")

	var strategies []strategy.Strategy
	for _, name := range names {
		s, err := strategy.New(name, m, cfg.Backtest.Selection)
		if err != nil {
			// An unresolved name is skipped; the rest of the run proceeds.
			log.Error().Err(err).Str("strategy", name).Msg("skipping strategy")
			continue
		}
		strategies = append(strategies, s)
	}
	if len(strategies) == 0 {
		return fmt.Errorf("no strategy resolved from %v", names)
	}

	runner := engine.NewRunner(cfg.Backtest.Workers, *verbose, log)
	results := runner.Run(ctx, strategies)

	if err := os.MkdirAll(cfg.Output.Path, 0o755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	var summaries []report.Summary
	failed := 0
	for _, res := range results {
		if res.Err != nil {
			failed++
			continue
		}
		summary, err := report.Summarize(res.Res, cfg.Backtest.StepsPerYear)
		if err != nil {
			log.Error().Err(err).Str("strategy", res.Name).Msg("summary failed")
			failed++
			continue
		}
		summaries = append(summaries, summary)

		csvPath := filepath.Join(cfg.Output.Path, res.Name+".csv")
		if err := report.WriteReturnsCSVFile(csvPath, res.Res); err != nil {
			return err
		}
		log.Debug().Str("file", csvPath).Msg("wrote returns")
	}

	if len(summaries) > 0 {
		report.RenderTable(os.Stdout, summaries)
	}
	if failed == len(results) {
		return fmt.Errorf("all %d strategies failed", failed)
	}
	return nil
}

// buildMarket registers the returns and book-to-price sources from either the
// xlsx workbook or Postgres. Everything is loaded up front: concurrent
// dispatch must only ever see a fully populated market.
func buildMarket(ctx context.Context, cfg *config.Config) (*market.Market, error) {
	m := market.NewMarket()

	switch {
	case cfg.Data.Path != "":
		ret, err := market.NewXLSXConnector(market.SourceReturns, cfg.Data.Path, cfg.Data.ReturnsSheet)
		if err != nil {
			return nil, err
		}
		bp, err := market.NewXLSXConnector(market.SourceBookToPrice, cfg.Data.Path, cfg.Data.BPSheet)
		if err != nil {
			return nil, err
		}
		if err := m.AddDataSource(ret); err != nil {
			return nil, err
		}
		if err := m.AddDataSource(bp); err != nil {
			return nil, err
		}
	case cfg.Data.DatabaseURL != "":
		pool, err := market.NewPool(ctx, cfg.Data.DatabaseURL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()
		ret, err := market.NewPostgresConnector(ctx, pool, market.SourceReturns, cfg.Data.ReturnsTable)
		if err != nil {
			return nil, err
		}
		bp, err := market.NewPostgresConnector(ctx, pool, market.SourceBookToPrice, cfg.Data.BPTable)
		if err != nil {
			return nil, err
		}
		if err := m.AddDataSource(ret); err != nil {
			return nil, err
		}
		if err := m.AddDataSource(bp); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("no data source: pass --data, --database-url or set one in the config")
	}

	return m, nil
}
