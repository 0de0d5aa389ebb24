// Package engine dispatches strategy evaluations across workers.
package engine

import (
	"context"
	"runtime"
	"time"

	"github.com/rs/zerolog"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"backtester/internal/strategy"
	"backtester/types"
)

// Result is the outcome of one strategy evaluation. A failed evaluation
// carries its error here rather than aborting the run.
type Result struct {
	Name     string
	Res      *types.StrategyResult
	Err      error
	Duration time.Duration
}

type Runner struct {
	workers  int
	progress bool
	log      zerolog.Logger
}

// NewRunner creates a runner. workers <= 0 means one worker per CPU.
func NewRunner(workers int, progress bool, log zerolog.Logger) *Runner {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Runner{
		workers:  workers,
		progress: progress,
		log:      log,
	}
}

// Run evaluates every strategy over the full market timeframe, at most
// workers at a time. Each strategy owns disjoint mutable state, so there is
// no ordering guarantee across strategies and none is needed. A failing
// strategy records its error on its own result and never cancels siblings.
func (r *Runner) Run(ctx context.Context, strategies []strategy.Strategy) []Result {
	results := make([]Result, len(strategies))

	var bar *progressbar.ProgressBar
	if r.progress {
		bar = initProgressBar(len(strategies))
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(r.workers)
	for i, strat := range strategies {
		i, strat := i, strat
		g.Go(func() error {
			start := time.Now()
			res := Result{Name: strat.Name()}

			if err := ctx.Err(); err != nil {
				res.Err = err
			} else {
				res.Res, res.Err = strat.Eval(nil)
			}
			res.Duration = time.Since(start)
			results[i] = res

			if res.Err != nil {
				r.log.Error().Err(res.Err).Str("strategy", res.Name).Msg("strategy evaluation failed")
			} else {
				r.log.Debug().
					Str("strategy", res.Name).
					Int("periods", len(res.Res.Dates)).
					Dur("took", res.Duration).
					Msg("strategy evaluated")
			}
			if bar != nil {
				bar.Add(1)
			}
			// Evaluation errors stay on the result so siblings keep running.
			return nil
		})
	}
	g.Wait()
	if bar != nil {
		bar.Finish()
	}
	return results
}

func initProgressBar(maxTicks int) *progressbar.ProgressBar {
	return progressbar.NewOptions(maxTicks,
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionSetElapsedTime(true),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetDescription("Backtesting in progress..."),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}))
}
