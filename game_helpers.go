package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/compute"
	"github.com/sheikhrachel/go-life/engine"
	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
)

const batchQueueSize = 16

// initializeGame sets up the loop, its computer and the channel carrying timing batches
func initializeGame(ctx context.Context, config utils.Config, logger *slog.Logger) (
	*engine.Loop,
	chan utils.BatchStats,
	error,
) {
	seed := config.Grid.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := model.NewRand(seed)

	grid, err := model.Seed(config.Grid.Pattern, config.Grid.Rows, config.Grid.Cols, config.Grid.RandomDensity, rng)
	if err != nil {
		return nil, nil, errors.Wrap(err, "[initializeGame] failed to seed grid")
	}

	step := compute.Sequential
	if config.Compute.Parallel {
		step = compute.Parallel(config.Compute.Workers)
	}
	computer := compute.New(ctx, compute.Mode(config.Compute.Mode), step, logger)

	batches := make(chan utils.BatchStats, batchQueueSize)
	sampler := utils.NewSampler(config.Telemetry.BatchSize, config.Telemetry.EWMAAlpha)
	sampler.OnBatch(func(b utils.BatchStats) {
		select {
		case batches <- b:
		default:
			logger.Debug("timing batch dropped, writer behind", "batch", b.Batch)
		}
	})

	loop := engine.New(grid, computer,
		engine.WithInterval(config.Loop.Interval),
		engine.WithSampler(sampler),
		engine.WithRand(rng),
		engine.WithLogger(logger),
	)
	logger.Info("session initialized",
		"rows", grid.Rows(),
		"cols", grid.Cols(),
		"pattern", config.Grid.Pattern,
		"seed", seed,
		"compute", fmt.Sprintf("%T", computer),
	)
	return loop, batches, nil
}

// writePerf logs and exports timing batches until the channel is closed
func writePerf(batches <-chan utils.BatchStats, perf *utils.PerfWriter, logger *slog.Logger) error {
	for b := range batches {
		logger.Info("step timing", "stats", b)
		if err := perf.Write(b); err != nil {
			return errors.Wrap(err, "[writePerf]")
		}
	}
	return nil
}

// closePerf closes the perf CSV, reporting its error unless err is already set
func closePerf(perf *utils.PerfWriter, err error) error {
	if closeErr := perf.Close(); closeErr != nil && err == nil {
		return errors.Wrap(closeErr, "[run] failed to close perf CSV")
	}
	return err
}

// terminalView renders every commit to the terminal
type terminalView struct {
	renderer *model.TerminalRenderer
	out      io.Writer
	sampler  *utils.Sampler
	start    time.Time
}

func (v *terminalView) GridCommitted(g *model.Grid, generation uint64) {
	v.renderer.Clear()
	displayGameStatus(v.out, generation, g, v.sampler, v.start)
	v.renderer.Display(g)
}

func (v *terminalView) StabilityDetected(ev engine.StabilityEvent) {
	fmt.Fprintf(v.out, "\n🛑 Stable (%s) at generation %d\n", ev.Classification, ev.Generation)
}

// displayGameInfo shows the initial game information
func displayGameInfo(out io.Writer, config utils.Config, grid *model.Grid) {
	fmt.Fprintf(out, "Features: Compute: %s, Parallel rows: %v, Interval: %v\n",
		config.Compute.Mode, config.Compute.Parallel, config.Loop.Interval)
	fmt.Fprintf(out, "Grid: %dx%d | Initial living cells: %d\n",
		grid.Rows(), grid.Cols(), grid.CountLivingCells())
	fmt.Fprintln(out, "Press Ctrl+C to exit gracefully")
	fmt.Fprintln(out)
}

// displayGameStatus shows the current game status
func displayGameStatus(out io.Writer, generation uint64, grid *model.Grid, sampler *utils.Sampler, start time.Time) {
	livingCells := grid.CountLivingCells()
	density := float64(livingCells) / float64(grid.Rows()*grid.Cols()) * 100

	fmt.Fprintf(out, "Gen: %d | Living: %d | Density: %.1f%% | Bounding box: %d cells\n",
		generation, livingCells, density, grid.BoundingBoxSize())
	fmt.Fprintf(out, "Performance: %.3f ms/step (EWMA) | Runtime: %.1fs\n",
		sampler.EWMA(), time.Since(start).Seconds())
	fmt.Fprintln(out)
}

// checkStopConditions determines if a headless run should end
func checkStopConditions(loop *engine.Loop, maxGenerations int) (bool, string) {
	if maxGenerations > 0 && loop.Generation() >= uint64(maxGenerations) {
		return true, fmt.Sprintf("reached maximum generations limit (%d)", maxGenerations)
	}
	if !loop.Running() && !loop.InFlight() {
		return true, "stable configuration"
	}
	return false, ""
}

// runHeadless drives the loop from a ticker at the configured frame rate
func runHeadless(ctx context.Context, loop *engine.Loop, config utils.Config, out io.Writer) error {
	loop.Start()

	ticker := time.NewTicker(config.Loop.FrameRate)
	defer ticker.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			fmt.Fprintln(out, "\n🛑 Shutting down gracefully...")
			return nil
		case now := <-ticker.C:
			loop.Frame(now.Sub(last))
			last = now

			if err := loop.Err(); err != nil {
				return errors.Wrap(err, "[runHeadless]")
			}
			if stop, reason := checkStopConditions(loop, config.Loop.MaxGenerations); stop {
				fmt.Fprintf(out, "\n🏁 Stopping: %s\n", reason)
				return nil
			}
		}
	}
}
