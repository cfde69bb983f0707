package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/sheikhrachel/go-life/model"
	"github.com/sheikhrachel/go-life/utils"
	"github.com/sheikhrachel/go-life/view"
)

func main() {
	configPath := flag.String("config", "", "path to a YAML config (empty = embedded defaults)")
	gui := flag.Bool("gui", false, "open an ebiten window (build with -tags ebiten)")
	seed := flag.Int64("seed", 0, "random seed (0 = config value or time based)")
	generations := flag.Int("generations", 0, "stop a headless run after N generations (0 = config value)")
	inline := flag.Bool("inline", false, "compute steps inline instead of on the worker")
	flag.Parse()

	// Load configuration - fallback to defaults if the file is unusable
	config, err := utils.LoadConfig(*configPath)
	if err != nil {
		fmt.Println("Using default configuration:", err)
		config = utils.DefaultConfig()
	}
	if *seed != 0 {
		config.Grid.Seed = *seed
	}
	if *generations > 0 {
		config.Loop.MaxGenerations = *generations
	}
	if *inline {
		config.Compute.Mode = "inline"
	}

	logger := utils.NewLogger(config.Logging, os.Stderr)
	slog.SetDefault(logger)

	if err := run(config, *gui, logger); err != nil {
		logger.Error("session failed", "error", err)
		os.Exit(1)
	}
}

func run(config utils.Config, gui bool, logger *slog.Logger) (err error) {
	// Handle Ctrl+C gracefully
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	loop, batches, err := initializeGame(ctx, config, logger)
	if err != nil {
		return err
	}
	defer loop.Close()

	perf, err := utils.OpenPerfCSV(config.Telemetry.PerfCSV)
	if err != nil {
		return err
	}
	defer func() { err = closePerf(perf, err) }()

	start := time.Now()
	eg, ctx := errgroup.WithContext(ctx)
	eg.Go(func() error {
		return writePerf(batches, perf, logger)
	})
	if gui {
		// ebiten must run on the main goroutine
		err = view.Run(ctx, loop, config.View)
		close(batches)
	} else {
		eg.Go(func() error {
			defer close(batches)
			displayGameInfo(os.Stdout, config, loop.Grid())
			loop.Observe(&terminalView{
				renderer: &model.TerminalRenderer{Out: os.Stdout},
				out:      os.Stdout,
				sampler:  loop.Sampler(),
				start:    start,
			})
			return runHeadless(ctx, loop, config, os.Stdout)
		})
	}
	if waitErr := eg.Wait(); err == nil {
		err = waitErr
	}

	fmt.Printf("Final stats: %d generations in %.1f seconds\n",
		loop.Generation(), time.Since(start).Seconds())
	fmt.Printf("Average step: %.3f ms (EWMA over %d samples)\n",
		loop.Sampler().EWMA(), loop.Sampler().Count())
	return err
}
