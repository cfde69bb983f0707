package main

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pkg/errors"

	"github.com/sheikhrachel/go-life/utils"
)

func testConfig(pattern string) utils.Config {
	config := utils.DefaultConfig()
	config.Grid.Rows = 12
	config.Grid.Cols = 12
	config.Grid.Seed = 1
	config.Grid.Pattern = pattern
	config.Compute.Mode = "inline"
	config.Loop.Interval = time.Millisecond
	config.Loop.FrameRate = time.Millisecond
	return config
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestInitializeGame(t *testing.T) {
	loop, batches, err := initializeGame(context.Background(), testConfig("glider"), discardLogger())
	if err != nil {
		t.Fatalf("initializeGame: %v", err)
	}
	defer loop.Close()

	if cap(batches) != batchQueueSize {
		t.Fatalf("batch queue capacity = %d", cap(batches))
	}
	if n := loop.Grid().CountLivingCells(); n != 5 {
		t.Fatalf("glider seed has %d living cells", n)
	}
	if loop.Running() {
		t.Fatal("loop started before the session runs")
	}
}

func TestInitializeGameRejectsUnknownPattern(t *testing.T) {
	if _, _, err := initializeGame(context.Background(), testConfig("pulsar"), discardLogger()); err == nil {
		t.Fatal("unknown pattern accepted")
	}
}

func TestRunHeadlessStopsOnStability(t *testing.T) {
	config := testConfig("block")
	loop, _, err := initializeGame(context.Background(), config, discardLogger())
	if err != nil {
		t.Fatalf("initializeGame: %v", err)
	}
	defer loop.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	if err := runHeadless(ctx, loop, config, &out); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	if loop.Generation() != 1 {
		t.Fatalf("generation = %d, want 1", loop.Generation())
	}
	if !strings.Contains(out.String(), "stable configuration") {
		t.Fatalf("output = %q", out.String())
	}
}

func TestRunHeadlessStopsAtGenerationLimit(t *testing.T) {
	config := testConfig("glider")
	config.Loop.MaxGenerations = 3
	loop, _, err := initializeGame(context.Background(), config, discardLogger())
	if err != nil {
		t.Fatalf("initializeGame: %v", err)
	}
	defer loop.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var out bytes.Buffer
	if err := runHeadless(ctx, loop, config, &out); err != nil {
		t.Fatalf("runHeadless: %v", err)
	}
	if loop.Generation() != 3 {
		t.Fatalf("generation = %d, want 3", loop.Generation())
	}
}

func TestWritePerfDrainsBatches(t *testing.T) {
	batches := make(chan utils.BatchStats, 2)
	batches <- utils.BatchStats{Batch: 1, Samples: 100}
	batches <- utils.BatchStats{Batch: 2, Samples: 100}
	close(batches)

	var buf bytes.Buffer
	if err := writePerf(batches, utils.NewPerfWriter(&buf), discardLogger()); err != nil {
		t.Fatalf("writePerf: %v", err)
	}
	if lines := strings.Count(buf.String(), "\n"); lines != 3 {
		t.Fatalf("csv has %d lines, want 3", lines)
	}
}

func TestClosePerfReportsCloseError(t *testing.T) {
	perf, err := utils.OpenPerfCSV(filepath.Join(t.TempDir(), "perf.csv"))
	if err != nil {
		t.Fatalf("OpenPerfCSV: %v", err)
	}
	if err := closePerf(perf, nil); err != nil {
		t.Fatalf("first close: %v", err)
	}
	// the file is already closed, so a second close fails
	if err := closePerf(perf, nil); err == nil {
		t.Fatal("close error was discarded")
	}

	runErr := errors.New("session failed")
	if err := closePerf(perf, runErr); err != runErr {
		t.Fatalf("err = %v, want the run error kept", err)
	}
	if err := closePerf(nil, nil); err != nil {
		t.Fatalf("nil writer: %v", err)
	}
}
