package utils

import (
	"bytes"
	"math"
	"strings"
	"testing"
	"time"
)

func TestSamplerEWMA(t *testing.T) {
	s := NewSampler(0, 0)
	s.RecordMillis(10)
	if s.EWMA() != 10 {
		t.Fatalf("EWMA after first sample = %v, want 10", s.EWMA())
	}
	s.RecordMillis(20)
	if math.Abs(s.EWMA()-11) > 1e-9 {
		t.Fatalf("EWMA = %v, want 11", s.EWMA())
	}
	s.Record(1500 * time.Microsecond)
	if want := 11 + 0.1*(1.5-11); math.Abs(s.EWMA()-want) > 1e-9 {
		t.Fatalf("EWMA = %v, want %v", s.EWMA(), want)
	}
}

func TestSamplerBatches(t *testing.T) {
	tests := []struct {
		name             string
		samples          []float64
		min, median, max float64
	}{
		{"even count averages the middle pair", []float64{4, 1, 3, 2}, 1, 2.5, 4},
		{"odd count takes the middle", []float64{5, 1, 9}, 1, 5, 9},
		{"extremes arrive last", []float64{3, 7, 5, 9, 1}, 1, 5, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewSampler(len(tt.samples), 0.1)
			var got []BatchStats
			s.OnBatch(func(b BatchStats) { got = append(got, b) })

			for _, ms := range tt.samples {
				s.RecordMillis(ms)
			}
			if len(got) != 1 {
				t.Fatalf("batches = %d, want 1", len(got))
			}
			b := got[0]
			if b.Min != tt.min || b.Median != tt.median || b.Max != tt.max {
				t.Fatalf("batch = %+v, want min %v median %v max %v", b, tt.min, tt.median, tt.max)
			}
			if s.Pending() != 0 {
				t.Fatalf("batch not cleared, %d pending", s.Pending())
			}
		})
	}
}

func TestSummarizeKeepsArrivalOrder(t *testing.T) {
	samples := []float64{8, 2, 6, 4}
	b := summarize(samples)
	if b.Min != 2 || b.Max != 8 || b.Median != 5 || b.Samples != 4 {
		t.Fatalf("summary = %+v", b)
	}
	for i, want := range []float64{8, 2, 6, 4} {
		if samples[i] != want {
			t.Fatalf("samples reordered: %v", samples)
		}
	}
}

func TestSamplerDefaultBatchOfHundred(t *testing.T) {
	s := NewSampler(0, 0)
	for i := 1; i <= 150; i++ {
		s.RecordMillis(float64(i))
	}
	b, ok := s.LastBatch()
	if !ok {
		t.Fatal("no batch after 150 samples")
	}
	if b.Batch != 1 || b.Samples != 100 || b.Min != 1 || b.Max != 100 || b.Median != 50.5 {
		t.Fatalf("batch = %+v", b)
	}
	if s.Pending() != 50 || s.Count() != 150 {
		t.Fatalf("pending = %d count = %d", s.Pending(), s.Count())
	}
}

func TestPerfWriter(t *testing.T) {
	var buf bytes.Buffer
	w := NewPerfWriter(&buf)
	for i := 1; i <= 2; i++ {
		if err := w.Write(BatchStats{Batch: i, Samples: 100, Min: 1, Median: 2, Max: 3, EWMA: 2}); err != nil {
			t.Fatalf("Write: %v", err)
		}
	}

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want header + 2 rows:\n%s", len(lines), buf.String())
	}
	if lines[0] != "batch,samples,min_ms,median_ms,max_ms,ewma_ms" {
		t.Fatalf("header = %q", lines[0])
	}
	if !strings.HasPrefix(lines[2], "2,100,") {
		t.Fatalf("second row = %q", lines[2])
	}
}

func TestNilPerfWriterDiscards(t *testing.T) {
	var w *PerfWriter
	if err := w.Write(BatchStats{}); err != nil {
		t.Fatalf("Write on nil writer: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close on nil writer: %v", err)
	}
	w, err := OpenPerfCSV("")
	if err != nil || w != nil {
		t.Fatalf("OpenPerfCSV(\"\") = %v, %v", w, err)
	}
}
