package utils

import (
	"io"
	"os"

	"github.com/gocarina/gocsv"
	"github.com/pkg/errors"
)

// PerfRecord is one CSV row of step timing statistics
type PerfRecord struct {
	Batch    int     `csv:"batch"`
	Samples  int     `csv:"samples"`
	MinMS    float64 `csv:"min_ms"`
	MedianMS float64 `csv:"median_ms"`
	MaxMS    float64 `csv:"max_ms"`
	EWMAMS   float64 `csv:"ewma_ms"`
}

// PerfWriter appends batch statistics as CSV rows. A nil *PerfWriter discards writes.
type PerfWriter struct {
	out           io.Writer
	closer        io.Closer
	headerWritten bool
}

// NewPerfWriter writes CSV rows to out
func NewPerfWriter(out io.Writer) *PerfWriter {
	return &PerfWriter{out: out}
}

// OpenPerfCSV creates the file at path; an empty path disables output and returns nil
func OpenPerfCSV(path string) (*PerfWriter, error) {
	if path == "" {
		return nil, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[OpenPerfCSV] failed to create file: %+v", path)
	}
	return &PerfWriter{out: f, closer: f}, nil
}

// Write appends one batch; the header is written before the first row
func (w *PerfWriter) Write(b BatchStats) error {
	if w == nil {
		return nil
	}

	records := []PerfRecord{{
		Batch:    b.Batch,
		Samples:  b.Samples,
		MinMS:    b.Min,
		MedianMS: b.Median,
		MaxMS:    b.Max,
		EWMAMS:   b.EWMA,
	}}

	if !w.headerWritten {
		if err := gocsv.Marshal(records, w.out); err != nil {
			return errors.Wrap(err, "[PerfWriter.Write] failed to write perf record")
		}
		w.headerWritten = true
		return nil
	}
	if err := gocsv.MarshalWithoutHeaders(records, w.out); err != nil {
		return errors.Wrap(err, "[PerfWriter.Write] failed to write perf record")
	}
	return nil
}

// Close closes the underlying file, if any
func (w *PerfWriter) Close() error {
	if w == nil || w.closer == nil {
		return nil
	}
	return w.closer.Close()
}
