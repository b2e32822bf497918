package telemetry

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Output streams WindowStats rows to a perf.csv file, the way the
// teacher's OutputManager streams telemetry/perf/bookmark rows: headers
// on the first write, headerless appends after.
type Output struct {
	dir            string
	perfFile       *os.File
	headerWritten  bool
}

// NewOutput creates dir if needed and opens perf.csv inside it. A nil
// *Output (NewOutput("")) makes WriteStats a no-op, matching the
// teacher's "empty dir disables output" convention.
func NewOutput(dir string) (*Output, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("telemetry: creating output dir: %w", err)
	}
	f, err := os.Create(filepath.Join(dir, "perf.csv"))
	if err != nil {
		return nil, fmt.Errorf("telemetry: creating perf.csv: %w", err)
	}
	return &Output{dir: dir, perfFile: f}, nil
}

// WriteStats appends one rolled-up window as a CSV row.
func (o *Output) WriteStats(s WindowStats) error {
	if o == nil {
		return nil
	}
	rows := []WindowStats{s}
	if !o.headerWritten {
		o.headerWritten = true
		return gocsv.Marshal(rows, o.perfFile)
	}
	return gocsv.MarshalWithoutHeaders(rows, o.perfFile)
}

// Close flushes and closes the underlying file.
func (o *Output) Close() error {
	if o == nil || o.perfFile == nil {
		return nil
	}
	return o.perfFile.Close()
}
