// Package testutil provides shared test infrastructure for the trace and render
// packages: record fixtures, a temp-file writer and float assertions.
package testutil

import (
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

// Record is a raw trace record as a recorder would serialize it.
type Record = map[string]any

// Ramp returns n samples start, start+step, ...
func Ramp(n int, start, step float64) []any {
	out := make([]any, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// StepTestRecord returns the single-CV, single-MV "step_test" record: T=10, no
// P, a level CV bounded by [0, 10] and a valve MV bounded by [0, 100].
func StepTestRecord() Record {
	return Record{
		"scenario": "step_test",
		"T":        10,
		"n_CV":     1,
		"n_MV":     1,
		"CV": []any{
			Record{"output": "level", "unit": "m", "c": []any{0.0, 10.0}, "y_pred": Ramp(10, 0, 0.5)},
		},
		"MV": []any{
			Record{"input": "valve", "unit": "%", "c": []any{0.0, 100.0}, "u": Ramp(10, 10, 5)},
		},
	}
}

// ClosedLoopRecord returns a constrained closed-loop record with nCV and nMV
// channels, T=t, P=p and M=m. Predictions and references span T+P samples and
// actuation spans T+M samples.
func ClosedLoopRecord(nCV, nMV, t, p, m int) Record {
	cvs := make([]any, nCV)
	for i := range cvs {
		cvs[i] = Record{
			"output": "cv" + string(rune('A'+i)),
			"unit":   "m",
			"c":      []any{-10.0, 10.0},
			"y_pred": Ramp(t+p, float64(i), 0.1),
			"ref":    Ramp(t+p, 1, 0),
		}
	}
	mvs := make([]any, nMV)
	for i := range mvs {
		mvs[i] = Record{
			"input": "mv" + string(rune('A'+i)),
			"unit":  "%",
			"c":     []any{0.0, 100.0},
			"u":     Ramp(t+m, float64(10*i), 1),
		}
	}
	return Record{
		"scenario": "closed_loop",
		"T":        t,
		"P":        p,
		"M":        m,
		"n_CV":     nCV,
		"n_MV":     nMV,
		"CV":       cvs,
		"MV":       mvs,
	}
}

// Channel returns channel i of group ("CV" or "MV") for in-place edits.
func Channel(rec Record, group string, i int) Record {
	return rec[group].([]any)[i].(Record)
}

// WriteRecord serializes rec as JSON into a fresh temp dir and returns the path.
func WriteRecord(t *testing.T, rec Record) string {
	t.Helper()
	data, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("Failed to marshal record: %v", err)
	}
	path := filepath.Join(t.TempDir(), "record.json")
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("Failed to write record: %v", err)
	}
	return path
}

// TestdataPath resolves name inside vis/testdata/.
// The path is resolved relative to this source file: vis/internal/testutil/ → vis/testdata/.
func TestdataPath(t *testing.T, name string) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("Failed to get current file path")
	}
	return filepath.Join(filepath.Dir(thisFile), "..", "..", "testdata", name)
}

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}
