package trace

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
)

// csvColumns returns the header row: the time index followed by one column per
// series, CV channels first in declaration order.
func (m *Model) csvColumns() []string {
	cols := []string{"t"}
	for _, ch := range m.cv {
		cols = append(cols, ch.output+"."+keyPrediction)
		if ch.hasRef {
			cols = append(cols, ch.output+"."+keyReference)
		}
		if ch.measuredN > 0 {
			cols = append(cols, ch.output+"."+keyMeasured)
		}
	}
	for _, ch := range m.mv {
		cols = append(cols, ch.input+"."+keyActuation)
	}
	return cols
}

// ExportCSV writes the normalised series to path, one row per time index.
// Cells past the end of a series are left empty.
func ExportCSV(m *Model, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating CSV export: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := csv.NewWriter(file)
	if err := writer.Write(m.csvColumns()); err != nil {
		return fmt.Errorf("writing CSV header: %w", err)
	}

	var cols [][]float64
	for i := range m.cv {
		cols = append(cols, m.Prediction(i))
		if ref, ok := m.Reference(i); ok {
			cols = append(cols, ref)
		}
		if y, ok := m.Measurement(i); ok {
			cols = append(cols, y)
		}
	}
	for i := range m.mv {
		cols = append(cols, m.Actuation(i))
	}

	rows := max(m.predLen, m.actLen)
	for t := 0; t < rows; t++ {
		row := make([]string, 0, len(cols)+1)
		row = append(row, strconv.Itoa(t))
		for _, c := range cols {
			if t < len(c) {
				row = append(row, strconv.FormatFloat(c[t], 'f', -1, 64))
			} else {
				row = append(row, "")
			}
		}
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("writing CSV row %d: %w", t, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flushing CSV export: %w", err)
	}
	return nil
}
