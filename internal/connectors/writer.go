package connectors

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/peekknuf/dataqa/internal/dataset"
)

// WriteCSV writes d as CSV with a header row. Missing cells are written
// empty.
func WriteCSV(w io.Writer, d *dataset.Dataset) error {
	d, err := dataset.Validate(d)
	if err != nil {
		return err
	}

	writer := csv.NewWriter(w)
	if err := writer.Write(d.Columns()); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	rows, cols := d.Shape()
	record := make([]string, cols)
	for r := 0; r < rows; r++ {
		for c, v := range d.Row(r) {
			record[c] = v.String()
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("failed to write record %d: %w", r+1, err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteCSVFile writes d to path, replacing any existing file.
func WriteCSVFile(path string, d *dataset.Dataset) error {
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	if err := WriteCSV(file, d); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}
