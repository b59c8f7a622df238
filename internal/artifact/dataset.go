package artifact

import (
	"encoding/csv"
	"fmt"
	"os"
)

// Dataset is the tabular data a figure is built from: ordered columns
// and string-valued rows, serialized as plain CSV next to the script.
type Dataset struct {
	Columns []string
	Rows    [][]string
}

// ReadCSV loads a dataset from a CSV file with a header row.
func ReadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open dataset %s: %w", path, err)
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read dataset %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("dataset %s is empty", path)
	}

	return &Dataset{Columns: records[0], Rows: records[1:]}, nil
}

// WriteCSV writes the dataset to path, header row first.
func (d *Dataset) WriteCSV(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(d.Columns); err != nil {
		return fmt.Errorf("write dataset header: %w", err)
	}
	for _, row := range d.Rows {
		if len(row) != len(d.Columns) {
			return fmt.Errorf("dataset row has %d fields, want %d", len(row), len(d.Columns))
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write dataset row: %w", err)
		}
	}
	w.Flush()
	return w.Error()
}
