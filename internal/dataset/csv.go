package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"finetl/pkg/records"
)

// utf8BOM is stripped from the first header cell if present.
const utf8BOM = "\uFEFF"

// Read parses a headered CSV stream into a dataset. Every cell is kept as
// text except the designated date columns, which are parsed with
// records.DateLayout; unparseable dates become missing rather than erroring.
// Empty cells become missing. Rows with a field count different from the
// header are soft-skipped.
func Read(r io.Reader, name string, dateCols []string) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("%s: read csv header: %w", name, err)
	}
	cols := make([]string, len(header))
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, utf8BOM)
		}
		cols[i] = strings.TrimSpace(h)
	}

	dates := make(map[string]bool, len(dateCols))
	for _, c := range dateCols {
		dates[c] = true
	}

	ds := &Dataset{Name: name, Columns: cols}
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%s: read csv row: %w", name, err)
		}
		if len(row) != len(cols) {
			continue
		}
		rec := make(records.Record, len(cols))
		for i, val := range row {
			col := cols[i]
			if dates[col] {
				rec[col] = parseDate(val)
				continue
			}
			rec[col] = emptyToNil(val)
		}
		ds.Rows = append(ds.Rows, rec)
	}
	return ds, nil
}

// ReadFile reads a CSV file into a dataset named by the entity stem.
func ReadFile(path, name string, dateCols []string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f, name, dateCols)
}

// Write renders the dataset as a headered CSV on w, using the declared
// column order. Missing cells render empty.
func (d *Dataset) Write(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(d.Columns); err != nil {
		return fmt.Errorf("%s: write header: %w", d.Name, err)
	}
	row := make([]string, len(d.Columns))
	for _, rec := range d.Rows {
		for i, c := range d.Columns {
			row[i] = records.Format(rec[c])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("%s: write row: %w", d.Name, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteFile writes the dataset to path, replacing any previous file.
func (d *Dataset) WriteFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := d.Write(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func parseDate(s string) any {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	t, err := time.Parse(records.DateLayout, s)
	if err != nil {
		return nil
	}
	return t
}

func emptyToNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
