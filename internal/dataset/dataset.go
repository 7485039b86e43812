// Package dataset holds the in-memory tabular form passed between pipeline
// steps: an ordered column list plus one records.Record per row. Each step
// owns the dataset it produces until it hands the value to the next step.
package dataset

import (
	"fmt"

	"finetl/pkg/records"
)

// Dataset is one named table. Columns fixes the output column order; Rows may
// carry extra keys that are dropped on projection or write.
type Dataset struct {
	Name    string
	Columns []string
	Rows    []records.Record
}

// New returns an empty dataset with the given name and column order.
func New(name string, columns []string) *Dataset {
	return &Dataset{Name: name, Columns: columns}
}

// Len returns the row count.
func (d *Dataset) Len() int { return len(d.Rows) }

// HasColumn reports whether name is a declared column.
func (d *Dataset) HasColumn(name string) bool {
	for _, c := range d.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// AddColumn declares a new column if not already present.
func (d *Dataset) AddColumn(name string) {
	if !d.HasColumn(name) {
		d.Columns = append(d.Columns, name)
	}
}

// MissingColumns returns every name in required that is not a declared
// column, preserving the order of required.
func (d *Dataset) MissingColumns(required []string) []string {
	var missing []string
	for _, c := range required {
		if !d.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	return missing
}

// Project returns a new dataset named name containing only cols, in order.
// Rows are fresh records; the source dataset is not retained.
func (d *Dataset) Project(name string, cols []string) *Dataset {
	out := &Dataset{Name: name, Columns: append([]string(nil), cols...)}
	out.Rows = make([]records.Record, 0, len(d.Rows))
	for _, r := range d.Rows {
		nr := make(records.Record, len(cols))
		for _, c := range cols {
			nr[c] = r[c]
		}
		out.Rows = append(out.Rows, nr)
	}
	return out
}

func (d *Dataset) String() string {
	return fmt.Sprintf("%s(%d cols, %d rows)", d.Name, len(d.Columns), len(d.Rows))
}
