// Package records defines the loosely typed row model shared by every
// pipeline stage. A Record is one row keyed by canonical column name.
//
// Cell values are one of:
//
//	nil       — missing
//	string    — raw or normalized text
//	float64   — a coerced numeric value
//	int64     — a surrogate key
//	time.Time — a coerced calendar date
package records

import (
	"fmt"
	"strconv"
	"time"
)

// Record is a single row of loosely typed cells.
type Record map[string]any

// DateLayout is the canonical calendar-date form used across the pipeline.
const DateLayout = "2006-01-02"

// Missing reports whether col is absent or nil.
func (r Record) Missing(col string) bool {
	v, ok := r[col]
	return !ok || v == nil
}

// String returns the cell as a string. The second return is false when the
// cell is missing or not text.
func (r Record) String(col string) (string, bool) {
	s, ok := r[col].(string)
	return s, ok
}

// Float returns the cell as a float64. The second return is false when the
// cell is missing or not numeric; callers summing values treat that as zero.
func (r Record) Float(col string) (float64, bool) {
	f, ok := r[col].(float64)
	return f, ok
}

// Key returns the cell as a surrogate key. The second return is false for a
// null key.
func (r Record) Key(col string) (int64, bool) {
	k, ok := r[col].(int64)
	return k, ok
}

// Clone returns a shallow copy of the record.
func (r Record) Clone() Record {
	out := make(Record, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}

// Format renders a cell for text-tabular output. Missing cells render empty,
// dates render as DateLayout, floats in the shortest round-trip form.
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'g', -1, 64)
	case time.Time:
		return t.Format(DateLayout)
	case bool:
		if t {
			return "true"
		}
		return "false"
	default:
		return fmt.Sprint(t)
	}
}
