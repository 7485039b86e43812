package warehouse

import (
	"regexp"
	"strconv"
)

// ColumnDef is one inferred warehouse column.
type ColumnDef struct {
	Name    string
	SQLType string
}

// TableDef is an inferred warehouse table definition.
type TableDef struct {
	Name    string
	Columns []ColumnDef
}

// sampleLimit caps how many non-null values inference examines per column.
const sampleLimit = 50

var dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// dateNameHints are column names treated as DATE when their sampled values
// agree with the ISO date shape.
var dateNameHints = map[string]struct{}{
	"date":        {},
	"as_of_date":  {},
	"trade_date":  {},
	"settle_date": {},
	"created_at":  {},
	"opened_at":   {},
}

// tableHints force a type for specific columns regardless of sampling, for
// tables whose values alone are ambiguous (e.g. an all-null key column).
var tableHints = map[string]map[string]string{
	"account_daily_value":  {"as_of_date": "DATE"},
	"customer_daily_value": {"as_of_date": "DATE"},
	"fact_transactions":    {"trade_date": "DATE", "settle_date": "DATE"},
}

// InferTable derives a table definition from a CSV header and sampled rows.
// Empty cells are nulls and carry no type signal; a column with no non-null
// samples falls back to TEXT.
func InferTable(table string, header []string, rows [][]string) TableDef {
	def := TableDef{Name: table, Columns: make([]ColumnDef, 0, len(header))}
	hints := tableHints[table]
	for i, name := range header {
		if t, ok := hints[name]; ok {
			def.Columns = append(def.Columns, ColumnDef{Name: name, SQLType: t})
			continue
		}
		samples := sampleColumn(rows, i)
		def.Columns = append(def.Columns, ColumnDef{Name: name, SQLType: inferColumn(name, samples)})
	}
	return def
}

func sampleColumn(rows [][]string, idx int) []string {
	var out []string
	for _, row := range rows {
		if len(out) == sampleLimit {
			break
		}
		if idx >= len(row) || row[idx] == "" {
			continue
		}
		out = append(out, row[idx])
	}
	return out
}

func inferColumn(name string, samples []string) string {
	if len(samples) == 0 {
		return "TEXT"
	}
	if _, hinted := dateNameHints[name]; hinted && all(samples, isDate) {
		return "DATE"
	}
	switch {
	case all(samples, isInt):
		return "BIGINT"
	case all(samples, isFloat):
		return "DOUBLE PRECISION"
	case all(samples, isBool):
		return "BOOLEAN"
	case all(samples, isDate):
		return "DATE"
	}
	return "TEXT"
}

func all(vals []string, pred func(string) bool) bool {
	for _, v := range vals {
		if !pred(v) {
			return false
		}
	}
	return true
}

func isDate(s string) bool { return dateRe.MatchString(s) }

func isInt(s string) bool {
	_, err := strconv.ParseInt(s, 10, 64)
	return err == nil
}

func isFloat(s string) bool {
	_, err := strconv.ParseFloat(s, 64)
	return err == nil
}

func isBool(s string) bool { return s == "true" || s == "false" }
