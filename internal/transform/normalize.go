package transform

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"finetl/internal/dataset"
)

// Casing is locale-independent; categorical codes like "BROKERAGE" or "usd"
// must fold the same way on every machine.
var (
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

// StripAll trims surrounding whitespace on the text cells of the given
// columns. An empty Columns list strips every declared column. Stripping must
// run before casing and numeric coercion; both are whitespace-sensitive.
type StripAll struct {
	Columns []string
}

func (s StripAll) Apply(ds *dataset.Dataset) *dataset.Dataset {
	cols := s.Columns
	if len(cols) == 0 {
		cols = ds.Columns
	}
	for _, r := range ds.Rows {
		for _, c := range cols {
			if v, ok := r[c].(string); ok {
				r[c] = strings.TrimSpace(v)
			}
		}
	}
	return ds
}

// Upper canonicalizes the text cells of the given columns to upper case.
type Upper struct {
	Columns []string
}

func (u Upper) Apply(ds *dataset.Dataset) *dataset.Dataset {
	for _, r := range ds.Rows {
		for _, c := range u.Columns {
			if v, ok := r[c].(string); ok {
				r[c] = upperCaser.String(v)
			}
		}
	}
	return ds
}

// Lower canonicalizes the text cells of the given columns to lower case.
type Lower struct {
	Columns []string
}

func (l Lower) Apply(ds *dataset.Dataset) *dataset.Dataset {
	for _, r := range ds.Rows {
		for _, c := range l.Columns {
			if v, ok := r[c].(string); ok {
				r[c] = lowerCaser.String(v)
			}
		}
	}
	return ds
}

// ToNumeric coerces the text cells of the given columns to float64.
// Unparseable text becomes missing, never an error. Cells that are already
// numeric or missing pass through, which makes the step a fixed point.
type ToNumeric struct {
	Columns []string
}

func (n ToNumeric) Apply(ds *dataset.Dataset) *dataset.Dataset {
	for _, r := range ds.Rows {
		for _, c := range n.Columns {
			v, ok := r[c].(string)
			if !ok {
				continue
			}
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				r[c] = f
			} else {
				r[c] = nil
			}
		}
	}
	return ds
}
