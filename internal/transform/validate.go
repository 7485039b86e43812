package transform

import (
	"fmt"
	"strings"

	"finetl/internal/dataset"
	"finetl/pkg/records"
)

// EnsureColumns verifies that every required column is declared on ds.
// A failure is structural: it names every absent column and halts the run
// before any output is written.
func EnsureColumns(ds *dataset.Dataset, required []string) error {
	if missing := ds.MissingColumns(required); len(missing) > 0 {
		return fmt.Errorf("%s: missing required columns: %s", ds.Name, strings.Join(missing, ", "))
	}
	return nil
}

// Rule is a named row-level data-quality filter. Keep reports whether a row
// survives. Rules only remove rows; surviving rows are never modified.
type Rule struct {
	Name string
	Keep func(records.Record) bool
}

// ApplyRules filters ds through rules in order, recording each rule's drop
// count against the table state entering that rule.
func ApplyRules(ds *dataset.Dataset, rules []Rule, rep *Report) *dataset.Dataset {
	for _, rule := range rules {
		before := len(ds.Rows)
		kept := ds.Rows[:0]
		for _, r := range ds.Rows {
			if rule.Keep(r) {
				kept = append(kept, r)
			}
		}
		ds.Rows = kept
		rep.AddDrop(rule.Name, before-len(ds.Rows))
	}
	return ds
}

// EnumRule keeps rows whose value in every listed column is a member of the
// allowed set. Missing values are outside every set, so they drop.
func EnumRule(name string, allowed map[string]struct{}, cols ...string) Rule {
	return Rule{
		Name: name,
		Keep: func(r records.Record) bool {
			for _, c := range cols {
				s, ok := r.String(c)
				if !ok {
					return false
				}
				if _, ok := allowed[s]; !ok {
					return false
				}
			}
			return true
		},
	}
}

// NonNegativeRule keeps rows whose value in every listed column is >= 0.
// missingPasses selects the treatment of missing values: transaction
// quantity/price let them through, position measures do not.
func NonNegativeRule(name string, missingPasses bool, cols ...string) Rule {
	return Rule{
		Name: name,
		Keep: func(r records.Record) bool {
			for _, c := range cols {
				f, ok := r.Float(c)
				if !ok {
					if missingPasses {
						continue
					}
					return false
				}
				if f < 0 {
					return false
				}
			}
			return true
		},
	}
}
