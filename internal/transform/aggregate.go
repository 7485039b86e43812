package transform

import (
	"sort"
	"strings"
	"time"

	"finetl/internal/dataset"
	"finetl/pkg/records"
)

// SumBy rolls valueCol up over the distinct combinations of keyCols,
// emitting one row per group with the sum under outCol. A null group key is
// a valid group, not an error. Missing values contribute zero, so a group of
// only-missing values sums to 0. Output rows are ordered by the key columns
// with null keys last, keeping reruns diffable.
func SumBy(ds *dataset.Dataset, name string, keyCols []string, valueCol, outCol string) *dataset.Dataset {
	type group struct {
		keys []any
		sum  float64
	}
	groups := make(map[string]*group, len(ds.Rows))
	for _, r := range ds.Rows {
		gk := compositeKey(r, keyCols)
		g, ok := groups[gk]
		if !ok {
			keys := make([]any, len(keyCols))
			for i, c := range keyCols {
				keys[i] = r[c]
			}
			g = &group{keys: keys}
			groups[gk] = g
		}
		if f, ok := r.Float(valueCol); ok {
			g.sum += f
		}
	}

	ordered := make([]*group, 0, len(groups))
	for _, g := range groups {
		ordered = append(ordered, g)
	}
	sort.Slice(ordered, func(i, j int) bool {
		a, b := ordered[i], ordered[j]
		for k := range a.keys {
			if c := compareCell(a.keys[k], b.keys[k]); c != 0 {
				return c < 0
			}
		}
		return false
	})

	out := dataset.New(name, append(append([]string(nil), keyCols...), outCol))
	out.Rows = make([]records.Record, 0, len(ordered))
	for _, g := range ordered {
		rec := make(records.Record, len(keyCols)+1)
		for i, c := range keyCols {
			rec[c] = g.keys[i]
		}
		rec[outCol] = g.sum
		out.Rows = append(out.Rows, rec)
	}
	return out
}

// compareCell orders cells of a like type; nil sorts after everything.
func compareCell(a, b any) int {
	if a == nil && b == nil {
		return 0
	}
	if a == nil {
		return 1
	}
	if b == nil {
		return -1
	}
	switch x := a.(type) {
	case time.Time:
		if y, ok := b.(time.Time); ok {
			switch {
			case x.Before(y):
				return -1
			case x.After(y):
				return 1
			}
			return 0
		}
	case int64:
		if y, ok := b.(int64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case float64:
		if y, ok := b.(float64); ok {
			switch {
			case x < y:
				return -1
			case x > y:
				return 1
			}
			return 0
		}
	case string:
		if y, ok := b.(string); ok {
			return strings.Compare(x, y)
		}
	}
	return strings.Compare(records.Format(a), records.Format(b))
}
