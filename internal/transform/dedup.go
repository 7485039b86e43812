package transform

import (
	"strings"
	"time"

	"finetl/internal/dataset"
	"finetl/pkg/records"
)

// DeDup removes duplicate rows by natural key, keeping the first occurrence
// in input order. Later occurrences drop silently; this is not a DQ rule and
// emits no report entry.
type DeDup struct {
	Keys []string
}

func (d DeDup) Apply(ds *dataset.Dataset) *dataset.Dataset {
	if len(ds.Rows) == 0 || len(d.Keys) == 0 {
		return ds
	}
	seen := make(map[string]struct{}, len(ds.Rows))
	kept := ds.Rows[:0]
	for _, r := range ds.Rows {
		k := compositeKey(r, d.Keys)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		kept = append(kept, r)
	}
	ds.Rows = kept
	return ds
}

// compositeKey joins the key cells with an unlikely separator; nil cells
// contribute a NUL byte so (nil) and ("") key differently.
func compositeKey(r records.Record, keys []string) string {
	var b strings.Builder
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('\x1f')
		}
		switch t := r[k].(type) {
		case nil:
			b.WriteByte('\x00')
		case string:
			b.WriteString(t)
		case time.Time:
			b.WriteString(t.Format(records.DateLayout))
		default:
			b.WriteString(records.Format(t))
		}
	}
	return b.String()
}
