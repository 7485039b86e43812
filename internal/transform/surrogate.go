package transform

import (
	"finetl/internal/dataset"
)

// KeyMap is the natural-key to surrogate-key mapping for one dimension.
// Surrogates are dense int64 starting at 1, assigned in order of first
// appearance in the (already deduplicated) input. Re-running on byte-identical
// input in identical order reproduces identical keys; keys are NOT stable
// across runs when source ordering changes.
type KeyMap struct {
	Natural   string // natural key column name
	Surrogate string // surrogate key column name
	keys      map[string]int64
}

// AssignKeys mints a surrogate key per distinct natural key of ds, joins the
// surrogate column onto ds, and returns the key map. Natural key cells are
// expected to be text; a missing natural key yields a null surrogate.
func AssignKeys(ds *dataset.Dataset, natural, surrogate string) *KeyMap {
	m := &KeyMap{
		Natural:   natural,
		Surrogate: surrogate,
		keys:      make(map[string]int64, len(ds.Rows)),
	}
	var next int64 = 1
	for _, r := range ds.Rows {
		id, ok := r.String(natural)
		if !ok {
			r[surrogate] = nil
			continue
		}
		k, seen := m.keys[id]
		if !seen {
			k = next
			m.keys[id] = k
			next++
		}
		r[surrogate] = k
	}
	ds.AddColumn(surrogate)
	return m
}

// Len returns the number of distinct natural keys.
func (m *KeyMap) Len() int { return len(m.keys) }

// Lookup resolves a natural key cell to its surrogate. The second return is
// false for missing or unknown keys.
func (m *KeyMap) Lookup(v any) (int64, bool) {
	s, ok := v.(string)
	if !ok {
		return 0, false
	}
	k, ok := m.keys[s]
	return k, ok
}

// Resolve left-joins the surrogate for fkCol onto ds under the key map's
// surrogate column name. Unresolved references yield a null surrogate and the
// row is retained; orphaned foreign keys are not a drop condition.
func (m *KeyMap) Resolve(ds *dataset.Dataset, fkCol string) *dataset.Dataset {
	for _, r := range ds.Rows {
		if k, ok := m.Lookup(r[fkCol]); ok {
			r[m.Surrogate] = k
		} else {
			r[m.Surrogate] = nil
		}
	}
	ds.AddColumn(m.Surrogate)
	return ds
}
