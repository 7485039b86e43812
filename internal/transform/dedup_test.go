package transform

import (
	"reflect"
	"testing"
	"time"

	"finetl/internal/dataset"
	"finetl/pkg/records"
)

/*
TestDeDup_KeepFirst verifies keep-first semantics: the earliest occurrence of
each natural key survives with its original cell values, later occurrences
drop silently, and surviving rows keep input order.
*/
func TestDeDup_KeepFirst(t *testing.T) {
	ds := dataset.New("customers", []string{"customer_id", "email"})
	ds.Rows = []records.Record{
		{"customer_id": "C1", "email": "first@x.com"},
		{"customer_id": "C2", "email": "two@x.com"},
		{"customer_id": "C1", "email": "second@x.com"}, // duplicate, dropped
	}

	DeDup{Keys: []string{"customer_id"}}.Apply(ds)

	want := []records.Record{
		{"customer_id": "C1", "email": "first@x.com"},
		{"customer_id": "C2", "email": "two@x.com"},
	}
	if !reflect.DeepEqual(ds.Rows, want) {
		t.Fatalf("got=%#v want=%#v", ds.Rows, want)
	}
}

/*
TestDeDup_CompositeKey verifies the positions grain: rows agreeing on
(as_of_date, account_id, security_id) are duplicates even when measures
differ, and rows differing in any one component are not.
*/
func TestDeDup_CompositeKey(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	ds := dataset.New("positions", []string{"as_of_date", "account_id", "security_id", "market_value"})
	ds.Rows = []records.Record{
		{"as_of_date": day, "account_id": "A1", "security_id": "S1", "market_value": 100.0},
		{"as_of_date": day, "account_id": "A1", "security_id": "S1", "market_value": 999.0}, // dup
		{"as_of_date": day, "account_id": "A1", "security_id": "S2", "market_value": 50.0},
		{"as_of_date": day.AddDate(0, 0, 1), "account_id": "A1", "security_id": "S1", "market_value": 100.0},
	}

	DeDup{Keys: []string{"as_of_date", "account_id", "security_id"}}.Apply(ds)

	if ds.Len() != 3 {
		t.Fatalf("rows=%d; want 3", ds.Len())
	}
	if v := ds.Rows[0]["market_value"]; v != 100.0 {
		t.Fatalf("kept the wrong duplicate: market_value=%v; want 100", v)
	}
}

/*
TestCompositeKey_NilVsEmpty verifies that a nil key cell and an empty string
key differently, and that the separator keeps ("a","b") distinct from ("ab","").
*/
func TestCompositeKey_NilVsEmpty(t *testing.T) {
	keys := []string{"x", "y"}
	kNil := compositeKey(records.Record{"x": nil, "y": "b"}, keys)
	kEmpty := compositeKey(records.Record{"x": "", "y": "b"}, keys)
	if kNil == kEmpty {
		t.Fatalf("nil and empty string collide: %q", kNil)
	}
	kAB := compositeKey(records.Record{"x": "a", "y": "b"}, keys)
	kABEmpty := compositeKey(records.Record{"x": "ab", "y": ""}, keys)
	if kAB == kABEmpty {
		t.Fatalf("separator failed: %q", kAB)
	}
}
