package transform

import (
	"reflect"
	"testing"
	"time"

	"finetl/internal/dataset"
	"finetl/pkg/records"
)

/*
TestSumBy_Rollup verifies the account rollup shape:
  - one output row per distinct (date, key) group,
  - values sum within the group (100 + 250 = 350),
  - output rows are ordered by the key columns.
*/
func TestSumBy_Rollup(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	ds := dataset.New("positions", []string{"as_of_date", "account_key", "market_value"})
	ds.Rows = []records.Record{
		{"as_of_date": day, "account_key": int64(2), "market_value": 40.0},
		{"as_of_date": day, "account_key": int64(1), "market_value": 100.0},
		{"as_of_date": day, "account_key": int64(1), "market_value": 250.0},
	}

	out := SumBy(ds, "account_daily_value",
		[]string{"as_of_date", "account_key"}, "market_value", "total_market_value")

	wantCols := []string{"as_of_date", "account_key", "total_market_value"}
	if !reflect.DeepEqual(out.Columns, wantCols) {
		t.Fatalf("columns=%v; want %v", out.Columns, wantCols)
	}
	want := []records.Record{
		{"as_of_date": day, "account_key": int64(1), "total_market_value": 350.0},
		{"as_of_date": day, "account_key": int64(2), "total_market_value": 40.0},
	}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Fatalf("rows=%#v want=%#v", out.Rows, want)
	}
}

/*
TestSumBy_NullKeyAndMissingValues verifies the null-group semantics:
  - a null group key forms a valid group, sorted after real keys,
  - missing values contribute zero, so a group of only-missing values sums
    to 0 rather than being dropped.
*/
func TestSumBy_NullKeyAndMissingValues(t *testing.T) {
	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	ds := dataset.New("positions", []string{"as_of_date", "account_key", "market_value"})
	ds.Rows = []records.Record{
		{"as_of_date": day, "account_key": nil, "market_value": 10.0},
		{"as_of_date": day, "account_key": nil, "market_value": 5.0},
		{"as_of_date": day, "account_key": int64(1), "market_value": nil},
	}

	out := SumBy(ds, "account_daily_value",
		[]string{"as_of_date", "account_key"}, "market_value", "total_market_value")

	want := []records.Record{
		{"as_of_date": day, "account_key": int64(1), "total_market_value": 0.0},
		{"as_of_date": day, "account_key": nil, "total_market_value": 15.0},
	}
	if !reflect.DeepEqual(out.Rows, want) {
		t.Fatalf("rows=%#v want=%#v", out.Rows, want)
	}
}

/*
TestSumBy_MultiDateOrder verifies the sort order across dates: rows order by
date first, then key, keeping reruns diffable.
*/
func TestSumBy_MultiDateOrder(t *testing.T) {
	d1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	ds := dataset.New("positions", []string{"as_of_date", "account_key", "market_value"})
	ds.Rows = []records.Record{
		{"as_of_date": d2, "account_key": int64(1), "market_value": 1.0},
		{"as_of_date": d1, "account_key": int64(2), "market_value": 2.0},
		{"as_of_date": d1, "account_key": int64(1), "market_value": 3.0},
	}

	out := SumBy(ds, "adv", []string{"as_of_date", "account_key"}, "market_value", "total_market_value")

	order := make([][2]any, 0, out.Len())
	for _, r := range out.Rows {
		order = append(order, [2]any{r["as_of_date"], r["account_key"]})
	}
	want := [][2]any{
		{d1, int64(1)},
		{d1, int64(2)},
		{d2, int64(1)},
	}
	if !reflect.DeepEqual(order, want) {
		t.Fatalf("order=%v; want %v", order, want)
	}
}

func TestCompareCell(t *testing.T) {
	d1 := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	cases := []struct {
		a, b any
		want int
	}{
		{nil, nil, 0},
		{nil, int64(1), 1}, // nil sorts last
		{int64(1), nil, -1},
		{int64(1), int64(2), -1},
		{2.5, 2.5, 0},
		{"a", "b", -1},
		{d1, d2, -1},
		{d2, d2, 0},
	}
	for i, tc := range cases {
		if got := compareCell(tc.a, tc.b); got != tc.want {
			t.Fatalf("case %d: compare(%v,%v)=%d; want %d", i, tc.a, tc.b, got, tc.want)
		}
	}
}
