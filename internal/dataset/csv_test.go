package dataset

import (
	"bytes"
	"reflect"
	"strings"
	"testing"
	"time"

	"finetl/pkg/records"
)

/*
TestRead_Table verifies CSV parsing behavior:
  - a UTF-8 BOM on the first header cell is stripped,
  - empty cells load as missing (nil), not empty strings,
  - designated date columns parse to calendar dates; unparseable dates load
    as missing rather than erroring,
  - rows whose field count differs from the header are soft-skipped.
*/
func TestRead_Table(t *testing.T) {
	in := "\uFEFFcustomer_id,created_at,email\n" +
		"C1,2025-01-15,a@x.com\n" +
		"C2,,\n" +
		"C3,not-a-date,c@x.com\n" +
		"short,row\n" +
		"C4,2025-02-01,d@x.com,extra\n"

	ds, err := Read(strings.NewReader(in), "customers", []string{"created_at"})
	if err != nil {
		t.Fatalf("Read: %v", err)
	}

	if !reflect.DeepEqual(ds.Columns, []string{"customer_id", "created_at", "email"}) {
		t.Fatalf("columns=%v", ds.Columns)
	}
	want := []records.Record{
		{"customer_id": "C1", "created_at": time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC), "email": "a@x.com"},
		{"customer_id": "C2", "created_at": nil, "email": nil},
		{"customer_id": "C3", "created_at": nil, "email": "c@x.com"},
	}
	if !reflect.DeepEqual(ds.Rows, want) {
		t.Fatalf("rows=%#v want=%#v", ds.Rows, want)
	}
}

/*
TestWrite_RoundTrip verifies output rendering:
  - columns emit in declared order, extra record keys are dropped,
  - missing cells render empty, dates render as 2006-01-02,
  - floats render in shortest round-trip form, surrogates as integers.
*/
func TestWrite_RoundTrip(t *testing.T) {
	ds := New("fact_transactions", []string{"transaction_id", "account_key", "quantity", "trade_date"})
	ds.Rows = []records.Record{
		{
			"transaction_id": "T1",
			"account_key":    int64(3),
			"quantity":       12.5,
			"trade_date":     time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC),
			"scratch":        "dropped",
		},
		{
			"transaction_id": "T2",
			"account_key":    nil,
			"quantity":       nil,
			"trade_date":     nil,
		},
	}

	var buf bytes.Buffer
	if err := ds.Write(&buf); err != nil {
		t.Fatalf("Write: %v", err)
	}
	got := buf.String()
	want := "transaction_id,account_key,quantity,trade_date\n" +
		"T1,3,12.5,2026-02-10\n" +
		"T2,,,\n"
	if got != want {
		t.Fatalf("output=%q; want %q", got, want)
	}
}

func TestProject(t *testing.T) {
	ds := New("accounts", []string{"account_id", "customer_id", "scratch"})
	ds.Rows = []records.Record{
		{"account_id": "A1", "customer_id": "C1", "scratch": 1.0},
	}

	out := ds.Project("dim_accounts", []string{"account_id", "customer_id"})

	if out.Name != "dim_accounts" || !reflect.DeepEqual(out.Columns, []string{"account_id", "customer_id"}) {
		t.Fatalf("projected shape: %v %v", out.Name, out.Columns)
	}
	if _, ok := out.Rows[0]["scratch"]; ok {
		t.Fatalf("projection retained an extraneous key")
	}
	// Projection must not alias the source rows.
	out.Rows[0]["account_id"] = "mutated"
	if ds.Rows[0]["account_id"] != "A1" {
		t.Fatalf("projection aliased the source record")
	}
}

func TestMissingColumns(t *testing.T) {
	ds := New("positions", []string{"as_of_date", "account_id"})
	got := ds.MissingColumns([]string{"as_of_date", "quantity", "market_value"})
	if !reflect.DeepEqual(got, []string{"quantity", "market_value"}) {
		t.Fatalf("missing=%v", got)
	}
	if ds.MissingColumns([]string{"as_of_date"}) != nil {
		t.Fatalf("want nil for fully present set")
	}
}
