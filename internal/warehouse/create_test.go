package warehouse

import (
	"strings"
	"testing"
)

func TestBuildDropTableSQL(t *testing.T) {
	if got := BuildDropTableSQL("dim_customers"); got != `DROP TABLE IF EXISTS "dim_customers";` {
		t.Fatalf("got %q", got)
	}
	if got := BuildDropTableSQL("analytics.dim_customers"); got != `DROP TABLE IF EXISTS "analytics"."dim_customers";` {
		t.Fatalf("dotted: got %q", got)
	}
}

/*
TestBuildCreateTableSQL verifies DDL generation:
  - identifiers are double-quoted, dotted names quote per part,
  - embedded quotes escape by doubling,
  - empty table name, empty column list, or a column missing its type error
    out instead of emitting broken DDL.
*/
func TestBuildCreateTableSQL(t *testing.T) {
	def := TableDef{
		Name: "analytics.fact_transactions",
		Columns: []ColumnDef{
			{"transaction_id", "TEXT"},
			{"account_key", "BIGINT"},
			{"trade_date", "DATE"},
		},
	}
	got, err := BuildCreateTableSQL(def)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := "CREATE TABLE \"analytics\".\"fact_transactions\" (\n" +
		"  \"transaction_id\" TEXT,\n" +
		"  \"account_key\" BIGINT,\n" +
		"  \"trade_date\" DATE\n" +
		");"
	if got != want {
		t.Fatalf("ddl=%q; want %q", got, want)
	}

	if _, err := BuildCreateTableSQL(TableDef{Name: "", Columns: def.Columns}); err == nil {
		t.Fatalf("empty table name: want error")
	}
	if _, err := BuildCreateTableSQL(TableDef{Name: "t"}); err == nil {
		t.Fatalf("no columns: want error")
	}
	if _, err := BuildCreateTableSQL(TableDef{Name: "t", Columns: []ColumnDef{{"c", ""}}}); err == nil {
		t.Fatalf("missing type: want error")
	}

	got, err = BuildCreateTableSQL(TableDef{Name: `we"ird`, Columns: []ColumnDef{{"c", "TEXT"}}})
	if err != nil {
		t.Fatalf("quoted ident: %v", err)
	}
	if !strings.Contains(got, `"we""ird"`) {
		t.Fatalf("quote escaping: %q", got)
	}
}
