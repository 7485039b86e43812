package sqlite

import (
	"context"
	"path/filepath"
	"testing"
	"time"
)

/*
TestRepository_RoundTrip exercises the backend against a real on-disk
database: create a table, bulk-insert typed rows, count them back, and
confirm NULLs and dates survive the trip.
*/
func TestRepository_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dsn := filepath.Join(t.TempDir(), "warehouse.db")

	repo, err := Open(ctx, dsn)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer repo.Close()

	ddl := `CREATE TABLE "account_daily_value" (
  "as_of_date" DATE,
  "account_key" BIGINT,
  "total_market_value" DOUBLE PRECISION
);`
	if err := repo.Exec(ctx, ddl); err != nil {
		t.Fatalf("Exec ddl: %v", err)
	}

	day := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)
	rows := [][]any{
		{day, int64(1), 350.0},
		{day, int64(2), 40.0},
		{day, nil, 7.0},
	}
	n, err := repo.CopyFrom(ctx, "account_daily_value",
		[]string{"as_of_date", "account_key", "total_market_value"}, rows)
	if err != nil {
		t.Fatalf("CopyFrom: %v", err)
	}
	if n != 3 {
		t.Fatalf("inserted=%d; want 3", n)
	}

	count, err := repo.Count(ctx, "account_daily_value")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 3 {
		t.Fatalf("count=%d; want 3", count)
	}
}

/*
TestCopyFrom_Errors verifies the guard rails: empty column list errors, a
zero-row copy is a no-op, and a ragged row rolls the transaction back.
*/
func TestCopyFrom_Errors(t *testing.T) {
	ctx := context.Background()
	repo, err := Open(ctx, filepath.Join(t.TempDir(), "w.db"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer repo.Close()

	if err := repo.Exec(ctx, `CREATE TABLE "t" ("a" BIGINT, "b" TEXT);`); err != nil {
		t.Fatalf("Exec: %v", err)
	}

	if _, err := repo.CopyFrom(ctx, "t", nil, [][]any{{int64(1), "x"}}); err == nil {
		t.Fatalf("empty columns: want error")
	}

	n, err := repo.CopyFrom(ctx, "t", []string{"a", "b"}, nil)
	if err != nil || n != 0 {
		t.Fatalf("zero rows: (%d,%v); want (0,nil)", n, err)
	}

	if _, err := repo.CopyFrom(ctx, "t", []string{"a", "b"}, [][]any{{int64(1)}}); err == nil {
		t.Fatalf("ragged row: want error")
	}
	count, err := repo.Count(ctx, "t")
	if err != nil {
		t.Fatalf("Count: %v", err)
	}
	if count != 0 {
		t.Fatalf("rolled-back rows visible: count=%d", count)
	}
}

func TestOpen_EmptyDSN(t *testing.T) {
	if _, err := Open(context.Background(), "  "); err == nil {
		t.Fatalf("want error for blank DSN")
	}
}
