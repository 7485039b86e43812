package warehouse

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"finetl/internal/metrics"
	"finetl/pkg/records"
)

const job = "load_to_warehouse"

// LoadLogFile is appended to on every run.
const LoadLogFile = "load_metrics.csv"

// LoadResult is one table's load outcome.
type LoadResult struct {
	RunID           string
	Table           string
	File            string
	SourceRows      int64
	TargetRows      int64  // -1 when the load failed before counting
	Status          string // "success", "row_mismatch", "failed", "skipped"
	Error           string
	StartedAt       time.Time
	EndedAt         time.Time
	DurationSeconds float64
}

// LoadDir loads every processed CSV from TableFiles into the warehouse. A
// missing file is skipped, a per-table failure is recorded and the run
// continues; the load stage never retries.
func LoadDir(ctx context.Context, repo Repository, processedDir string) []LoadResult {
	runID := uuid.NewString()
	results := make([]LoadResult, 0, len(TableFiles))
	for _, tf := range TableFiles {
		path := filepath.Join(processedDir, tf.File)
		if _, err := os.Stat(path); err != nil {
			results = append(results, LoadResult{
				RunID: runID, Table: tf.Table, File: tf.File,
				TargetRows: -1, Status: "skipped",
				StartedAt: time.Now().UTC(), EndedAt: time.Now().UTC(),
			})
			continue
		}
		res := loadTable(ctx, repo, runID, tf, path)
		metrics.RecordStep(job, tf.Table, errFromStatus(res.Status), time.Duration(res.DurationSeconds*float64(time.Second)))
		if res.Status == "success" {
			metrics.RecordRows(job, "inserted", res.TargetRows)
		}
		results = append(results, res)
	}
	return results
}

func errFromStatus(status string) error {
	if status == "success" {
		return nil
	}
	return fmt.Errorf("load status %s", status)
}

func loadTable(ctx context.Context, repo Repository, runID string, tf TableFile, path string) LoadResult {
	res := LoadResult{
		RunID:      runID,
		Table:      tf.Table,
		File:       tf.File,
		TargetRows: -1,
		Status:     "success",
		StartedAt:  time.Now().UTC(),
	}
	defer func() {
		res.EndedAt = time.Now().UTC()
		res.DurationSeconds = res.EndedAt.Sub(res.StartedAt).Seconds()
	}()

	fail := func(err error) LoadResult {
		res.Status = "failed"
		res.Error = err.Error()
		return res
	}

	header, rows, err := readCSVFile(path)
	if err != nil {
		return fail(err)
	}
	res.SourceRows = int64(len(rows))

	def := InferTable(tf.Table, header, rows)
	if err := repo.Exec(ctx, BuildDropTableSQL(tf.Table)); err != nil {
		return fail(fmt.Errorf("drop table: %w", err))
	}
	create, err := BuildCreateTableSQL(def)
	if err != nil {
		return fail(err)
	}
	if err := repo.Exec(ctx, create); err != nil {
		return fail(fmt.Errorf("create table: %w", err))
	}

	if _, err := repo.CopyFrom(ctx, tf.Table, header, convertRows(def, rows)); err != nil {
		return fail(fmt.Errorf("copy: %w", err))
	}
	count, err := repo.Count(ctx, tf.Table)
	if err != nil {
		return fail(fmt.Errorf("count: %w", err))
	}
	res.TargetRows = count
	if count != res.SourceRows {
		res.Status = "row_mismatch"
	}
	return res
}

func readCSVFile(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()
	cr := csv.NewReader(f)
	all, err := cr.ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", filepath.Base(path), err)
	}
	if len(all) == 0 {
		return nil, nil, fmt.Errorf("read %s: empty file", filepath.Base(path))
	}
	return all[0], all[1:], nil
}

// convertRows maps CSV text onto the inferred column types. Empty cells load
// as NULL; a cell that no longer matches its inferred type falls back to its
// text form and lets the backend decide.
func convertRows(def TableDef, rows [][]string) [][]any {
	out := make([][]any, len(rows))
	for i, row := range rows {
		vals := make([]any, len(def.Columns))
		for j := range def.Columns {
			var cell string
			if j < len(row) {
				cell = row[j]
			}
			vals[j] = convertCell(def.Columns[j].SQLType, cell)
		}
		out[i] = vals
	}
	return out
}

func convertCell(sqlType, cell string) any {
	if cell == "" {
		return nil
	}
	switch sqlType {
	case "BIGINT":
		if v, err := strconv.ParseInt(cell, 10, 64); err == nil {
			return v
		}
	case "DOUBLE PRECISION":
		if v, err := strconv.ParseFloat(cell, 64); err == nil {
			return v
		}
	case "BOOLEAN":
		if v, err := strconv.ParseBool(cell); err == nil {
			return v
		}
	case "DATE":
		if v, err := time.Parse(records.DateLayout, cell); err == nil {
			return v
		}
	}
	return cell
}

// AppendLog appends the results to the load log at path, writing the header
// first when the file is new.
func AppendLog(path string, results []LoadResult) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	_, statErr := os.Stat(path)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if os.IsNotExist(statErr) {
		if err := w.Write([]string{
			"run_id", "table_name", "file_name", "source_rows", "target_rows",
			"status", "error", "started_at_utc", "ended_at_utc", "duration_seconds",
		}); err != nil {
			f.Close()
			return err
		}
	}
	for _, r := range results {
		row := []string{
			r.RunID,
			r.Table,
			r.File,
			strconv.FormatInt(r.SourceRows, 10),
			strconv.FormatInt(r.TargetRows, 10),
			r.Status,
			r.Error,
			r.StartedAt.Format(time.RFC3339),
			r.EndedAt.Format(time.RFC3339),
			strconv.FormatFloat(r.DurationSeconds, 'f', 3, 64),
		}
		if err := w.Write(row); err != nil {
			f.Close()
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
