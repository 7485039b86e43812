package transform

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"

	"github.com/olekukonko/tablewriter"
)

// Report filenames, overwritten on every run.
const (
	MetricsFile = "transform_metrics.csv"
	DQFile      = "data_quality_report.csv"
)

// TableCount is the final row count of one output table.
type TableCount struct {
	Table string
	Rows  int
}

// RuleDrop is the number of rows removed by one DQ rule.
type RuleDrop struct {
	Rule    string
	Dropped int
}

// Report accumulates run-level row counts and DQ outcomes. It is threaded
// through the pipeline explicitly; nothing run-wide lives in package state.
type Report struct {
	Metrics  []TableCount
	DQIssues []RuleDrop
}

// AddCount records the final row count of an output table.
func (r *Report) AddCount(table string, rows int) {
	r.Metrics = append(r.Metrics, TableCount{Table: table, Rows: rows})
}

// AddDrop records a DQ rule outcome. Zero drops are recorded too; the report
// lists every rule in application order.
func (r *Report) AddDrop(rule string, dropped int) {
	r.DQIssues = append(r.DQIssues, RuleDrop{Rule: rule, Dropped: dropped})
}

// Dropped returns the drop count recorded for rule.
func (r *Report) Dropped(rule string) (int, bool) {
	for _, d := range r.DQIssues {
		if d.Rule == rule {
			return d.Dropped, true
		}
	}
	return 0, false
}

// TotalDropped sums all rule drop counts.
func (r *Report) TotalDropped() int {
	n := 0
	for _, d := range r.DQIssues {
		n += d.Dropped
	}
	return n
}

// WriteFiles writes the metrics and DQ reports under logsDir, replacing any
// previous run's files.
func (r *Report) WriteFiles(logsDir string) error {
	if err := writeCSV(filepath.Join(logsDir, MetricsFile), []string{"table", "rows"}, func(w *csv.Writer) error {
		for _, m := range r.Metrics {
			if err := w.Write([]string{m.Table, strconv.Itoa(m.Rows)}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("write metrics report: %w", err)
	}
	if err := writeCSV(filepath.Join(logsDir, DQFile), []string{"rule", "dropped"}, func(w *csv.Writer) error {
		for _, d := range r.DQIssues {
			if err := w.Write([]string{d.Rule, strconv.Itoa(d.Dropped)}); err != nil {
				return err
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("write dq report: %w", err)
	}
	return nil
}

// Summary renders an operator-facing view of the run on w.
func (r *Report) Summary(w io.Writer) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"table", "rows"})
	for _, m := range r.Metrics {
		t.Append([]string{m.Table, strconv.Itoa(m.Rows)})
	}
	t.Render()

	t = tablewriter.NewWriter(w)
	t.SetHeader([]string{"dq rule", "dropped"})
	for _, d := range r.DQIssues {
		t.Append([]string{d.Rule, strconv.Itoa(d.Dropped)})
	}
	t.Render()
}

func writeCSV(path string, header []string, body func(*csv.Writer) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	if err := w.Write(header); err != nil {
		f.Close()
		return err
	}
	if err := body(w); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
