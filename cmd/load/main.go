// Command load replaces the warehouse tables with the processed CSVs and
// appends a row-per-table entry to the load log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/olekukonko/tablewriter"

	"finetl/internal/config"
	"finetl/internal/metrics"
	"finetl/internal/metrics/prompush"
	"finetl/internal/warehouse"
	"finetl/internal/warehouse/postgres"
	"finetl/internal/warehouse/sqlite"
)

func main() {
	var cfgPath string
	flag.StringVar(&cfgPath, "config", "", "run config JSON path (optional)")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		fatalf("configuration is invalid")
	}

	setupMetrics(cfg.Metrics, "load_to_warehouse", *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	ctx := context.Background()
	repo, err := openRepo(ctx, cfg.Warehouse)
	if err != nil {
		log.Fatalf("load: %v", err)
	}
	defer repo.Close()

	results := warehouse.LoadDir(ctx, repo, cfg.ProcessedDir)
	logPath := filepath.Join(cfg.LogsDir, warehouse.LoadLogFile)
	if err := warehouse.AppendLog(logPath, results); err != nil {
		log.Fatalf("load: append log: %v", err)
	}

	printSummary(os.Stdout, results)
	failed := 0
	for _, r := range results {
		if r.Status == "failed" || r.Status == "row_mismatch" {
			failed++
			log.Printf("load: %s: %s %s", r.Table, r.Status, r.Error)
		}
	}
	log.Printf("load: %d tables processed, %d failed, log appended to %s",
		len(results), failed, logPath)
	if failed > 0 {
		os.Exit(1)
	}
}

func openRepo(ctx context.Context, wc config.Warehouse) (warehouse.Repository, error) {
	switch wc.Kind {
	case "sqlite":
		return sqlite.Open(ctx, wc.DSN)
	case "postgres":
		return postgres.Open(ctx, wc.DSN)
	default:
		return nil, fmt.Errorf("unknown warehouse kind %q", wc.Kind)
	}
}

func printSummary(w *os.File, results []warehouse.LoadResult) {
	t := tablewriter.NewWriter(w)
	t.SetHeader([]string{"table", "source rows", "target rows", "status", "duration"})
	for _, r := range results {
		target := "-"
		if r.TargetRows >= 0 {
			target = fmt.Sprintf("%d", r.TargetRows)
		}
		t.Append([]string{
			r.Table,
			fmt.Sprintf("%d", r.SourceRows),
			target,
			r.Status,
			fmt.Sprintf("%.3fs", r.DurationSeconds),
		})
	}
	t.Render()
}

func setupMetrics(mc config.Metrics, job string, verbose bool) {
	switch mc.Backend {
	case "pushgateway":
		if mc.Job != "" {
			job = mc.Job
		}
		b, err := prompush.NewBackend(job, mc.PushgatewayURL)
		if err != nil {
			log.Printf("metrics: failed to init pushgateway backend: %v; using nop", err)
			return
		}
		metrics.SetBackend(b)
		if verbose {
			log.Printf("metrics: backend=pushgateway url=%s job=%s", mc.PushgatewayURL, job)
		}
	case "", "none":
		if verbose {
			log.Printf("metrics: disabled")
		}
	default:
		log.Printf("metrics: unknown backend %q; metrics disabled", mc.Backend)
	}
}

func fatalf(format string, a ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", a...)
	os.Exit(1)
}
