// Command ingest uploads the raw CSVs to the configured blob store and
// appends an entry per file to the ingestion log.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"finetl/internal/blob"
	"finetl/internal/config"
	"finetl/internal/metrics"
	"finetl/internal/metrics/prompush"
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

	setupMetrics(cfg.Metrics, "ingest_to_blob", *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	store, err := openStore(cfg.Blob)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	start := time.Now()
	entries, err := blob.Ingest(context.Background(), store, cfg.RawDir)
	metrics.RecordStep("ingest_to_blob", "upload", err, time.Since(start))
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	failed := 0
	for _, e := range entries {
		if e.Status == "failed" {
			failed++
			log.Printf("ingest: %s: %s", e.FileName, e.Error)
		} else if *verbose {
			log.Printf("ingest: %s -> %s (%d bytes)", e.FileName, e.BlobPath, e.Bytes)
		}
	}
	metrics.RecordRows("ingest_to_blob", "uploaded", int64(len(entries)-failed))

	logPath := filepath.Join(cfg.LogsDir, blob.IngestLogFile)
	if err := blob.AppendLog(logPath, entries); err != nil {
		log.Fatalf("ingest: append log: %v", err)
	}
	log.Printf("ingest: %d files uploaded, %d failed, log appended to %s",
		len(entries)-failed, failed, logPath)
	if failed > 0 {
		os.Exit(1)
	}
}

func openStore(bc config.Blob) (blob.Store, error) {
	switch bc.Kind {
	case "local":
		return blob.LocalStore{Root: bc.Root}, nil
	case "minio":
		return blob.NewMinioStore(blob.MinioConfig{
			Endpoint:  bc.Endpoint,
			AccessKey: bc.AccessKey,
			SecretKey: bc.SecretKey,
			Bucket:    bc.Bucket,
			Secure:    bc.Secure,
		})
	default:
		return nil, fmt.Errorf("unknown blob kind %q", bc.Kind)
	}
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
