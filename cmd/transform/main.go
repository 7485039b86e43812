// Command transform runs the transform-and-model stage: it reads the raw
// entity CSVs, applies normalization and data-quality filtering, builds the
// dimensional model and daily value rollups, and writes the processed tables
// plus the metrics and DQ reports.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"finetl/internal/config"
	"finetl/internal/metrics"
	"finetl/internal/metrics/prompush"
	"finetl/internal/transform"
)

func main() {
	var (
		cfgPath                    string
		rawDir, processedDir, logs string
		validate                   bool
	)
	flag.StringVar(&cfgPath, "config", "", "run config JSON path (optional)")
	flag.StringVar(&rawDir, "raw", "", "override the raw input directory")
	flag.StringVar(&processedDir, "processed", "", "override the processed output directory")
	flag.StringVar(&logs, "logs", "", "override the logs directory")
	flag.BoolVar(&validate, "validate", false, "validate the configuration and exit")
	verbose := flag.Bool("v", false, "enable verbose logs")
	flag.Parse()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fatalf("%v", err)
	}
	if rawDir != "" {
		cfg.RawDir = rawDir
	}
	if processedDir != "" {
		cfg.ProcessedDir = processedDir
	}
	if logs != "" {
		cfg.LogsDir = logs
	}
	issues := config.Validate(cfg)
	for _, iss := range issues {
		fmt.Fprintf(os.Stderr, "%s: %s: %s\n", iss.Severity, iss.Path, iss.Message)
	}
	if config.HasError(issues) {
		fatalf("configuration is invalid")
	}
	if validate {
		log.Printf("configuration is valid")
		return
	}

	setupMetrics(cfg.Metrics, "transform_and_model", *verbose)
	defer func() {
		if err := metrics.Flush(); err != nil {
			log.Printf("metrics: flush error: %v", err)
		}
	}()

	start := time.Now()
	rep, err := transform.Run(transform.Config{
		RawDir:       cfg.RawDir,
		ProcessedDir: cfg.ProcessedDir,
		LogsDir:      cfg.LogsDir,
	})
	if err != nil {
		log.Fatalf("transform: %v", err)
	}

	rep.Summary(os.Stdout)
	log.Printf("transform complete in %s, outputs written to %s",
		time.Since(start).Truncate(time.Millisecond), cfg.ProcessedDir)
}

// setupMetrics installs the configured metrics backend; the nop backend
// remains when metrics are disabled or misconfigured.
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
