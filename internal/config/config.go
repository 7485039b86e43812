// Package config defines the JSON-serializable run configuration shared by
// the pipeline binaries. A config file is optional: zero values fall back to
// the defaults below, and a handful of environment variables (loaded from a
// .env file when present) override the file for credentials and endpoints.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config is the top-level run configuration.
type Config struct {
	// RawDir holds the source CSVs produced by the mock generator.
	RawDir string `json:"raw_dir"`

	// ProcessedDir receives the transform stage's output tables.
	ProcessedDir string `json:"processed_dir"`

	// LogsDir receives reports and run logs.
	LogsDir string `json:"logs_dir"`

	Blob      Blob      `json:"blob"`
	Warehouse Warehouse `json:"warehouse"`
	Metrics   Metrics   `json:"metrics"`
}

// Blob configures the ingest stage's sink.
type Blob struct {
	// Kind selects the store implementation: "local" or "minio".
	Kind string `json:"kind"`

	// Root is the target directory for the "local" kind.
	Root string `json:"root"`

	// Endpoint, Bucket and credentials apply to the "minio" kind. The
	// credentials are normally supplied via MINIO_ACCESS_KEY /
	// MINIO_SECRET_KEY rather than the config file.
	Endpoint  string `json:"endpoint"`
	Bucket    string `json:"bucket"`
	AccessKey string `json:"access_key"`
	SecretKey string `json:"secret_key"`
	Secure    bool   `json:"secure"`
}

// Warehouse configures the load stage's backend.
type Warehouse struct {
	// Kind selects the backend: "sqlite" or "postgres".
	Kind string `json:"kind"`

	// DSN is the backend connection string.
	DSN string `json:"dsn"`
}

// Metrics configures the optional metrics backend.
type Metrics struct {
	// Backend is "pushgateway" or "none".
	Backend string `json:"backend"`

	// PushgatewayURL is the Pushgateway base URL.
	PushgatewayURL string `json:"pushgateway_url"`

	// Job is the Pushgateway job grouping; defaults per binary.
	Job string `json:"job"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		RawDir:       "data/raw",
		ProcessedDir: "data/processed",
		LogsDir:      "logs",
		Blob:         Blob{Kind: "local", Root: "blobstore"},
		Warehouse:    Warehouse{Kind: "sqlite", DSN: "file:warehouse.db"},
		Metrics:      Metrics{Backend: "none", PushgatewayURL: "http://localhost:9091"},
	}
}

// Load builds the effective configuration: defaults, then the JSON file at
// path (when non-empty), then environment overrides. A .env file in the
// working directory is loaded first when present.
func Load(path string) (Config, error) {
	_ = godotenv.Load()

	cfg := Default()
	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return cfg, fmt.Errorf("open config: %w", err)
		}
		defer f.Close()
		if err := json.NewDecoder(f).Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode config: %w", err)
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	setString(&c.RawDir, "FINETL_RAW_DIR")
	setString(&c.ProcessedDir, "FINETL_PROCESSED_DIR")
	setString(&c.LogsDir, "FINETL_LOGS_DIR")
	setString(&c.Blob.Kind, "BLOB_KIND")
	setString(&c.Blob.Root, "BLOB_ROOT")
	setString(&c.Blob.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Blob.Bucket, "MINIO_BUCKET")
	setString(&c.Blob.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Blob.SecretKey, "MINIO_SECRET_KEY")
	if v, ok := os.LookupEnv("MINIO_SECURE"); ok {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Blob.Secure = b
		}
	}
	setString(&c.Warehouse.Kind, "WAREHOUSE_KIND")
	setString(&c.Warehouse.DSN, "WAREHOUSE_DSN")
	setString(&c.Metrics.Backend, "METRICS_BACKEND")
	setString(&c.Metrics.PushgatewayURL, "PUSHGATEWAY_URL")
}

func setString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}
