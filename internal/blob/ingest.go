package blob

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// IngestLogFile is appended to on every run; unlike the transform reports it
// keeps history across runs.
const IngestLogFile = "ingestion_log.csv"

// uploadWorkers bounds concurrent Puts against the store.
const uploadWorkers = 4

// LogEntry is one file's ingestion outcome.
type LogEntry struct {
	RunID    string
	FileName string
	BlobPath string
	Bytes    int64
	Checksum string // xxh3-128 of the file content
	Status   string // "success" or "failed"
	Error    string
	TSUTC    time.Time
}

// Ingest uploads every *.csv under rawDir to the store under a
// raw/YYYY/MM/DD prefix and returns one log entry per file. An individual
// upload failure marks that entry failed; it does not abort the run. The
// returned entries are ordered by file name regardless of upload order.
func Ingest(ctx context.Context, store Store, rawDir string) ([]LogEntry, error) {
	names, err := listCSVs(rawDir)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	now := time.Now().UTC()
	prefix := fmt.Sprintf("raw/%04d/%02d/%02d", now.Year(), now.Month(), now.Day())

	entries := make([]LogEntry, len(names))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(uploadWorkers)
	for i, name := range names {
		g.Go(func() error {
			local := filepath.Join(rawDir, name)
			e := LogEntry{
				RunID:    runID,
				FileName: name,
				BlobPath: prefix + "/" + name,
				Status:   "success",
			}
			size, sum, err := checksumFile(local)
			e.Bytes = size
			e.Checksum = sum
			if err == nil {
				err = store.Put(ctx, local, e.BlobPath)
			}
			if err != nil {
				e.Status = "failed"
				e.Error = err.Error()
			}
			e.TSUTC = time.Now().UTC()
			entries[i] = e
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

func listCSVs(dir string) ([]string, error) {
	items, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("list raw dir: %w", err)
	}
	var names []string
	for _, it := range items {
		if it.IsDir() || filepath.Ext(it.Name()) != ".csv" {
			continue
		}
		names = append(names, it.Name())
	}
	sort.Strings(names)
	return names, nil
}

// checksumFile streams the file through xxh3 and returns its size and the
// 128-bit digest in hex. xxh3 is a content fingerprint for the ingestion
// log, not a cryptographic guarantee.
func checksumFile(path string) (int64, string, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, "", err
	}
	defer f.Close()
	h := xxh3.New()
	n, err := io.Copy(h, f)
	if err != nil {
		return n, "", err
	}
	sum := h.Sum128()
	return n, fmt.Sprintf("%016x%016x", sum.Hi, sum.Lo), nil
}

// AppendLog appends the entries to the ingestion log at path, writing the
// header first when the file is new.
func AppendLog(path string, entries []LogEntry) error {
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
		if err := w.Write([]string{"run_id", "file_name", "blob_path", "bytes", "xxh3", "status", "error", "ts_utc"}); err != nil {
			f.Close()
			return err
		}
	}
	for _, e := range entries {
		row := []string{
			e.RunID,
			e.FileName,
			e.BlobPath,
			strconv.FormatInt(e.Bytes, 10),
			e.Checksum,
			e.Status,
			e.Error,
			e.TSUTC.Format(time.RFC3339),
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
