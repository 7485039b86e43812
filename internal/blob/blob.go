// Package blob implements the raw-file ingestion stage: it copies every raw
// CSV into a blob store under a date-partitioned prefix and records one
// checksum'd log entry per file. The store is a dumb byte sink; all
// interpretation of the files belongs to the transform stage.
package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Store is the minimal blob sink interface. Put uploads the local file to
// the given store path, replacing any existing object.
type Store interface {
	Put(ctx context.Context, localPath, storePath string) error
}

// LocalStore copies files under a root directory. It is the default sink for
// development runs.
type LocalStore struct {
	Root string
}

func (s LocalStore) Put(ctx context.Context, localPath, storePath string) error {
	dst := filepath.Join(s.Root, filepath.FromSlash(storePath))
	if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
		return err
	}
	in, err := os.Open(localPath)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

// MinioStore uploads to an S3-compatible object store.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// MinioConfig carries the connection settings for an S3-compatible store.
type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Secure    bool
}

// NewMinioStore connects to the object store. The bucket must already exist;
// bucket provisioning belongs to deployment, not the pipeline.
func NewMinioStore(cfg MinioConfig) (*MinioStore, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("blob: minio endpoint and bucket are required")
	}
	c, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.Secure,
	})
	if err != nil {
		return nil, fmt.Errorf("blob: minio client: %w", err)
	}
	return &MinioStore{client: c, bucket: cfg.Bucket}, nil
}

func (s *MinioStore) Put(ctx context.Context, localPath, storePath string) error {
	_, err := s.client.FPutObject(ctx, s.bucket, storePath, localPath, minio.PutObjectOptions{
		ContentType: "text/csv",
	})
	return err
}
