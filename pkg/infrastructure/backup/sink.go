package backup

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
)

// Sink stores an exported backup bundle under a file name
type Sink interface {
	Put(ctx context.Context, name string, data []byte) error
	Describe() string
}

// DirSink writes bundles into a local directory
type DirSink struct {
	dir string
}

func NewDirSink(dir string) (*DirSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("backup directory cannot be empty")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create backup directory %s: %w", dir, err)
	}
	return &DirSink{dir: dir}, nil
}

func (s *DirSink) Put(_ context.Context, name string, data []byte) error {
	path := filepath.Join(s.dir, filepath.Base(name))
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("failed to write backup %s: %w", path, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("failed to move backup into place: %w", err)
	}
	return nil
}

func (s *DirSink) Describe() string {
	return "dir:" + s.dir
}

type MinioConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// MinioSink uploads bundles to an S3 compatible bucket
type MinioSink struct {
	client *minio.Client
	bucket string
}

// NewMinioSink connects to the endpoint and creates the bucket when missing
func NewMinioSink(ctx context.Context, cfg MinioConfig) (*MinioSink, error) {
	if cfg.Endpoint == "" || cfg.Bucket == "" {
		return nil, fmt.Errorf("minio endpoint and bucket are required")
	}
	client, err := minio.New(cfg.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure: cfg.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create minio client: %w", err)
	}

	exists, err := client.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("failed to check bucket %s: %w", cfg.Bucket, err)
	}
	if !exists {
		if err := client.MakeBucket(ctx, cfg.Bucket, minio.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("failed to create bucket %s: %w", cfg.Bucket, err)
		}
	}
	return &MinioSink{client: client, bucket: cfg.Bucket}, nil
}

func (s *MinioSink) Put(ctx context.Context, name string, data []byte) error {
	_, err := s.client.PutObject(ctx, s.bucket, name, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: "application/json",
	})
	if err != nil {
		return fmt.Errorf("failed to upload backup %s: %w", name, err)
	}
	return nil
}

func (s *MinioSink) Describe() string {
	return "minio:" + s.bucket
}
