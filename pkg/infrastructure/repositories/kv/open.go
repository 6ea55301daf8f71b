package kv

import (
	"context"
	"fmt"

	"github.com/vsinha/metalerp/pkg/domain/repositories"
)

// Options selects and configures a blob store driver
type Options struct {
	Driver      string
	DataDir     string
	RedisURL    string
	RedisPrefix string
	DatabaseURL string
}

// Open returns the blob store named by opts.Driver
func Open(ctx context.Context, opts Options) (repositories.BlobStore, error) {
	switch opts.Driver {
	case "", "memory":
		return NewMemoryStore(), nil
	case "file":
		return NewFileStore(opts.DataDir)
	case "redis":
		return NewRedisStore(ctx, opts.RedisURL, opts.RedisPrefix)
	case "postgres":
		return NewPostgresStore(opts.DatabaseURL)
	default:
		return nil, fmt.Errorf("unsupported store driver: %s", opts.Driver)
	}
}
