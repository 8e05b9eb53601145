// Package storage persists run artifacts: checkpoint CSVs, final site
// lists, merged mappings and discrepancy reports. Artifacts go to a local
// directory or to an S3-compatible bucket behind the same interface.
package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
)

// Config contains storage configuration
type Config struct {
	Backend  string // "local" (default) or "s3"
	BasePath string // base directory for the local backend
	S3       S3Config
}

// DefaultConfig returns default storage configuration
func DefaultConfig() Config {
	return Config{
		Backend:  "local",
		BasePath: "./artifacts",
	}
}

// Store saves a named artifact and returns where it was written (a file
// path or an object key).
type Store interface {
	Save(ctx context.Context, name string, data []byte) (string, error)
}

// New creates the Store selected by the configuration.
func New(ctx context.Context, config Config) (Store, error) {
	switch config.Backend {
	case "", "local":
		return NewLocal(config.BasePath)
	case "s3":
		return NewS3Storage(ctx, config.S3)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", config.Backend)
	}
}

// Local writes artifacts under a base directory.
type Local struct {
	basePath string
}

// NewLocal creates a Local store, creating the base directory if needed.
func NewLocal(basePath string) (*Local, error) {
	if basePath == "" {
		basePath = DefaultConfig().BasePath
	}
	if err := os.MkdirAll(basePath, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base storage directory: %w", err)
	}

	return &Local{basePath: basePath}, nil
}

// Save writes the artifact under the base directory, creating intermediate
// directories as needed. Saving the same name again overwrites, which is
// what checkpoints want.
func (l *Local) Save(_ context.Context, name string, data []byte) (string, error) {
	path := filepath.Join(l.basePath, filepath.FromSlash(name))

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create artifact directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write artifact %s: %w", name, err)
	}

	return path, nil
}
