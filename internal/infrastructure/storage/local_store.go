// Package storage saves uploaded files to the local disk or to S3.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/retailpos/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// FileStore saves a file under a fixed name and returns the URL it is served from.
// Saving under an existing name replaces the previous file. Deleting a name
// that does not exist is not an error.
type FileStore interface {
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
	Delete(ctx context.Context, name string) error
}

// LocalStore writes files into a directory served by the HTTP server
type LocalStore struct {
	dir     string
	baseURL string
	logger  *zap.Logger
}

// NewLocalStore creates the upload directory if needed
func NewLocalStore(dir, baseURL string, logger *zap.Logger) (*LocalStore, error) {
	if dir == "" {
		return nil, errors.New("storage directory is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimSuffix(baseURL, "/"),
		logger:  logger,
	}, nil
}

func validName(name string) error {
	if name == "" || name != filepath.Base(name) || strings.HasPrefix(name, ".") {
		return fmt.Errorf("invalid file name %q", name)
	}
	return nil
}

// Put writes to a temp file and renames it so readers never see a partial file
func (s *LocalStore) Put(_ context.Context, name string, data []byte, _ string) (string, error) {
	if err := validName(name); err != nil {
		return "", err
	}

	tmp, err := os.CreateTemp(s.dir, ".upload-*")
	if err != nil {
		return "", fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() { _ = os.Remove(tmpName) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to write upload: %w", err)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return "", fmt.Errorf("failed to set upload permissions: %w", err)
	}
	if err := os.Rename(tmpName, filepath.Join(s.dir, name)); err != nil {
		return "", fmt.Errorf("failed to store upload: %w", err)
	}

	s.logger.Info("Stored file", zap.String("name", name), zap.Int("bytes", len(data)))
	return s.baseURL + "/" + name, nil
}

// Delete removes name from the upload directory
func (s *LocalStore) Delete(_ context.Context, name string) error {
	if err := validName(name); err != nil {
		return err
	}
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

// Dir returns the directory files are written to
func (s *LocalStore) Dir() string {
	return s.dir
}

var _ FileStore = (*LocalStore)(nil)

// New returns the store selected by storage.driver
func New(ctx context.Context, cfg *config.StorageConfig, logger *zap.Logger) (FileStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.LocalDir, cfg.PublicBaseURL, logger)
	case "s3":
		return NewS3Store(ctx, cfg, WithLogger(logger))
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}
}
