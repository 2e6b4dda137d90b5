package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/lk2023060901/osint-analysis-backend/internal/pkg/logger"
)

// LocalSink writes documents into a directory
type LocalSink struct {
	dir    string
	logger *logger.Logger
}

// NewLocalSink creates the directory if needed
func NewLocalSink(dir string, log *logger.Logger) (*LocalSink, error) {
	if dir == "" {
		return nil, fmt.Errorf("export: local dir is required")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("export: create dir %s: %w", dir, err)
	}
	if log == nil {
		log = logger.L()
	}
	return &LocalSink{dir: dir, logger: log.Named("export")}, nil
}

// Write stores data atomically via a temp file and rename
func (s *LocalSink) Write(ctx context.Context, name string, data []byte) (*Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if name == "" || filepath.Base(name) != name {
		return nil, fmt.Errorf("export: invalid file name %q", name)
	}

	tmp, err := os.CreateTemp(s.dir, ".export-*")
	if err != nil {
		return nil, fmt.Errorf("export: create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return nil, fmt.Errorf("export: write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("export: close %s: %w", name, err)
	}

	path := filepath.Join(s.dir, name)
	if err := os.Rename(tmp.Name(), path); err != nil {
		return nil, fmt.Errorf("export: rename to %s: %w", path, err)
	}

	s.logger.WithContext(ctx).Info("export written", zap.String("path", path), zap.Int("bytes", len(data)))
	return &Location{Backend: BackendLocal, Name: name, Path: path, Size: int64(len(data))}, nil
}
