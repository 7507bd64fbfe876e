package feed

import (
	"context"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/jward/libreveal/internal/logger"
)

// FilePersister writes artifacts atomically: data goes to a temporary file in
// the destination directory which is then renamed over the destination.
type FilePersister struct {
	logger *zap.SugaredLogger
}

// NewFilePersister returns a FilePersister.
func NewFilePersister(opts ...Option) *FilePersister {
	o := buildOptions("feed.persist", opts)
	return &FilePersister{logger: o.logger}
}

// Persist writes data to path, creating parent directories as needed.
func (p *FilePersister) Persist(ctx context.Context, path string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return errors.Wrapf(err, "persist %s", path)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return errors.Wrapf(err, "persist %s", path)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return errors.Wrapf(err, "persist %s: write", path)
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrapf(err, "persist %s: close", path)
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		return errors.Wrapf(err, "persist %s: chmod", path)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return errors.Wrapf(err, "persist %s: rename", path)
	}

	p.logger.Debugw("wrote artifact", logger.FieldPath, path, logger.FieldBytes, len(data))
	return nil
}

// Exists reports whether path names an existing regular file.
func Exists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
