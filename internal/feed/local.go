package feed

import (
	"context"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/jward/libreveal/internal/logger"
	"github.com/jward/libreveal/internal/runtime"
)

// Local loads the optional local-extensions feed. A ".risor" path is run as
// an extension script; anything else is read as JSON.
type Local struct {
	path   string
	fsys   fs.FS
	logger *zap.SugaredLogger
}

// NewLocal returns a Local for path. An empty path disables local extensions.
func NewLocal(path string, opts ...Option) *Local {
	o := buildOptions("feed.local", opts)
	return &Local{path: path, fsys: o.fsys, logger: o.logger}
}

// Path returns the configured path.
func (l *Local) Path() string {
	return l.path
}

// Load returns the feed bytes. ok is false when no local feed is configured
// or the file does not exist; neither is an error.
func (l *Local) Load(ctx context.Context) (data []byte, ok bool, err error) {
	if l.path == "" {
		return nil, false, nil
	}
	if err := l.stat(); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.logger.Debugw("no local extensions", logger.FieldPath, l.path)
			return nil, false, nil
		}
		return nil, false, errors.Wrapf(err, "local feed %s", l.path)
	}

	if strings.EqualFold(filepath.Ext(l.path), runtime.ScriptExtension) {
		data, err = l.runScript(ctx)
	} else {
		data, err = l.read()
	}
	if err != nil {
		return nil, false, errors.Wrapf(err, "local feed %s", l.path)
	}

	l.logger.Infow("loaded local extensions", logger.FieldPath, l.path, logger.FieldBytes, len(data))
	return data, true, nil
}

// fsPath is the path as an fs.FS name.
func (l *Local) fsPath() string {
	return strings.TrimPrefix(path.Clean(filepath.ToSlash(l.path)), "/")
}

func (l *Local) stat() error {
	if l.fsys != nil {
		_, err := fs.Stat(l.fsys, l.fsPath())
		return err
	}
	_, err := os.Stat(l.path)
	return err
}

func (l *Local) read() ([]byte, error) {
	if l.fsys != nil {
		return fs.ReadFile(l.fsys, l.fsPath())
	}
	return os.ReadFile(l.path)
}

func (l *Local) runScript(ctx context.Context) ([]byte, error) {
	if l.fsys != nil {
		rt := runtime.NewRuntime("", runtime.WithRuntimeFS(l.fsys), runtime.WithLogger(l.logger))
		return rt.SignatureDocument(ctx, l.fsPath())
	}
	rt := runtime.NewRuntime(filepath.Dir(l.path), runtime.WithLogger(l.logger))
	return rt.SignatureDocument(ctx, filepath.Base(l.path))
}
