// Package feed connects the compiler to the outside world: it fetches the
// remote signature feed, loads local extensions, writes artifacts and
// watches feed files for changes.
package feed

import (
	"io/fs"

	"go.uber.org/zap"

	"github.com/jward/libreveal/internal/logger"
)

// Option configures the types in this package.
type Option func(*options)

type options struct {
	logger *zap.SugaredLogger
	fsys   fs.FS
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(o *options) {
		o.logger = l
	}
}

// WithFS makes Local read its feed from fsys instead of the host
// filesystem, for example an embedded set of extensions. Paths are then
// slash-separated and relative to the root of fsys.
func WithFS(fsys fs.FS) Option {
	return func(o *options) {
		o.fsys = fsys
	}
}

func buildOptions(component string, opts []Option) options {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	o.logger = logger.Component(o.logger, component)
	return o
}
