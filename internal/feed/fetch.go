package feed

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	getter "github.com/hashicorp/go-getter"
	"go.uber.org/zap"

	"github.com/jward/libreveal/internal/logger"
)

// Getter downloads the remote signature feed with go-getter, so any
// go-getter source works: https URLs, file paths, s3 or git sources, and
// "?checksum=" verification.
type Getter struct {
	src    string
	logger *zap.SugaredLogger
}

// NewGetter returns a Getter for src.
func NewGetter(src string, opts ...Option) *Getter {
	o := buildOptions("feed.fetch", opts)
	return &Getter{src: src, logger: o.logger}
}

// Source returns the configured go-getter source.
func (g *Getter) Source() string {
	return g.src
}

// Fetch downloads the feed and returns its bytes.
func (g *Getter) Fetch(ctx context.Context) ([]byte, error) {
	start := time.Now()

	dir, err := os.MkdirTemp("", "libreveal-feed-*")
	if err != nil {
		return nil, errors.Wrap(err, "fetch: temp dir")
	}
	defer os.RemoveAll(dir)

	pwd, err := os.Getwd()
	if err != nil {
		return nil, errors.Wrap(err, "fetch: working directory")
	}

	dst := filepath.Join(dir, "feed.json")
	client := &getter.Client{
		Ctx:  ctx,
		Src:  g.src,
		Dst:  dst,
		Pwd:  pwd,
		Mode: getter.ClientModeFile,
	}
	if err := client.Get(); err != nil {
		return nil, errors.Wrapf(err, "fetch %s", g.src)
	}

	data, err := os.ReadFile(dst)
	if err != nil {
		return nil, errors.Wrapf(err, "fetch %s: read download", g.src)
	}

	g.logger.Infow("fetched signature feed",
		logger.FieldSource, g.src,
		logger.FieldBytes, len(data),
		logger.FieldDurationMS, time.Since(start).Milliseconds(),
	)
	return data, nil
}
