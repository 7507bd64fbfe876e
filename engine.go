package libreveal

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/jward/libreveal/internal/feed"
	"github.com/jward/libreveal/internal/logger"
	"github.com/jward/libreveal/internal/script"
	"github.com/jward/libreveal/internal/signature"
	"github.com/jward/libreveal/internal/store"
)

// ErrFeedUnavailable marks errors caused by a remote feed that could not be
// fetched or parsed. No artifact is written when it occurs.
var ErrFeedUnavailable = errors.New("signature feed unavailable")

// Engine drives compilation runs: fetch, change detection, compile, write
// and record.
type Engine struct {
	store     *store.Store
	logger    *zap.SugaredLogger
	fetcher   Fetcher
	local     LocalSource
	persister Persister
	minifier  Minifier
	paths     Paths
	force     bool
	now       func() time.Time
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the Engine's logger. The default discards everything.
func WithLogger(l *zap.SugaredLogger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithLocalSource adds a local-extensions feed, compiled after the remote one.
func WithLocalSource(src LocalSource) Option {
	return func(e *Engine) {
		e.local = src
	}
}

// WithPersister replaces the file writer used for artifacts.
func WithPersister(p Persister) Option {
	return func(e *Engine) {
		e.persister = p
	}
}

// WithMinifier replaces the script minifier.
func WithMinifier(m Minifier) Option {
	return func(e *Engine) {
		e.minifier = m
	}
}

// WithPaths sets the artifact locations.
func WithPaths(p Paths) Option {
	return func(e *Engine) {
		e.paths = p
	}
}

// WithForce makes Run recompile even when the feeds are unchanged.
func WithForce(force bool) Option {
	return func(e *Engine) {
		e.force = force
	}
}

// New creates an Engine that records its runs in a SQLite database at dbPath
// and reads the remote feed from fetcher.
func New(dbPath string, fetcher Fetcher, opts ...Option) (*Engine, error) {
	if fetcher == nil {
		return nil, errors.New("libreveal: nil fetcher")
	}

	s, err := store.NewStore(dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "libreveal: create store")
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, errors.Wrap(err, "libreveal: migrate")
	}

	e := &Engine{
		store:   s,
		fetcher: fetcher,
		paths:   DefaultPaths,
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}

	e.logger = logger.Component(e.logger, "engine")
	if e.persister == nil {
		e.persister = feed.NewFilePersister(feed.WithLogger(e.logger))
	}
	if e.minifier == nil {
		e.minifier = script.NewMinifier(e.logger)
	}
	if e.paths.Script == "" {
		s.Close()
		return nil, errors.New("libreveal: script path is empty")
	}

	return e, nil
}

// Close releases the Engine's database resources.
func (e *Engine) Close() error {
	return e.store.Close()
}

// Store returns the underlying Store for direct access.
func (e *Engine) Store() *Store {
	return e.store
}

// Paths returns the artifact locations.
func (e *Engine) Paths() Paths {
	return e.paths
}

// Run performs one compilation run. It skips compilation, reporting
// StatusNoUpdate, when the feeds match the last successful run and both
// artifacts exist, unless the Engine was created WithForce.
//
// The returned error is non-nil only for StatusError, which happens when the
// remote feed cannot be fetched or parsed. Failures to write artifacts are
// reported in Result.Warnings.
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	return e.run(ctx, e.force)
}

// Recompile performs a run that never skips compilation.
func (e *Engine) Recompile(ctx context.Context) (*Result, error) {
	return e.run(ctx, true)
}

// History returns up to limit recorded runs, newest first.
func (e *Engine) History(limit int) ([]*Run, error) {
	runs, err := e.store.RecentRuns(limit)
	if err != nil {
		return nil, errors.Wrap(err, "libreveal: history")
	}
	return runs, nil
}

func (e *Engine) run(ctx context.Context, force bool) (*Result, error) {
	started := e.now()
	res := &Result{Status: StatusSuccess}

	remote, err := e.fetcher.Fetch(ctx)
	if err != nil {
		return e.fail(res, started, feedError(errors.Wrap(err, "libreveal: fetch feed")))
	}
	remoteDoc, err := signature.ParseDocument(remote)
	if err != nil {
		return e.fail(res, started, feedError(errors.Wrap(err, "libreveal: parse feed")))
	}

	docs := []signature.Document{remoteDoc}
	local, localDoc, ok := e.loadLocal(ctx)
	if ok {
		docs = append(docs, localDoc)
	}

	digest, err := feed.Digest(remote, local)
	if err != nil {
		e.logger.Warnw("cannot digest feeds; recompiling", logger.FieldError, err)
		digest = ""
	}
	res.Digest = digest

	if !force && digest != "" && e.upToDate(digest) {
		e.logger.Infow("feeds unchanged; recompilation not needed", logger.FieldDigest, digest)
		res.Status = StatusNoUpdate
		return e.finish(res, started), nil
	}

	if e.paths.FeedCache != "" {
		e.persist(ctx, res, e.paths.FeedCache, remote)
	}

	c := Compile(docs...)
	res.Libraries = c.Map.Len()
	res.Expressions = c.Map.ExpressionCount()
	res.Report = c.Report

	if e.persist(ctx, res, e.paths.Script, []byte(c.Script)) {
		res.Script = e.paths.Script
	}
	if e.paths.Minified != "" {
		minified, err := e.minifier.Minify(ctx, c.Script)
		if err != nil {
			e.warn(res, errors.Wrap(err, "minify"))
		} else if e.persist(ctx, res, e.paths.Minified, []byte(minified)) {
			res.Minified = e.paths.Minified
		}
	}

	// A digest is only remembered once every artifact is in place, so a
	// failed write is retried on the next run.
	if digest != "" && len(res.Warnings) == 0 {
		if err := e.store.SetMetadata(store.KeyFeedDigest, digest); err != nil {
			e.warn(res, errors.Wrap(err, "store feed digest"))
		}
	}

	e.logger.Infow("compiled detection script",
		logger.FieldLibraries, res.Libraries,
		logger.FieldExpressions, res.Expressions,
		logger.FieldSkipped, res.Report.Skipped(),
	)
	return e.finish(res, started), nil
}

// loadLocal returns the local feed bytes and document. A missing, unreadable
// or invalid local feed is treated as absent.
func (e *Engine) loadLocal(ctx context.Context) ([]byte, signature.Document, bool) {
	if e.local == nil {
		return nil, signature.Document{}, false
	}
	data, ok, err := e.local.Load(ctx)
	if err != nil {
		e.logger.Warnw("ignoring local extensions", logger.FieldError, err)
		return nil, signature.Document{}, false
	}
	if !ok {
		return nil, signature.Document{}, false
	}
	doc, err := signature.ParseDocument(data)
	if err != nil {
		e.logger.Warnw("ignoring invalid local extensions", logger.FieldError, err)
		return nil, signature.Document{}, false
	}
	return data, doc, true
}

func (e *Engine) upToDate(digest string) bool {
	stored, err := e.store.GetMetadata(store.KeyFeedDigest)
	if err != nil {
		e.logger.Warnw("cannot read stored digest", logger.FieldError, err)
		return false
	}
	if stored != digest {
		return false
	}
	if !feed.Exists(e.paths.Script) {
		return false
	}
	return e.paths.Minified == "" || feed.Exists(e.paths.Minified)
}

// persist writes one artifact, recording a warning instead of failing.
func (e *Engine) persist(ctx context.Context, res *Result, path string, data []byte) bool {
	if err := e.persister.Persist(ctx, path, data); err != nil {
		e.warn(res, errors.Wrapf(err, "write %s", path))
		return false
	}
	e.logger.Debugw("wrote artifact", logger.FieldPath, path, logger.FieldBytes, len(data))
	return true
}

func (e *Engine) warn(res *Result, err error) {
	e.logger.Warnw("best-effort step failed", logger.FieldError, err)
	res.Warnings = append(res.Warnings, err.Error())
}

func (e *Engine) fail(res *Result, started time.Time, err error) (*Result, error) {
	e.logger.Errorw("compilation failed", logger.FieldError, err)
	res.Status = StatusError
	res.Error = err.Error()
	return e.finish(res, started), err
}

// finish records the run and fills in its ID and duration.
func (e *Engine) finish(res *Result, started time.Time) *Result {
	finished := e.now()
	res.Duration = finished.Sub(started)

	run := &store.Run{
		StartedAt:   started,
		FinishedAt:  finished,
		Status:      string(res.Status),
		Libraries:   res.Libraries,
		Expressions: res.Expressions,
		Skipped:     res.Report.Skipped(),
		Digest:      res.Digest,
		Warnings:    res.Warnings,
		Error:       res.Error,
	}
	id, err := e.store.RecordRun(run)
	if err != nil {
		e.warn(res, errors.Wrap(err, "record run"))
	}
	res.RunID = id

	e.logger.Debugw("run finished",
		logger.FieldStatus, res.Status,
		logger.FieldDurationMS, res.Duration.Milliseconds(),
	)
	return res
}

func feedError(err error) error {
	return errors.WithHint(errors.Mark(err, ErrFeedUnavailable),
		"check feed.url and network access; no artifact was written")
}
