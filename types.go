package libreveal

import (
	"context"
	"time"

	"github.com/jward/libreveal/internal/signature"
	"github.com/jward/libreveal/internal/store"
)

// Public aliases for internal types that appear in the Engine API.

type Store = store.Store
type Run = store.Run
type Report = signature.Report
type Document = signature.Document
type ExtractorMap = signature.ExtractorMap

// Fetcher retrieves the remote signature feed.
type Fetcher interface {
	Fetch(ctx context.Context) ([]byte, error)
}

// LocalSource retrieves the optional local-extensions feed. ok is false when
// there is none.
type LocalSource interface {
	Load(ctx context.Context) (data []byte, ok bool, err error)
}

// Persister writes an artifact.
type Persister interface {
	Persist(ctx context.Context, path string, data []byte) error
}

// Minifier compacts a generated script.
type Minifier interface {
	Minify(ctx context.Context, src string) (string, error)
}

// Status is the outcome of a driver run.
type Status string

const (
	StatusSuccess  Status = store.StatusSuccess
	StatusNoUpdate Status = store.StatusNoUpdate
	StatusError    Status = store.StatusError
)

// Result describes one driver run.
type Result struct {
	RunID       int64            `json:"run_id,omitempty"`
	Status      Status           `json:"status"`
	Libraries   int              `json:"libraries"`
	Expressions int              `json:"expressions"`
	Report      signature.Report `json:"report"`
	Digest      string           `json:"digest,omitempty"`
	Script      string           `json:"script,omitempty"`
	Minified    string           `json:"minified,omitempty"`
	Warnings    []string         `json:"warnings,omitempty"`
	Error       string           `json:"error,omitempty"`
	Duration    time.Duration    `json:"-"`
}

// Paths names the files an Engine writes.
type Paths struct {
	// Script is the generated detection script. Required.
	Script string
	// Minified is the compacted script. Empty disables minification.
	Minified string
	// FeedCache receives a copy of the fetched remote feed. Empty disables it.
	FeedCache string
}

// DefaultPaths are the artifact locations used when WithPaths is not given.
var DefaultPaths = Paths{
	Script:   "libreveal.js",
	Minified: "libreveal.min.js",
}
