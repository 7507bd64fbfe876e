package main

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/libreveal"
	"github.com/jward/libreveal/internal/config"
	"github.com/jward/libreveal/internal/store"
)

func TestValidateFormat(t *testing.T) {
	t.Parallel()
	assert.NoError(t, validateFormat("json"))
	assert.NoError(t, validateFormat("text"))
	err := validateFormat("yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "json or text")
}

func TestNewStatus_Shapes(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		res  *libreveal.Result
		err  error
		key  string
		want string
	}{
		{
			name: "success",
			res:  &libreveal.Result{Status: libreveal.StatusSuccess},
			key:  "result",
			want: "Success",
		},
		{
			name: "no update",
			res:  &libreveal.Result{Status: libreveal.StatusNoUpdate},
			key:  "result",
			want: "No update, recompilation not needed",
		},
		{
			name: "error",
			res:  &libreveal.Result{Status: libreveal.StatusError},
			err:  errors.New("libreveal: fetch feed: connection refused"),
			key:  "error",
			want: "libreveal: fetch feed: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var buf bytes.Buffer
			require.NoError(t, writeJSON(&buf, newStatus(tt.res, tt.err)))

			var got map[string]any
			require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
			assert.Equal(t, tt.want, got[tt.key])
			if tt.key == "result" {
				assert.NotContains(t, got, "error")
			} else {
				assert.NotContains(t, got, "result")
			}
		})
	}
}

func TestNewStatus_CarriesHint(t *testing.T) {
	t.Parallel()
	err := errors.WithHint(errors.New("boom"), "try again")
	status := newStatus(nil, err)
	assert.Equal(t, "try again", status.Hint)
	assert.Nil(t, status.Run)
}

func TestFormatStatusText(t *testing.T) {
	t.Parallel()
	res := &libreveal.Result{
		Status:      libreveal.StatusSuccess,
		Libraries:   3,
		Expressions: 5,
		Report:      libreveal.Report{Denied: 1, Discarded: 1},
		Script:      "libreveal.js",
		Minified:    "libreveal.min.js",
		Warnings:    []string{"write json/cache.json: disk full"},
	}

	var buf bytes.Buffer
	formatStatusText(&buf, newStatus(res, nil))
	assert.Equal(t,
		"Success: 3 libraries, 5 expressions, 2 skipped -> libreveal.js, libreveal.min.js\n"+
			"warning: write json/cache.json: disk full\n",
		buf.String())

	buf.Reset()
	formatStatusText(&buf, newStatus(&libreveal.Result{Status: libreveal.StatusNoUpdate}, nil))
	assert.Equal(t, "No update, recompilation not needed\n", buf.String())

	buf.Reset()
	formatStatusText(&buf, newStatus(nil, errors.New("offline")))
	assert.Equal(t, "Error: offline\n", buf.String())
}

func TestFormatRunsText(t *testing.T) {
	t.Parallel()
	started := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	runs := []CLIRun{
		toCLIRun(&store.Run{
			ID: 2, StartedAt: started, FinishedAt: started.Add(1500 * time.Millisecond),
			Status: store.StatusError, Error: "offline",
		}),
		toCLIRun(&store.Run{
			ID: 1, StartedAt: started, FinishedAt: started.Add(time.Second),
			Status: store.StatusSuccess, Libraries: 4, Expressions: 9, Warnings: []string{"w"},
		}),
	}

	var buf bytes.Buffer
	require.NoError(t, outputResultText(&buf, CLIResult{Command: "history", Results: runs}))
	out := buf.String()
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "offline")
	assert.Contains(t, out, "1.5s")
	assert.Contains(t, out, "1 warning(s)")
}

func TestFormatExpansionsText(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.NoError(t, outputResultText(&buf, CLIResult{
		Command: "expand",
		Results: []CLIExpansion{{Expression: "a.v", Guard: `(typeof a !== "undefined")`}},
	}))
	assert.Equal(t, "a.v\n\t(typeof a !== \"undefined\")\n", buf.String())
}

func TestOutputResultText_Unsupported(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	require.Error(t, outputResultText(&buf, CLIResult{Results: 42}))
}

func TestApplyFeedFlags(t *testing.T) {
	c := &config.Config{
		Feed:   config.FeedConfig{URL: "https://example.com/feed.json", Local: "local.json"},
		Output: config.OutputConfig{Script: "libreveal.js", Minified: "libreveal.min.js"},
	}

	flagFeed, flagOut = "file.json", "dist/out.js"
	t.Cleanup(func() { flagFeed, flagOut = "", "" })

	applyFeedFlags(c)
	assert.Equal(t, "file.json", c.Feed.URL)
	assert.Equal(t, "local.json", c.Feed.Local)
	assert.Equal(t, "dist/out.js", c.Output.Script)
	assert.Equal(t, "libreveal.min.js", c.Output.Minified)
}
