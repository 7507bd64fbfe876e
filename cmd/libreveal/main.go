package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jward/libreveal"
	"github.com/jward/libreveal/internal/config"
	"github.com/jward/libreveal/internal/feed"
	"github.com/jward/libreveal/internal/logger"
)

var (
	flagConfig  string
	flagDB      string
	flagFormat  string
	flagVerbose int
	flagLogJSON bool
)

// errorHandled is set by outputError so main() doesn't double-print.
var errorHandled bool

// Set by the root command before any subcommand runs.
var (
	cfg       *config.Config
	cliLogger *zap.SugaredLogger
)

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		if !errorHandled {
			fmt.Fprintf(os.Stderr, "Error: %s\n", err)
			if hint := errors.FlattenHints(err); hint != "" {
				fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
			}
		}
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "libreveal",
	Short:         "Compile RetireJS signatures into a library detection script",
	Long:          "libreveal fetches the RetireJS signature feed, merges local extensions and compiles them into libreveal.js, a script that logs which JavaScript libraries a page has loaded.",
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := validateFormat(flagFormat); err != nil {
			return err
		}
		return setup(cmd)
	},
	// No Run; prints help by default.
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "config file (default: ./libreveal.toml if present)")
	rootCmd.PersistentFlags().StringVar(&flagDB, "db", "", "run-state database path (default: .libreveal/state.db)")
	rootCmd.PersistentFlags().StringVar(&flagFormat, "format", "json", "output format: json|text")
	rootCmd.PersistentFlags().CountVarP(&flagVerbose, "verbose", "v", "log progress to stderr (-vv for debug)")
	rootCmd.PersistentFlags().BoolVar(&flagLogJSON, "log-json", false, "write logs as JSON")

	rootCmd.AddCommand(compileCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(expandCmd)
}

// setup loads configuration, applies global flag overrides and builds the
// logger.
func setup(cmd *cobra.Command) error {
	c, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	applyGlobalFlags(cmd, c)

	l, err := logger.New(logger.Options{JSON: c.Log.JSON, Verbosity: c.Log.Verbosity})
	if err != nil {
		return errors.Wrap(err, "creating logger")
	}
	cfg, cliLogger = c, l
	return nil
}

func applyGlobalFlags(cmd *cobra.Command, c *config.Config) {
	if flagDB != "" {
		c.Store.Path = flagDB
	}
	if cmd.Flags().Changed("verbose") {
		c.Log.Verbosity = flagVerbose
	}
	if cmd.Flags().Changed("log-json") {
		c.Log.JSON = flagLogJSON
	}
}

// newEngine builds an Engine from the configuration.
func newEngine(c *config.Config, force bool) (*libreveal.Engine, error) {
	if err := os.MkdirAll(filepath.Dir(c.Store.Path), 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating %s", filepath.Dir(c.Store.Path))
	}

	engine, err := libreveal.New(c.Store.Path,
		feed.NewGetter(c.Feed.URL, feed.WithLogger(cliLogger)),
		libreveal.WithLogger(cliLogger),
		libreveal.WithLocalSource(feed.NewLocal(c.Feed.Local, feed.WithLogger(cliLogger))),
		libreveal.WithPaths(libreveal.Paths{
			Script:    c.Output.Script,
			Minified:  c.Output.Minified,
			FeedCache: c.Feed.Cache,
		}),
		libreveal.WithForce(force),
	)
	if err != nil {
		return nil, errors.Wrap(err, "creating engine")
	}
	return engine, nil
}
