package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/jward/libreveal"
	"github.com/jward/libreveal/internal/config"
	"github.com/jward/libreveal/internal/feed"
	"github.com/jward/libreveal/internal/logger"
)

var (
	flagForce  bool
	flagFeed   string
	flagLocal  string
	flagOut    string
	flagMinOut string
)

var compileCmd = &cobra.Command{
	Use:   "compile",
	Short: "Fetch the signature feed and generate libreveal.js",
	Long:  "Fetches the remote feed, merges local extensions and writes libreveal.js and libreveal.min.js. Nothing is compiled when neither feed changed since the last run, unless --force is given.",
	Args:  cobra.NoArgs,
	RunE:  runCompile,
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Compile, then recompile whenever the local extensions or config change",
	Args:  cobra.NoArgs,
	RunE:  runWatch,
}

func init() {
	for _, cmd := range []*cobra.Command{compileCmd, watchCmd} {
		cmd.Flags().BoolVar(&flagForce, "force", false, "recompile even if the feeds are unchanged")
		cmd.Flags().StringVar(&flagFeed, "feed", "", "remote feed source, any go-getter URL or path")
		cmd.Flags().StringVar(&flagLocal, "local", "", "local extensions feed (.json or .risor)")
		cmd.Flags().StringVar(&flagOut, "out", "", "output path of the detection script")
		cmd.Flags().StringVar(&flagMinOut, "min-out", "", "output path of the minified script")
	}
}

// applyFeedFlags overrides configuration with the compile flags that were set.
func applyFeedFlags(c *config.Config) {
	if flagFeed != "" {
		c.Feed.URL = flagFeed
	}
	if flagLocal != "" {
		c.Feed.Local = flagLocal
	}
	if flagOut != "" {
		c.Output.Script = flagOut
	}
	if flagMinOut != "" {
		c.Output.Minified = flagMinOut
	}
}

func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}

func runCompile(cmd *cobra.Command, args []string) error {
	applyFeedFlags(cfg)

	engine, err := newEngine(cfg, flagForce)
	if err != nil {
		return outputError("compile", err)
	}
	defer engine.Close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	res, err := engine.Run(ctx)
	return outputStatus(res, err)
}

func runWatch(cmd *cobra.Command, args []string) error {
	applyFeedFlags(cfg)

	engine, err := newEngine(cfg, flagForce)
	if err != nil {
		return outputError("watch", err)
	}
	defer func() { engine.Close() }()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	// A failed first run is reported but does not stop the watch.
	res, err := engine.Run(ctx)
	_ = outputStatus(res, err)

	w, err := feed.NewWatcher([]string{cfg.Feed.Local, cfg.File}, cfg.Watch.Debounce, feed.WithLogger(cliLogger))
	if err != nil {
		return outputError("watch", err)
	}
	defer w.Close()

	cliLogger.Infow("watching for changes",
		logger.FieldPath, cfg.Feed.Local,
		"config", cfg.File,
	)

	return w.Run(ctx, func(ctx context.Context) {
		engine = reloadEngine(engine)
		res, err := engine.Recompile(ctx)
		_ = outputStatus(res, err)
	})
}

// reloadEngine rebuilds the engine from a freshly loaded configuration. The
// current engine is kept when the new configuration cannot be used.
func reloadEngine(current *libreveal.Engine) *libreveal.Engine {
	c, err := config.Load(flagConfig)
	if err != nil {
		cliLogger.Warnw("keeping previous configuration", logger.FieldError, err)
		return current
	}
	applyGlobalFlags(rootCmd, c)
	applyFeedFlags(c)

	next, err := newEngine(c, true)
	if err != nil {
		cliLogger.Warnw("keeping previous configuration", logger.FieldError, err)
		return current
	}
	current.Close()
	cfg = c
	return next
}
