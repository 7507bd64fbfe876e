package main

import (
	"os"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/jward/libreveal/internal/store"
)

var flagLimit int

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded compilation runs, newest first",
	Args:  cobra.NoArgs,
	RunE:  runHistory,
}

func init() {
	historyCmd.Flags().IntVar(&flagLimit, "limit", 20, "maximum number of runs (0 for all)")
}

// openStore opens the run-state database, which must already exist.
func openStore(path string) (*store.Store, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, errors.WithHint(errors.Newf("database not found: %s", path),
			"run 'libreveal compile' first")
	}
	s, err := store.NewStore(path)
	if err != nil {
		return nil, err
	}
	if err := s.Migrate(); err != nil {
		s.Close()
		return nil, err
	}
	return s, nil
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := openStore(cfg.Store.Path)
	if err != nil {
		return outputError("history", err)
	}
	defer s.Close()

	runs, err := s.RecentRuns(flagLimit)
	if err != nil {
		return outputError("history", err)
	}

	out := make([]CLIRun, 0, len(runs))
	for _, r := range runs {
		out = append(out, toCLIRun(r))
	}
	return outputResult(CLIResult{Command: "history", Results: out})
}
