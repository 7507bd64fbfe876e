package main

import (
	"github.com/spf13/cobra"

	"github.com/jward/libreveal"
)

var expandCmd = &cobra.Command{
	Use:   "expand EXPR",
	Short: "Show the atomic expressions and guards compiled from one extractor",
	Long:  "Splits a raw extractors.func expression the way compile does and prints the typeof guard for each result. Constructor expressions print nothing.",
	Args:  cobra.ExactArgs(1),
	RunE:  runExpand,
}

func runExpand(cmd *cobra.Command, args []string) error {
	expansions := libreveal.Expand(args[0])

	out := make([]CLIExpansion, 0, len(expansions))
	for _, x := range expansions {
		out = append(out, CLIExpansion{Expression: x.Expression, Guard: x.Guard})
	}
	return outputResult(CLIResult{Command: "expand", Results: out})
}
