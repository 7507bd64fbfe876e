package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/jward/libreveal"
)

// formatStatusText prints a one-line summary of a run, then its warnings.
func formatStatusText(w io.Writer, status CLIStatus) {
	if status.Error != "" {
		fmt.Fprintf(w, "Error: %s\n", status.Error)
		if status.Hint != "" {
			fmt.Fprintf(w, "Hint: %s\n", status.Hint)
		}
		return
	}

	run := status.Run
	if run == nil || status.Result == msgNoUpdate {
		fmt.Fprintln(w, status.Result)
		return
	}

	var outputs []string
	for _, p := range []string{run.Script, run.Minified} {
		if p != "" {
			outputs = append(outputs, p)
		}
	}
	fmt.Fprintf(w, "%s: %d libraries, %d expressions, %d skipped",
		status.Result, run.Libraries, run.Expressions, run.Skipped)
	if len(outputs) > 0 {
		fmt.Fprintf(w, " -> %s", strings.Join(outputs, ", "))
	}
	fmt.Fprintln(w)
	for _, warning := range run.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
}

// formatRunsText formats CLIRun results as aligned columns.
func formatRunsText(w io.Writer, runs []CLIRun) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATUS\tLIBRARIES\tEXPRESSIONS\tSKIPPED\tDURATION\tDETAIL")
	for _, r := range runs {
		started := ""
		if r.StartedAt != nil {
			started = r.StartedAt.Local().Format(time.DateTime)
		}
		detail := r.Error
		if detail == "" && len(r.Warnings) > 0 {
			detail = fmt.Sprintf("%d warning(s)", len(r.Warnings))
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t%d\t%d\t%s\t%s\n",
			r.ID, started, r.Status, r.Libraries, r.Expressions, r.Skipped,
			(time.Duration(r.DurationMS) * time.Millisecond).String(), detail)
	}
	tw.Flush()
}

// formatExpansionsText prints each expression followed by its guard.
func formatExpansionsText(w io.Writer, expansions []CLIExpansion) {
	for _, x := range expansions {
		fmt.Fprintf(w, "%s\n\t%s\n", x.Expression, x.Guard)
	}
}

// outputResultText dispatches to the appropriate text formatter based on the
// result type.
func outputResultText(w io.Writer, result CLIResult) error {
	switch v := result.Results.(type) {
	case []CLIRun:
		formatRunsText(w, v)
	case []CLIExpansion:
		formatExpansionsText(w, v)
	case nil:
	default:
		return errors.Newf("unsupported result type for text format: %T", v)
	}
	return nil
}

// outputResult writes a command result to stdout in the selected format.
func outputResult(result CLIResult) error {
	if flagFormat == "text" {
		return outputResultText(os.Stdout, result)
	}
	return writeJSON(os.Stdout, result)
}

// outputStatus writes the outcome of a run and passes err through so RunE
// exits non-zero on failure. In text mode errors go to stderr.
func outputStatus(res *libreveal.Result, err error) error {
	status := newStatus(res, err)
	if err != nil {
		errorHandled = true
	}

	if flagFormat == "text" {
		w := io.Writer(os.Stdout)
		if err != nil {
			w = os.Stderr
		}
		formatStatusText(w, status)
		return err
	}

	if werr := writeJSON(os.Stdout, status); werr != nil && err == nil {
		return werr
	}
	return err
}

// outputError writes an error in the selected format and returns it so RunE
// can propagate it to Cobra. In JSON mode the error is written to stdout as a
// CLIResult envelope. In text mode it goes to stderr.
func outputError(command string, err error) error {
	errorHandled = true
	if flagFormat == "text" {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		if hint := flattenHints(err); hint != "" {
			fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
		}
		return err
	}
	_ = writeJSON(os.Stdout, CLIResult{Command: command, Error: err.Error()})
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func flattenHints(err error) string {
	return errors.FlattenHints(err)
}

// validFormats lists accepted values for --format.
var validFormats = []string{"json", "text"}

// validateFormat checks that the --format flag value is recognized.
func validateFormat(format string) error {
	for _, f := range validFormats {
		if format == f {
			return nil
		}
	}
	return errors.Newf("invalid format %q: must be %s", format, strings.Join(validFormats, " or "))
}
