// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/AleutianAI/literalkeys/services/lint"
)

// Exit codes for CLI commands.
const (
	CLIExitSuccess = 0 // Operation completed
	CLIExitError   = 1 // Any fatal error
)

// Output formats accepted by the lint command.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// OutputJSON writes data as 2-space indented JSON.
//
// # Inputs
//
//   - w: Destination.
//   - data: The data to encode. Must be JSON-serializable.
//
// # Outputs
//
//   - error: Non-nil if encoding or writing fails.
func OutputJSON(w io.Writer, data interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// textReport renders grouped diagnostics in the human-readable format.
type textReport struct {
	w       io.Writer
	errorC  *color.Color
	warnC   *color.Color
	fileC   *color.Color
	summary *color.Color
}

// newTextReport creates a report writer. Colors are emitted only when
// colorize is true.
func newTextReport(w io.Writer, colorize bool) *textReport {
	r := &textReport{
		w:       w,
		errorC:  color.New(color.FgRed, color.Bold),
		warnC:   color.New(color.FgYellow, color.Bold),
		fileC:   color.New(color.FgCyan),
		summary: color.New(color.Bold),
	}
	for _, c := range []*color.Color{r.errorC, r.warnC, r.fileC, r.summary} {
		if colorize {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return r
}

// Write prints every group followed by a summary line.
//
// # Example
//
//	File: src/Btn.tsx
//	  Error: disallow literal string: 'Submit' (4:2)
//
//	Linting completed with 1 errors and 0 warnings.
func (r *textReport) Write(groups []lint.DiagnosticGroup) error {
	if len(groups) == 0 {
		_, err := fmt.Fprintln(r.w, "No linting issues found.")
		return err
	}

	for _, g := range groups {
		if len(g.Diagnostics) == 0 {
			continue
		}
		if _, err := fmt.Fprintf(r.w, "\nFile: %s\n", r.fileC.Sprint(g.FilePath)); err != nil {
			return err
		}
		for _, d := range g.Diagnostics {
			label := r.warnC.Sprint(d.Severity.Label())
			if d.Severity == lint.SeverityError {
				label = r.errorC.Sprint(d.Severity.Label())
			}
			if _, err := fmt.Fprintf(r.w, "  %s: %s (%d:%d)\n", label, d.Message, d.Line, d.Column); err != nil {
				return err
			}
		}
	}

	errs, warns := lint.Counts(groups)
	_, err := fmt.Fprintf(r.w, "\n%s\n",
		r.summary.Sprintf("Linting completed with %d errors and %d warnings.", errs, warns))
	return err
}
