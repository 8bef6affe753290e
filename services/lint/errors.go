// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"errors"
	"fmt"
)

// Sentinel errors for the lint package.
var (
	// ErrLinterNotInstalled indicates the linter binary was not found in PATH.
	ErrLinterNotInstalled = errors.New("linter not installed")

	// ErrLinterTimeout indicates the linter exceeded its configured timeout.
	ErrLinterTimeout = errors.New("linter timeout")

	// ErrLinterFailed indicates the linter process failed without producing a report.
	ErrLinterFailed = errors.New("linter execution failed")

	// ErrParseOutput indicates the linter's JSON report could not be parsed.
	ErrParseOutput = errors.New("failed to parse linter output")

	// ErrInvalidInput indicates invalid input to a lint function.
	ErrInvalidInput = errors.New("invalid input")
)

// LinterError wraps a failure of the linter subprocess.
//
// Thread Safety: Immutable after creation.
type LinterError struct {
	// Command is the executable that failed (e.g., "npx").
	Command string

	// Err is the underlying sentinel error.
	Err error

	// Output contains the linter's stderr, if any.
	Output string
}

// Error implements the error interface.
func (e *LinterError) Error() string {
	if e.Output != "" {
		return fmt.Sprintf("%s: %v: %s", e.Command, e.Err, e.Output)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *LinterError) Unwrap() error {
	return e.Err
}

// NewLinterError creates a LinterError for command.
func NewLinterError(command string, err error) *LinterError {
	return &LinterError{
		Command: command,
		Err:     err,
	}
}

// WithOutput returns a copy of the error carrying the linter's stderr.
func (e *LinterError) WithOutput(output string) *LinterError {
	return &LinterError{
		Command: e.Command,
		Err:     e.Err,
		Output:  output,
	}
}
