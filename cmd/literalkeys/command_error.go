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
	"errors"
	"fmt"
	"strings"

	"github.com/AleutianAI/literalkeys/cmd/literalkeys/config"
	"github.com/AleutianAI/literalkeys/services/lint"
	"github.com/AleutianAI/literalkeys/services/llm"
	"github.com/AleutianAI/literalkeys/services/translation"
)

// Pre-flight failures. Both are fatal before any linting or model call.
var (
	// ErrDirectoryNotFound indicates the target directory does not exist.
	ErrDirectoryNotFound = errors.New("directory does not exist")

	// ErrMissingCredential indicates no API key was supplied for a backend
	// that needs one.
	ErrMissingCredential = errors.New("API key is required")

	// ErrInvalidFlag indicates a flag value outside its allowed set.
	ErrInvalidFlag = errors.New("invalid flag value")
)

// CommandError wraps a subcommand failure with the stage that failed.
//
// # Description
//
// Provides context for failures, including the subcommand, the pipeline
// stage and the exit code. Implements error interface and supports
// unwrapping.
//
// # Example
//
//	err := NewCommandError("use-ai", "generate", originalErr)
//	fmt.Println(err.Error()) // "use-ai: generate: model invocation failed: ..."
//
//	var cmdErr *CommandError
//	if errors.As(err, &cmdErr) {
//	    fmt.Println(cmdErr.Stage) // "generate"
//	}
type CommandError struct {
	// Command is the subcommand that was executing.
	Command string

	// Stage names the step that failed, e.g. "lint" or "write".
	Stage string

	// ExitCode is the process exit code to use.
	ExitCode int

	// Wrapped is the underlying error.
	Wrapped error
}

// Error returns a formatted error message.
func (e *CommandError) Error() string {
	if e.Stage != "" {
		return fmt.Sprintf("%s: %s: %v", e.Command, e.Stage, e.Wrapped)
	}
	return fmt.Sprintf("%s: %v", e.Command, e.Wrapped)
}

// Unwrap returns the underlying error.
//
// # Description
//
// Enables errors.Is() and errors.As() to work through the error chain.
func (e *CommandError) Unwrap() error {
	return e.Wrapped
}

// NewCommandError creates a CommandError with exit code CLIExitError.
//
// # Inputs
//
//   - cmd: The subcommand (e.g., "lint")
//   - stage: The failing step (may be empty)
//   - wrapped: Underlying error
//
// # Outputs
//
//   - *CommandError: New error with full context
func NewCommandError(cmd, stage string, wrapped error) *CommandError {
	return &CommandError{
		Command:  cmd,
		Stage:    stage,
		ExitCode: CLIExitError,
		Wrapped:  wrapped,
	}
}

// WrapCommandError wraps err into a CommandError if it isn't already one.
//
// # Outputs
//
//   - error: nil when err is nil; otherwise a *CommandError
func WrapCommandError(err error, cmd, stage string) error {
	if err == nil {
		return nil
	}

	// Don't double-wrap
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) {
		return err
	}

	return NewCommandError(cmd, stage, err)
}

// ExitCode returns the process exit code for err.
func ExitCode(err error) int {
	if err == nil {
		return CLIExitSuccess
	}
	var cmdErr *CommandError
	if errors.As(err, &cmdErr) && cmdErr.ExitCode != 0 {
		return cmdErr.ExitCode
	}
	return CLIExitError
}

// credentialHint names every variable consulted for each keyed backend,
// e.g. "gemini: GEMINI_API_KEY or GOOGLE_API_KEY".
func credentialHint() string {
	var parts []string
	for _, backend := range llm.Backends {
		if vars := llm.APIKeyEnvVars(backend); len(vars) > 0 {
			parts = append(parts, backend+": "+strings.Join(vars, " or "))
		}
	}
	return "pass --api-key or set the backend's variable (" + strings.Join(parts, "; ") + ")"
}

// Hint suggests a fix for well-known failures, or returns "".
//
// # Example
//
//	if hint := Hint(err); hint != "" {
//	    fmt.Fprintf(os.Stderr, "Hint: %s\n", hint)
//	}
func Hint(err error) string {
	switch {
	case errors.Is(err, ErrMissingCredential), errors.Is(err, llm.ErrMissingAPIKey):
		return credentialHint()
	case errors.Is(err, lint.ErrLinterNotInstalled):
		return "install ESLint and eslint-plugin-i18next in the target project (npm i -D eslint eslint-plugin-i18next)"
	case errors.Is(err, translation.ErrSensitiveContent):
		return "remove the flagged strings or set pipeline.sensitive_data: warn in " + config.FileName
	case errors.Is(err, lint.ErrLinterTimeout):
		return "raise lint.timeout in " + config.FileName
	case errors.Is(err, llm.ErrModelInvocation):
		return "check the API key, model name and network access; re-run with --log-level debug for details"
	default:
		return ""
	}
}
