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

import "time"

// DefaultLiteralStringMarker is the message fragment that identifies
// untranslated literal text in eslint-plugin-i18next reports.
const DefaultLiteralStringMarker = "disallow literal string"

// DefaultInclude matches the source files the literal-string rule applies to.
var DefaultInclude = []string{"*.{js,mjs,cjs,ts,jsx,tsx}"}

// defaultBatchSize bounds the number of files per ESLint invocation so the
// command line stays under the OS argument limit.
const defaultBatchSize = 500

// LinterConfig describes how to invoke ESLint.
type LinterConfig struct {
	// Command is the executable, e.g. "npx" or "eslint".
	Command string

	// Args precede the file list. They must make ESLint emit JSON.
	Args []string

	// ConfigFile is passed as --config when set.
	ConfigFile string

	// Include holds glob patterns for files to lint, matched against the
	// slash-separated path relative to the target and against the base name.
	Include []string

	// Exclude holds glob patterns for files to skip, matched the same way.
	Exclude []string

	// Timeout bounds a single ESLint invocation. Zero means 2 minutes.
	Timeout time.Duration

	// BatchSize is the maximum number of files per invocation. Zero means 500.
	BatchSize int

	// Concurrency is the number of batches linted at once. Zero means 1.
	Concurrency int
}

// DefaultESLintConfig returns the configuration used when no config file
// overrides it. ESLint is resolved through npx so a project-local install
// is preferred over a global one.
func DefaultESLintConfig() LinterConfig {
	return LinterConfig{
		Command: "npx",
		Args: []string{
			"eslint",
			"--format=json",
			"--no-error-on-unmatched-pattern",
		},
		Include:     append([]string(nil), DefaultInclude...),
		Timeout:     2 * time.Minute,
		BatchSize:   defaultBatchSize,
		Concurrency: 2,
	}
}

// commandArgs builds the argument list for one invocation over files.
func (c LinterConfig) commandArgs(files []string) []string {
	args := make([]string, 0, len(c.Args)+len(files)+2)
	args = append(args, c.Args...)
	if c.ConfigFile != "" {
		args = append(args, "--config", c.ConfigFile)
	}
	return append(args, files...)
}
