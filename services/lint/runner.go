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
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"time"

	"golang.org/x/sync/errgroup"
)

// Source produces raw per-file diagnostics for a directory.
//
// Runner is the production implementation. Tests substitute fakes.
type Source interface {
	Lint(ctx context.Context, dir string) ([]FileDiagnostics, error)
}

// =============================================================================
// LINT RUNNER
// =============================================================================

// Runner executes ESLint over a directory and parses its report.
//
// Description:
//
//	Discovers candidate files with a PathFilter, runs ESLint in batches
//	(up to Concurrency at a time) with the target directory as working
//	directory, and concatenates the parsed reports in discovery order.
//
// Thread Safety: Safe for concurrent use. Runner holds no mutable state.
type Runner struct {
	config LinterConfig
	filter *PathFilter
	logger *slog.Logger
}

var _ Source = (*Runner)(nil)

// Option configures the Runner.
type Option func(*Runner)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewRunner creates a Runner.
//
// Inputs:
//
//	config - ESLint invocation settings
//	opts - Optional configuration
//
// Outputs:
//
//	*Runner - The configured runner
//	error - Wraps ErrInvalidInput if the command is empty or a glob is invalid
func NewRunner(config LinterConfig, opts ...Option) (*Runner, error) {
	if config.Command == "" {
		return nil, fmt.Errorf("%w: linter command must not be empty", ErrInvalidInput)
	}
	if config.Timeout <= 0 {
		config.Timeout = 2 * time.Minute
	}
	if config.BatchSize <= 0 {
		config.BatchSize = defaultBatchSize
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}

	filter, err := NewPathFilter(config.Include, config.Exclude)
	if err != nil {
		return nil, err
	}

	r := &Runner{
		config: config,
		filter: filter,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Lint runs ESLint on every matching file under dir.
//
// Description:
//
//	Returns an empty result without invoking ESLint when no file matches.
//	ESLint exits non-zero when it reports errors, so a non-zero exit is
//	only treated as failure when nothing was written to stdout.
//
// Inputs:
//
//	ctx - Context for cancellation
//	dir - Directory to lint
//
// Outputs:
//
//	[]FileDiagnostics - Per-file diagnostics, in discovery order
//	error - ErrInvalidInput, ErrLinterNotInstalled, ErrLinterTimeout,
//	        ErrLinterFailed or ErrParseOutput (possibly inside *LinterError)
//
// Thread Safety: Safe for concurrent use.
func (r *Runner) Lint(ctx context.Context, dir string) ([]FileDiagnostics, error) {
	if ctx == nil {
		return nil, fmt.Errorf("%w: ctx must not be nil", ErrInvalidInput)
	}
	info, err := os.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", ErrInvalidInput, dir)
	}

	ctx, span := startLintSpan(ctx, r.config.Command, dir)
	defer span.End()
	start := time.Now()

	files, err := Discover(dir, r.filter)
	if err != nil {
		recordLintMetrics(ctx, time.Since(start), 0, 0, false)
		return nil, err
	}
	if len(files) == 0 {
		r.logger.Info("no source files matched", "dir", dir)
		setLintSpanResult(span, 0, 0)
		recordLintMetrics(ctx, time.Since(start), 0, 0, true)
		return []FileDiagnostics{}, nil
	}

	if _, err := exec.LookPath(r.config.Command); err != nil {
		recordLintMetrics(ctx, time.Since(start), len(files), 0, false)
		return nil, NewLinterError(r.config.Command, ErrLinterNotInstalled).WithOutput(err.Error())
	}

	r.logger.Debug("running linter",
		slog.String("command", r.config.Command),
		slog.String("dir", dir),
		slog.Int("files", len(files)),
	)

	results, err := r.lintBatches(ctx, dir, files)
	if err != nil {
		recordSpanError(span, err)
		recordLintMetrics(ctx, time.Since(start), len(files), 0, false)
		return nil, err
	}

	diagCount := 0
	for _, f := range results {
		diagCount += len(f.Diagnostics)
	}
	setLintSpanResult(span, len(files), diagCount)
	recordLintMetrics(ctx, time.Since(start), len(files), diagCount, true)

	r.logger.Debug("lint completed",
		slog.String("dir", dir),
		slog.Duration("duration", time.Since(start)),
		slog.Int("files", len(results)),
		slog.Int("diagnostics", diagCount),
	)

	return results, nil
}

// lintBatches splits files into batches and lints them concurrently.
// The first failure cancels the remaining batches.
func (r *Runner) lintBatches(ctx context.Context, dir string, files []string) ([]FileDiagnostics, error) {
	var batches [][]string
	for i := 0; i < len(files); i += r.config.BatchSize {
		batches = append(batches, files[i:min(i+r.config.BatchSize, len(files))])
	}

	reports := make([][]FileDiagnostics, len(batches))
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(r.config.Concurrency)
	for i, batch := range batches {
		g.Go(func() error {
			output, err := r.executeLinter(gCtx, dir, batch)
			if err != nil {
				return err
			}
			parsed, err := ParseESLintOutput(output)
			if err != nil {
				return err
			}
			reports[i] = parsed
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	results := make([]FileDiagnostics, 0, len(files))
	for _, report := range reports {
		results = append(results, report...)
	}
	return results, nil
}

// executeLinter runs one ESLint subprocess over files.
func (r *Runner) executeLinter(ctx context.Context, dir string, files []string) ([]byte, error) {
	cmdCtx, cancel := context.WithTimeout(ctx, r.config.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cmdCtx, r.config.Command, r.config.commandArgs(files)...)
	cmd.Dir = dir

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	if errors.Is(cmdCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return nil, NewLinterError(r.config.Command, ErrLinterTimeout).
			WithOutput(stderr.String())
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	if err != nil && stdout.Len() == 0 {
		return nil, NewLinterError(r.config.Command, ErrLinterFailed).
			WithOutput(stderr.String())
	}
	if err != nil {
		r.logger.Debug("linter exited non-zero with a report",
			slog.String("command", r.config.Command),
			slog.String("error", err.Error()),
		)
	}

	return stdout.Bytes(), nil
}
