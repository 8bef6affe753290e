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
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/AleutianAI/literalkeys/cmd/literalkeys/config"
	"github.com/AleutianAI/literalkeys/pkg/logging"
	"github.com/AleutianAI/literalkeys/pkg/telemetry"
	"github.com/AleutianAI/literalkeys/pkg/ux"
	"github.com/AleutianAI/literalkeys/services/lint"
	"github.com/AleutianAI/literalkeys/services/llm"
)

// version is overridden at build time with -ldflags "-X main.version=...".
var version = "dev"

// =============================================================================
// Collaborators
// =============================================================================

// deps are the collaborators each command constructs per run. Tests swap
// in fakes for the linter and the model.
type deps struct {
	stdout io.Writer
	stderr io.Writer

	newSource     func(cfg lint.LinterConfig, logger *slog.Logger) (lint.Source, error)
	newClient     func(ctx context.Context, cfg llm.Config, logger *slog.Logger) (llm.Client, error)
	initTelemetry func(ctx context.Context, cfg telemetry.Config) (func(context.Context) error, error)
}

func defaultDeps() *deps {
	return &deps{
		stdout: os.Stdout,
		stderr: os.Stderr,
		newSource: func(cfg lint.LinterConfig, logger *slog.Logger) (lint.Source, error) {
			runner, err := lint.NewRunner(cfg, lint.WithLogger(logger))
			if err != nil {
				return nil, err
			}
			return runner, nil
		},
		newClient:     llm.New,
		initTelemetry: telemetry.Init,
	}
}

// options holds every flag value. Each command binds only its own flags.
type options struct {
	// persistent
	configPath    string
	logLevel      string
	logJSON       bool
	logDir        string
	traceExporter string

	// lint
	format string

	// use-ai
	apiKey    string
	output    string
	backend   string
	model     string
	extractor string
	timeout   time.Duration

	// init
	force bool
}

// =============================================================================
// Dispatch Table
// =============================================================================

// commandSpec describes one subcommand.
type commandSpec struct {
	name  string
	use   string
	short string
	long  string
	args  cobra.PositionalArgs
	bind  func(cmd *cobra.Command, o *options)
	run   func(ctx context.Context, inv *invocation, args []string) error
}

// commandTable lists every subcommand. Commands that take a target
// directory share config loading, logging and telemetry through
// invocation.start.
var commandTable = []commandSpec{
	{
		name:  "lint",
		use:   "lint <directory>",
		short: "Report literal strings that should be translated",
		long: `Runs ESLint over the directory and prints every diagnostic whose
message marks an untranslated literal string, grouped by file.`,
		args: cobra.ExactArgs(1),
		bind: func(cmd *cobra.Command, o *options) {
			cmd.Flags().StringVarP(&o.format, "format", "f", FormatText, "Output format (json, text)")
		},
		run: runLint,
	},
	{
		name:  "use-ai",
		use:   "use-ai <directory>",
		short: "Generate translation keys for literal strings with a model",
		long: `Lints the directory, sends the literal-string diagnostics to a model in
a single call and writes the returned key/value map as JSON.

The API key is read from --api-key, then GEMINI_API_KEY (or GOOGLE_API_KEY),
OPENAI_API_KEY or ANTHROPIC_API_KEY for those backends, then
/run/secrets/<backend>_api_key. The ollama backend needs no key.
A .env file in the current or target directory is loaded first.`,
		args: cobra.ExactArgs(1),
		bind: func(cmd *cobra.Command, o *options) {
			f := cmd.Flags()
			f.StringVarP(&o.apiKey, "api-key", "k", "", "Model API key")
			f.StringVarP(&o.output, "output", "o", "", "Write translations to this file instead of stdout")
			f.StringVar(&o.backend, "backend", llm.BackendGemini, "Model backend ("+strings.Join(llm.Backends, ", ")+")")
			f.StringVar(&o.model, "model", "", "Model name (default depends on backend)")
			f.StringVar(&o.extractor, "extractor", "naive", "JSON recovery strategy (naive, balanced)")
			f.DurationVar(&o.timeout, "timeout", 0, "Bound the model call (0 = no limit)")
		},
		run: runUseAI,
	},
	{
		name:  "init",
		use:   "init [directory]",
		short: "Write a default " + config.FileName,
		args:  cobra.MaximumNArgs(1),
		bind: func(cmd *cobra.Command, o *options) {
			cmd.Flags().BoolVar(&o.force, "force", false, "Overwrite an existing file")
		},
		run: runInit,
	},
}

// newRootCmd builds the command tree from commandTable.
func newRootCmd(d *deps) *cobra.Command {
	o := &options{}

	root := &cobra.Command{
		Use:           "literalkeys",
		Short:         "Find untranslated literal strings and turn them into translation keys",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(d.stdout)
	root.SetErr(d.stderr)

	pf := root.PersistentFlags()
	pf.StringVar(&o.configPath, "config", "", "Config file (default: "+config.FileName+" in the target or current directory)")
	pf.StringVar(&o.logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	pf.BoolVar(&o.logJSON, "log-json", false, "Emit logs as JSON")
	pf.StringVar(&o.logDir, "log-dir", "", "Also write JSON logs to this directory")
	pf.StringVar(&o.traceExporter, "trace-exporter", telemetry.ExporterNone, "Trace exporter (none, stdout, otlp)")

	for _, spec := range commandTable {
		cmd := &cobra.Command{
			Use:   spec.use,
			Short: spec.short,
			Long:  spec.long,
			Args:  spec.args,
		}
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			inv := &invocation{name: spec.name, cmd: cmd, opts: o, deps: d}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return WrapCommandError(spec.run(ctx, inv, args), spec.name, "")
		}
		if spec.bind != nil {
			spec.bind(cmd, o)
		}
		root.AddCommand(cmd)
	}
	return root
}

// =============================================================================
// Shared Setup
// =============================================================================

// invocation is one execution of a subcommand.
type invocation struct {
	name string
	cmd  *cobra.Command
	opts *options
	deps *deps

	// progress, when set, owns the stderr line; log records are
	// written through it.
	progress *ux.Spinner
}

// logOutput returns where log records go.
func (inv *invocation) logOutput() io.Writer {
	if inv.progress != nil {
		return inv.progress
	}
	return inv.deps.stderr
}

// session holds everything built for one run.
type session struct {
	cfg        config.Config
	configFile string
	dir        string
	logger     *logging.Logger
	root       *logging.Logger
	deps       *deps
	shutdown   func(context.Context) error
}

// resolveDir returns the absolute path of a directory that must exist.
func resolveDir(arg string) (string, error) {
	abs, err := filepath.Abs(arg)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", ErrDirectoryNotFound, arg, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", fmt.Errorf("%w: %s", ErrDirectoryNotFound, abs)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("%w: %s is not a directory", ErrDirectoryNotFound, abs)
	}
	return abs, nil
}

// start loads and validates the config, then builds the logger and
// telemetry for a run over dir.
func (inv *invocation) start(ctx context.Context, dir string) (*session, error) {
	level, err := logging.ParseLevel(inv.opts.logLevel)
	if err != nil {
		return nil, fmt.Errorf("%w: --log-level: %v", ErrInvalidFlag, err)
	}

	cwd, _ := os.Getwd()
	cfg, used, err := config.Load(inv.opts.configPath, dir, cwd)
	if err != nil {
		return nil, err
	}
	inv.applyOverrides(&cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	root := logging.New(logging.Config{
		Level:   level,
		LogDir:  inv.opts.logDir,
		Service: "literalkeys",
		JSON:    inv.opts.logJSON,
		Output:  inv.logOutput(),
	})
	logger := root.WithRunID().With("command", inv.name)

	shutdown, err := inv.deps.initTelemetry(ctx, cfg.Telemetry.ToTelemetry(version, inv.deps.stderr))
	if err != nil {
		_ = root.Close()
		return nil, fmt.Errorf("initializing telemetry: %w", err)
	}

	if used != "" {
		logger.Debug("Loaded configuration", "path", used)
	}

	return &session{
		cfg:        cfg,
		configFile: used,
		dir:        dir,
		logger:     logger,
		root:       root,
		deps:       inv.deps,
		shutdown:   shutdown,
	}, nil
}

// applyOverrides copies explicitly set flags over file values.
func (inv *invocation) applyOverrides(cfg *config.Config) {
	f := inv.cmd.Flags()
	o := inv.opts

	if f.Changed("trace-exporter") {
		cfg.Telemetry.TraceExporter = o.traceExporter
	}
	if f.Changed("backend") && o.backend != cfg.Model.Backend {
		cfg.Model.Backend = o.backend
		// A model name from the file belongs to the old backend.
		cfg.Model.Name = ""
	}
	if f.Changed("model") {
		cfg.Model.Name = o.model
	}
	if f.Changed("extractor") {
		cfg.Pipeline.Extractor = o.extractor
	}
	if f.Changed("timeout") {
		cfg.Pipeline.Timeout = o.timeout
	}
}

// close flushes telemetry and the log file.
func (s *session) close(ctx context.Context) {
	if s.shutdown != nil {
		if err := s.shutdown(context.WithoutCancel(ctx)); err != nil {
			s.logger.Warn("Telemetry shutdown failed", "error", err)
		}
	}
	_ = s.root.Close()
}

// collect lints the session directory and keeps literal-string diagnostics.
func (s *session) collect(ctx context.Context) ([]lint.DiagnosticGroup, error) {
	source, err := s.deps.newSource(s.cfg.Lint.ToLinter(), s.logger.Slog())
	if err != nil {
		return nil, err
	}

	s.logger.Info("Linting directory", "path", s.dir)
	files, err := source.Lint(ctx, s.dir)
	if err != nil {
		return nil, err
	}

	groups := lint.Collect(files, lint.LiteralStringPredicate(s.cfg.Lint.Marker))
	errs, warns := lint.Counts(groups)
	s.logger.Info("Collected literal strings",
		"files_linted", len(files),
		"files_with_literals", len(groups),
		"errors", errs,
		"warnings", warns,
	)
	return groups, nil
}
