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
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"

	"github.com/AleutianAI/literalkeys/pkg/ux"
	"github.com/AleutianAI/literalkeys/services/lint"
	"github.com/AleutianAI/literalkeys/services/llm"
	"github.com/AleutianAI/literalkeys/services/policy"
	"github.com/AleutianAI/literalkeys/services/translation"
)

// runUseAI generates translation keys for a directory.
//
// # Description
//
// Order matters: the directory and credential are checked before ESLint
// runs, so a missing key fails fast. The model is called at most once.
// An unusable model response is not an error; an empty map is written.
//
// # Outputs
//
//   - error: ErrDirectoryNotFound, ErrMissingCredential, config and flag
//     errors, or a *CommandError for lint, guard, generate and write failures.
func runUseAI(ctx context.Context, inv *invocation, args []string) error {
	dir, err := resolveDir(args[0])
	if err != nil {
		return err
	}

	cwd, _ := os.Getwd()
	envFiles := loadDotEnv(cwd, dir)

	// The spinner stays off when the translations themselves go to the
	// same terminal.
	if isTerminal(inv.deps.stderr) && !inv.opts.logJSON &&
		(inv.opts.output != "" || !isTerminal(inv.deps.stdout)) {
		inv.progress = ux.NewSpinner(inv.deps.stderr, "Linting directory")
	}

	s, err := inv.start(ctx, dir)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	for _, path := range envFiles {
		s.logger.Debug("Loaded environment file", "path", path)
	}

	backend := s.cfg.Model.Backend
	apiKey, err := llm.ResolveAPIKey(backend, inv.opts.apiKey)
	if err != nil {
		if errors.Is(err, llm.ErrMissingAPIKey) {
			return fmt.Errorf("%w for backend %s: %w", ErrMissingCredential, backend, err)
		}
		return err
	}

	extractor, err := translation.ExtractorByName(s.cfg.Pipeline.Extractor)
	if err != nil {
		return err
	}

	sink, err := inv.sink()
	if err != nil {
		return err
	}

	var groups []lint.DiagnosticGroup
	err = inv.progress.Run(func() error {
		var collectErr error
		groups, collectErr = s.collect(ctx)
		return collectErr
	})
	if err != nil {
		return NewCommandError(inv.name, "lint", err)
	}

	client, err := inv.deps.newClient(ctx, llm.Config{
		Backend: backend,
		Model:   s.cfg.Model.ModelName(),
		APIKey:  apiKey,
		BaseURL: s.cfg.Model.BaseURL,
	}, s.logger.Slog())
	if err != nil {
		return NewCommandError(inv.name, "generate", err)
	}

	opts := []translation.Option{
		translation.WithExtractor(extractor),
		translation.WithParams(s.cfg.Model.GenerationParams()),
		translation.WithLogger(s.logger.Slog()),
	}
	if mode := translation.GuardMode(s.cfg.Pipeline.SensitiveData); mode != translation.GuardOff {
		engine, err := policy.New()
		if err != nil {
			return err
		}
		opts = append(opts, translation.WithGuard(engine, mode))
	}

	gen, err := translation.NewGenerator(client, sink, opts...)
	if err != nil {
		return err
	}

	runCtx := ctx
	if timeout := s.cfg.Pipeline.Timeout; timeout > 0 {
		var cancel context.CancelFunc
		runCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	var outcome translation.Outcome
	inv.progress.UpdateMessage("Waiting for model response")
	err = inv.progress.Run(func() error {
		var runErr error
		outcome, runErr = gen.Run(runCtx, groups)
		return runErr
	})
	if err != nil {
		stage := "generate"
		switch {
		case errors.Is(err, translation.ErrSinkWrite):
			stage = "write"
		case errors.Is(err, translation.ErrSensitiveContent):
			stage = "guard"
		}
		return NewCommandError(inv.name, stage, err)
	}

	if fs, ok := sink.(translation.FileSink); ok {
		fmt.Fprintf(inv.deps.stdout, "Translation JSON saved to: %s\n", fs.Path)
	}
	s.logger.Info("Done",
		"stage", outcome.Stage.String(),
		"keys", len(outcome.Map),
		"usable_response", outcome.OK(),
	)
	return nil
}

// sink returns a FileSink for --output, resolved against the working
// directory, or a stdout WriterSink.
func (inv *invocation) sink() (translation.Sink, error) {
	if inv.opts.output == "" {
		return translation.WriterSink{W: inv.deps.stdout}, nil
	}
	path, err := filepath.Abs(inv.opts.output)
	if err != nil {
		return nil, fmt.Errorf("%w: --output: %v", ErrInvalidFlag, err)
	}
	return translation.FileSink{Path: path}, nil
}

// loadDotEnv loads .env from each directory that has one. Variables
// already set in the environment are not overridden. It returns the
// files that were loaded.
func loadDotEnv(dirs ...string) []string {
	var loaded []string
	seen := make(map[string]bool)
	for _, dir := range dirs {
		if dir == "" {
			continue
		}
		path := filepath.Join(dir, ".env")
		if seen[path] {
			continue
		}
		seen[path] = true
		if _, err := os.Stat(path); err != nil {
			continue
		}
		if err := godotenv.Load(path); err == nil {
			loaded = append(loaded, path)
		}
	}
	return loaded
}
