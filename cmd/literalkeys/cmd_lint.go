// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package main

import (
	"context"
	"fmt"
	"strings"
)

// runLint prints the literal-string diagnostics for a directory.
//
// # Description
//
// The --format flag is checked before the directory, so a bad value
// fails without touching the filesystem. No model is called and no
// credential is needed. Files without literal strings are omitted.
//
// # Outputs
//
//   - error: ErrInvalidFlag, ErrDirectoryNotFound, config errors, or a
//     *CommandError with stage "lint" when ESLint fails.
func runLint(ctx context.Context, inv *invocation, args []string) error {
	format := strings.ToLower(strings.TrimSpace(inv.opts.format))
	if format != FormatText && format != FormatJSON {
		return fmt.Errorf("%w: --format %q (want json or text)", ErrInvalidFlag, inv.opts.format)
	}

	dir, err := resolveDir(args[0])
	if err != nil {
		return err
	}

	s, err := inv.start(ctx, dir)
	if err != nil {
		return err
	}
	defer s.close(ctx)

	groups, err := s.collect(ctx)
	if err != nil {
		return NewCommandError(inv.name, "lint", err)
	}

	out := inv.deps.stdout
	if format == FormatJSON {
		return OutputJSON(out, groups)
	}
	return newTextReport(out, isTerminal(out)).Write(groups)
}
