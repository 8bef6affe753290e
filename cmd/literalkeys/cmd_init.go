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
	"os"
	"path/filepath"

	"github.com/AleutianAI/literalkeys/cmd/literalkeys/config"
)

// runInit writes the default configuration into a directory.
//
// # Description
//
// The directory defaults to the working directory. An existing file is
// kept unless --force is set. The written path is printed to stdout.
//
// # Outputs
//
//   - error: ErrDirectoryNotFound, an "already exists" error, or a write
//     failure.
func runInit(_ context.Context, inv *invocation, args []string) error {
	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	dir, err := resolveDir(target)
	if err != nil {
		return err
	}

	path := filepath.Join(dir, config.FileName)
	if _, err := os.Stat(path); err == nil && !inv.opts.force {
		return fmt.Errorf("%s already exists (use --force to overwrite)", path)
	}

	if err := config.Write(path, config.DefaultConfig()); err != nil {
		return err
	}
	fmt.Fprintf(inv.deps.stdout, "Wrote %s\n", path)
	return nil
}
