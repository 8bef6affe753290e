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
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fakeReport = `[{"filePath":"/work/src/App.tsx","messages":[{"ruleId":"i18next/no-literal-string","severity":2,"message":"disallow literal string: <h1>Hello</h1>","line":3,"column":10}],"errorCount":1,"warningCount":0}]`

// fakeLinter writes an executable shell script that stands in for ESLint.
func fakeLinter(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script linters are not supported on windows")
	}
	path := filepath.Join(t.TempDir(), "fake-eslint")
	script := "#!/bin/sh\n" + body + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func testConfig(command string) LinterConfig {
	cfg := DefaultESLintConfig()
	cfg.Command = command
	cfg.Args = []string{"--format=json"}
	return cfg
}

func TestNewRunner(t *testing.T) {
	t.Run("empty command", func(t *testing.T) {
		_, err := NewRunner(LinterConfig{})
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("invalid include glob", func(t *testing.T) {
		cfg := DefaultESLintConfig()
		cfg.Include = []string{"["}
		_, err := NewRunner(cfg)
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("zero timeout and batch size get defaults", func(t *testing.T) {
		r, err := NewRunner(LinterConfig{Command: "eslint"})
		require.NoError(t, err)
		assert.Equal(t, 2*time.Minute, r.config.Timeout)
		assert.Equal(t, defaultBatchSize, r.config.BatchSize)
		assert.Equal(t, 1, r.config.Concurrency)
	})
}

func TestRunner_Lint(t *testing.T) {
	ctx := context.Background()

	t.Run("parses report from stdout despite non-zero exit", func(t *testing.T) {
		script := fakeLinter(t, "cat <<'EOF'\n"+fakeReport+"\nEOF\nexit 1")
		dir := t.TempDir()
		writeTree(t, dir, "src/App.tsx")

		r, err := NewRunner(testConfig(script))
		require.NoError(t, err)

		files, err := r.Lint(ctx, dir)
		require.NoError(t, err)
		require.Len(t, files, 1)
		assert.Equal(t, "/work/src/App.tsx", files[0].FilePath)
		require.Len(t, files[0].Diagnostics, 1)
		assert.Equal(t, SeverityError, files[0].Diagnostics[0].Severity)
	})

	t.Run("passes args config and relative files", func(t *testing.T) {
		argsFile := filepath.Join(t.TempDir(), "args.txt")
		script := fakeLinter(t, `printf '%s\n' "$@" > "`+argsFile+`"`+"\necho '[]'")
		dir := t.TempDir()
		writeTree(t, dir, "b.ts", "a.jsx", "skip.css")

		cfg := testConfig(script)
		cfg.ConfigFile = "eslint.config.mjs"
		r, err := NewRunner(cfg)
		require.NoError(t, err)

		files, err := r.Lint(ctx, dir)
		require.NoError(t, err)
		assert.Empty(t, files)

		data, err := os.ReadFile(argsFile)
		require.NoError(t, err)
		args := strings.Split(strings.TrimSpace(string(data)), "\n")
		assert.Equal(t, []string{"--format=json", "--config", "eslint.config.mjs", "a.jsx", "b.ts"}, args)
	})

	t.Run("batches large file lists", func(t *testing.T) {
		counter := filepath.Join(t.TempDir(), "calls")
		script := fakeLinter(t, `echo x >> "`+counter+`"`+"\necho '[]'")
		dir := t.TempDir()
		writeTree(t, dir, "a.ts", "b.ts", "c.ts", "d.ts", "e.ts")

		cfg := testConfig(script)
		cfg.BatchSize = 2
		r, err := NewRunner(cfg)
		require.NoError(t, err)

		_, err = r.Lint(ctx, dir)
		require.NoError(t, err)

		data, err := os.ReadFile(counter)
		require.NoError(t, err)
		assert.Equal(t, 3, strings.Count(string(data), "x"))
	})

	t.Run("concurrent batches keep discovery order", func(t *testing.T) {
		// Echoes one empty report per file argument; the first batch is slowest.
		script := fakeLinter(t, `shift
case "$1" in a.ts) sleep 0.2 ;; esac
out="["
sep=""
for f in "$@"; do
  out="$out$sep{\"filePath\":\"$f\",\"messages\":[]}"
  sep=","
done
echo "$out]"`)
		dir := t.TempDir()
		writeTree(t, dir, "d.ts", "c.ts", "b.ts", "a.ts")

		cfg := testConfig(script)
		cfg.BatchSize = 1
		cfg.Concurrency = 4
		r, err := NewRunner(cfg)
		require.NoError(t, err)

		files, err := r.Lint(ctx, dir)
		require.NoError(t, err)
		var paths []string
		for _, f := range files {
			paths = append(paths, f.FilePath)
		}
		assert.Equal(t, []string{"a.ts", "b.ts", "c.ts", "d.ts"}, paths)
	})

	t.Run("no matching files skips the linter", func(t *testing.T) {
		dir := t.TempDir()
		writeTree(t, dir, "README.md")

		r, err := NewRunner(testConfig("definitely-not-a-real-linter-binary"))
		require.NoError(t, err)

		files, err := r.Lint(ctx, dir)
		require.NoError(t, err)
		assert.NotNil(t, files)
		assert.Empty(t, files)
	})

	t.Run("linter not installed", func(t *testing.T) {
		dir := t.TempDir()
		writeTree(t, dir, "a.ts")

		r, err := NewRunner(testConfig("definitely-not-a-real-linter-binary"))
		require.NoError(t, err)

		_, err = r.Lint(ctx, dir)
		assert.True(t, errors.Is(err, ErrLinterNotInstalled))
		var lerr *LinterError
		require.True(t, errors.As(err, &lerr))
		assert.Equal(t, "definitely-not-a-real-linter-binary", lerr.Command)
	})

	t.Run("failure without report", func(t *testing.T) {
		script := fakeLinter(t, "echo 'Oops! Something went wrong!' >&2\nexit 2")
		dir := t.TempDir()
		writeTree(t, dir, "a.ts")

		r, err := NewRunner(testConfig(script))
		require.NoError(t, err)

		_, err = r.Lint(ctx, dir)
		assert.True(t, errors.Is(err, ErrLinterFailed))
		assert.Contains(t, err.Error(), "Something went wrong")
	})

	t.Run("garbage report", func(t *testing.T) {
		script := fakeLinter(t, "echo 'not json'")
		dir := t.TempDir()
		writeTree(t, dir, "a.ts")

		r, err := NewRunner(testConfig(script))
		require.NoError(t, err)

		_, err = r.Lint(ctx, dir)
		assert.True(t, errors.Is(err, ErrParseOutput))
	})

	t.Run("timeout", func(t *testing.T) {
		script := fakeLinter(t, "exec sleep 5")
		dir := t.TempDir()
		writeTree(t, dir, "a.ts")

		cfg := testConfig(script)
		cfg.Timeout = 100 * time.Millisecond
		r, err := NewRunner(cfg)
		require.NoError(t, err)

		_, err = r.Lint(ctx, dir)
		assert.True(t, errors.Is(err, ErrLinterTimeout))
	})

	t.Run("missing directory", func(t *testing.T) {
		r, err := NewRunner(testConfig("eslint"))
		require.NoError(t, err)

		_, err = r.Lint(ctx, filepath.Join(t.TempDir(), "nope"))
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})

	t.Run("file instead of directory", func(t *testing.T) {
		dir := t.TempDir()
		writeTree(t, dir, "a.ts")

		r, err := NewRunner(testConfig("eslint"))
		require.NoError(t, err)

		_, err = r.Lint(ctx, filepath.Join(dir, "a.ts"))
		assert.True(t, errors.Is(err, ErrInvalidInput))
	})
}

func TestLinterError(t *testing.T) {
	err := NewLinterError("npx", ErrLinterFailed)
	assert.Equal(t, "npx: linter execution failed", err.Error())

	withOut := err.WithOutput("boom")
	assert.Equal(t, "npx: linter execution failed: boom", withOut.Error())
	assert.Empty(t, err.Output, "WithOutput must not modify the receiver")
	assert.True(t, errors.Is(withOut, ErrLinterFailed))
}
