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
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTree(t *testing.T, root string, paths ...string) {
	t.Helper()
	for _, p := range paths {
		full := filepath.Join(root, filepath.FromSlash(p))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte("export {}\n"), 0o644))
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root,
		"src/App.tsx",
		"src/components/Button.jsx",
		"src/util.ts",
		"src/style.css",
		"index.mjs",
		"README.md",
		"node_modules/react/index.js",
		"dist/bundle.js",
		".storybook/main.js",
		"src/legacy/Old.js",
	)

	t.Run("default include", func(t *testing.T) {
		filter, err := NewPathFilter(DefaultInclude, nil)
		require.NoError(t, err)

		files, err := Discover(root, filter)
		require.NoError(t, err)

		assert.Equal(t, []string{
			"index.mjs",
			"src/App.tsx",
			"src/components/Button.jsx",
			"src/legacy/Old.js",
			"src/util.ts",
		}, files)
	})

	t.Run("exclude pattern", func(t *testing.T) {
		filter, err := NewPathFilter(DefaultInclude, []string{"src/legacy/**"})
		require.NoError(t, err)

		files, err := Discover(root, filter)
		require.NoError(t, err)

		assert.NotContains(t, files, "src/legacy/Old.js")
		assert.Contains(t, files, "src/App.tsx")
	})

	t.Run("narrow include", func(t *testing.T) {
		filter, err := NewPathFilter([]string{"*.tsx"}, nil)
		require.NoError(t, err)

		files, err := Discover(root, filter)
		require.NoError(t, err)
		assert.Equal(t, []string{"src/App.tsx"}, files)
	})

	t.Run("nil filter accepts every file outside skipped dirs", func(t *testing.T) {
		files, err := Discover(root, nil)
		require.NoError(t, err)
		assert.Contains(t, files, "README.md")
		assert.Contains(t, files, "src/style.css")
		assert.NotContains(t, files, "dist/bundle.js")
	})

	t.Run("missing root", func(t *testing.T) {
		_, err := Discover(filepath.Join(root, "missing"), nil)
		assert.Error(t, err)
	})
}

func TestNewPathFilter_InvalidGlob(t *testing.T) {
	_, err := NewPathFilter([]string{"["}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestPathFilter_Match(t *testing.T) {
	filter, err := NewPathFilter(DefaultInclude, []string{"*.test.tsx"})
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"App.tsx", true},
		{"src/deep/nested/file.cjs", true},
		{"src/App.test.tsx", false},
		{"src/App.css", false},
		{"src/types.d.ts", true},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, filter.Match(tt.path))
		})
	}
}
