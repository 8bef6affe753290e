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
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// skippedDirs are never descended into during discovery.
var skippedDirs = map[string]bool{
	"node_modules": true,
	"vendor":       true,
	"dist":         true,
	"build":        true,
	"coverage":     true,
}

// PathFilter selects files by include and exclude glob patterns.
type PathFilter struct {
	include []glob.Glob
	exclude []glob.Glob
}

// NewPathFilter compiles include and exclude patterns.
//
// Inputs:
//
//	include - Patterns a file must match (at least one). Empty matches everything.
//	exclude - Patterns that reject a file.
//
// Outputs:
//
//	*PathFilter - The compiled filter
//	error - Wraps ErrInvalidInput if a pattern does not compile
func NewPathFilter(include, exclude []string) (*PathFilter, error) {
	inc, err := compileMatchers(include)
	if err != nil {
		return nil, err
	}
	exc, err := compileMatchers(exclude)
	if err != nil {
		return nil, err
	}
	return &PathFilter{include: inc, exclude: exc}, nil
}

// Match reports whether the relative path passes the filter. The path
// and its base name are both tried against every pattern.
func (f *PathFilter) Match(relPath string) bool {
	slashPath := filepath.ToSlash(relPath)
	base := filepath.Base(relPath)

	if len(f.include) > 0 {
		matched := false
		for _, g := range f.include {
			if g.Match(slashPath) || g.Match(base) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	for _, g := range f.exclude {
		if g.Match(slashPath) || g.Match(base) {
			return false
		}
	}
	return true
}

// Discover walks root and returns the slash-separated paths, relative to
// root, of every file accepted by filter.
//
// Description:
//
//	Hidden directories and dependency or build output directories
//	(node_modules, vendor, dist, build, coverage) are skipped. Results
//	are in lexical walk order.
//
// Inputs:
//
//	root - Directory to walk
//	filter - File filter; nil accepts every file
//
// Outputs:
//
//	[]string - Relative file paths
//	error - Non-nil if the walk fails
func Discover(root string, filter *PathFilter) ([]string, error) {
	files := []string{}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		if d.IsDir() {
			if path == root {
				return nil
			}
			name := d.Name()
			if strings.HasPrefix(name, ".") || skippedDirs[name] {
				return filepath.SkipDir
			}
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		if filter == nil || filter.Match(rel) {
			files = append(files, filepath.ToSlash(rel))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking directory: %w", err)
	}
	return files, nil
}

func compileMatchers(patterns []string) ([]glob.Glob, error) {
	matchers := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: glob %q: %v", ErrInvalidInput, pattern, err)
		}
		matchers = append(matchers, g)
	}
	return matchers, nil
}
