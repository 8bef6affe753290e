// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package policy classifies text against regex patterns for secrets and
// personal data. It is used to inspect model payloads before they leave
// the machine.
package policy

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

//go:embed patterns.yaml
var defaultPatterns []byte

// ErrInvalidPolicy indicates a pattern file that failed to load.
var ErrInvalidPolicy = errors.New("invalid policy")

// Engine holds compiled classifications sorted by priority, highest
// first. It is safe for concurrent use.
type Engine struct {
	classifications []Classification
}

// New returns an Engine loaded with the built-in patterns.
func New() (*Engine, error) {
	return NewFromYAML(defaultPatterns)
}

// NewFromYAML builds an Engine from a classification file.
//
// # Description
//
// Unmarshals the YAML, compiles every regex and sorts classifications
// by descending priority.
//
// # Outputs
//
//   - *Engine: Ready engine.
//   - error: Wraps ErrInvalidPolicy on malformed YAML or a bad regex.
func NewFromYAML(data []byte) (*Engine, error) {
	var file ClassificationFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}
	if err := file.compile(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPolicy, err)
	}
	file.sortByPriority()
	return &Engine{classifications: file.Classifications}, nil
}

// Scan reports every match in content, line by line. Findings are
// ordered by line, then by classification priority.
func (e *Engine) Scan(content string) []Finding {
	var findings []Finding
	for i, line := range strings.Split(content, "\n") {
		for _, c := range e.classifications {
			for _, p := range c.Patterns {
				match := p.compiled.FindString(line)
				if match == "" {
					continue
				}
				findings = append(findings, Finding{
					Line:           i + 1,
					Match:          strings.TrimSpace(match),
					Classification: c.Name,
					PatternID:      p.ID,
					Description:    p.Description,
					Confidence:     p.Confidence,
				})
			}
		}
	}
	return findings
}
