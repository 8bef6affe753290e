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
	"encoding/json"
	"fmt"
)

// =============================================================================
// ESLINT PARSER
// =============================================================================

// eslintOutput represents the JSON output from ESLint.
type eslintOutput []eslintFile

type eslintFile struct {
	FilePath     string          `json:"filePath"`
	Messages     []eslintMessage `json:"messages"`
	ErrorCount   int             `json:"errorCount"`
	WarningCount int             `json:"warningCount"`
}

type eslintMessage struct {
	RuleID   *string `json:"ruleId"`
	Severity int     `json:"severity"` // 1 = warning, 2 = error
	Message  string  `json:"message"`
	Line     int     `json:"line"`
	Column   int     `json:"column"`
}

// ParseESLintOutput parses the report of eslint --format=json.
//
// Description:
//
//	ESLint emits an array with one entry per linted file. File order and
//	message order are preserved. Empty output yields no files.
//
// Inputs:
//
//	data - Raw stdout of eslint --format=json
//
// Outputs:
//
//	[]FileDiagnostics - One entry per file, in report order
//	error - Wraps ErrParseOutput if the JSON is malformed
func ParseESLintOutput(data []byte) ([]FileDiagnostics, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return []FileDiagnostics{}, nil
	}

	var output eslintOutput
	if err := json.Unmarshal(data, &output); err != nil {
		return nil, fmt.Errorf("%w: parsing eslint output: %v", ErrParseOutput, err)
	}

	files := make([]FileDiagnostics, 0, len(output))
	for _, file := range output {
		diags := make([]Diagnostic, 0, len(file.Messages))
		for _, msg := range file.Messages {
			diags = append(diags, Diagnostic{
				Message:  msg.Message,
				Line:     msg.Line,
				Column:   msg.Column,
				Severity: mapESLintSeverity(msg.Severity),
				RuleID:   msg.RuleID,
			})
		}
		files = append(files, FileDiagnostics{
			FilePath:    file.FilePath,
			Diagnostics: diags,
		})
	}

	return files, nil
}

// mapESLintSeverity maps ESLint numeric severity to Severity.
func mapESLintSeverity(severity int) Severity {
	if severity >= 2 {
		return SeverityError
	}
	return SeverityWarning
}
