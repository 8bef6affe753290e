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

// =============================================================================
// SEVERITY
// =============================================================================

// Severity mirrors ESLint's numeric message severity.
//
// The numeric values are ESLint's own so that JSON output round-trips
// without translation. ESLint never reports severity 0 ("off") in results.
type Severity int

const (
	// SeverityWarning is ESLint severity 1.
	SeverityWarning Severity = 1

	// SeverityError is ESLint severity 2.
	SeverityError Severity = 2
)

// String returns "error", "warning", or "unknown".
func (s Severity) String() string {
	switch s {
	case SeverityError:
		return "error"
	case SeverityWarning:
		return "warning"
	default:
		return "unknown"
	}
}

// Label returns the capitalized form used in text reports.
func (s Severity) Label() string {
	if s == SeverityError {
		return "Error"
	}
	return "Warning"
}

// =============================================================================
// DIAGNOSTICS
// =============================================================================

// Diagnostic is a single linter finding.
//
// Description:
//
//	Fields are copied verbatim from the ESLint report. RuleID is nil when
//	ESLint reports "ruleId": null, which happens for fatal parse errors.
//
// Thread Safety: Immutable after parsing; treat as a value type.
type Diagnostic struct {
	// Message is the human-readable text, e.g. "disallow literal string: <h1>Hello</h1>".
	Message string `json:"message"`

	// Line is 1-based.
	Line int `json:"line"`

	// Column is 1-based.
	Column int `json:"column"`

	// Severity is 1 (warning) or 2 (error).
	Severity Severity `json:"severity"`

	// RuleID names the rule, e.g. "i18next/no-literal-string".
	RuleID *string `json:"ruleId"`
}

// FileDiagnostics is the raw linter output for one file.
//
// Diagnostics may be empty; ESLint reports every linted file.
type FileDiagnostics struct {
	FilePath    string
	Diagnostics []Diagnostic
}

// DiagnosticGroup is the set of matching diagnostics for one file.
//
// A group is never empty. The JSON field "errors" is kept for
// compatibility with existing consumers of the report.
type DiagnosticGroup struct {
	FilePath    string       `json:"filePath"`
	Diagnostics []Diagnostic `json:"errors"`
}

// Counts tallies diagnostics in groups by severity.
//
// Outputs:
//
//	errors - Number of SeverityError diagnostics
//	warnings - Number of SeverityWarning diagnostics
func Counts(groups []DiagnosticGroup) (errors, warnings int) {
	for _, g := range groups {
		for _, d := range g.Diagnostics {
			switch d.Severity {
			case SeverityError:
				errors++
			case SeverityWarning:
				warnings++
			}
		}
	}
	return errors, warnings
}
