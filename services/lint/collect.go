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

import "strings"

// Predicate decides whether a diagnostic belongs to the collected category.
type Predicate func(Diagnostic) bool

// LiteralStringPredicate matches diagnostics whose message contains marker.
// An empty marker falls back to DefaultLiteralStringMarker.
func LiteralStringPredicate(marker string) Predicate {
	if marker == "" {
		marker = DefaultLiteralStringMarker
	}
	return func(d Diagnostic) bool {
		return strings.Contains(d.Message, marker)
	}
}

// Collect filters raw per-file diagnostics down to those matching match
// and groups them by file.
//
// Description:
//
//	Files without a matching diagnostic are omitted. File order and
//	diagnostic order are preserved. Matched diagnostics are copied by
//	value and the input is never modified, so calling Collect twice on
//	the same input yields equal results.
//
// Inputs:
//
//	files - Raw linter output
//	match - Category predicate; nil matches nothing
//
// Outputs:
//
//	[]DiagnosticGroup - Non-nil, possibly empty
func Collect(files []FileDiagnostics, match Predicate) []DiagnosticGroup {
	groups := make([]DiagnosticGroup, 0)
	if match == nil {
		return groups
	}

	for _, file := range files {
		var kept []Diagnostic
		for _, d := range file.Diagnostics {
			if match(d) {
				kept = append(kept, d)
			}
		}
		if len(kept) > 0 {
			groups = append(groups, DiagnosticGroup{
				FilePath:    file.FilePath,
				Diagnostics: kept,
			})
		}
	}
	return groups
}
