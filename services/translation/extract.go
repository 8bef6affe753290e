// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package translation

import (
	"fmt"
	"regexp"
)

// Extractor names accepted by ExtractorByName.
const (
	ExtractorNaive    = "naive"
	ExtractorBalanced = "balanced"
)

// Extractor locates a JSON object embedded in free-form text.
type Extractor interface {
	// Name returns the strategy name.
	Name() string

	// Extract returns the best candidate span, or false if there is none.
	Extract(text string) (string, bool)
}

// ExtractorByName returns the extractor for name. An empty name selects
// the naive extractor.
func ExtractorByName(name string) (Extractor, error) {
	switch name {
	case "", ExtractorNaive:
		return NaiveExtractor{}, nil
	case ExtractorBalanced:
		return BalancedExtractor{}, nil
	default:
		return nil, fmt.Errorf("%w: unknown extractor %q (want %s or %s)",
			ErrInvalidInput, name, ExtractorNaive, ExtractorBalanced)
	}
}

// =============================================================================
// NAIVE EXTRACTOR
// =============================================================================

var braceSpan = regexp.MustCompile(`\{[\s\S]*?\}`)

// NaiveExtractor picks the longest non-greedy {...} match.
//
// Candidates run from a '{' to the next '}', scanned left to right without
// overlap. Nesting is ignored, so an object whose values contain objects
// is cut at the first inner '}' and the candidate will not decode.
type NaiveExtractor struct{}

// Name implements Extractor.
func (NaiveExtractor) Name() string { return ExtractorNaive }

// Extract implements Extractor. Ties go to the earliest candidate.
func (NaiveExtractor) Extract(text string) (string, bool) {
	return longest(braceSpan.FindAllString(text, -1))
}

// =============================================================================
// BALANCED EXTRACTOR
// =============================================================================

// BalancedExtractor picks the longest brace-balanced top-level object.
//
// Braces inside JSON string literals, including escaped quotes, do not
// affect depth. An object left open at the end of the text is not a
// candidate.
type BalancedExtractor struct{}

// Name implements Extractor.
func (BalancedExtractor) Name() string { return ExtractorBalanced }

// Extract implements Extractor. Ties go to the earliest candidate.
func (BalancedExtractor) Extract(text string) (string, bool) {
	var candidates []string
	depth := 0
	start := -1
	inString := false
	escaped := false

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			// Quotes outside an object are prose, not JSON strings.
			if depth > 0 {
				inString = true
			}
		case '{':
			if depth == 0 {
				start = i
			}
			depth++
		case '}':
			if depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				candidates = append(candidates, text[start:i+1])
				start = -1
			}
		}
	}

	return longest(candidates)
}

// longest returns the longest candidate by byte length, first on ties.
func longest(candidates []string) (string, bool) {
	if len(candidates) == 0 {
		return "", false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if len(c) > len(best) {
			best = c
		}
	}
	return best, true
}
