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

import "errors"

// Map associates translation keys with source strings, e.g.
// "welcome-message" → "Welcome, {name}!".
type Map map[string]string

// =============================================================================
// OUTCOME
// =============================================================================

// Stage records how a model response was turned into a Map.
type Stage int

const (
	// StageDirect means the normalized response parsed as-is.
	StageDirect Stage = iota

	// StageExtracted means direct parsing failed and the extractor
	// recovered an object from the text.
	StageExtracted

	// StageEmpty means nothing usable was found; the Map is empty.
	StageEmpty
)

// String returns "direct", "extracted", or "empty".
func (s Stage) String() string {
	switch s {
	case StageDirect:
		return "direct"
	case StageExtracted:
		return "extracted"
	case StageEmpty:
		return "empty"
	default:
		return "unknown"
	}
}

// Reason explains a StageEmpty outcome.
type Reason int

const (
	// ReasonNone accompanies successful outcomes.
	ReasonNone Reason = iota

	// ReasonNoCandidate means the extractor found no {...} span.
	ReasonNoCandidate

	// ReasonCandidateInvalid means the extracted span did not decode
	// to an object of strings.
	ReasonCandidateInvalid

	// ReasonNoDiagnostics means there was nothing to translate and the
	// model was not called.
	ReasonNoDiagnostics
)

// String returns a short snake_case label.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "none"
	case ReasonNoCandidate:
		return "no_candidate"
	case ReasonCandidateInvalid:
		return "candidate_invalid"
	case ReasonNoDiagnostics:
		return "no_diagnostics"
	default:
		return "unknown"
	}
}

// Outcome is the result of interpreting a model response.
//
// Map is never nil. Raw is the unmodified response text.
type Outcome struct {
	Map    Map
	Stage  Stage
	Reason Reason
	Raw    string
}

// OK reports whether a non-empty stage produced the map.
func (o Outcome) OK() bool {
	return o.Stage != StageEmpty
}

// =============================================================================
// ERRORS
// =============================================================================

var (
	// ErrSinkWrite indicates the translation map could not be persisted.
	ErrSinkWrite = errors.New("writing translations failed")

	// ErrSensitiveContent indicates the payload matched a secret or
	// personal-data pattern and the guard is blocking.
	ErrSensitiveContent = errors.New("payload contains sensitive content")

	// ErrInvalidInput indicates invalid arguments to a translation function.
	ErrInvalidInput = errors.New("invalid input")
)
