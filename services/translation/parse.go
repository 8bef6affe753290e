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
	"encoding/json"
	"strings"
)

// ParseResponse interprets raw model text as a translation map.
//
// Description:
//
//	The text is normalized and decoded directly. If that fails, ex
//	extracts a candidate span from the normalized text and the candidate
//	is decoded. If that fails too, the outcome is StageEmpty with an empty
//	map. Decoding accepts only a JSON object whose values are all strings.
//	No error is ever returned.
//
// Inputs:
//
//	raw - Model response text
//	ex - Fallback extractor; nil means NaiveExtractor
//
// Outputs:
//
//	Outcome - Map is never nil; Raw is raw
func ParseResponse(raw string, ex Extractor) Outcome {
	if ex == nil {
		ex = NaiveExtractor{}
	}

	normalized := Normalize(raw)
	if m, ok := decodeMap(normalized); ok {
		return Outcome{Map: m, Stage: StageDirect, Raw: raw}
	}

	candidate, found := ex.Extract(normalized)
	if !found {
		return Outcome{Map: Map{}, Stage: StageEmpty, Reason: ReasonNoCandidate, Raw: raw}
	}
	if m, ok := decodeMap(candidate); ok {
		return Outcome{Map: m, Stage: StageExtracted, Raw: raw}
	}
	return Outcome{Map: Map{}, Stage: StageEmpty, Reason: ReasonCandidateInvalid, Raw: raw}
}

// decodeMap decodes text as an object of strings. Duplicate keys keep
// the last value. A null value fails the decode.
func decodeMap(text string) (Map, bool) {
	if !strings.HasPrefix(strings.TrimSpace(text), "{") {
		return nil, false
	}
	var raw map[string]*string
	if err := json.Unmarshal([]byte(text), &raw); err != nil {
		return nil, false
	}
	m := make(Map, len(raw))
	for k, v := range raw {
		if v == nil {
			return nil, false
		}
		m[k] = *v
	}
	return m, true
}
