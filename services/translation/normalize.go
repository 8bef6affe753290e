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
	"regexp"
	"strings"
)

// wholeFence matches a fenced code block spanning the entire string,
// optionally tagged json, javascript or js. The tag has no trailing
// boundary: "```jsx" strips "js" and keeps "x".
var wholeFence = regexp.MustCompile("^```(?:json|javascript|js)?\\s*([\\s\\S]*?)\\s*```$")

// Normalize strips a markdown code fence that wraps the whole response.
//
// Description:
//
//	The input is trimmed. If the trimmed text is a single fenced block
//	tagged json, javascript, js or untagged, its trimmed content replaces
//	it, and this repeats while the result is itself wholly fenced. A
//	fence that appears only inside the text is left alone, as is a fence
//	with empty content. Normalize(Normalize(s)) == Normalize(s).
//
// Inputs:
//
//	raw - Model response text
//
// Outputs:
//
//	string - The unwrapped, trimmed text
func Normalize(raw string) string {
	text := strings.TrimSpace(raw)
	for {
		m := wholeFence.FindStringSubmatch(text)
		if m == nil {
			return text
		}
		inner := strings.TrimSpace(m[1])
		if inner == "" {
			return text
		}
		text = inner
	}
}
