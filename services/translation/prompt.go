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
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/AleutianAI/literalkeys/services/lint"
)

// SystemInstruction is the model persona and output contract.
const SystemInstruction = "You are an assistant that extracts literal strings from linting error messages and converts them into translation keys and values. The output must be a JSON object where:\n" +
	"The key is a kebab-case version of the original string, prefixed with a relevant category if needed (e.g., loading-message for <loading>).\n" +
	"The value is the original string formatted for translation.\n" +
	"Ignore placeholders (e.g., {variable}) and keep them in the translated string as {variable}.\n" +
	"Use meaningful naming conventions for keys.\n" +
	"DO NOT create template strings in values. Only create simple string values, not complex templates like \"{t(\\\"category-description\\\")} is required\".\n" +
	"IMPORTANT: DO NOT USE MARKDOWN FORMATTING OR CODE BLOCKS. Return ONLY the raw JSON object without any ``` markers."

type payloadFile struct {
	FilePath string         `json:"filePath"`
	Errors   []payloadEntry `json:"errors"`
}

type payloadEntry struct {
	Message string `json:"message"`
	Line    int    `json:"line"`
	Column  int    `json:"column"`
}

// FormatPayload renders groups as the JSON document sent to the model.
//
// Description:
//
//	Only filePath, message, line and column are included; severity and
//	ruleId are dropped. Output is 2-space indented with HTML escaping
//	disabled so markup in messages reaches the model verbatim. Equal
//	input always yields byte-identical output.
//
// Inputs:
//
//	groups - Collected diagnostics
//
// Outputs:
//
//	string - The JSON payload, without a trailing newline
//	error - Non-nil only if encoding fails
func FormatPayload(groups []lint.DiagnosticGroup) (string, error) {
	files := make([]payloadFile, 0, len(groups))
	for _, g := range groups {
		entries := make([]payloadEntry, 0, len(g.Diagnostics))
		for _, d := range g.Diagnostics {
			entries = append(entries, payloadEntry{
				Message: d.Message,
				Line:    d.Line,
				Column:  d.Column,
			})
		}
		files = append(files, payloadFile{FilePath: g.FilePath, Errors: entries})
	}

	data, err := marshalIndentNoEscape(files)
	if err != nil {
		return "", fmt.Errorf("formatting payload: %w", err)
	}
	return string(bytes.TrimRight(data, "\n")), nil
}

// marshalIndentNoEscape encodes v with 2-space indentation and without
// escaping <, > and &. The result ends with a newline.
func marshalIndentNoEscape(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
