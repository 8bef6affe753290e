// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package translation turns literal-string diagnostics into a
// translation-key map with the help of a generative model.
//
// # Architecture
//
//	FormatPayload → llm.Client.Generate → Normalize → decode
//	                                                   │ fail
//	                                                   ▼
//	                                          Extractor.Extract → decode
//	                                                   │ fail
//	                                                   ▼
//	                                              empty Map
//
// The outcome of interpreting a response is an explicit Outcome value.
// Malformed model text never produces an error: it degrades to an empty
// map and the raw text is kept on the Outcome for inspection. Only model
// invocation and sink failures are returned as errors.
//
// # Extraction Strategies
//
//	| Name     | Behavior                                                    |
//	|----------|-------------------------------------------------------------|
//	| naive    | longest non-greedy {...} match; truncates nested objects    |
//	| balanced | longest brace-balanced object; aware of JSON string escapes |
//
// # Thread Safety
//
// Normalize, ParseResponse and the extractors are pure. A Generator
// performs one model call per Run and may be reused sequentially.
package translation
