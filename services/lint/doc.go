// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package lint runs ESLint over a source tree and collects the diagnostics
// that flag untranslated literal text.
//
// # Architecture
//
//	Discover (glob) → Runner (eslint --format=json) → ParseESLintOutput → Collect
//
// Discover walks the target directory and selects JavaScript and TypeScript
// sources. The Runner invokes ESLint once per batch of files and parses its
// JSON report into per-file diagnostics. Collect keeps only diagnostics whose
// message matches a predicate and groups them by file.
//
// # Severity Mapping
//
//	| ESLint severity | Severity        |
//	|-----------------|-----------------|
//	| 2               | SeverityError   |
//	| 1               | SeverityWarning |
//
// # Usage
//
//	runner, err := lint.NewRunner(lint.DefaultESLintConfig(), lint.WithLogger(logger))
//	if err != nil {
//	    return err
//	}
//	files, err := runner.Lint(ctx, dir)
//	if err != nil {
//	    return err
//	}
//	groups := lint.Collect(files, lint.LiteralStringPredicate(lint.DefaultLiteralStringMarker))
//
// # Thread Safety
//
// Runner is safe for concurrent use. Collect and ParseESLintOutput are pure.
package lint
