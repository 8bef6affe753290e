// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import "errors"

var (
	// ErrModelInvocation wraps any failure to obtain a response from a backend.
	ErrModelInvocation = errors.New("model invocation failed")

	// ErrMissingAPIKey indicates no credential was found for a backend that needs one.
	ErrMissingAPIKey = errors.New("api key not provided")

	// ErrUnknownBackend indicates an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown model backend")
)
