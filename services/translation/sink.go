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
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// Sink persists a translation map.
type Sink interface {
	Write(m Map) error
	// Describe names the destination for log messages.
	Describe() string
}

// Encode serializes m as 2-space indented JSON with sorted keys, no HTML
// escaping and a trailing newline. A nil map encodes as {}.
func Encode(m Map) ([]byte, error) {
	if m == nil {
		m = Map{}
	}
	return marshalIndentNoEscape(m)
}

// FileSink writes the map to a file, creating parent directories.
type FileSink struct {
	Path string
}

// Describe implements Sink.
func (s FileSink) Describe() string { return s.Path }

// Write implements Sink.
//
// Missing parent directories are created with mode 0755. An existing
// file is overwritten in place.
func (s FileSink) Write(m Map) error {
	if s.Path == "" {
		return fmt.Errorf("%w: %w: empty output path", ErrSinkWrite, ErrInvalidInput)
	}
	data, err := Encode(m)
	if err != nil {
		return fmt.Errorf("%w: encoding: %w", ErrSinkWrite, err)
	}
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return fmt.Errorf("%w: creating directory: %w", ErrSinkWrite, err)
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	return nil
}

// WriterSink writes the map to an io.Writer such as stdout.
type WriterSink struct {
	W io.Writer
}

// Describe implements Sink.
func (s WriterSink) Describe() string { return "stdout" }

// Write implements Sink.
func (s WriterSink) Write(m Map) error {
	data, err := Encode(m)
	if err != nil {
		return fmt.Errorf("%w: encoding: %w", ErrSinkWrite, err)
	}
	if _, err := s.W.Write(data); err != nil {
		return fmt.Errorf("%w: %w", ErrSinkWrite, err)
	}
	return nil
}

// ReadMapFile loads a map previously written by FileSink.
func ReadMapFile(path string) (Map, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var m Map
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	if m == nil {
		m = Map{}
	}
	return m, nil
}
