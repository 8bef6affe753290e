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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/literalkeys/services/lint"
	"github.com/AleutianAI/literalkeys/services/llm"
	"github.com/AleutianAI/literalkeys/services/policy"
)

// fakeClient records requests and returns a canned response.
type fakeClient struct {
	response string
	err      error
	requests []llm.Request
}

func (f *fakeClient) Name() string { return "fake" }

func (f *fakeClient) Generate(_ context.Context, req llm.Request) (string, error) {
	f.requests = append(f.requests, req)
	return f.response, f.err
}

// memorySink keeps the last written map.
type memorySink struct {
	written []Map
	err     error
}

func (m *memorySink) Describe() string { return "memory" }

func (m *memorySink) Write(mp Map) error {
	if m.err != nil {
		return m.err
	}
	m.written = append(m.written, mp)
	return nil
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewGenerator_Validation(t *testing.T) {
	_, err := NewGenerator(nil, &memorySink{})
	assert.True(t, errors.Is(err, ErrInvalidInput))

	_, err = NewGenerator(&fakeClient{}, nil)
	assert.True(t, errors.Is(err, ErrInvalidInput))
}

func TestGenerator_Run(t *testing.T) {
	ctx := context.Background()

	t.Run("single model call with payload and instruction", func(t *testing.T) {
		client := &fakeClient{response: "```json\n{\"submit-button\": \"Submit\"}\n```"}
		sink := &memorySink{}
		gen, err := NewGenerator(client, sink, WithLogger(quietLogger()))
		require.NoError(t, err)

		out, err := gen.Run(ctx, sampleGroups())
		require.NoError(t, err)

		require.Len(t, client.requests, 1)
		req := client.requests[0]
		assert.Equal(t, SystemInstruction, req.SystemInstruction)
		want, err := FormatPayload(sampleGroups())
		require.NoError(t, err)
		assert.Equal(t, want, req.Payload)
		assert.Equal(t, llm.DefaultGenerationParams(), req.Params)

		assert.Equal(t, StageDirect, out.Stage)
		require.Len(t, sink.written, 1)
		assert.Equal(t, Map{"submit-button": "Submit"}, sink.written[0])
	})

	t.Run("custom params are forwarded", func(t *testing.T) {
		client := &fakeClient{response: "{}"}
		temp := float32(0.2)
		params := llm.GenerationParams{Temperature: &temp}
		gen, err := NewGenerator(client, &memorySink{}, WithParams(params), WithLogger(quietLogger()))
		require.NoError(t, err)

		_, err = gen.Run(ctx, sampleGroups())
		require.NoError(t, err)
		require.Len(t, client.requests, 1)
		assert.Equal(t, params, client.requests[0].Params)
	})

	t.Run("unparseable response writes empty map", func(t *testing.T) {
		client := &fakeClient{response: "I cannot do that."}
		sink := &memorySink{}
		gen, err := NewGenerator(client, sink, WithLogger(quietLogger()))
		require.NoError(t, err)

		out, err := gen.Run(ctx, sampleGroups())
		require.NoError(t, err)
		assert.Equal(t, StageEmpty, out.Stage)
		assert.Equal(t, ReasonNoCandidate, out.Reason)
		require.Len(t, sink.written, 1)
		assert.Equal(t, Map{}, sink.written[0])
	})

	t.Run("extractor option is used", func(t *testing.T) {
		client := &fakeClient{response: `Result: {"greeting": "Hello {name}"} done`}
		sink := &memorySink{}
		gen, err := NewGenerator(client, sink, WithExtractor(BalancedExtractor{}), WithLogger(quietLogger()))
		require.NoError(t, err)

		out, err := gen.Run(ctx, sampleGroups())
		require.NoError(t, err)
		assert.Equal(t, StageExtracted, out.Stage)
		assert.Equal(t, Map{"greeting": "Hello {name}"}, sink.written[0])
	})

	t.Run("no groups skips the model", func(t *testing.T) {
		client := &fakeClient{response: `{"x": "y"}`}
		sink := &memorySink{}
		gen, err := NewGenerator(client, sink, WithLogger(quietLogger()))
		require.NoError(t, err)

		out, err := gen.Run(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, client.requests)
		assert.Equal(t, ReasonNoDiagnostics, out.Reason)
		require.Len(t, sink.written, 1)
		assert.Equal(t, Map{}, sink.written[0])
	})

	t.Run("model failure is fatal and nothing is written", func(t *testing.T) {
		client := &fakeClient{err: fmt.Errorf("%w: quota exceeded", llm.ErrModelInvocation)}
		sink := &memorySink{}
		gen, err := NewGenerator(client, sink, WithLogger(quietLogger()))
		require.NoError(t, err)

		_, err = gen.Run(ctx, sampleGroups())
		require.Error(t, err)
		assert.True(t, errors.Is(err, llm.ErrModelInvocation))
		assert.Empty(t, sink.written)
	})

	t.Run("sink failure is returned", func(t *testing.T) {
		client := &fakeClient{response: `{"a": "b"}`}
		sink := &memorySink{err: fmt.Errorf("%w: read-only", ErrSinkWrite)}
		gen, err := NewGenerator(client, sink, WithLogger(quietLogger()))
		require.NoError(t, err)

		out, err := gen.Run(ctx, sampleGroups())
		assert.True(t, errors.Is(err, ErrSinkWrite))
		assert.Equal(t, Map{"a": "b"}, out.Map)
	})

	t.Run("file sink round trip", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "locales", "en", "translation.json")
		client := &fakeClient{response: `{"welcome-message": "Welcome, {name}!", "terms-link": "Terms & <b>Conditions</b>"}`}
		gen, err := NewGenerator(client, FileSink{Path: path}, WithLogger(quietLogger()))
		require.NoError(t, err)

		out, err := gen.Run(ctx, sampleGroups())
		require.NoError(t, err)

		got, err := ReadMapFile(path)
		require.NoError(t, err)
		assert.Equal(t, out.Map, got)
	})
}

func TestGenerator_Guard(t *testing.T) {
	ctx := context.Background()
	engine, err := policy.New()
	require.NoError(t, err)

	leaky := []lint.DiagnosticGroup{{
		FilePath: "src/Debug.tsx",
		Diagnostics: []lint.Diagnostic{
			{Message: "disallow literal string: 'AKIA1234567890123456'", Line: 3, Column: 9},
		},
	}}

	t.Run("block refuses the model call", func(t *testing.T) {
		client := &fakeClient{response: `{"a": "b"}`}
		sink := &memorySink{}
		gen, err := NewGenerator(client, sink, WithLogger(quietLogger()), WithGuard(engine, GuardBlock))
		require.NoError(t, err)

		_, err = gen.Run(ctx, leaky)
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrSensitiveContent))
		assert.Contains(t, err.Error(), "AWS_ACCESS_KEY_ID")
		assert.Empty(t, client.requests)
		assert.Empty(t, sink.written)
	})

	t.Run("warn still calls the model", func(t *testing.T) {
		client := &fakeClient{response: `{"a": "b"}`}
		sink := &memorySink{}
		gen, err := NewGenerator(client, sink, WithLogger(quietLogger()), WithGuard(engine, GuardWarn))
		require.NoError(t, err)

		_, err = gen.Run(ctx, leaky)
		require.NoError(t, err)
		assert.Len(t, client.requests, 1)
	})

	t.Run("clean payload passes block", func(t *testing.T) {
		client := &fakeClient{response: `{"a": "b"}`}
		gen, err := NewGenerator(client, &memorySink{}, WithLogger(quietLogger()), WithGuard(engine, GuardBlock))
		require.NoError(t, err)

		_, err = gen.Run(ctx, sampleGroups())
		require.NoError(t, err)
		assert.Len(t, client.requests, 1)
	})

	t.Run("off skips scanning", func(t *testing.T) {
		client := &fakeClient{response: `{"a": "b"}`}
		gen, err := NewGenerator(client, &memorySink{}, WithLogger(quietLogger()), WithGuard(engine, GuardOff))
		require.NoError(t, err)

		_, err = gen.Run(ctx, leaky)
		require.NoError(t, err)
	})
}
