// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

// Package llm adapts generative model backends to a single call:
// a system instruction plus one user payload in, raw response text out.
//
// Clients are constructed per run with an explicit API key and hold no
// package-level state. Every transport failure is wrapped in
// ErrModelInvocation. Response text is returned untouched; cleaning it up
// is the caller's job.
package llm

import "context"

// GenerationParams holds optional sampling settings. Nil fields use the
// backend's default.
type GenerationParams struct {
	Temperature *float32 `json:"temperature"`
	TopK        *int     `json:"top_k"`
	TopP        *float32 `json:"top_p"`
	MaxTokens   *int     `json:"max_tokens"`
}

// DefaultGenerationParams returns the sampling settings used for
// translation-key synthesis.
func DefaultGenerationParams() GenerationParams {
	return GenerationParams{
		Temperature: ptr[float32](1),
		TopK:        ptr(64),
		TopP:        ptr[float32](0.95),
		MaxTokens:   ptr(65536),
	}
}

// Request is a single-turn generation request.
type Request struct {
	// SystemInstruction sets the model's persona and output contract.
	SystemInstruction string

	// Payload is the user message, typically a JSON document.
	Payload string

	Params GenerationParams
}

// Client is the contract every backend implements.
type Client interface {
	// Name identifies the backend and model, e.g. "gemini:gemini-2.5-pro".
	Name() string

	// Generate performs exactly one model call and returns the raw text.
	// An empty response is returned as "" with a nil error.
	Generate(ctx context.Context, req Request) (string, error)
}

func ptr[T any](v T) *T { return &v }
