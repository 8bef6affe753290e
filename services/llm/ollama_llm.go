// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/ollama"
)

// DefaultOllamaURL is the address of a local Ollama server.
const DefaultOllamaURL = "http://localhost:11434"

// OllamaClient calls a local Ollama server through langchaingo.
// No API key is needed.
type OllamaClient struct {
	llm    *ollama.LLM
	model  string
	logger *slog.Logger
}

// NewOllamaClient creates a client for model served at baseURL.
// An empty baseURL means DefaultOllamaURL.
func NewOllamaClient(model, baseURL string, logger *slog.Logger) (*OllamaClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = DefaultOllamaURL
	}

	llm, err := ollama.New(
		ollama.WithModel(model),
		ollama.WithServerURL(baseURL),
	)
	if err != nil {
		return nil, fmt.Errorf("ollama: creating client: %w", err)
	}
	logger.Debug("Initializing Ollama client", "model", model, "url", baseURL)
	return &OllamaClient{llm: llm, model: model, logger: logger}, nil
}

// Name implements Client.
func (c *OllamaClient) Name() string { return "ollama:" + c.model }

// Generate implements Client.
func (c *OllamaClient) Generate(ctx context.Context, req Request) (string, error) {
	c.logger.Debug("Generating text via Ollama", "model", c.model)

	var messages []llms.MessageContent
	if req.SystemInstruction != "" {
		messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem, req.SystemInstruction))
	}
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, req.Payload))

	var opts []llms.CallOption
	if req.Params.Temperature != nil {
		opts = append(opts, llms.WithTemperature(float64(*req.Params.Temperature)))
	}
	if req.Params.TopP != nil {
		opts = append(opts, llms.WithTopP(float64(*req.Params.TopP)))
	}
	if req.Params.TopK != nil {
		opts = append(opts, llms.WithTopK(*req.Params.TopK))
	}
	if req.Params.MaxTokens != nil {
		opts = append(opts, llms.WithMaxTokens(*req.Params.MaxTokens))
	}

	resp, err := c.llm.GenerateContent(ctx, messages, opts...)
	if err != nil {
		c.logger.Error("Ollama call failed", "error", err)
		return "", fmt.Errorf("%w: ollama: %w", ErrModelInvocation, err)
	}
	if resp == nil || len(resp.Choices) == 0 {
		c.logger.Warn("Ollama returned no choices")
		return "", nil
	}
	return resp.Choices[0].Content, nil
}
