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

	"google.golang.org/genai"
)

// GeminiClient calls the Gemini API through the official genai SDK.
type GeminiClient struct {
	cli    *genai.Client
	model  string
	logger *slog.Logger
}

// NewGeminiClient creates a client for model authenticated with apiKey.
// baseURL overrides the API endpoint and is empty in production.
func NewGeminiClient(ctx context.Context, apiKey, model, baseURL string, logger *slog.Logger) (*GeminiClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("gemini: %w", ErrMissingAPIKey)
	}
	if logger == nil {
		logger = slog.Default()
	}

	cfg := &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	}
	if baseURL != "" {
		cfg.HTTPOptions = genai.HTTPOptions{BaseURL: baseURL}
	}

	cli, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}
	logger.Debug("Initializing Gemini client", "model", model)
	return &GeminiClient{cli: cli, model: model, logger: logger}, nil
}

// Name implements Client.
func (g *GeminiClient) Name() string { return "gemini:" + g.model }

// Generate implements Client.
func (g *GeminiClient) Generate(ctx context.Context, req Request) (string, error) {
	g.logger.Debug("Generating text via Gemini", "model", g.model, "payload_bytes", len(req.Payload))

	config := &genai.GenerateContentConfig{}
	if req.SystemInstruction != "" {
		config.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.Params.Temperature != nil {
		config.Temperature = genai.Ptr(*req.Params.Temperature)
	}
	if req.Params.TopP != nil {
		config.TopP = genai.Ptr(*req.Params.TopP)
	}
	if req.Params.TopK != nil {
		config.TopK = genai.Ptr(float32(*req.Params.TopK))
	}
	if req.Params.MaxTokens != nil {
		config.MaxOutputTokens = int32(*req.Params.MaxTokens)
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model, genai.Text(req.Payload), config)
	if err != nil {
		g.logger.Error("Gemini API call failed", "error", err)
		return "", fmt.Errorf("%w: gemini: %w", ErrModelInvocation, err)
	}

	text := resp.Text()
	if text == "" {
		g.logger.Warn("Gemini returned no text", "model", g.model)
	}
	return text, nil
}
