// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

const (
	anthropicAPIVersion     = "2023-06-01"
	anthropicDefaultBaseURL = "https://api.anthropic.com"

	// anthropicMaxTokens caps max_tokens; the Messages API rejects
	// values above the model's output limit.
	anthropicMaxTokens = 8192
)

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float32           `json:"temperature,omitempty"`
	TopP        *float32           `json:"top_p,omitempty"`
	TopK        *int               `json:"top_k,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	ID         string             `json:"id"`
	Content    []anthropicContent `json:"content"`
	StopReason string             `json:"stop_reason"`
	Error      *anthropicError    `json:"error,omitempty"`
}

type anthropicContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// AnthropicClient calls the Anthropic Messages API over plain HTTP.
type AnthropicClient struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	logger     *slog.Logger
}

// NewAnthropicClient creates a client for model authenticated with apiKey.
// An empty baseURL targets api.anthropic.com.
func NewAnthropicClient(apiKey, model, baseURL string, logger *slog.Logger) (*AnthropicClient, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("anthropic: %w", ErrMissingAPIKey)
	}
	if logger == nil {
		logger = slog.Default()
	}
	if baseURL == "" {
		baseURL = anthropicDefaultBaseURL
	}
	logger.Debug("Initializing Anthropic client", "model", model)
	return &AnthropicClient{
		httpClient: &http.Client{Timeout: 5 * time.Minute},
		endpoint:   strings.TrimRight(baseURL, "/") + "/v1/messages",
		apiKey:     apiKey,
		model:      model,
		logger:     logger,
	}, nil
}

// Name implements Client.
func (a *AnthropicClient) Name() string { return "anthropic:" + a.model }

// Generate implements Client. Text blocks of the response are concatenated.
func (a *AnthropicClient) Generate(ctx context.Context, req Request) (string, error) {
	payload := anthropicRequest{
		Model:       a.model,
		Messages:    []anthropicMessage{{Role: "user", Content: req.Payload}},
		System:      req.SystemInstruction,
		MaxTokens:   anthropicMaxTokens,
		Temperature: req.Params.Temperature,
		TopP:        req.Params.TopP,
		TopK:        req.Params.TopK,
	}
	if req.Params.MaxTokens != nil && *req.Params.MaxTokens < anthropicMaxTokens {
		payload.MaxTokens = *req.Params.MaxTokens
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: marshal request: %w", ErrModelInvocation, err)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, a.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: %w", ErrModelInvocation, err)
	}
	httpReq.Header.Set("x-api-key", a.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicAPIVersion)
	httpReq.Header.Set("content-type", "application/json")

	a.logger.Debug("Generating text via Anthropic", "model", a.model)
	resp, err := a.httpClient.Do(httpReq)
	if err != nil {
		a.logger.Error("Anthropic API call failed", "error", err)
		return "", fmt.Errorf("%w: anthropic: %w", ErrModelInvocation, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: anthropic: read response: %w", ErrModelInvocation, err)
	}

	var apiResp anthropicResponse
	decodeErr := json.Unmarshal(raw, &apiResp)
	if resp.StatusCode != http.StatusOK {
		if decodeErr == nil && apiResp.Error != nil {
			return "", fmt.Errorf("%w: anthropic: status %d: %s: %s", ErrModelInvocation,
				resp.StatusCode, apiResp.Error.Type, apiResp.Error.Message)
		}
		return "", fmt.Errorf("%w: anthropic: status %d", ErrModelInvocation, resp.StatusCode)
	}
	if decodeErr != nil {
		return "", fmt.Errorf("%w: anthropic: decode response: %w", ErrModelInvocation, decodeErr)
	}

	var sb strings.Builder
	for _, block := range apiResp.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	a.logger.Debug("Received response from Anthropic", "stop_reason", apiResp.StopReason)
	return sb.String(), nil
}
