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
	"os"
	"path/filepath"
	"strings"
)

// Backend names.
const (
	BackendGemini    = "gemini"
	BackendOpenAI    = "openai"
	BackendOllama    = "ollama"
	BackendAnthropic = "anthropic"
)

// Backends lists every supported backend name.
var Backends = []string{BackendGemini, BackendOpenAI, BackendOllama, BackendAnthropic}

// defaultModels maps each backend to the model used when none is configured.
var defaultModels = map[string]string{
	BackendGemini:    "gemini-2.5-pro",
	BackendOpenAI:    "gpt-4o-mini",
	BackendOllama:    "llama3.1",
	BackendAnthropic: "claude-3-5-sonnet-20240620",
}

// apiKeyEnvVars lists, in priority order, the environment variables
// consulted for each backend's credential.
var apiKeyEnvVars = map[string][]string{
	BackendGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
	BackendOpenAI:    {"OPENAI_API_KEY"},
	BackendAnthropic: {"ANTHROPIC_API_KEY"},
}

// secretsDir holds Podman/Docker secrets named "<backend>_api_key".
var secretsDir = "/run/secrets"

// Config selects and configures a backend.
type Config struct {
	Backend string
	Model   string
	APIKey  string
	BaseURL string
}

// DefaultModel returns the default model for backend, or "" if unknown.
func DefaultModel(backend string) string {
	return defaultModels[backend]
}

// RequiresAPIKey reports whether backend needs a credential.
func RequiresAPIKey(backend string) bool {
	_, ok := apiKeyEnvVars[backend]
	return ok
}

// APIKeyEnvVars returns the environment variables consulted for backend.
func APIKeyEnvVars(backend string) []string {
	return append([]string(nil), apiKeyEnvVars[backend]...)
}

// ResolveAPIKey finds the credential for backend.
//
// Description:
//
//	Resolution order is the explicit value, then the backend's
//	environment variables, then the secrets file
//	/run/secrets/<backend>_api_key. Whitespace is trimmed.
//
// Inputs:
//
//	backend - Backend name
//	explicit - Value from a flag or config; may be empty
//
// Outputs:
//
//	string - The API key; "" for backends that need none
//	error - Wraps ErrMissingAPIKey when a required key is absent,
//	        ErrUnknownBackend for an unsupported backend
func ResolveAPIKey(backend, explicit string) (string, error) {
	if !isKnownBackend(backend) {
		return "", fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
	if key := strings.TrimSpace(explicit); key != "" {
		return key, nil
	}
	if !RequiresAPIKey(backend) {
		return "", nil
	}

	for _, name := range apiKeyEnvVars[backend] {
		if key := strings.TrimSpace(os.Getenv(name)); key != "" {
			return key, nil
		}
	}

	secretPath := filepath.Join(secretsDir, backend+"_api_key")
	if data, err := os.ReadFile(secretPath); err == nil {
		if key := strings.TrimSpace(string(data)); key != "" {
			slog.Debug("Read API key from secrets file", "path", secretPath)
			return key, nil
		}
	}

	return "", fmt.Errorf("%w: set --api-key or %s", ErrMissingAPIKey,
		strings.Join(apiKeyEnvVars[backend], " / "))
}

// New constructs the Client described by cfg.
//
// Inputs:
//
//	ctx - Context for client construction
//	cfg - Backend selection. An empty Model uses DefaultModel.
//	logger - Logger; nil means slog.Default()
//
// Outputs:
//
//	Client - A ready client
//	error - ErrUnknownBackend, ErrMissingAPIKey, or a construction failure
func New(ctx context.Context, cfg Config, logger *slog.Logger) (Client, error) {
	model := cfg.Model
	if model == "" {
		model = DefaultModel(cfg.Backend)
	}

	switch cfg.Backend {
	case BackendGemini:
		return NewGeminiClient(ctx, cfg.APIKey, model, cfg.BaseURL, logger)
	case BackendOpenAI:
		return NewOpenAIClient(cfg.APIKey, model, cfg.BaseURL, logger)
	case BackendOllama:
		return NewOllamaClient(model, cfg.BaseURL, logger)
	case BackendAnthropic:
		return NewAnthropicClient(cfg.APIKey, model, cfg.BaseURL, logger)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, cfg.Backend)
	}
}

func isKnownBackend(backend string) bool {
	_, ok := defaultModels[backend]
	return ok
}
