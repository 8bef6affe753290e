// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package config

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AleutianAI/literalkeys/services/llm"
)

func TestDefaultConfig_Valid(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("DefaultConfig().Validate() = %v", err)
	}
	if cfg.Model.Backend != "gemini" {
		t.Errorf("Model.Backend = %q, want %q", cfg.Model.Backend, "gemini")
	}
	if cfg.Model.ModelName() != "gemini-2.5-pro" {
		t.Errorf("ModelName() = %q, want %q", cfg.Model.ModelName(), "gemini-2.5-pro")
	}
	if cfg.Pipeline.Extractor != "naive" {
		t.Errorf("Pipeline.Extractor = %q, want %q", cfg.Pipeline.Extractor, "naive")
	}
	if cfg.Pipeline.SensitiveData != "warn" {
		t.Errorf("Pipeline.SensitiveData = %q, want %q", cfg.Pipeline.SensitiveData, "warn")
	}
	if cfg.Pipeline.Timeout != 0 {
		t.Errorf("Pipeline.Timeout = %v, want 0", cfg.Pipeline.Timeout)
	}
}

func TestValidate_Rejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		field  string
	}{
		{"unknown backend", func(c *Config) { c.Model.Backend = "claude" }, "model.backend"},
		{"unknown extractor", func(c *Config) { c.Pipeline.Extractor = "greedy" }, "pipeline.extractor"},
		{"unknown trace exporter", func(c *Config) { c.Telemetry.TraceExporter = "jaeger" }, "telemetry.trace_exporter"},
		{"otlp metrics unsupported", func(c *Config) { c.Telemetry.MetricExporter = "otlp" }, "telemetry.metric_exporter"},
		{"empty command", func(c *Config) { c.Lint.Command = "" }, "lint.command"},
		{"empty marker", func(c *Config) { c.Lint.Marker = "" }, "lint.marker"},
		{"zero lint timeout", func(c *Config) { c.Lint.Timeout = 0 }, "lint.timeout"},
		{"negative pipeline timeout", func(c *Config) { c.Pipeline.Timeout = -time.Second }, "pipeline.timeout"},
		{"negative concurrency", func(c *Config) { c.Lint.Concurrency = -1 }, "lint.concurrency"},
		{"unknown sensitive data mode", func(c *Config) { c.Pipeline.SensitiveData = "redact" }, "pipeline.sensitive_data"},
		{"no include", func(c *Config) { c.Lint.Include = nil }, "lint.include"},
		{"bad include glob", func(c *Config) { c.Lint.Include = []string{"["} }, "lint.include[0]"},
		{"bad exclude glob", func(c *Config) { c.Lint.Exclude = []string{"ok/*", "["} }, "lint.exclude[1]"},
		{"temperature too high", func(c *Config) { c.Model.Temperature = 2.5 }, "model.temperature"},
		{"top_p too high", func(c *Config) { c.Model.TopP = 1.5 }, "model.top_p"},
		{"negative top_k", func(c *Config) { c.Model.TopK = -1 }, "model.top_k"},
		{"zero max tokens", func(c *Config) { c.Model.MaxOutputTokens = 0 }, "model.max_output_tokens"},
		{"bad base url", func(c *Config) { c.Model.BaseURL = "not a url" }, "model.base_url"},
		{"bad otlp endpoint", func(c *Config) { c.Telemetry.OTLPEndpoint = "localhost" }, "telemetry.otlp_endpoint"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestValidate_BackendNames(t *testing.T) {
	for _, name := range llm.Backends {
		t.Run(name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.Model.Backend = name
			assert.NoError(t, cfg.Validate())
		})
	}

	cfg := DefaultConfig()
	cfg.Model.Backend = "claude"
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `model.backend: "claude" must be one of [gemini openai ollama anthropic]`)
}

func TestValidate_ReportsAllProblems(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.Backend = "x"
	cfg.Pipeline.Extractor = "y"

	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "model.backend")
	assert.Contains(t, err.Error(), "pipeline.extractor")
	assert.Equal(t, 1, strings.Count(err.Error(), "; "))
}

func TestValidate_AcceptsAlternatives(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Model.Backend = "ollama"
	cfg.Model.BaseURL = "http://localhost:11434"
	cfg.Pipeline.Extractor = "balanced"
	cfg.Telemetry.TraceExporter = "otlp"
	cfg.Telemetry.OTLPEndpoint = "collector.internal:4317"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "llama3.1", cfg.Model.ModelName())
}

func TestToLinter(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Lint.ESLintConfig = "eslint.config.mjs"
	cfg.Lint.Exclude = []string{"**/*.stories.tsx"}

	lc := cfg.Lint.ToLinter()
	assert.Equal(t, cfg.Lint.Command, lc.Command)
	assert.Equal(t, "eslint.config.mjs", lc.ConfigFile)
	assert.Equal(t, 2, lc.Concurrency)
	assert.Equal(t, cfg.Lint.Include, lc.Include)
	assert.Equal(t, []string{"**/*.stories.tsx"}, lc.Exclude)
	assert.Equal(t, cfg.Lint.Timeout, lc.Timeout)

	lc.Args[0] = "mutated"
	assert.NotEqual(t, "mutated", cfg.Lint.Args[0])
}

func TestGenerationParams(t *testing.T) {
	m := DefaultConfig().Model
	m.Temperature = 0.3
	m.TopK = 10

	p := m.GenerationParams()
	require.NotNil(t, p.Temperature)
	require.NotNil(t, p.TopK)
	require.NotNil(t, p.TopP)
	require.NotNil(t, p.MaxTokens)
	assert.InDelta(t, 0.3, *p.Temperature, 1e-6)
	assert.Equal(t, 10, *p.TopK)
	assert.InDelta(t, 0.95, *p.TopP, 1e-6)
	assert.Equal(t, 65536, *p.MaxTokens)
}

func TestToTelemetry(t *testing.T) {
	var buf bytes.Buffer
	tc := TelemetryConfig{TraceExporter: "stdout", MetricExporter: "none", OTLPEndpoint: "otel:4317"}

	cfg := tc.ToTelemetry("1.2.3", &buf)
	assert.Equal(t, "literalkeys", cfg.ServiceName)
	assert.Equal(t, "1.2.3", cfg.ServiceVersion)
	assert.Equal(t, "stdout", cfg.TraceExporter)
	assert.Equal(t, "otel:4317", cfg.OTLPEndpoint)
	assert.Same(t, &buf, cfg.Writer)

	assert.Equal(t, "dev", tc.ToTelemetry("", nil).ServiceVersion)
}
