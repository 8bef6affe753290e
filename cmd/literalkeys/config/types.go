// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config holds the typed, validated settings for literalkeys.
//
// Settings come from DefaultConfig, then an optional .literalkeys.yaml,
// then command-line flags. Validate runs last and rejects anything outside
// the enumerated options.
package config

import (
	"io"
	"time"

	"github.com/AleutianAI/literalkeys/pkg/telemetry"
	"github.com/AleutianAI/literalkeys/services/lint"
	"github.com/AleutianAI/literalkeys/services/llm"
	"github.com/AleutianAI/literalkeys/services/translation"
)

// FileName is the config file searched for when --config is not given.
const FileName = ".literalkeys.yaml"

type Config struct {
	// Lint: how ESLint is invoked and which diagnostics are kept
	Lint LintConfig `yaml:"lint"`

	// Model: backend and sampling settings for key generation
	Model ModelConfig `yaml:"model"`

	// Pipeline: response recovery and run limits
	Pipeline PipelineConfig `yaml:"pipeline"`

	// Telemetry: OpenTelemetry exporters
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// LintConfig controls ESLint discovery and invocation. Marker is the
// message fragment that identifies literal-string diagnostics. A zero
// BatchSize or Concurrency uses the runner default.
type LintConfig struct {
	Command      string        `yaml:"command" validate:"required"`
	Args         []string      `yaml:"args"`
	ESLintConfig string        `yaml:"eslint_config,omitempty"`
	Include      []string      `yaml:"include" validate:"min=1,dive,required,glob"`
	Exclude      []string      `yaml:"exclude" validate:"dive,required,glob"`
	Timeout      time.Duration `yaml:"timeout" validate:"gt=0"`
	BatchSize    int           `yaml:"batch_size" validate:"gte=0"`
	Concurrency  int           `yaml:"concurrency" validate:"gte=0"`
	Marker       string        `yaml:"marker" validate:"required"`
}

// ModelConfig selects the backend. An empty Name selects the backend's
// default model; BaseURL points at a compatible endpoint or Ollama host.
type ModelConfig struct {
	Backend         string  `yaml:"backend" validate:"backend"`
	Name            string  `yaml:"name,omitempty"`
	BaseURL         string  `yaml:"base_url,omitempty" validate:"omitempty,url"`
	Temperature     float32 `yaml:"temperature" validate:"gte=0,lte=2"`
	TopP            float32 `yaml:"top_p" validate:"gte=0,lte=1"`
	TopK            int     `yaml:"top_k" validate:"gte=0"`
	MaxOutputTokens int     `yaml:"max_output_tokens" validate:"gt=0"`
}

// PipelineConfig: a zero Timeout means the model call is not bounded.
// SensitiveData controls the payload scan for secrets and personal data.
type PipelineConfig struct {
	Extractor     string        `yaml:"extractor" validate:"oneof=naive balanced"`
	Timeout       time.Duration `yaml:"timeout" validate:"gte=0"`
	SensitiveData string        `yaml:"sensitive_data" validate:"oneof=off warn block"`
}

type TelemetryConfig struct {
	TraceExporter  string `yaml:"trace_exporter" validate:"oneof=none stdout otlp"`
	MetricExporter string `yaml:"metric_exporter" validate:"oneof=none stdout"`
	OTLPEndpoint   string `yaml:"otlp_endpoint" validate:"omitempty,hostname_port"`
	OTLPInsecure   bool   `yaml:"otlp_insecure"`
}

// DefaultConfig returns the settings used when no file or flag overrides
// them.
func DefaultConfig() Config {
	linter := lint.DefaultESLintConfig()
	params := llm.DefaultGenerationParams()
	tel := telemetry.DefaultConfig()

	return Config{
		Lint: LintConfig{
			Command:     linter.Command,
			Args:        linter.Args,
			Include:     linter.Include,
			Exclude:     []string{},
			Timeout:     linter.Timeout,
			BatchSize:   linter.BatchSize,
			Concurrency: linter.Concurrency,
			Marker:      lint.DefaultLiteralStringMarker,
		},
		Model: ModelConfig{
			Backend:         llm.BackendGemini,
			Temperature:     *params.Temperature,
			TopP:            *params.TopP,
			TopK:            *params.TopK,
			MaxOutputTokens: *params.MaxTokens,
		},
		Pipeline: PipelineConfig{
			Extractor:     translation.ExtractorNaive,
			SensitiveData: string(translation.GuardWarn),
		},
		Telemetry: TelemetryConfig{
			TraceExporter:  tel.TraceExporter,
			MetricExporter: tel.MetricExporter,
			OTLPEndpoint:   tel.OTLPEndpoint,
			OTLPInsecure:   tel.OTLPInsecure,
		},
	}
}

// ToLinter converts the lint section for lint.NewRunner.
func (c LintConfig) ToLinter() lint.LinterConfig {
	return lint.LinterConfig{
		Command:     c.Command,
		Args:        append([]string(nil), c.Args...),
		ConfigFile:  c.ESLintConfig,
		Include:     append([]string(nil), c.Include...),
		Exclude:     append([]string(nil), c.Exclude...),
		Timeout:     c.Timeout,
		BatchSize:   c.BatchSize,
		Concurrency: c.Concurrency,
	}
}

// ModelName returns Name, or the backend default when Name is empty.
func (c ModelConfig) ModelName() string {
	if c.Name != "" {
		return c.Name
	}
	return llm.DefaultModel(c.Backend)
}

// GenerationParams converts the sampling settings.
func (c ModelConfig) GenerationParams() llm.GenerationParams {
	temperature := c.Temperature
	topP := c.TopP
	topK := c.TopK
	maxTokens := c.MaxOutputTokens
	return llm.GenerationParams{
		Temperature: &temperature,
		TopP:        &topP,
		TopK:        &topK,
		MaxTokens:   &maxTokens,
	}
}

// ToTelemetry converts the telemetry section for telemetry.Init.
func (c TelemetryConfig) ToTelemetry(version string, w io.Writer) telemetry.Config {
	cfg := telemetry.DefaultConfig()
	if version != "" {
		cfg.ServiceVersion = version
	}
	cfg.TraceExporter = c.TraceExporter
	cfg.MetricExporter = c.MetricExporter
	cfg.OTLPEndpoint = c.OTLPEndpoint
	cfg.OTLPInsecure = c.OTLPInsecure
	cfg.Writer = w
	return cfg
}
