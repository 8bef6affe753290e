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
	"fmt"
	"log/slog"
	"time"

	"github.com/AleutianAI/literalkeys/services/lint"
	"github.com/AleutianAI/literalkeys/services/llm"
	"github.com/AleutianAI/literalkeys/services/policy"
)

// Scanner inspects the outgoing payload for sensitive content.
// *policy.Engine implements it.
type Scanner interface {
	Scan(content string) []policy.Finding
}

// GuardMode says what to do when the payload has findings.
type GuardMode string

const (
	// GuardOff skips scanning.
	GuardOff GuardMode = "off"
	// GuardWarn logs findings and sends the payload anyway.
	GuardWarn GuardMode = "warn"
	// GuardBlock refuses to call the model.
	GuardBlock GuardMode = "block"
)

// Generator runs the diagnostics-to-translations pipeline for one run.
//
// Description:
//
//	All collaborators are supplied at construction. Run formats the
//	payload, makes exactly one model call, interprets the response and
//	writes the resulting map to the sink.
//
// Thread Safety: Not safe for concurrent Run calls sharing one Sink.
type Generator struct {
	client    llm.Client
	sink      Sink
	extractor Extractor
	params    llm.GenerationParams
	logger    *slog.Logger
	scanner   Scanner
	guard     GuardMode
}

// Option configures a Generator.
type Option func(*Generator)

// WithExtractor sets the fallback extractor. Default: NaiveExtractor.
func WithExtractor(ex Extractor) Option {
	return func(g *Generator) {
		if ex != nil {
			g.extractor = ex
		}
	}
}

// WithParams sets the sampling parameters. Default: llm.DefaultGenerationParams().
func WithParams(p llm.GenerationParams) Option {
	return func(g *Generator) {
		g.params = p
	}
}

// WithGuard scans each payload with s before the model call. Default: no
// scanning.
func WithGuard(s Scanner, mode GuardMode) Option {
	return func(g *Generator) {
		g.scanner = s
		g.guard = mode
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		if logger != nil {
			g.logger = logger
		}
	}
}

// NewGenerator creates a Generator.
//
// Inputs:
//
//	client - Model backend
//	sink - Destination for the translation map
//	opts - Optional configuration
//
// Outputs:
//
//	*Generator - The configured generator
//	error - Wraps ErrInvalidInput if client or sink is nil
func NewGenerator(client llm.Client, sink Sink, opts ...Option) (*Generator, error) {
	if client == nil {
		return nil, fmt.Errorf("%w: client must not be nil", ErrInvalidInput)
	}
	if sink == nil {
		return nil, fmt.Errorf("%w: sink must not be nil", ErrInvalidInput)
	}
	g := &Generator{
		client:    client,
		sink:      sink,
		extractor: NaiveExtractor{},
		params:    llm.DefaultGenerationParams(),
		logger:    slog.Default(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g, nil
}

// Run turns groups into a translation map and writes it to the sink.
//
// Description:
//
//	With no groups the model is not called and an empty map is written.
//	An unusable model response is not an error: the Outcome is StageEmpty,
//	the raw text is logged at WARN and an empty map is written.
//
// Inputs:
//
//	ctx - Context for the model call
//	groups - Collected literal-string diagnostics
//
// Outputs:
//
//	Outcome - How the response was interpreted; Map is what was written
//	error - Wraps llm.ErrModelInvocation, ErrSensitiveContent or ErrSinkWrite
func (g *Generator) Run(ctx context.Context, groups []lint.DiagnosticGroup) (Outcome, error) {
	diagnostics := 0
	for _, grp := range groups {
		diagnostics += len(grp.Diagnostics)
	}

	ctx, span := startRunSpan(ctx, g.client.Name(), len(groups), diagnostics)
	defer span.End()

	var outcome Outcome
	if len(groups) == 0 {
		g.logger.Info("no literal strings found; skipping model call")
		outcome = Outcome{Map: Map{}, Stage: StageEmpty, Reason: ReasonNoDiagnostics}
	} else {
		raw, err := g.generate(ctx, groups, diagnostics)
		if err != nil {
			recordSpanError(span, err)
			return Outcome{Map: Map{}, Stage: StageEmpty}, err
		}
		outcome = ParseResponse(raw, g.extractor)
		g.logOutcome(outcome)
		recordOutcome(ctx, diagnostics, outcome)
	}
	setRunSpanOutcome(span, outcome)

	if err := g.sink.Write(outcome.Map); err != nil {
		recordSpanError(span, err)
		return outcome, err
	}
	g.logger.Info("translations written",
		slog.String("destination", g.sink.Describe()),
		slog.Int("keys", len(outcome.Map)),
	)
	return outcome, nil
}

func (g *Generator) generate(ctx context.Context, groups []lint.DiagnosticGroup, diagnostics int) (string, error) {
	payload, err := FormatPayload(groups)
	if err != nil {
		return "", err
	}
	if err := g.inspect(payload); err != nil {
		return "", err
	}

	g.logger.Info("requesting translation keys",
		slog.String("model", g.client.Name()),
		slog.Int("files", len(groups)),
		slog.Int("diagnostics", diagnostics),
	)

	start := time.Now()
	raw, err := g.client.Generate(ctx, llm.Request{
		SystemInstruction: SystemInstruction,
		Payload:           payload,
		Params:            g.params,
	})
	recordModelLatency(ctx, g.client.Name(), time.Since(start), err == nil)
	if err != nil {
		return "", fmt.Errorf("generating translations: %w", err)
	}

	g.logger.Debug("model responded",
		slog.Duration("duration", time.Since(start)),
		slog.Int("response_bytes", len(raw)),
	)
	return raw, nil
}

// inspect applies the guard to payload.
func (g *Generator) inspect(payload string) error {
	if g.scanner == nil || g.guard == GuardOff || g.guard == "" {
		return nil
	}
	findings := g.scanner.Scan(payload)
	for _, f := range findings {
		g.logger.Warn("sensitive content in payload",
			slog.String("classification", f.Classification),
			slog.String("pattern", f.PatternID),
			slog.String("match", f.Masked()),
			slog.Int("payload_line", f.Line),
		)
	}
	if len(findings) > 0 && g.guard == GuardBlock {
		return fmt.Errorf("%w: %d finding(s), first %s", ErrSensitiveContent, len(findings), findings[0].PatternID)
	}
	return nil
}

func (g *Generator) logOutcome(o Outcome) {
	switch o.Stage {
	case StageDirect:
		g.logger.Debug("parsed model response", slog.Int("keys", len(o.Map)))
	case StageExtracted:
		g.logger.Info("model response was not pure JSON; recovered embedded object",
			slog.String("extractor", g.extractor.Name()),
			slog.Int("keys", len(o.Map)),
		)
	case StageEmpty:
		g.logger.Warn("could not parse model response; writing empty map",
			slog.String("reason", o.Reason.String()),
			slog.String("raw_response", o.Raw),
		)
	}
}
