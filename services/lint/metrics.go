// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package lint

import (
	"context"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

// Package-level tracer and meter for lint operations.
var (
	tracer = otel.Tracer("literalkeys.lint")
	meter  = otel.Meter("literalkeys.lint")
)

// Metrics for lint operations.
var (
	lintLatency      metric.Float64Histogram
	lintTotal        metric.Int64Counter
	filesLinted      metric.Int64Counter
	diagnosticsFound metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

// initMetrics initializes the metrics. Safe to call multiple times.
func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		lintLatency, err = meter.Float64Histogram(
			"lint_duration_seconds",
			metric.WithDescription("Duration of ESLint runs"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		lintTotal, err = meter.Int64Counter(
			"lint_total",
			metric.WithDescription("Total number of ESLint runs"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		filesLinted, err = meter.Int64Counter(
			"lint_files_total",
			metric.WithDescription("Total number of files passed to ESLint"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		diagnosticsFound, err = meter.Int64Counter(
			"lint_diagnostics_total",
			metric.WithDescription("Total number of diagnostics reported by ESLint"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

// startLintSpan creates a span for a lint run.
func startLintSpan(ctx context.Context, command, dir string) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Runner.Lint",
		trace.WithAttributes(
			attribute.String("lint.command", command),
			attribute.String("lint.dir", dir),
		),
	)
}

// setLintSpanResult sets the result attributes on a lint span.
func setLintSpanResult(span trace.Span, fileCount, diagnosticCount int) {
	span.SetAttributes(
		attribute.Int("lint.file_count", fileCount),
		attribute.Int("lint.diagnostic_count", diagnosticCount),
	)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

// recordLintMetrics records metrics for a lint run.
func recordLintMetrics(ctx context.Context, duration time.Duration, fileCount, diagnosticCount int, success bool) {
	if err := initMetrics(); err != nil {
		return
	}

	attrs := metric.WithAttributes(attribute.Bool("success", success))
	lintLatency.Record(ctx, duration.Seconds(), attrs)
	lintTotal.Add(ctx, 1, attrs)

	if success {
		filesLinted.Add(ctx, int64(fileCount))
		diagnosticsFound.Add(ctx, int64(diagnosticCount))
	}
}
