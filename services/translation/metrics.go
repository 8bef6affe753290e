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
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

var (
	tracer = otel.Tracer("literalkeys.translation")
	meter  = otel.Meter("literalkeys.translation")
)

var (
	modelLatency      metric.Float64Histogram
	outcomesTotal     metric.Int64Counter
	keysGenerated     metric.Int64Counter
	literalsSubmitted metric.Int64Counter

	metricsOnce sync.Once
	metricsErr  error
)

func initMetrics() error {
	metricsOnce.Do(func() {
		var err error

		modelLatency, err = meter.Float64Histogram(
			"translation_model_duration_seconds",
			metric.WithDescription("Duration of model calls"),
			metric.WithUnit("s"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		outcomesTotal, err = meter.Int64Counter(
			"translation_outcomes_total",
			metric.WithDescription("Model responses by interpretation stage"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		keysGenerated, err = meter.Int64Counter(
			"translation_keys_total",
			metric.WithDescription("Translation keys produced"),
		)
		if err != nil {
			metricsErr = err
			return
		}

		literalsSubmitted, err = meter.Int64Counter(
			"translation_literals_submitted_total",
			metric.WithDescription("Literal-string diagnostics sent to the model"),
		)
		if err != nil {
			metricsErr = err
			return
		}
	})
	return metricsErr
}

func startRunSpan(ctx context.Context, model string, groups, diagnostics int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "Generator.Run",
		trace.WithAttributes(
			attribute.String("translation.model", model),
			attribute.Int("translation.file_count", groups),
			attribute.Int("translation.diagnostic_count", diagnostics),
		),
	)
}

func setRunSpanOutcome(span trace.Span, o Outcome) {
	span.SetAttributes(
		attribute.String("translation.stage", o.Stage.String()),
		attribute.String("translation.reason", o.Reason.String()),
		attribute.Int("translation.key_count", len(o.Map)),
	)
}

func recordSpanError(span trace.Span, err error) {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
}

func recordModelLatency(ctx context.Context, model string, duration time.Duration, success bool) {
	if err := initMetrics(); err != nil {
		return
	}
	modelLatency.Record(ctx, duration.Seconds(), metric.WithAttributes(
		attribute.String("model", model),
		attribute.Bool("success", success),
	))
}

func recordOutcome(ctx context.Context, diagnostics int, o Outcome) {
	if err := initMetrics(); err != nil {
		return
	}
	literalsSubmitted.Add(ctx, int64(diagnostics))
	outcomesTotal.Add(ctx, 1, metric.WithAttributes(
		attribute.String("stage", o.Stage.String()),
		attribute.String("reason", o.Reason.String()),
	))
	keysGenerated.Add(ctx, int64(len(o.Map)))
}
