package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/prepdeck/backend/internal/metrics"
)

// telemetryProvider records a structured log line and metrics counters
// per provider call. Emitting telemetry is the only side effect besides
// the network call itself.
type telemetryProvider struct {
	inner   Provider
	logger  *slog.Logger
	metrics *metrics.Metrics
}

// WithTelemetry wraps a Provider with per-call logging and metrics.
func WithTelemetry(p Provider, logger *slog.Logger, m *metrics.Metrics) Provider {
	return &telemetryProvider{inner: p, logger: logger, metrics: m}
}

func (t *telemetryProvider) Generate(ctx context.Context, req Request) (*Response, error) {
	start := time.Now()
	resp, err := t.inner.Generate(ctx, req)
	latency := time.Since(start)

	t.metrics.RecordProviderCall(latency, err == nil)

	attrs := []any{
		"model", t.inner.ModelID(),
		"latency_ms", latency.Milliseconds(),
	}
	if req.Schema != nil {
		attrs = append(attrs, "schema", req.Schema.Name)
	}
	if resp != nil {
		attrs = append(attrs,
			"input_tokens", resp.Usage.InputTokens,
			"output_tokens", resp.Usage.OutputTokens,
		)
	}

	if err != nil {
		attrs = append(attrs, "error", err)
		t.logger.Error("provider call failed", attrs...)
		return nil, err
	}

	t.logger.Info("provider call", attrs...)
	return resp, nil
}

func (t *telemetryProvider) ModelID() string {
	return t.inner.ModelID()
}
