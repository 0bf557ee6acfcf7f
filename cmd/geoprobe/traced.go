package main

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/vportales/geoprobe/internal/dispatch"
	"github.com/vportales/geoprobe/internal/places"
)

// tracedRequester wraps a requester with one span per probe.
type tracedRequester struct {
	next   dispatch.Requester
	tracer trace.Tracer
}

func (t *tracedRequester) Probe(ctx context.Context, workerID int) places.Outcome {
	ctx, span := t.tracer.Start(ctx, "geoprobe.probe")
	defer span.End()

	outcome := t.next.Probe(ctx, workerID)

	span.SetAttributes(
		attribute.Int("probe.worker_id", workerID),
		attribute.String("probe.query", outcome.Query),
		attribute.Int("http.response.status_code", outcome.StatusCode),
		attribute.String("probe.api_status", outcome.APIStatus),
		attribute.Bool("probe.success", outcome.Success),
	)
	if !outcome.Success {
		span.SetStatus(codes.Error, outcome.Error)
	}
	return outcome
}
