package service

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/openphylo/sdk/recerr"
	"github.com/openphylo/sdk/taxonomy"
)

// Service is the external taxonomy database. Search returns up to
// maxResults records matching the query under the given facet; an empty
// slice means no hit. Returned records always carry a scientific name when
// one is available upstream.
//
// Only the ID, scientific-name, code, and common-name facets are valid
// query kinds; lineage resolution is performed client-side against
// scientific-name results.
type Service interface {
	Search(ctx context.Context, facet taxonomy.Facet, query string, maxResults int) ([]*taxonomy.Taxonomy, error)
}

// Retry wraps a Service with bounded retries. Attempts are spaced by
// backoff; when every attempt fails the last error is surfaced as
// CodeNetworkUnavailable so callers can notify and abort.
type Retry struct {
	next     Service
	attempts int
	backoff  time.Duration
}

// NewRetry creates a retrying decorator. attempts < 1 is treated as 1.
func NewRetry(next Service, attempts int, backoff time.Duration) *Retry {
	if attempts < 1 {
		attempts = 1
	}
	return &Retry{next: next, attempts: attempts, backoff: backoff}
}

// Search implements Service.
func (r *Retry) Search(ctx context.Context, facet taxonomy.Facet, query string, maxResults int) ([]*taxonomy.Taxonomy, error) {
	var lastErr error
	for i := 0; i < r.attempts; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if i > 0 && r.backoff > 0 {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(r.backoff):
			}
		}
		res, err := r.next.Search(ctx, facet, query, maxResults)
		if err == nil {
			return res, nil
		}
		lastErr = err
	}
	return nil, recerr.Newf("service", recerr.CodeNetworkUnavailable,
		"taxonomy service unreachable after %d attempts", r.attempts).
		WithDetails(map[string]any{"facet": facet.String(), "query": query}).
		WithCause(lastErr)
}

// Traced wraps a Service with an OpenTelemetry span per search.
type Traced struct {
	next   Service
	tracer trace.Tracer
}

// NewTraced creates a tracing decorator. A nil tracer falls back to the
// global tracer provider.
func NewTraced(next Service, tracer trace.Tracer) *Traced {
	if tracer == nil {
		tracer = otel.Tracer("github.com/openphylo/sdk/service")
	}
	return &Traced{next: next, tracer: tracer}
}

// Search implements Service.
func (t *Traced) Search(ctx context.Context, facet taxonomy.Facet, query string, maxResults int) ([]*taxonomy.Taxonomy, error) {
	ctx, span := t.tracer.Start(ctx, "service.Search",
		trace.WithAttributes(
			attribute.String("taxonomy.facet", facet.String()),
			attribute.String("taxonomy.query", query),
			attribute.Int("taxonomy.max_results", maxResults),
		))
	defer span.End()

	res, err := t.next.Search(ctx, facet, query, maxResults)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	span.SetAttributes(attribute.Int("taxonomy.results", len(res)))
	return res, nil
}
