package telemetry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"authapi/internal/core/domain"
	"authapi/internal/core/port"
)

const tracerName = "authapi"

// OTELProbe implements Telemetry using OpenTelemetry
type OTELProbe struct {
	logger  *otelzap.Logger
	metrics *AppMetrics
}

// NewOTELProbe returns a probe that traces through the global tracer
// provider. metrics may be nil.
func NewOTELProbe(logger *otelzap.Logger, metrics *AppMetrics) port.Telemetry {
	if logger == nil {
		logger = otelzap.New(zap.NewNop())
	}

	return &OTELProbe{
		logger:  logger,
		metrics: metrics,
	}
}

// OTelSpan wraps OpenTelemetry span to implement our generic Span interface
type OTelSpan struct {
	span trace.Span
}

func (s *OTelSpan) End() {
	s.span.End()
}

func (s *OTelSpan) SetAttributes(attrs map[string]interface{}) {
	s.span.SetAttributes(toAttributes(attrs)...)
}

func (s *OTelSpan) SetStatus(code string, message string) {
	var statusCode codes.Code
	switch code {
	case "ok":
		statusCode = codes.Ok
	case "error":
		statusCode = codes.Error
	default:
		statusCode = codes.Unset
	}
	s.span.SetStatus(statusCode, message)
}

func (s *OTelSpan) RecordError(err error) {
	s.span.RecordError(err)
}

func (p *OTELProbe) StartServiceSpan(ctx context.Context, service string, operation string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("service.%s.%s", service, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("service.name", service),
		attribute.String("service.operation", operation),
		attribute.String("component", "service"),
	}
	standardAttrs = append(standardAttrs, toAttributes(attrs)...)

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) StartRepositorySpan(ctx context.Context, operation string, entity string, attrs map[string]interface{}) (context.Context, port.Span) {
	spanName := fmt.Sprintf("repository.%s.%s", entity, operation)

	standardAttrs := []attribute.KeyValue{
		attribute.String("repository.entity", entity),
		attribute.String("repository.operation", operation),
		attribute.String("component", "repository"),
	}
	standardAttrs = append(standardAttrs, toAttributes(attrs)...)

	if p.metrics != nil {
		p.metrics.RecordDatabaseOperation(ctx, operation, entity)
	}

	ctx, span := otel.Tracer(tracerName).Start(ctx, spanName, trace.WithAttributes(standardAttrs...))
	return ctx, &OTelSpan{span: span}
}

func (p *OTELProbe) RecordServiceOperation(ctx context.Context, service string, operation string, duration time.Duration, err error) {
	// Span was created by StartServiceSpan
	span := trace.SpanFromContext(ctx)

	span.SetAttributes(
		attribute.String("service", service),
		attribute.String("operation", operation),
		attribute.Int64("duration_ns", duration.Nanoseconds()),
		attribute.Bool("has_error", err != nil),
	)

	if err != nil {
		// Expected credential outcomes are not failures; keep their text
		// out of logs and span events.
		if kind, ok := expectedOutcome(err); ok {
			span.SetAttributes(attribute.String("outcome", kind))
			span.SetStatus(codes.Error, kind)
			return
		}

		span.SetStatus(codes.Error, err.Error())
		span.RecordError(err)
		p.logger.Ctx(ctx).Warn("Service operation failed",
			zap.String("service", service),
			zap.String("operation", operation),
			zap.Duration("duration", duration),
			zap.Error(err))
		return
	}

	span.SetStatus(codes.Ok, "")
}

func (p *OTELProbe) RecordBusinessEvent(ctx context.Context, event string, entity string, entityID string, metadata map[string]interface{}) {
	span := trace.SpanFromContext(ctx)

	attrs := map[string]interface{}{
		"entity":    entity,
		"entity_id": entityID,
	}
	for key, value := range metadata {
		attrs[key] = value
	}

	span.AddEvent(event, trace.WithAttributes(toAttributes(attrs)...))

	p.logger.Ctx(ctx).Info("Business event recorded",
		zap.String("event", event),
		zap.String("entity", entity),
		zap.String("entity_id", entityID),
		zap.Any("metadata", metadata))
}

func (p *OTELProbe) RecordError(ctx context.Context, operation string, err error, metadata map[string]interface{}) {
	p.logger.Ctx(ctx).Error("Operation error recorded",
		zap.String("operation", operation),
		zap.Error(err),
		zap.Any("metadata", metadata))
}

func expectedOutcome(err error) (string, bool) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		return "not_found", true
	case errors.Is(err, domain.ErrInvalidCredentials):
		return "invalid_credentials", true
	case errors.Is(err, domain.ErrConflict):
		return "conflict", true
	default:
		return "", false
	}
}

func toAttributes(attrs map[string]interface{}) []attribute.KeyValue {
	otelAttrs := make([]attribute.KeyValue, 0, len(attrs))

	for key, value := range attrs {
		switch v := value.(type) {
		case string:
			otelAttrs = append(otelAttrs, attribute.String(key, v))
		case int:
			otelAttrs = append(otelAttrs, attribute.Int(key, v))
		case int64:
			otelAttrs = append(otelAttrs, attribute.Int64(key, v))
		case float64:
			otelAttrs = append(otelAttrs, attribute.Float64(key, v))
		case bool:
			otelAttrs = append(otelAttrs, attribute.Bool(key, v))
		default:
			otelAttrs = append(otelAttrs, attribute.String(key, fmt.Sprintf("%v", v)))
		}
	}

	return otelAttrs
}
