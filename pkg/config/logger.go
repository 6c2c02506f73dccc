package config

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LokiLogger logs through zap with trace correlation and, when a Loki URL
// is configured, pushes a copy of each entry to Loki in the background.
type LokiLogger struct {
	Logger      *otelzap.Logger
	ServiceName string
	lokiURL     string
	httpClient  *http.Client
}

type LokiLogEntry struct {
	Streams []LokiStream `json:"streams"`
}

type LokiStream struct {
	Stream map[string]string `json:"stream"`
	Values [][]string        `json:"values"`
}

func NewLokiLogger(serviceName, lokiURL string) (*LokiLogger, error) {
	config := zap.NewProductionConfig()
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.TimeKey = "timestamp"

	zapLogger, err := config.Build()

	if err != nil {
		return nil, fmt.Errorf("failed to create zap logger: %w", err)
	}

	return newLokiLogger(zapLogger, serviceName, lokiURL), nil
}

// NewNopLogger discards everything. Used by tests and as a nil default.
func NewNopLogger() *LokiLogger {
	return newLokiLogger(zap.NewNop(), "authapi", "")
}

func newLokiLogger(zapLogger *zap.Logger, serviceName, lokiURL string) *LokiLogger {
	logger := &LokiLogger{
		Logger:      otelzap.New(zapLogger.With(zap.String("service", serviceName))),
		ServiceName: serviceName,
		httpClient: &http.Client{
			Timeout: 5 * time.Second,
		},
	}

	if lokiURL != "" {
		logger.lokiURL = strings.TrimRight(lokiURL, "/") + "/loki/api/v1/push"
	}

	return logger
}

func (l *LokiLogger) Sync() error {
	return l.Logger.Sync()
}

func (l *LokiLogger) InfoWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Info(msg, fields...)
	l.push(ctx, zapcore.InfoLevel, msg, fields)
}

func (l *LokiLogger) ErrorWithTrace(ctx context.Context, msg string, fields ...zap.Field) {
	l.Logger.Ctx(ctx).Error(msg, fields...)
	l.push(ctx, zapcore.ErrorLevel, msg, fields)
}

func (l *LokiLogger) push(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) {
	if l.lokiURL == "" {
		return
	}

	entry, err := l.buildEntry(ctx, level, msg, fields)

	if err != nil {
		l.Logger.Error("Failed to encode loki entry", zap.Error(err))
		return
	}

	go l.send(entry)
}

func (l *LokiLogger) buildEntry(ctx context.Context, level zapcore.Level, msg string, fields []zap.Field) (LokiLogEntry, error) {
	enc := zapcore.NewMapObjectEncoder()

	for _, field := range fields {
		field.AddTo(enc)
	}

	line := enc.Fields
	line["timestamp"] = time.Now().Format(time.RFC3339Nano)
	line["level"] = level.String()
	line["message"] = msg
	line["service"] = l.ServiceName

	if span := trace.SpanFromContext(ctx); span.SpanContext().IsValid() {
		line["trace_id"] = span.SpanContext().TraceID().String()
		line["span_id"] = span.SpanContext().SpanID().String()
	}

	body, err := json.Marshal(line)

	if err != nil {
		return LokiLogEntry{}, err
	}

	return LokiLogEntry{
		Streams: []LokiStream{
			{
				Stream: map[string]string{
					"service": l.ServiceName,
					"level":   level.String(),
				},
				Values: [][]string{
					{fmt.Sprintf("%d", time.Now().UnixNano()), string(body)},
				},
			},
		},
	}, nil
}

func (l *LokiLogger) send(entry LokiLogEntry) {
	body, err := json.Marshal(entry)

	if err != nil {
		return
	}

	req, err := http.NewRequest(http.MethodPost, l.lokiURL, bytes.NewReader(body))

	if err != nil {
		return
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := l.httpClient.Do(req)

	if err != nil {
		return
	}

	defer resp.Body.Close()

	io.Copy(io.Discard, resp.Body)
}
