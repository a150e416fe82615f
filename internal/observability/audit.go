// Package observability provides audit logging, metrics, and tracing.
package observability

import (
	"context"
	"log/slog"
	"os"
	"sort"
)

// Audit actions recorded for listing and rating maintenance.
const (
	ActionCreate    = "create"
	ActionUpdate    = "update"
	ActionDelete    = "delete"
	ActionRecompute = "recompute"
)

// AuditLogger emits structured audit records for one resource type.
type AuditLogger struct {
	resource string
	logger   *slog.Logger
}

var defaultAuditHandler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
	Level: slog.LevelInfo,
})

// NewAuditLogger creates an AuditLogger writing JSON records to stdout.
func NewAuditLogger(resource string) *AuditLogger {
	return NewAuditLoggerWithHandler(resource, defaultAuditHandler)
}

// NewAuditLoggerWithHandler creates an AuditLogger writing to h.
func NewAuditLoggerWithHandler(resource string, h slog.Handler) *AuditLogger {
	return &AuditLogger{
		resource: resource,
		logger:   slog.New(h).With(slog.String("log_type", "audit")),
	}
}

// Record logs an audit event. Field keys are emitted in sorted order.
func (l *AuditLogger) Record(ctx context.Context, action string, actorID uint, fields map[string]any) {
	attrs := []any{
		slog.String("resource", l.resource),
		slog.String("action", action),
		slog.Uint64("actor_id", uint64(actorID)),
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		attrs = append(attrs, slog.Any(k, fields[k]))
	}
	l.logger.InfoContext(ctx, "audit", attrs...)
}

// Failure logs a failed audited operation.
func (l *AuditLogger) Failure(ctx context.Context, action string, actorID uint, err error) {
	l.logger.ErrorContext(ctx, "audit failure",
		slog.String("resource", l.resource),
		slog.String("action", action),
		slog.Uint64("actor_id", uint64(actorID)),
		slog.String("error", err.Error()),
	)
}
