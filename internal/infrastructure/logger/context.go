package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type requestScopeKey struct{}

// requestScope is what GinMiddleware and the auth middleware attach to a
// request context. It is copied on every change so parent contexts never see
// fields added further down the chain.
type requestScope struct {
	log       *zap.Logger
	requestID string
	userID    string
}

func scopeOf(ctx context.Context) requestScope {
	if s, ok := ctx.Value(requestScopeKey{}).(requestScope); ok {
		return s
	}
	return requestScope{}
}

// ForRequest starts a request scope with base tagged by requestID
func ForRequest(ctx context.Context, base *zap.Logger, requestID string) context.Context {
	log := base
	if requestID != "" {
		log = log.With(zap.String("request_id", requestID))
	}
	return context.WithValue(ctx, requestScopeKey{}, requestScope{log: log, requestID: requestID})
}

// ForUser records the authenticated user on the request scope
func ForUser(ctx context.Context, userID string) context.Context {
	s := scopeOf(ctx)
	s.userID = userID
	if s.log != nil {
		s.log = s.log.With(zap.String("user_id", userID))
	}
	return context.WithValue(ctx, requestScopeKey{}, s)
}

// RequestID returns the request ID of the scope, or ""
func RequestID(ctx context.Context) string { return scopeOf(ctx).requestID }

// UserID returns the authenticated user of the scope, or ""
func UserID(ctx context.Context) string { return scopeOf(ctx).userID }

// For returns the request logger carried by ctx with trace_id/span_id added.
// Outside a request it falls back to fallback, or a no-op logger.
func For(ctx context.Context, fallback *zap.Logger) *zap.Logger {
	log := scopeOf(ctx).log
	if log == nil {
		log = fallback
	}
	if log == nil {
		log = zap.NewNop()
	}
	return withSpan(ctx, log)
}

func withSpan(ctx context.Context, log *zap.Logger) *zap.Logger {
	sc := trace.SpanContextFromContext(ctx)
	if !sc.IsValid() {
		return log
	}
	return log.With(
		zap.Stringer("trace_id", sc.TraceID()),
		zap.Stringer("span_id", sc.SpanID()),
	)
}
