package logging

import (
	"context"

	"github.com/rs/zerolog"
)

type ctxKey struct{ name string }

var (
	loggerCtxKey    = ctxKey{"logger"}
	requestIDCtxKey = ctxKey{"request_id"}
)

// WithLogger stores logger in ctx. A nil logger stores the default one.
func WithLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if logger == nil {
		logger = Default()
	}
	return context.WithValue(ctx, loggerCtxKey, logger)
}

// WithDefaultLogger stores logger in ctx unless ctx already carries one.
func WithDefaultLogger(ctx context.Context, logger *zerolog.Logger) context.Context {
	if _, ok := ctx.Value(loggerCtxKey).(*zerolog.Logger); ok {
		return ctx
	}
	return WithLogger(ctx, logger)
}

// FromContext returns the logger carried by ctx, or Default.
func FromContext(ctx context.Context) *zerolog.Logger {
	if ctx == nil {
		return Default()
	}
	if logger, ok := ctx.Value(loggerCtxKey).(*zerolog.Logger); ok && logger != nil {
		return logger
	}
	return Default()
}

// WithRequestID records the request id and tags the context logger with it.
func WithRequestID(ctx context.Context, id string) context.Context {
	ctx = context.WithValue(ctx, requestIDCtxKey, id)
	return annotate(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("request_id", id)
	})
}

// RequestID returns the id stored by WithRequestID.
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDCtxKey).(string)
	return id
}

// WithEntity tags the context logger with the kind and id of the entity a
// form or sync is working on.
func WithEntity(ctx context.Context, kind string, id int64) context.Context {
	return annotate(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("entity", kind).Int64("entity_id", id)
	})
}

// WithRelation names the relationship field a log line concerns.
func WithRelation(ctx context.Context, relation string) context.Context {
	return annotate(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("relation", relation)
	})
}

// WithOperation tags the context logger with a service operation such as
// "sell" or "sync".
func WithOperation(ctx context.Context, op string) context.Context {
	return annotate(ctx, func(c zerolog.Context) zerolog.Context {
		return c.Str("operation", op)
	})
}

func annotate(ctx context.Context, fn func(zerolog.Context) zerolog.Context) context.Context {
	logger := fn(FromContext(ctx).With()).Logger()
	return WithLogger(ctx, &logger)
}
