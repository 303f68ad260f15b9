package logging

import (
	"context"

	"go.uber.org/zap"
)

type loggerKey struct{}
type requestIDKey struct{}

const requestIDField = "request_id"

type Logger struct {
	l *zap.Logger
}

// New builds a zap-backed logger: console/debug in development, JSON/info in production.
func New(production bool) (*Logger, error) {
	var (
		zl  *zap.Logger
		err error
	)
	if production {
		zl, err = zap.NewProduction()
	} else {
		zl, err = zap.NewDevelopment()
	}
	if err != nil {
		return nil, err
	}
	return &Logger{l: zl}, nil
}

func Wrap(zl *zap.Logger) *Logger {
	return &Logger{l: zl}
}

func Nop() *Logger {
	return &Logger{l: zap.NewNop()}
}

func ContextWithLogger(ctx context.Context, logger *Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the request logger, or a no-op logger when none is attached.
func FromContext(ctx context.Context) *Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*Logger); ok {
		return logger
	}
	return Nop()
}

func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, id)
}

func RequestID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(requestIDKey{}).(string)
	return id, ok && id != ""
}

func (l *Logger) Debug(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Debug(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Info(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Info(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Warn(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Warn(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Error(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Error(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Fatal(ctx context.Context, msg string, fields ...zap.Field) {
	l.l.Fatal(msg, withRequestID(ctx, fields)...)
}

func (l *Logger) Sync() error {
	return l.l.Sync()
}

func withRequestID(ctx context.Context, fields []zap.Field) []zap.Field {
	id, ok := RequestID(ctx)
	if !ok {
		return fields
	}
	// never append into the caller's backing array
	out := make([]zap.Field, len(fields), len(fields)+1)
	copy(out, fields)
	return append(out, zap.String(requestIDField, id))
}
