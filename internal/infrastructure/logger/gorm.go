package logger

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

// DefaultSlowQuery is the threshold above which statements are logged as slow.
// Stock decrements run under row locks, so anything past this is worth a look.
const DefaultSlowQuery = 200 * time.Millisecond

// GormLogger routes gorm's statement log through zap. Statements executed
// during an HTTP request are written with that request's logger, so their
// entries carry request_id, user_id and the trace IDs.
type GormLogger struct {
	base  *zap.Logger
	level gormlogger.LogLevel
	slow  time.Duration
}

// GormLoggerOption configures a GormLogger
type GormLoggerOption func(*GormLogger)

// WithSlowThreshold overrides DefaultSlowQuery. Zero disables slow logging.
func WithSlowThreshold(d time.Duration) GormLoggerOption {
	return func(l *GormLogger) { l.slow = d }
}

// NewGormLogger returns a gorm logger writing to base at the given level
func NewGormLogger(base *zap.Logger, level gormlogger.LogLevel, opts ...GormLoggerOption) *GormLogger {
	l := &GormLogger{base: base.Named("sql"), level: level, slow: DefaultSlowQuery}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

func (l *GormLogger) LogMode(level gormlogger.LogLevel) gormlogger.Interface {
	clone := *l
	clone.level = level
	return &clone
}

func (l *GormLogger) Info(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Info, msg, args)
}

func (l *GormLogger) Warn(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Warn, msg, args)
}

func (l *GormLogger) Error(ctx context.Context, msg string, args ...any) {
	l.printf(ctx, gormlogger.Error, msg, args)
}

func (l *GormLogger) printf(ctx context.Context, at gormlogger.LogLevel, msg string, args []any) {
	if l.level < at {
		return
	}
	s := For(ctx, l.base).Sugar()
	switch at {
	case gormlogger.Error:
		s.Errorf(msg, args...)
	case gormlogger.Warn:
		s.Warnf(msg, args...)
	default:
		s.Infof(msg, args...)
	}
}

// Trace is called by gorm after every statement. Missing rows are a normal
// outcome for lookups and are never logged as errors.
func (l *GormLogger) Trace(ctx context.Context, begin time.Time, fc func() (string, int64), err error) {
	if l.level == gormlogger.Silent {
		return
	}
	elapsed := time.Since(begin)

	var msg string
	var write func(string, ...zap.Field)
	log := For(ctx, l.base)
	switch {
	case err != nil && !errors.Is(err, gormlogger.ErrRecordNotFound):
		if l.level < gormlogger.Error {
			return
		}
		msg, write = "SQL Error", log.With(zap.Error(err)).Error
	case l.slow > 0 && elapsed > l.slow:
		if l.level < gormlogger.Warn {
			return
		}
		msg, write = "Slow SQL", log.With(zap.Duration("threshold", l.slow)).Warn
	case err == nil && l.level >= gormlogger.Info:
		msg, write = "SQL", log.Debug
	default:
		return
	}

	stmt, rows := fc()
	write(msg,
		zap.String("sql", stmt),
		zap.Int64("rows", rows),
		zap.Duration("elapsed", elapsed),
	)
}

// MapGormLogLevel derives the gorm level from the application log level.
// Statements are only traced when the application itself logs at debug/info.
func MapGormLogLevel(level string) gormlogger.LogLevel {
	switch level {
	case "silent":
		return gormlogger.Silent
	case "debug", "info":
		return gormlogger.Info
	case "error", "fatal":
		return gormlogger.Error
	}
	return gormlogger.Warn
}
