package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/uptrace/opentelemetry-go-extra/otelgorm"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// DefaultSlowQueryThreshold marks spans of queries slower than this
const DefaultSlowQueryThreshold = 200 * time.Millisecond

type contextKey string

const queryStartTimeKey contextKey = "otel_query_start_time"

// RegisterDBTracing installs otelgorm on db plus callbacks that flag slow
// queries and record errors on the current span.
func RegisterDBTracing(db *gorm.DB, cfg config.TelemetryConfig, logger *zap.Logger) error {
	if !cfg.Enabled || !cfg.DBTraceEnabled {
		return nil
	}

	opts := []otelgorm.Option{otelgorm.WithDBName("postgresql")}
	if !cfg.DBLogFullSQL {
		opts = append(opts, otelgorm.WithoutQueryVariables())
	}
	if err := db.Use(otelgorm.NewPlugin(opts...)); err != nil {
		return err
	}

	if err := registerSpanCallbacks(db, DefaultSlowQueryThreshold); err != nil {
		return err
	}

	logger.Info("Database tracing enabled", zap.Bool("log_full_sql", cfg.DBLogFullSQL))
	return nil
}

func registerSpanCallbacks(db *gorm.DB, threshold time.Duration) error {
	before := func(tx *gorm.DB) {
		if tx.Statement.Context != nil {
			tx.Statement.Context = context.WithValue(tx.Statement.Context, queryStartTimeKey, time.Now())
		}
	}
	after := func(tx *gorm.DB) { annotateSpan(tx, threshold) }

	cb := db.Callback()
	if err := cb.Create().Before("gorm:create").Register("pos_timing:before_create", before); err != nil {
		return err
	}
	if err := cb.Query().Before("gorm:query").Register("pos_timing:before_query", before); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("pos_timing:before_update", before); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("pos_timing:before_delete", before); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("pos_timing:before_raw", before); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("pos_timing:after_create", after); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("pos_timing:after_query", after); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("pos_timing:after_update", after); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("pos_timing:after_delete", after); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("pos_timing:after_raw", after)
}

// annotateSpan adds row counts, marks errors and flags slow queries
func annotateSpan(tx *gorm.DB, threshold time.Duration) {
	ctx := tx.Statement.Context
	if ctx == nil {
		return
	}
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}

	span.SetAttributes(attribute.Int64("db.rows_affected", tx.Statement.RowsAffected))
	if tx.Statement.Table != "" {
		span.SetAttributes(attribute.String("db.sql.table", tx.Statement.Table))
	}
	if tx.Error != nil && !errors.Is(tx.Error, gorm.ErrRecordNotFound) {
		span.SetStatus(codes.Error, tx.Error.Error())
		span.RecordError(tx.Error)
	}

	if start, ok := ctx.Value(queryStartTimeKey).(time.Time); ok {
		if elapsed := time.Since(start); elapsed > threshold {
			span.SetAttributes(
				attribute.Bool("db.slow_query", true),
				attribute.Int64("db.query_duration_ms", elapsed.Milliseconds()),
			)
		}
	}
}
