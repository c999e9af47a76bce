package persistence

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// Database is the shared PostgreSQL pool. Repositories use the gorm handle,
// the sales report runs hand-written SQL through SQLX on the same pool.
type Database struct {
	DB  *gorm.DB
	sql *sql.DB
}

// NewDatabaseWithLogger connects, sizes the pool from cfg and verifies the
// server answers before returning.
func NewDatabaseWithLogger(cfg *config.DatabaseConfig, gormLogger gormlogger.Interface) (*Database, error) {
	gdb, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{
		Logger:                 gormLogger,
		SkipDefaultTransaction: true,
		PrepareStmt:            true,
		TranslateError:         true,
		// Timestamps are stored in UTC; report day boundaries are computed in
		// the store's timezone by the report service.
		NowFunc: func() time.Time { return time.Now().UTC() },
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}

	d, err := wrap(gdb)
	if err != nil {
		return nil, err
	}
	d.sql.SetMaxOpenConns(cfg.MaxOpenConns)
	d.sql.SetMaxIdleConns(cfg.MaxIdleConns)
	d.sql.SetConnMaxLifetime(time.Duration(cfg.ConnMaxLifetime) * time.Minute)
	d.sql.SetConnMaxIdleTime(time.Duration(cfg.ConnMaxIdleTime) * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.PingContext(ctx); err != nil {
		_ = d.sql.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return d, nil
}

func wrap(gdb *gorm.DB) (*Database, error) {
	sqlDB, err := gdb.DB()
	if err != nil {
		return nil, fmt.Errorf("unwrap sql.DB: %w", err)
	}
	return &Database{DB: gdb, sql: sqlDB}, nil
}

// PingContext lets the health endpoint check the pool
func (d *Database) PingContext(ctx context.Context) error {
	return d.sql.PingContext(ctx)
}

// SQLX shares the pool with the report queries
func (d *Database) SQLX() *sqlx.DB {
	return sqlx.NewDb(d.sql, "postgres")
}

func (d *Database) Close() error {
	return d.sql.Close()
}
