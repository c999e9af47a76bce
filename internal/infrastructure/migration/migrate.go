// Package migration applies and authors the versioned SQL files under
// migrations/ with golang-migrate.
package migration

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"go.uber.org/zap"
)

// Migrator moves the schema between versions. Close closes the *sql.DB it
// was built on, so callers hand it a connection of its own.
type Migrator struct {
	m   *migrate.Migrate
	log *zap.Logger
}

// New builds a Migrator over db reading files from dir
func New(db *sql.DB, dir string, log *zap.Logger) (*Migrator, error) {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return nil, fmt.Errorf("migrate driver: %w", err)
	}
	m, err := migrate.NewWithDatabaseInstance(sourceURL(dir), "postgres", driver)
	if err != nil {
		return nil, fmt.Errorf("migrate source %s: %w", dir, err)
	}
	log = log.Named("migrate")
	m.Log = zapPrinter{log}
	return &Migrator{m: m, log: log}, nil
}

// sourceURL accepts a plain directory or a file:// URL
func sourceURL(dir string) string {
	if strings.HasPrefix(dir, "file://") {
		return dir
	}
	return "file://" + dir
}

// apply runs one schema change. Being already at the requested version is
// not an error.
func (mg *Migrator) apply(what string, step func() error) error {
	err := step()
	switch {
	case errors.Is(err, migrate.ErrNoChange):
		mg.log.Info("Schema already current", zap.String("op", what))
		return nil
	case err != nil:
		return fmt.Errorf("%s: %w", what, err)
	}
	version, dirty, err := mg.Version()
	if err != nil {
		return err
	}
	mg.log.Info("Schema migrated", zap.String("op", what), zap.Uint("version", version), zap.Bool("dirty", dirty))
	return nil
}

// Up applies every pending migration
func (mg *Migrator) Up() error { return mg.apply("up", mg.m.Up) }

// Down reverts every applied migration, dropping all application tables
func (mg *Migrator) Down() error { return mg.apply("down", mg.m.Down) }

// Steps moves n versions; negative n goes down
func (mg *Migrator) Steps(n int) error {
	return mg.apply(fmt.Sprintf("steps %d", n), func() error { return mg.m.Steps(n) })
}

// GoTo moves to exactly version
func (mg *Migrator) GoTo(version uint) error {
	return mg.apply(fmt.Sprintf("goto %d", version), func() error { return mg.m.Migrate(version) })
}

// Force records version without running anything. It clears the dirty flag
// left by a migration that failed halfway.
func (mg *Migrator) Force(version int) error {
	mg.log.Warn("Forcing schema version", zap.Int("version", version))
	if err := mg.m.Force(version); err != nil {
		return fmt.Errorf("force %d: %w", version, err)
	}
	return nil
}

// Version reports the applied version; 0 on an empty database
func (mg *Migrator) Version() (uint, bool, error) {
	version, dirty, err := mg.m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, fmt.Errorf("read schema version: %w", err)
	}
	return version, dirty, nil
}

func (mg *Migrator) Close() error {
	srcErr, dbErr := mg.m.Close()
	return errors.Join(srcErr, dbErr)
}

// zapPrinter satisfies migrate.Logger
type zapPrinter struct{ log *zap.Logger }

func (p zapPrinter) Printf(format string, v ...any) {
	p.log.Debug(strings.TrimSpace(fmt.Sprintf(format, v...)))
}

func (p zapPrinter) Verbose() bool { return p.log.Core().Enabled(zap.DebugLevel) }
