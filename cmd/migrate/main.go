// Command migrate manages the Retail POS database schema.
package main

import (
	"database/sql"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/lib/pq"
	"github.com/retailpos/backend/internal/infrastructure/config"
	"github.com/retailpos/backend/internal/infrastructure/logger"
	"github.com/retailpos/backend/internal/infrastructure/migration"
	"go.uber.org/zap"
)

const usage = `Retail POS database migration tool

Usage:
  migrate [flags] <command> [arguments]

Commands:
  up                    Apply all pending migrations
  down                  Roll back all migrations
  steps <n>             Apply n migrations (negative rolls back)
  goto <version>        Migrate to a specific version
  version               Show the applied version
  force <version>       Set the version without running migrations
  create <name> [desc]  Write the next up/down file pair
  list                  List migration files

Flags:
  -path string          Migrations directory (default: database.migrations_path)
  -log-level string     debug, info, warn or error (default: info)

Connection settings come from config.toml or POS_DATABASE_* variables.`

// schemaCommands need a database connection; the rest only touch files
var schemaCommands = map[string]func(m *migration.Migrator, arg string) error{
	"up":   func(m *migration.Migrator, _ string) error { return m.Up() },
	"down": func(m *migration.Migrator, _ string) error { return m.Down() },
	"steps": func(m *migration.Migrator, arg string) error {
		n, err := parseInt(arg)
		if err != nil {
			return err
		}
		return m.Steps(n)
	},
	"goto": func(m *migration.Migrator, arg string) error {
		n, err := parseInt(arg)
		if err != nil {
			return err
		}
		if n < 0 {
			return fmt.Errorf("version must not be negative")
		}
		return m.GoTo(uint(n))
	},
	"force": func(m *migration.Migrator, arg string) error {
		n, err := parseInt(arg)
		if err != nil {
			return err
		}
		return m.Force(n)
	},
	"version": func(m *migration.Migrator, _ string) error {
		v, dirty, err := m.Version()
		if err != nil {
			return err
		}
		fmt.Printf("version %d (dirty=%t)\n", v, dirty)
		return nil
	},
}

func main() {
	dir := flag.String("path", "", "migrations directory")
	level := flag.String("log-level", "info", "log level")
	flag.Usage = func() { fmt.Fprintln(os.Stderr, usage) }
	flag.Parse()

	if flag.NArg() == 0 {
		flag.Usage()
		os.Exit(2)
	}
	cmd, arg := flag.Arg(0), flag.Arg(1)

	log, err := logger.New(&logger.Config{Level: *level, Format: "console", TimeFormat: "15:04:05"})
	if err != nil {
		fmt.Fprintln(os.Stderr, "logger:", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync(log) }()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}
	if *dir == "" {
		*dir = cfg.Database.MigrationsPath
	}
	path, err := filepath.Abs(*dir)
	if err != nil {
		log.Fatal("Failed to resolve migrations path", zap.Error(err))
	}

	switch cmd {
	case "create":
		if arg == "" {
			log.Fatal("usage: migrate create <name> [description]")
		}
		mf, err := migration.CreateMigration(path, arg, flag.Arg(2))
		if err != nil {
			log.Fatal("Failed to create migration", zap.Error(err))
		}
		log.Info("Migration created", zap.String("up", mf.UpPath), zap.String("down", mf.DownPath))
		return
	case "list":
		names, err := migration.ListMigrations(path)
		if err != nil {
			log.Fatal("Failed to list migrations", zap.Error(err))
		}
		for _, n := range names {
			fmt.Println(n)
		}
		return
	}

	run, ok := schemaCommands[cmd]
	if !ok {
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n", cmd)
		flag.Usage()
		os.Exit(2)
	}

	db, err := sql.Open("postgres", cfg.Database.DSN())
	if err != nil {
		log.Fatal("Failed to open database", zap.Error(err))
	}
	if err := db.Ping(); err != nil {
		log.Fatal("Database unreachable", zap.String("host", cfg.Database.Host), zap.Error(err))
	}

	m, err := migration.New(db, path, log)
	if err != nil {
		log.Fatal("Failed to load migrations", zap.String("path", path), zap.Error(err))
	}
	defer func() { _ = m.Close() }()

	if err := run(m, arg); err != nil {
		log.Fatal("Migration failed", zap.String("command", cmd), zap.Error(err))
	}
}

func parseInt(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("missing numeric argument")
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a number", s)
	}
	return n, nil
}
