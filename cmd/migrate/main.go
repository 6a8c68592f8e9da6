// ABOUTME: Schema migration utility for the CRM SQLite database
// ABOUTME: Steps the embedded golang-migrate migrations up or down and reports the version

package main

import (
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/mattn/go-sqlite3"

	"github.com/harperreed/crmcore/config"
	"github.com/harperreed/crmcore/db"
)

func main() {
	dbPath := flag.String("db", "", "Path to database file (default from config)")
	configPath := flag.String("config", "", "Path to config file")
	yes := flag.Bool("yes", false, "Confirm destructive commands (drop)")
	verbose := flag.Bool("verbose", false, "Log every migration step")
	flag.Usage = usage
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: "migrate"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	if *dbPath == "" {
		cfg, err := config.Load(*configPath)
		if err != nil {
			logger.Fatal("failed to load config", "err", err)
		}
		*dbPath = cfg.DBPath
	}

	if err := run(*dbPath, flag.Args(), *yes, logger, os.Stdout); err != nil {
		logger.Fatal("migration failed", "err", err)
	}
}

func usage() {
	fmt.Fprintf(os.Stderr, `Usage: migrate [flags] <command>

Commands:
  up              Apply all pending migrations
  down [N]        Roll back N migrations (default 1)
  version         Print the current schema version
  force V         Mark version V as applied without running it
  drop            Drop every table (requires -yes)

Flags:
`)
	flag.PrintDefaults()
}

// migrateLogger adapts charmbracelet/log to migrate.Logger.
type migrateLogger struct {
	log *log.Logger
}

func (l migrateLogger) Printf(format string, v ...interface{}) {
	l.log.Debugf(format, v...)
}

func (l migrateLogger) Verbose() bool {
	return l.log.GetLevel() <= log.DebugLevel
}

func run(dbPath string, args []string, yes bool, logger *log.Logger, w io.Writer) error {
	if len(args) == 0 {
		return errors.New("command required (up, down, version, force, drop)")
	}

	database, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	database.SetMaxOpenConns(1)
	defer func() { _ = database.Close() }()

	m, err := db.NewMigrator(database)
	if err != nil {
		return err
	}
	m.Log = migrateLogger{log: logger}

	switch args[0] {
	case "up":
		if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
			return fmt.Errorf("failed to migrate up: %w", err)
		}
	case "down":
		steps := 1
		if len(args) > 1 {
			steps, err = strconv.Atoi(args[1])
			if err != nil || steps < 1 {
				return fmt.Errorf("invalid step count %q", args[1])
			}
		}
		if err := m.Steps(-steps); err != nil {
			return fmt.Errorf("failed to migrate down: %w", err)
		}
	case "force":
		if len(args) < 2 {
			return errors.New("usage: migrate force <version>")
		}
		v, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("invalid version %q", args[1])
		}
		if err := m.Force(v); err != nil {
			return fmt.Errorf("failed to force version: %w", err)
		}
	case "drop":
		if !yes {
			return errors.New("drop deletes all data; rerun with -yes")
		}
		if err := m.Drop(); err != nil {
			return fmt.Errorf("failed to drop schema: %w", err)
		}
		_, _ = fmt.Fprintln(w, "✓ All tables dropped")
		return nil
	case "version":
	default:
		return fmt.Errorf("unknown command: %s", args[0])
	}

	return printVersion(m, w)
}

func printVersion(m *migrate.Migrate, w io.Writer) error {
	version, dirty, err := m.Version()
	if errors.Is(err, migrate.ErrNilVersion) {
		_, _ = fmt.Fprintln(w, "Schema version: none")
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read version: %w", err)
	}
	if dirty {
		_, _ = fmt.Fprintf(w, "Schema version: %d (dirty)\n", version)
		return nil
	}
	_, _ = fmt.Fprintf(w, "Schema version: %d\n", version)
	return nil
}
