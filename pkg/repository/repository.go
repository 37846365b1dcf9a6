// Package repository keeps history of classify answers and generated reports in sqlite.
package repository

import (
	"context"
	"embed"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // pure Go SQLite driver
)

//go:embed schema.sql migrations.sql
var schemaFS embed.FS

const defaultDSN = "file:feedtriage.db?cache=shared&mode=rwc&_txlock=immediate"

// history is small and written once per request, a modest page cache is enough
var sqlitePragmas = []string{
	"PRAGMA journal_mode = WAL",
	"PRAGMA synchronous = NORMAL",
	"PRAGMA cache_size = -4000",
	"PRAGMA temp_store = MEMORY",
	"PRAGMA busy_timeout = 5000",
	"PRAGMA foreign_keys = ON",
}

// columnMigrations adds columns missing in databases made by older versions
var columnMigrations = []struct {
	table, column, ddl string
}{
	{table: "reports", column: "archive_key", ddl: `ALTER TABLE reports ADD COLUMN archive_key TEXT DEFAULT ''`},
}

// Config represents database configuration
type Config struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// Repositories holds history repositories sharing one connection pool
type Repositories struct {
	Classification *ClassificationRepository
	Report         *ReportRepository
	DB             *sqlx.DB
}

// NewRepositories opens the database, prepares schema and makes repositories
func NewRepositories(ctx context.Context, cfg Config) (*Repositories, error) {
	if cfg.DSN == "" {
		cfg.DSN = defaultDSN
	}

	db, err := sqlx.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	if cfg.ConnMaxLifetime > 0 {
		db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	}

	if err := prepare(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}

	return &Repositories{
		Classification: NewClassificationRepository(db),
		Report:         NewReportRepository(db),
		DB:             db,
	}, nil
}

// prepare applies pragmas, schema and migrations
func prepare(ctx context.Context, db *sqlx.DB) error {
	for _, pragma := range sqlitePragmas {
		if _, err := db.ExecContext(ctx, pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	if err := initSchema(ctx, db); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	if err := runMigrations(ctx, db); err != nil {
		return fmt.Errorf("run migrations: %w", err)
	}
	return nil
}

// Close closes the database connection
func (r *Repositories) Close() error {
	return r.DB.Close()
}

// Ping verifies the database connection
func (r *Repositories) Ping(ctx context.Context) error {
	return r.DB.PingContext(ctx)
}

func initSchema(ctx context.Context, db *sqlx.DB) error {
	schema, err := schemaFS.ReadFile("schema.sql")
	if err != nil {
		return fmt.Errorf("read schema: %w", err)
	}
	if _, err := db.ExecContext(ctx, string(schema)); err != nil {
		return fmt.Errorf("execute schema: %w", err)
	}
	return nil
}

// runMigrations adds missing columns and applies migrations.sql, safe to run repeatedly
func runMigrations(ctx context.Context, db *sqlx.DB) error {
	for _, m := range columnMigrations {
		ok, err := hasColumn(ctx, db, m.table, m.column)
		if err != nil {
			return err
		}
		if ok {
			continue
		}
		if _, err := db.ExecContext(ctx, m.ddl); err != nil {
			return fmt.Errorf("add column %s.%s: %w", m.table, m.column, err)
		}
		log.Printf("[INFO] added column %s.%s", m.table, m.column)
	}

	migrations, err := schemaFS.ReadFile("migrations.sql")
	if err != nil {
		return fmt.Errorf("read migrations: %w", err)
	}
	for _, stmt := range splitMigrationStatements(string(migrations)) {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			msg := err.Error()
			if strings.Contains(msg, "already exists") || strings.Contains(msg, "duplicate") {
				continue
			}
			return fmt.Errorf("execute migration statement: %w", err)
		}
	}
	return nil
}

func hasColumn(ctx context.Context, db *sqlx.DB, table, column string) (bool, error) {
	var count int
	if err := db.GetContext(ctx, &count, `SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column); err != nil {
		return false, fmt.Errorf("check column %s.%s: %w", table, column, err)
	}
	return count > 0, nil
}

// splitMigrationStatements splits sql text into statements ending with semicolon, "--" comment lines are dropped
func splitMigrationStatements(migrations string) []string {
	var res []string
	var stmt []string
	flush := func() {
		if s := strings.TrimSpace(strings.Join(stmt, "\n")); s != "" {
			res = append(res, s)
		}
		stmt = stmt[:0]
	}
	for _, line := range strings.Split(migrations, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "--") {
			continue
		}
		stmt = append(stmt, line)
		if strings.HasSuffix(trimmed, ";") {
			flush()
		}
	}
	flush()
	return res
}
