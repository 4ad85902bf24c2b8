package database

import (
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"

	"github.com/pressly/goose/v3"

	"vahq/internal/agreement"
	"vahq/internal/database/migrations"
	"vahq/internal/database/pgmigrations"

	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3"    // SQLite driver
)

// Dialect selects the SQL flavour spoken by the connection.
type Dialect string

const (
	DialectSQLite   Dialect = "sqlite"
	DialectPostgres Dialect = "postgres"
)

// SQLDatabase implements agreement.Database and agreement.AuditLog, plus
// the notification outbox and the operation log, on SQLite or PostgreSQL.
// Queries are written with ? placeholders and rebound for PostgreSQL.
type SQLDatabase struct {
	db      *sql.DB
	dialect Dialect
}

var (
	_ agreement.Database = (*SQLDatabase)(nil)
	_ agreement.AuditLog = (*SQLDatabase)(nil)
)

// NewSQLiteDatabase opens the SQLite database at path and brings its schema
// up to date. path can be a file path or ":memory:".
func NewSQLiteDatabase(path string) (*SQLDatabase, error) {
	db, err := OpenConnection(path)
	if err != nil {
		return nil, err
	}
	if err := migrations.MigrateUp(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return NewSQLDatabaseFromDB(db, DialectSQLite), nil
}

// NewPostgresDatabase connects to PostgreSQL and applies the goose
// migrations.
func NewPostgresDatabase(ctx context.Context, dsn string) (*SQLDatabase, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}
	if err := RunPostgresMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating database: %w", err)
	}
	return NewSQLDatabaseFromDB(db, DialectPostgres), nil
}

// NewSQLDatabaseFromDB wraps an existing connection whose schema is
// already in place.
func NewSQLDatabaseFromDB(db *sql.DB, dialect Dialect) *SQLDatabase {
	return &SQLDatabase{db: db, dialect: dialect}
}

// OpenConnection opens a SQLite connection with foreign keys enforced.
// SQLite allows one writer at a time, and every connection to ":memory:"
// is a separate database, so the pool is limited to one connection.
func OpenConnection(path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}
	if _, err := db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set busy timeout: %w", err)
	}
	return db, nil
}

// gooseUpContext is a seam for testing goose.UpContext.
var gooseUpContext = func(ctx context.Context, db *sql.DB, dir string, opts ...goose.OptionsFunc) error {
	return goose.UpContext(ctx, db, dir, opts...)
}

// RunPostgresMigrations applies the embedded PostgreSQL migrations.
func RunPostgresMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(pgmigrations.Migrations)
	if err := goose.SetDialect("pgx"); err != nil {
		return err
	}
	return gooseUpContext(ctx, db, ".")
}

// CheckMigrations verifies that the schema matches this binary.
// PostgreSQL schemas are migrated on connect, so only SQLite is checked.
func (s *SQLDatabase) CheckMigrations() error {
	if s.dialect != DialectSQLite {
		return nil
	}
	return migrations.CheckDBMigrationStatus(s.db)
}

// Close closes the database connection.
func (s *SQLDatabase) Close() error {
	return s.db.Close()
}

// rebind rewrites ? placeholders as $1, $2, ... for PostgreSQL.
// Queries in this package never contain a literal question mark.
func (s *SQLDatabase) rebind(query string) string {
	if s.dialect != DialectPostgres {
		return query
	}
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteByte('$')
			b.WriteString(strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func (s *SQLDatabase) exec(query string, args ...any) (sql.Result, error) {
	return s.db.ExecContext(context.Background(), s.rebind(query), args...)
}

func (s *SQLDatabase) query(query string, args ...any) (*sql.Rows, error) {
	return s.db.QueryContext(context.Background(), s.rebind(query), args...)
}

func (s *SQLDatabase) queryRow(query string, args ...any) *sql.Row {
	return s.db.QueryRowContext(context.Background(), s.rebind(query), args...)
}

// scanner is satisfied by both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}
