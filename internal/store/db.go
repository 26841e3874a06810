package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// DB wraps the SQLite database that holds contacts, interactions and reminders.
type DB struct {
	*sqlx.DB
	logger *zap.Logger
	now    func() time.Time
}

// Option configures a DB.
type Option func(*DB)

// WithLogger attaches a logger for structured diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(db *DB) {
		if l != nil {
			db.logger = l
		}
	}
}

// WithClock overrides the clock used to stamp and query timestamps.
func WithClock(now func() time.Time) Option {
	return func(db *DB) {
		if now != nil {
			db.now = now
		}
	}
}

// Open creates a new SQLite connection with WAL mode and recommended pragmas.
// The parent directory of path is created when missing.
func Open(path string, opts ...Option) (*DB, error) {
	if dir := filepath.Dir(path); dir != "" && path != ":memory:" {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return nil, fmt.Errorf("create db dir: %w: %w", ErrStorage, err)
		}
	}
	conn, err := sqlx.Open("sqlite3", path+"?_journal_mode=WAL&_busy_timeout=5000&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("open db: %w: %w", ErrStorage, err)
	}
	// Verify connection.
	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping db: %w: %w", ErrStorage, err)
	}
	return newDB(conn, opts...), nil
}

// New wraps an already opened *sqlx.DB. The caller keeps ownership of the
// driver choice; it is used by tests that substitute the driver.
func New(conn *sqlx.DB, opts ...Option) *DB {
	return newDB(conn, opts...)
}

func newDB(conn *sqlx.DB, opts ...Option) *DB {
	db := &DB{
		DB:     conn,
		logger: zap.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db
}

// Now returns the current time according to the store's clock.
func (db *DB) Now() time.Time {
	return db.now()
}
