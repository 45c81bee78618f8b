package storage

import (
	"context"
	"database/sql"

	"finance-predictor/internal/logger"

	sq "github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

const memoryPath = ":memory:"

var sqlb = sq.StatementBuilder.PlaceholderFormat(sq.Question)

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite")
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}
	if path == memoryPath {
		// every pooled connection would get its own empty in-memory database
		conn.SetMaxOpenConns(1)
	}

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "ping database")
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, errors.Wrap(err, "migrate database")
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT UNIQUE NOT NULL,
			password_hash TEXT NOT NULL,
			created_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS sessions (
			token TEXT PRIMARY KEY,
			user_id INTEGER NOT NULL,
			expires_at DATETIME NOT NULL,
			last_activity DATETIME DEFAULT CURRENT_TIMESTAMP,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS saved_expenses (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			username TEXT NOT NULL,
			income REAL NOT NULL,
			age INTEGER NOT NULL,
			dependents INTEGER NOT NULL,
			occupation INTEGER NOT NULL,
			city_tier INTEGER NOT NULL CHECK (city_tier IN (1, 2, 3)),
			total_expenses REAL NOT NULL,
			balance REAL NOT NULL,
			predicted_expense REAL NOT NULL,
			predicted_financial_score REAL NOT NULL DEFAULT 0,
			date TEXT NOT NULL,
			month TEXT NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_saved_expenses_username ON saved_expenses (username, date)`,
		`CREATE TABLE IF NOT EXISTS feedbacks (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT,
			email TEXT,
			message TEXT NOT NULL,
			timestamp TEXT NOT NULL,
			status TEXT NOT NULL DEFAULT 'pending',
			admin_reply TEXT
		)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}

	// Databases created before the financial score model existed lack this
	// column. The error is ignored because the column usually exists.
	_, _ = db.conn.Exec(`ALTER TABLE saved_expenses ADD COLUMN predicted_financial_score REAL NOT NULL DEFAULT 0`)

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

// withTx runs fn inside a transaction and commits when fn returns nil.
func (db *DB) withTx(ctx context.Context, fn func(tx *sql.Tx) error) error {
	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return errors.Wrap(err, "begin transaction")
	}
	defer func() {
		if err := tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
			logger.Error("error when transaction rollback", zap.Error(err))
		}
	}()

	if err := fn(tx); err != nil {
		return err
	}
	return errors.Wrap(tx.Commit(), "commit transaction")
}

func isUniqueViolation(err error) bool {
	var sqliteErr *sqlite.Error
	if errors.As(err, &sqliteErr) {
		return sqliteErr.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
	}
	return false
}

func rowsAffected(res sql.Result) (int64, error) {
	n, err := res.RowsAffected()
	return n, errors.Wrap(err, "rows affected")
}
