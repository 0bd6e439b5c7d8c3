package storage

import (
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"

	"golang.org/x/text/cases"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

func init() {
	if err := sqlite.RegisterDeterministicScalarFunction("casefold", 1, casefold); err != nil {
		panic(fmt.Sprintf("register casefold: %v", err))
	}
}

// casefold is the SQL function casefold(text). SQLite's LIKE only ignores
// ASCII case, so search compares Unicode-folded text.
func casefold(_ *sqlite.FunctionContext, args []driver.Value) (driver.Value, error) {
	switch v := args[0].(type) {
	case string:
		return foldCase(v), nil
	case []byte:
		return foldCase(string(v)), nil
	default:
		return v, nil
	}
}

// foldCase builds a Caser per call; Casers keep state between calls.
func foldCase(s string) string {
	return cases.Fold().String(s)
}

var (
	// ErrNotFound is returned when a looked-up record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrEmailTaken is returned when signing up with an email already in use.
	ErrEmailTaken = errors.New("email has already been taken")
	// ErrDuplicateBacking is returned when a user backs the same reward twice.
	ErrDuplicateBacking = errors.New("reward has already been backed by this user")
)

// DB wraps a sql.DB connection.
type DB struct {
	conn *sql.DB
}

// NewDB opens a database connection and runs migrations.
func NewDB(path string) (*DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, err
	}

	// Pragmas are per connection and ":memory:" databases are per connection
	// too, so everything goes through a single one.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, err
	}

	if _, err := conn.Exec("PRAGMA foreign_keys = ON"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("enable foreign keys: %w", err)
	}

	db := &DB{conn: conn}
	if err := db.migrate(); err != nil {
		conn.Close()
		return nil, err
	}

	return db, nil
}

func (db *DB) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL,
			email TEXT UNIQUE NOT NULL,
			image_url TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			session_token TEXT UNIQUE NOT NULL,
			session_expires_at DATETIME,
			created_at DATETIME NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS projects (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			short_blurb TEXT NOT NULL,
			description TEXT NOT NULL,
			category TEXT NOT NULL,
			funding_amount INTEGER NOT NULL,
			funding_end_date DATETIME NOT NULL,
			image_url TEXT NOT NULL,
			created_at DATETIME NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS index_projects_on_category ON projects(category)`,
		`CREATE INDEX IF NOT EXISTS index_projects_on_funding_amount ON projects(funding_amount)`,
		`CREATE INDEX IF NOT EXISTS index_projects_on_funding_end_date ON projects(funding_end_date)`,
		`CREATE INDEX IF NOT EXISTS index_projects_on_user_id ON projects(user_id)`,
		`CREATE TABLE IF NOT EXISTS rewards (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			project_id INTEGER NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
			title TEXT NOT NULL,
			amount INTEGER NOT NULL,
			description TEXT NOT NULL DEFAULT ''
		)`,
		`CREATE INDEX IF NOT EXISTS index_rewards_on_project_id ON rewards(project_id)`,
		`CREATE TABLE IF NOT EXISTS backings (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			reward_id INTEGER NOT NULL REFERENCES rewards(id) ON DELETE CASCADE,
			created_at DATETIME NOT NULL,
			UNIQUE (user_id, reward_id)
		)`,
		`CREATE INDEX IF NOT EXISTS index_backings_on_reward_id ON backings(reward_id)`,
	}

	for _, m := range migrations {
		if _, err := db.conn.Exec(m); err != nil {
			return err
		}
	}

	return nil
}

// Close closes the database connection.
func (db *DB) Close() error {
	return db.conn.Close()
}

type scanner interface {
	Scan(dest ...any) error
}

func isUniqueViolation(err error) bool {
	var se *sqlite.Error
	return errors.As(err, &se) && se.Code() == sqlite3.SQLITE_CONSTRAINT_UNIQUE
}

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}
