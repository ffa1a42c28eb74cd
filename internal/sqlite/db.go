package sqlite

import (
	"fmt"
	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
	"time"
)

// Open opens a local storefront database and applies the schema.
// Pass ":memory:" for a throwaway database.
func Open(path string) (*sqlx.DB, error) {
	dsn := "file:" + path + "?_busy_timeout=5000&_txlock=immediate"
	if path != ":memory:" {
		dsn += "&_journal_mode=WAL"
	}
	db, err := sqlx.Open("sqlite3", dsn)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every connection would otherwise get its own empty database
		db.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		db.Close()
		return nil, err
	}
	return db, nil
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS inventory (
		product_id INTEGER PRIMARY KEY,
		quantity   INTEGER NOT NULL DEFAULT 0 CHECK (quantity >= 0),
		updated_at TIMESTAMP NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS cart (
		user_id    TEXT NOT NULL,
		product_id INTEGER NOT NULL,
		quantity   INTEGER NOT NULL CHECK (quantity >= 1),
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (user_id, product_id)
	)`,
	`CREATE TABLE IF NOT EXISTS profiles (
		user_id      TEXT PRIMARY KEY,
		first_name   TEXT NOT NULL DEFAULT '',
		middle_name  TEXT,
		last_name    TEXT NOT NULL DEFAULT '',
		location     TEXT NOT NULL DEFAULT '',
		phone_number TEXT NOT NULL DEFAULT '',
		created_at   TIMESTAMP NOT NULL,
		updated_at   TIMESTAMP NOT NULL
	)`,
}

func Migrate(db *sqlx.DB) error {
	for i, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("sqlite migrate step %d: %w", i+1, err)
		}
	}
	return nil
}

func now() time.Time { return time.Now().UTC() }
