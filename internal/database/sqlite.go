package database

import (
	"database/sql"
	"fmt"
	"sync"

	_ "modernc.org/sqlite"
)

var (
	db   *sql.DB
	once sync.Once
)

// Config holds database configuration
type Config struct {
	Path string
}

// Init opens the process-wide database connection. The connection is created
// once and reused for the process lifetime; there is no invalidation path if
// the source dataset changes after ingest.
func Init(cfg Config) error {
	var err error
	once.Do(func() {
		db, err = sql.Open("sqlite", cfg.Path)
		if err != nil {
			return
		}

		// Single writer (the ingest step) followed by read-only queries.
		db.SetMaxOpenConns(10)
		db.SetMaxIdleConns(5)

		_, err = db.Exec("PRAGMA journal_mode=WAL")
		if err != nil {
			return
		}

		err = db.Ping()
	})

	return err
}

// GetDB returns the database instance.
func GetDB() *sql.DB {
	return db
}

// Close closes the database connection.
func Close() error {
	if db != nil {
		return db.Close()
	}
	return nil
}

// Transaction executes a function within a database transaction.
func Transaction(fn func(*sql.Tx) error) error {
	return TransactionOn(db, fn)
}

// TransactionOn is Transaction against an explicit handle.
func TransactionOn(conn *sql.DB, fn func(*sql.Tx) error) error {
	tx, err := conn.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("transaction error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
