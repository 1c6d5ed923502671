// Package store provides persistence for raw events, aggregate summaries,
// and read-only collaborator lookups.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"                      // SQLite driver
	_ "github.com/tursodatabase/libsql-client-go/libsql" // Turso driver

	"github.com/makerfolio/makerfolio-go/config"
)

// Database wraps the backing SQL connection
type Database struct {
	Conn     *sql.DB
	UseTurso bool
}

// NewDatabase opens the analytics database. Turso is tried first when
// credentials are configured; local SQLite is the fallback.
func NewDatabase() (*Database, error) {
	var conn *sql.DB
	var err error
	var useTurso bool

	if config.TursoDatabase != "" && config.TursoToken != "" {
		connStr := config.TursoDatabase + "?authToken=" + config.TursoToken
		conn, err = sql.Open("libsql", connStr)
		if err == nil {
			if pingErr := conn.Ping(); pingErr == nil {
				useTurso = true
			} else {
				conn.Close()
				conn = nil
			}
		}
	}

	if conn == nil {
		// Ensure directory exists
		dbDir := filepath.Dir(config.SQLitePath)
		if err := os.MkdirAll(dbDir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}

		conn, err = sql.Open("sqlite3", config.SQLitePath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database: %w", err)
		}

		if err := conn.Ping(); err != nil {
			conn.Close()
			return nil, fmt.Errorf("SQLite database ping failed: %w", err)
		}
		useTurso = false
	}

	conn.SetMaxOpenConns(config.DBMaxOpenConns)
	conn.SetMaxIdleConns(config.DBMaxIdleConns)
	conn.SetConnMaxLifetime(time.Duration(config.DBConnMaxLifetimeMinutes) * time.Minute)
	conn.SetConnMaxIdleTime(time.Duration(config.DBConnMaxIdleMinutes) * time.Minute)

	return &Database{
		Conn:     conn,
		UseTurso: useTurso,
	}, nil
}

// Close closes the database connection
func (db *Database) Close() error {
	if db.Conn != nil {
		return db.Conn.Close()
	}
	return nil
}

// GetConnectionInfo returns a string describing the database connection
func (db *Database) GetConnectionInfo() string {
	if db.UseTurso {
		return "Turso"
	}
	return "SQLite"
}
