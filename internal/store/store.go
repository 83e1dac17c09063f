// Package store holds all database access for Evently. Queries come in
// postgres and sqlite flavors selected by the dialect the connection
// was opened with.
package store

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
)

// Store handles all database operations
type Store struct {
	db     *sql.DB
	dbType string
}

// New creates a store over an initialized connection
func New(db *sql.DB, dbType string) *Store {
	if dbType == "" {
		dbType = "sqlite"
	}
	return &Store{db: db, dbType: dbType}
}

// DB exposes the underlying connection, mainly for tests
func (s *Store) DB() *sql.DB {
	return s.db
}

func (s *Store) postgres() bool {
	return s.dbType == "postgres"
}

// newID generates a row ID for the SQLite path; PostgreSQL generates
// UUIDs server-side
func newID() string {
	return uuid.NewString()
}

func now() time.Time {
	return time.Now().UTC()
}
