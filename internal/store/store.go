// Package store provides the gateway's PostgreSQL reads and writes:
// athlete resolution, credential rows, goals and training plans.
package store

import "database/sql"

// Store is backed by a database/sql pool using the pgx driver.
type Store struct {
	db *sql.DB
}

// NewStore creates a Store backed by the given connection pool.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}
