// Package pg implements the grant store and user store on PostgreSQL.
package pg

import (
	"database/sql"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"

	"schoolgate.dev/internal/access"
	"schoolgate.dev/internal/auth"
)

// Store wraps a database handle and implements the persistence interfaces
// consumed by the access and auth packages.
type Store struct {
	db *sql.DB
}

var (
	_ access.GrantStore = (*Store)(nil)
	_ auth.UserStore    = (*Store)(nil)
)

// Open connects to PostgreSQL with pool settings tuned for short
// request-scoped reads.
func Open(dsn string) (*Store, error) {
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return nil, err
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(15 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)
	return &Store{db: db}, nil
}

// NewStore wraps an existing handle (used by tests).
func NewStore(db *sql.DB) *Store { return &Store{db: db} }

func (s *Store) Close() error { return s.db.Close() }

func (s *Store) DB() *sql.DB { return s.db }
