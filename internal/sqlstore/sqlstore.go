// Package sqlstore keeps the article document in one row of a SQL table, so
// the service can run against sqlite3 or postgres with the same whole-document
// semantics as the file store.
package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/multierr"

	"github.com/SergeyParamoshkin/articles/internal/model"
	"github.com/SergeyParamoshkin/articles/internal/store"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	documentName = "articles"
)

type queries struct {
	create string
	seed   string
	load   string
	save   string
}

var dialects = map[string]queries{
	DriverSQLite: {
		create: `CREATE TABLE IF NOT EXISTS documents (
            name TEXT PRIMARY KEY,
            body TEXT NOT NULL,
            updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		seed: `INSERT INTO documents (name, body) VALUES (?, ?) ON CONFLICT(name) DO NOTHING`,
		load: `SELECT body FROM documents WHERE name = ?`,
		save: `
        INSERT INTO documents (name, body, updated_at)
        VALUES (?, ?, CURRENT_TIMESTAMP)
        ON CONFLICT(name) DO UPDATE SET
            body = excluded.body,
            updated_at = CURRENT_TIMESTAMP
    `,
	},
	DriverPostgres: {
		create: `CREATE TABLE IF NOT EXISTS documents (
            name TEXT PRIMARY KEY,
            body TEXT NOT NULL,
            updated_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT CURRENT_TIMESTAMP
        )`,
		seed: `INSERT INTO documents (name, body) VALUES ($1, $2) ON CONFLICT (name) DO NOTHING`,
		load: `SELECT body FROM documents WHERE name = $1`,
		save: `
        INSERT INTO documents (name, body, updated_at)
        VALUES ($1, $2, CURRENT_TIMESTAMP)
        ON CONFLICT (name) DO UPDATE SET
            body = EXCLUDED.body,
            updated_at = CURRENT_TIMESTAMP
    `,
	},
}

// Store implements store.Store on database/sql.
type Store struct {
	db *sql.DB
	q  queries
}

var _ store.Store = (*Store)(nil)

func Open(driver, dsn string) (*Store, error) {
	q, ok := dialects[driver]
	if !ok {
		return nil, fmt.Errorf("sqlstore: unsupported driver %q", driver)
	}

	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		return nil, multierr.Append(err, db.Close())
	}

	return &Store{db: db, q: q}, nil
}

// Initialize creates the documents table. With seed set, an empty
// collection is inserted unless one is already stored.
func (s *Store) Initialize(ctx context.Context, seed bool) error {
	if _, err := s.db.ExecContext(ctx, s.q.create); err != nil {
		return fmt.Errorf("error executing query %s: %w", s.q.create, err)
	}

	if !seed {
		return nil
	}

	body, err := store.Encode(&model.Collection{})
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.q.seed, documentName, string(body)); err != nil {
		return fmt.Errorf("error seeding %s: %w", documentName, err)
	}

	return nil
}

func (s *Store) Load(ctx context.Context) (*model.Collection, error) {
	var body string

	err := s.db.QueryRowContext(ctx, s.q.load, documentName).Scan(&body)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: document %q does not exist", store.ErrRead, documentName)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrRead, err)
	}

	return store.Decode([]byte(body))
}

func (s *Store) Save(ctx context.Context, c *model.Collection) error {
	body, err := store.Encode(c)
	if err != nil {
		return err
	}

	if _, err := s.db.ExecContext(ctx, s.q.save, documentName, string(body)); err != nil {
		return fmt.Errorf("%w: %v", store.ErrWrite, err)
	}

	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}
