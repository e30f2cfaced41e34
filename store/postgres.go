package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/gofhir/resources/resource"
)

// Migration creates the fhir_resources table. It is safe to run more than
// once.
const Migration = `
CREATE TABLE IF NOT EXISTS fhir_resources (
    resource_type TEXT        NOT NULL,
    id            TEXT        NOT NULL,
    body          JSONB       NOT NULL,
    updated_at    TIMESTAMPTZ NOT NULL DEFAULT now(),
    PRIMARY KEY (resource_type, id)
);
`

type pgRow interface {
	Scan(dest ...any) error
}

type pgRows interface {
	pgRow
	Next() bool
	Err() error
	Close()
}

// pgConn is the subset of *pgxpool.Pool the store uses.
type pgConn interface {
	QueryRow(ctx context.Context, sql string, args ...any) pgRow
	Query(ctx context.Context, sql string, args ...any) (pgRows, error)
	Exec(ctx context.Context, sql string, args ...any) error
	Close()
}

type poolConn struct {
	pool *pgxpool.Pool
}

func (c poolConn) QueryRow(ctx context.Context, sql string, args ...any) pgRow {
	return c.pool.QueryRow(ctx, sql, args...)
}

func (c poolConn) Query(ctx context.Context, sql string, args ...any) (pgRows, error) {
	return c.pool.Query(ctx, sql, args...)
}

func (c poolConn) Exec(ctx context.Context, sql string, args ...any) error {
	_, err := c.pool.Exec(ctx, sql, args...)
	return err
}

func (c poolConn) Close() {
	c.pool.Close()
}

// PostgresStore keeps resources as jsonb rows in fhir_resources.
type PostgresStore struct {
	base
	db pgConn
}

// OpenPostgres connects to dsn and runs Migration.
func OpenPostgres(ctx context.Context, dsn string, opts ...Option) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("store: connecting to postgres: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: connecting to postgres: %w", err)
	}

	s := NewPostgresStore(pool, opts...)
	if err := s.Migrate(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return s, nil
}

// NewPostgresStore wraps an existing pool. Call Migrate before first use if
// the table may not exist.
func NewPostgresStore(pool *pgxpool.Pool, opts ...Option) *PostgresStore {
	return &PostgresStore{base: newBase(opts), db: poolConn{pool: pool}}
}

// Migrate creates the table if needed.
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if err := s.db.Exec(ctx, Migration); err != nil {
		return fmt.Errorf("store: migrating: %w", err)
	}
	return nil
}

// Put implements Store.
func (s *PostgresStore) Put(ctx context.Context, id string, res resource.Resource) error {
	data, err := s.encode(id, res)
	if err != nil {
		return err
	}

	const query = `INSERT INTO fhir_resources (resource_type, id, body)
VALUES ($1, $2, $3)
ON CONFLICT (resource_type, id) DO UPDATE SET body = EXCLUDED.body, updated_at = now()`

	if err := s.db.Exec(ctx, query, res.ResourceType(), id, data); err != nil {
		return fmt.Errorf("store: put %s/%s: %w", res.ResourceType(), id, err)
	}
	return nil
}

// Get implements Store.
func (s *PostgresStore) Get(ctx context.Context, resourceType, id string) (resource.Resource, error) {
	const query = `SELECT body FROM fhir_resources WHERE resource_type = $1 AND id = $2`

	var data []byte
	if err := s.db.QueryRow(ctx, query, resourceType, id).Scan(&data); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("store: get %s/%s: %w", resourceType, id, err)
	}
	return s.decode(resourceType, id, data)
}

// Delete implements Store.
func (s *PostgresStore) Delete(ctx context.Context, resourceType, id string) error {
	const query = `DELETE FROM fhir_resources WHERE resource_type = $1 AND id = $2`
	if err := s.db.Exec(ctx, query, resourceType, id); err != nil {
		return fmt.Errorf("store: delete %s/%s: %w", resourceType, id, err)
	}
	return nil
}

// List implements Store.
func (s *PostgresStore) List(ctx context.Context, resourceType string) ([]Entry, error) {
	const query = `SELECT id, body FROM fhir_resources WHERE resource_type = $1 ORDER BY id`

	rows, err := s.db.Query(ctx, query, resourceType)
	if err != nil {
		return nil, fmt.Errorf("store: list %s: %w", resourceType, err)
	}
	defer rows.Close()

	var out []Entry
	for rows.Next() {
		var (
			id   string
			data []byte
		)
		if err := rows.Scan(&id, &data); err != nil {
			return nil, fmt.Errorf("store: list %s: %w", resourceType, err)
		}
		res, err := s.decode(resourceType, id, data)
		if err != nil {
			return nil, err
		}
		out = append(out, Entry{ID: id, Resource: res})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("store: list %s: %w", resourceType, err)
	}
	return out, nil
}

// Close implements Store.
func (s *PostgresStore) Close() error {
	s.db.Close()
	return nil
}
