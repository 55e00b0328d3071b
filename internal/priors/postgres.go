package priors

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

// pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it.
type pool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool pool
}

const getSectionsQuery = `SELECT section, content FROM prior_analyses WHERE company_id = $1`

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	p, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, eris.Wrap(err, "priors postgres: create pool")
	}
	if err := p.Ping(ctx); err != nil {
		p.Close()
		return nil, eris.Wrap(err, "priors postgres: ping")
	}
	return &PostgresStore{pool: p}, nil
}

// newPostgresWithPool wires an existing pool; used by tests with pgxmock.
func newPostgresWithPool(p pool) *PostgresStore {
	return &PostgresStore{pool: p}
}

func (s *PostgresStore) GetSections(ctx context.Context, companyID string) (map[string]string, error) {
	rows, err := s.pool.Query(ctx, getSectionsQuery, companyID)
	if err != nil {
		return nil, eris.Wrap(err, "priors postgres: query sections")
	}
	defer rows.Close()

	sections := map[string]string{}
	for rows.Next() {
		var section, content string
		if err := rows.Scan(&section, &content); err != nil {
			return nil, eris.Wrap(err, "priors postgres: scan section")
		}
		sections[section] = content
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "priors postgres: iterate sections")
	}
	return sections, nil
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}
