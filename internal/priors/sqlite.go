package priors

import (
	"context"
	"database/sql"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path in read-oriented mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "priors sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "priors sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) GetSections(ctx context.Context, companyID string) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT section, content FROM prior_analyses WHERE company_id = ?`,
		companyID,
	)
	if err != nil {
		return nil, eris.Wrap(err, "priors sqlite: query sections")
	}
	defer rows.Close()

	sections := map[string]string{}
	for rows.Next() {
		var section, content string
		if err := rows.Scan(&section, &content); err != nil {
			return nil, eris.Wrap(err, "priors sqlite: scan section")
		}
		sections[section] = content
	}
	if err := rows.Err(); err != nil {
		return nil, eris.Wrap(err, "priors sqlite: iterate sections")
	}
	return sections, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
