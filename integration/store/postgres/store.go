package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dmitrymomot/mailkit/core/store"
	"github.com/dmitrymomot/mailkit/core/template"
)

// Config holds Postgres connection settings for the template store.
type Config struct {
	ConnectionURL string `env:"DATABASE_URL,required"`
}

// ErrConnectionFailed indicates the database was unreachable at construction.
var ErrConnectionFailed = errors.New("failed to connect to postgres")

// schema is applied at construction. A single table holds the collection;
// position keeps the order the editor arranged.
const schema = `
CREATE TABLE IF NOT EXISTS email_templates (
	id       TEXT PRIMARY KEY,
	position INTEGER NOT NULL,
	data     JSONB NOT NULL
)`

// Store keeps the template collection in a single Postgres table, one JSONB
// row per template.
type Store struct {
	pool *pgxpool.Pool
}

var _ store.Store = (*Store)(nil)

// New connects to Postgres, verifies connectivity, and ensures the schema.
func New(ctx context.Context, cfg Config) (*Store, error) {
	pool, err := pgxpool.New(ctx, cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	if _, err := pool.Exec(ctx, schema); err != nil {
		pool.Close()
		return nil, errors.Join(ErrConnectionFailed, err)
	}
	return &Store{pool: pool}, nil
}

// Load reads the collection ordered by stored position.
func (s *Store) Load(ctx context.Context) ([]*template.Template, error) {
	rows, err := s.pool.Query(ctx, `SELECT data FROM email_templates ORDER BY position`)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrLoadFailed, err)
	}
	defer rows.Close()

	var templates []*template.Template
	for rows.Next() {
		var data []byte
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrLoadFailed, err)
		}
		var tmpl template.Template
		if err := json.Unmarshal(data, &tmpl); err != nil {
			return nil, fmt.Errorf("%w: %v", store.ErrLoadFailed, err)
		}
		templates = append(templates, &tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", store.ErrLoadFailed, err)
	}
	return templates, nil
}

// Save replaces the whole collection in one transaction.
func (s *Store) Save(ctx context.Context, templates []*template.Template) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return fmt.Errorf("%w: %v", store.ErrSaveFailed, err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if _, err := tx.Exec(ctx, `DELETE FROM email_templates`); err != nil {
		return fmt.Errorf("%w: %v", store.ErrSaveFailed, err)
	}

	for i, tmpl := range templates {
		data, err := json.Marshal(tmpl)
		if err != nil {
			return fmt.Errorf("%w: template %s: %v", store.ErrSaveFailed, tmpl.ID, err)
		}
		if _, err := tx.Exec(ctx,
			`INSERT INTO email_templates (id, position, data) VALUES ($1, $2, $3)`,
			tmpl.ID, i, data,
		); err != nil {
			return fmt.Errorf("%w: %v", store.ErrSaveFailed, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("%w: %v", store.ErrSaveFailed, err)
	}
	return nil
}

// Close releases the connection pool.
func (s *Store) Close() {
	s.pool.Close()
}
