// Package postgres implements a Postgres repository using pgx v5. Tables are
// recreated per run and loaded with COPY.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	gddl "phonotactics/internal/ddl"
	pgddl "phonotactics/internal/storage/postgres/ddl"
)

// Config holds Postgres repository configuration.
type Config struct {
	DSN string // connection string for pgxpool
}

// Repository is a Postgres-backed implementation of storage.Repository.
type Repository struct {
	pool *pgxpool.Pool
	cfg  Config
}

// NewRepository constructs a Repository and returns a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	pool, err := pgxpool.New(ctx, cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("pgxpool: %w", err)
	}
	close := func() { pool.Close() }
	return &Repository{pool: pool, cfg: cfg}, close, nil
}

// CreateTable drops t (cascading to the foreign keys pointing at it) and
// creates it again.
func (r *Repository) CreateTable(ctx context.Context, t gddl.TableDef) error {
	stmt, err := pgddl.BuildCreateTableSQL(t)
	if err != nil {
		return err
	}
	if err := r.Exec(ctx, "DROP TABLE IF EXISTS "+gddl.QuoteFQN(t.Name, gddl.QuoteDouble)+" CASCADE"); err != nil {
		return fmt.Errorf("drop %s: %w", t.Name, err)
	}
	if err := r.Exec(ctx, stmt); err != nil {
		return fmt.Errorf("create %s: %w", t.Name, err)
	}
	return nil
}

// CopyFrom loads rows into t with COPY.
func (r *Repository) CopyFrom(ctx context.Context, t gddl.TableDef, rows [][]any) (int64, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	n, err := r.pool.CopyFrom(ctx, splitFQN(t.Name), t.ColumnNames(), pgx.CopyFromRows(rows))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Detail != "" {
			return n, fmt.Errorf("copy into %s: %s (%s)", t.Name, pgErr.Detail, pgErr.SQLState())
		}
		return n, fmt.Errorf("copy into %s: %w", t.Name, err)
	}
	return n, nil
}

// splitFQN converts "schema.table" into a pgx.Identifier {"schema","table"}.
// If no dot is present, returns {"table"}.
func splitFQN(fqn string) pgx.Identifier {
	parts := strings.Split(fqn, ".")
	id := make(pgx.Identifier, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			id = append(id, p)
		}
	}
	return id
}

// Exec runs a single statement against the pool.
func (r *Repository) Exec(ctx context.Context, sql string) error {
	_, err := r.pool.Exec(ctx, sql)
	return err
}
