// Package sqlite implements a SQLite-backed storage.Repository using
// database/sql. It performs INSERTs inside one transaction per batch; SQLite
// has no bulk-load API like Postgres COPY, but transactions keep performance
// acceptable for dataset-sized volumes.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	gddl "phonotactics/internal/ddl"
	sqliteddl "phonotactics/internal/storage/sqlite/ddl"
)

// Repository is a SQLite-backed implementation of storage.Repository.
type Repository struct {
	db  *sql.DB
	cfg Config
}

// NewRepository opens a SQLite connection using the provided DSN and returns
// a Repository plus a Close function for cleanup.
func NewRepository(ctx context.Context, cfg Config) (*Repository, func(), error) {
	if strings.TrimSpace(cfg.DSN) == "" {
		return nil, nil, fmt.Errorf("sqlite: DSN must not be empty")
	}

	db, err := sql.Open("sqlite", cfg.DSN)
	if err != nil {
		return nil, nil, fmt.Errorf("sqlite: open: %w", err)
	}
	// A single connection keeps ":memory:" databases shared across calls.
	db.SetMaxOpenConns(1)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, nil, fmt.Errorf("sqlite: ping: %w", err)
	}

	// Enable foreign keys; ignore error if the build doesn't support it.
	_, _ = db.ExecContext(ctx, "PRAGMA foreign_keys = ON;")

	closeFn := func() { db.Close() }
	return &Repository{db: db, cfg: cfg}, closeFn, nil
}

// CreateTable drops any previous copy of t and creates it afresh, so that a
// rerun replaces the dataset instead of appending to it. Foreign keys are
// off while dropping since old referencing tables still hold rows.
func (r *Repository) CreateTable(ctx context.Context, t gddl.TableDef) error {
	stmt, err := sqliteddl.BuildCreateTableSQL(t)
	if err != nil {
		return err
	}
	for _, s := range []string{
		"PRAGMA foreign_keys = OFF;",
		"DROP TABLE IF EXISTS " + gddl.QuoteFQN(t.Name, gddl.QuoteDouble),
		"PRAGMA foreign_keys = ON;",
		stmt,
	} {
		if err := r.Exec(ctx, s); err != nil {
			return err
		}
	}
	return nil
}

// CopyFrom inserts the given rows into t using a single transaction and a
// prepared INSERT statement. len(row) must equal len(t.Columns) for every
// row.
func (r *Repository) CopyFrom(ctx context.Context, t gddl.TableDef, rows [][]any) (int64, error) {
	columns := t.ColumnNames()
	if len(columns) == 0 {
		return 0, fmt.Errorf("sqlite: CopyFrom: columns must not be empty")
	}
	if len(rows) == 0 {
		return 0, nil
	}

	quoted := make([]string, len(columns))
	placeholders := make([]string, len(columns))
	for i, c := range columns {
		quoted[i] = gddl.QuoteDouble(c)
		placeholders[i] = "?"
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s)",
		gddl.QuoteFQN(t.Name, gddl.QuoteDouble),
		strings.Join(quoted, ", "),
		strings.Join(placeholders, ", "),
	)

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("sqlite: begin tx: %w", err)
	}
	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		_ = tx.Rollback()
		return 0, fmt.Errorf("sqlite: prepare insert: %w", err)
	}
	defer stmt.Close()

	var inserted int64
	for _, row := range rows {
		if len(row) != len(columns) {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: CopyFrom: row length %d != columns length %d", len(row), len(columns))
		}
		if _, err := stmt.ExecContext(ctx, row...); err != nil {
			_ = tx.Rollback()
			return 0, fmt.Errorf("sqlite: insert into %s: %w", t.Name, err)
		}
		inserted++
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("sqlite: commit: %w", err)
	}
	return inserted, nil
}

// Exec executes an arbitrary SQL statement (typically DDL).
func (r *Repository) Exec(ctx context.Context, sql string) error {
	if strings.TrimSpace(sql) == "" {
		return nil
	}
	if _, err := r.db.ExecContext(ctx, sql); err != nil {
		return fmt.Errorf("sqlite: exec: %w", err)
	}
	return nil
}
