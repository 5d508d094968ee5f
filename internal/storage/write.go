package storage

import (
	"context"
	"fmt"
	"log"
	"time"

	"phonotactics/internal/cldf"
	"phonotactics/internal/ddl"
)

// DefaultBatchSize bounds the rows handed to one CopyFrom call.
const DefaultBatchSize = 5000

// WriteOptions tune WriteDataset.
type WriteOptions struct {
	TablePrefix string
	BatchSize   int
}

// Prefixed returns t with prefix applied to its name and to the tables its
// foreign keys reference.
func Prefixed(t ddl.TableDef, prefix string) ddl.TableDef {
	if prefix == "" {
		return t
	}
	t.Name = prefix + t.Name
	fks := make([]ddl.ForeignKey, len(t.ForeignKeys))
	for i, fk := range t.ForeignKeys {
		fk.RefTable = prefix + fk.RefTable
		fks[i] = fk
	}
	t.ForeignKeys = fks
	return t
}

// WriteDataset creates and loads every table in order, then commits when the
// repository supports it. It returns the number of rows loaded per table
// name (without prefix).
func WriteDataset(ctx context.Context, repo Repository, tables []cldf.Table, opt WriteOptions) (map[string]int64, error) {
	if opt.BatchSize <= 0 {
		opt.BatchSize = DefaultBatchSize
	}
	counts := make(map[string]int64, len(tables))
	for _, tb := range tables {
		def := Prefixed(tb.Def, opt.TablePrefix)
		if err := repo.CreateTable(ctx, def); err != nil {
			return counts, fmt.Errorf("create %s: %w", def.Name, err)
		}
		n, err := loadBatches(ctx, repo, def, tb.Rows, opt.BatchSize)
		counts[tb.Def.Name] = n
		if err != nil {
			return counts, fmt.Errorf("load %s: %w", def.Name, err)
		}
	}
	if c, ok := repo.(Committer); ok {
		if err := c.Commit(ctx); err != nil {
			return counts, fmt.Errorf("commit: %w", err)
		}
	}
	return counts, nil
}

// loadBatches hands rows to CopyFrom in slices of batchSize and logs a
// progress line per batch.
func loadBatches(ctx context.Context, repo Repository, t ddl.TableDef, rows [][]any, batchSize int) (int64, error) {
	var (
		total   int64
		batches int
		start   = time.Now()
	)
	for lo := 0; lo < len(rows); lo += batchSize {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		hi := min(lo+batchSize, len(rows))
		n, err := repo.CopyFrom(ctx, t, rows[lo:hi])
		total += n
		if err != nil {
			log.Printf("loader: copy failed table=%s after=%d total=%d err=%v", t.Name, n, total, err)
			return total, err
		}
		batches++
		log.Printf("batch #%d: table=%s inserted=%d total_inserted=%d elapsed=%s",
			batches, t.Name, n, total, time.Since(start).Truncate(time.Millisecond))
	}
	return total, nil
}
