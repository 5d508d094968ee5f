// Package etl runs one conversion end to end: load the lookup tables, map
// the CSVW schema to a parameter catalog, transform every source row and
// hand the resulting CLDF tables to the configured storage sink.
package etl

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"phonotactics/internal/cldf"
	"phonotactics/internal/config"
	"phonotactics/internal/csvw"
	"phonotactics/internal/datasource/file"
	"phonotactics/internal/lookup"
	"phonotactics/internal/metrics"
	"phonotactics/internal/parser/csv"
	"phonotactics/internal/schema"
	"phonotactics/internal/storage"
	"phonotactics/internal/transformer"
	"phonotactics/internal/transformer/builtin"
)

// Stats summarizes a finished (or failed) run.
type Stats struct {
	// RunID tags the log lines of one run.
	RunID      string
	Rows       int
	Languages  int
	Parameters int
	Values     int
	// SkippedLanguages counts rows repeating an identical language record.
	SkippedLanguages int
	Duplicates       int
	Unknown          int
	// Written maps output table names to the rows the sink accepted.
	Written map[string]int64
}

// openRepository is swapped by tests.
var openRepository = storage.New

// Run executes the pipeline described by p. It stops at the first fatal
// error; the returned Stats reflect the work done up to that point.
func Run(ctx context.Context, p config.Pipeline) (Stats, error) {
	st := Stats{RunID: uuid.NewString()}
	log.Printf("pipeline: run_id=%s job=%s", st.RunID, p.Job)
	opt := csv.Options{TrimSpace: p.Parser.TrimSpace, LazyQuotes: p.Parser.LazyQuotes, LogEvery: p.Parser.LogEvery}

	var tables *lookup.Tables
	err := step(p.Job, "lookups", func() error {
		var err error
		tables, err = lookup.Load(ctx, lookup.Sources{
			Glottocodes: file.NewLocal(p.Etc.LanguagesPath()),
			Countries:   file.NewLocal(p.Etc.CountriesPath()),
			Datatypes:   file.NewLocal(p.Etc.ParametersPath()),
			Languoids:   file.NewLocal(p.Glottolog.Languoids),
			LanguoidColumns: lookup.LanguoidColumns{
				ID:  p.Glottolog.IDColumn,
				ISO: p.Glottolog.ISOColumn,
			},
		}, opt)
		if err != nil {
			return err
		}
		log.Printf("lookups: glottocodes=%d countries=%d datatypes=%d iso_index=%d",
			len(tables.Glottocodes), len(tables.Countries), len(tables.Datatypes), len(tables.ISOIndex))
		return nil
	})
	if err != nil {
		return st, err
	}

	var (
		attrs schema.Attributes
		tg    *csvw.TableGroup
		cat   *schema.Catalog
	)
	err = step(p.Job, "schema", func() error {
		var err error
		if attrs, err = loadAttributes(ctx, p.Schema.Attributes); err != nil {
			return err
		}
		if tg, err = csvw.Load(ctx, file.NewLocal(p.Raw.MetadataPath())); err != nil {
			return err
		}
		cat = schema.MapSchema(tg.Tables[0].Columns(), attrs, tables.Datatypes)
		log.Printf("schema: columns=%d attributes=%d parameters=%d",
			len(tg.Tables[0].Columns()), len(attrs.All()), cat.Len())
		return nil
	})
	if err != nil {
		return st, err
	}

	ds := cldf.NewDataset(attrs)
	err = step(p.Job, "transform", func() error {
		tr := transformer.New(attrs, cat, tables, builtin.NewLedger())
		data := file.NewLocal(p.Raw.DataPath())
		err := tg.Rows(ctx, &tg.Tables[0], data, opt, func(r csvw.Row) error {
			st.Rows++
			res, err := tr.Row(r)
			if err != nil {
				return err
			}
			added, err := ds.AddLanguage(res.Language)
			if err != nil {
				return fmt.Errorf("row %d: %w", r.Line, err)
			}
			if added {
				st.Languages++
			} else {
				st.SkippedLanguages++
				log.Printf("transform: row %d repeats language %q; skipped", r.Line, res.Language.ID)
			}
			for _, v := range res.Values {
				if err := ds.AddValue(v); err != nil {
					return fmt.Errorf("row %d: %w", r.Line, err)
				}
			}
			st.Values += len(res.Values)
			st.Duplicates += res.Duplicates
			st.Unknown += res.Unknown
			return nil
		})
		ds.SetParameters(cat)
		st.Parameters = len(ds.Parameters)

		metrics.RecordRow(p.Job, "rows", int64(st.Rows))
		metrics.RecordRow(p.Job, "languages", int64(st.Languages))
		metrics.RecordRow(p.Job, "parameters", int64(st.Parameters))
		metrics.RecordRow(p.Job, "values", int64(st.Values))
		metrics.RecordRow(p.Job, "duplicates", int64(st.Duplicates))
		metrics.RecordRow(p.Job, "unknown", int64(st.Unknown))
		log.Printf("transform: rows=%d languages=%d skipped_languages=%d values=%d duplicates=%d unknown=%d",
			st.Rows, st.Languages, st.SkippedLanguages, st.Values, st.Duplicates, st.Unknown)
		return err
	})
	if err != nil {
		return st, err
	}

	err = step(p.Job, "load", func() error {
		repo, err := openRepository(ctx, storage.Config{
			Kind:        p.Storage.Kind,
			DSN:         p.Storage.DSN,
			Dir:         p.Storage.Dir,
			TablePrefix: p.Storage.TablePrefix,
		})
		if err != nil {
			return fmt.Errorf("storage: %w", err)
		}
		defer repo.Close()

		st.Written, err = storage.WriteDataset(ctx, repo, ds.Tables(), storage.WriteOptions{
			TablePrefix: p.Storage.TablePrefix,
			BatchSize:   p.Storage.BatchSize,
		})
		for name, n := range st.Written {
			metrics.RecordTable(p.Job, name, n)
		}
		return err
	})
	return st, err
}

// step times fn and records its outcome under the given stage name.
func step(job, name string, fn func() error) error {
	start := time.Now()
	err := fn()
	elapsed := time.Since(start)
	metrics.RecordStep(job, name, err, elapsed)
	if err != nil {
		log.Printf("%s: failed after %s: %v", name, elapsed.Truncate(time.Millisecond), err)
		return fmt.Errorf("%s: %w", name, err)
	}
	log.Printf("%s: done in %s", name, elapsed.Truncate(time.Millisecond))
	return nil
}

func loadAttributes(ctx context.Context, path string) (schema.Attributes, error) {
	if path == "" {
		return schema.DefaultAttributes()
	}
	rc, err := file.NewLocal(path).Open(ctx)
	if err != nil {
		return schema.Attributes{}, err
	}
	defer rc.Close()
	return schema.ParseAttributes(rc)
}
