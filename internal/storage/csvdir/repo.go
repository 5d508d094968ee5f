// Package csvdir writes the dataset as a CLDF directory: one CSV file per
// table, the CSVW metadata document and a checksums file with the xxh3
// digest of every file, so that reruns can be compared byte for byte.
package csvdir

import (
	"bufio"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"

	"github.com/zeebo/xxh3"

	"phonotactics/internal/cldf"
	"phonotactics/internal/csvw"
	"phonotactics/internal/ddl"
)

// ChecksumsFile lists "<digest>  <file>" lines sorted by file name.
const ChecksumsFile = "checksums.txt"

// Config configures the directory sink.
type Config struct {
	Dir string
}

type tableFile struct {
	f    *os.File
	buf  *bufio.Writer
	w    *csv.Writer
	hash *xxh3.Hasher
}

// Repository writes tables below Config.Dir.
type Repository struct {
	cfg    Config
	defs   []ddl.TableDef
	files  map[string]*tableFile
	digest map[string]uint64
}

// NewRepository creates the output directory.
func NewRepository(ctx context.Context, cfg Config) (*Repository, error) {
	if cfg.Dir == "" {
		return nil, fmt.Errorf("csvdir: dir must not be empty")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("csvdir: %w", err)
	}
	return &Repository{
		cfg:    cfg,
		files:  map[string]*tableFile{},
		digest: map[string]uint64{},
	}, nil
}

// CreateTable truncates the table's file and writes its header.
func (r *Repository) CreateTable(ctx context.Context, t ddl.TableDef) error {
	if t.URL == "" {
		return fmt.Errorf("csvdir: table %s has no url", t.Name)
	}
	if _, ok := r.files[t.URL]; ok {
		return fmt.Errorf("csvdir: table %s created twice", t.Name)
	}
	f, err := os.Create(filepath.Join(r.cfg.Dir, t.URL))
	if err != nil {
		return fmt.Errorf("csvdir: %w", err)
	}
	tf := &tableFile{f: f, hash: xxh3.New()}
	tf.buf = bufio.NewWriter(io.MultiWriter(f, tf.hash))
	tf.w = csv.NewWriter(tf.buf)
	r.files[t.URL] = tf
	r.defs = append(r.defs, t)
	if err := tf.w.Write(t.ColumnNames()); err != nil {
		return fmt.Errorf("csvdir: %s header: %w", t.URL, err)
	}
	return nil
}

// CopyFrom appends rows to the table's file, rendering typed cells as text.
func (r *Repository) CopyFrom(ctx context.Context, t ddl.TableDef, rows [][]any) (int64, error) {
	tf, ok := r.files[t.URL]
	if !ok {
		return 0, fmt.Errorf("csvdir: table %s not created", t.Name)
	}
	rec := make([]string, len(t.Columns))
	var n int64
	for _, row := range rows {
		if len(row) != len(rec) {
			return n, fmt.Errorf("csvdir: %s: row length %d != columns length %d", t.URL, len(row), len(rec))
		}
		for i, v := range row {
			rec[i] = csvw.Format(v)
		}
		if err := tf.w.Write(rec); err != nil {
			return n, fmt.Errorf("csvdir: %s: %w", t.URL, err)
		}
		n++
	}
	return n, nil
}

// Commit closes every table file, writes the metadata document and the
// checksums file.
func (r *Repository) Commit(ctx context.Context) error {
	for _, t := range r.defs {
		if err := r.closeFile(t.URL); err != nil {
			return err
		}
	}

	meta, err := cldf.Metadata(r.defs)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(r.cfg.Dir, cldf.MetadataFile), meta, 0o644); err != nil {
		return fmt.Errorf("csvdir: %w", err)
	}
	r.digest[cldf.MetadataFile] = xxh3.Hash(meta)

	names := make([]string, 0, len(r.digest))
	for name := range r.digest {
		names = append(names, name)
	}
	sort.Strings(names)

	f, err := os.Create(filepath.Join(r.cfg.Dir, ChecksumsFile))
	if err != nil {
		return fmt.Errorf("csvdir: %w", err)
	}
	w := bufio.NewWriter(f)
	for _, name := range names {
		fmt.Fprintf(w, "%016x  %s\n", r.digest[name], name)
		log.Printf("csvdir: file=%s xxh3=%016x", name, r.digest[name])
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("csvdir: %w", err)
	}
	return f.Close()
}

func (r *Repository) closeFile(url string) error {
	tf, ok := r.files[url]
	if !ok {
		return nil
	}
	delete(r.files, url)
	tf.w.Flush()
	if err := tf.w.Error(); err != nil {
		tf.f.Close()
		return fmt.Errorf("csvdir: %s: %w", url, err)
	}
	if err := tf.buf.Flush(); err != nil {
		tf.f.Close()
		return fmt.Errorf("csvdir: %s: %w", url, err)
	}
	r.digest[url] = tf.hash.Sum64()
	if err := tf.f.Close(); err != nil {
		return fmt.Errorf("csvdir: %s: %w", url, err)
	}
	return nil
}

// Close releases files left open by an aborted run.
func (r *Repository) Close() {
	for url, tf := range r.files {
		tf.f.Close()
		delete(r.files, url)
	}
}

// Dir returns the output directory.
func (r *Repository) Dir() string { return r.cfg.Dir }

// Files lists the files a successful Commit produced, sorted, relative to
// Dir. It is empty before Commit.
func (r *Repository) Files() []string {
	if _, ok := r.digest[cldf.MetadataFile]; !ok {
		return nil
	}
	names := make([]string, 0, len(r.digest)+1)
	for name := range r.digest {
		names = append(names, name)
	}
	names = append(names, ChecksumsFile)
	sort.Strings(names)
	return names
}
