package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	gddl "phonotactics/internal/ddl"
	"phonotactics/internal/storage"
)

func newRepo(tb testing.TB) *Repository {
	tb.Helper()
	r, closeFn, err := NewRepository(context.Background(), Config{DSN: ":memory:"})
	if err != nil {
		tb.Fatalf("open sqlite :memory:: %v", err)
	}
	tb.Cleanup(closeFn)
	return r
}

var (
	langs = gddl.TableDef{Name: "LanguageTable", Columns: []gddl.ColumnDef{
		{Name: "ID", Datatype: "string", PrimaryKey: true},
		{Name: "Latitude", Datatype: "number", Nullable: true},
		{Name: "Isolate", Datatype: "boolean", Nullable: true},
	}}
	values = gddl.TableDef{Name: "ValueTable", Columns: []gddl.ColumnDef{
		{Name: "ID", Datatype: "string", PrimaryKey: true},
		{Name: "Language_ID", Datatype: "string"},
	}, ForeignKeys: []gddl.ForeignKey{{Column: "Language_ID", RefTable: "LanguageTable", RefColumn: "ID"}}}
)

func TestCreateAndCopy(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	ctx := context.Background()
	if err := r.CreateTable(ctx, langs); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	n, err := r.CopyFrom(ctx, langs, [][]any{{"1", 1.5, true}, {"2", nil, false}})
	if err != nil || n != 2 {
		t.Fatalf("CopyFrom: n=%d err=%v", n, err)
	}

	var (
		lat     sql.NullFloat64
		isolate int64
	)
	if err := r.db.QueryRowContext(ctx, `SELECT "Latitude", "Isolate" FROM "LanguageTable" WHERE "ID" = '1'`).Scan(&lat, &isolate); err != nil {
		t.Fatalf("query: %v", err)
	}
	if !lat.Valid || lat.Float64 != 1.5 || isolate != 1 {
		t.Fatalf("row = %v/%d", lat, isolate)
	}

	// CreateTable replaces the table, so a rerun starts empty.
	if err := r.CreateTable(ctx, langs); err != nil {
		t.Fatalf("CreateTable again: %v", err)
	}
	var count int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM "LanguageTable"`).Scan(&count); err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("count after recreate = %d", count)
	}
}

func TestCopyFrom_Errors(t *testing.T) {
	t.Parallel()

	r := newRepo(t)
	ctx := context.Background()
	if err := r.CreateTable(ctx, langs); err != nil {
		t.Fatalf("CreateTable: %v", err)
	}
	if _, err := r.CopyFrom(ctx, langs, [][]any{{"1"}}); err == nil {
		t.Fatal("expected row length error")
	}
	if _, err := r.CopyFrom(ctx, langs, [][]any{{"1", nil, nil}, {"1", nil, nil}}); err == nil {
		t.Fatal("expected primary key violation")
	}
	if err := r.CreateTable(ctx, values); err != nil {
		t.Fatalf("CreateTable values: %v", err)
	}
	if _, err := r.CopyFrom(ctx, values, [][]any{{"9-x", "9"}}); err == nil {
		t.Fatal("expected foreign key violation")
	}
}

func TestNewRepository_EmptyDSN(t *testing.T) {
	t.Parallel()

	if _, _, err := NewRepository(context.Background(), Config{}); err == nil {
		t.Fatal("expected error for empty DSN")
	}
}

// TestFactory exercises the registered factory with a stubbed constructor.
func TestFactory(t *testing.T) {
	orig := newRepository
	t.Cleanup(func() { newRepository = orig })

	var gotDSN string
	closed := false
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) {
		gotDSN = cfg.DSN
		return &Repository{cfg: cfg}, func() { closed = true }, nil
	}

	repo, err := storage.New(context.Background(), storage.Config{Kind: "sqlite", DSN: "x.sqlite"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if gotDSN != "x.sqlite" {
		t.Fatalf("DSN = %q", gotDSN)
	}
	repo.Close()
	if !closed {
		t.Fatal("Close did not call the cleanup function")
	}

	want := errors.New("boom")
	newRepository = func(ctx context.Context, cfg Config) (*Repository, func(), error) { return nil, nil, want }
	if _, err := storage.New(context.Background(), storage.Config{Kind: "sqlite"}); !errors.Is(err, want) {
		t.Fatalf("err = %v, want %v", err, want)
	}
}
