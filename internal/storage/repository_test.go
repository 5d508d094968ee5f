package storage

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"phonotactics/internal/cldf"
	"phonotactics/internal/ddl"
)

// fakeRepo records calls for assertions.
type fakeRepo struct {
	created   []string
	copied    map[string][][]any
	calls     int
	committed bool
	closed    bool
	failOn    string
}

func (f *fakeRepo) CreateTable(ctx context.Context, t ddl.TableDef) error {
	f.created = append(f.created, t.Name)
	return nil
}

func (f *fakeRepo) CopyFrom(ctx context.Context, t ddl.TableDef, rows [][]any) (int64, error) {
	if t.Name == f.failOn {
		return 0, errors.New("boom")
	}
	if f.copied == nil {
		f.copied = map[string][][]any{}
	}
	f.calls++
	f.copied[t.Name] = append(f.copied[t.Name], rows...)
	return int64(len(rows)), nil
}

func (f *fakeRepo) Close() { f.closed = true }

type committingRepo struct{ fakeRepo }

func (c *committingRepo) Commit(ctx context.Context) error {
	c.committed = true
	return nil
}

// TestRegisterAndNew_Success verifies that registering a backend enables New()
// to return the corresponding repository.
func TestRegisterAndNew_Success(t *testing.T) {
	t.Parallel()

	kind := "fake"
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		return &fakeRepo{}, nil
	})

	repo, err := New(context.Background(), Config{Kind: kind})
	if err != nil {
		t.Fatalf("New error: %v", err)
	}
	if repo == nil {
		t.Fatalf("New returned nil repo")
	}

	found := false
	for _, k := range ListKinds() {
		if k == kind {
			found = true
			break
		}
	}
	if !found {
		t.Fatalf("registered kind %q not present in ListKinds: %v", kind, ListKinds())
	}
}

// TestNew_Unsupported verifies that unsupported kinds return a helpful error.
func TestNew_Unsupported(t *testing.T) {
	t.Parallel()

	_, err := New(context.Background(), Config{Kind: "does-not-exist"})
	if err == nil {
		t.Fatalf("expected error for unsupported kind")
	}
	if got, want := err.Error(), "unsupported storage.kind=does-not-exist"; got != want {
		t.Fatalf("error = %q, want %q", got, want)
	}
}

// TestRegister_Override verifies that re-registering a kind overrides the
// previous factory.
func TestRegister_Override(t *testing.T) {
	t.Parallel()

	kind := "override"
	calls := 0
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		calls++
		return &fakeRepo{}, nil
	})
	Register(kind, func(ctx context.Context, cfg Config) (Repository, error) {
		calls += 10
		return &fakeRepo{}, nil
	})

	if _, err := New(context.Background(), Config{Kind: kind}); err != nil {
		t.Fatalf("New error: %v", err)
	}
	if calls != 10 {
		t.Fatalf("factory call count = %d, want 10", calls)
	}
}

// TestListKinds_Snapshot checks that ListKinds returns a copy.
func TestListKinds_Snapshot(t *testing.T) {
	t.Parallel()

	Register("snap", func(ctx context.Context, cfg Config) (Repository, error) { return &fakeRepo{}, nil })

	a := ListKinds()
	if len(a) == 0 {
		t.Fatalf("ListKinds empty after registration")
	}
	a[0] = "mutated"
	if b := ListKinds(); reflect.DeepEqual(a, b) {
		t.Fatalf("ListKinds returned same slice; want snapshot copy")
	}
}

// TestRegister_AllowsErrors shows factories can return errors that bubble up.
func TestRegister_AllowsErrors(t *testing.T) {
	t.Parallel()

	want := errors.New("boom")
	Register("errkind", func(ctx context.Context, cfg Config) (Repository, error) {
		return nil, want
	})
	if _, err := New(context.Background(), Config{Kind: "errkind"}); !errors.Is(err, want) {
		t.Fatalf("want %v, got %v", want, err)
	}
}

func testTables() []cldf.Table {
	return []cldf.Table{
		{Def: ddl.TableDef{Name: "LanguageTable", Columns: []ddl.ColumnDef{{Name: "ID"}}},
			Rows: [][]any{{"1"}, {"2"}, {"3"}}},
		{Def: ddl.TableDef{Name: "ValueTable", Columns: []ddl.ColumnDef{{Name: "ID"}, {Name: "Language_ID"}},
			ForeignKeys: []ddl.ForeignKey{{Column: "Language_ID", RefTable: "LanguageTable", RefColumn: "ID"}}},
			Rows: [][]any{{"1-a", "1"}}},
	}
}

func TestWriteDataset_Batches(t *testing.T) {
	t.Parallel()

	repo := &committingRepo{}
	counts, err := WriteDataset(context.Background(), repo, testTables(), WriteOptions{TablePrefix: "pt_", BatchSize: 2})
	if err != nil {
		t.Fatalf("WriteDataset: %v", err)
	}
	if got, want := repo.created, []string{"pt_LanguageTable", "pt_ValueTable"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("created = %v, want %v", got, want)
	}
	if counts["LanguageTable"] != 3 || counts["ValueTable"] != 1 {
		t.Fatalf("counts = %v", counts)
	}
	// 3 language rows in batches of 2 plus one value batch.
	if repo.calls != 3 {
		t.Fatalf("CopyFrom calls = %d, want 3", repo.calls)
	}
	if !repo.committed {
		t.Fatalf("Commit not called")
	}
}

func TestWriteDataset_Error(t *testing.T) {
	t.Parallel()

	repo := &fakeRepo{failOn: "ValueTable"}
	_, err := WriteDataset(context.Background(), repo, testTables(), WriteOptions{})
	if err == nil {
		t.Fatalf("expected error")
	}
}

func TestPrefixed(t *testing.T) {
	t.Parallel()

	orig := testTables()[1].Def
	p := Prefixed(orig, "x_")
	if p.Name != "x_ValueTable" || p.ForeignKeys[0].RefTable != "x_LanguageTable" {
		t.Fatalf("Prefixed = %+v", p)
	}
	if orig.ForeignKeys[0].RefTable != "LanguageTable" {
		t.Fatalf("Prefixed mutated its input")
	}
}
