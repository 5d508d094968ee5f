package ddl

import (
	"strings"
	"testing"
)

func sqliteLike() Dialect {
	return Dialect{
		Quote: QuoteDouble,
		Type: func(dt string) string {
			switch dt {
			case "integer", "boolean":
				return "INTEGER"
			case "number":
				return "REAL"
			}
			return "TEXT"
		},
		IfNotExists: true,
		ForeignKeys: true,
	}
}

func TestBuildCreateTableSQL(t *testing.T) {
	t.Parallel()

	td := TableDef{
		Name: "ValueTable",
		Columns: []ColumnDef{
			{Name: "ID", Datatype: "string", PrimaryKey: true},
			{Name: "Language_ID", Datatype: "string"},
			{Name: "Value", Datatype: "string", Nullable: true},
		},
		ForeignKeys: []ForeignKey{{Column: "Language_ID", RefTable: "LanguageTable", RefColumn: "ID"}},
	}
	got, err := BuildCreateTableSQL(td, sqliteLike())
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	want := `CREATE TABLE IF NOT EXISTS "ValueTable" (
  "ID" TEXT NOT NULL,
  "Language_ID" TEXT NOT NULL,
  "Value" TEXT,
  PRIMARY KEY ("ID"),
  FOREIGN KEY ("Language_ID") REFERENCES "LanguageTable" ("ID")
);`
	if got != want {
		t.Fatalf("sql mismatch\n got: %s\nwant: %s", got, want)
	}

	d := sqliteLike()
	d.ForeignKeys, d.IfNotExists = false, false
	got, _ = BuildCreateTableSQL(td, d)
	if strings.Contains(got, "FOREIGN KEY") || strings.Contains(got, "IF NOT EXISTS") {
		t.Fatalf("dialect switches ignored: %s", got)
	}
}

func TestBuildCreateTableSQL_Errors(t *testing.T) {
	t.Parallel()

	cases := map[string]struct {
		td TableDef
		d  Dialect
	}{
		"empty name":    {TableDef{Columns: []ColumnDef{{Name: "a"}}}, sqliteLike()},
		"no columns":    {TableDef{Name: "t"}, sqliteLike()},
		"blank column":  {TableDef{Name: "t", Columns: []ColumnDef{{Name: " "}}}, sqliteLike()},
		"empty dialect": {TableDef{Name: "t", Columns: []ColumnDef{{Name: "a"}}}, Dialect{}},
	}
	for name, c := range cases {
		if _, err := BuildCreateTableSQL(c.td, c.d); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestQuote(t *testing.T) {
	t.Parallel()

	if got := QuoteDouble(`we"ird`); got != `"we""ird"` {
		t.Fatalf("QuoteDouble = %s", got)
	}
	if got := QuoteFQN("public.values", QuoteDouble); got != `"public"."values"` {
		t.Fatalf("QuoteFQN = %s", got)
	}
}

func TestTableDefHelpers(t *testing.T) {
	t.Parallel()

	td := TableDef{Columns: []ColumnDef{{Name: "a", PrimaryKey: true}, {Name: "b"}, {Name: "c", PrimaryKey: true}}}
	if got := strings.Join(td.ColumnNames(), ","); got != "a,b,c" {
		t.Fatalf("ColumnNames = %s", got)
	}
	if got := strings.Join(td.PrimaryKey(), ","); got != "a,c" {
		t.Fatalf("PrimaryKey = %s", got)
	}
}

func TestBuildCreateTableSQL_KeyType(t *testing.T) {
	t.Parallel()

	d := sqliteLike()
	d.KeyType = func(string) string { return "VARCHAR(64)" }
	got, err := BuildCreateTableSQL(TableDef{Name: "t", Columns: []ColumnDef{
		{Name: "ID", Datatype: "string", PrimaryKey: true},
		{Name: "Name", Datatype: "string"},
	}}, d)
	if err != nil {
		t.Fatalf("BuildCreateTableSQL: %v", err)
	}
	if !strings.Contains(got, `"ID" VARCHAR(64) NOT NULL`) || !strings.Contains(got, `"Name" TEXT NOT NULL`) {
		t.Fatalf("key type not applied: %s", got)
	}
}
