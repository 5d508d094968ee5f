package cldf

import (
	"encoding/json"
	"errors"
	"testing"

	"phonotactics/internal/csvw"
	"phonotactics/internal/schema"
)

func mustAttrs(t *testing.T) schema.Attributes {
	t.Helper()
	a, err := schema.DefaultAttributes()
	if err != nil {
		t.Fatalf("DefaultAttributes: %v", err)
	}
	return a
}

func TestLanguageTableColumns(t *testing.T) {
	t.Parallel()

	td := LanguageTable(mustAttrs(t))
	if got := len(td.Columns); got != 7+17 {
		t.Fatalf("columns = %d, want 24", got)
	}
	types := map[string]string{}
	for _, c := range td.Columns {
		types[c.Name] = c.Datatype
	}
	for name, want := range map[string]string{
		"Isolate":             "boolean",
		"Altitude":            "number",
		"Adjusted_Population": "integer",
		"Lineage_0":           "string",
		"Country":             "string",
		"Glottocode":          "string",
		"Latitude":            "number",
	} {
		if types[name] != want {
			t.Errorf("%s datatype = %q, want %q", name, types[name], want)
		}
	}
}

func TestAddLanguage(t *testing.T) {
	t.Parallel()

	d := NewDataset(mustAttrs(t))
	l := Language{ID: "1", Fields: map[string]any{"Name": "Abau", "Isolate": false}}
	if added, err := d.AddLanguage(l); err != nil || !added {
		t.Fatalf("first add: added=%v err=%v", added, err)
	}
	same := Language{ID: "1", Fields: map[string]any{"Name": "Abau", "Isolate": false}}
	if added, err := d.AddLanguage(same); err != nil || added {
		t.Fatalf("identical add: added=%v err=%v", added, err)
	}
	other := Language{ID: "1", Fields: map[string]any{"Name": "Abau", "Isolate": true}}
	if _, err := d.AddLanguage(other); !errors.Is(err, ErrDuplicateLanguage) {
		t.Fatalf("conflicting add: err=%v, want ErrDuplicateLanguage", err)
	}
	if len(d.Languages) != 1 {
		t.Fatalf("languages = %d", len(d.Languages))
	}
}

func TestTablesRender(t *testing.T) {
	t.Parallel()

	d := NewDataset(mustAttrs(t))
	lat := 1.5
	_, _ = d.AddLanguage(Language{ID: "7", Glottocode: "abau1245", Fields: map[string]any{
		"Name": "Abau", "Latitude": lat, "Macroarea": "Papunesia", "Isolate": true,
	}})
	min, max := 0.0, 9000.0
	cat := &schema.Catalog{Parameters: []schema.Parameter{
		{ID: "Altitudes", Name: "Altitudes", Datatype: csvw.Datatype{Base: "decimal", Minimum: &min, Maximum: &max}},
		{ID: "Notes", Name: "Notes", Description: "free text", Datatype: csvw.Datatype{Base: "string"}},
	}}
	d.SetParameters(cat)
	if err := d.AddValue(NewValue("7", "Notes", "none")); err != nil {
		t.Fatalf("AddValue: %v", err)
	}

	tables := d.Tables()
	if len(tables) != 3 {
		t.Fatalf("tables = %d", len(tables))
	}
	lang := tables[0].Rows[0]
	want := []any{"7", "Abau", "Papunesia", 1.5, nil, "abau1245", nil}
	for i, w := range want {
		if lang[i] != w {
			t.Errorf("language col %s = %#v, want %#v", tables[0].Def.Columns[i].Name, lang[i], w)
		}
	}

	params := tables[1].Rows
	if params[0][3] != "number" || params[0][4] != 0.0 || params[0][5] != 9000.0 {
		t.Errorf("bounded parameter row = %#v", params[0])
	}
	if params[1][2] != "free text" || params[1][4] != nil || params[1][5] != nil {
		t.Errorf("unbounded parameter row = %#v", params[1])
	}

	vals := tables[2].Rows
	if len(vals) != 1 || vals[0][0] != "7-Notes" {
		t.Errorf("values = %#v", vals)
	}
}

func TestMetadata(t *testing.T) {
	t.Parallel()

	d := NewDataset(mustAttrs(t))
	b, err := Metadata(d.Defs())
	if err != nil {
		t.Fatalf("Metadata: %v", err)
	}
	var doc struct {
		ConformsTo string `json:"dc:conformsTo"`
		Tables     []struct {
			URL    string `json:"url"`
			Schema struct {
				PrimaryKey  []string `json:"primaryKey"`
				ForeignKeys []struct {
					ColumnReference string `json:"columnReference"`
					Reference       struct {
						Resource string `json:"resource"`
					} `json:"reference"`
				} `json:"foreignKeys"`
			} `json:"tableSchema"`
		} `json:"tables"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if doc.ConformsTo != termsURL+"StructureDataset" {
		t.Errorf("conformsTo = %q", doc.ConformsTo)
	}
	if len(doc.Tables) != 3 || doc.Tables[2].URL != "values.csv" {
		t.Fatalf("tables = %+v", doc.Tables)
	}
	fks := doc.Tables[2].Schema.ForeignKeys
	if len(fks) != 2 || fks[0].Reference.Resource != "languages.csv" || fks[1].Reference.Resource != "parameters.csv" {
		t.Errorf("foreign keys = %+v", fks)
	}

	if _, err := Metadata(d.Defs()[2:]); err == nil {
		t.Error("expected error for dangling foreign key")
	}
}

func TestAddValue_RepeatedID(t *testing.T) {
	t.Parallel()

	d := NewDataset(mustAttrs(t))
	if err := d.AddValue(NewValue("a-b", "c", "1")); err != nil {
		t.Fatalf("first: %v", err)
	}
	err := d.AddValue(NewValue("a", "b-c", "2"))
	if !errors.Is(err, ErrDuplicateValueID) {
		t.Fatalf("err = %v, want ErrDuplicateValueID", err)
	}
	if len(d.Values) != 1 {
		t.Fatalf("values = %d, want 1", len(d.Values))
	}
}
