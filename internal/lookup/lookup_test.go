package lookup

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"phonotactics/internal/datasource"
	"phonotactics/internal/datasource/file"
	"phonotactics/internal/parser/csv"
)

func src(data string) datasource.Source { return datasource.String{Label: "inline.csv", Data: data} }

func TestLoadPairs(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	gc, err := LoadGlottocodes(ctx, src("ID,Name,Glottocode\nL1,Foo,abcd1234\nL2,Bar,\n"), csv.Options{})
	if err != nil {
		t.Fatalf("LoadGlottocodes: %v", err)
	}
	if !reflect.DeepEqual(gc, map[string]string{"L1": "abcd1234", "L2": ""}) {
		t.Fatalf("glottocodes = %v", gc)
	}

	cc, err := LoadCountries(ctx, src("country,alpha_2\nBurma,\nIvory Coast,CI\n"), csv.Options{})
	if err != nil {
		t.Fatalf("LoadCountries: %v", err)
	}
	if code, ok := cc["Burma"]; !ok || code != "" {
		t.Fatalf("Burma should map to explicit no-code, got %q, %v", code, ok)
	}

	dt, err := LoadDatatypes(ctx, src("Parameter_ID,datatype\nMaxOnset,integer\nNotes,\n"), csv.Options{})
	if err != nil {
		t.Fatalf("LoadDatatypes: %v", err)
	}
	if !reflect.DeepEqual(dt, map[string]string{"MaxOnset": "integer"}) {
		t.Fatalf("datatypes = %v", dt)
	}
}

func TestLoadPairs_MissingColumn(t *testing.T) {
	t.Parallel()

	_, err := LoadCountries(context.Background(), src("name,code\nX,Y\n"), csv.Options{})
	if err == nil {
		t.Fatalf("expected missing column error")
	}
}

func TestLoadISOIndex(t *testing.T) {
	t.Parallel()

	catalog := "ID,Name,ISO639P3code\n" +
		"stan1293,English,eng\n" +
		"nort2641,Some dialect,\n" +
		"dupl0001,First,abc\n" +
		"dupl0002,Second,abc\n"
	idx, err := LoadISOIndex(context.Background(), src(catalog), LanguoidColumns{}, csv.Options{})
	if err != nil {
		t.Fatalf("LoadISOIndex: %v", err)
	}
	want := map[string]string{"eng": "stan1293", "abc": "dupl0002"}
	if !reflect.DeepEqual(idx, want) {
		t.Fatalf("index = %v, want %v", idx, want)
	}
}

func TestLoadISOIndex_Columns(t *testing.T) {
	t.Parallel()

	catalog := "id,family_id,iso639P3code\nstan1293,indo1319,eng\n"
	idx, err := LoadISOIndex(context.Background(), src(catalog), LanguoidColumns{}, csv.Options{})
	if err != nil || idx["eng"] != "stan1293" {
		t.Fatalf("detected columns: idx=%v err=%v", idx, err)
	}

	custom := "code,iso_code\nx1,xxx\n"
	idx, err = LoadISOIndex(context.Background(), src(custom), LanguoidColumns{ID: "code", ISO: "iso_code"}, csv.Options{})
	if err != nil || idx["xxx"] != "x1" {
		t.Fatalf("configured columns: idx=%v err=%v", idx, err)
	}

	if _, err := LoadISOIndex(context.Background(), src("a,b\n"), LanguoidColumns{}, csv.Options{}); err == nil {
		t.Fatalf("expected header error")
	}
	if _, err := LoadISOIndex(context.Background(), src(""), LanguoidColumns{}, csv.Options{}); err == nil {
		t.Fatalf("expected empty catalog error")
	}
}

func TestLoad_MissingFileIsFatal(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	write := func(name, data string) {
		t.Helper()
		if err := os.WriteFile(filepath.Join(dir, name), []byte(data), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	write("languages.csv", "ID,Glottocode\n")
	write("countries.csv", "country,alpha_2\n")
	write("languoids.csv", "ID,ISO639P3code\n")

	tables, err := Load(context.Background(), Sources{
		Glottocodes: file.In(dir, "languages.csv"),
		Countries:   file.In(dir, "countries.csv"),
		Datatypes:   file.In(dir, "parameters.csv"),
		Languoids:   file.In(dir, "languoids.csv"),
	}, csv.Options{})
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("err = %v, want os.ErrNotExist", err)
	}
	if tables != nil {
		t.Fatalf("partial tables returned on error")
	}

	write("parameters.csv", "Parameter_ID,datatype\n")
	tables, err = Load(context.Background(), Sources{
		Glottocodes: file.In(dir, "languages.csv"),
		Countries:   file.In(dir, "countries.csv"),
		Datatypes:   file.In(dir, "parameters.csv"),
		Languoids:   file.In(dir, "languoids.csv"),
	}, csv.Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if tables.Registry == nil {
		t.Fatalf("default registry not installed")
	}
}

func TestTables_Glottocode(t *testing.T) {
	t.Parallel()

	tbl := &Tables{
		Glottocodes: map[string]string{"L1": "curated1", "L2": ""},
		ISOIndex:    map[string]string{"abc": "fromiso1", "def": "fromiso2"},
	}
	cases := []struct {
		id, iso, want string
	}{
		{"L1", "abc", "curated1"},
		{"L2", "abc", ""},
		{"L3", "def", "fromiso2"},
		{"L3", "", ""},
		{"L3", "zzz", ""},
	}
	for _, c := range cases {
		if got := tbl.Glottocode(c.id, c.iso); got != c.want {
			t.Errorf("Glottocode(%q, %q) = %q, want %q", c.id, c.iso, got, c.want)
		}
	}
}

func TestTables_Country(t *testing.T) {
	t.Parallel()

	tbl := &Tables{
		Countries: map[string]string{"Burma": "", "Ivory Coast": "CI"},
		Registry:  StaticRegistry{"Papua New Guinea": "PG"},
	}
	cases := []struct {
		raw     string
		want    string
		wantErr error
	}{
		{"", "", nil},
		{"Burma", "", nil},
		{"Ivory Coast", "CI", nil},
		{"Papua New Guinea", "PG", nil},
		{"Atlantis", "", ErrUnknownCountry},
	}
	for _, c := range cases {
		got, err := tbl.Country(c.raw)
		if !errors.Is(err, c.wantErr) {
			t.Errorf("Country(%q) err = %v, want %v", c.raw, err, c.wantErr)
			continue
		}
		if got != c.want {
			t.Errorf("Country(%q) = %q, want %q", c.raw, got, c.want)
		}
	}
}

func TestISO3166(t *testing.T) {
	t.Parallel()

	reg := ISO3166{}
	for name, want := range map[string]string{"Germany": "DE", "germany": "DE", "Papua New Guinea": "PG"} {
		if got, ok := reg.Alpha2(name); !ok || got != want {
			t.Errorf("Alpha2(%q) = %q, %v; want %q", name, got, ok, want)
		}
	}
	if _, ok := reg.Alpha2("Atlantis"); ok {
		t.Errorf("Atlantis should not resolve")
	}
	if _, ok := reg.Alpha2(" "); ok {
		t.Errorf("blank should not resolve")
	}
}
