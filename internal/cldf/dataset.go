package cldf

import (
	"errors"
	"fmt"

	"phonotactics/internal/ddl"
	"phonotactics/internal/schema"
)

// ErrDuplicateLanguage is returned when a language ID is emitted twice with
// different attributes.
var ErrDuplicateLanguage = errors.New("duplicate language")

// ErrDuplicateValueID is returned when two distinct (language, parameter)
// pairs render to the same value ID, e.g. ("a-b", "c") and ("a", "b-c").
var ErrDuplicateValueID = errors.New("duplicate value id")

// Table is a table definition together with its rows. Row cells are typed:
// nil, string, bool, int64 or float64.
type Table struct {
	Def  ddl.TableDef
	Rows [][]any
}

// Dataset accumulates the records of one run in emission order.
type Dataset struct {
	Languages  []Language
	Parameters []Parameter
	Values     []Value

	languages ddl.TableDef
	byID      map[string]int
	valueIDs  map[string]struct{}
}

// NewDataset returns an empty dataset whose language table carries the
// extra columns of attrs.
func NewDataset(attrs schema.Attributes) *Dataset {
	return &Dataset{languages: LanguageTable(attrs), byID: map[string]int{}, valueIDs: map[string]struct{}{}}
}

// AddLanguage appends a language. A repeated ID carrying identical
// attributes is ignored and reported with added=false; a repeated ID with
// different attributes fails with ErrDuplicateLanguage.
func (d *Dataset) AddLanguage(l Language) (added bool, err error) {
	if i, ok := d.byID[l.ID]; ok {
		if d.Languages[i].equal(l) {
			return false, nil
		}
		return false, fmt.Errorf("%w: %q", ErrDuplicateLanguage, l.ID)
	}
	d.byID[l.ID] = len(d.Languages)
	d.Languages = append(d.Languages, l)
	return true, nil
}

// SetParameters replaces the parameter rows with the catalog entries.
func (d *Dataset) SetParameters(c *schema.Catalog) {
	d.Parameters = make([]Parameter, 0, c.Len())
	for _, p := range c.Parameters {
		d.Parameters = append(d.Parameters, ParameterOf(p))
	}
}

// AddValue appends a value row. Value IDs are the table's primary key, so a
// repeated ID fails with ErrDuplicateValueID.
func (d *Dataset) AddValue(v Value) error {
	if _, ok := d.valueIDs[v.ID]; ok {
		return fmt.Errorf("%w: %q (language %q, parameter %q)", ErrDuplicateValueID, v.ID, v.LanguageID, v.ParameterID)
	}
	d.valueIDs[v.ID] = struct{}{}
	d.Values = append(d.Values, v)
	return nil
}

// Defs returns the three table definitions in dependency order.
func (d *Dataset) Defs() []ddl.TableDef {
	return []ddl.TableDef{d.languages, ParameterTable(), ValueTable()}
}

// Tables renders every table in dependency order: languages, parameters,
// values.
func (d *Dataset) Tables() []Table {
	defs := d.Defs()
	out := []Table{
		{Def: defs[0], Rows: make([][]any, 0, len(d.Languages))},
		{Def: defs[1], Rows: make([][]any, 0, len(d.Parameters))},
		{Def: defs[2], Rows: make([][]any, 0, len(d.Values))},
	}
	for _, l := range d.Languages {
		row := make([]any, len(defs[0].Columns))
		for i, c := range defs[0].Columns {
			row[i] = l.Get(c.Name)
		}
		out[0].Rows = append(out[0].Rows, row)
	}
	for _, p := range d.Parameters {
		out[1].Rows = append(out[1].Rows, []any{p.ID, p.Name, nullable(p.Description), p.Datatype, ptr(p.Min), ptr(p.Max)})
	}
	for _, v := range d.Values {
		out[2].Rows = append(out[2].Rows, []any{v.ID, v.LanguageID, v.ParameterID, v.Value})
	}
	return out
}

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func ptr(f *float64) any {
	if f == nil {
		return nil
	}
	return *f
}
