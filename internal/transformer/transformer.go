// Package transformer turns bound source rows into CLDF records: one
// language per row plus one value per non-empty parameter cell.
//
// The column plan is compiled once from the first row's headers, so the
// per-row work is a positional walk without header lookups.
package transformer

import (
	"fmt"

	"phonotactics/internal/cldf"
	"phonotactics/internal/csvw"
	"phonotactics/internal/lookup"
	"phonotactics/internal/schema"
	"phonotactics/internal/transformer/builtin"
)

// Macroarea names replaced on output.
var macroareaRenames = map[string]string{"Pacific": "Papunesia"}

// Result is the output of one source row.
type Result struct {
	Language cldf.Language
	Values   []cldf.Value
	// Duplicates counts cells that repeated an already recorded value.
	Duplicates int
	// Unknown counts non-empty cells whose column has no parameter.
	Unknown int
}

// Transformer converts rows. It owns no run state besides the compiled plan;
// the value ledger is handed in by the caller and is mutated by Row.
type Transformer struct {
	attrs  schema.Attributes
	cat    *schema.Catalog
	tables *lookup.Tables
	ledger *builtin.Ledger

	plan []column
}

type columnKind uint8

const (
	kindParameter columnKind = iota
	kindAttribute
	kindUnknown
)

type column struct {
	header string
	kind   columnKind
	attr   schema.Attribute
	param  schema.Parameter
}

// New returns a transformer for the given schema, lookups and ledger.
func New(attrs schema.Attributes, cat *schema.Catalog, tables *lookup.Tables, ledger *builtin.Ledger) *Transformer {
	return &Transformer{attrs: attrs, cat: cat, tables: tables, ledger: ledger}
}

func (t *Transformer) compile(r csvw.Row) {
	t.plan = make([]column, len(r.Cells))
	for i, c := range r.Cells {
		col := column{header: c.Header, kind: kindUnknown}
		if a, ok := t.attrs.Lookup(c.Header); ok {
			col.kind, col.attr = kindAttribute, a
		} else if p, ok := t.cat.Lookup(schema.ParameterID(c.Header)); ok {
			col.kind, col.param = kindParameter, p
		}
		t.plan[i] = col
	}
}

func (t *Transformer) planFor(r csvw.Row) []column {
	if len(t.plan) != len(r.Cells) {
		t.compile(r)
		return t.plan
	}
	for i, c := range r.Cells {
		if t.plan[i].header != c.Header {
			t.compile(r)
			break
		}
	}
	return t.plan
}

// Row converts one source row. Errors are fatal for the run: unknown
// country names, unparseable typed cells, conflicting or out-of-range
// values. Values are recorded in the ledger as they are emitted.
func (t *Transformer) Row(r csvw.Row) (Result, error) {
	plan := t.planFor(r)

	lang := cldf.Language{Fields: map[string]any{}}
	for i, col := range plan {
		if col.kind != kindAttribute {
			continue
		}
		c := r.Cells[i]
		if c.Null {
			lang.Fields[col.attr.Field] = nil
			continue
		}
		v, err := col.attr.Parse(c.Column.Datatype, c.Raw)
		if err != nil {
			return Result{}, fmt.Errorf("row %d: column %q: %w", r.Line, c.Header, err)
		}
		lang.Fields[col.attr.Field] = v
	}
	id, _ := lang.Fields[schema.FieldID].(string)
	if id == "" {
		return Result{}, fmt.Errorf("row %d: missing language %s", r.Line, schema.FieldID)
	}
	lang.ID = id
	delete(lang.Fields, schema.FieldID)

	iso := NormalizeISO(text(lang.Fields[schema.FieldISO]))
	lang.Fields[schema.FieldISO] = orNil(iso)
	lang.Glottocode = t.tables.Glottocode(id, iso)

	if m, ok := lang.Fields[schema.FieldMacroarea].(string); ok {
		if renamed, ok := macroareaRenames[m]; ok {
			lang.Fields[schema.FieldMacroarea] = renamed
		}
	}

	if raw := text(lang.Fields[schema.FieldCountry]); raw != "" {
		code, err := t.tables.Country(raw)
		if err != nil {
			return Result{}, fmt.Errorf("row %d: language %s: %w", r.Line, id, err)
		}
		lang.Fields[schema.FieldCountry] = orNil(code)
	}

	res := Result{Language: lang}
	for i, col := range plan {
		c := r.Cells[i]
		if col.kind == kindAttribute || c.Null {
			continue
		}
		if col.kind == kindUnknown {
			res.Unknown++
			continue
		}
		p := col.param
		v, err := p.Datatype.Parse(c.Raw)
		if err != nil {
			return Result{}, fmt.Errorf("row %d: column %q: %w", r.Line, c.Header, err)
		}
		val := builtin.ValueText(v)

		verdict, prev := t.ledger.Check(id, p.ID, val)
		switch verdict {
		case builtin.Duplicate:
			res.Duplicates++
			continue
		case builtin.Conflict:
			return Result{}, fmt.Errorf("row %d: %w", r.Line, &builtin.Violation{
				Verdict: verdict, LanguageID: id, ParameterID: p.ID, Value: val, Previous: prev,
			})
		}
		if builtin.CheckValue(p.Datatype, v) == builtin.OutOfRange {
			return Result{}, fmt.Errorf("row %d: %w", r.Line, &builtin.Violation{
				Verdict: builtin.OutOfRange, LanguageID: id, ParameterID: p.ID, Value: val,
				Min: p.Datatype.Minimum, Max: p.Datatype.Maximum,
			})
		}
		t.ledger.Record(id, p.ID, val)
		res.Values = append(res.Values, cldf.NewValue(id, p.ID, val))
	}
	return res, nil
}

func text(v any) string {
	s, _ := v.(string)
	return s
}

func orNil(s string) any {
	if s == "" {
		return nil
	}
	return s
}
