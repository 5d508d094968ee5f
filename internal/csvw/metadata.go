// Package csvw reads the subset of the CSV on the Web metadata vocabulary a
// published dataset uses to describe its table: column names and titles,
// datatypes with bounds, free-text descriptions, null tokens and the CSV
// dialect. Rows of the described table are bound to their columns
// positionally, the way csvw processors do.
package csvw

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"phonotactics/internal/datasource"
)

// TableGroup is the top-level metadata document.
type TableGroup struct {
	Dialect *Dialect `json:"dialect"`
	Tables  []Table  `json:"tables"`
}

// Dialect describes how a table's CSV is laid out.
type Dialect struct {
	Delimiter string `json:"delimiter"`
	Header    *bool  `json:"header"`
	SkipRows  int    `json:"skipRows"`
	Trim      *bool  `json:"trim"`
}

// Table is one described table.
type Table struct {
	URL         string   `json:"url"`
	Dialect     *Dialect `json:"dialect"`
	TableSchema Schema   `json:"tableSchema"`
}

// Schema lists the columns of a table in file order.
type Schema struct {
	Columns []Column `json:"columns"`
	Null    Strings  `json:"null"`
}

// Column is one declared column.
type Column struct {
	Name        string   `json:"name"`
	Titles      Titles   `json:"titles"`
	Datatype    Datatype `json:"datatype"`
	Description Text     `json:"dc:description"`
	Null        Strings  `json:"null"`
	Virtual     bool     `json:"virtual"`
}

// Header is the key a column's cells are known by: its name, else its first
// title, else its 1-based position.
func (c Column) Header(pos int) string {
	if c.Name != "" {
		return c.Name
	}
	if len(c.Titles) > 0 {
		return c.Titles[0]
	}
	return strconv.Itoa(pos + 1)
}

// Titles accepts a string, an array of strings, or a language map whose
// values are strings or arrays.
type Titles []string

func (t *Titles) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*t = Titles{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err == nil {
		*t = many
		return nil
	}
	var byLang map[string]json.RawMessage
	if err := json.Unmarshal(b, &byLang); err != nil {
		return fmt.Errorf("titles: %w", err)
	}
	langs := make([]string, 0, len(byLang))
	for l := range byLang {
		langs = append(langs, l)
	}
	// "und" and "en" first, then the rest in a stable order.
	sort.SliceStable(langs, func(i, j int) bool {
		return rankLang(langs[i]) < rankLang(langs[j]) || rankLang(langs[i]) == rankLang(langs[j]) && langs[i] < langs[j]
	})
	var out Titles
	for _, l := range langs {
		var sub Titles
		if err := sub.UnmarshalJSON(byLang[l]); err != nil {
			return err
		}
		out = append(out, sub...)
	}
	*t = out
	return nil
}

func rankLang(l string) int {
	switch l {
	case "und":
		return 0
	case "en":
		return 1
	}
	return 2
}

// Text is a natural-language property: a plain string, a {"@value": ...}
// object or an array of either (joined by newlines).
type Text string

func (t *Text) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		*t = Text(s)
		return nil
	}
	var v struct {
		Value string `json:"@value"`
	}
	if err := json.Unmarshal(b, &v); err == nil {
		*t = Text(v.Value)
		return nil
	}
	var arr []Text
	if err := json.Unmarshal(b, &arr); err != nil {
		return fmt.Errorf("text property: %w", err)
	}
	parts := make([]string, len(arr))
	for i, a := range arr {
		parts[i] = string(a)
	}
	*t = Text(strings.Join(parts, "\n"))
	return nil
}

// Strings accepts a string or an array of strings.
type Strings []string

func (s *Strings) UnmarshalJSON(b []byte) error {
	var one string
	if err := json.Unmarshal(b, &one); err == nil {
		*s = Strings{one}
		return nil
	}
	var many []string
	if err := json.Unmarshal(b, &many); err != nil {
		return fmt.Errorf("string list: %w", err)
	}
	*s = many
	return nil
}

// Decode parses a metadata document.
func Decode(r io.Reader) (*TableGroup, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read csvw metadata: %w", err)
	}
	var tg TableGroup
	if err := json.Unmarshal(b, &tg); err != nil {
		return nil, fmt.Errorf("decode csvw metadata: %w", err)
	}
	if len(tg.Tables) == 0 {
		// A single-table description may omit the group wrapper.
		var t Table
		if err := json.Unmarshal(b, &t); err != nil || len(t.TableSchema.Columns) == 0 {
			return nil, fmt.Errorf("csvw metadata describes no tables")
		}
		tg.Tables = []Table{t}
		var d struct {
			Dialect *Dialect `json:"dialect"`
		}
		_ = json.Unmarshal(b, &d)
		tg.Dialect, tg.Tables[0].Dialect = d.Dialect, nil
	}
	return &tg, nil
}

// Load opens src and decodes it as a metadata document.
func Load(ctx context.Context, src datasource.Source) (*TableGroup, error) {
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	tg, err := Decode(rc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", src.Name(), err)
	}
	return tg, nil
}

// Columns returns the non-virtual columns of the table, i.e. the ones that
// have cells in the CSV file.
func (t *Table) Columns() []Column {
	out := make([]Column, 0, len(t.TableSchema.Columns))
	for _, c := range t.TableSchema.Columns {
		if !c.Virtual {
			out = append(out, c)
		}
	}
	return out
}

// IsNull reports whether raw is one of the column's null tokens. The table
// schema's null list applies when the column declares none; the csvw default
// is the empty string.
func (t *Table) IsNull(c Column, raw string) bool {
	tokens := c.Null
	if tokens == nil {
		tokens = t.TableSchema.Null
	}
	if tokens == nil {
		return raw == ""
	}
	for _, n := range tokens {
		if raw == n {
			return true
		}
	}
	return false
}

// dialect merges the table dialect over the group dialect.
func (tg *TableGroup) dialect(t *Table) Dialect {
	var d Dialect
	if tg.Dialect != nil {
		d = *tg.Dialect
	}
	if t.Dialect != nil {
		if t.Dialect.Delimiter != "" {
			d.Delimiter = t.Dialect.Delimiter
		}
		if t.Dialect.Header != nil {
			d.Header = t.Dialect.Header
		}
		if t.Dialect.SkipRows != 0 {
			d.SkipRows = t.Dialect.SkipRows
		}
		if t.Dialect.Trim != nil {
			d.Trim = t.Dialect.Trim
		}
	}
	return d
}
