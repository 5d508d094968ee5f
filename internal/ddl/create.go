// Package ddl defines a small, backend-agnostic model of the output tables
// and renders CREATE TABLE statements from it for a given SQL dialect.
package ddl

import (
	"fmt"
	"strings"
)

// Dialect adapts rendering to one SQL backend.
type Dialect struct {
	// Quote quotes one identifier segment.
	Quote func(string) string
	// Type maps an output datatype to a SQL type.
	Type func(datatype string) string
	// KeyType, when set, overrides Type for primary key columns.
	KeyType func(datatype string) string
	// IfNotExists adds IF NOT EXISTS to CREATE TABLE.
	IfNotExists bool
	// ForeignKeys renders FOREIGN KEY constraints.
	ForeignKeys bool
}

// QuoteDouble quotes an identifier with double quotes, doubling embedded
// quotes. Postgres and SQLite both accept it.
func QuoteDouble(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// QuoteFQN quotes every dot-separated segment of a qualified name.
func QuoteFQN(fqn string, quote func(string) string) string {
	parts := strings.Split(fqn, ".")
	for i, p := range parts {
		parts[i] = quote(p)
	}
	return strings.Join(parts, ".")
}

// BuildCreateTableSQL renders:
//
//	CREATE TABLE [IF NOT EXISTS] <name> (
//	  <col> <type> [NOT NULL],
//	  ...,
//	  PRIMARY KEY (<pk-cols>)[,
//	  FOREIGN KEY (<col>) REFERENCES <table> (<col>)]
//	);
func BuildCreateTableSQL(t TableDef, d Dialect) (string, error) {
	name := strings.TrimSpace(t.Name)
	if name == "" {
		return "", fmt.Errorf("ddl: table name must not be empty")
	}
	if len(t.Columns) == 0 {
		return "", fmt.Errorf("ddl: table %s: at least one column is required", name)
	}
	if d.Quote == nil || d.Type == nil {
		return "", fmt.Errorf("ddl: dialect needs Quote and Type")
	}

	defs := make([]string, 0, len(t.Columns)+1+len(t.ForeignKeys))
	for _, c := range t.Columns {
		if strings.TrimSpace(c.Name) == "" {
			return "", fmt.Errorf("ddl: table %s: column with empty name", name)
		}
		typ := d.Type(c.Datatype)
		if c.PrimaryKey && d.KeyType != nil {
			typ = d.KeyType(c.Datatype)
		}
		def := d.Quote(c.Name) + " " + typ
		if !c.Nullable {
			def += " NOT NULL"
		}
		defs = append(defs, def)
	}
	if pk := t.PrimaryKey(); len(pk) > 0 {
		q := make([]string, len(pk))
		for i, c := range pk {
			q[i] = d.Quote(c)
		}
		defs = append(defs, "PRIMARY KEY ("+strings.Join(q, ", ")+")")
	}
	if d.ForeignKeys {
		for _, fk := range t.ForeignKeys {
			defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s (%s)",
				d.Quote(fk.Column), QuoteFQN(fk.RefTable, d.Quote), d.Quote(fk.RefColumn)))
		}
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	if d.IfNotExists {
		b.WriteString("IF NOT EXISTS ")
	}
	b.WriteString(QuoteFQN(name, d.Quote))
	b.WriteString(" (\n  ")
	b.WriteString(strings.Join(defs, ",\n  "))
	b.WriteString("\n);")
	return b.String(), nil
}
