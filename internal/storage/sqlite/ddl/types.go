// Package ddl contains SQLite-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "phonotactics/internal/ddl"
)

// MapType maps an output datatype into a SQLite column type.
//
// SQLite supports dynamic typing, so this mapping prefers canonical affinities:
//   - integer -> INTEGER
//   - boolean -> INTEGER (0/1)
//   - number  -> REAL
//   - others  -> TEXT
func MapType(datatype string) string {
	switch strings.ToLower(strings.TrimSpace(datatype)) {
	case "integer", "boolean":
		return "INTEGER"
	case "number":
		return "REAL"
	default:
		return "TEXT"
	}
}

// Dialect renders double-quoted identifiers, CREATE TABLE IF NOT EXISTS and
// foreign keys (enforced when PRAGMA foreign_keys is on).
func Dialect() gddl.Dialect {
	return gddl.Dialect{
		Quote:       gddl.QuoteDouble,
		Type:        MapType,
		IfNotExists: true,
		ForeignKeys: true,
	}
}

// BuildCreateTableSQL returns a SQLite CREATE TABLE statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, Dialect())
}
