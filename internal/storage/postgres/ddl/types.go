// Package ddl contains Postgres-specific helpers for generating DDL.
package ddl

import (
	"strings"

	gddl "phonotactics/internal/ddl"
)

// MapType normalizes an output datatype into a Postgres SQL type.
//
//	"integer" -> BIGINT
//	"boolean" -> BOOLEAN
//	"number"  -> DOUBLE PRECISION
//	everything else -> TEXT
func MapType(datatype string) string {
	switch strings.ToLower(strings.TrimSpace(datatype)) {
	case "integer":
		return "BIGINT"
	case "boolean":
		return "BOOLEAN"
	case "number":
		return "DOUBLE PRECISION"
	default:
		return "TEXT"
	}
}

// Dialect is the Postgres rendering of the generic table model.
func Dialect() gddl.Dialect {
	return gddl.Dialect{
		Quote:       gddl.QuoteDouble,
		Type:        MapType,
		IfNotExists: true,
		ForeignKeys: true,
	}
}

// BuildCreateTableSQL returns a Postgres CREATE TABLE IF NOT EXISTS
// statement for t.
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	return gddl.BuildCreateTableSQL(t, Dialect())
}
