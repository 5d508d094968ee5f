// Package ddl contains MSSQL-specific helpers for generating DDL.
package ddl

import (
	"fmt"
	"strings"

	gddl "phonotactics/internal/ddl"
)

// MapType maps an output datatype into a SQL Server column type. Unknown or
// empty datatypes fall back to NVARCHAR(MAX).
func MapType(datatype string) string {
	switch strings.ToLower(strings.TrimSpace(datatype)) {
	case "integer":
		return "BIGINT"
	case "boolean":
		return "BIT"
	case "number":
		return "FLOAT"
	default:
		return "NVARCHAR(MAX)"
	}
}

// MapKeyType is MapType for primary key columns; SQL Server cannot index
// NVARCHAR(MAX).
func MapKeyType(datatype string) string {
	if t := MapType(datatype); t != "NVARCHAR(MAX)" {
		return t
	}
	return "NVARCHAR(450)"
}

// QuoteIdent quotes a single identifier segment for SQL Server using
// bracket syntax, escaping any closing brackets.
//
//	name      -> [name]
//	weird]id  -> [weird]]id]
func QuoteIdent(id string) string {
	return "[" + strings.ReplaceAll(id, "]", "]]") + "]"
}

// Dialect renders bracket-quoted identifiers. Foreign keys are left out so
// that a rerun can drop and recreate the tables in any order.
func Dialect() gddl.Dialect {
	return gddl.Dialect{
		Quote:   QuoteIdent,
		Type:    MapType,
		KeyType: MapKeyType,
	}
}

// BuildCreateTableSQL returns a T-SQL script that replaces the table:
//
//	IF OBJECT_ID(N'[schema].[table]', N'U') IS NOT NULL
//	  DROP TABLE [schema].[table];
//	CREATE TABLE [schema].[table] (
//	  ...
//	);
func BuildCreateTableSQL(t gddl.TableDef) (string, error) {
	create, err := gddl.BuildCreateTableSQL(t, Dialect())
	if err != nil {
		return "", err
	}
	fqn := gddl.QuoteFQN(strings.TrimSpace(t.Name), QuoteIdent)
	return fmt.Sprintf("IF OBJECT_ID(N'%s', N'U') IS NOT NULL\n  DROP TABLE %s;\n%s",
		strings.ReplaceAll(fqn, "'", "''"), fqn, create), nil
}
