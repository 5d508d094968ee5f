package cldf

import (
	"phonotactics/internal/ddl"
	"phonotactics/internal/schema"
)

const termsURL = "http://cldf.clld.org/v1.0/terms.rdf#"

// Component names.
const (
	LanguageComponent  = "LanguageTable"
	ParameterComponent = "ParameterTable"
	ValueComponent     = "ValueTable"
)

func term(name string) string { return termsURL + name }

// LanguageTable defines the language table: the core CLDF columns followed
// by one column per non-standard attribute, typed after the attribute.
func LanguageTable(attrs schema.Attributes) ddl.TableDef {
	t := ddl.TableDef{
		Name:      LanguageComponent,
		URL:       "languages.csv",
		Component: LanguageComponent,
		Columns: []ddl.ColumnDef{
			{Name: schema.FieldID, Datatype: "string", PrimaryKey: true, PropertyURL: term("id")},
			{Name: schema.FieldName, Datatype: "string", Nullable: true, PropertyURL: term("name")},
			{Name: schema.FieldMacroarea, Datatype: "string", Nullable: true, PropertyURL: term("macroarea")},
			{Name: schema.FieldLatitude, Datatype: "number", Nullable: true, PropertyURL: term("latitude")},
			{Name: schema.FieldLongitude, Datatype: "number", Nullable: true, PropertyURL: term("longitude")},
			{Name: "Glottocode", Datatype: "string", Nullable: true, PropertyURL: term("glottocode")},
			{Name: schema.FieldISO, Datatype: "string", Nullable: true, PropertyURL: term("iso639P3code")},
		},
	}
	for _, a := range attrs.Extra() {
		t.Columns = append(t.Columns, ddl.ColumnDef{
			Name:     a.Field,
			Datatype: a.Kind().String(),
			Nullable: true,
		})
	}
	return t
}

// ParameterTable defines the parameter table with the datatype and bounds
// columns.
func ParameterTable() ddl.TableDef {
	return ddl.TableDef{
		Name:      ParameterComponent,
		URL:       "parameters.csv",
		Component: ParameterComponent,
		Columns: []ddl.ColumnDef{
			{Name: "ID", Datatype: "string", PrimaryKey: true, PropertyURL: term("id")},
			{Name: "Name", Datatype: "string", Nullable: true, PropertyURL: term("name")},
			{Name: "Description", Datatype: "string", Nullable: true, PropertyURL: term("description")},
			{Name: "datatype", Datatype: "string"},
			{Name: "min", Datatype: "number", Nullable: true},
			{Name: "max", Datatype: "number", Nullable: true},
		},
	}
}

// ValueTable defines the value table. Language_ID and Parameter_ID reference
// the other two tables.
func ValueTable() ddl.TableDef {
	return ddl.TableDef{
		Name:      ValueComponent,
		URL:       "values.csv",
		Component: ValueComponent,
		Columns: []ddl.ColumnDef{
			{Name: "ID", Datatype: "string", PrimaryKey: true, PropertyURL: term("id")},
			{Name: "Language_ID", Datatype: "string", PropertyURL: term("languageReference")},
			{Name: "Parameter_ID", Datatype: "string", PropertyURL: term("parameterReference")},
			{Name: "Value", Datatype: "string", Nullable: true, PropertyURL: term("value")},
		},
		ForeignKeys: []ddl.ForeignKey{
			{Column: "Language_ID", RefTable: LanguageComponent, RefColumn: "ID"},
			{Column: "Parameter_ID", RefTable: ParameterComponent, RefColumn: "ID"},
		},
	}
}
