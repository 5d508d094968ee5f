package ddl

// ColumnDef describes a single column of an output table. It is
// backend-agnostic: Datatype uses the output vocabulary (string, boolean,
// number, integer) and each backend maps it to its own SQL type.
type ColumnDef struct {
	Name     string
	Datatype string
	Nullable bool
	// PrimaryKey marks the column as (part of) the table key.
	PrimaryKey bool
	// PropertyURL is the CLDF term the column implements, if any.
	PropertyURL string
}

// ForeignKey links a column to the key of another table.
type ForeignKey struct {
	Column    string
	RefTable  string
	RefColumn string
}

// TableDef is one output table: its SQL name, the file name used by
// file-based sinks, the CLDF component it implements and its columns in
// output order.
type TableDef struct {
	Name        string
	URL         string
	Component   string
	Columns     []ColumnDef
	ForeignKeys []ForeignKey
}

// ColumnNames returns the column names in order.
func (t TableDef) ColumnNames() []string {
	out := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		out[i] = c.Name
	}
	return out
}

// PrimaryKey returns the names of the key columns in order.
func (t TableDef) PrimaryKey() []string {
	var out []string
	for _, c := range t.Columns {
		if c.PrimaryKey {
			out = append(out, c.Name)
		}
	}
	return out
}
