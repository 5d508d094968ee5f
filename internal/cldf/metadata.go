package cldf

import (
	"encoding/json"
	"fmt"

	"phonotactics/internal/ddl"
)

// MetadataFile is the name of the dataset's metadata document.
const MetadataFile = "StructureDataset-metadata.json"

type metaDoc struct {
	Context    []any       `json:"@context"`
	ConformsTo string      `json:"dc:conformsTo"`
	Tables     []metaTable `json:"tables"`
}

type metaTable struct {
	URL        string     `json:"url"`
	ConformsTo string     `json:"dc:conformsTo,omitempty"`
	Schema     metaSchema `json:"tableSchema"`
}

type metaSchema struct {
	Columns     []metaColumn `json:"columns"`
	PrimaryKey  []string     `json:"primaryKey,omitempty"`
	ForeignKeys []metaFK     `json:"foreignKeys,omitempty"`
}

type metaColumn struct {
	Name        string `json:"name"`
	Required    bool   `json:"required,omitempty"`
	PropertyURL string `json:"propertyUrl,omitempty"`
	Datatype    string `json:"datatype"`
}

type metaFK struct {
	ColumnReference string  `json:"columnReference"`
	Reference       metaRef `json:"reference"`
}

type metaRef struct {
	Resource        string `json:"resource"`
	ColumnReference string `json:"columnReference"`
}

// Metadata renders the CSVW metadata document describing defs. Foreign keys
// must point at tables contained in defs.
func Metadata(defs []ddl.TableDef) ([]byte, error) {
	urls := make(map[string]string, len(defs))
	for _, t := range defs {
		urls[t.Name] = t.URL
	}
	doc := metaDoc{
		Context:    []any{"http://www.w3.org/ns/csvw", map[string]string{"@language": "en"}},
		ConformsTo: term("StructureDataset"),
	}
	for _, t := range defs {
		mt := metaTable{URL: t.URL, Schema: metaSchema{PrimaryKey: t.PrimaryKey()}}
		if t.Component != "" {
			mt.ConformsTo = term(t.Component)
		}
		for _, c := range t.Columns {
			mt.Schema.Columns = append(mt.Schema.Columns, metaColumn{
				Name:        c.Name,
				Required:    !c.Nullable,
				PropertyURL: c.PropertyURL,
				Datatype:    c.Datatype,
			})
		}
		for _, fk := range t.ForeignKeys {
			res, ok := urls[fk.RefTable]
			if !ok {
				return nil, fmt.Errorf("metadata: table %s: foreign key to unknown table %s", t.Name, fk.RefTable)
			}
			mt.Schema.ForeignKeys = append(mt.Schema.ForeignKeys, metaFK{
				ColumnReference: fk.Column,
				Reference:       metaRef{Resource: res, ColumnReference: fk.RefColumn},
			})
		}
		doc.Tables = append(doc.Tables, mt)
	}
	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("metadata: %w", err)
	}
	return append(b, '\n'), nil
}
