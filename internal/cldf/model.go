// Package cldf holds the records of a CLDF StructureDataset, the
// definitions of its three tables and the metadata document describing
// them.
package cldf

import (
	"fmt"

	"phonotactics/internal/schema"
)

// Language is one row of the language table. Fields holds the typed
// attribute values keyed by target field (nil for absent cells).
type Language struct {
	ID         string
	Glottocode string
	Fields     map[string]any
}

// Get returns a field value; ID and Glottocode are served from the struct.
func (l Language) Get(field string) any {
	switch field {
	case schema.FieldID:
		return l.ID
	case "Glottocode":
		if l.Glottocode == "" {
			return nil
		}
		return l.Glottocode
	}
	return l.Fields[field]
}

func (l Language) equal(o Language) bool {
	if l.ID != o.ID || l.Glottocode != o.Glottocode || len(l.Fields) != len(o.Fields) {
		return false
	}
	for k, v := range l.Fields {
		w, ok := o.Fields[k]
		if !ok || v != w {
			return false
		}
	}
	return true
}

// Parameter is one row of the parameter table.
type Parameter struct {
	ID          string
	Name        string
	Description string
	// Datatype is one of string, boolean, number, integer.
	Datatype string
	Min, Max *float64
}

// ParameterOf converts a catalog entry to its output row.
func ParameterOf(p schema.Parameter) Parameter {
	min, max := p.Bounds()
	return Parameter{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Datatype:    p.Kind().String(),
		Min:         min,
		Max:         max,
	}
}

// Value is one row of the value table.
type Value struct {
	ID          string
	LanguageID  string
	ParameterID string
	Value       string
}

// NewValue builds a value row with the composite ID {language}-{parameter}.
func NewValue(languageID, parameterID, value string) Value {
	return Value{
		ID:          fmt.Sprintf("%s-%s", languageID, parameterID),
		LanguageID:  languageID,
		ParameterID: parameterID,
		Value:       value,
	}
}
