// Package schema classifies the columns of the source table. A fixed,
// data-driven set of columns describes languages; every other column is a
// parameter and lands in the parameter catalog.
package schema

import (
	_ "embed"
	"fmt"
	"io"
	"math"
	"strings"

	"gopkg.in/yaml.v3"

	"phonotactics/internal/csvw"
)

// Fields the transformer gives special treatment.
const (
	FieldID        = "ID"
	FieldName      = "Name"
	FieldISO       = "ISO639P3code"
	FieldMacroarea = "Macroarea"
	FieldCountry   = "Country"
	FieldLatitude  = "Latitude"
	FieldLongitude = "Longitude"
)

//go:embed attributes.yaml
var defaultAttributes []byte

// Attribute maps one source column onto a language field.
type Attribute struct {
	Header   string `yaml:"header"`
	Field    string `yaml:"field"`
	Datatype string `yaml:"datatype"`
	Standard bool   `yaml:"standard"`
}

// Kind is the value class of the attribute; an empty datatype is a string.
func (a Attribute) Kind() csvw.Kind { return csvw.KindOf(a.Datatype) }

// Parse reads a non-null cell through the column's declared datatype and
// converts the result to the attribute's kind. A column without a declared
// base is read with the attribute's own base.
func (a Attribute) Parse(declared csvw.Datatype, raw string) (any, error) {
	dt := declared
	if dt.Base == "" {
		dt.Base = a.Kind().String()
	}
	v, err := dt.Parse(raw)
	if err != nil {
		return nil, err
	}
	return convert(v, a.Kind(), declared.Format)
}

func convert(v any, k csvw.Kind, format string) (any, error) {
	switch k {
	case csvw.KindString:
		return csvw.Format(v), nil
	case csvw.KindBoolean:
		switch t := v.(type) {
		case bool:
			return t, nil
		case string:
			return csvw.Datatype{Base: "boolean", Format: format}.Parse(t)
		}
	case csvw.KindInteger:
		switch t := v.(type) {
		case int64:
			return t, nil
		case float64:
			if t == math.Trunc(t) && math.Abs(t) < math.MaxInt64 {
				return int64(t), nil
			}
		case string:
			f, err := csvw.Datatype{Base: "number"}.Parse(t)
			if err != nil {
				return nil, err
			}
			return convert(f, k, format)
		}
	case csvw.KindNumber:
		if f, ok := csvw.Float(v); ok {
			return f, nil
		}
		if s, ok := v.(string); ok {
			return csvw.Datatype{Base: "number"}.Parse(s)
		}
	}
	return nil, fmt.Errorf("%w: %q is not a %s", csvw.ErrInvalidValue, csvw.Format(v), k)
}

// Attributes is the ordered attribute table.
type Attributes struct {
	list     []Attribute
	byHeader map[string]int
}

// DefaultAttributes returns the built-in attribute table.
func DefaultAttributes() (Attributes, error) {
	return ParseAttributes(strings.NewReader(string(defaultAttributes)))
}

// ParseAttributes decodes a YAML attribute table. Headers and fields must be
// non-empty and unique, and the ID field must be present.
func ParseAttributes(r io.Reader) (Attributes, error) {
	var list []Attribute
	if err := yaml.NewDecoder(r).Decode(&list); err != nil {
		return Attributes{}, fmt.Errorf("attributes: %w", err)
	}
	a := Attributes{list: list, byHeader: make(map[string]int, len(list))}
	fields := make(map[string]struct{}, len(list))
	for i, at := range list {
		if at.Header == "" || at.Field == "" {
			return Attributes{}, fmt.Errorf("attributes[%d]: header and field are required", i)
		}
		if _, dup := a.byHeader[at.Header]; dup {
			return Attributes{}, fmt.Errorf("attributes[%d]: duplicate header %q", i, at.Header)
		}
		if _, dup := fields[at.Field]; dup {
			return Attributes{}, fmt.Errorf("attributes[%d]: duplicate field %q", i, at.Field)
		}
		a.byHeader[at.Header] = i
		fields[at.Field] = struct{}{}
	}
	if _, ok := fields[FieldID]; !ok {
		return Attributes{}, fmt.Errorf("attributes: no column maps to the %s field", FieldID)
	}
	return a, nil
}

// Lookup returns the attribute for a source header.
func (a Attributes) Lookup(header string) (Attribute, bool) {
	i, ok := a.byHeader[header]
	if !ok {
		return Attribute{}, false
	}
	return a.list[i], true
}

// Is reports whether header is a language attribute.
func (a Attributes) Is(header string) bool {
	_, ok := a.byHeader[header]
	return ok
}

// All returns the attributes in table order.
func (a Attributes) All() []Attribute {
	return append([]Attribute(nil), a.list...)
}

// Extra returns the non-standard attributes, i.e. the additional columns of
// the language table.
func (a Attributes) Extra() []Attribute {
	var out []Attribute
	for _, at := range a.list {
		if !at.Standard {
			out = append(out, at)
		}
	}
	return out
}
