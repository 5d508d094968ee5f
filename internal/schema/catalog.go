package schema

import (
	"log"
	"strings"

	"phonotactics/internal/csvw"
	"phonotactics/internal/slug"
)

// Parameter is one catalog entry.
type Parameter struct {
	// ID is the case-preserving slug of Name.
	ID          string
	Name        string
	Description string
	// Datatype is the column datatype with any forced override applied.
	Datatype csvw.Datatype
}

// Kind is the value class of the parameter's values.
func (p Parameter) Kind() csvw.Kind { return p.Datatype.Kind() }

// Bounds returns the numeric bounds carried to the parameter table. They are
// only present when the source column declares a minimum.
func (p Parameter) Bounds() (min, max *float64) {
	if !p.Datatype.HasBounds() {
		return nil, nil
	}
	return p.Datatype.Minimum, p.Datatype.Maximum
}

// Catalog is the ordered set of parameters.
type Catalog struct {
	Parameters []Parameter
	byID       map[string]int
}

// ParameterID derives the stable parameter ID for a column header.
func ParameterID(header string) string { return slug.Slug(header, false) }

// MapSchema walks the declared columns in order and builds the parameter
// catalog from every column that is not a language attribute. When two
// headers slug to the same ID, the first definition is kept and the later
// column silently becomes another source for the same parameter.
//
// overrides maps parameter IDs to a forced datatype base.
func MapSchema(cols []csvw.Column, attrs Attributes, overrides map[string]string) *Catalog {
	c := &Catalog{byID: map[string]int{}}
	for i, col := range cols {
		header := col.Header(i)
		if attrs.Is(header) {
			continue
		}
		id := ParameterID(header)
		if id == "" {
			log.Printf("schema: column %q has no usable parameter ID; skipped", header)
			continue
		}
		if _, seen := c.byID[id]; seen {
			continue
		}
		dt := col.Datatype
		if dt.Base == "" {
			dt.Base = "string"
		}
		if forced, ok := overrides[id]; ok {
			dt.Base = forced
		}
		c.byID[id] = len(c.Parameters)
		c.Parameters = append(c.Parameters, Parameter{
			ID:          id,
			Name:        header,
			Description: strings.TrimSpace(string(col.Description)),
			Datatype:    dt,
		})
	}
	return c
}

// Lookup returns the parameter with the given ID.
func (c *Catalog) Lookup(id string) (Parameter, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Parameter{}, false
	}
	return c.Parameters[i], true
}

// Datatypes returns the ID → datatype map the row transformer checks values
// against.
func (c *Catalog) Datatypes() map[string]csvw.Datatype {
	out := make(map[string]csvw.Datatype, len(c.Parameters))
	for _, p := range c.Parameters {
		out[p.ID] = p.Datatype
	}
	return out
}

// Len returns the number of parameters.
func (c *Catalog) Len() int { return len(c.Parameters) }
