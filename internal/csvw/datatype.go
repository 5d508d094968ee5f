package csvw

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ErrInvalidValue is returned (wrapped) when a cell cannot be parsed with
// its column's datatype.
var ErrInvalidValue = errors.New("invalid value")

// Kind is the coarse value class a csvw datatype base falls into. It is the
// vocabulary the output tables use for their datatype column.
type Kind uint8

const (
	KindString Kind = iota
	KindBoolean
	KindNumber
	KindInteger
)

func (k Kind) String() string {
	switch k {
	case KindBoolean:
		return "boolean"
	case KindNumber:
		return "number"
	case KindInteger:
		return "integer"
	default:
		return "string"
	}
}

// Numeric reports whether values of this kind carry bounds.
func (k Kind) Numeric() bool { return k == KindNumber || k == KindInteger }

// KindOf maps a csvw/XSD datatype base name onto a Kind. Unknown bases
// (dates, URIs, json, ...) are treated as strings.
func KindOf(base string) Kind {
	switch strings.TrimSpace(base) {
	case "boolean":
		return KindBoolean
	case "number", "decimal", "double", "float":
		return KindNumber
	case "integer", "int", "long", "short", "byte",
		"nonNegativeInteger", "positiveInteger", "nonPositiveInteger", "negativeInteger",
		"unsignedLong", "unsignedInt", "unsignedShort", "unsignedByte":
		return KindInteger
	default:
		return KindString
	}
}

// Datatype is a column datatype as declared in csvw metadata.
type Datatype struct {
	Base    string
	Format  string
	Minimum *float64
	Maximum *float64
}

// Kind returns the value class of the datatype's base.
func (d Datatype) Kind() Kind { return KindOf(d.Base) }

// HasBounds reports whether a minimum is declared. Bounds are only carried
// forward when a minimum exists.
func (d Datatype) HasBounds() bool { return d.Minimum != nil }

// UnmarshalJSON accepts both the short form ("integer") and the object form
// ({"base": "integer", "minimum": 0, "maximum": 9000}). Bounds may be given
// as JSON numbers or numeric strings, and minInclusive/maxInclusive are
// accepted as synonyms.
func (d *Datatype) UnmarshalJSON(b []byte) error {
	var short string
	if err := json.Unmarshal(b, &short); err == nil {
		*d = Datatype{Base: short}
		return nil
	}
	var obj struct {
		Base         string          `json:"base"`
		Format       json.RawMessage `json:"format"`
		Minimum      json.RawMessage `json:"minimum"`
		Maximum      json.RawMessage `json:"maximum"`
		MinInclusive json.RawMessage `json:"minInclusive"`
		MaxInclusive json.RawMessage `json:"maxInclusive"`
	}
	if err := json.Unmarshal(b, &obj); err != nil {
		return fmt.Errorf("datatype: %w", err)
	}
	out := Datatype{Base: obj.Base}
	if out.Base == "" {
		out.Base = "string"
	}
	// format may be an object (number patterns); only string formats matter here.
	if len(obj.Format) > 0 {
		var f string
		if json.Unmarshal(obj.Format, &f) == nil {
			out.Format = f
		}
	}
	var err error
	if out.Minimum, err = bound(obj.Minimum, obj.MinInclusive); err != nil {
		return fmt.Errorf("datatype minimum: %w", err)
	}
	if out.Maximum, err = bound(obj.Maximum, obj.MaxInclusive); err != nil {
		return fmt.Errorf("datatype maximum: %w", err)
	}
	*d = out
	return nil
}

func bound(raws ...json.RawMessage) (*float64, error) {
	for _, raw := range raws {
		if len(raw) == 0 || string(raw) == "null" {
			continue
		}
		var n json.Number
		if err := json.Unmarshal(raw, &n); err != nil {
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, err
			}
			n = json.Number(strings.TrimSpace(s))
		}
		f, err := n.Float64()
		if err != nil {
			return nil, err
		}
		return &f, nil
	}
	return nil, nil
}

// Parse converts a non-null cell into a typed value: string, bool, int64 or
// float64 depending on Kind. Callers handle null cells before calling Parse.
func (d Datatype) Parse(raw string) (any, error) {
	switch d.Kind() {
	case KindBoolean:
		return d.parseBool(raw)
	case KindInteger:
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an integer", ErrInvalidValue, raw)
		}
		return i, nil
	case KindNumber:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
			return nil, fmt.Errorf("%w: %q is not a number", ErrInvalidValue, raw)
		}
		return f, nil
	default:
		return raw, nil
	}
}

// parseBool honors a "yes|no" style format; without one the usual csvw
// spellings (true/false, 1/0) are accepted case-insensitively.
func (d Datatype) parseBool(raw string) (bool, error) {
	if yes, no, ok := strings.Cut(d.Format, "|"); ok {
		switch raw {
		case yes:
			return true, nil
		case no:
			return false, nil
		}
		return false, fmt.Errorf("%w: %q is not one of %q", ErrInvalidValue, raw, d.Format)
	}
	switch strings.ToLower(raw) {
	case "true", "1":
		return true, nil
	case "false", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q is not a boolean", ErrInvalidValue, raw)
}

// Float returns v as a float64 when it is numeric.
func Float(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int64:
		return float64(n), true
	}
	return 0, false
}

// Format renders a typed value as output text. nil renders as "".
func Format(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case bool:
		return strconv.FormatBool(t)
	case int64:
		return strconv.FormatInt(t, 10)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	default:
		return fmt.Sprint(t)
	}
}
