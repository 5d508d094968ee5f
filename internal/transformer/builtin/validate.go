// Package builtin holds the value checks the row transformer applies to
// parameter values. Checks are pure functions returning a Verdict so callers
// (and tests) can branch on the specific outcome; Violation turns a failing
// verdict into an error that aborts the run.
package builtin

import (
	"errors"
	"fmt"

	"phonotactics/internal/csvw"
)

// Verdict is the outcome of checking one value.
type Verdict uint8

const (
	// OK means the value is new and valid.
	OK Verdict = iota
	// Duplicate means the (language, parameter) pair was already recorded
	// with the same value; it must not be emitted again.
	Duplicate
	// Conflict means the pair was already recorded with a different value.
	Conflict
	// OutOfRange means a numeric value lies outside its declared bounds.
	OutOfRange
)

func (v Verdict) String() string {
	switch v {
	case OK:
		return "ok"
	case Duplicate:
		return "duplicate"
	case Conflict:
		return "conflict"
	case OutOfRange:
		return "out-of-range"
	default:
		return fmt.Sprintf("verdict(%d)", uint8(v))
	}
}

// Sentinel errors matched by errors.Is on a *Violation.
var (
	ErrConflict   = errors.New("conflicting values")
	ErrOutOfRange = errors.New("value out of range")
)

// Violation is a failed check for one language/parameter pair.
type Violation struct {
	Verdict     Verdict
	LanguageID  string
	ParameterID string
	Value       string
	// Previous is the recorded value for a Conflict.
	Previous string
	// Min and Max are the declared bounds for an OutOfRange.
	Min, Max *float64
}

func (v *Violation) Error() string {
	switch v.Verdict {
	case Conflict:
		return fmt.Sprintf("%s: %s/%s: %q != %q", ErrConflict, v.LanguageID, v.ParameterID, v.Value, v.Previous)
	case OutOfRange:
		return fmt.Sprintf("%s: %s/%s: %s not in [%s, %s]", ErrOutOfRange, v.LanguageID, v.ParameterID, v.Value, fmtBound(v.Min), fmtBound(v.Max))
	default:
		return fmt.Sprintf("%s: %s/%s: %q", v.Verdict, v.LanguageID, v.ParameterID, v.Value)
	}
}

// Unwrap maps the verdict onto its sentinel error.
func (v *Violation) Unwrap() error {
	switch v.Verdict {
	case Conflict:
		return ErrConflict
	case OutOfRange:
		return ErrOutOfRange
	}
	return nil
}

func fmtBound(f *float64) string {
	if f == nil {
		return "-"
	}
	return csvw.Format(*f)
}

// CheckRange reports OutOfRange when x falls outside [min, max]. An absent
// bound does not constrain.
func CheckRange(x float64, min, max *float64) Verdict {
	if min != nil && x < *min {
		return OutOfRange
	}
	if max != nil && x > *max {
		return OutOfRange
	}
	return OK
}

// CheckValue validates a typed parameter value against its datatype. Only
// numeric kinds can fail, and only when the datatype declares bounds.
func CheckValue(dt csvw.Datatype, v any) Verdict {
	if !dt.Kind().Numeric() || !dt.HasBounds() {
		return OK
	}
	x, ok := csvw.Float(v)
	if !ok {
		return OK
	}
	return CheckRange(x, dt.Minimum, dt.Maximum)
}
