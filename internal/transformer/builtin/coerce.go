package builtin

import "phonotactics/internal/csvw"

// Value tokens used for boolean parameters.
const (
	Yes = "yes"
	No  = "no"
)

// ValueText renders a typed parameter value as the text stored in the value
// table: booleans become "yes"/"no", numbers use their canonical form and
// strings pass through. Decimals are re-rendered from the parsed float, so
// the output can differ textually from the source: "3.50" is written as
// "3.5" and "1e3" as "1000".
func ValueText(v any) string {
	if b, ok := v.(bool); ok {
		if b {
			return Yes
		}
		return No
	}
	return csvw.Format(v)
}
