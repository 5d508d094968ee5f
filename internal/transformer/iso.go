package transformer

import "regexp"

// isoPattern finds a three-letter code, optionally followed by a numeric
// disambiguation suffix such as "-3".
var isoPattern = regexp.MustCompile(`([a-z]{3})(-[0-9]+)?`)

// NormalizeISO extracts the ISO 639-3 code from a raw field. The first match
// anywhere in the string wins; no match yields "".
func NormalizeISO(raw string) string {
	m := isoPattern.FindStringSubmatch(raw)
	if m == nil {
		return ""
	}
	return m[1]
}
