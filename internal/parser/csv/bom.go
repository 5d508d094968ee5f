package csv

import "strings"

// utf8BOM is stripped from the first cell of the first record if present.
const utf8BOM = "\uFEFF"

// StripHeaderBOM removes a UTF-8 BOM from the first header cell if present.
func StripHeaderBOM(headers []string) []string {
	if len(headers) == 0 {
		return headers
	}
	headers[0] = strings.TrimPrefix(headers[0], utf8BOM)
	return headers
}
