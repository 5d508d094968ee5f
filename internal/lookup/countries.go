package lookup

import (
	"strings"

	"github.com/biter777/countries"
)

// CountryRegistry resolves a country name, alias or code to an ISO 3166-1
// alpha-2 code.
type CountryRegistry interface {
	Alpha2(name string) (string, bool)
}

// ISO3166 is the built-in registry. Lookups are case-insensitive and accept
// common names, official names and alpha-2/alpha-3 codes.
type ISO3166 struct{}

// Alpha2 implements CountryRegistry.
func (ISO3166) Alpha2(name string) (string, bool) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", false
	}
	c := countries.ByName(name)
	if c == countries.Unknown {
		return "", false
	}
	return c.Alpha2(), true
}

// StaticRegistry is a fixed name → code registry, handy in tests.
type StaticRegistry map[string]string

// Alpha2 implements CountryRegistry.
func (s StaticRegistry) Alpha2(name string) (string, bool) {
	code, ok := s[name]
	return code, ok
}
