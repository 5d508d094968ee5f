// Package lookup loads the small reference tables the transform resolves
// codes against: per-language Glottocodes, country-name spellings, parameter
// datatype overrides and an ISO 639-3 index built from the Glottolog
// catalog. Every table is required; Load fails as a whole if any input is
// missing or malformed.
package lookup

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"phonotactics/internal/datasource"
	"phonotactics/internal/parser/csv"
)

// ErrUnknownCountry is returned (wrapped) when a country name is neither in
// the curated map nor recognized by the ISO 3166 registry.
var ErrUnknownCountry = errors.New("unknown country")

// Tables holds every loaded lookup.
type Tables struct {
	// Glottocodes maps a source language ID to its curated Glottocode. An
	// empty value means "explicitly no code".
	Glottocodes map[string]string
	// Countries maps a country spelling to its ISO 3166-1 alpha-2 code. An
	// empty value means "explicitly no code".
	Countries map[string]string
	// Datatypes maps a parameter ID to a forced datatype base.
	Datatypes map[string]string
	// ISOIndex maps an ISO 639-3 code to a Glottocode.
	ISOIndex map[string]string
	// Registry resolves country names missing from Countries.
	Registry CountryRegistry
}

// Sources names the inputs Load reads.
type Sources struct {
	Glottocodes datasource.Source
	Countries   datasource.Source
	Datatypes   datasource.Source
	Languoids   datasource.Source
	// LanguoidColumns overrides the catalog header detection.
	LanguoidColumns LanguoidColumns
}

// Load reads all four tables. The CSV options apply to every file.
func Load(ctx context.Context, s Sources, opt csv.Options) (*Tables, error) {
	gc, err := LoadGlottocodes(ctx, s.Glottocodes, opt)
	if err != nil {
		return nil, err
	}
	cc, err := LoadCountries(ctx, s.Countries, opt)
	if err != nil {
		return nil, err
	}
	dt, err := LoadDatatypes(ctx, s.Datatypes, opt)
	if err != nil {
		return nil, err
	}
	iso, err := LoadISOIndex(ctx, s.Languoids, s.LanguoidColumns, opt)
	if err != nil {
		return nil, err
	}
	return &Tables{
		Glottocodes: gc,
		Countries:   cc,
		Datatypes:   dt,
		ISOIndex:    iso,
		Registry:    ISO3166{},
	}, nil
}

// LoadGlottocodes reads a languages table with ID and Glottocode columns.
func LoadGlottocodes(ctx context.Context, src datasource.Source, opt csv.Options) (map[string]string, error) {
	return loadPairs(ctx, src, opt, "ID", "Glottocode")
}

// LoadCountries reads a countries table with country and alpha_2 columns.
func LoadCountries(ctx context.Context, src datasource.Source, opt csv.Options) (map[string]string, error) {
	return loadPairs(ctx, src, opt, "country", "alpha_2")
}

// LoadDatatypes reads a parameters table with Parameter_ID and datatype
// columns. Rows with an empty datatype are ignored.
func LoadDatatypes(ctx context.Context, src datasource.Source, opt csv.Options) (map[string]string, error) {
	m, err := loadPairs(ctx, src, opt, "Parameter_ID", "datatype")
	if err != nil {
		return nil, err
	}
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m, nil
}

// loadPairs reads key/value columns from a headed CSV. Later rows override
// earlier ones for the same key.
func loadPairs(ctx context.Context, src datasource.Source, opt csv.Options, key, value string) (map[string]string, error) {
	if src == nil {
		return nil, fmt.Errorf("lookup: no source for %s→%s table", key, value)
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}
	header, rows, err := csv.ReadDicts(ctx, rc, opt)
	if err != nil {
		return nil, fmt.Errorf("lookup: %s: %w", src.Name(), err)
	}
	if err := csv.Require(header, key, value); err != nil {
		return nil, fmt.Errorf("lookup: %s: %w", src.Name(), err)
	}
	out := make(map[string]string, len(rows))
	for _, r := range rows {
		k := r[key]
		if k == "" {
			continue
		}
		out[k] = strings.TrimSpace(r[value])
	}
	return out, nil
}

// Glottocode resolves the registry code for a language: the curated mapping
// by language ID wins (an empty curated value means no code), then the ISO
// index. It returns "" when neither resolves.
func (t *Tables) Glottocode(languageID, iso string) string {
	if gc, ok := t.Glottocodes[languageID]; ok {
		return gc
	}
	if iso == "" {
		return ""
	}
	return t.ISOIndex[iso]
}

// Country resolves a raw country field to an alpha-2 code. Empty input and
// curated "no code" entries yield "". Names missing from the curated map go
// to the registry; an unrecognized name is an ErrUnknownCountry.
func (t *Tables) Country(raw string) (string, error) {
	if raw == "" {
		return "", nil
	}
	if code, ok := t.Countries[raw]; ok {
		return code, nil
	}
	reg := t.Registry
	if reg == nil {
		reg = ISO3166{}
	}
	if code, ok := reg.Alpha2(raw); ok {
		return code, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownCountry, raw)
}
