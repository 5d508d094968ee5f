package lookup

import (
	"context"
	"fmt"
	"log"
	"strings"

	"phonotactics/internal/datasource"
	"phonotactics/internal/parser/csv"
)

// LanguoidColumns names the catalog columns holding the Glottocode and the
// ISO 639-3 code. Empty fields are detected from the header.
type LanguoidColumns struct {
	ID  string
	ISO string
}

var (
	idCandidates  = []string{"ID", "id", "Glottocode", "glottocode"}
	isoCandidates = []string{"ISO639P3code", "iso639P3code", "ISO 639-3", "iso639_3", "iso"}
)

// LoadISOIndex scans a Glottolog languoid catalog (CLDF languages.csv or the
// languoid.csv export) and indexes Glottocodes by ISO 639-3 code. Languoids
// without an ISO code are skipped; when two languoids carry the same code
// the later one wins.
func LoadISOIndex(ctx context.Context, src datasource.Source, cols LanguoidColumns, opt csv.Options) (map[string]string, error) {
	if src == nil {
		return nil, fmt.Errorf("lookup: no glottolog catalog source")
	}
	rc, err := src.Open(ctx)
	if err != nil {
		return nil, fmt.Errorf("lookup: %w", err)
	}

	var (
		idIx, isoIx = -1, -1
		index       = map[string]string{}
		scanned     int
	)
	err = csv.StreamRecords(ctx, rc, opt, func(line int, rec []string) error {
		if line == 1 {
			idIx = pickColumn(rec, cols.ID, idCandidates)
			isoIx = pickColumn(rec, cols.ISO, isoCandidates)
			if idIx < 0 || isoIx < 0 {
				return fmt.Errorf("catalog header %q lacks an ID or ISO 639-3 column", rec)
			}
			return nil
		}
		scanned++
		if idIx >= len(rec) || isoIx >= len(rec) {
			return nil
		}
		iso := strings.TrimSpace(rec[isoIx])
		if iso == "" {
			return nil
		}
		index[iso] = strings.TrimSpace(rec[idIx])
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("lookup: %s: %w", src.Name(), err)
	}
	if idIx < 0 {
		return nil, fmt.Errorf("lookup: %s: empty catalog", src.Name())
	}
	log.Printf("lookup: catalog=%s languoids=%d iso_codes=%d", src.Name(), scanned, len(index))
	return index, nil
}

// pickColumn returns the index of want in header, or of the first candidate
// present when want is empty.
func pickColumn(header []string, want string, candidates []string) int {
	if want != "" {
		candidates = []string{want}
	}
	for _, c := range candidates {
		for i, h := range header {
			if h == c {
				return i
			}
		}
	}
	return -1
}
