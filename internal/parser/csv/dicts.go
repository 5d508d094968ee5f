package csv

import (
	"context"
	"fmt"
	"io"
)

// Dict is one record keyed by header.
type Dict map[string]string

// ReadDicts reads a headed CSV document into a slice of Dicts, one per data
// record. Records shorter than the header get "" for the missing cells;
// extra cells are an error since they cannot be attributed to a column.
func ReadDicts(ctx context.Context, src io.ReadCloser, opt Options) ([]string, []Dict, error) {
	var (
		header []string
		out    []Dict
	)
	err := StreamRecords(ctx, src, opt, func(line int, rec []string) error {
		if header == nil {
			header = append([]string(nil), rec...)
			return nil
		}
		if len(rec) > len(header) {
			return fmt.Errorf("line %d: %d cells for %d header columns", line, len(rec), len(header))
		}
		d := make(Dict, len(header))
		for i, h := range header {
			if i < len(rec) {
				d[h] = rec[i]
			} else {
				d[h] = ""
			}
		}
		out = append(out, d)
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	if header == nil {
		return nil, nil, fmt.Errorf("empty csv: no header")
	}
	return header, out, nil
}

// Require returns an error naming the first column of want missing from
// header.
func Require(header []string, want ...string) error {
	have := make(map[string]struct{}, len(header))
	for _, h := range header {
		have[h] = struct{}{}
	}
	for _, w := range want {
		if _, ok := have[w]; !ok {
			return fmt.Errorf("missing column %q", w)
		}
	}
	return nil
}
