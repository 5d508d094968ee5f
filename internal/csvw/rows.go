package csvw

import (
	"context"
	"fmt"
	"log"

	"phonotactics/internal/datasource"
	"phonotactics/internal/parser/csv"
)

// Cell is one raw cell bound to its declared column.
type Cell struct {
	Column Column
	Header string
	Raw    string
	Null   bool
}

// Value parses the cell with its column datatype. Null cells yield nil.
func (c Cell) Value() (any, error) {
	if c.Null {
		return nil, nil
	}
	v, err := c.Column.Datatype.Parse(c.Raw)
	if err != nil {
		return nil, fmt.Errorf("column %q: %w", c.Header, err)
	}
	return v, nil
}

// Row is one data record with its cells in column order.
type Row struct {
	// Line is the physical CSV record number (header included).
	Line  int
	Cells []Cell
}

// Get returns the cell under header.
func (r Row) Get(header string) (Cell, bool) {
	for _, c := range r.Cells {
		if c.Header == header {
			return c, true
		}
	}
	return Cell{}, false
}

// RowFunc receives one bound row. Returning an error aborts the stream.
type RowFunc func(Row) error

// Rows streams the data file of table t from src and binds each record to
// the table's columns by position. base supplies reader knobs (lazy quotes,
// progress logging); delimiter and trimming come from the csvw dialect,
// defaulting to ',' and trimming on.
//
// Records wider than the declared columns are an error; narrower records
// get null cells for the missing columns.
func (tg *TableGroup) Rows(ctx context.Context, t *Table, src datasource.Source, base csv.Options, fn RowFunc) error {
	d := tg.dialect(t)
	opt := base
	opt.Comma = ','
	if d.Delimiter != "" {
		opt.Comma = []rune(d.Delimiter)[0]
	}
	opt.TrimSpace = d.Trim == nil || *d.Trim
	hasHeader := d.Header == nil || *d.Header

	cols := t.Columns()
	headers := make([]string, len(cols))
	for i, c := range cols {
		headers[i] = c.Header(i)
	}

	rc, err := src.Open(ctx)
	if err != nil {
		return err
	}
	skip := d.SkipRows
	headerSeen := !hasHeader
	err = csv.StreamRecords(ctx, rc, opt, func(line int, rec []string) error {
		if skip > 0 {
			skip--
			return nil
		}
		if !headerSeen {
			headerSeen = true
			for i, h := range rec {
				if i < len(cols) && !matchesTitle(cols[i], headers[i], h) {
					log.Printf("csvw: %s: header cell %d is %q, metadata declares %q", src.Name(), i+1, h, headers[i])
				}
			}
			return nil
		}
		if len(rec) > len(cols) {
			return fmt.Errorf("%s line %d: %d cells for %d declared columns", src.Name(), line, len(rec), len(cols))
		}
		row := Row{Line: line, Cells: make([]Cell, len(cols))}
		for i, c := range cols {
			raw := ""
			if i < len(rec) {
				raw = rec[i]
			}
			row.Cells[i] = Cell{Column: c, Header: headers[i], Raw: raw, Null: i >= len(rec) || t.IsNull(c, raw)}
		}
		return fn(row)
	})
	if err != nil {
		return fmt.Errorf("%s: %w", src.Name(), err)
	}
	return nil
}

func matchesTitle(c Column, header, cell string) bool {
	if cell == header {
		return true
	}
	for _, t := range c.Titles {
		if cell == t {
			return true
		}
	}
	return false
}
