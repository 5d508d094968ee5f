// Package csv streams delimited text records. It never buffers whole files:
// callers receive one record at a time through a callback and decide what to
// keep.
package csv

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"strings"
)

// Options tunes the reader. The zero value reads comma-separated input,
// keeps whitespace and rejects bare quotes.
type Options struct {
	// Comma is the field delimiter; zero means ','.
	Comma rune
	// TrimSpace trims leading/trailing whitespace from every cell.
	TrimSpace bool
	// LazyQuotes maps to csv.Reader.LazyQuotes.
	LazyQuotes bool
	// LogEvery emits a progress line every N records; zero disables it.
	LogEvery int
}

// RecordFunc receives one record. line is the 1-based physical record number
// (the header, when present, is line 1). The slice is reused between calls;
// copy it if it must outlive the callback. Returning an error stops the
// stream and is returned from StreamRecords unchanged.
type RecordFunc func(line int, rec []string) error

// StreamRecords reads src record by record and calls fn for each of them. A
// BOM on the first cell is stripped. src is closed before returning.
//
// Unlike the lenient loaders, malformed CSV is not soft-dropped here: a read
// error aborts the stream with the line number attached.
func StreamRecords(ctx context.Context, src io.ReadCloser, opt Options, fn RecordFunc) error {
	defer src.Close()

	cr := csv.NewReader(src)
	if opt.Comma != 0 {
		cr.Comma = opt.Comma
	}
	cr.ReuseRecord = true
	cr.LazyQuotes = opt.LazyQuotes
	cr.FieldsPerRecord = -1

	line := 0
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		rec, err := cr.Read()
		if err == io.EOF {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("csv read line %d: %w", line, err)
		}
		if line == 1 {
			StripHeaderBOM(rec)
		}
		if opt.TrimSpace {
			for i, v := range rec {
				if HasEdgeSpace(v) {
					rec[i] = strings.TrimSpace(v)
				}
			}
		}
		if err := fn(line, rec); err != nil {
			return err
		}
		if opt.LogEvery > 0 && line%opt.LogEvery == 0 {
			log.Printf("reader: line=%d", line)
		}
	}
}

// HasEdgeSpace reports whether s starts or ends with ASCII whitespace. It
// lets the hot path skip strings.TrimSpace for already-clean cells.
func HasEdgeSpace(s string) bool {
	if s == "" {
		return false
	}
	isSpace := func(b byte) bool { return b == ' ' || b == '\t' || b == '\n' || b == '\r' }
	return isSpace(s[0]) || isSpace(s[len(s)-1])
}
