package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"wfdash/internal/domain"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// ErrNoHeader is returned for a file without a header row.
var ErrNoHeader = errors.New("csv has no header row")

// ParseError is a parse-fatal failure of one input file.
type ParseError struct {
	File string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.File, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadTable reads a header-led CSV into rows keyed by canonical field name. A UTF-8 byte
// order mark is dropped and blank lines are skipped. Short records leave the missing
// fields absent, extra cells are ignored.
func ReadTable(r io.Reader) ([]domain.Row, error) {
	dec := transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))

	cr := csv.NewReader(dec)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}
	fields := NormalizeHeaders(header)

	var rows []domain.Row
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}

		row := make(domain.Row, len(fields))
		for i, f := range fields {
			if i < len(rec) {
				row[f] = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// ReadFile opens path and reads it with ReadTable. Failures are wrapped in a *ParseError.
func ReadFile(path string) ([]domain.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	defer f.Close()

	rows, err := ReadTable(f)
	if err != nil {
		return nil, &ParseError{File: path, Err: err}
	}
	return rows, nil
}
