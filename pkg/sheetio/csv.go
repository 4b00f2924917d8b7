package sheetio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// lookupEncoding resolves an encoding label. Empty means UTF-8.
func lookupEncoding(label string) (encoding.Encoding, error) {
	if strings.TrimSpace(label) == "" {
		return unicode.UTF8, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unknown encoding %q: %w", label, err)
	}
	return enc, nil
}

// ReadCSV decodes r from opts.Encoding and parses it as CSV. Rows may have
// different lengths.
func ReadCSV(r io.Reader, opts Options) ([][]string, error) {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(transform.NewReader(r, enc.NewDecoder()))
	cr.FieldsPerRecord = -1
	if opts.Comma != 0 {
		cr.Comma = opts.Comma
	}

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}
	return rows, nil
}

// WriteCSV writes rows as CSV encoded in opts.Encoding.
func WriteCSV(w io.Writer, rows [][]string, opts Options) error {
	enc, err := lookupEncoding(opts.Encoding)
	if err != nil {
		return err
	}

	tw := transform.NewWriter(w, enc.NewEncoder())
	cw := csv.NewWriter(tw)
	if opts.Comma != 0 {
		cw.Comma = opts.Comma
	}
	if err := cw.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write CSV: %w", err)
	}
	// flush the encoder's pending bytes
	if err := tw.Close(); err != nil {
		return fmt.Errorf("failed to encode CSV as %s: %w", opts.Encoding, err)
	}
	return nil
}

// ReadCSVFile reads a CSV file.
func ReadCSVFile(path string, opts Options) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCSV(f, opts)
}

// WriteCSVFile writes a CSV file, truncating any existing content.
func WriteCSVFile(path string, rows [][]string, opts Options) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := WriteCSV(f, rows, opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
