// Package sheetio imports and exports sheet contents as CSV or XLSX files.
//
// CSV files may be in any encoding known to the WHATWG encoding index
// (utf-8, shift_jis, euc-jp, windows-1252, ...). XLSX files are read and
// written through excelize.
package sheetio

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/zurustar/sheetstack/pkg/frame"
)

// Format is a sheet file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// Options controls how a sheet file is read or written.
type Options struct {
	// Encoding is the CSV character encoding label. Empty means UTF-8.
	Encoding string

	// Sheet is the XLSX worksheet name. Empty means the first worksheet on
	// import and "Sheet1" on export.
	Sheet string

	// Comma is the CSV field delimiter. Zero means ','.
	Comma rune
}

// FormatOf returns the format for path based on its extension, compared
// case-insensitively.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx", ".xlsm":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported sheet file %s", path)
	}
}

// Import reads path into df, replacing its content.
func Import(path string, df *frame.DataFrame, opts Options) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	var rows [][]string
	switch format {
	case FormatCSV:
		rows, err = ReadCSVFile(path, opts)
	case FormatXLSX:
		rows, err = ReadXLSX(path, opts.Sheet)
	}
	if err != nil {
		return fmt.Errorf("failed to import %s: %w", path, err)
	}

	df.LoadFromArray(rows)
	return nil
}

// Export writes the cells of df to path. The file covers (0,0) up to the
// bottom-right populated cell.
func Export(path string, df *frame.DataFrame, opts Options) error {
	format, err := FormatOf(path)
	if err != nil {
		return err
	}

	rows := df.Rows()
	switch format {
	case FormatCSV:
		err = WriteCSVFile(path, rows, opts)
	case FormatXLSX:
		err = WriteXLSX(path, opts.Sheet, rows)
	}
	if err != nil {
		return fmt.Errorf("failed to export %s: %w", path, err)
	}
	return nil
}
