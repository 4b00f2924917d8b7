package sheetio

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const defaultWorksheet = "Sheet1"

// ReadXLSX returns the rows of a worksheet. An empty sheet name selects the
// first worksheet of the workbook.
func ReadXLSX(path, sheet string) ([][]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if sheet == "" {
		list := f.GetSheetList()
		if len(list) == 0 {
			return nil, fmt.Errorf("workbook has no worksheets")
		}
		sheet = list[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read worksheet %q: %w", sheet, err)
	}
	return rows, nil
}

// WriteXLSX writes rows to a new single-worksheet file. Empty cells are
// left unset.
func WriteXLSX(path, sheet string, rows [][]string) error {
	f := excelize.NewFile()
	defer f.Close()

	if sheet == "" {
		sheet = defaultWorksheet
	}
	if sheet != defaultWorksheet {
		if err := f.SetSheetName(defaultWorksheet, sheet); err != nil {
			return fmt.Errorf("failed to name worksheet %q: %w", sheet, err)
		}
	}

	for y, row := range rows {
		for x, v := range row {
			if v == "" {
				continue
			}
			cell, err := excelize.CoordinatesToCellName(x+1, y+1)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return fmt.Errorf("failed to set %s: %w", cell, err)
			}
		}
	}

	return f.SaveAs(path)
}
