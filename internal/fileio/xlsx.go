package fileio

import (
	"io"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"election-ingest/internal/grid"
)

func readXLSX(r io.Reader, format SheetFormat) ([]Sheet, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var sheets []Sheet
	for _, name := range f.GetSheetList() {
		// unformatted stored values: "1234" rather than "1,234"
		rows, err := f.GetRows(name, excelize.Options{RawCellValue: true})
		if err != nil {
			return nil, err
		}
		if format == FormatRaw {
			// formula cells without a cached value are trimmed by GetRows
			rows = padToDimension(f, name, rows)
			if err := replaceFormulas(f, name, rows); err != nil {
				return nil, err
			}
		}
		sheets = append(sheets, Sheet{Name: name, Grid: grid.FromStrings(rows)})
	}
	return sheets, nil
}

// replaceFormulas swaps cached values for formula text in place.
func replaceFormulas(f *excelize.File, sheet string, rows [][]string) error {
	for i := range rows {
		for j := range rows[i] {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return err
			}
			formula, err := f.GetCellFormula(sheet, cell)
			if err != nil {
				return err
			}
			if formula != "" {
				if !strings.HasPrefix(formula, "=") {
					formula = "=" + formula
				}
				rows[i][j] = formula
			}
		}
	}
	return nil
}

// padToDimension grows rows to the sheet's declared used range, when it has one.
func padToDimension(f *excelize.File, sheet string, rows [][]string) [][]string {
	dim, err := f.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return rows
	}
	parts := strings.Split(dim, ":")
	maxCol, maxRow, err := excelize.CellNameToCoordinates(parts[len(parts)-1])
	if err != nil {
		return rows
	}
	for len(rows) < maxRow {
		rows = append(rows, nil)
	}
	for i := range rows {
		for len(rows[i]) < maxCol {
			rows[i] = append(rows[i], "")
		}
	}
	return rows
}
