package fileio

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	excelize "github.com/xuri/excelize/v2"

	"election-ingest/internal/grid"
)

// SheetFormat selects how formula cells are read.
type SheetFormat string

const (
	// FormatDataOnly returns the cached result of every formula cell.
	FormatDataOnly SheetFormat = "data-only"
	// FormatRaw returns formula cells as their formula text, prefixed by "=".
	FormatRaw SheetFormat = "raw"
)

// ParseSheetFormat maps a user-supplied name to a SheetFormat; empty means data-only.
func ParseSheetFormat(s string) (SheetFormat, error) {
	switch SheetFormat(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatDataOnly:
		return FormatDataOnly, nil
	case FormatRaw:
		return FormatRaw, nil
	default:
		return "", fmt.Errorf("unknown sheet format %q", s)
	}
}

// Sheet is one worksheet: its name and its cell grid.
type Sheet struct {
	Name string
	Grid *grid.Grid
}

// Cell looks up a single cell by 0-based (row, column).
func (s Sheet) Cell(row, col int) grid.Value { return s.Grid.At(row, col) }

// CellRef looks up a single cell by A1-style reference.
func (s Sheet) CellRef(ref string) (grid.Value, error) {
	col, row, err := excelize.CellNameToCoordinates(ref)
	if err != nil {
		return grid.Value{}, err
	}
	return s.Cell(row-1, col-1), nil
}

// Workbook is an ordered list of sheets as they appear in the file.
type Workbook struct {
	Name   string
	Sheets []Sheet
}

// Open reads a workbook from disk. Any failure is a *LoadError.
func Open(path string, format SheetFormat) (*Workbook, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &LoadError{Path: path, Err: err}
	}
	defer f.Close()
	return OpenReader(f, path, format)
}

// OpenReader picks a parser by the file extension of filename.
func OpenReader(r io.Reader, filename string, format SheetFormat) (*Workbook, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return nil, &LoadError{Path: filename, Err: err}
	}
	var sheets []Sheet
	ext := strings.ToLower(filepath.Ext(filename))
	switch ext {
	case ".xlsx", ".xlsm":
		sheets, err = readXLSX(bytes.NewReader(b), format)
	case ".xls":
		sheets, err = readXLS(b)
	case ".csv":
		sheets, err = readCSV(bytes.NewReader(b), strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)))
	default:
		err = fmt.Errorf("%w: %q", ErrUnsupported, ext)
	}
	if err != nil {
		return nil, &LoadError{Path: filename, Err: err}
	}
	return &Workbook{Name: filepath.Base(filename), Sheets: sheets}, nil
}
