// Legacy .xls (BIFF) reader. The width is fixed by probing instead of trusting Row.LastCol().
package fileio

import (
	"bytes"
	"errors"
	"fmt"

	xls "github.com/extrame/xls"

	"election-ingest/internal/grid"
)

// computeMaxCols probes every row for the rightmost non-empty cell.
func computeMaxCols(sheet *xls.WorkSheet) int {
	const probeMax = 512
	maxCols := 0
	for i := 0; i <= int(sheet.MaxRow); i++ {
		r := sheet.Row(i)
		if r == nil {
			continue
		}
		for j := probeMax - 1; j >= maxCols; j-- {
			if r.Col(j) != "" {
				maxCols = j + 1
				break
			}
		}
	}
	return maxCols
}

func readXLS(b []byte) (sheets []Sheet, err error) {
	// extrame/xls panics on some truncated streams
	defer func() {
		if rec := recover(); rec != nil {
			sheets, err = nil, fmt.Errorf("xls: corrupt workbook: %v", rec)
		}
	}()

	// exports from the city portal are cp1252; older ones may be UTF-8
	var wb *xls.WorkBook
	var lastErr error
	for _, ch := range []string{"windows-1252", "utf-8"} {
		wb, err = xls.OpenReader(bytes.NewReader(b), ch)
		if err == nil && wb != nil {
			lastErr = nil
			break
		}
		lastErr = err
	}
	if wb == nil {
		if lastErr == nil {
			lastErr = errors.New("xls: failed to open workbook")
		}
		return nil, lastErr
	}

	for n := 0; n < wb.NumSheets(); n++ {
		sheet := wb.GetSheet(n)
		if sheet == nil {
			continue
		}
		maxCols := computeMaxCols(sheet)
		rows := make([][]string, 0, int(sheet.MaxRow)+1)
		for i := 0; i <= int(sheet.MaxRow); i++ {
			row := sheet.Row(i)
			cols := make([]string, maxCols)
			if row != nil {
				for j := 0; j < maxCols; j++ {
					cols[j] = row.Col(j)
				}
			}
			rows = append(rows, cols)
		}
		sheets = append(sheets, Sheet{Name: sheet.Name, Grid: grid.FromStrings(rows)})
	}
	return sheets, nil
}
