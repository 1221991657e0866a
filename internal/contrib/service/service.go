package service

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"
	excelize "github.com/xuri/excelize/v2"

	"election-ingest/internal/contrib/model"
	"election-ingest/internal/fileio"
	"election-ingest/internal/grid"
	"election-ingest/internal/utils"
)

// Options describe where the table sits inside the export.
type Options struct {
	// SkipRows is the number of preamble rows above the header row.
	SkipRows int
	// Columns is how many leading columns (A:L by default) belong to the table.
	Columns int
}

func DefaultOptions() Options { return Options{SkipRows: 7, Columns: 12} }

// RowError attributes a failure to a 1-based sheet row.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string { return fmt.Sprintf("row %d: %v", e.Row, e.Err) }

func (e *RowError) Unwrap() error { return e.Err }

const (
	colName = iota
	colAddress
	colPostal
	colAmount
	colDate
	colContribType
	colContributorType
	colDescription
	colRegistrant
	colRegistrantType
	colOffice
	colWard
	numCols
)

var wantHeaders = [numCols]string{
	colName:            "Contributor Name|Contributor",
	colAddress:         "Contributor Address|Address",
	colPostal:          "Contributor Postal Code|Postal Code",
	colAmount:          "Contribution Amount|Amount",
	colDate:            "Contribution Date|Date",
	colContribType:     "Contribution Type",
	colContributorType: "Contributor Type",
	colDescription:     "Goods/Service Description|Description",
	colRegistrant:      "Registrant Name|Candidate",
	colRegistrantType:  "Registrant Type",
	colOffice:          "Office",
	colWard:            "Ward",
}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", "01/02/2006", "1/2/2006", "Jan 2, 2006", "02-Jan-2006"}

// Load opens a contributions export and parses its first sheet.
func Load(path string, opt Options, logger zerolog.Logger) ([]model.Contribution, error) {
	wb, err := fileio.Open(path, fileio.FormatDataOnly)
	if err != nil {
		return nil, err
	}
	if len(wb.Sheets) == 0 {
		return nil, &fileio.LoadError{Path: path, Err: errors.New("workbook has no sheets")}
	}
	out, err := Parse(wb.Sheets[0], opt)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", wb.Name, err)
	}
	logger.Info().Str("file", wb.Name).Int("contributions", len(out)).Msg("contributions normalized")
	return out, nil
}

// Parse reads one contribution per non-blank row below the header row.
func Parse(sheet fileio.Sheet, opt Options) ([]model.Contribution, error) {
	g := sheet.Grid
	width := g.Cols()
	if opt.Columns > 0 && opt.Columns < width {
		width = opt.Columns
	}
	header, idx, err := locateHeader(g, opt.SkipRows, width)
	if err != nil {
		return nil, fmt.Errorf("sheet %q: %w", sheet.Name, err)
	}

	var out []model.Contribution
	for r := header + 1; r < g.Rows(); r++ {
		row := g.Row(r)[:width]
		if blank(row) {
			continue
		}
		var cells [numCols]grid.Value
		for f := range cells {
			cells[f] = row[idx[f]]
		}
		c, err := parseRow(cells)
		if err != nil {
			return nil, &RowError{Row: r + 1, Err: err}
		}
		out = append(out, c)
	}
	return out, nil
}

// locateHeader expects the header after skip preamble rows. CSV readers drop empty lines,
// so when that row is not the header the first row that resolves every column is used.
func locateHeader(g *grid.Grid, skip, width int) (int, [numCols]int, error) {
	var err error
	if skip < g.Rows() {
		var idx [numCols]int
		if idx, err = resolveHeader(g, skip, width); err == nil {
			return skip, idx, nil
		}
	} else {
		err = fmt.Errorf("no header row after %d preamble rows", skip)
	}
	for r := 0; r < g.Rows(); r++ {
		if r == skip {
			continue
		}
		if idx, rerr := resolveHeader(g, r, width); rerr == nil {
			return r, idx, nil
		}
	}
	return 0, [numCols]int{}, err
}

// resolveHeader maps every wanted field to a distinct column of row.
func resolveHeader(g *grid.Grid, row, width int) ([numCols]int, error) {
	headers := make([]string, width)
	for c := 0; c < width; c++ {
		headers[c] = CleanHeader(g.At(row, c).Str)
	}
	var idx [numCols]int
	used := map[int]string{}
	for f, want := range wantHeaders {
		i := resolveColumn(headers, want)
		if i < 0 {
			return idx, fmt.Errorf("missing column %q", strings.Split(want, "|")[0])
		}
		if prev, ok := used[i]; ok {
			return idx, fmt.Errorf("column %q matches both %q and %q", headers[i], prev, want)
		}
		used[i] = want
		idx[f] = i
	}
	return idx, nil
}

func blank(row []grid.Value) bool {
	for _, v := range row {
		if !v.IsBlank() {
			return false
		}
	}
	return true
}

func parseRow(cells [numCols]grid.Value) (model.Contribution, error) {
	text := func(f int) string { return strings.TrimSpace(cells[f].Str) }
	var (
		c   model.Contribution
		err error
	)
	c.ContributorName = text(colName)
	c.ContributorAddress = text(colAddress)
	c.ContributorPostalCode = text(colPostal)
	c.Description = text(colDescription)
	c.RegistrantName = text(colRegistrant)

	if c.Amount, err = utils.ParseAmount(text(colAmount)); err != nil {
		return c, fmt.Errorf("amount %q: %w", text(colAmount), err)
	}
	if c.Date, err = parseDate(cells[colDate]); err != nil {
		return c, err
	}
	if c.ContributionType, err = model.ParseContributionType(text(colContribType)); err != nil {
		return c, err
	}
	if c.ContributorType, err = model.ParseContributorType(text(colContributorType)); err != nil {
		return c, err
	}
	if c.RegistrantType, err = model.ParseRegistrantType(text(colRegistrantType)); err != nil {
		return c, err
	}
	if c.Office, err = model.ParseOffice(text(colOffice)); err != nil {
		return c, err
	}
	if c.Ward, err = parseWard(cells[colWard]); err != nil {
		return c, err
	}
	return c, nil
}

// parseDate accepts text dates and Excel serial day numbers.
func parseDate(v grid.Value) (time.Time, error) {
	if v.Kind == grid.Number {
		return excelize.ExcelDateToTime(v.Num, false)
	}
	s := strings.TrimSpace(v.Str)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("date %q: unrecognised format", s)
}

// parseWard maps blank (city-wide) to 0 and rejects anything outside 0..MaxWard.
func parseWard(v grid.Value) (int, error) {
	if v.IsBlank() {
		return 0, nil
	}
	var n int64
	var ok bool
	if v.Kind == grid.Number {
		n, ok = v.Int()
	} else {
		var err error
		n, err = strconv.ParseInt(strings.TrimSpace(v.Str), 10, 64)
		ok = err == nil
	}
	if !ok || n < 0 || n > model.MaxWard {
		return 0, &model.EnumError{Field: "Ward", Value: v.Str}
	}
	return int(n), nil
}
