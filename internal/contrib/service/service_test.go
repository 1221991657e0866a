package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"election-ingest/internal/contrib/model"
	"election-ingest/internal/fileio"
	"election-ingest/internal/grid"
)

var exportHeader = []string{
	"Contributor\nName", "Contributor  Address", "Contributor Postal Code", "Contribution Amount",
	"Contribution Date", "Contribution Type", "Contributor Type", "Goods /\nService Description",
	"Registrant Name", "Registrant Type", "Office", "Ward", "Extra column past L",
}

func exportSheet(data ...[]string) fileio.Sheet {
	var r [][]string
	r = append(r, []string{"Contribution Search Results"})
	for i := 1; i < 7; i++ {
		r = append(r, []string{})
	}
	r = append(r, exportHeader)
	r = append(r, data...)
	return fileio.Sheet{Name: "Results", Grid: grid.FromStrings(r)}
}

func validRow() []string {
	return []string{"Doe, Jane", "1 Main St", "M5V 1A1", "$1,200.50", "2022-05-03",
		"Monetary", "Individual", "", "Smith, John", "Candidate", "Councillor", "12", "ignored"}
}

func TestCleanHeader(t *testing.T) {
	assert.Equal(t, "Goods/Service Description", CleanHeader("Goods /\nService   Description"))
	assert.Equal(t, "Contributor Name", CleanHeader("  Contributor\nName "))
	assert.Equal(t, "A/B", CleanHeader("A / B"))
}

func TestResolveColumn(t *testing.T) {
	h := []string{"Contributor Name", "Contribution Date", "Contributor Type"}
	assert.Equal(t, 1, resolveColumn(h, "Contribution Date|Date"))
	assert.Equal(t, 1, resolveColumn(h, "Date"))
	assert.Equal(t, 2, resolveColumn(h, "contributor-type"))
	assert.Equal(t, -1, resolveColumn(h, "Office"))
}

func TestParse(t *testing.T) {
	t.Run("Should type every field", func(t *testing.T) {
		out, err := Parse(exportSheet(validRow(), []string{}, validRow()), DefaultOptions())
		require.NoError(t, err)
		require.Len(t, out, 2)
		c := out[0]
		assert.Equal(t, "Doe, Jane", c.ContributorName)
		assert.Equal(t, "1200.5", c.Amount.String())
		assert.Equal(t, time.Date(2022, 5, 3, 0, 0, 0, 0, time.UTC), c.Date)
		assert.Equal(t, model.Monetary, c.ContributionType)
		assert.Equal(t, model.Individual, c.ContributorType)
		assert.Equal(t, model.RegistrantCandidate, c.RegistrantType)
		assert.Equal(t, model.Councillor, c.Office)
		assert.Equal(t, 12, c.Ward)
	})

	t.Run("Should treat a blank ward as city-wide", func(t *testing.T) {
		row := validRow()
		row[10], row[11] = "Mayor", ""
		out, err := Parse(exportSheet(row), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 0, out[0].Ward)
	})

	t.Run("Should accept Excel serial dates", func(t *testing.T) {
		row := validRow()
		row[4] = "44684"
		out, err := Parse(exportSheet(row), DefaultOptions())
		require.NoError(t, err)
		assert.Equal(t, 2022, out[0].Date.Year())
		assert.Equal(t, time.May, out[0].Date.Month())
	})

	t.Run("Should fail loudly on unknown categories", func(t *testing.T) {
		for col, val := range map[int]string{5: "Bitcoin", 6: "Robot", 9: "Lobbyist", 10: "Senator", 11: "26"} {
			row := validRow()
			row[col] = val
			_, err := Parse(exportSheet(validRow(), row), DefaultOptions())
			var re *RowError
			require.ErrorAs(t, err, &re, val)
			assert.Equal(t, 10, re.Row)
			var ee *model.EnumError
			assert.ErrorAs(t, err, &ee, val)
		}
	})

	t.Run("Should fail on a bad amount or date", func(t *testing.T) {
		for col, val := range map[int]string{3: "lots", 4: "someday"} {
			row := validRow()
			row[col] = val
			_, err := Parse(exportSheet(row), DefaultOptions())
			var re *RowError
			assert.ErrorAs(t, err, &re, val)
		}
	})

	t.Run("Should fail on a missing column", func(t *testing.T) {
		s := exportSheet(validRow())
		opt := DefaultOptions()
		opt.Columns = 11
		_, err := Parse(s, opt)
		assert.ErrorContains(t, err, "Ward")
	})

	t.Run("Should find the header when the preamble is shorter than expected", func(t *testing.T) {
		s := exportSheet(validRow())
		s.Grid = s.Grid.Slice(3, s.Grid.Rows())
		out, err := Parse(s, DefaultOptions())
		require.NoError(t, err)
		require.Len(t, out, 1)
		assert.Equal(t, "Doe, Jane", out[0].ContributorName)
	})

	t.Run("Should fail on a sheet shorter than its preamble", func(t *testing.T) {
		_, err := Parse(fileio.Sheet{Name: "x", Grid: grid.FromStrings([][]string{{"a"}})}, DefaultOptions())
		assert.Error(t, err)
	})
}

func TestLoad(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	sheet := exportSheet(validRow())
	for r, row := range sheet.Grid.Strings() {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		vals := make([]any, len(row))
		for i, v := range row {
			vals[i] = v
		}
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &vals))
	}
	path := filepath.Join(t.TempDir(), "contributions.xlsx")
	require.NoError(t, f.SaveAs(path))

	out, err := Load(path, DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Smith, John", out[0].RegistrantName)

	_, err = Load(filepath.Join(t.TempDir(), "missing.xls"), DefaultOptions(), zerolog.Nop())
	var le *fileio.LoadError
	assert.ErrorAs(t, err, &le)
}

func TestLoadCSVWithBlankPreamble(t *testing.T) {
	lines := []string{"Contribution Search Results", "", "", "", "", "", "",
		"Contributor Name,Contributor Address,Contributor Postal Code,Contribution Amount,Contribution Date," +
			"Contribution Type,Contributor Type,Goods/Service Description,Registrant Name,Registrant Type,Office,Ward",
		`"Doe, Jane",1 Main St,M5V 1A1,"$1,200.50",2022-05-03,Monetary,Individual,,"Smith, John",Candidate,Councillor,12`,
	}
	path := filepath.Join(t.TempDir(), "contributions.csv")
	require.NoError(t, os.WriteFile(path, []byte(strings.Join(lines, "\n")+"\n"), 0o644))

	out, err := Load(path, DefaultOptions(), zerolog.Nop())
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, "Doe, Jane", out[0].ContributorName)
	assert.Equal(t, "1200.5", out[0].Amount.String())
	assert.Equal(t, 12, out[0].Ward)
}
