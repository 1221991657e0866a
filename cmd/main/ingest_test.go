package main

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	excelize "github.com/xuri/excelize/v2"

	"election-ingest/internal/store"
)

func writeWorkbook(t *testing.T, path string, rows [][]any) {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		require.NoError(t, err)
		row := row
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
}

func rawDir(t *testing.T) string {
	dir := t.TempDir()
	writeWorkbook(t, filepath.Join(dir, "2022-mayor.xlsx"), [][]any{
		{"Mayor Results"},
		{"Subdivision", 1, 2, "Total"},
		{"Mayor"},
		{"SMITH, JANE", 10, 20, 30},
		{"DOE, JOHN", 15, 1, 16},
		{"Ward 01 Totals", 25, 21, 46},
	})
	writeWorkbook(t, filepath.Join(dir, "2022-councillor.xlsx"), [][]any{
		{"Councillor Results"},
		{"Subdivision", 1, "Total"},
		{"Councillor"},
		{"LEE, ANN", 3, 3},
		{"City Ward 1 Totals", 3, 3},
	})
	return dir
}

func contributionsDir(t *testing.T) string {
	dir := t.TempDir()
	lines := []string{"Contribution Search Results", "", "", "", "", "", "",
		"Contributor Name,Contributor Address,Contributor Postal Code,Contribution Amount,Contribution Date," +
			"Contribution Type,Contributor Type,Goods/Service Description,Registrant Name,Registrant Type,Office,Ward",
		`"Doe, Jane",1 Main St,M5V 1A1,"$1,200.50",2022-05-03,Monetary,Individual,,"SMITH, JANE",Candidate,Mayor,`,
	}
	require.NoError(t, os.WriteFile(filepath.Join(dir, "contributions.csv"), []byte(strings.Join(lines, "\n")+"\n"), 0o644))
	return dir
}

func TestIngest(t *testing.T) {
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "elections.db")
	opt := ingestOptions{
		Year:             2022,
		Dir:              rawDir(t),
		ContributionsDir: contributionsDir(t),
		Format:           "data-only",
		DBType:           store.SQLite,
		DBURL:            dbPath,
	}

	t.Run("Should load both datasets and rank winners", func(t *testing.T) {
		winners, err := ingest(ctx, opt, nil, zerolog.Nop())
		require.NoError(t, err)
		require.Len(t, winners, 2)
		assert.Equal(t, "Councillor Ward 1", winners[0].Office)
		assert.Equal(t, "LEE, ANN", winners[0].Candidate)
		assert.Equal(t, "Mayor", winners[1].Office)
		assert.Equal(t, "SMITH, JANE", winners[1].Candidate)
		require.NotNil(t, winners[1].TotalVotes)
		assert.Equal(t, int64(30), *winners[1].TotalVotes)

		st, err := store.Open(ctx, store.SQLite, dbPath)
		require.NoError(t, err)
		defer st.Close()
		var n int
		require.NoError(t, st.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM contributions WHERE year = 2022`).Scan(&n))
		assert.Equal(t, 1, n)
	})

	t.Run("Should be repeatable for the same year", func(t *testing.T) {
		_, err := ingest(ctx, opt, nil, zerolog.Nop())
		require.NoError(t, err)
	})

	t.Run("Should keep contributions when only results are reloaded", func(t *testing.T) {
		resultsOnly := opt
		resultsOnly.ContributionsDir = ""
		resultsOnly.CSVPath = filepath.Join(t.TempDir(), "results.csv")
		_, err := ingest(ctx, resultsOnly, nil, zerolog.Nop())
		require.NoError(t, err)

		st, err := store.Open(ctx, store.SQLite, dbPath)
		require.NoError(t, err)
		defer st.Close()
		var n int
		require.NoError(t, st.DB().QueryRowContext(ctx, `SELECT COUNT(*) FROM contributions WHERE year = 2022`).Scan(&n))
		assert.Equal(t, 1, n)

		b, err := os.ReadFile(resultsOnly.CSVPath)
		require.NoError(t, err)
		lines := strings.Split(strings.TrimSpace(string(b)), "\n")
		require.Len(t, lines, 6)
		assert.Equal(t, "Office,Candidate,Ward,Subdivision,Vote Count", lines[0])
		assert.Equal(t, `Mayor,"SMITH, JANE",Ward 01,1,10`, lines[1])
		assert.Equal(t, `Councillor Ward 1,"LEE, ANN",1,1,3`, lines[5])
	})

	t.Run("Should not touch the database when a workbook is broken", func(t *testing.T) {
		bad := opt
		bad.DBURL = filepath.Join(t.TempDir(), "untouched.db")
		bad.Dir = t.TempDir()
		writeWorkbook(t, filepath.Join(bad.Dir, "2022-mayor.xlsx"), [][]any{{"Mayor Results"}, {"Candidate", 1}})
		_, err := ingest(ctx, bad, nil, zerolog.Nop())
		require.Error(t, err)
		_, statErr := os.Stat(bad.DBURL)
		assert.True(t, os.IsNotExist(statErr))
	})

	t.Run("Should require a year and a known sheet format", func(t *testing.T) {
		bad := opt
		bad.Year = 0
		_, err := ingest(ctx, bad, nil, zerolog.Nop())
		assert.Error(t, err)

		bad = opt
		bad.Format = "pdf"
		_, err = ingest(ctx, bad, nil, zerolog.Nop())
		assert.Error(t, err)
	})
}
