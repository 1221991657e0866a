package service

import (
	"election-ingest/internal/grid"
	"election-ingest/internal/results/model"
)

func rows(r ...[]string) *grid.Grid { return grid.FromStrings(r) }

// wardBlock is one per-ward table as printed by the city, with a blank padding row
// above the totals row and an unlabelled inline totals column.
func wardBlock(label string) [][]string {
	return [][]string{
		{"Subdivision", "1", "2", "", "4", "Total"},
		{"SMITH, JANE", "10", "20", "30", "5", "35"},
		{"DOE, JOHN", "1", "", "1", "2", "3"},
		{"", "", "", "", "", ""},
		{label, "11", "20", "31", "7", "38"},
	}
}

func blockOf(r [][]string) model.Block {
	g := grid.FromStrings(r)
	return model.Block{Sheet: "Sheet1", Start: 0, End: g.Rows(), Grid: g}
}
