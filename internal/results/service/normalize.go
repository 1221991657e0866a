package service

import (
	"strconv"
	"strings"

	"election-ingest/internal/grid"
	"election-ingest/internal/results/model"
)

// Normalize reduces one block to a candidates x subdivisions table. The steps run in this order:
//  1. row 0 is the header row
//  2. trailing blank rows are dropped
//  3. the last row is the totals row: its first cell is the unit label, the row is dropped
//  4. columns with a blank header (inline totals) are dropped
//  5. the last remaining column, the per-candidate grand total, is dropped
//  6. column A becomes Candidate, every other header must be a positive integer subdivision
func Normalize(b model.Block) (model.NormalizedBlock, error) {
	g := b.Grid
	structural := func(reason string) error {
		return &StructuralError{Sheet: b.Sheet, Block: b.Index, Reason: reason}
	}
	if g == nil || g.Rows() < 2 {
		return model.NormalizedBlock{}, structural("no rows under the header")
	}

	last := g.Rows() - 1
	for last > 0 && g.RowBlank(last) {
		last--
	}
	if last < 1 {
		return model.NormalizedBlock{}, structural("no totals row under the header")
	}
	unitLabel := strings.TrimSpace(g.At(last, 0).Str)

	cols := []int{0}
	for c := 1; c < g.Cols(); c++ {
		if !g.At(0, c).IsBlank() {
			cols = append(cols, c)
		}
	}
	if len(cols) < 3 {
		return model.NormalizedBlock{}, structural("no subdivision columns")
	}

	// a trailing subdivision number means there is no grand-total column to drop
	totalCol := cols[len(cols)-1]
	if _, ok := subdivisionNumber(g.At(0, totalCol)); ok {
		return model.NormalizedBlock{}, &MalformedHeaderError{
			Sheet: b.Sheet, Block: b.Index, Column: totalCol, Header: g.At(0, totalCol).Str,
			Reason: "last column is a subdivision, expected a grand-total column",
		}
	}
	cols = cols[:len(cols)-1]

	out := model.NormalizedBlock{
		Sheet:     b.Sheet,
		Index:     b.Index,
		UnitLabel: unitLabel,
		Context:   b.Context,
	}
	seen := make(map[int]bool, len(cols)-1)
	for _, c := range cols[1:] {
		n, ok := subdivisionNumber(g.At(0, c))
		if !ok || seen[n] {
			reason := "not a positive integer"
			if ok {
				reason = "duplicate subdivision"
			}
			return model.NormalizedBlock{}, &MalformedHeaderError{
				Sheet: b.Sheet, Block: b.Index, Column: c, Header: g.At(0, c).Str, Reason: reason,
			}
		}
		seen[n] = true
		out.Subdivisions = append(out.Subdivisions, n)
	}

	for r := 1; r < last; r++ {
		if g.RowBlank(r) {
			continue
		}
		name := strings.TrimSpace(g.At(r, 0).Str)
		if name == "" {
			return model.NormalizedBlock{}, structural("row " + strconv.Itoa(r) + " has votes but no candidate")
		}
		votes := make([]grid.Value, 0, len(cols)-1)
		for _, c := range cols[1:] {
			votes = append(votes, g.At(r, c))
		}
		out.Candidates = append(out.Candidates, name)
		out.Votes = append(out.Votes, votes)
	}
	if len(out.Candidates) == 0 {
		return model.NormalizedBlock{}, structural("no candidate rows")
	}
	return out, nil
}

func subdivisionNumber(v grid.Value) (int, bool) {
	switch v.Kind {
	case grid.Number:
		n, ok := v.Int()
		if !ok || n <= 0 {
			return 0, false
		}
		return int(n), true
	case grid.Text:
		n, err := strconv.Atoi(strings.TrimSpace(v.Str))
		if err != nil || n <= 0 {
			return 0, false
		}
		return n, true
	}
	return 0, false
}
