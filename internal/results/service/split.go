package service

import (
	"election-ingest/internal/grid"
	"election-ingest/internal/results/model"
)

// DefaultSentinel opens every per-unit table in column A.
const DefaultSentinel = "Subdivision"

type SplitOptions struct {
	Sentinel string
	// DropLabelRow removes grid row 1, the inline office label some contests print
	// under the first column header row.
	DropLabelRow bool
}

// Split partitions a sheet grid into one Block per sentinel row, top to bottom.
// Each block runs from its sentinel row up to the next one or the end of the grid.
// Blank rows above the first sentinel are ignored; anything else there is an error,
// as is a sheet without any sentinel.
func Split(sheet string, g *grid.Grid, opt SplitOptions) ([]model.Block, error) {
	if opt.Sentinel == "" {
		opt.Sentinel = DefaultSentinel
	}
	if opt.DropLabelRow {
		g = g.DropRow(1)
	}

	var bounds []int
	for r := 0; r < g.Rows(); r++ {
		if g.At(r, 0).Str == opt.Sentinel {
			bounds = append(bounds, r)
		}
	}
	if len(bounds) == 0 {
		return nil, &StructuralError{Sheet: sheet, Block: -1, Reason: "no \"" + opt.Sentinel + "\" marker in column A"}
	}
	for r := 0; r < bounds[0]; r++ {
		if !g.RowBlank(r) {
			return nil, &StructuralError{Sheet: sheet, Block: -1, Reason: "data above the first \"" + opt.Sentinel + "\" marker"}
		}
	}
	bounds = append(bounds, g.Rows())

	blocks := make([]model.Block, 0, len(bounds)-1)
	for i := 0; i+1 < len(bounds); i++ {
		blocks = append(blocks, model.Block{
			Sheet: sheet,
			Index: i,
			Start: bounds[i],
			End:   bounds[i+1],
			Grid:  g.Slice(bounds[i], bounds[i+1]),
		})
	}
	return blocks, nil
}
