package service

import (
	"context"
	"fmt"
	"runtime"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"election-ingest/internal/fileio"
	"election-ingest/internal/results/model"
)

// WorkbookSpec says how to read one contest workbook.
type WorkbookSpec struct {
	Path   string
	Office model.OfficeType
	Format fileio.SheetFormat
	// TitleCell holds the sheet-level office context, A1 by default.
	TitleCell string
	// HeaderOffset is the number of title rows above the first sentinel row.
	HeaderOffset int
	Sentinel     string
}

// NewWorkbookSpec returns the layout the city publishes: title in A1, tables from row 2.
func NewWorkbookSpec(path string, office model.OfficeType) WorkbookSpec {
	return WorkbookSpec{
		Path:         path,
		Office:       office,
		Format:       fileio.FormatDataOnly,
		TitleCell:    "A1",
		HeaderOffset: 1,
		Sentinel:     DefaultSentinel,
	}
}

// ProcessSheet runs split -> normalize -> label over a single sheet.
func ProcessSheet(sheet fileio.Sheet, spec WorkbookSpec) ([]model.LabeledBlock, error) {
	title := ""
	if spec.TitleCell != "" {
		v, err := sheet.CellRef(spec.TitleCell)
		if err != nil {
			return nil, fmt.Errorf("title cell %q: %w", spec.TitleCell, err)
		}
		title = strings.TrimSpace(v.Str)
	}

	g := sheet.Grid.Slice(spec.HeaderOffset, sheet.Grid.Rows())
	blocks, err := Split(sheet.Name, g, SplitOptions{
		Sentinel:     spec.Sentinel,
		DropLabelRow: DropsLabelRow(spec.Office),
	})
	if err != nil {
		return nil, err
	}

	out := make([]model.LabeledBlock, 0, len(blocks))
	for _, b := range blocks {
		b.Context = title
		nb, err := Normalize(b)
		if err != nil {
			return nil, err
		}
		office, ward, err := Label(spec.Office, nb.UnitLabel, nb.Context)
		if err != nil {
			return nil, err
		}
		out = append(out, model.LabeledBlock{NormalizedBlock: nb, Office: office, Ward: ward})
	}
	return out, nil
}

// ProcessWorkbook processes every sheet in workbook order and stops at the first failure.
func ProcessWorkbook(wb *fileio.Workbook, spec WorkbookSpec, logger zerolog.Logger) ([]model.LabeledBlock, error) {
	var out []model.LabeledBlock
	for _, sheet := range wb.Sheets {
		blocks, err := ProcessSheet(sheet, spec)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", wb.Name, err)
		}
		logger.Debug().
			Str("workbook", wb.Name).
			Str("sheet", sheet.Name).
			Int("blocks", len(blocks)).
			Msg("sheet normalized")
		out = append(out, blocks...)
	}
	return out, nil
}

// Run loads and normalizes workbooks concurrently, then reshapes them in input order
// into one long-form table.
func Run(ctx context.Context, specs []WorkbookSpec, logger zerolog.Logger) ([]model.OfficeRecord, error) {
	perBook := make([][]model.LabeledBlock, len(specs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, spec := range specs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			wb, err := fileio.Open(spec.Path, spec.Format)
			if err != nil {
				return err
			}
			blocks, err := ProcessWorkbook(wb, spec, logger)
			if err != nil {
				return err
			}
			perBook[i] = blocks
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []model.LabeledBlock
	for _, b := range perBook {
		all = append(all, b...)
	}
	records, err := Reshape(all)
	if err != nil {
		return nil, err
	}
	logger.Info().
		Int("workbooks", len(specs)).
		Int("blocks", len(all)).
		Int("records", len(records)).
		Msg("election results normalized")
	return records, nil
}
