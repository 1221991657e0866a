package source

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/rs/zerolog"

	"election-ingest/internal/fileio"
	"election-ingest/internal/results/model"
	"election-ingest/internal/results/service"
)

// ElectionResults is the per-subdivision results dataset, one workbook per office type.
type ElectionResults struct {
	// Portal is optional; without it Fetch uses the files already in Dir.
	Portal *CKAN
	Dir    string
	Format fileio.SheetFormat
	Logger zerolog.Logger
}

func (s *ElectionResults) Fetch(ctx context.Context) ([]string, error) {
	if s.Portal == nil {
		return listSpreadsheets(s.Dir)
	}
	return s.Portal.Download(ctx, s.Dir)
}

// Normalize keeps the workbooks whose file name names an office and runs them through
// the results pipeline, ordered by office type then path.
func (s *ElectionResults) Normalize(ctx context.Context, paths []string) ([]model.OfficeRecord, error) {
	rank := map[model.OfficeType]int{}
	for i, o := range model.OfficeTypes {
		rank[o] = i
	}

	var specs []service.WorkbookSpec
	for _, p := range paths {
		ext := strings.ToLower(filepath.Ext(p))
		if ext != ".xlsx" && ext != ".xlsm" && ext != ".xls" {
			continue
		}
		office, ok := model.DetectOffice(filepath.Base(p))
		if !ok {
			s.Logger.Warn().Str("path", p).Msg("skipping workbook: no office in file name")
			continue
		}
		spec := service.NewWorkbookSpec(p, office)
		if s.Format != "" {
			spec.Format = s.Format
		}
		specs = append(specs, spec)
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no election result workbooks among %d files", len(paths))
	}
	sort.SliceStable(specs, func(i, j int) bool {
		if rank[specs[i].Office] != rank[specs[j].Office] {
			return rank[specs[i].Office] < rank[specs[j].Office]
		}
		return specs[i].Path < specs[j].Path
	})
	return service.Run(ctx, specs, s.Logger)
}
