package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"election-ingest/internal/config"
	contribModel "election-ingest/internal/contrib/model"
	contribSvc "election-ingest/internal/contrib/service"
	"election-ingest/internal/fileio"
	resultsModel "election-ingest/internal/results/model"
	resultsSvc "election-ingest/internal/results/service"
	"election-ingest/internal/source"
	"election-ingest/internal/store"
)

type ingestOptions struct {
	Year             int
	Dir              string
	ContributionsDir string
	Fetch            bool
	Format           string
	DBType           string
	DBURL            string
	CSVPath          string
}

func newIngestCommand() *cobra.Command {
	var opt ingestOptions
	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Normalize a year of results (and contributions) and load them into the database",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger := config.SetupLogger(cfg)
			if opt.Dir == "" {
				opt.Dir = cfg.RawDataDir
			}
			if opt.DBType == "" {
				opt.DBType = cfg.DatabaseType
			}
			if opt.DBURL == "" {
				opt.DBURL = cfg.DatabaseURL
			}
			var portal *source.CKAN
			if opt.Fetch {
				portal = source.NewCKAN(cfg.CKANBaseURL, cfg.CKANPackageID, cfg.HTTPTimeout, cfg.FetchRetries, logger)
			}
			_, err = ingest(cmd.Context(), opt, portal, logger)
			return err
		},
	}
	f := cmd.Flags()
	f.IntVar(&opt.Year, "year", 0, "Election year the workbooks belong to")
	f.StringVar(&opt.Dir, "dir", "", "Directory of result workbooks (default RAW_DATA_DIR)")
	f.StringVar(&opt.ContributionsDir, "contributions", "", "Directory of contribution exports; skipped when empty")
	f.BoolVar(&opt.Fetch, "fetch", false, "Download the workbooks from the open data portal into --dir first")
	f.StringVar(&opt.Format, "sheet-format", string(fileio.FormatDataOnly), "data-only or raw")
	f.StringVar(&opt.DBType, "db-type", "", "sqlite or postgres (default DATABASE_TYPE)")
	f.StringVar(&opt.DBURL, "db-url", "", "Database URL (default DATABASE_URL)")
	f.StringVar(&opt.CSVPath, "csv", "", "Also write the long-form results table to this CSV file")
	_ = cmd.MarkFlagRequired("year")
	return cmd
}

// ingest builds both datasets in memory and only then persists them, so a bad workbook
// never leaves a half-loaded year behind.
func ingest(ctx context.Context, opt ingestOptions, portal *source.CKAN, logger zerolog.Logger) ([]store.Winner, error) {
	start := time.Now()
	logger = logger.With().Str("run", uuid.NewString()).Int("year", opt.Year).Logger()
	if opt.Year <= 0 {
		return nil, errors.New("--year is required")
	}
	format, err := fileio.ParseSheetFormat(opt.Format)
	if err != nil {
		return nil, err
	}

	results, err := source.Collect[resultsModel.OfficeRecord](ctx, &source.ElectionResults{Portal: portal, Dir: opt.Dir, Format: format, Logger: logger})
	if err != nil {
		return nil, err
	}
	var contributions []contribModel.Contribution
	if opt.ContributionsDir != "" {
		contributions, err = source.Collect[contribModel.Contribution](ctx, &source.Contributions{
			Dir:     opt.ContributionsDir,
			Options: contribSvc.DefaultOptions(),
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}
	}

	st, err := store.Open(ctx, opt.DBType, opt.DBURL)
	if err != nil {
		return nil, err
	}
	defer st.Close()
	if err := st.CreateSchema(ctx); err != nil {
		return nil, err
	}
	if opt.ContributionsDir == "" {
		err = st.SaveResults(ctx, opt.Year, results)
	} else {
		err = st.Build(ctx, opt.Year, results, contributions)
	}
	if err != nil {
		return nil, err
	}
	if opt.CSVPath != "" {
		if err := writeResultsCSV(opt.CSVPath, results); err != nil {
			return nil, err
		}
		logger.Info().Str("path", opt.CSVPath).Msg("results csv written")
	}

	winners, err := st.Winners(ctx, opt.Year)
	if err != nil {
		return nil, err
	}
	for _, w := range winners {
		ev := logger.Info().Str("office", w.Office).Str("candidate", w.Candidate)
		if w.TotalVotes != nil {
			ev = ev.Int64("votes", *w.TotalVotes)
		}
		ev.Msg("winner")
	}
	logger.Info().
		Int("records", len(results)).
		Int("contributions", len(contributions)).
		Int("winners", len(winners)).
		Dur("elapsed", time.Since(start)).
		Msg("ingest done")
	return winners, nil
}

func writeResultsCSV(path string, records []resultsModel.OfficeRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := resultsSvc.WriteCSV(f, records); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}
