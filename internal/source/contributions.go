package source

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"election-ingest/internal/contrib/model"
	"election-ingest/internal/contrib/service"
)

// Contributions reads campaign-finance exports that were saved into Dir by hand;
// the city only offers them through an interactive search page.
type Contributions struct {
	Dir     string
	Options service.Options
	Logger  zerolog.Logger
}

func (s *Contributions) Fetch(context.Context) ([]string, error) {
	return listSpreadsheets(s.Dir)
}

func (s *Contributions) Normalize(ctx context.Context, paths []string) ([]model.Contribution, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no contribution exports in %s", s.Dir)
	}
	var out []model.Contribution
	for _, p := range paths {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		cs, err := service.Load(p, s.Options, s.Logger)
		if err != nil {
			return nil, err
		}
		out = append(out, cs...)
	}
	return out, nil
}
