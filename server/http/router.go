package serverhttp

import (
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"election-ingest/internal/config"
	contribHnd "election-ingest/internal/contrib/handler"
	"election-ingest/internal/middleware"
	resultsHnd "election-ingest/internal/results/handler"
	"election-ingest/server/http/handlers"
)

// NewRouter wires the upload endpoints. /winners needs a store; /debug/pprof needs cfg.Profiling.
func NewRouter(cfg config.Config, logger zerolog.Logger, db handlers.WinnerLister) *chi.Mux {
	r := chi.NewRouter()

	// order matters: recover -> requestID -> logging -> cors -> limit
	r.Use(middleware.Recover(logger))
	r.Use(middleware.RequestID())
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CORS(cfg.AllowOrigins))
	r.Use(middleware.LimitBytes(int64(cfg.MaxUploadMB) << 20))

	r.Get("/health", handlers.Health)

	r.Post("/results", resultsHnd.Results(cfg, logger))
	r.Post("/contributions", contribHnd.Contributions(cfg, logger))
	if db != nil {
		r.Get("/winners", handlers.Winners(db, logger))
	}
	if cfg.Profiling {
		r.Mount("/debug", chimw.Profiler())
	}

	return r
}
