package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/rs/zerolog"

	"election-ingest/internal/store"
)

// WinnerLister is the slice of the store the winners endpoint needs.
type WinnerLister interface {
	Winners(ctx context.Context, year int) ([]store.Winner, error)
}

// Winners serves the office_winners view for ?year=.
func Winners(db WinnerLister, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		year, err := strconv.Atoi(r.URL.Query().Get("year"))
		if err != nil || year < 1900 {
			http.Error(w, "year query parameter is required", http.StatusBadRequest)
			return
		}
		winners, err := db.Winners(r.Context(), year)
		if err != nil {
			logger.Error().Err(err).Int("year", year).Msg("winners query")
			http.Error(w, "winners query failed", http.StatusInternalServerError)
			return
		}
		if winners == nil {
			winners = []store.Winner{}
		}
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(winners)
	}
}
