package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"election-ingest/internal/fileio"
	"election-ingest/internal/results/service"
)

func atoi(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}

// requestLogger prefers the logger the Logging middleware put into the context.
func requestLogger(r *http.Request, fallback zerolog.Logger) *zerolog.Logger {
	if l := zerolog.Ctx(r.Context()); l.GetLevel() != zerolog.Disabled {
		return l
	}
	return &fallback
}

func writeJSON(w http.ResponseWriter, log zerolog.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		log.Error().Err(err).Msg("write json")
	}
}

// statusFor maps normalization failures onto HTTP codes: bad input files are 400,
// files that load but do not have the expected layout are 422.
func statusFor(err error) int {
	var le *fileio.LoadError
	switch {
	case errors.As(err, &le):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrStructural),
		errors.Is(err, service.ErrMalformedHeader),
		errors.Is(err, service.ErrLabelParse),
		errors.Is(err, service.ErrCoercion):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
