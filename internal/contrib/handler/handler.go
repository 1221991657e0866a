package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"election-ingest/internal/config"
	"election-ingest/internal/contrib/model"
	"election-ingest/internal/contrib/service"
	"election-ingest/internal/fileio"
)

type response struct {
	Count   int                  `json:"count"`
	Records []model.Contribution `json:"records"`
}

// Contributions parses an uploaded campaign contributions export.
func Contributions(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := *zerolog.Ctx(r.Context())
		if log.GetLevel() == zerolog.Disabled {
			log = logger
		}

		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			fail(w, http.StatusBadRequest, "bad multipart form: "+err.Error())
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			fail(w, http.StatusBadRequest, "missing file: "+err.Error())
			return
		}
		defer file.Close()

		opt := service.DefaultOptions()
		if v := strings.TrimSpace(r.FormValue("skip_rows")); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				fail(w, http.StatusBadRequest, fmt.Sprintf("skip_rows: %q is not a row count", v))
				return
			}
			opt.SkipRows = n
		}

		wb, err := fileio.OpenReader(file, header.Filename, fileio.FormatDataOnly)
		if err == nil && len(wb.Sheets) == 0 {
			err = &fileio.LoadError{Path: header.Filename, Err: errors.New("workbook has no sheets")}
		}
		if err != nil {
			log.Warn().Err(err).Msg("contributions upload unreadable")
			fail(w, http.StatusBadRequest, err.Error())
			return
		}

		records, err := service.Parse(wb.Sheets[0], opt)
		if err != nil {
			log.Warn().Err(err).Str("file", header.Filename).Msg("contributions rejected")
			fail(w, http.StatusUnprocessableEntity, err.Error())
			return
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Cache-Control", "no-store")
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(response{Count: len(records), Records: records}); err != nil {
			log.Error().Err(err).Msg("write json")
			return
		}
		log.Info().
			Str("file", header.Filename).
			Int("contributions", len(records)).
			Dur("elapsed", time.Since(start)).
			Msg("contributions normalized")
	}
}

func fail(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"error": msg})
}
