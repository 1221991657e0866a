package handler

import (
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"election-ingest/internal/config"
	"election-ingest/internal/fileio"
	"election-ingest/internal/results/model"
	"election-ingest/internal/results/service"
)

type response struct {
	Columns []string             `json:"columns"`
	Blocks  int                  `json:"blocks"`
	Records []model.OfficeRecord `json:"records"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Results normalizes one uploaded contest workbook and returns the long-form table.
// office_type may be omitted when the file name identifies the office.
func Results(cfg config.Config, logger zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		log := requestLogger(r, logger)

		if err := r.ParseMultipartForm(int64(cfg.MaxUploadMB) << 20); err != nil {
			writeJSON(w, *log, http.StatusBadRequest, errorResponse{"bad multipart form: " + err.Error()})
			return
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeJSON(w, *log, http.StatusBadRequest, errorResponse{"missing file: " + err.Error()})
			return
		}
		defer file.Close()

		office, ok := model.DetectOffice(header.Filename)
		if v := r.FormValue("office_type"); v != "" {
			if office, err = model.ParseOfficeType(v); err != nil {
				writeJSON(w, *log, http.StatusBadRequest, errorResponse{err.Error()})
				return
			}
		} else if !ok {
			writeJSON(w, *log, http.StatusBadRequest, errorResponse{"office_type is required"})
			return
		}

		spec := service.NewWorkbookSpec(header.Filename, office)
		if v := r.FormValue("sheet_format"); v != "" {
			if spec.Format, err = fileio.ParseSheetFormat(v); err != nil {
				writeJSON(w, *log, http.StatusBadRequest, errorResponse{err.Error()})
				return
			}
		}
		if v := r.FormValue("title_cell"); v != "" {
			spec.TitleCell = v
		}
		spec.HeaderOffset = atoi(r.FormValue("header_offset"), spec.HeaderOffset)
		if spec.HeaderOffset < 0 {
			writeJSON(w, *log, http.StatusBadRequest, errorResponse{"header_offset must be >= 0"})
			return
		}
		if v := r.FormValue("sentinel"); v != "" {
			spec.Sentinel = v
		}

		res, err := normalize(file, header.Filename, spec, *log)
		if err != nil {
			status := statusFor(err)
			log.Warn().Err(err).Int("status", status).Str("file", header.Filename).Msg("results rejected")
			writeJSON(w, *log, status, errorResponse{err.Error()})
			return
		}
		if strings.EqualFold(r.FormValue("format"), "csv") {
			name := strings.TrimSuffix(header.Filename, filepath.Ext(header.Filename)) + ".csv"
			w.Header().Set("Content-Type", "text/csv; charset=utf-8")
			w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": name}))
			if err := service.WriteCSV(w, res.Records); err != nil {
				log.Error().Err(err).Msg("write csv")
				return
			}
		} else {
			writeJSON(w, *log, http.StatusOK, res)
		}
		log.Info().
			Str("file", header.Filename).
			Str("office_type", string(office)).
			Int("records", len(res.Records)).
			Dur("elapsed", time.Since(start)).
			Msg("results normalized")
	}
}

func normalize(r io.Reader, filename string, spec service.WorkbookSpec, log zerolog.Logger) (response, error) {
	wb, err := fileio.OpenReader(r, filename, spec.Format)
	if err != nil {
		return response{}, err
	}
	blocks, err := service.ProcessWorkbook(wb, spec, log)
	if err != nil {
		return response{}, err
	}
	records, err := service.Reshape(blocks)
	if err != nil {
		return response{}, err
	}
	return response{Columns: model.Columns, Blocks: len(blocks), Records: records}, nil
}
