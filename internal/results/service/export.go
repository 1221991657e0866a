package service

import (
	"encoding/csv"
	"io"

	"election-ingest/internal/results/model"
)

// WriteCSV writes the long-form table, header first, one line per record.
func WriteCSV(w io.Writer, records []model.OfficeRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(model.Columns); err != nil {
		return err
	}
	for _, r := range records {
		if err := cw.Write(r.Values()); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
