package service

import (
	"election-ingest/internal/grid"
	"election-ingest/internal/results/model"
	"election-ingest/internal/utils"
)

// Reshape melts labeled wide blocks into long-form records, block by block,
// then candidate row by row, then subdivision column by column.
func Reshape(blocks []model.LabeledBlock) ([]model.OfficeRecord, error) {
	n := 0
	for _, b := range blocks {
		n += len(b.Candidates) * len(b.Subdivisions)
	}
	out := make([]model.OfficeRecord, 0, n)
	for _, b := range blocks {
		for i, cand := range b.Candidates {
			for j, sub := range b.Subdivisions {
				v := b.Votes[i][j]
				votes, ok := coerceVote(v)
				if !ok {
					return nil, &CoercionError{Office: b.Office, Candidate: cand, Subdivision: sub, Value: v.Str}
				}
				out = append(out, model.OfficeRecord{
					Office:      b.Office,
					Candidate:   cand,
					Ward:        b.Ward,
					Subdivision: sub,
					VoteCount:   votes,
				})
			}
		}
	}
	return out, nil
}

// coerceVote maps a blank cell to nil and a whole non-negative number to its value.
func coerceVote(v grid.Value) (*int64, bool) {
	switch v.Kind {
	case grid.Blank:
		return nil, true
	case grid.Number:
		n, ok := v.Int()
		if !ok || n < 0 {
			return nil, false
		}
		return &n, true
	default:
		n, ok := utils.ParseCount(v.Str)
		if !ok {
			return nil, false
		}
		return &n, true
	}
}
