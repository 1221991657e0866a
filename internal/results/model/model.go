package model

import (
	"fmt"
	"strings"

	"election-ingest/internal/grid"
)

// OfficeType is the closed set of contests published as separate workbooks.
type OfficeType string

const (
	Mayor        OfficeType = "Mayor"
	Councillor   OfficeType = "Councillor"
	TDSBTrustee  OfficeType = "TDSB Trustee"
	TCDSBTrustee OfficeType = "TCDSB Trustee"
)

// OfficeTypes lists every office type in a stable order.
var OfficeTypes = []OfficeType{Mayor, Councillor, TDSBTrustee, TCDSBTrustee}

// ParseOfficeType accepts the canonical name case-insensitively, plus short aliases.
func ParseOfficeType(s string) (OfficeType, error) {
	k := strings.ToLower(strings.Join(strings.Fields(s), " "))
	switch k {
	case "mayor":
		return Mayor, nil
	case "councillor", "council":
		return Councillor, nil
	case "tdsb trustee", "tdsb":
		return TDSBTrustee, nil
	case "tcdsb trustee", "tcdsb":
		return TCDSBTrustee, nil
	}
	return "", fmt.Errorf("unknown office type %q", s)
}

// DetectOffice guesses the office type of a published workbook from its file name.
// "tcdsb" is checked before "tdsb" since it contains it.
func DetectOffice(filename string) (OfficeType, bool) {
	n := strings.ToLower(filename)
	switch {
	case strings.Contains(n, "mayor"):
		return Mayor, true
	case strings.Contains(n, "councillor"), strings.Contains(n, "council"):
		return Councillor, true
	case strings.Contains(n, "tcdsb"):
		return TCDSBTrustee, true
	case strings.Contains(n, "tdsb"):
		return TDSBTrustee, true
	}
	return "", false
}

// Block is one administrative unit's raw sub-table: rows [Start, End) of its sheet grid.
type Block struct {
	Sheet   string
	Index   int
	Start   int
	End     int
	Grid    *grid.Grid
	Context string // sheet title, e.g. the contents of A1
}

// NormalizedBlock is a Block reduced to candidates x subdivisions.
// Votes[i][j] is the raw cell for Candidates[i] in Subdivisions[j].
type NormalizedBlock struct {
	Sheet        string
	Index        int
	Candidates   []string
	Subdivisions []int
	Votes        [][]grid.Value
	UnitLabel    string
	Context      string
}

// LabeledBlock is a NormalizedBlock with its canonical office and ward attached.
type LabeledBlock struct {
	NormalizedBlock
	Office string
	Ward   string
}

// OfficeRecord is one row of the long-form election results table.
// A nil VoteCount means the source cell was blank.
type OfficeRecord struct {
	Office      string `json:"office"`
	Candidate   string `json:"candidate"`
	Ward        string `json:"ward"`
	Subdivision int    `json:"subdivision"`
	VoteCount   *int64 `json:"vote_count"`
}

// Columns is the fixed column order of the long-form table.
var Columns = []string{"Office", "Candidate", "Ward", "Subdivision", "Vote Count"}

// Values renders a record in Columns order; a blank vote is an empty string.
func (r OfficeRecord) Values() []string {
	votes := ""
	if r.VoteCount != nil {
		votes = fmt.Sprint(*r.VoteCount)
	}
	return []string{r.Office, r.Candidate, r.Ward, fmt.Sprint(r.Subdivision), votes}
}
