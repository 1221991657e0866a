package model

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type ContributionType string

const (
	Monetary      ContributionType = "Monetary"
	GoodsServices ContributionType = "Goods/Services"
)

type ContributorType string

const (
	Individual        ContributorType = "Individual"
	Corporation       ContributorType = "Corporation"
	TradeUnion        ContributorType = "Trade Union"
	CandidateSelf     ContributorType = "Candidate"
	SpouseOfCandidate ContributorType = "Spouse of Candidate"
)

type RegistrantType string

const (
	RegistrantCandidate RegistrantType = "Candidate"
	ThirdParty          RegistrantType = "Third Party Advertiser"
)

type Office string

const (
	Mayor        Office = "Mayor"
	Councillor   Office = "Councillor"
	TDSBTrustee  Office = "TDSB Trustee"
	TCDSBTrustee Office = "TCDSB Trustee"
	CSVTrustee   Office = "CSV Trustee"
	CSCMTrustee  Office = "CSCM Trustee"
)

// MaxWard is the highest ward number; ward 0 stands for city-wide offices.
const MaxWard = 25

// EnumError reports a value outside one of the closed category sets.
type EnumError struct {
	Field string
	Value string
}

func (e *EnumError) Error() string {
	return fmt.Sprintf("%s: %q is not a known category", e.Field, e.Value)
}

func key(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

func lookup[T ~string](field, s string, set ...T) (T, error) {
	k := key(s)
	for _, v := range set {
		if key(string(v)) == k {
			return v, nil
		}
	}
	var zero T
	return zero, &EnumError{Field: field, Value: s}
}

func ParseContributionType(s string) (ContributionType, error) {
	// the export spells it both ways
	if key(s) == "goods and services" || key(s) == "goods / services" {
		return GoodsServices, nil
	}
	return lookup("Contribution Type", s, Monetary, GoodsServices)
}

func ParseContributorType(s string) (ContributorType, error) {
	return lookup("Contributor Type", s, Individual, Corporation, TradeUnion, CandidateSelf, SpouseOfCandidate)
}

func ParseRegistrantType(s string) (RegistrantType, error) {
	return lookup("Registrant Type", s, RegistrantCandidate, ThirdParty)
}

func ParseOffice(s string) (Office, error) {
	return lookup("Office", s, Mayor, Councillor, TDSBTrustee, TCDSBTrustee, CSVTrustee, CSCMTrustee)
}

// Contribution is one disclosed contribution.
type Contribution struct {
	ContributorName       string           `json:"contributor_name"`
	ContributorAddress    string           `json:"contributor_address"`
	ContributorPostalCode string           `json:"contributor_postal_code"`
	Amount                decimal.Decimal  `json:"amount"`
	Date                  time.Time        `json:"date"`
	ContributionType      ContributionType `json:"contribution_type"`
	ContributorType       ContributorType  `json:"contributor_type"`
	Description           string           `json:"goods_service_description"`
	RegistrantName        string           `json:"registrant_name"`
	RegistrantType        RegistrantType   `json:"registrant_type"`
	Office                Office           `json:"office"`
	Ward                  int              `json:"ward"`
}
