package service

import (
	"strings"

	"election-ingest/internal/results/model"
)

// officeRule is everything that differs between contest types.
type officeRule struct {
	// dropLabelRow: the contest prints its office name in a row under the column headers
	dropLabelRow bool
	// ward picks the ward out of the whitespace-split unit label
	ward   func(tokens []string) (string, bool)
	office func(t model.OfficeType, ward string) string
}

var officeRules = map[model.OfficeType]officeRule{
	model.Mayor: {
		dropLabelRow: true,
		// "Ward 05 Totals" -> "Ward 05"
		ward: func(tok []string) (string, bool) {
			if len(tok) < 2 {
				return "", false
			}
			return strings.Join(tok[:len(tok)-1], " "), true
		},
		office: func(model.OfficeType, string) string { return "Mayor" },
	},
	model.Councillor: {
		dropLabelRow: true,
		// "City Ward 12 Totals" -> "12"
		ward: func(tok []string) (string, bool) {
			if len(tok) < 3 {
				return "", false
			}
			return tok[2], true
		},
		office: func(_ model.OfficeType, ward string) string { return "Councillor Ward " + ward },
	},
	model.TDSBTrustee: {
		ward:   secondToLast,
		office: trusteeOffice,
	},
	model.TCDSBTrustee: {
		ward:   secondToLast,
		office: trusteeOffice,
	},
}

func secondToLast(tok []string) (string, bool) {
	if len(tok) < 2 {
		return "", false
	}
	return tok[len(tok)-2], true
}

// "TDSB Trustee" + "12" -> "TDSB Trustee 12"
func trusteeOffice(t model.OfficeType, ward string) string { return string(t) + " " + ward }

// DropsLabelRow reports whether sheets of this office type carry the extra label row.
func DropsLabelRow(t model.OfficeType) bool { return officeRules[t].dropLabelRow }

// Label maps an office type, unit label and sheet title to the canonical office and ward.
// It is a pure function of its inputs.
func Label(t model.OfficeType, unitLabel, context string) (office, ward string, err error) {
	rule, ok := officeRules[t]
	if !ok {
		return "", "", &LabelParseError{Office: string(t), Label: unitLabel, Context: context}
	}
	ward, ok = rule.ward(strings.Fields(unitLabel))
	if !ok {
		return "", "", &LabelParseError{Office: string(t), Label: unitLabel, Context: context}
	}
	return rule.office(t, ward), ward, nil
}
