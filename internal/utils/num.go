package utils

import (
	"errors"
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	rxCount  = regexp.MustCompile(`^\d+$`)
	rxAmount = regexp.MustCompile(`^-?\d+(\.\d+)?$`)
)

// spaces and thousands separators that show up in exported numbers
var numReplacer = strings.NewReplacer("\u00A0", "", "\u202F", "", "\u2009", "", " ", "", "\t", "", ",", "")

// ParseCount parses a non-negative whole count such as "1,234", "1 234" or "12.0".
func ParseCount(s string) (int64, bool) {
	s = numReplacer.Replace(strings.TrimSpace(s))
	if s == "" {
		return 0, false
	}
	s = strings.TrimSuffix(s, ".0")
	if !rxCount.MatchString(s) {
		return 0, false
	}
	n, err := strconv.ParseInt(s, 10, 64)
	return n, err == nil
}

var errAmount = errors.New("not a monetary amount")

// ParseAmount parses "$1,234.50", "1234.5", "(25.00)" (negative) into an exact decimal.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	neg := false
	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}
	s = strings.TrimPrefix(numReplacer.Replace(s), "$")
	if strings.HasPrefix(s, "-$") {
		s = "-" + s[2:]
	}
	if !rxAmount.MatchString(s) {
		return decimal.Zero, errAmount
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, err
	}
	if neg {
		d = d.Neg()
	}
	return d, nil
}
