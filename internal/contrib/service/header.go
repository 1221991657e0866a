package service

import (
	"regexp"
	"strings"
)

var (
	rxSpaces = regexp.MustCompile(`\s+`)
	rxSlash  = regexp.MustCompile(` */ *`)
	rxPunct  = regexp.MustCompile(`[^\p{L}\p{N}/]+`)
)

// CleanHeader turns a wrapped export header such as "Goods /\nService  Description"
// into "Goods/Service Description".
func CleanHeader(s string) string {
	s = strings.ReplaceAll(s, "\n", " ")
	s = rxSpaces.ReplaceAllString(s, " ")
	s = rxSlash.ReplaceAllString(s, "/")
	return strings.TrimSpace(s)
}

// normHeaderKey compares headers ignoring case and punctuation other than "/".
func normHeaderKey(s string) string {
	s = strings.ToLower(CleanHeader(s))
	s = rxPunct.ReplaceAllString(s, " ")
	return strings.Join(strings.Fields(s), " ")
}

// resolveColumn finds the column for a wanted header. want may list alternatives
// separated by "|". An exact normalized match wins, then the longest containment.
func resolveColumn(headers []string, want string) int {
	var alts []string
	for _, a := range strings.Split(want, "|") {
		if a = normHeaderKey(a); a != "" {
			alts = append(alts, a)
		}
	}
	best, bestScore := -1, 0
	for i, h := range headers {
		nh := normHeaderKey(h)
		if nh == "" {
			continue
		}
		for _, a := range alts {
			if nh == a {
				return i
			}
			if strings.Contains(nh, a) && len(a) > bestScore {
				best, bestScore = i, len(a)
			}
		}
	}
	return best
}
