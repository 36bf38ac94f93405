package dataset

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

var separatorRuns = regexp.MustCompile(`[\s-]+`)

// Slugify turns a feed display name into a stable file name stem:
// characters other than letters, digits, underscores, whitespace and hyphens
// are dropped, then whitespace and hyphen runs collapse to one underscore.
func Slugify(name string) string {
	name = norm.NFC.String(name)

	kept := strings.Map(func(r rune) rune {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '-' || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, name)

	return separatorRuns.ReplaceAllString(strings.TrimSpace(kept), "_")
}
