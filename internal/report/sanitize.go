package report

import "strings"

// Spreadsheet sheet names are limited to 31 characters. Names keep at most
// 25 of them so a short prefix always fits.
const (
	maxSheetName   = 31
	maxSheetBase   = 25
	maxSheetPrefix = maxSheetName - maxSheetBase
)

// SheetName builds a sheet name from prefix and name: characters that are
// illegal in sheet names (: \ / ? * [ ]) are removed, name is cut to 25
// characters and prefix to the remaining 6. Leading and trailing apostrophes
// are trimmed. An empty result becomes "Sheet".
func SheetName(prefix, name string) string {
	p := truncate(stripSheetChars(prefix), maxSheetPrefix)
	n := truncate(stripSheetChars(name), maxSheetBase)
	out := strings.Trim(p+n, "'")
	out = strings.TrimSpace(out)
	if out == "" {
		return "Sheet"
	}
	return out
}

func stripSheetChars(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			return -1
		}
		return r
	}, s)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
