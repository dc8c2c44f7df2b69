package extraction

import (
	"regexp"
	"strings"
)

const (
	monthExpr = `\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?`
	pointExpr = `(?:(?:` + monthExpr + `\s+)?(?:19|20)\d{2}\b|\b\d{1,2}/(?:19|20)\d{2}\b)`
	endExpr   = `(?:` + pointExpr + `|\bpresent\b|\bcurrent\b|\bnow\b)`
)

var (
	// durationMarker decides whether a line carries a duration at all.
	durationMarker = regexp.MustCompile(`(?i)\b(?:19|20)\d{2}\b|\bpresent\b|\bcurrent\b`)

	// dateRangePattern isolates "Jan 2020 - Present", "2019 to 2021", "03/2018".
	dateRangePattern = regexp.MustCompile(`(?i)` + pointExpr + `(?:\s*(?:-|–|—|to|until)\s*` + endExpr + `)?`)

	// openRangePattern covers "Present" or "Current" alone.
	openRangePattern = regexp.MustCompile(`(?i)\b(?:present|current)\b`)

	yearPattern = regexp.MustCompile(`\b(?:19|20)\d{2}\b`)
)

// hasDuration reports whether the line mentions a year or an open-ended marker.
func hasDuration(line string) bool {
	return durationMarker.MatchString(line)
}

// extractDuration returns the date range on the line, or the whole trimmed
// line when no range can be isolated.
func extractDuration(line string) string {
	if m := dateRangePattern.FindString(line); m != "" {
		return strings.TrimSpace(m)
	}
	if m := openRangePattern.FindString(line); m != "" {
		return m
	}
	return collapse(line)
}

// isDateOnly reports whether nothing but dates and separators remain once
// every date range is removed.
func isDateOnly(line string) bool {
	if !hasDuration(line) {
		return false
	}
	rest := dateRangePattern.ReplaceAllString(line, "")
	rest = openRangePattern.ReplaceAllString(rest, "")
	rest = strings.TrimFunc(rest, func(r rune) bool {
		return strings.ContainsRune(" \t-–—,;:|()[]/", r)
	})
	return rest == ""
}
