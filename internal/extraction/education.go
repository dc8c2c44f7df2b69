package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-parser/internal/types"
)

const fieldExpr = `(?:\s+(?:of|in)\s+[A-Z][A-Za-z&.-]*(?:\s+(?:and\s+|&\s+)?[A-Z][A-Za-z&.-]*)*){0,2}`

var (
	// degreePattern matches abbreviations with or without dots (B.Sc. and
	// M.Sc. included) and the spelled-out forms, each with an optional
	// "of <Field>" / "in <Field>".
	degreePattern = regexp.MustCompile(
		`(?:\b(?:Ph\.\s?D\.?|PhD\b|M\.B\.A\.?|MBA\b|[BM]\.Sc\.?|[BM]Sc\b|[BM]\.[SA](?:\.|\b)|BS\b|BA\b|MS\b|MA\b)` +
			`|\b(?i:bachelor|master|doctorate|doctor)(?:'s|’s|s)?\b)` + fieldExpr)

	institutionSplit = regexp.MustCompile(`[,;|()\[\]]|\s[-–—]+(?:\s|$)|^[-–—]+\s`)
)

// ExtractEducation opens one entry per degree-bearing line. The graduation
// year is the last year on that line and the institution is whatever remains
// after the degree and years are removed. Lines without a degree are ignored.
func ExtractEducation(paragraphs []types.Paragraph) []types.EducationEntry {
	entries := []types.EducationEntry{}
	for _, p := range paragraphs {
		line := collapse(p.Text)
		if hasBulletPrefix(line) {
			line = stripBullet(line)
		}
		if line == "" {
			continue
		}

		loc := findDegree(line)
		if loc == nil {
			continue
		}

		entry := types.EducationEntry{
			Degree:         strings.TrimSpace(line[loc[0]:loc[1]]),
			Institution:    types.NoInformation,
			GraduationYear: types.NoInformation,
		}
		if years := yearPattern.FindAllString(line, -1); len(years) > 0 {
			entry.GraduationYear = years[len(years)-1]
		}
		if inst := institution(line[:loc[0]] + " " + line[loc[1]:]); inst != "" {
			entry.Institution = inst
		}
		entries = append(entries, entry)
	}
	return entries
}

// findDegree returns the span of the first degree match. Undotted two-letter
// abbreviations count only when followed by a word, so "Boston, MA 02115"
// is not read as a Master of Arts.
func findDegree(line string) []int {
	for _, loc := range degreePattern.FindAllStringIndex(line, -1) {
		match := line[loc[0]:loc[1]]
		if isBareTwoLetter(match) && !followedByWord(line[loc[1]:]) {
			continue
		}
		return loc
	}
	return nil
}

func isBareTwoLetter(match string) bool {
	switch match {
	case "BS", "BA", "MS", "MA":
		return true
	}
	return false
}

func followedByWord(rest string) bool {
	trimmed := strings.TrimLeft(rest, " ")
	if trimmed == "" || len(trimmed) == len(rest) {
		return false
	}
	return unicode.IsLetter([]rune(trimmed)[0])
}

// institution strips years and separators from what remains of the line.
func institution(rest string) string {
	rest = yearPattern.ReplaceAllString(rest, " ")
	parts := []string{}
	for _, part := range institutionSplit.Split(rest, -1) {
		part = strings.TrimFunc(part, func(r rune) bool {
			return unicode.IsSpace(r) || strings.ContainsRune("-–—,.:", r)
		})
		if part != "" {
			parts = append(parts, collapse(part))
		}
	}
	return strings.Join(parts, ", ")
}
