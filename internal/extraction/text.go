// Package extraction turns classified section buckets into structured
// contact, experience, education and skill records.
//
// Every extractor is total: a missing field resolves to
// types.NoInformation or an empty list, never to an error.
package extraction

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-parser/internal/sections"
)

// hasBulletPrefix reports whether the line opens with a list marker.
func hasBulletPrefix(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	r := []rune(line)
	if sections.IsBulletGlyph(r[0]) {
		return true
	}
	switch r[0] {
	case '-', '*', '–', '—':
		return len(r) == 1 || unicode.IsSpace(r[1])
	}
	return false
}

// stripBullet removes leading list markers and surrounding whitespace.
func stripBullet(line string) string {
	return strings.TrimSpace(strings.TrimLeftFunc(strings.TrimSpace(line), func(r rune) bool {
		return sections.IsBulletGlyph(r) || r == '-' || r == '*' || r == '–' || r == '—' || unicode.IsSpace(r)
	}))
}

// collapse folds whitespace runs to single spaces.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// containsWord reports whether the phrase occurs in text on word boundaries,
// ignoring case.
func containsWord(text, phrase string) bool {
	words := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	target := strings.Fields(strings.ToLower(phrase))
	if len(target) == 0 || len(words) < len(target) {
		return false
	}
	for i := 0; i+len(target) <= len(words); i++ {
		match := true
		for j, w := range target {
			if words[i+j] != w {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
