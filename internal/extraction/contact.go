package extraction

import (
	"regexp"
	"strings"
	"unicode"

	"github.com/jonathan/resume-parser/internal/rules"
	"github.com/jonathan/resume-parser/internal/types"
)

var emailPattern = regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9.-]+\.[A-Za-z]{2,}`)

// phonePatterns are tried in order; separators exclude newlines so a
// candidate never spans two paragraphs.
var phonePatterns = []*regexp.Regexp{
	// international, +CC followed by two to five digit groups
	regexp.MustCompile(`\+\d{1,3}(?:[ .-]?\(?\d{1,4}\)?){2,5}`),
	// US with leading country code 1
	regexp.MustCompile(`\b1[ .-]?\(?\d{3}\)?[ .-]?\d{3}[ .-]?\d{4}\b`),
	// parenthesized area code
	regexp.MustCompile(`\(\d{3}\) ?\d{3}[ .-]?\d{4}\b`),
	// dashed
	regexp.MustCompile(`\b\d{3}-\d{3}-\d{4}\b`),
	// dotted
	regexp.MustCompile(`\b\d{3}\.\d{3}\.\d{4}\b`),
	// space separated
	regexp.MustCompile(`\b\d{3} \d{3} \d{4}\b`),
}

const minPhoneDigits = 10

var (
	cityStateZipPattern = regexp.MustCompile(`\b([A-Z][A-Za-z.'-]*(?: [A-Z][A-Za-z.'-]*){0,3}),? +([A-Z]{2}),? +(\d{5}(?:-\d{4})?)\b`)
	cityStatePattern    = regexp.MustCompile(`\b([A-Z][A-Za-z.'-]*(?: [A-Z][A-Za-z.'-]*){0,3}), *([A-Z]{2})\b`)
)

// regionCodes are US states, DC, US territories and Canadian provinces.
var regionCodes = map[string]bool{
	"AL": true, "AK": true, "AZ": true, "AR": true, "CA": true, "CO": true, "CT": true, "DE": true,
	"FL": true, "GA": true, "HI": true, "ID": true, "IL": true, "IN": true, "IA": true, "KS": true,
	"KY": true, "LA": true, "ME": true, "MD": true, "MA": true, "MI": true, "MN": true, "MS": true,
	"MO": true, "MT": true, "NE": true, "NV": true, "NH": true, "NJ": true, "NM": true, "NY": true,
	"NC": true, "ND": true, "OH": true, "OK": true, "OR": true, "PA": true, "RI": true, "SC": true,
	"SD": true, "TN": true, "TX": true, "UT": true, "VT": true, "VA": true, "WA": true, "WV": true,
	"WI": true, "WY": true, "DC": true,
	"PR": true, "GU": true, "VI": true, "AS": true, "MP": true,
	"AB": true, "BC": true, "MB": true, "NB": true, "NL": true, "NS": true, "NT": true, "NU": true,
	"ON": true, "PE": true, "QC": true, "SK": true, "YT": true,
}

var linkedInPattern = regexp.MustCompile(`(?i)\b(?:https?://)?(?:[a-z]{2,3}\.)?linkedin\.com/in/([A-Za-z0-9_%-]+)`)

// Name scoring weights.
const (
	nameFirstWeight     = 2
	nameHeaderWeight    = 2
	nameTitleCaseWeight = 3
	nameLengthWeight    = 1
	nameMaxWords        = 4
)

// ExtractContact reads contact details from the paragraphs that precede the
// first header followed by the contact bucket. Each field is found
// independently; a field with no acceptable match is the sentinel.
func ExtractContact(paragraphs []types.Paragraph, table *rules.Table) types.ContactInfo {
	contact := types.EmptyContactInfo()
	lines := make([]string, 0, len(paragraphs))
	for _, p := range paragraphs {
		lines = append(lines, p.Text)
	}

	if email, ok := FindEmail(lines); ok {
		contact.Email = email
	}
	if phone, ok := FindPhone(lines); ok {
		contact.Phone = phone
	}
	if location, ok := FindLocation(lines); ok {
		contact.Location = location
	}
	if linkedIn, ok := FindLinkedIn(lines); ok {
		contact.LinkedIn = linkedIn
	}
	if name, ok := FindName(paragraphs, table.Contact); ok {
		contact.Name = name
	}
	return contact
}

// FindEmail returns the first email address in document order.
func FindEmail(lines []string) (string, bool) {
	for _, line := range lines {
		if m := emailPattern.FindString(line); m != "" {
			return m, true
		}
	}
	return "", false
}

// FindPhone returns the first candidate, in format order then text order,
// whose normalized form carries at least ten digits. The normalized form
// keeps only digits and '+'.
func FindPhone(lines []string) (string, bool) {
	for _, pattern := range phonePatterns {
		for _, line := range lines {
			for _, candidate := range pattern.FindAllString(line, -1) {
				normalized, digits := NormalizePhone(candidate)
				if digits >= minPhoneDigits {
					return normalized, true
				}
			}
		}
	}
	return "", false
}

// NormalizePhone strips every character except digits and '+', returning
// the result and its digit count.
func NormalizePhone(raw string) (string, int) {
	var sb strings.Builder
	digits := 0
	for _, r := range raw {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
			digits++
		case r == '+':
			sb.WriteRune(r)
		}
	}
	return sb.String(), digits
}

// FindLocation returns the first "City, ST ZIP" match, falling back to the
// first "City, ST" match, with ST a known region code.
func FindLocation(lines []string) (string, bool) {
	collapsed := make([]string, len(lines))
	for i, line := range lines {
		collapsed[i] = collapse(line)
	}
	for _, line := range collapsed {
		for _, m := range cityStateZipPattern.FindAllStringSubmatch(line, -1) {
			if regionCodes[m[2]] {
				return m[1] + ", " + m[2] + " " + m[3], true
			}
		}
	}
	for _, line := range collapsed {
		for _, m := range cityStatePattern.FindAllStringSubmatch(line, -1) {
			if regionCodes[m[2]] {
				return m[1] + ", " + m[2], true
			}
		}
	}
	return "", false
}

// FindLinkedIn returns the first LinkedIn profile as linkedin.com/in/<slug>.
func FindLinkedIn(lines []string) (string, bool) {
	for _, line := range lines {
		if m := linkedInPattern.FindStringSubmatch(line); m != nil {
			return "linkedin.com/in/" + m[1], true
		}
	}
	return "", false
}

// FindName scores the first paragraphs of the window and returns the best
// candidate that reaches the minimum score. Ties keep the earliest paragraph.
func FindName(paragraphs []types.Paragraph, cfg rules.ContactRules) (string, bool) {
	window := cfg.NameWindow
	if window > len(paragraphs) {
		window = len(paragraphs)
	}

	best, bestScore := "", 0
	for i := 0; i < window; i++ {
		score := nameScore(i, paragraphs[i], cfg)
		if score >= cfg.NameMinScore && score > bestScore {
			best, bestScore = paragraphs[i].Text, score
		}
	}
	return best, best != ""
}

// nameScore returns 0 for disqualified candidates.
func nameScore(index int, p types.Paragraph, cfg rules.ContactRules) int {
	text := strings.TrimSpace(p.Text)
	if text == "" || nameDisqualified(text, cfg.NameStopwords) {
		return 0
	}

	score := 0
	if index == 0 {
		score += nameFirstWeight
	}
	if p.IsHeader {
		score += nameHeaderWeight
	}
	if isTitleCase(text, cfg.NameParticles) {
		score += nameTitleCaseWeight
	}
	if n := len(strings.Fields(text)); n >= 1 && n <= nameMaxWords {
		score += nameLengthWeight
	}
	return score
}

func nameDisqualified(text string, stopwords []string) bool {
	lower := strings.ToLower(text)
	if strings.ContainsAny(text, "@0123456789") ||
		strings.Contains(lower, "http") ||
		strings.Contains(lower, "www.") ||
		strings.Contains(lower, "linkedin") {
		return true
	}
	for _, sw := range stopwords {
		if containsWord(text, sw) {
			return true
		}
	}
	return false
}

// isTitleCase accepts capitalized words ("Anne", "O'Neil", "Smith-Jones"),
// initials ("J.", "JR") of up to two letters, and lowercase name particles.
// At least one word must be a capitalized word or initial.
func isTitleCase(text string, particles []string) bool {
	words := strings.Fields(text)
	if len(words) == 0 {
		return false
	}

	named := false
	for _, w := range words {
		switch {
		case isInitial(w):
			named = true
		case isCapitalizedWord(w):
			named = true
		case isParticle(w, particles):
		default:
			return false
		}
	}
	return named
}

func isInitial(w string) bool {
	w = strings.TrimSuffix(w, ".")
	r := []rune(w)
	if len(r) == 0 || len(r) > 2 {
		return false
	}
	for _, c := range r {
		if !unicode.IsUpper(c) {
			return false
		}
	}
	return true
}

// isCapitalizedWord checks each hyphen or apostrophe separated part.
func isCapitalizedWord(w string) bool {
	w = strings.TrimRight(w, ".,")
	parts := strings.FieldsFunc(w, func(r rune) bool { return r == '-' || r == '\'' || r == '’' })
	if len(parts) == 0 {
		return false
	}
	for i, part := range parts {
		r := []rune(part)
		for j, c := range r {
			if !unicode.IsLetter(c) {
				return false
			}
			if j == 0 && i == 0 && !unicode.IsUpper(c) {
				return false
			}
			if j > 0 && !unicode.IsLower(c) {
				return false
			}
		}
	}
	return true
}

func isParticle(w string, particles []string) bool {
	for _, p := range particles {
		if w == p {
			return true
		}
	}
	return false
}
