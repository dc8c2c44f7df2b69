package extraction

import (
	"strings"
	"unicode"

	"github.com/jonathan/resume-parser/internal/rules"
	"github.com/jonathan/resume-parser/internal/types"
)

type experienceState int

const (
	awaitingEntry experienceState = iota
	inEntry
)

const maxBoundaryWords = 4

// entryBuilder accumulates one position; empty scalars become the sentinel.
type entryBuilder struct {
	company      string
	position     string
	duration     string
	description  []string
	achievements []string
	// body is set once a description line is appended; the position slot
	// closes with it.
	body bool
}

func (b *entryBuilder) build() types.ExperienceEntry {
	orSentinel := func(s string) string {
		if s == "" {
			return types.NoInformation
		}
		return s
	}
	return types.ExperienceEntry{
		Company:      orSentinel(b.company),
		Position:     orSentinel(b.position),
		Duration:     orSentinel(b.duration),
		Description:  append([]string{}, b.description...),
		Achievements: append([]string{}, b.achievements...),
	}
}

// ExtractExperience reconstructs positions from the experience bucket in a
// single pass without lookahead. A boundary line opens a new entry with the
// line as company. Inside an entry the first non-date line becomes the
// position (and may also supply the duration), the first dated line becomes
// the duration, and everything else is description. Lines before the first
// boundary are ignored. Once an entry has description lines, only a boundary
// can claim a line outside the description.
func ExtractExperience(paragraphs []types.Paragraph, table *rules.Table) []types.ExperienceEntry {
	entries := []types.ExperienceEntry{}
	state := awaitingEntry
	var current *entryBuilder

	for _, p := range paragraphs {
		line := collapse(p.Text)
		if line == "" {
			continue
		}

		switch state {
		case awaitingEntry:
			if isEntryBoundary(p, line, table.Experience) {
				current = &entryBuilder{company: line}
				state = inEntry
			}

		case inEntry:
			dateOnly := isDateOnly(line)
			switch {
			case !current.body && current.position == "" && !dateOnly && !hasBulletPrefix(line):
				current.position = line
				if current.duration == "" && hasDuration(line) {
					current.duration = extractDuration(line)
				}
			case isEntryBoundary(p, line, table.Experience):
				entries = append(entries, current.build())
				current = &entryBuilder{company: line}
			case current.duration == "" && hasDuration(line):
				current.duration = extractDuration(line)
			default:
				text := line
				if hasBulletPrefix(line) {
					text = stripBullet(line)
				}
				if text == "" {
					continue
				}
				current.description = append(current.description, text)
				current.body = true
				if isAchievement(text, table.Experience.AchievementMarkers) {
					current.achievements = append(current.achievements, text)
				}
			}
		}
	}

	if current != nil {
		entries = append(entries, current.build())
	}
	return entries
}

// isEntryBoundary decides on the current line alone whether a new position
// starts. Bulleted and date-only lines never start one.
func isEntryBoundary(p types.Paragraph, line string, cfg rules.ExperienceRules) bool {
	if hasBulletPrefix(line) || isDateOnly(line) {
		return false
	}
	if p.IsHeader {
		return true
	}

	first := []rune(line)[0]
	if unicode.IsUpper(first) && len(strings.Fields(line)) <= maxBoundaryWords {
		return true
	}

	lower := strings.ToLower(line)
	for _, prefix := range cfg.SeniorityPrefixes {
		if strings.HasPrefix(lower, strings.ToLower(prefix)+" ") {
			return true
		}
	}
	return false
}

// isAchievement reports whether a description line reads as a quantified result.
func isAchievement(text string, markers []string) bool {
	if strings.ContainsAny(text, "%$") {
		return true
	}
	for _, m := range markers {
		if containsWord(text, m) {
			return true
		}
	}
	return false
}
