package extraction

import (
	"strings"

	"github.com/jonathan/resume-parser/internal/rules"
	"github.com/jonathan/resume-parser/internal/sections"
	"github.com/jonathan/resume-parser/internal/types"
)

// ExtractSkills splits every skills line on commas, semicolons and bullet
// glyphs and files each token under the first category whose indicator it
// contains. Duplicates are dropped per category by exact match, keeping the
// first occurrence.
func ExtractSkills(paragraphs []types.Paragraph, table *rules.Table) types.SkillSet {
	skills := types.NewSkillSet()
	seen := make(map[types.SkillCategory]map[string]bool, len(types.SkillCategories))

	for _, p := range paragraphs {
		for _, token := range SplitSkills(p.Text) {
			category := table.SkillCategory(token)
			if seen[category] == nil {
				seen[category] = make(map[string]bool)
			}
			if seen[category][token] {
				continue
			}
			seen[category][token] = true
			skills.Append(category, token)
		}
	}
	return skills
}

// SplitSkills tokenizes one line, trimming whitespace and leading "-" or "*"
// markers and dropping empty tokens.
func SplitSkills(line string) []string {
	fields := strings.FieldsFunc(line, func(r rune) bool {
		return r == ',' || r == ';' || sections.IsBulletGlyph(r)
	})

	tokens := make([]string, 0, len(fields))
	for _, f := range fields {
		token := collapse(strings.TrimLeft(strings.TrimSpace(f), "-* "))
		if token != "" {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
